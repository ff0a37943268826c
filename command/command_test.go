//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
package command

import (
	"testing"

	"github.com/rkuang/coretext/editor"
	"github.com/rkuang/coretext/ioadapt"
	"github.com/rkuang/coretext/types"
)

type fakeClipboard struct {
	text   string
	column bool
}

func (c *fakeClipboard) Put(text string, column bool) { c.text, c.column = text, column }
func (c *fakeClipboard) Get() (string, bool)           { return c.text, c.column }

func newTestExecutor() *Executor {
	opts := types.DefaultOptions()
	ed := editor.New(&opts, nil, nil)
	return New(ed, &fakeClipboard{}, 10)
}

func typeString(x *Executor, s string) {
	for _, r := range s {
		x.Dispatch(CmdNone, r)
	}
}

func TestInsertAndUndoWholeCommand(t *testing.T) {
	x := newTestExecutor()
	typeString(x, "abc")
	if got := string(x.Ed.Buf.Bytes()); got != "abc" {
		t.Fatalf("Bytes() = %q, want abc", got)
	}
	// each typed char is dispatched (and BeginCommand'd) separately, so
	// one Undo reverses only the most recent character.
	x.Dispatch(CmdUndo, -1)
	if got := string(x.Ed.Buf.Bytes()); got != "ab" {
		t.Fatalf("after Undo, Bytes() = %q, want ab", got)
	}
}

func TestMarkRightThenInsertReplacesSelection(t *testing.T) {
	x := newTestExecutor()
	typeString(x, "hello")
	x.Dispatch(CmdHome, -1)
	x.Dispatch(CmdMarkRight, -1)
	x.Dispatch(CmdMarkRight, -1)
	if !x.Ed.Marks.HasSelection() {
		t.Fatalf("expected an active selection after MarkRight x2")
	}
	x.Dispatch(CmdNone, 'Z')
	if got := string(x.Ed.Buf.Bytes()); got != "Zllo" {
		t.Fatalf("Bytes() = %q, want Zllo", got)
	}
}

func TestOverwriteModeReplacesChar(t *testing.T) {
	x := newTestExecutor()
	x.Ed.Opts.Overwrite = true
	typeString(x, "abc")
	x.Dispatch(CmdHome, -1)
	x.Dispatch(CmdNone, 'Z')
	if got := string(x.Ed.Buf.Bytes()); got != "Zbc" {
		t.Fatalf("Bytes() = %q, want Zbc", got)
	}
}

func TestTabFillsWithSpacesWhenConfigured(t *testing.T) {
	x := newTestExecutor()
	x.Ed.Opts.FillTabsWithSpaces = true
	x.Ed.Opts.TabSpacing = 4
	x.Dispatch(CmdTab, -1)
	if got := string(x.Ed.Buf.Bytes()); got != "    " {
		t.Fatalf("Bytes() = %q, want 4 spaces", got)
	}
}

func TestEnterAutoIndentCopiesLeadingWhitespace(t *testing.T) {
	x := newTestExecutor()
	x.Ed.Opts.ReturnDoesAutoIndent = true
	typeString(x, "  abc")
	x.Dispatch(CmdEnter, -1)
	typeString(x, "d")
	if got := string(x.Ed.Buf.Bytes()); got != "  abc\n  d" {
		t.Fatalf("Bytes() = %q, want %q", got, "  abc\n  d")
	}
}

func TestCutThenPasteRoundTrips(t *testing.T) {
	x := newTestExecutor()
	typeString(x, "hello")
	x.Dispatch(CmdHome, -1)
	x.Dispatch(CmdMarkRight, -1)
	x.Dispatch(CmdMarkRight, -1)
	x.Dispatch(CmdCut, -1)
	if got := string(x.Ed.Buf.Bytes()); got != "llo" {
		t.Fatalf("after Cut, Bytes() = %q, want llo", got)
	}
	x.Dispatch(CmdEnd, -1)
	x.Dispatch(CmdPaste, -1)
	if got := string(x.Ed.Buf.Bytes()); got != "llohe" {
		t.Fatalf("after Paste, Bytes() = %q, want llohe", got)
	}
}

func TestColumnCopyThenPasteInsertsPerRow(t *testing.T) {
	x := newTestExecutor()
	typeString(x, "aaa\nbbb\nccc\n")
	x.Dispatch(CmdTop, -1)
	x.Dispatch(CmdRight, -1)
	x.Dispatch(CmdColumnHighlightOn, -1)
	x.Dispatch(CmdMarkDown, -1)
	x.Dispatch(CmdMarkDown, -1)
	x.Dispatch(CmdCopy, -1)

	clip := x.Clipboard.(*fakeClipboard)
	if !clip.column {
		t.Fatalf("clipboard column flag = false, want true")
	}
	if _, isColumn := ioadapt.DecodeColumnBlock([]byte(clip.text)); !isColumn {
		t.Fatalf("clipboard payload %q does not carry the column-block magic prefix", clip.text)
	}

	// overwrite the clipboard payload with a worked example so the
	// paste side is tested independently of the copy side's exact
	// row-join format.
	clip.text = string(ioadapt.EncodeColumnBlock("X\nY\nZ"))
	clip.column = true

	x.Dispatch(CmdTop, -1)
	x.Dispatch(CmdRight, -1)
	x.Dispatch(CmdPaste, -1)
	if got := string(x.Ed.Buf.Bytes()); got != "aXaa\nbYbb\ncZcc\n" {
		t.Fatalf("after column Paste, Bytes() = %q, want aXaa\\nbYbb\\ncZcc\\n", got)
	}
}

func TestGotoLineMovesCursorToLineStart(t *testing.T) {
	x := newTestExecutor()
	typeString(x, "one\ntwo\nthree\n")
	x.GotoLine(1)
	if got := string(x.Ed.Buf.Bytes()[x.Ed.Buf.Curs1():x.Ed.Buf.Eol(x.Ed.Buf.Curs1())]); got != "two" {
		t.Fatalf("after GotoLine(1), current line = %q, want two", got)
	}
}

func TestMatchBracketJumps(t *testing.T) {
	x := newTestExecutor()
	typeString(x, "(foo)")
	x.Dispatch(CmdTop, -1)
	x.Dispatch(CmdMatchBracket, -1)
	if x.Ed.Buf.Curs1() != 4 {
		t.Fatalf("Curs1() = %d, want 4", x.Ed.Buf.Curs1())
	}
}

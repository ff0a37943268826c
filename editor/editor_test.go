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
package editor

import (
	"testing"

	"github.com/rkuang/coretext/types"
)

func newTestEditor() *Editor {
	opts := types.DefaultOptions()
	return New(&opts, nil, nil)
}

func insertString(e *Editor, s string) {
	for i := 0; i < len(s); i++ {
		e.Insert(s[i])
	}
}

func TestInsertThenUndoRestoresText(t *testing.T) {
	e := newTestEditor()
	e.BeginCommand()
	insertString(e, "hello")
	if got := string(e.Buf.Bytes()); got != "hello" {
		t.Fatalf("Bytes() = %q, want hello", got)
	}
	if !e.Undo() {
		t.Fatalf("Undo() = false, want true")
	}
	if got := string(e.Buf.Bytes()); got != "" {
		t.Fatalf("after Undo, Bytes() = %q, want empty", got)
	}
	if !e.Modified {
		t.Fatalf("Modified should still be true after undo (mc-editor semantics)")
	}
}

func TestUndoThenRedoRoundTrips(t *testing.T) {
	e := newTestEditor()
	e.BeginCommand()
	insertString(e, "abc")
	e.Undo()
	if got := string(e.Buf.Bytes()); got != "" {
		t.Fatalf("after Undo, Bytes() = %q", got)
	}
	e.Redo()
	if got := string(e.Buf.Bytes()); got != "abc" {
		t.Fatalf("after Redo, Bytes() = %q, want abc", got)
	}
}

func TestForwardEditClearsRedoLog(t *testing.T) {
	e := newTestEditor()
	e.BeginCommand()
	insertString(e, "abc")
	e.Undo()
	if e.RedoLog.Empty() {
		t.Fatalf("RedoLog should hold the undone command")
	}
	e.BeginCommand()
	e.Insert('z')
	if !e.RedoLog.Empty() {
		t.Fatalf("a forward edit must clear the redo log")
	}
}

func TestBackspaceUndoReinsertsSameByte(t *testing.T) {
	e := newTestEditor()
	e.BeginCommand()
	insertString(e, "hi")
	e.BeginCommand()
	e.Backspace()
	if got := string(e.Buf.Bytes()); got != "h" {
		t.Fatalf("after Backspace, Bytes() = %q", got)
	}
	e.Undo()
	if got := string(e.Buf.Bytes()); got != "hi" {
		t.Fatalf("after undoing Backspace, Bytes() = %q, want hi", got)
	}
}

func TestCursorMoveUndoRestoresPosition(t *testing.T) {
	e := newTestEditor()
	e.BeginCommand()
	insertString(e, "hello")
	e.BeginCommand()
	e.CursorMove(-3)
	if e.Buf.Curs1() != 2 {
		t.Fatalf("Curs1() = %d, want 2", e.Buf.Curs1())
	}
	e.Undo()
	if e.Buf.Curs1() != 5 {
		t.Fatalf("after undoing CursorMove, Curs1() = %d, want 5", e.Buf.Curs1())
	}
}

func TestNewlineInsertShiftsBookmarks(t *testing.T) {
	e := newTestEditor()
	e.BeginCommand()
	insertString(e, "one\ntwo\nthree")
	e.Bookmarks.Insert(2, 1) // bookmark on "three"
	e.CursorMove(-len("two\nthree"))
	// cursor now sits right after "one\n", i.e. at the start of line 1
	e.BeginCommand()
	e.Insert('\n')
	m, ok := e.Bookmarks.Find(3)
	if !ok || m.Line != 3 {
		t.Fatalf("bookmark did not shift: %+v, %v", m, ok)
	}
}

func TestColumnHighlightUndoRedo(t *testing.T) {
	e := newTestEditor()
	e.BeginCommand()
	e.SetColumnHighlight(true)
	if !e.Marks.ColumnHighlight {
		t.Fatalf("ColumnHighlight should be true")
	}
	e.Undo()
	if e.Marks.ColumnHighlight {
		t.Fatalf("ColumnHighlight should be false after undo")
	}
	e.Redo()
	if !e.Marks.ColumnHighlight {
		t.Fatalf("ColumnHighlight should be true after redo")
	}
}

func TestVisualColumnExpandsTabs(t *testing.T) {
	e := newTestEditor()
	e.BeginCommand()
	insertString(e, "a\tb")
	col := e.VisualColumn(e.Buf.Curs1())
	if col != 9 {
		t.Fatalf("VisualColumn = %d, want 9 (tab to width 8 + 'b')", col)
	}
}

func TestMoveToPrevColClampsShortLine(t *testing.T) {
	e := newTestEditor()
	e.BeginCommand()
	insertString(e, "longline\nhi")
	e.PrevCol = 6
	e.MoveToPrevCol(9) // bol of "hi"
	if e.Buf.Curs1() != 11 {
		t.Fatalf("Curs1() = %d, want 11 (clamped to end of short line)", e.Buf.Curs1())
	}
	if e.Opts.CursorBeyondEOL {
		t.Fatalf("default options should not set CursorBeyondEOL")
	}
	if e.OverCol != 0 {
		t.Fatalf("OverCol = %d, want 0 when CursorBeyondEOL is off", e.OverCol)
	}
}

func TestGotoLineUsesLineCache(t *testing.T) {
	e := newTestEditor()
	e.BeginCommand()
	insertString(e, "one\ntwo\nthree\nfour\n")
	e.CursorMove(-e.Buf.Curs1())

	e.GotoLine(2)
	if got := string(e.Buf.Bytes()[e.Buf.Curs1():e.Buf.Eol(e.Buf.Curs1())]); got != "three" {
		t.Fatalf("after GotoLine(2), current line = %q, want three", got)
	}

	e.GotoLine(0)
	if e.Buf.Curs1() != 0 {
		t.Fatalf("GotoLine(0) = %d, want 0", e.Buf.Curs1())
	}

	e.GotoLine(100)
	if got := e.Buf.Curs1(); got != e.Buf.Bol(e.Buf.Size()) {
		t.Fatalf("GotoLine(100) = %d, want last line's BOL %d", got, e.Buf.Bol(e.Buf.Size()))
	}
}

func TestMoveToPrevColBeyondEOLTracksOverCol(t *testing.T) {
	e := newTestEditor()
	opts := types.DefaultOptions()
	opts.CursorBeyondEOL = true
	e.Opts = &opts
	e.BeginCommand()
	insertString(e, "longline\nhi")
	e.PrevCol = 6
	e.MoveToPrevCol(9)
	if e.OverCol != 4 {
		t.Fatalf("OverCol = %d, want 4 (6 - len(\"hi\"))", e.OverCol)
	}
}

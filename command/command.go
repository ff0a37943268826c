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
// Package command implements the command executor (component H): it
// maps a (command, char) pair to a sequence of edit primitives on an
// *editor.Editor, enforcing the option policies spec.md §4.H
// describes (auto-indent, fake half-tabs, tab expansion, cursor-
// beyond-EOL, overwrite, persistent selection) and driving the
// highlight selection-gesture state machine. Word wrapping is not
// performed: the WordWrapLineLength and TypewriterWrap options are
// not read.
package command

import (
	"strings"

	"github.com/rkuang/coretext/editor"
	"github.com/rkuang/coretext/ioadapt"
	"github.com/rkuang/coretext/motion"
	"github.com/rkuang/coretext/types"
)

// Code identifies a command. Exactly one of (Code, Char) is
// meaningful per Dispatch call: Char >= 0 means "insert this
// character", any other Code value runs that command.
type Code int

const (
	CmdNone Code = iota

	CmdLeft
	CmdRight
	CmdUp
	CmdDown
	CmdWordLeft
	CmdWordRight
	CmdHome
	CmdEnd
	CmdPageUp
	CmdPageDown
	CmdTop
	CmdBottom
	CmdParagraphUp
	CmdParagraphDown
	CmdScrollUp
	CmdScrollDown

	CmdMarkLeft
	CmdMarkRight
	CmdMarkUp
	CmdMarkDown
	CmdMarkWordLeft
	CmdMarkWordRight
	CmdMarkHome
	CmdMarkEnd
	CmdMarkPageUp
	CmdMarkPageDown
	CmdMarkTop
	CmdMarkBottom
	CmdMarkParagraphUp
	CmdMarkParagraphDown

	CmdToggleMark
	CmdColumnHighlightOn
	CmdColumnHighlightOff

	CmdEnter
	CmdTab
	CmdBackspace
	CmdDelete
	CmdUndo
	CmdRedo

	CmdBlockShiftLeft
	CmdBlockShiftRight

	CmdCopy
	CmdCut
	CmdPaste
	CmdRemove

	CmdMatchBracket
)

var markCommand = map[Code]Code{
	CmdMarkLeft:          CmdLeft,
	CmdMarkRight:         CmdRight,
	CmdMarkUp:            CmdUp,
	CmdMarkDown:          CmdDown,
	CmdMarkWordLeft:      CmdWordLeft,
	CmdMarkWordRight:     CmdWordRight,
	CmdMarkHome:          CmdHome,
	CmdMarkEnd:           CmdEnd,
	CmdMarkPageUp:        CmdPageUp,
	CmdMarkPageDown:      CmdPageDown,
	CmdMarkTop:           CmdTop,
	CmdMarkBottom:        CmdBottom,
	CmdMarkParagraphUp:   CmdParagraphUp,
	CmdMarkParagraphDown: CmdParagraphDown,
}

// Executor runs commands against one editor.Editor.
type Executor struct {
	Ed        *editor.Editor
	Clipboard types.Clipboard

	highlighting bool // "MARKING" state of the §4.H gesture machine
	pageSize     int  // lines per PageUp/PageDown, set by the host
}

// New returns an executor over ed. pageSize is the number of lines a
// PageUp/PageDown command moves (the host's terminal height).
func New(ed *editor.Editor, clip types.Clipboard, pageSize int) *Executor {
	if pageSize <= 0 {
		pageSize = 24
	}
	return &Executor{Ed: ed, Clipboard: clip, pageSize: pageSize}
}

// Dispatch runs one command, or inserts char if char >= 0.
func (x *Executor) Dispatch(c Code, char rune) {
	e := x.Ed

	if c != CmdUndo && c != CmdRedo {
		e.BeginCommand()
	}

	if base, isMark := markCommand[c]; isMark {
		x.beginOrExtendMark()
		x.dispatchMotion(base)
		return
	}
	// Any command reaching here is not a shifted-motion command (those
	// returned above), so the highlight gesture ends here per §4.H.1.
	if c != CmdNone {
		x.highlighting = false
	}

	if char >= 0 {
		x.insertChar(byte(char))
		return
	}

	switch c {
	case CmdLeft:
		x.moveHorizontal(-1)
	case CmdRight:
		x.moveHorizontal(1)
	case CmdUp:
		e.MoveUpDown(1, true)
	case CmdDown:
		e.MoveUpDown(1, false)
	case CmdPageUp:
		e.MoveUpDown(x.pageSize, true)
	case CmdPageDown:
		e.MoveUpDown(x.pageSize, false)
	case CmdWordLeft:
		x.moveToOffset(motion.LeftWordMove(e.Buf, e.Buf.Curs1()))
	case CmdWordRight:
		x.moveToOffset(motion.RightWordMove(e.Buf, e.Buf.Curs1()))
	case CmdHome:
		x.moveToOffset(e.Buf.Bol(e.Buf.Curs1()))
		e.PrevCol = 0
	case CmdEnd:
		x.moveToOffset(e.Buf.Eol(e.Buf.Curs1()))
		e.PrevCol = e.VisualColumn(e.Buf.Curs1())
	case CmdTop:
		x.moveToOffset(0)
	case CmdBottom:
		x.moveToOffset(e.Buf.Size())
	case CmdParagraphUp:
		x.moveToOffset(motion.PrevParagraph(e.Buf, e.Buf.Curs1(), e.Buf.Bol, e.Buf.Eol))
	case CmdParagraphDown:
		x.moveToOffset(motion.NextParagraph(e.Buf, e.Buf.Curs1(), e.Buf.Bol, e.Buf.Eol))
	case CmdScrollUp:
		e.StartLine--
		if e.StartLine < 0 {
			e.StartLine = 0
		}
	case CmdScrollDown:
		e.StartLine++
	case CmdToggleMark:
		e.Marks.Toggle(e.Marks.HasSelection(), e.Buf.Curs1(), e.CursCol(), e.OverCol)
	case CmdColumnHighlightOn:
		e.SetColumnHighlight(true)
	case CmdColumnHighlightOff:
		e.SetColumnHighlight(false)
	case CmdEnter:
		x.enter()
	case CmdTab:
		x.insertTab()
	case CmdBackspace:
		x.backspace()
	case CmdDelete:
		x.delete()
	case CmdUndo:
		x.undo()
	case CmdRedo:
		e.Redo()
	case CmdBlockShiftLeft:
		x.blockShift(false)
	case CmdBlockShiftRight:
		x.blockShift(true)
	case CmdCopy, CmdCut, CmdRemove:
		x.clipboardOut(c)
	case CmdPaste:
		x.clipboardIn()
	case CmdMatchBracket:
		x.matchBracket()
	}
}


// beginOrExtendMark implements the highlight gesture machine (§4.H):
// the first shifted-motion command in a gesture clears any existing
// selection and starts a fresh "follows cursor" one; subsequent ones
// just extend it by moving the cursor.
func (x *Executor) beginOrExtendMark() {
	e := x.Ed
	if !x.highlighting {
		e.Marks.Clear()
		e.Marks.Toggle(false, e.Buf.Curs1(), e.CursCol(), e.OverCol)
		x.highlighting = true
	}
}

func (x *Executor) dispatchMotion(base Code) {
	x.Dispatch(base, -1)
	// the nested Dispatch of the plain motion ends the gesture; keep it
	// alive so the next shifted motion extends this selection.
	x.highlighting = true
	e := x.Ed
	e.Marks.EndMarkCurs = e.Buf.Curs1()
	e.Marks.Column2 = e.CursCol() + e.OverCol
}

func (x *Executor) moveToOffset(off int) {
	e := x.Ed
	e.CursorMove(off - e.Buf.Curs1())
	e.PrevCol = e.CursCol()
}

// moveHorizontal implements Left/Right, honoring fake-half-tab motion
// within the indent region (§4.H.5): a Left/Right inside a run of
// leading whitespace, aligned on a tab stop, with four spaces
// immediately in that direction, moves by a half-tab instead of one
// column.
func (x *Executor) moveHorizontal(dir int) {
	e := x.Ed
	pos := e.Buf.Curs1()
	bol := e.Buf.Bol(pos)
	if e.Opts.FakeHalfTabs && x.inIndentPublic(bol, pos) && (pos-bol)%4 == 0 {
		four := pos
		if dir < 0 {
			four = pos - 4
		}
		if four >= bol && x.fourSpacesAt(four) {
			e.CursorMove(4 * dir)
			e.PrevCol = e.CursCol()
			return
		}
	}
	e.CursorMove(dir)
	e.PrevCol = e.CursCol()
}

func (x *Executor) fourSpacesAt(off int) bool {
	e := x.Ed
	for i := 0; i < 4; i++ {
		if e.Buf.ByteAt(off+i) != ' ' {
			return false
		}
	}
	return true
}

func (x *Executor) insertChar(c byte) {
	e := x.Ed
	if !e.Opts.PersistentSelections && e.Marks.HasSelection() {
		x.deleteSelection()
	}
	if e.Opts.Overwrite && c != '\n' {
		if cur := e.Buf.CurrentByte(); cur != '\n' {
			e.Delete()
		}
	}
	if e.OverCol > 0 {
		for i := 0; i < e.OverCol; i++ {
			e.Insert(' ')
		}
		e.OverCol = 0
	}
	e.Insert(c)
	e.PrevCol = e.CursCol()
}

func (x *Executor) deleteSelection() {
	e := x.Ed
	start, end, ok := e.Marks.Evaluate(e.Buf.Bol, e.Buf.Eol)
	if !ok {
		return
	}
	e.CursorMove(start - e.Buf.Curs1())
	for i := start; i < end; i++ {
		e.Delete()
	}
	e.Marks.Clear()
}

func (x *Executor) enter() {
	e := x.Ed
	prevBol := e.Buf.Bol(e.Buf.Curs1())
	e.Insert('\n')
	if e.Opts.ReturnDoesAutoIndent {
		indentEnd := prevBol
		for indentEnd < e.Buf.Size() && (e.Buf.ByteAt(indentEnd) == ' ' || e.Buf.ByteAt(indentEnd) == '\t') {
			indentEnd++
		}
		for i := prevBol; i < indentEnd; i++ {
			e.Insert(e.Buf.ByteAt(i))
		}
	}
	if e.Opts.AutoParaFormatting && !x.surroundedByBlankLines() {
		e.Insert('\n')
	}
	e.PrevCol = 0
	e.OverCol = 0
}

func (x *Executor) surroundedByBlankLines() bool {
	e := x.Ed
	pos := e.Buf.Curs1()
	bol, eol := e.Buf.Bol(pos), e.Buf.Eol(pos)
	return bol == eol
}

// insertTab implements §4.H.6's tab policy.
func (x *Executor) insertTab() {
	e := x.Ed
	pos := e.Buf.Curs1()
	bol := e.Buf.Bol(pos)
	if e.Opts.FakeHalfTabs && x.inIndentPublic(bol, pos) {
		if pos-4 >= bol && x.fourSpacesAt(pos-4) {
			for i := 0; i < 4; i++ {
				e.Backspace()
			}
			e.Insert('\t')
			return
		}
		col := e.CursCol()
		target := col + (4 - col%4)
		for col < target {
			e.Insert(' ')
			col++
		}
		return
	}
	if e.Opts.FillTabsWithSpaces {
		tw := x.tabWidthPublic()
		col := e.CursCol()
		target := col + (tw - col%tw)
		for col < target {
			e.Insert(' ')
			col++
		}
		return
	}
	e.Insert('\t')
}

func (x *Executor) backspace() {
	e := x.Ed
	if e.Marks.HasSelection() && !e.Opts.PersistentSelections {
		x.deleteSelection()
		return
	}
	byteDelete := !e.Opts.BackspaceThroughTabs
	e.BackspaceRune(byteDelete)
}

func (x *Executor) delete() {
	e := x.Ed
	if e.Marks.HasSelection() && !e.Opts.PersistentSelections {
		x.deleteSelection()
		return
	}
	e.DeleteRune(false)
}

func (x *Executor) undo() {
	e := x.Ed
	e.Undo()
	if e.Opts.GroupUndo {
		for {
			a, ok := e.UndoLog.Peek()
			if !ok || a.Offset != e.StartDisplay {
				break
			}
			if !e.Undo() {
				break
			}
		}
	}
}

// blockShift implements §4.H.8, shifting every line of the current
// selection one tab stop left or right, from the last line to the
// first so earlier-line edits don't perturb later-line offsets
// already computed for this pass.
func (x *Executor) blockShift(right bool) {
	e := x.Ed
	start, end, ok := e.Marks.Evaluate(e.Buf.Bol, e.Buf.Eol)
	if !ok {
		return
	}
	var lines []int
	for off := start; off <= end && off <= e.Buf.Size(); off = e.Buf.Eol(off) + 1 {
		lines = append(lines, e.Buf.Bol(off))
		if e.Buf.Eol(off) >= e.Buf.Size() {
			break
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		bol := lines[i]
		e.CursorMove(bol - e.Buf.Curs1())
		if right {
			e.Insert('\t')
		} else {
			if e.Buf.ByteAt(bol) == '\t' {
				e.Delete()
			} else {
				for n := 0; n < 8 && e.Buf.ByteAt(e.Buf.Curs1()) == ' '; n++ {
					e.Delete()
				}
			}
		}
	}
}

func (x *Executor) clipboardOut(c Code) {
	e := x.Ed
	if x.Clipboard == nil {
		return
	}
	start, end, ok := e.Marks.Evaluate(e.Buf.Bol, e.Buf.Eol)
	if !ok {
		return
	}
	var wire []byte
	if e.Marks.ColumnHighlight {
		wire = ioadapt.EncodeColumnBlock(x.extractColumnBlock(start, end))
	} else {
		wire = e.Buf.Bytes()[start:end]
	}
	x.Clipboard.Put(string(wire), e.Marks.ColumnHighlight)
	if c == CmdCut || c == CmdRemove {
		e.CursorMove(start - e.Buf.Curs1())
		for i := start; i < end; i++ {
			e.Delete()
		}
		e.Marks.Clear()
	}
}

// extractColumnBlock builds the '\n'-joined per-row payload for a
// rectangular selection spanning [start, end]: each row contributes
// the substring between the selection's low and high visual columns,
// walked tab-aware the same way MoveToPrevCol walks a target column.
func (x *Executor) extractColumnBlock(start, end int) string {
	e := x.Ed
	lo, hi := x.columnBounds()
	var rows []string
	for off := start; off <= end && off <= e.Buf.Size(); off = e.Buf.Eol(off) + 1 {
		bol := e.Buf.Bol(off)
		loOff := x.visualOffset(bol, lo)
		hiOff := x.visualOffset(bol, hi)
		rows = append(rows, string(e.Buf.Bytes()[loOff:hiOff]))
		if e.Buf.Eol(off) >= e.Buf.Size() {
			break
		}
	}
	return strings.Join(rows, "\n")
}

func (x *Executor) columnBounds() (lo, hi int) {
	lo, hi = x.Ed.Marks.Column1, x.Ed.Marks.Column2
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// visualOffset walks forward from bol to the byte offset of visual
// column col on that line, clamped to the line's end.
func (x *Executor) visualOffset(bol, col int) int {
	e := x.Ed
	eol := e.Buf.Eol(bol)
	tw := x.tabWidthPublic()
	off, c := bol, 0
	for off < eol && c < col {
		if e.Buf.ByteAt(off) == '\t' {
			c += tw - c%tw
		} else {
			c++
		}
		off++
	}
	return off
}

func (x *Executor) clipboardIn() {
	e := x.Ed
	if x.Clipboard == nil {
		return
	}
	text, _ := x.Clipboard.Get()
	payload, isColumn := ioadapt.DecodeColumnBlock([]byte(text))
	if !isColumn {
		for i := 0; i < len(text); i++ {
			e.Insert(text[i])
		}
		return
	}
	x.pasteColumnBlock(payload)
}

// pasteColumnBlock inserts a '\n'-split column-block payload one row
// per buffer line, each row landing at the cursor's current visual
// column, starting on the cursor's line (§4.H.9).
func (x *Executor) pasteColumnBlock(payload []byte) {
	e := x.Ed
	rows := strings.Split(string(payload), "\n")
	col := e.CursCol()
	bol := e.Buf.Bol(e.Buf.Curs1())
	for i, row := range rows {
		off := x.visualOffset(bol, col)
		e.CursorMove(off - e.Buf.Curs1())
		for j := 0; j < len(row); j++ {
			e.Insert(row[j])
		}
		if i == len(rows)-1 {
			break
		}
		next := e.Buf.Eol(bol) + 1
		if next > e.Buf.Size() {
			break
		}
		bol = next
	}
}

// GotoLine moves the cursor to the start of 0-based line target via
// the line cache (component C). It bypasses Dispatch, whose (Code,
// rune) signature has no room for a numeric argument.
func (x *Executor) GotoLine(target int) {
	e := x.Ed
	e.BeginCommand()
	e.GotoLine(target)
}

func (x *Executor) matchBracket() {
	e := x.Ed
	pos := e.Buf.Curs1()
	m := motion.FindMatch(e.Buf, pos, e.Buf.Size())
	if m >= 0 {
		x.moveToOffset(m)
	}
}

func (x *Executor) inIndentPublic(bol, off int) bool {
	e := x.Ed
	for i := bol; i < off; i++ {
		c := e.Buf.ByteAt(i)
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}

func (x *Executor) tabWidthPublic() int {
	if x.Ed.Opts.TabSpacing > 0 {
		return x.Ed.Opts.TabSpacing
	}
	return 8
}

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

// Package editor wires the text buffer, markers, undo log, line
// cache and bookmarks together: it is the cursor & display anchor
// (component B) and the five edit primitives (component F) spec.md
// describes. The command executor (package command) and the loader/
// saver (package ioadapt) drive it; both also read and move the
// buffer, marks and logs through the Editor's exported fields.
package editor

import (
	"github.com/mattn/go-runewidth"

	"github.com/rkuang/coretext/bookmark"
	"github.com/rkuang/coretext/linecache"
	"github.com/rkuang/coretext/marker"
	"github.com/rkuang/coretext/textbuf"
	"github.com/rkuang/coretext/types"
	"github.com/rkuang/coretext/undo"
)

// Editor owns one buffer's full editable state: the split byte store,
// the undo and redo logs, the selection marks, the line cache, the
// bookmark list, and the cursor/display-anchor fields of spec.md §3.
type Editor struct {
	Buf       *textbuf.Buffer
	UndoLog   *undo.Log
	RedoLog   *undo.Log
	Marks     marker.Markers
	Cache     *linecache.Cache
	Bookmarks *bookmark.List
	Opts      *types.Options
	Dirty     types.DirtySink
	Lock      types.FileLock

	PrevCol      int // sticky column remembered across vertical moves
	OverCol      int // virtual columns past EOL, when CursorBeyondEOL is on
	StartDisplay int // byte offset of the first visible line
	StartLine    int // line number of StartDisplay
	StartCol     int // horizontal scroll

	Modified bool
	locked   bool

	undoing          bool // true while replaying the undo log
	pendingClearRedo bool // set by BeginCommand; cleared on first push
}

// New returns an editor over an empty buffer.
func New(opts *types.Options, lock types.FileLock, dirty types.DirtySink) *Editor {
	if opts == nil {
		o := types.DefaultOptions()
		opts = &o
	}
	if dirty == nil {
		dirty = types.NullDirtySink{}
	}
	return &Editor{
		Buf:       textbuf.New(),
		UndoLog:   undo.New(opts.MaxUndo),
		RedoLog:   undo.New(opts.MaxUndo),
		Cache:     linecache.New(1),
		Bookmarks: bookmark.New(),
		Opts:      opts,
		Dirty:     dirty,
		Lock:      lock,
	}
}

// LoadBytes fills an empty editor's buffer directly, bypassing the
// undo log (used by the loader, component I). It leaves Modified
// false.
func (e *Editor) LoadBytes(data []byte) {
	e.Buf = textbuf.NewFromBytes(data)
	e.Cache.Invalidate()
	e.Dirty.MarkFull()
}

func (e *Editor) tabWidth() int {
	if e.Opts.TabSpacing > 0 {
		return e.Opts.TabSpacing
	}
	return 8
}

// pushRouted records a onto the undo log, or the redo log while
// replaying an undo. The redo log is cleared exactly once per command,
// by the first push after BeginCommand: the key-press boundary that
// BeginCommand itself records.
func (e *Editor) pushRouted(a undo.Action) {
	if e.undoing {
		e.RedoLog.Push(a)
		return
	}
	if e.pendingClearRedo {
		e.RedoLog.Reset()
		e.pendingClearRedo = false
	}
	e.UndoLog.Push(a)
}

// BeginCommand is called by the command executor before dispatching
// any command other than Undo/Redo: it arms the one-shot redo-log
// reset and records a key-press boundary so a single Undo reverses
// everything the command does.
func (e *Editor) BeginCommand() {
	e.pendingClearRedo = true
	e.pushRouted(undo.Action{Kind: undo.KindKeyPress, Offset: e.StartDisplay})
}

func (e *Editor) modification() {
	e.Cache.Invalidate()
	if !e.Modified {
		e.Modified = true
		if e.Lock != nil {
			e.locked = e.Lock.Acquire()
		}
	}
}

// Insert pushes c immediately before the cursor (§4.F primitive 1).
func (e *Editor) Insert(c byte) {
	pos := e.Buf.Curs1()
	e.Buf.Insert(c)
	e.Marks.AdjustForInsert(pos, true)
	op := undo.OpBackspace
	if c == '\n' {
		op = undo.OpBackspaceBr
		e.Bookmarks.Inc(e.Buf.CursLine())
		e.Dirty.MarkFull()
	} else {
		e.Dirty.MarkLines(e.Buf.CursLine(), e.Buf.CursLine())
	}
	e.pushRouted(undo.Action{Kind: undo.KindOp, Op: op})
	e.modification()
}

// InsertAhead pushes c immediately after the cursor without moving
// the cursor (§4.F primitive 2).
func (e *Editor) InsertAhead(c byte) {
	pos := e.Buf.Curs1()
	e.Buf.InsertAhead(c)
	e.Marks.AdjustForInsert(pos, false)
	op := undo.OpDelchar
	if c == '\n' {
		op = undo.OpDelcharBr
		e.Bookmarks.Inc(e.Buf.CursLine() + 1)
		e.Dirty.MarkFull()
	} else {
		e.Dirty.MarkLines(e.Buf.CursLine(), e.Buf.CursLine())
	}
	e.pushRouted(undo.Action{Kind: undo.KindOp, Op: op})
	e.modification()
}

// Delete removes one byte after the cursor (§4.F primitive 3).
func (e *Editor) Delete() (byte, bool) {
	pos := e.Buf.Curs1()
	c, ok := e.Buf.Delete()
	if !ok {
		return 0, false
	}
	e.Marks.AdjustForDelete(pos)
	if c == '\n' {
		e.Bookmarks.Dec(e.Buf.CursLine() + 1)
		e.Dirty.MarkFull()
	} else {
		e.Dirty.MarkLines(e.Buf.CursLine(), e.Buf.CursLine())
	}
	e.pushRouted(undo.Action{Kind: undo.KindByteBehind, Byte: c})
	e.modification()
	return c, true
}

// Backspace removes one byte before the cursor (§4.F primitive 4).
func (e *Editor) Backspace() (byte, bool) {
	c, ok := e.Buf.Backspace()
	if !ok {
		return 0, false
	}
	pos := e.Buf.Curs1()
	e.Marks.AdjustForDelete(pos)
	if c == '\n' {
		e.Bookmarks.Dec(e.Buf.CursLine() + 1)
		e.Dirty.MarkFull()
	} else {
		e.Dirty.MarkLines(e.Buf.CursLine(), e.Buf.CursLine())
	}
	e.pushRouted(undo.Action{Kind: undo.KindByteAhead, Byte: c})
	e.modification()
	return c, true
}

// DeleteRune removes one UTF-8 codepoint after the cursor when
// byteDelete is false (looping Delete() char_length times per §4.F.5),
// or exactly one byte when byteDelete is true.
func (e *Editor) DeleteRune(byteDelete bool) (string, bool) {
	if byteDelete {
		c, ok := e.Delete()
		if !ok {
			return "", false
		}
		return string(c), true
	}
	_, n := e.Buf.GetUTF(e.Buf.Curs1())
	var out []byte
	for i := 0; i < n; i++ {
		c, ok := e.Delete()
		if !ok {
			break
		}
		out = append(out, c)
	}
	return string(out), len(out) > 0
}

// BackspaceRune removes one UTF-8 codepoint before the cursor when
// byteDelete is false, or exactly one byte when byteDelete is true.
func (e *Editor) BackspaceRune(byteDelete bool) (string, bool) {
	if byteDelete {
		c, ok := e.Backspace()
		if !ok {
			return "", false
		}
		return string(c), true
	}
	_, n := e.Buf.GetPrevUTF(e.Buf.Curs1())
	out := make([]byte, n)
	got := 0
	for i := n - 1; i >= 0; i-- {
		c, ok := e.Backspace()
		if !ok {
			break
		}
		out[i] = c
		got++
	}
	if got == 0 {
		return "", false
	}
	return string(out[n-got:]), true
}

// CursorMove shifts the cursor by delta bytes, pushing one undo entry
// per unit shift (§4.B) and invalidating the line cache, without
// marking the buffer modified.
func (e *Editor) CursorMove(delta int) {
	for delta > 0 {
		e.Buf.MoveCursor(1)
		e.pushRouted(undo.Action{Kind: undo.KindOp, Op: undo.OpCursLeft})
		delta--
	}
	for delta < 0 {
		e.Buf.MoveCursor(-1)
		e.pushRouted(undo.Action{Kind: undo.KindOp, Op: undo.OpCursRight})
		delta++
	}
	e.Cache.Invalidate()
}

// applyAction replays one undo-log action against the live buffer. It
// is used symmetrically by Undo (pops UndoLog, pushes to RedoLog) and
// Redo (pops RedoLog, pushes to UndoLog) since pushRouted already
// branches on e.undoing.
func (e *Editor) applyAction(a undo.Action) {
	switch a.Kind {
	case undo.KindByteAhead:
		e.Insert(a.Byte)
	case undo.KindByteBehind:
		e.InsertAhead(a.Byte)
	case undo.KindOp:
		switch a.Op {
		case undo.OpCursLeft:
			e.CursorMove(-1)
		case undo.OpCursRight:
			e.CursorMove(1)
		case undo.OpBackspace, undo.OpBackspaceBr:
			e.Backspace()
		case undo.OpDelchar, undo.OpDelcharBr:
			e.Delete()
		case undo.OpColumnOn:
			e.flipColumnHighlight(true)
		case undo.OpColumnOff:
			e.flipColumnHighlight(false)
		}
	case undo.KindMark1:
		e.Marks.Mark1 = a.Offset
	case undo.KindMark2:
		e.Marks.Mark2 = a.Offset
	case undo.KindMarkCurs:
		e.Marks.EndMarkCurs = a.Offset
	}
}

func (e *Editor) flipColumnHighlight(v bool) {
	e.Marks.ColumnHighlight = v
	if v {
		e.pushRouted(undo.Action{Kind: undo.KindOp, Op: undo.OpColumnOff})
	} else {
		e.pushRouted(undo.Action{Kind: undo.KindOp, Op: undo.OpColumnOn})
	}
}

// SetColumnHighlight toggles column-mode selection, recording its own
// undo trace (§4.H.10: "Column-highlight commands record COLUMN_ON /
// COLUMN_OFF undo codes so the highlight state itself is part of the
// undo trace").
func (e *Editor) SetColumnHighlight(v bool) {
	if e.Marks.ColumnHighlight == v {
		return
	}
	e.flipColumnHighlight(v)
}

// Undo reverses one command's worth of edits: everything pushed since
// the most recent key-press boundary. It restores StartDisplay from
// that boundary's saved value.
func (e *Editor) Undo() bool {
	if e.UndoLog.Empty() {
		return false
	}
	e.undoing = true
	defer func() { e.undoing = false }()
	e.RedoLog.Push(undo.Action{Kind: undo.KindKeyPress, Offset: e.StartDisplay})
	did := false
	for {
		a, ok := e.UndoLog.Pop()
		if !ok {
			break
		}
		if a.Kind == undo.KindKeyPress {
			e.StartDisplay = a.Offset
			break
		}
		e.applyAction(a)
		did = true
	}
	return did
}

// Redo replays one command's worth of edits from the redo log.
func (e *Editor) Redo() bool {
	if e.RedoLog.Empty() {
		return false
	}
	e.UndoLog.Push(undo.Action{Kind: undo.KindKeyPress, Offset: e.StartDisplay})
	did := false
	for {
		a, ok := e.RedoLog.Pop()
		if !ok {
			break
		}
		if a.Kind == undo.KindKeyPress {
			e.StartDisplay = a.Offset
			break
		}
		e.applyAction(a)
		did = true
	}
	return did
}

// GotoLine moves the cursor to the start of 0-based line target,
// consulting the line cache (component C) instead of always scanning
// from the nearest known point, and resets the sticky column.
func (e *Editor) GotoLine(target int) {
	fwd := func(fromOffset, fromLine, toLine int) int {
		return e.Buf.ForwardOffset(fromOffset, toLine-fromLine, 0, e.tabWidth())
	}
	bwd := func(fromOffset, fromLine, toLine int) int {
		return e.Buf.BackwardOffset(fromOffset, fromLine-toLine)
	}
	totalLines := e.Buf.Lines()
	lastBOL := e.Buf.Bol(e.Buf.Size())
	off := e.Cache.Lookup(target, totalLines, e.Buf.CursLine(), e.Buf.Bol(e.Buf.Curs1()), lastBOL, fwd, bwd)
	e.CursorMove(off - e.Buf.Curs1())
	e.PrevCol = 0
	e.OverCol = 0
}

// CursLine returns the 0-based line number of the cursor.
func (e *Editor) CursLine() int { return e.Buf.CursLine() }

// CursCol returns the cursor's tab- and wide-rune-aware visual column
// on its current line.
func (e *Editor) CursCol() int { return e.VisualColumn(e.Buf.Curs1()) }

// VisualColumn returns the visual column of off on its line, expanding
// tabs to the configured tab width and widening multi-column runes via
// go-runewidth, rather than assuming one column per byte.
func (e *Editor) VisualColumn(off int) int {
	bol := e.Buf.Bol(off)
	tw := e.tabWidth()
	col := 0
	for i := bol; i < off; {
		c := e.Buf.ByteAt(i)
		if c == '\t' {
			col += tw - col%tw
			i++
			continue
		}
		r, n := e.Buf.GetUTF(i)
		w := runewidth.RuneWidth(r)
		if w < 1 {
			w = 1
		}
		col += w
		i += n
	}
	return col
}

// MoveToPrevCol positions the cursor on the line starting at
// anchorBOL at a visual column equal to PrevCol+OverCol (§4.B). When
// the line is shorter: if CursorBeyondEOL is set, the excess becomes
// OverCol; otherwise the cursor snaps to end of line. In fake-half-tab
// mode, within the indent region the column snaps to a half-tab
// multiple unless that would land immediately left of four spaces.
func (e *Editor) MoveToPrevCol(anchorBOL int) {
	target := e.PrevCol + e.OverCol
	eol := e.Buf.Eol(anchorBOL)
	tw := e.tabWidth()

	off := anchorBOL
	col := 0
	for off < eol && col < target {
		c := e.Buf.ByteAt(off)
		if c == '\t' {
			col += tw - col%tw
		} else {
			col++
		}
		off++
	}
	if col < target {
		if e.Opts.CursorBeyondEOL {
			e.OverCol = target - col
		} else {
			e.OverCol = 0
		}
	} else {
		e.OverCol = 0
	}

	if e.Opts.FakeHalfTabs && e.inIndent(off, anchorBOL) {
		off = e.snapHalfTab(anchorBOL, off)
	}

	delta := off - e.Buf.Curs1()
	e.CursorMove(delta)
}

func (e *Editor) inIndent(off, bol int) bool {
	for i := bol; i < off; i++ {
		c := e.Buf.ByteAt(i)
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}

const halfTab = 4

// snapHalfTab rounds off down to the previous half-tab stop relative to bol,
// unless that would land immediately to the left of a run of four
// spaces, in which case off is left alone (§4.B).
func (e *Editor) snapHalfTab(bol, off int) int {
	col := off - bol
	snapped := (col / halfTab) * halfTab
	if snapped == col {
		return off
	}
	candidate := bol + snapped
	if e.Buf.ByteAt(candidate) == ' ' && e.Buf.ByteAt(candidate+1) == ' ' &&
		e.Buf.ByteAt(candidate+2) == ' ' && e.Buf.ByteAt(candidate+3) == ' ' {
		return off
	}
	return candidate
}

// MoveUpDown moves the cursor n lines up or down, clamped to the
// available lines, landing on the sticky PrevCol (§4.B). MoveToPrevCol
// walks the target line byte by byte, so it can stop inside a
// multi-byte codepoint; the cursor is then stepped back to that
// codepoint's lead byte so it always ends on a UTF-8 boundary.
func (e *Editor) MoveUpDown(n int, up bool) {
	if n < 0 {
		n = 0
	}
	var bol int
	if up {
		bol = e.Buf.BackwardOffset(e.Buf.Curs1(), n)
	} else {
		bol = e.Buf.ForwardOffset(e.Buf.Bol(e.Buf.Curs1()), n, 0, e.tabWidth())
		if bol > e.Buf.Size() {
			bol = e.Buf.Size()
		}
		bol = e.Buf.Bol(bol)
	}
	e.MoveToPrevCol(bol)
	for e.Buf.Curs1() > bol && e.Buf.CurrentByte()&0xC0 == 0x80 {
		e.CursorMove(-1)
	}
}

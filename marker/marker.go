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

// Package marker implements markers and selection (component D): the
// two byte-valued marks defining a stream or column selection, and
// the bookkeeping that keeps them aligned with the buffer across every
// edit.
package marker

// NoMark is the mark2 sentinel meaning "selection follows the cursor".
const NoMark = -1

// Markers holds the two selection marks and their visual-column
// counterparts, used only when column-mode selection is active.
type Markers struct {
	Mark1, Mark2   int // byte offsets; Mark1 == Mark2 means no selection
	Column1        int // visual column of Mark1, used only in column mode
	Column2        int // visual column of Mark2, used only in column mode
	EndMarkCurs    int // snapshot of the cursor used when Mark2 == NoMark
	ColumnHighlight bool
}

// Set performs the unconditional four-field assignment spec.md calls
// set_markers.
func (m *Markers) Set(mark1, mark2, col1, col2 int) {
	m.Mark1, m.Mark2, m.Column1, m.Column2 = mark1, mark2, col1, col2
}

// Clear removes any selection.
func (m *Markers) Clear() {
	m.Set(0, 0, 0, 0)
	m.EndMarkCurs = 0
}

// Toggle runs the three-state toggle_mark machine: unmark clears the
// selection outright; otherwise a finalized or absent selection
// (Mark2 >= 0) starts a new "follows cursor" selection at the cursor,
// and a follows-cursor selection finalizes at the current cursor.
func (m *Markers) Toggle(unmark bool, cursor, cursorCol, overCol int) {
	if unmark {
		m.Clear()
		return
	}
	if m.Mark2 >= 0 {
		m.Mark1 = cursor
		m.Mark2 = NoMark
		m.EndMarkCurs = NoMark
		m.Column1 = cursorCol + overCol
		m.Column2 = m.Column1
		return
	}
	m.Mark2 = cursor
	m.Column2 = cursorCol + overCol
	m.EndMarkCurs = cursor
}

// HasSelection reports whether a selection currently exists.
func (m *Markers) HasSelection() bool { return m.Mark1 != m.Mark2 }

// lineCounter reports the 0-based line number of a byte offset, i.e.
// the count of newlines in [0, off).
type lineCounter func(off int) int

// Evaluate returns the selection's byte range [start, end) in buffer
// order. ok is false if there is no selection. For a column selection
// whose column span is reversed relative to its row span, the range is
// widened to cover both the textual hull and the reversed columns'
// terminal rows, following the source-exact rule in spec.md §4.D.
func (m *Markers) Evaluate(bolOf func(off int) int, eolOf func(off int) int) (start, end int, ok bool) {
	if !m.HasSelection() {
		return 0, 0, false
	}
	start, end = m.Mark1, m.Mark2
	if m.Mark2 == NoMark {
		end = m.EndMarkCurs
	}
	if start > end {
		start, end = end, start
	}
	if !m.ColumnHighlight {
		return start, end, true
	}
	col1, col2 := m.Column1, m.Column2
	if m.Mark1 > (m.Mark2) && m.Mark2 != NoMark {
		col1, col2 = col2, col1
	}
	if col1 <= col2 {
		return start, end, true
	}
	// reversed column span: extend to cover the hull of both rows'
	// column ranges, clamped to each row's own length.
	startLineBol := bolOf(start)
	endLineBol := bolOf(end)
	startLineEol := eolOf(start)
	endLineEol := eolOf(end)
	diff1 := clamp(start-startLineBol, 0, startLineEol-startLineBol)
	diff2 := clamp(endLineEol-end, 0, endLineEol-endLineBol)
	start -= diff1
	end += diff2
	return start, end, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AdjustForInsert shifts the marks after a byte is inserted at pos.
// strict controls whether a mark exactly at pos also shifts: insert
// uses strict=true (mark grows only if strictly greater than pos,
// per spec.md invariant 3), insert_ahead uses strict=false (a mark
// sitting exactly at pos is pushed along with the inserted byte,
// since insert_ahead's byte lands before it without moving the
// cursor).
func (m *Markers) AdjustForInsert(pos int, strict bool) {
	shift := func(v int) int {
		if v < 0 {
			return v
		}
		if (strict && v > pos) || (!strict && v >= pos) {
			return v + 1
		}
		return v
	}
	m.Mark1 = shift(m.Mark1)
	m.Mark2 = shift(m.Mark2)
	if m.EndMarkCurs >= 0 {
		m.EndMarkCurs = shift(m.EndMarkCurs)
	}
}

// AdjustForDelete shifts the marks after the byte at pos is removed.
func (m *Markers) AdjustForDelete(pos int) {
	shift := func(v int) int {
		if v < 0 {
			return v
		}
		if v > pos {
			return v - 1
		}
		return v
	}
	m.Mark1 = shift(m.Mark1)
	m.Mark2 = shift(m.Mark2)
	if m.EndMarkCurs >= 0 {
		m.EndMarkCurs = shift(m.EndMarkCurs)
	}
}

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

// Package textbuf implements the text buffer (component A): a byte
// store split at the cursor into a "before" run and an "after" run, so
// that insert/delete at the cursor and cursor motion across the split
// are O(1) amortized, while random reads by absolute offset stay O(1).
package textbuf

const newline = '\n'

// Buffer is a mutable byte sequence split at the cursor. before holds
// the bytes strictly before the cursor in order; after holds the
// bytes from the cursor to the end of the buffer, stored in reverse
// so that both "push/pop near the cursor" operations are an append or
// a slice-shrink on the end of a slice.
type Buffer struct {
	before []byte
	after  []byte // after[len(after)-1] is the byte immediately following the cursor

	lines    int // total '\n' count in the buffer
	cursLine int // '\n' count in before
}

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{}
}

// NewFromBytes returns a buffer whose entire content is data, with the
// cursor positioned at offset 0.
func NewFromBytes(data []byte) *Buffer {
	b := &Buffer{after: make([]byte, len(data))}
	for i, c := range data {
		b.after[len(data)-1-i] = c
		if c == newline {
			b.lines++
		}
	}
	return b
}

// Size returns the total number of bytes in the buffer.
func (b *Buffer) Size() int { return len(b.before) + len(b.after) }

// Curs1 returns the absolute byte offset of the cursor.
func (b *Buffer) Curs1() int { return len(b.before) }

// Curs2 returns the number of bytes after the cursor.
func (b *Buffer) Curs2() int { return len(b.after) }

// Lines returns the total number of '\n' bytes in the buffer.
func (b *Buffer) Lines() int { return b.lines }

// CursLine returns the 0-based line number of the cursor.
func (b *Buffer) CursLine() int { return b.cursLine }

// ByteAt returns the byte at absolute offset i, or '\n' if i is out of
// range. Motion code relies on this sentinel to stop scans without an
// explicit bounds check.
func (b *Buffer) ByteAt(i int) byte {
	if i < 0 || i >= b.Size() {
		return newline
	}
	if i < len(b.before) {
		return b.before[i]
	}
	idx := i - len(b.before)
	return b.after[len(b.after)-1-idx]
}

// PrevByte returns the byte immediately before the cursor.
func (b *Buffer) PrevByte() byte { return b.ByteAt(b.Curs1() - 1) }

// CurrentByte returns the byte immediately after the cursor.
func (b *Buffer) CurrentByte() byte { return b.ByteAt(b.Curs1()) }

// Insert pushes c immediately before the cursor; the cursor position
// counter effectively advances with it (Curs1 grows by one).
func (b *Buffer) Insert(c byte) {
	b.before = append(b.before, c)
	if c == newline {
		b.lines++
		b.cursLine++
	}
}

// InsertAhead pushes c immediately after the cursor without moving the
// cursor's absolute position.
func (b *Buffer) InsertAhead(c byte) {
	b.after = append(b.after, c)
	if c == newline {
		b.lines++
	}
}

// Delete removes and returns the byte immediately after the cursor. ok
// is false if there was nothing to remove.
func (b *Buffer) Delete() (c byte, ok bool) {
	if len(b.after) == 0 {
		return 0, false
	}
	c = b.after[len(b.after)-1]
	b.after = b.after[:len(b.after)-1]
	if c == newline {
		b.lines--
	}
	return c, true
}

// Backspace removes and returns the byte immediately before the
// cursor. ok is false if there was nothing to remove.
func (b *Buffer) Backspace() (c byte, ok bool) {
	if len(b.before) == 0 {
		return 0, false
	}
	c = b.before[len(b.before)-1]
	b.before = b.before[:len(b.before)-1]
	if c == newline {
		b.lines--
		b.cursLine--
	}
	return c, true
}

// MoveCursor shifts the cursor by delta bytes without copying interior
// data: each unit shift moves one byte across the split.
func (b *Buffer) MoveCursor(delta int) {
	for delta > 0 && len(b.after) > 0 {
		c := b.after[len(b.after)-1]
		b.after = b.after[:len(b.after)-1]
		b.before = append(b.before, c)
		if c == newline {
			b.cursLine++
		}
		delta--
	}
	for delta < 0 && len(b.before) > 0 {
		c := b.before[len(b.before)-1]
		b.before = b.before[:len(b.before)-1]
		b.after = append(b.after, c)
		if c == newline {
			b.cursLine--
		}
		delta++
	}
}

// Bytes returns the full buffer content as a single slice, in order.
// It does not disturb the split.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, 0, b.Size())
	out = append(out, b.before...)
	for i := len(b.after) - 1; i >= 0; i-- {
		out = append(out, b.after[i])
	}
	return out
}

// CountLines returns the number of '\n' bytes in [from, to).
func (b *Buffer) CountLines(from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > b.Size() {
		to = b.Size()
	}
	n := 0
	for i := from; i < to; i++ {
		if b.ByteAt(i) == newline {
			n++
		}
	}
	return n
}

// Bol returns the byte offset of the first byte of the line containing
// off (the byte just after the preceding '\n', or 0).
func (b *Buffer) Bol(off int) int {
	if off > b.Size() {
		off = b.Size()
	}
	for off > 0 && b.ByteAt(off-1) != newline {
		off--
	}
	return off
}

// Eol returns the byte offset one past the last byte of the line
// containing off (the offset of the line's '\n', or the buffer size
// for the final, possibly unterminated, line).
func (b *Buffer) Eol(off int) int {
	size := b.Size()
	for off < size && b.ByteAt(off) != newline {
		off++
	}
	return off
}

// VisualCol returns the tab-expanded visual column of offset off
// relative to the start of its line, using the given tab width.
func (b *Buffer) VisualCol(off, tabWidth int) int {
	bol := b.Bol(off)
	col := 0
	for i := bol; i < off; i++ {
		if b.ByteAt(i) == '\t' && tabWidth > 0 {
			col += tabWidth - col%tabWidth
		} else {
			col++
		}
	}
	return col
}

// ForwardOffset scans forward from start across at most nLines
// newlines. If maxCol > 0, the scan additionally stops on the final
// line once the visual column (tabWidth-expanded) reaches maxCol. It
// returns the resulting byte offset.
func (b *Buffer) ForwardOffset(start, nLines, maxCol, tabWidth int) int {
	off := start
	size := b.Size()
	for nLines > 0 && off < size {
		if b.ByteAt(off) == newline {
			nLines--
		}
		off++
	}
	if maxCol > 0 {
		col := 0
		for off < size && b.ByteAt(off) != newline && col < maxCol {
			if b.ByteAt(off) == '\t' && tabWidth > 0 {
				col += tabWidth - col%tabWidth
			} else {
				col++
			}
			off++
		}
	}
	return off
}

// BackwardOffset scans backward from start across nLines newline
// transitions, returning the byte offset of the start of the
// resulting line.
func (b *Buffer) BackwardOffset(start, nLines int) int {
	off := b.Bol(start)
	for nLines > 0 && off > 0 {
		off = b.Bol(off - 1)
		nLines--
	}
	return off
}

// utf8SeqLen reports the expected byte length of a UTF-8 sequence
// starting with lead, or 0 if lead is a continuation byte.
func utf8SeqLen(lead byte) int {
	switch {
	case lead&0x80 == 0x00:
		return 1
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	default:
		return 0
	}
}

// GetUTF decodes one codepoint starting at off, returning the rune and
// its byte length. Decode failures fall back to a length of 1 (§7:
// "UTF-8 decode failure: codepoint length falls back to 1").
func (b *Buffer) GetUTF(off int) (rune, int) {
	size := b.Size()
	if off < 0 || off >= size {
		return newline, 1
	}
	lead := b.ByteAt(off)
	n := utf8SeqLen(lead)
	if n < 1 {
		return rune(lead), 1
	}
	if off+n > size {
		return rune(lead), 1
	}
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[i] = b.ByteAt(off + i)
	}
	r, sz := decodeRune(buf)
	if sz < 1 {
		return rune(lead), 1
	}
	return r, sz
}

// GetPrevUTF decodes the codepoint immediately before off, returning
// the rune and its byte length. It walks backward over continuation
// bytes (10xxxxxx) up to 4 bytes looking for a lead byte.
func (b *Buffer) GetPrevUTF(off int) (rune, int) {
	if off <= 0 {
		return newline, 1
	}
	start := off - 1
	for n := 1; n <= 4 && start >= 0; n++ {
		lead := b.ByteAt(start)
		if lead&0xC0 != 0x80 { // not a continuation byte: candidate lead
			if utf8SeqLen(lead) == n {
				r, sz := b.GetUTF(start)
				if sz == n {
					return r, sz
				}
			}
			break
		}
		start--
	}
	return rune(b.ByteAt(off - 1)), 1
}

// decodeRune decodes a single UTF-8 rune from a buffer known to hold
// exactly one candidate sequence, without importing unicode/utf8's
// string-oriented API on a byte run taken from the split buffer.
func decodeRune(buf []byte) (rune, int) {
	n := len(buf)
	if n == 0 {
		return newline, 0
	}
	lead := buf[0]
	switch {
	case lead&0x80 == 0x00:
		return rune(lead), 1
	case lead&0xE0 == 0xC0 && n >= 2:
		r := rune(lead&0x1F)<<6 | rune(buf[1]&0x3F)
		return r, 2
	case lead&0xF0 == 0xE0 && n >= 3:
		r := rune(lead&0x0F)<<12 | rune(buf[1]&0x3F)<<6 | rune(buf[2]&0x3F)
		return r, 3
	case lead&0xF8 == 0xF0 && n >= 4:
		r := rune(lead&0x07)<<18 | rune(buf[1]&0x3F)<<12 | rune(buf[2]&0x3F)<<6 | rune(buf[3]&0x3F)
		return r, 4
	default:
		return rune(lead), 0
	}
}

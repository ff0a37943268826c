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
// Package ioadapt implements the loader/saver adapters (component I):
// bulk-filling an empty buffer from a byte source with progress
// callbacks and cooperative cancellation, and streaming a buffer back
// out with line-ending conversion. It also implements the column-block
// clipboard encoding edit.c calls block_compress/edit_get_block.
package ioadapt

import (
	"bufio"
	"io"

	"github.com/rkuang/coretext/editor"
	"github.com/rkuang/coretext/types"
)

// blockSize is the chunk size the loader reads and reports progress at.
const blockSize = 64 * 1024

// Progress is invoked after each block is read. loaded is the total
// bytes consumed so far; total is the expected size (0 if unknown).
// Returning false stops reading: the bytes read so far stay in the
// buffer and Load returns nil, so the early stop is not reported to
// the caller.
type Progress func(loaded, total int64) (keepGoing bool)

// Load fills an empty editor's buffer from r. If size is known
// (size > 0) it is read in blockSize chunks with a Progress callback
// after each block and undo left enabled; if size is unknown
// (size <= 0, e.g. a pipe or filter) it falls back to byte-by-byte
// insertion with undo disabled entirely, per spec.md §4.I.
func Load(e *editor.Editor, r io.Reader, size int64, progress Progress) error {
	if size > 0 {
		return loadSized(e, r, size, progress)
	}
	return loadUnsized(e, r, progress)
}

func loadSized(e *editor.Editor, r io.Reader, size int64, progress Progress) error {
	var all []byte
	buf := make([]byte, blockSize)
	var loaded int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			all = append(all, buf[:n]...)
			loaded += int64(n)
			if progress != nil && !progress(loaded, size) {
				break
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	e.LoadBytes(all)
	e.Modified = false
	return nil
}

// loadUnsized reads byte-by-byte straight into the text buffer
// (InsertAhead then MoveCursor), bypassing the editor's edit
// primitives, so nothing is recorded in the undo log while loading;
// both logs are reset afterward, matching the "undo disabled"
// requirement for unknown-size sources.
func loadUnsized(e *editor.Editor, r io.Reader, progress Progress) error {
	br := bufio.NewReader(r)
	var loaded int64
	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		e.Buf.InsertAhead(c)
		e.Buf.MoveCursor(1)
		loaded++
		if loaded%blockSize == 0 && progress != nil {
			if !progress(loaded, 0) {
				break
			}
		}
	}
	e.Cache.Invalidate()
	e.UndoLog.Reset()
	e.RedoLog.Reset()
	e.Modified = false
	return nil
}

// Save streams the buffer's bytes to w, translating line endings per
// mode using a two-byte look-ahead so a "\r\n" pair is recognized and
// re-encoded as a unit rather than as two independent translations.
func Save(e *editor.Editor, w io.Writer, mode types.LineEnding) error {
	data := e.Buf.Bytes()
	bw := bufio.NewWriter(w)
	for i := 0; i < len(data); i++ {
		c := data[i]
		var next byte
		hasNext := i+1 < len(data)
		if hasNext {
			next = data[i+1]
		}
		switch mode {
		case types.LineEndingAsis:
			if err := bw.WriteByte(c); err != nil {
				return err
			}
		case types.LineEndingUnix:
			if c == '\r' && hasNext && next == '\n' {
				i++
				c = '\n'
			} else if c == '\r' {
				c = '\n'
			}
			if err := bw.WriteByte(c); err != nil {
				return err
			}
		case types.LineEndingWin:
			if c == '\n' {
				if _, err := bw.WriteString("\r\n"); err != nil {
					return err
				}
				continue
			}
			if c == '\r' && hasNext && next == '\n' {
				i++
				if _, err := bw.WriteString("\r\n"); err != nil {
					return err
				}
				continue
			}
			if c == '\r' {
				if _, err := bw.WriteString("\r\n"); err != nil {
					return err
				}
				continue
			}
			if err := bw.WriteByte(c); err != nil {
				return err
			}
		case types.LineEndingMac:
			if c == '\r' && hasNext && next == '\n' {
				i++
				c = '\r'
			} else if c == '\n' {
				c = '\r'
			}
			if err := bw.WriteByte(c); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// EncodeColumnBlock prepends the column-block magic bytes to text, the
// clipboard wire format for a rectangular selection (edit.c's
// block_compress / edit_get_block).
func EncodeColumnBlock(text string) []byte {
	out := make([]byte, 0, len(types.ColumnBlockMagic)+len(text))
	out = append(out, types.ColumnBlockMagic[:]...)
	out = append(out, text...)
	return out
}

// DecodeColumnBlock reports whether data begins with the column-block
// magic prefix, and returns the payload with the prefix stripped.
func DecodeColumnBlock(data []byte) (payload []byte, isColumn bool) {
	m := types.ColumnBlockMagic[:]
	if len(data) < len(m) {
		return data, false
	}
	for i := range m {
		if data[i] != m[i] {
			return data, false
		}
	}
	return data[len(m):], true
}

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

// Package bookmark implements the bookmark list (component J): a
// sparse, line-ordered set of (line, color) markers that auto-shift
// as lines are inserted or removed above them.
package bookmark

// Mark is one bookmark.
type Mark struct {
	Line  int
	Color int
}

// List is an ordered list of bookmarks, sorted by line. Multiple
// bookmarks per line are allowed.
type List struct {
	marks []Mark
}

// New returns an empty bookmark list.
func New() *List { return &List{} }

// Insert adds a bookmark at line with the given color, keeping the
// list ordered by line.
func (l *List) Insert(line, color int) {
	i := 0
	for i < len(l.marks) && l.marks[i].Line <= line {
		i++
	}
	l.marks = append(l.marks, Mark{})
	copy(l.marks[i+1:], l.marks[i:])
	l.marks[i] = Mark{Line: line, Color: color}
}

// Remove deletes every bookmark at line.
func (l *List) Remove(line int) {
	out := l.marks[:0]
	for _, m := range l.marks {
		if m.Line != line {
			out = append(out, m)
		}
	}
	l.marks = out
}

// Inc shifts every bookmark with Line >= line up by one; called when
// a '\n' is inserted at that line.
func (l *List) Inc(line int) {
	for i := range l.marks {
		if l.marks[i].Line >= line {
			l.marks[i].Line++
		}
	}
}

// Dec shifts every bookmark with Line >= line down by one; called
// when a '\n' is removed at that line. Bookmarks do not go negative.
func (l *List) Dec(line int) {
	for i := range l.marks {
		if l.marks[i].Line >= line && l.marks[i].Line > 0 {
			l.marks[i].Line--
		}
	}
}

// Find returns the last bookmark with Line <= line, and false if none
// exists.
func (l *List) Find(line int) (Mark, bool) {
	found := false
	var best Mark
	for _, m := range l.marks {
		if m.Line <= line {
			best = m
			found = true
		} else {
			break
		}
	}
	return best, found
}

// All returns a copy of the bookmark list in line order.
func (l *List) All() []Mark {
	out := make([]Mark, len(l.marks))
	copy(out, l.marks)
	return out
}

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
package bookmark

import "testing"

func TestInsertOrdered(t *testing.T) {
	l := New()
	l.Insert(5, 1)
	l.Insert(1, 2)
	l.Insert(3, 3)
	got := l.All()
	want := []int{1, 3, 5}
	for i, m := range got {
		if m.Line != want[i] {
			t.Fatalf("All()[%d].Line = %d, want %d", i, m.Line, want[i])
		}
	}
}

func TestIncDec(t *testing.T) {
	l := New()
	l.Insert(2, 0)
	l.Insert(5, 0)
	l.Inc(3)
	got := l.All()
	if got[0].Line != 2 || got[1].Line != 6 {
		t.Fatalf("after Inc(3): %+v", got)
	}
	l.Dec(3)
	got = l.All()
	if got[0].Line != 2 || got[1].Line != 5 {
		t.Fatalf("after Dec(3): %+v", got)
	}
}

func TestFind(t *testing.T) {
	l := New()
	l.Insert(2, 1)
	l.Insert(8, 2)
	m, ok := l.Find(5)
	if !ok || m.Line != 2 {
		t.Fatalf("Find(5) = %+v, %v", m, ok)
	}
	if _, ok := l.Find(1); ok {
		t.Fatalf("Find(1) should find nothing")
	}
}

func TestRemove(t *testing.T) {
	l := New()
	l.Insert(2, 1)
	l.Insert(2, 2)
	l.Insert(3, 1)
	l.Remove(2)
	got := l.All()
	if len(got) != 1 || got[0].Line != 3 {
		t.Fatalf("after Remove(2): %+v", got)
	}
}

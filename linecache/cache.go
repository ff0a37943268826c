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

// Package linecache implements the line-offset cache (component C): a
// small fixed-size hint table mapping line number to byte offset, so
// that "goto line" does not have to rescan from the top of the buffer
// every time.
package linecache

// Slots is the number of (line, offset) pairs the cache holds.
const Slots = 32

type slot struct {
	line   int
	offset int
	used   bool
}

// Cache is a line-offset hint table. It never needs to be correct: a
// miss just costs a linear scan, so the replacement policy (§4.C) only
// needs to be cheap and usually helpful.
type Cache struct {
	slots [Slots]slot
	valid bool
	rng   uint32 // deterministic LCG state, seeded per buffer
}

// New returns an invalidated cache seeded with the given value so
// replacement slot choices are reproducible in tests.
func New(seed uint32) *Cache {
	if seed == 0 {
		seed = 1
	}
	return &Cache{rng: seed}
}

// Invalidate marks the cache as needing reseeding on the next lookup;
// called by every edit primitive (caches_valid := false).
func (c *Cache) Invalidate() { c.valid = false }

func (c *Cache) next() uint32 {
	// A small deterministic LCG (parameters from Numerical Recipes);
	// correctness of the cache never depends on this sequence, only
	// its determinism for reproducible tests.
	c.rng = c.rng*1664525 + 1013904223
	return c.rng
}

// Lookup implements find_line: given the total line count and the
// current cursor's (line, BOL-offset), plus the last line's BOL
// offset, it returns the byte offset of line L, using fwd/bwd to do
// the actual scan when no cached slot is an exact hit.
//
//   fwd(from, fromLine, toLine) scans forward to line toLine's BOL
//   bwd(from, fromLine, toLine) scans backward to line toLine's BOL
func (c *Cache) Lookup(target, totalLines, cursLine, cursBOL, lastBOL int, fwd, bwd func(fromOffset, fromLine, toLine int) int) int {
	if !c.valid {
		c.reseed(cursLine, cursBOL, totalLines, lastBOL)
	}
	if target >= totalLines {
		return lastBOL
	}
	if target <= 0 {
		return 0
	}
	best := -1
	bestDist := 1 << 62
	for i := range c.slots {
		if !c.slots[i].used {
			continue
		}
		d := c.slots[i].line - target
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			bestDist = d
			best = i
		}
		if d == 0 {
			return c.slots[i].offset
		}
	}
	if best < 0 {
		// cache is entirely empty; fall back to scanning from the
		// start, then store the result.
		off := fwd(0, 0, target)
		c.store(target, off)
		return off
	}
	from := c.slots[best]
	var off int
	if from.line < target {
		off = fwd(from.offset, from.line, target)
	} else {
		off = bwd(from.offset, from.line, target)
	}
	c.store(target, off)
	return off
}

// reseed clears the cache and fills the two fixed slots: slot 0 is
// always (0,0); slot 1 is the current cursor's line; slot 2 is the
// last line's position.
func (c *Cache) reseed(cursLine, cursBOL, totalLines, lastBOL int) {
	for i := range c.slots {
		c.slots[i] = slot{}
	}
	c.slots[0] = slot{line: 0, offset: 0, used: true}
	c.slots[1] = slot{line: cursLine, offset: cursBOL, used: true}
	c.slots[2] = slot{line: totalLines, offset: lastBOL, used: true}
	c.valid = true
}

// store picks a replacement slot per the "closest-known-point" policy:
// reuse the slot the caller is evidently iterating near if it is
// index >= 3 and within 1 line of target; otherwise pick a random
// slot in [3, Slots).
func (c *Cache) store(target, offset int) {
	reuse := -1
	for i := 3; i < Slots; i++ {
		if !c.slots[i].used {
			continue
		}
		d := c.slots[i].line - target
		if d < 0 {
			d = -d
		}
		if d <= 1 {
			reuse = i
			break
		}
	}
	idx := reuse
	if idx < 0 {
		idx = 3 + int(c.next()%uint32(Slots-3))
	}
	c.slots[idx] = slot{line: target, offset: offset, used: true}
}

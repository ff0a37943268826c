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

// Package types holds the value types and narrow collaborator
// interfaces shared by every core package: the option record, line
// ending and save mode tags, and the interfaces external subsystems
// (renderer, clipboard, file lock, history store) must satisfy.
package types

// LineEnding selects how the saver translates '\n' on output.
type LineEnding int

const (
	LineEndingAsis LineEnding = iota
	LineEndingUnix
	LineEndingWin
	LineEndingMac
)

// SaveMode selects the saver's write policy.
type SaveMode int

const (
	SaveQuick SaveMode = iota
	SaveSafe
	SaveDoBackups
)

// Options is the read-mostly option record threaded by reference into
// every command and edit primitive. It is never kept as package-level
// mutable state; the few values that are truly global for a process
// (MaxUndo, TabSpacing) are construction-time fields here too.
type Options struct {
	WordWrapLineLength       int
	TypewriterWrap           bool
	AutoParaFormatting       bool
	FillTabsWithSpaces       bool
	ReturnDoesAutoIndent     bool
	BackspaceThroughTabs     bool
	FakeHalfTabs             bool
	PersistentSelections     bool
	Overwrite                bool
	CursorBeyondEOL          bool
	CursorAfterInsertedBlock bool
	GroupUndo                bool
	CheckNLAtEOF             bool
	VisibleTabs              bool
	VisibleTWS               bool
	ShowRightMargin          bool
	LineState                bool
	SaveMode                 SaveMode
	FilesizeThreshold        int64
	BackupExt                string
	TabSpacing               int
	MaxUndo                  int
}

// DefaultOptions returns the option record a freshly constructed
// editor starts with, matching the mc editor core's defaults for the
// options this module implements.
func DefaultOptions() Options {
	return Options{
		TabSpacing: 8,
		MaxUndo:    32768,
		SaveMode:   SaveQuick,
	}
}

// ColumnBlockMagic is the 5-byte prefix that marks a clipboard payload
// as a rectangular (column) selection rather than a stream of text.
var ColumnBlockMagic = [5]byte{0x01, 0x01, 0x01, 0x01, 0x0A}

// Clipboard is the external collaborator that stores cut/copied text
// for Copy/Cut/Paste/Remove commands. It is out of the core's scope;
// the core only calls through this interface.
type Clipboard interface {
	Put(text string, column bool)
	Get() (text string, column bool)
}

// FileLock is acquired at first modification of a buffer and released
// at close or save (§5). Acquire may return false if the lock could not
// be acquired; the core still proceeds with the modification (§7).
type FileLock interface {
	Acquire() bool
	Release()
}

// BookmarkRecord is the persisted shape of one bookmark, used by
// HistoryStore.
type BookmarkRecord struct {
	Line  int
	Color int
}

// HistoryStore persists cursor position and bookmarks keyed by file
// path, external to the core (§6).
type HistoryStore interface {
	Load(path string) (line, column int, offset int64, bookmarks []BookmarkRecord, ok bool)
	Save(path string, line, column int, offset int64, bookmarks []BookmarkRecord)
}

// DirtySink receives notice of what changed so a renderer can redraw
// only what it needs to (§1: "no rendering... beyond exposing what
// changed").
type DirtySink interface {
	// MarkLines flags lines [from, to] (inclusive, 0-based) as needing
	// redraw.
	MarkLines(from, to int)
	// MarkFull flags the whole view as needing redraw.
	MarkFull()
}

// NullDirtySink discards all dirty notifications; useful for tests and
// for loaders that run with no attached renderer.
type NullDirtySink struct{}

func (NullDirtySink) MarkLines(from, to int) {}
func (NullDirtySink) MarkFull()              {}

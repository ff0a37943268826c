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
// Command coretext is a thin termbox-go terminal shell over the
// core packages: `coretext <file>` opens a file for editing. It is
// the only place in this module that imports termbox-go; it talks to
// the editor only through the editor/command packages' public API and
// a types.DirtySink it implements itself.
package main

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/nsf/termbox-go"

	"github.com/rkuang/coretext/command"
	"github.com/rkuang/coretext/editor"
	"github.com/rkuang/coretext/ioadapt"
	"github.com/rkuang/coretext/types"
)

// screenDirty tracks what a termbox-based renderer needs to redraw; it
// satisfies types.DirtySink.
type screenDirty struct {
	full     bool
	fromLine int
	toLine   int
	anyLines bool
}

func (d *screenDirty) MarkFull() { d.full = true }
func (d *screenDirty) MarkLines(from, to int) {
	if d.full {
		return
	}
	if !d.anyLines {
		d.fromLine, d.toLine, d.anyLines = from, to, true
		return
	}
	if from < d.fromLine {
		d.fromLine = from
	}
	if to > d.toLine {
		d.toLine = to
	}
}
func (d *screenDirty) clear() { *d = screenDirty{} }

func main() {
	if len(os.Args) < 2 {
		log.Output(1, "usage: coretext <file>")
		os.Exit(1)
	}
	path, gotoLine, hasGotoLine := splitPathLine(os.Args[1])

	logFile, err := os.OpenFile(os.Getenv("HOME")+"/.coretextlog",
		os.O_APPEND|os.O_CREATE|os.O_RDWR, 0666)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	opts := types.DefaultOptions()
	dirty := &screenDirty{}
	ed := editor.New(&opts, nil, dirty)

	if f, err := os.Open(path); err == nil {
		info, _ := f.Stat()
		size := int64(0)
		if info != nil {
			size = info.Size()
		}
		if err := ioadapt.Load(ed, f, size, nil); err != nil {
			log.Output(1, err.Error())
		}
		f.Close()
	}
	dirty.clear()

	if err := termbox.Init(); err != nil {
		log.Output(1, err.Error())
		os.Exit(1)
	}
	defer termbox.Close()
	termbox.SetOutputMode(termbox.Output256)

	exec := command.New(ed, nil, screenRows()-1)
	if hasGotoLine {
		target := gotoLine - 1
		if target < 0 {
			target = 0
		}
		exec.GotoLine(target)
	}

	render(ed, dirty)
	for {
		ev := termbox.PollEvent()
		if ev.Type != termbox.EventKey {
			continue
		}
		if ev.Key == termbox.KeyCtrlX {
			if f, err := os.Create(path); err == nil {
				ioadapt.Save(ed, f, types.LineEndingAsis)
				f.Close()
			}
			return
		}
		if ev.Key == termbox.KeyCtrlC {
			return
		}
		c, ch := translate(ev)
		exec.Dispatch(c, ch)
		render(ed, dirty)
	}
}

// splitPathLine parses the `edit <file>[:<line>]` CLI surface: a
// trailing ":<line>" suffix (1-based) jumps to that line on open.
// A path with no parseable suffix is returned unchanged.
func splitPathLine(arg string) (path string, line int, hasLine bool) {
	idx := strings.LastIndex(arg, ":")
	if idx < 0 {
		return arg, 0, false
	}
	n, err := strconv.Atoi(arg[idx+1:])
	if err != nil || n < 0 {
		return arg, 0, false
	}
	return arg[:idx], n, true
}

func screenRows() int {
	_, rows := termbox.Size()
	if rows <= 0 {
		return 24
	}
	return rows
}

// translate maps a termbox key event to a (command.Code, char) pair,
// the CLI's only job beyond rendering: every semantic decision stays
// in command.Executor.
func translate(ev termbox.Event) (command.Code, rune) {
	switch ev.Key {
	case termbox.KeyArrowLeft:
		return command.CmdLeft, -1
	case termbox.KeyArrowRight:
		return command.CmdRight, -1
	case termbox.KeyArrowUp:
		return command.CmdUp, -1
	case termbox.KeyArrowDown:
		return command.CmdDown, -1
	case termbox.KeyHome:
		return command.CmdHome, -1
	case termbox.KeyEnd:
		return command.CmdEnd, -1
	case termbox.KeyPgup:
		return command.CmdPageUp, -1
	case termbox.KeyPgdn:
		return command.CmdPageDown, -1
	case termbox.KeyEnter:
		return command.CmdEnter, -1
	case termbox.KeyTab:
		return command.CmdTab, -1
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		return command.CmdBackspace, -1
	case termbox.KeyDelete:
		return command.CmdDelete, -1
	case termbox.KeyCtrlZ:
		return command.CmdUndo, -1
	case termbox.KeyCtrlY:
		return command.CmdRedo, -1
	case termbox.KeyCtrlK:
		return command.CmdCut, -1
	case termbox.KeyCtrlU:
		return command.CmdPaste, -1
	case termbox.KeySpace:
		return command.CmdNone, ' '
	}
	if ev.Ch != 0 {
		return command.CmdNone, ev.Ch
	}
	return command.CmdNone, -1
}

// render repaints every visible row from the top of the buffer,
// clearing the screen first when dirty reports a full redraw, then
// resets dirty. The line ranges dirty records are not used to limit
// the repaint.
func render(ed *editor.Editor, dirty *screenDirty) {
	cols, rows := termbox.Size()
	if dirty.full {
		termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	}
	data := ed.Buf.Bytes()
	line, col := 0, 0
	for i := 0; i <= len(data) && line < rows; i++ {
		if i == len(data) || data[i] == '\n' {
			col = 0
			line++
			continue
		}
		if col < cols {
			termbox.SetCell(col, line, rune(data[i]), termbox.ColorDefault, termbox.ColorDefault)
		}
		col++
	}
	termbox.SetCursor(ed.CursCol(), ed.CursLine()-ed.StartLine)
	termbox.Flush()
	dirty.clear()
}

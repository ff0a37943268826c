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
package ioadapt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rkuang/coretext/editor"
	"github.com/rkuang/coretext/types"
)

func newTestEditor() *editor.Editor {
	opts := types.DefaultOptions()
	return editor.New(&opts, nil, nil)
}

func TestLoadSizedFillsBuffer(t *testing.T) {
	e := newTestEditor()
	src := strings.NewReader("hello\nworld")
	if err := Load(e, src, int64(src.Len()), nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := string(e.Buf.Bytes()); got != "hello\nworld" {
		t.Fatalf("Bytes() = %q", got)
	}
	if e.Modified {
		t.Fatalf("Modified should be false right after load")
	}
}

func TestLoadUnsizedDisablesUndo(t *testing.T) {
	e := newTestEditor()
	var blocked bytes.Buffer
	blocked.WriteString("xyz")
	if err := Load(e, &blocked, 0, nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := string(e.Buf.Bytes()); got != "xyz" {
		t.Fatalf("Bytes() = %q", got)
	}
	if !e.UndoLog.Empty() {
		t.Fatalf("undo log should be empty after an unsized load")
	}
}

func TestSaveUnixTranslatesCRLF(t *testing.T) {
	e := newTestEditor()
	e.BeginCommand()
	for _, c := range "a\r\nb\rc" {
		e.Insert(byte(c))
	}
	var out bytes.Buffer
	if err := Save(e, &out, types.LineEndingUnix); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := out.String(); got != "a\nb\nc" {
		t.Fatalf("Save(Unix) = %q, want a\\nb\\nc", got)
	}
}

func TestSaveWinTranslatesLF(t *testing.T) {
	e := newTestEditor()
	e.BeginCommand()
	for _, c := range "a\nb" {
		e.Insert(byte(c))
	}
	var out bytes.Buffer
	if err := Save(e, &out, types.LineEndingWin); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := out.String(); got != "a\r\nb" {
		t.Fatalf("Save(Win) = %q, want a\\r\\nb", got)
	}
}

func TestSaveWinNormalizesLoneCR(t *testing.T) {
	e := newTestEditor()
	e.BeginCommand()
	for _, c := range "a\r\nb\rc\n" {
		e.Insert(byte(c))
	}
	var out bytes.Buffer
	if err := Save(e, &out, types.LineEndingWin); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := out.String(); got != "a\r\nb\r\nc\r\n" {
		t.Fatalf("Save(Win) = %q, want a\\r\\nb\\r\\nc\\r\\n", got)
	}
}

func TestColumnBlockRoundTrip(t *testing.T) {
	encoded := EncodeColumnBlock("col text")
	payload, isColumn := DecodeColumnBlock(encoded)
	if !isColumn || string(payload) != "col text" {
		t.Fatalf("DecodeColumnBlock = %q, %v", payload, isColumn)
	}
	plain := []byte("stream text")
	payload2, isColumn2 := DecodeColumnBlock(plain)
	if isColumn2 || string(payload2) != "stream text" {
		t.Fatalf("DecodeColumnBlock(plain) = %q, %v", payload2, isColumn2)
	}
}

package wad

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestParseHeader(t *testing.T) {
	w, err := Parse(buildWAD("PWAD", []testLump{{"FOO", []byte{1, 2, 3}}}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if w.Header.Type != PWAD || w.Header.NumLumps != 1 {
		t.Errorf("header = %+v", w.Header)
	}
	if len(w.Lumps) != 1 || w.Lumps[0].Name != "FOO" || len(w.Lumps[0].Data) != 3 {
		t.Errorf("lumps = %+v", w.Lumps)
	}
	if len(w.Textures) != 0 {
		t.Errorf("textures = %v, want none", w.Textures)
	}
}

func TestParseErrors(t *testing.T) {
	valid := buildWAD("IWAD", []testLump{{"FOO", []byte{1, 2, 3, 4}}})

	badMagic := append([]byte(nil), valid...)
	copy(badMagic, "JUNK")

	badLump := append([]byte(nil), valid...)
	dir := int(binary.LittleEndian.Uint32(badLump[8:]))
	binary.LittleEndian.PutUint32(badLump[dir+4:], 1000)

	badDir := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badDir[4:], 50)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad magic", badMagic, ErrInvalidHeader},
		{"short header", valid[:8], ErrOutOfRangeRead},
		{"lump past end", badLump, ErrOutOfRangeRead},
		{"directory past end", badDir, ErrOutOfRangeRead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLumpDataIsView(t *testing.T) {
	data := buildWAD("IWAD", []testLump{{"FOO", []byte{1, 2, 3, 4}}})
	w, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	data[headerSize] = 9
	if w.Lumps[0].Data[0] != 9 {
		t.Error("lump data was copied")
	}
}

func TestFindLumpShadowing(t *testing.T) {
	w, err := Parse(buildWAD("PWAD", []testLump{
		{"FOO", []byte{1}},
		{"BAR", []byte{2}},
		{"FOO", []byte{3}},
	}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	l, ok := w.FindLump("foo")
	if !ok {
		t.Fatal("FindLump(foo) not found")
	}
	if l.Data[0] != 3 {
		t.Errorf("FindLump(foo) = %v, want the later lump", l.Data)
	}
	if i := w.FindLumpIndex("FOO"); i != 2 {
		t.Errorf("FindLumpIndex(FOO) = %d, want 2", i)
	}
	if i := w.FindLumpIndex("BAZ"); i != -1 {
		t.Errorf("FindLumpIndex(BAZ) = %d, want -1", i)
	}
	if _, ok := w.FindLump("BAZ"); ok {
		t.Error("FindLump(BAZ) found")
	}
}

func TestLevelNames(t *testing.T) {
	lumps := append(newTestLevel().lumps("MAP02"), newTestLevel().lumps("E1M1")...)
	w, err := Parse(buildWAD("IWAD", lumps))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	names := w.LevelNames()
	if len(names) != 2 || names[0] != "E1M1" || names[1] != "MAP02" {
		t.Errorf("LevelNames = %v", names)
	}
}

func TestLevelNamesIgnoreCase(t *testing.T) {
	lumps := newTestLevel().lumps("E2M3")
	for i := range lumps {
		lumps[i].name = strings.ToLower(lumps[i].name)
	}
	w, err := Parse(buildWAD("PWAD", lumps))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if names := w.LevelNames(); len(names) != 1 || names[0] != "E2M3" {
		t.Fatalf("LevelNames = %v", names)
	}
	l, err := w.ReadLevel("E2M3")
	if err != nil {
		t.Fatalf("ReadLevel: %v", err)
	}
	if l.ID != (MapID{Episode: 2, Map: 3}) || len(l.Lines) != 7 {
		t.Errorf("level %v: %d lines", l.ID, len(l.Lines))
	}
}

func TestTextures(t *testing.T) {
	w := buildTestWAD(t, newTestLevel())
	tex, ok := w.Textures["STARTAN3"]
	if !ok {
		t.Fatalf("STARTAN3 missing from %v", w.Textures)
	}
	if tex.Width != 64 || tex.Height != 128 || len(tex.Patches) != 1 || tex.Patches[0].PatchName != "WALL00_1" {
		t.Errorf("texture = %+v", tex)
	}
}

package wad

import (
	"bytes"
	"encoding/binary"
	"testing"
)

type testLump struct {
	name string
	data []byte
}

// buildWAD assembles an archive: header, lump data in order, then the
// directory.
func buildWAD(magic string, lumps []testLump) []byte {
	var buf bytes.Buffer
	buf.Write(make([]byte, headerSize))
	offsets := make([]int, len(lumps))
	for i, l := range lumps {
		offsets[i] = buf.Len()
		buf.Write(l.data)
	}
	dir := buf.Len()
	for i, l := range lumps {
		var e [lumpInfoSize]byte
		binary.LittleEndian.PutUint32(e[0:], uint32(offsets[i]))
		binary.LittleEndian.PutUint32(e[4:], uint32(len(l.data)))
		copy(e[8:], l.name)
		buf.Write(e[:])
	}
	b := buf.Bytes()
	copy(b, magic)
	binary.LittleEndian.PutUint32(b[4:], uint32(len(lumps)))
	binary.LittleEndian.PutUint32(b[8:], uint32(dir))
	return b
}

// le16 encodes each value as a little-endian 16-bit word.
func le16(vals ...int) []byte {
	var out []byte
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint16(out, uint16(v))
	}
	return out
}

func le32(vals ...int) []byte {
	var out []byte
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint32(out, uint32(v))
	}
	return out
}

func name8(s string) []byte {
	b := make([]byte, lumpNameSize)
	copy(b, s)
	return b
}

func cat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

type testLine struct {
	v1, v2, flags, special, tag, right, left int
}

type testSide struct {
	upper, lower, middle string
	sector               int
}

type testSector struct {
	floor, ceiling int
}

// testLevel is a 256x256 room split at x=0 by a two-sided line. The west half
// is sector 0 (floor 0, ceiling 128), the east half sector 1 (floor 0, ceiling
// 64). The blockmap is 2x2 cells with its origin at (-128,-128).
//
//	v5(-128,128) --L1-- v4(0,128) --L4-- v3(128,128)
//	     |                 |                 |
//	    L0     sector 0   L2    sector 1    L5
//	     |                 |                 |
//	v0(-128,-128) --L3-- v1(0,-128) --L6-- v2(128,-128)
type testLevel struct {
	vertexes [][2]int
	lines    []testLine
	sides    []testSide
	sectors  []testSector
	blocks   [][]int // Line numbers per cell, row by row from the bottom left
	rawBlock []byte  // Replaces the encoded blockmap when set
}

func newTestLevel() *testLevel {
	return &testLevel{
		vertexes: [][2]int{{-128, -128}, {0, -128}, {128, -128}, {128, 128}, {0, 128}, {-128, 128}},
		lines: []testLine{
			{v1: 0, v2: 5, flags: LineBlocking, right: 0, left: -1},
			{v1: 5, v2: 4, flags: LineBlocking, right: 1, left: -1},
			{v1: 4, v2: 1, flags: LineTwoSided, right: 2, left: 3},
			{v1: 1, v2: 0, flags: LineBlocking, right: 4, left: -1},
			{v1: 4, v2: 3, flags: LineBlocking, right: 5, left: -1},
			{v1: 3, v2: 2, flags: LineBlocking, right: 6, left: -1},
			{v1: 2, v2: 1, flags: LineBlocking, right: 7, left: -1},
		},
		sides: []testSide{
			{"-", "-", "STARTAN3", 0},
			{"-", "-", "STARTAN3", 0},
			{"STARTAN3", "-", "-", 0},
			{"-", "", "-", 1},
			{"-", "-", "STARTAN3", 0},
			{"-", "-", "STARTAN3", 1},
			{"-", "-", "STARTAN3", 1},
			{"-", "-", "STARTAN3", 1},
		},
		sectors: []testSector{{0, 128}, {0, 64}},
		blocks: [][]int{
			{0, 2, 3}, // (0,0)
			{2, 5, 6}, // (1,0)
			{0, 1, 2}, // (0,1)
			{2, 4, 5}, // (1,1)
		},
	}
}

func (tl *testLevel) lumps(marker string) []testLump {
	var things, lines, sides, vertexes, sectors []byte

	things = le16(-64, -64, 90, 1, 7)
	for _, l := range tl.lines {
		lines = append(lines, le16(l.v1, l.v2, l.flags, l.special, l.tag, l.right, l.left)...)
	}
	for _, s := range tl.sides {
		sides = append(sides, cat(le16(0, 0), name8(s.upper), name8(s.lower), name8(s.middle), le16(s.sector))...)
	}
	for _, v := range tl.vertexes {
		vertexes = append(vertexes, le16(v[0], v[1])...)
	}
	for _, s := range tl.sectors {
		sectors = append(sectors, cat(le16(s.floor, s.ceiling), name8("FLOOR4_8"), name8("CEIL3_5"), le16(160, 0, 0))...)
	}

	// One segment per subsector: the west wall for sector 0, the east top
	// wall for sector 1.
	segs := cat(le16(0, 5, 0x4000, 0, 0, 0), le16(4, 3, 0, 4, 0, 0))
	ssectors := le16(1, 0, 1, 1)

	// Vertical partition at x=0 pointing north: east is the front.
	nodes := cat(
		le16(0, 0, 0, 256),
		le16(128, -128, 0, 128),  // right bbox
		le16(128, -128, -128, 0), // left bbox
		le16(subSectorBit|1, subSectorBit|0),
	)

	blockmap := tl.rawBlock
	if blockmap == nil {
		blockmap = encodeBlockMap(-128, -128, 2, 2, tl.blocks)
	}

	return []testLump{
		{marker, nil},
		{"THINGS", things},
		{"LINEDEFS", lines},
		{"SIDEDEFS", sides},
		{"VERTEXES", vertexes},
		{"SEGS", segs},
		{"SSECTORS", ssectors},
		{"NODES", nodes},
		{"SECTORS", sectors},
		{"REJECT", []byte{0}},
		{"BLOCKMAP", blockmap},
	}
}

func encodeBlockMap(originX, originY, cols, rows int, blocks [][]int) []byte {
	header := le16(originX, originY, cols, rows)
	offsets := make([]int, len(blocks))
	var lists []int
	next := len(header)/2 + len(blocks)
	for i, b := range blocks {
		offsets[i] = next + len(lists)
		lists = append(lists, 0)
		lists = append(lists, b...)
		lists = append(lists, blockListEnd)
	}
	return cat(header, le16(offsets...), le16(lists...))
}

// textureLumps defines one patch and the STARTAN3 texture built from it.
func textureLumps() []testLump {
	pnames := cat(le32(1), name8("WALL00_1"))
	texture1 := cat(
		le32(1, 8),
		name8("STARTAN3"), le32(0), le16(64, 128), le32(0), le16(1),
		le16(0, 0, 0, 1, 0),
	)
	return []testLump{{"PNAMES", pnames}, {"TEXTURE1", texture1}}
}

func buildTestWAD(t *testing.T, tl *testLevel) *WAD {
	t.Helper()
	lumps := append(textureLumps(), tl.lumps("E1M1")...)
	w, err := Parse(buildWAD("IWAD", lumps))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return w
}

func readTestLevel(t *testing.T, tl *testLevel) *Level {
	t.Helper()
	l, err := buildTestWAD(t, tl).ReadLevel("E1M1")
	if err != nil {
		t.Fatalf("ReadLevel: %v", err)
	}
	return l
}

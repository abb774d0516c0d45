package wad

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// On-disk record sizes.
const (
	thingSize     = 10
	lineSize      = 14
	sideSize      = 30
	vertexSize    = 4
	segmentSize   = 12
	subSectorSize = 4
	nodeSize      = 28
	sectorSize    = 26
)

// decodeRecords splits lump into fixed-size records and decodes each one from
// its own window.
func decodeRecords[T any](lump *Lump, size int, decode func(b []byte) T) ([]T, error) {
	if len(lump.Data)%size != 0 {
		return nil, errors.Wrapf(ErrLumpSize, "%s: %d bytes, record size %d", lump.Name, len(lump.Data), size)
	}
	count := len(lump.Data) / size
	records := make([]T, count)
	for i := range records {
		lo, hi := i*size, (i+1)*size
		records[i] = decode(lump.Data[lo:hi:hi])
	}
	return records, nil
}

type Thing struct {
	X, Y            Fixed
	Angle           float64 // Radians
	Type            int
	Skill1and2      bool
	Skill3          bool
	Skill4and5      bool
	Ambush          bool
	MultiplayerOnly bool
}

func decodeThing(b []byte) Thing {
	options := readU16LE(b, 8)
	return Thing{
		X:               IntToFixed(readI16LE(b, 0)),
		Y:               IntToFixed(readI16LE(b, 2)),
		Angle:           degreesToRadians(readI16LE(b, 4)),
		Type:            readI16LE(b, 6),
		Skill1and2:      options&1 != 0,
		Skill3:          options&2 != 0,
		Skill4and5:      options&4 != 0,
		Ambush:          options&8 != 0,
		MultiplayerOnly: options&0x10 != 0,
	}
}

type Vertex struct {
	X, Y Fixed
}

func decodeVertex(b []byte) Vertex {
	return Vertex{X: IntToFixed(readI16LE(b, 0)), Y: IntToFixed(readI16LE(b, 2))}
}

type Side struct {
	XOffset           Fixed
	YOffset           Fixed
	UpperTextureName  string
	LowerTextureName  string
	MiddleTextureName string
	SectorNum         int

	// References. A nil texture means none.
	UpperTexture  *Texture
	LowerTexture  *Texture
	MiddleTexture *Texture
	Sector        *Sector
}

func (w *WAD) decodeSide(b []byte) Side {
	s := Side{
		XOffset:           IntToFixed(readI16LE(b, 0)),
		YOffset:           IntToFixed(readI16LE(b, 2)),
		UpperTextureName:  readFixedString(b, 4, lumpNameSize, w.encoding),
		LowerTextureName:  readFixedString(b, 12, lumpNameSize, w.encoding),
		MiddleTextureName: readFixedString(b, 20, lumpNameSize, w.encoding),
		SectorNum:         int(readU16LE(b, 28)),
	}
	s.UpperTexture = w.texture(s.UpperTextureName)
	s.LowerTexture = w.texture(s.LowerTextureName)
	s.MiddleTexture = w.texture(s.MiddleTextureName)
	return s
}

type LineSegment struct {
	V1Num   int
	V2Num   int
	Angle   float64 // Radians
	LineNum int
	IsSideL bool  // false - same as linedef, true - opposite to linedef
	Offset  Fixed // Distance along line to start of segment

	// References
	V1, V2 Vertex
	Line   *Line
	Side   *Side
}

func decodeLineSegment(b []byte) LineSegment {
	return LineSegment{
		V1Num:   int(readU16LE(b, 0)),
		V2Num:   int(readU16LE(b, 2)),
		Angle:   bamToRadians(readI16LE(b, 4)),
		LineNum: int(readU16LE(b, 6)),
		IsSideL: readI16LE(b, 8) != 0,
		Offset:  IntToFixed(readI16LE(b, 10)),
	}
}

type SubSector struct {
	Index            int
	NumLineSegments  int
	StartLineSegment int

	LineSegments []LineSegment
	Sector       *Sector // Sector of the first segment's side
}

func decodeSubSector(b []byte) SubSector {
	return SubSector{
		NumLineSegments:  int(readU16LE(b, 0)),
		StartLineSegment: int(readU16LE(b, 2)),
	}
}

// BoundBox is an axis aligned box in map space.
type BoundBox struct {
	Top, Bottom, Left, Right Fixed
}

func decodeBoundBox(b []byte) BoundBox {
	return BoundBox{
		Top:    IntToFixed(readI16LE(b, 0)),
		Bottom: IntToFixed(readI16LE(b, 2)),
		Left:   IntToFixed(readI16LE(b, 4)),
		Right:  IntToFixed(readI16LE(b, 6)),
	}
}

// NodeChild references either another node or, for a leaf, a subsector.
type NodeChild struct {
	Index int
	Leaf  bool
}

const subSectorBit = 0x8000

func decodeNodeChild(raw uint16) NodeChild {
	if raw&subSectorBit != 0 {
		return NodeChild{Index: int(raw &^ subSectorBit), Leaf: true}
	}
	return NodeChild{Index: int(raw)}
}

// Node is a BSP partition. Children[0] is the front (right) side, Children[1]
// the back (left) side.
type Node struct {
	X, Y     Fixed
	DX, DY   Fixed
	BBoxes   [2]BoundBox
	Children [2]NodeChild
}

func decodeNode(b []byte) Node {
	return Node{
		X:        IntToFixed(readI16LE(b, 0)),
		Y:        IntToFixed(readI16LE(b, 2)),
		DX:       IntToFixed(readI16LE(b, 4)),
		DY:       IntToFixed(readI16LE(b, 6)),
		BBoxes:   [2]BoundBox{decodeBoundBox(b[8:16]), decodeBoundBox(b[16:24])},
		Children: [2]NodeChild{decodeNodeChild(readU16LE(b, 24)), decodeNodeChild(readU16LE(b, 26))},
	}
}

type Sector struct {
	Index              int
	FloorHeight        Fixed
	CeilingHeight      Fixed
	FloorTextureName   string
	CeilingTextureName string
	LightLevel         int
	Type               SectorType
	TagNum             int

	Lines    []*Line
	BlockBox BlockBox // mapblock bounding box for height changes
}

type SectorType int

const (
	TypeNormal          SectorType = iota
	TypeBlinkRandom                // 1  Light  Blink random
	TypeBlink05                    // 2  Light  Blink 0.5 second
	TypeBlink10                    // 3  Light  Blink 1.0 second
	TypeDamage20Blink05            // 4  Both   20% damage per second; light blink 0.5 second
	TypeDamage10                   // 5	 Damage 10% damage per second
	TypeUnused1                    // 6  Unused
	TypeDamage5                    // 7	 Damage 5% damage per second
	TypeOscillate                  // 8	 Light  Oscillates
	TypeSecret                     // 9	 Secret
	TypeDoor30                     // 10 Door   30 seconds after level start, ceiling closes
	TypeEnd                        // 11 End    20% damage ps, level ends below 11% health
	TypeBlink10Sync                // 12 Light  Blink 1.0 second, synchronized
	TypeBlink05Sync                // 13 Light  Blink 0.5 second, synchronized
	TypeDoor300                    // 14 Door   300 seconds after level start, ceiling opens
	TypeUnused2                    // 15 Unused
	TypeDamage20                   // 16 Damage 20% damage per second
	TypeFlickerRandom              // 17 Light  Flickers randomly
)

func (w *WAD) decodeSector(b []byte) Sector {
	return Sector{
		FloorHeight:        IntToFixed(readI16LE(b, 0)),
		CeilingHeight:      IntToFixed(readI16LE(b, 2)),
		FloorTextureName:   readFixedString(b, 4, lumpNameSize, w.encoding),
		CeilingTextureName: readFixedString(b, 12, lumpNameSize, w.encoding),
		LightLevel:         readI16LE(b, 20),
		Type:               SectorType(readI16LE(b, 22)),
		TagNum:             readI16LE(b, 24),
	}
}

func degreesToRadians[T constraints.Integer | constraints.Float](n T) float64 {
	return float64(n) * (math.Pi / 180)
}

// Binary angle measurement: a full circle spans the int16 range.
const halfScale = 1 << 15

func bamToRadians[T constraints.Signed](n T) float64 {
	return float64(n) * math.Pi / halfScale
}

package wad

import "fmt"

// Line flags as stored in LINEDEFS.
const (
	LineBlocking      = 0x0001
	LineBlockMonsters = 0x0002
	LineTwoSided      = 0x0004
	LineDontPegTop    = 0x0008
	LineDontPegBottom = 0x0010
	LineSecret        = 0x0020
	LineSoundBlock    = 0x0040
	LineDontDraw      = 0x0080
	LineMapped        = 0x0100
)

type Line struct {
	Index                  int
	V1Num                  int
	V2Num                  int
	Flags                  int
	BlockPlayerAndMonsters bool
	BlockMonsters          bool
	TwoSided               bool
	UpperTextureUnpegged   bool
	LowerTextureUnpegged   bool
	Secret                 bool
	BlocksSound            bool
	NeverMap               bool
	AlwaysMap              bool
	Type                   LineType
	SectorTagNum           int
	SideRNum, SideLNum     int // -1 means no side

	// References
	V1, V2                  Vertex
	DX, DY                  Fixed // Precalculated V2-V1 for side checking
	SideR, SideL            *Side
	BoundingBox             BoundBox  // For the extent of the LineDef
	SlopeType               SlopeType // To aid move clipping
	FrontSector, BackSector *Sector   // BackSector is nil for one-sided lines
}

type SlopeType int

const (
	SlopeTypeHorizontal SlopeType = iota
	SlopeTypeVertical
	SlopeTypePositive
	SlopeTypeNegative
)

func (s SlopeType) String() string {
	switch s {
	case SlopeTypeHorizontal:
		return "horizontal"
	case SlopeTypeVertical:
		return "vertical"
	case SlopeTypePositive:
		return "positive"
	case SlopeTypeNegative:
		return "negative"
	}
	return "unknown"
}

// LineType is the special action code of a line, 0 for none. The codes are
// listed in The Unofficial DOOM Specs, section 4.3.
type LineType int

const (
	LineTypeNone       LineType = 0
	LineTypeDoor       LineType = 1
	LineTypeExit       LineType = 11
	LineTypeTeleport   LineType = 39
	LineTypeSecretExit LineType = 51
)

func (t LineType) String() string {
	switch t {
	case LineTypeNone:
		return "none"
	case LineTypeDoor:
		return "door"
	case LineTypeExit:
		return "exit"
	case LineTypeTeleport:
		return "teleport"
	case LineTypeSecretExit:
		return "secret exit"
	}
	return fmt.Sprintf("special %d", int(t))
}

func decodeLine(b []byte) Line {
	flags := int(readU16LE(b, 4))
	return Line{
		V1Num:                  int(readU16LE(b, 0)),
		V2Num:                  int(readU16LE(b, 2)),
		Flags:                  flags,
		BlockPlayerAndMonsters: flags&LineBlocking != 0,
		BlockMonsters:          flags&LineBlockMonsters != 0,
		TwoSided:               flags&LineTwoSided != 0,
		UpperTextureUnpegged:   flags&LineDontPegTop != 0,
		LowerTextureUnpegged:   flags&LineDontPegBottom != 0,
		Secret:                 flags&LineSecret != 0,
		BlocksSound:            flags&LineSoundBlock != 0,
		NeverMap:               flags&LineDontDraw != 0,
		AlwaysMap:              flags&LineMapped != 0,
		Type:                   LineType(readI16LE(b, 6)),
		SectorTagNum:           readI16LE(b, 8),
		SideRNum:               readI16LE(b, 10),
		SideLNum:               readI16LE(b, 12),
	}
}

// setGeometry fills in the derived vector, bounding box and slope type.
func (li *Line) setGeometry() {
	li.DX = li.V2.X - li.V1.X
	li.DY = li.V2.Y - li.V1.Y

	switch {
	case li.DX == 0:
		li.SlopeType = SlopeTypeVertical
	case li.DY == 0:
		li.SlopeType = SlopeTypeHorizontal
	case (li.DY > 0) == (li.DX > 0):
		li.SlopeType = SlopeTypePositive
	default:
		li.SlopeType = SlopeTypeNegative
	}

	li.BoundingBox = BoundBox{
		Left:   min(li.V1.X, li.V2.X),
		Right:  max(li.V1.X, li.V2.X),
		Bottom: min(li.V1.Y, li.V2.Y),
		Top:    max(li.V1.Y, li.V2.Y),
	}
}

// PointOnSide returns 0 if the point is on the front (right) side of the line
// and 1 if it is on the back side.
func (li *Line) PointOnSide(x, y Fixed) int {
	if li.DX == 0 {
		if x <= li.V1.X {
			return boolSide(li.DY > 0)
		}
		return boolSide(li.DY < 0)
	}
	if li.DY == 0 {
		if y <= li.V1.Y {
			return boolSide(li.DX < 0)
		}
		return boolSide(li.DX > 0)
	}

	dx := x - li.V1.X
	dy := y - li.V1.Y
	left := FixedMul(li.DY>>FracBits, dx)
	right := FixedMul(dy, li.DX>>FracBits)
	if right < left {
		return 0 // front side
	}
	return 1 // back side
}

func boolSide(b bool) int {
	if b {
		return 1
	}
	return 0
}

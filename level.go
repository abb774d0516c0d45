package wad

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Level struct {
	Name         string
	ID           MapID
	Things       []Thing
	Lines        []Line
	Sides        []Side
	Vertexes     []Vertex
	LineSegments []LineSegment
	SubSectors   []SubSector
	Nodes        []Node
	Sectors      []Sector
	BlockMap     BlockMap
}

// MapID identifies a level by its marker name: ExMy for episodic maps,
// MAPnn (Episode 0) for the rest.
type MapID struct {
	Episode, Map int
}

// ParseMapID parses a level marker name. The whole name must match.
func ParseMapID(name string) (MapID, bool) {
	name = strings.ToUpper(name)
	if rest, ok := strings.CutPrefix(name, "MAP"); ok {
		n, ok := parseDigits(rest)
		return MapID{Map: n}, ok
	}
	if len(name) < 4 || name[0] != 'E' || name[2] != 'M' || name[1] < '1' || name[1] > '9' {
		return MapID{}, false
	}
	n, ok := parseDigits(name[3:])
	if !ok {
		return MapID{}, false
	}
	return MapID{Episode: int(name[1] - '0'), Map: n}, true
}

// parseDigits accepts only a non-empty run of decimal digits.
func parseDigits(s string) (int, bool) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func (id MapID) String() string {
	if id.Episode == 0 {
		return fmt.Sprintf("MAP%02d", id.Map)
	}
	return fmt.Sprintf("E%dM%d", id.Episode, id.Map)
}

// levelLumps is the fixed order of lumps after a level marker.
var levelLumps = [levelLumpSpan]string{
	"THINGS",
	"LINEDEFS",
	"SIDEDEFS",
	"VERTEXES",
	"SEGS",
	"SSECTORS",
	"NODES",
	"SECTORS",
	"REJECT",
	"BLOCKMAP",
}

// ParseMap decodes the level whose marker lump is at index marker. The ten lumps
// following the marker must appear in the standard order.
func (w *WAD) ParseMap(marker int) (*Level, error) {
	if marker < 0 || marker >= len(w.Lumps) {
		return nil, errors.Wrapf(ErrBadReference, "marker lump %d", marker)
	}
	name := w.Lumps[marker].Name
	logger.Debugf("Reading Level %v ...", name)

	var lumps [levelLumpSpan]*Lump
	for i, expected := range levelLumps {
		idx := marker + 1 + i
		if idx >= len(w.Lumps) {
			return nil, errors.Wrapf(&UnexpectedLumpError{Expected: expected}, "level %s", name)
		}
		if actual := w.Lumps[idx].Name; !strings.EqualFold(actual, expected) {
			return nil, errors.Wrapf(&UnexpectedLumpError{Expected: expected, Actual: actual}, "level %s", name)
		}
		lumps[i] = &w.Lumps[idx]
	}

	level := &Level{Name: name}
	level.ID, _ = ParseMapID(name)

	var err error
	if level.Things, err = decodeRecords(lumps[0], thingSize, decodeThing); err != nil {
		return nil, err
	}
	if level.Lines, err = decodeRecords(lumps[1], lineSize, decodeLine); err != nil {
		return nil, err
	}
	if level.Sides, err = decodeRecords(lumps[2], sideSize, w.decodeSide); err != nil {
		return nil, err
	}
	if level.Vertexes, err = decodeRecords(lumps[3], vertexSize, decodeVertex); err != nil {
		return nil, err
	}
	if level.LineSegments, err = decodeRecords(lumps[4], segmentSize, decodeLineSegment); err != nil {
		return nil, err
	}
	if level.SubSectors, err = decodeRecords(lumps[5], subSectorSize, decodeSubSector); err != nil {
		return nil, err
	}
	if level.Nodes, err = decodeRecords(lumps[6], nodeSize, decodeNode); err != nil {
		return nil, err
	}
	if level.Sectors, err = decodeRecords(lumps[7], sectorSize, w.decodeSector); err != nil {
		return nil, err
	}
	// REJECT is only checked for position; nothing here reads it.
	blockMap, err := decodeBlockMap(lumps[9])
	if err != nil {
		return nil, err
	}
	level.BlockMap = *blockMap

	logger.Debugf("Read %v things, %v lines, %v sides, %v vertexes, %v segments, %v subsectors, %v nodes, %v sectors",
		len(level.Things), len(level.Lines), len(level.Sides), len(level.Vertexes),
		len(level.LineSegments), len(level.SubSectors), len(level.Nodes), len(level.Sectors))

	// Set references
	if err := level.setReferences(); err != nil {
		return nil, errors.Wrapf(err, "level %s", name)
	}
	return level, nil
}

func badRef(what string, i, n int) error {
	return errors.Wrapf(ErrBadReference, "%s %d of %d", what, i, n)
}

// setReferences adds pointers to all level assets
func (l *Level) setReferences() error {
	logger.Debug("Setting references ...")

	// Sectors
	for i := range l.Sectors {
		l.Sectors[i].Index = i
	}

	// Sides
	for i := range l.Sides {
		s := &l.Sides[i]
		if s.SectorNum >= len(l.Sectors) {
			return badRef("side sector", s.SectorNum, len(l.Sectors))
		}
		s.Sector = &l.Sectors[s.SectorNum]
	}

	// Lines - dependent on Sides
	for i := range l.Lines {
		li := &l.Lines[i]
		li.Index = i
		if li.V1Num >= len(l.Vertexes) || li.V2Num >= len(l.Vertexes) {
			return badRef("line vertex", max(li.V1Num, li.V2Num), len(l.Vertexes))
		}
		li.V1 = l.Vertexes[li.V1Num]
		li.V2 = l.Vertexes[li.V2Num]
		li.setGeometry()
		// Every line has a front side; only the back side is optional
		if li.SideRNum < 0 || li.SideRNum >= len(l.Sides) {
			return badRef("line front side", li.SideRNum, len(l.Sides))
		}
		li.SideR = &l.Sides[li.SideRNum]
		li.FrontSector = li.SideR.Sector
		if li.SideLNum >= 0 {
			if li.SideLNum >= len(l.Sides) {
				return badRef("line side", li.SideLNum, len(l.Sides))
			}
			li.SideL = &l.Sides[li.SideLNum]
			li.BackSector = li.SideL.Sector
		}
	}

	// Line Segments
	for i := range l.LineSegments {
		s := &l.LineSegments[i]
		if s.V1Num >= len(l.Vertexes) || s.V2Num >= len(l.Vertexes) {
			return badRef("segment vertex", max(s.V1Num, s.V2Num), len(l.Vertexes))
		}
		if s.LineNum >= len(l.Lines) {
			return badRef("segment line", s.LineNum, len(l.Lines))
		}
		s.V1 = l.Vertexes[s.V1Num]
		s.V2 = l.Vertexes[s.V2Num]
		s.Line = &l.Lines[s.LineNum]
		if s.IsSideL {
			s.Side = s.Line.SideL
		} else {
			s.Side = s.Line.SideR
		}
	}

	// SubSectors. The sector is fixed once here instead of on first lookup.
	for i := range l.SubSectors {
		s := &l.SubSectors[i]
		s.Index = i
		end := s.StartLineSegment + s.NumLineSegments
		if s.NumLineSegments == 0 || end > len(l.LineSegments) {
			return badRef("subsector segment", end-1, len(l.LineSegments))
		}
		s.LineSegments = l.LineSegments[s.StartLineSegment:end:end]
		side := s.LineSegments[0].Side
		if side == nil {
			return errors.Wrapf(ErrBadReference, "subsector %d: first segment has no side", i)
		}
		s.Sector = side.Sector
	}

	// Nodes
	for i := range l.Nodes {
		for _, c := range l.Nodes[i].Children {
			if c.Leaf && c.Index >= len(l.SubSectors) {
				return errors.Wrapf(ErrCorruptBspTree, "node %d: subsector %d of %d", i, c.Index, len(l.SubSectors))
			}
			if !c.Leaf && c.Index >= len(l.Nodes) {
				return errors.Wrapf(ErrCorruptBspTree, "node %d: child %d of %d", i, c.Index, len(l.Nodes))
			}
		}
	}

	// Sectors
	for i := range l.Sectors {
		s := &l.Sectors[i]
		bbox := newBBox()
		for j := range l.Lines {
			li := &l.Lines[j]
			if li.FrontSector == s || li.BackSector == s {
				s.Lines = append(s.Lines, li)
				bbox.add(li.V1)
				bbox.add(li.V2)
			}
		}
		if len(s.Lines) > 0 {
			s.BlockBox = l.BlockMap.CellRange(bbox, MaxRadius)
			s.BlockBox.Top = min(s.BlockBox.Top, l.BlockMap.NumRows-1)
			s.BlockBox.Bottom = max(s.BlockBox.Bottom, 0)
			s.BlockBox.Right = min(s.BlockBox.Right, l.BlockMap.NumColumns-1)
			s.BlockBox.Left = max(s.BlockBox.Left, 0)
		}
	}

	// Block map
	for i := range l.BlockMap.Blocks {
		b := &l.BlockMap.Blocks[i]
		b.Lines = make([]*Line, len(b.LineNums))
		for j, n := range b.LineNums {
			if n >= len(l.Lines) {
				return badRef("block line", n, len(l.Lines))
			}
			b.Lines[j] = &l.Lines[n]
		}
	}

	return nil
}

func newBBox() BoundBox {
	return BoundBox{
		Left:   Fixed(math.MaxInt32),
		Right:  Fixed(math.MinInt32),
		Bottom: Fixed(math.MaxInt32),
		Top:    Fixed(math.MinInt32),
	}
}

func (b *BoundBox) add(v Vertex) {
	b.Left = min(b.Left, v.X)
	b.Right = max(b.Right, v.X)
	b.Bottom = min(b.Bottom, v.Y)
	b.Top = max(b.Top, v.Y)
}

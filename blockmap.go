package wad

import "github.com/pkg/errors"

// Blockmap cells are 128 map units square.
const (
	mapBlockBits  = 7
	MapBlockUnits = 1 << mapBlockBits
	MapBlockShift = FracBits + mapBlockBits // Fixed to cell index
)

// blockListEnd terminates a cell's line list.
const blockListEnd = 0xffff

// BlockMap is level data created from axis aligned bounding box of the map, a rectangular array
// of blocks of 128x128 map units. Used to speed up collision detection by spatial subdivision in 2D.
type BlockMap struct {
	OriginX, OriginY    Fixed
	NumColumns, NumRows int
	Blocks              []Block
}

type Block struct {
	LineNums []int
	Lines    []*Line
}

// BlockBox is a range of blockmap cells, bounds inclusive.
type BlockBox struct {
	Top, Bottom, Left, Right int
}

// Block returns a pointer to the specified block from the block map, or nil if
// the cell lies outside the map.
func (b *BlockMap) Block(x, y int) *Block {
	if x < 0 || y < 0 || x >= b.NumColumns || y >= b.NumRows {
		return nil
	}
	return &b.Blocks[y*b.NumColumns+x]
}

// CellOf returns the cell coordinates containing a map position. The result may
// lie outside the map.
func (b *BlockMap) CellOf(x, y Fixed) (int, int) {
	return int((x - b.OriginX) >> MapBlockShift), int((y - b.OriginY) >> MapBlockShift)
}

// CellRange returns the cells overlapped by box grown by margin on every side.
func (b *BlockMap) CellRange(box BoundBox, margin Fixed) BlockBox {
	return BlockBox{
		Left:   int((box.Left - b.OriginX - margin) >> MapBlockShift),
		Right:  int((box.Right - b.OriginX + margin) >> MapBlockShift),
		Bottom: int((box.Bottom - b.OriginY - margin) >> MapBlockShift),
		Top:    int((box.Top - b.OriginY + margin) >> MapBlockShift),
	}
}

func decodeBlockMap(lump *Lump) (*BlockMap, error) {
	logger.Debug("Reading Block Map ...")
	data := lump.Data

	// Read header
	if err := checkRange(len(data), 0, 8); err != nil {
		return nil, errors.Wrap(err, "blockmap header")
	}
	blockMap := BlockMap{
		OriginX:    IntToFixed(readI16LE(data, 0)),
		OriginY:    IntToFixed(readI16LE(data, 2)),
		NumColumns: int(readU16LE(data, 4)),
		NumRows:    int(readU16LE(data, 6)),
	}
	numBlocks := blockMap.NumColumns * blockMap.NumRows
	if err := checkRange(len(data), 8, 2*numBlocks); err != nil {
		return nil, errors.Wrap(err, "blockmap offsets")
	}

	// Offsets count 16-bit words from the start of the lump
	blockMap.Blocks = make([]Block, numBlocks)
	for i := range blockMap.Blocks {
		o := 2 * int(readU16LE(data, 8+2*i))
		lineNums, err := decodeBlockList(data, o)
		if err != nil {
			return nil, errors.Wrapf(err, "block %d", i)
		}
		blockMap.Blocks[i].LineNums = lineNums
	}
	logger.Debugf("Read %v blocks", len(blockMap.Blocks))

	return &blockMap, nil
}

// decodeBlockList reads one cell's list: a leading 0, the line numbers, then
// 0xffff. Only the leading 0 is a marker; later zeros are line 0.
func decodeBlockList(data []byte, o int) ([]int, error) {
	if err := checkRange(len(data), o, 2); err != nil {
		return nil, err
	}
	if readU16LE(data, o) != 0 {
		return nil, errors.Wrapf(ErrMalformedBlockMap, "list at byte %d does not start with 0", o)
	}
	lineNums := make([]int, 0)
	for o += 2; ; o += 2 {
		if o+2 > len(data) {
			return nil, errors.Wrap(ErrMalformedBlockMap, "list not terminated")
		}
		n := readU16LE(data, o)
		if n == blockListEnd {
			return lineNums, nil
		}
		lineNums = append(lineNums, int(n))
	}
}

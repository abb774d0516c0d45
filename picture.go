package wad

import (
	"strings"

	"github.com/pkg/errors"
)

// The doom picture (image) format. Sometimes called a patch, but this code considers a patch to
// be a parent entity that makes up part of a texture, and points to a picture
type Picture struct {
	Name                  string // Useful for debugging
	Width, Height         int
	LeftOffset, TopOffset int // Allows soulspheres, weapons and keys to float
	Columns               []Column
}

// Rather than implement column posts, just set column to transparent and fill in post data.
type Column []byte

// TransparentIndex fills picture pixels no post covers.
const TransparentIndex = 255

const pictureHeaderSize = 8

// GetPicture decodes a picture lump.
func (w *WAD) GetPicture(name string) (*Picture, error) {
	name = strings.ToUpper(name)
	lump, err := w.lump(name)
	if err != nil {
		return nil, err
	}
	pic, err := decodePicture(lump.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "picture %s", name)
	}
	pic.Name = name
	return pic, nil
}

func decodePicture(lump []byte) (*Picture, error) {
	// Read patch lump header
	if err := checkRange(len(lump), 0, pictureHeaderSize); err != nil {
		return nil, err
	}
	pic := &Picture{
		Width:      readI16LE(lump, 0),
		Height:     readI16LE(lump, 2),
		LeftOffset: readI16LE(lump, 4),
		TopOffset:  readI16LE(lump, 6),
	}
	if pic.Width < 0 || pic.Height < 0 {
		return nil, errors.Wrapf(ErrOutOfRangeRead, "size %dx%d", pic.Width, pic.Height)
	}

	// Read column offsets
	if err := checkRange(len(lump), pictureHeaderSize, 4*pic.Width); err != nil {
		return nil, err
	}

	// Initialise rectangular picture space to transparent
	pic.Columns = make([]Column, pic.Width)
	for i := range pic.Columns {
		pic.Columns[i] = make(Column, pic.Height)
		for j := range pic.Columns[i] {
			pic.Columns[i][j] = TransparentIndex
		}
	}

	// For each column offset, expand out the posts into columns
	for columnIndex := range pic.Columns {
		offset := int(readU32LE(lump, pictureHeaderSize+4*columnIndex))
		for {
			if err := checkRange(len(lump), offset, 1); err != nil {
				return nil, errors.Wrapf(err, "column %d", columnIndex)
			}
			topDelta := int(lump[offset])
			if topDelta == 255 {
				break
			}
			if err := checkRange(len(lump), offset+1, 2); err != nil {
				return nil, errors.Wrapf(err, "column %d", columnIndex)
			}
			numPixels := int(lump[offset+1])
			offset += 3 // Skip padding
			if err := checkRange(len(lump), offset, numPixels+1); err != nil {
				return nil, errors.Wrapf(err, "column %d", columnIndex)
			}
			for i := 0; i < numPixels; i++ {
				if topDelta+i < pic.Height {
					pic.Columns[columnIndex][topDelta+i] = lump[offset+i]
				}
			}
			offset += numPixels + 1 // Skip padding
		}
	}
	return pic, nil
}

// A flat is an image that is drawn on the floors and ceilings of sectors; a
// raw 64x64 lump of palette indices.
type Flat struct {
	Name string
	Data []byte
}

const FlatWidth, FlatHeight = 64, 64

// GetFlat returns a floor or ceiling flat. Data is a view into the archive.
func (w *WAD) GetFlat(name string) (*Flat, error) {
	name = strings.ToUpper(name)
	lump, err := w.lump(name)
	if err != nil {
		return nil, err
	}
	if err := checkRange(len(lump.Data), 0, FlatWidth*FlatHeight); err != nil {
		return nil, errors.Wrapf(err, "flat %s", name)
	}
	return &Flat{Name: name, Data: lump.Data[:FlatWidth*FlatHeight]}, nil
}

type RGB struct {
	Red, Green, Blue uint8
}

// Each palette in PLAYPAL contains 256 three-ubyte colors totaling 768 bytes (RGB).
type Palette [256]RGB

// Palettes decodes PLAYPAL, the set of color palettes used for the main
// graphics and for palette swap effects.
func (w *WAD) Palettes() ([]Palette, error) {
	lump, err := w.lump("PLAYPAL")
	if err != nil {
		return nil, err
	}
	return decodeRecords(lump, 3*256, func(b []byte) Palette {
		var p Palette
		for i := range p {
			p[i] = RGB{b[3*i], b[3*i+1], b[3*i+2]}
		}
		return p
	})
}

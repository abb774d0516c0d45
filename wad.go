// Package wad provides access to Doom's data archives also known as WAD files,
// decodes their level geometry, locates sectors through the level's BSP tree,
// and checks actor movement against the blockmap the way the original engine
// does. The file format is documented in The Unofficial DOOM Specs:
// http://www.gamers.org/dhs/helpdocs/dmsp1666.html
package wad

import (
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
)

// WAD is a struct that represents Doom's data archive that contains graphics, sounds, and level
// data. The data is organized as named lumps.
type WAD struct {
	Header   Header
	Lumps    []Lump
	Textures map[string]*Texture

	data     []byte
	encoding encoding.Encoding
	levels   map[string]int
}

// WADType is the archive kind named by the header magic.
type WADType string

const (
	IWAD WADType = "IWAD"
	PWAD WADType = "PWAD"
)

type Header struct {
	Type         WADType
	NumLumps     int
	InfoTableOfs int
}

// Lump is a named directory entry. Data is a view into the archive buffer.
type Lump struct {
	Name string
	Data []byte
}

const (
	headerSize    = 12
	lumpInfoSize  = 16
	lumpNameSize  = 8
	levelLumpSpan = 10
)

// Option configures decoding.
type Option func(*WAD)

// WithEncoding sets the code page used for lump, texture and flat names.
// The default is Code Page 437.
func WithEncoding(enc encoding.Encoding) Option {
	return func(w *WAD) {
		w.encoding = enc
	}
}

// NewWAD reads the named file and parses it with Parse.
func NewWAD(filename string, opts ...Option) (*WAD, error) {
	logger.Infof("Start reading WAD %v", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(data, opts...)
}

// Parse decodes the header, the lump directory and the texture table of an
// in-memory WAD. Lump data is not copied.
func Parse(data []byte, opts ...Option) (*WAD, error) {
	w := &WAD{data: data, encoding: defaultEncoding}
	for _, opt := range opts {
		opt(w)
	}

	// Read header
	if err := checkRange(len(data), 0, headerSize); err != nil {
		return nil, errors.Wrap(err, "header")
	}
	magic := WADType(data[0:4])
	if magic != IWAD && magic != PWAD {
		return nil, errors.Wrapf(ErrInvalidHeader, "bad magic: %q", string(magic))
	}
	w.Header = Header{
		Type:         magic,
		NumLumps:     int(readU32LE(data, 4)),
		InfoTableOfs: int(readU32LE(data, 8)),
	}

	// Read info tables
	if err := w.readInfoTables(); err != nil {
		return nil, err
	}

	// Read map textures
	textures, err := w.readTextures()
	if err != nil {
		return nil, err
	}
	w.Textures = textures

	return w, nil
}

func (w *WAD) readInfoTables() error {
	h := w.Header
	if h.NumLumps > len(w.data)/lumpInfoSize {
		return errors.Wrapf(ErrOutOfRangeRead, "directory of %d lumps", h.NumLumps)
	}
	if err := checkRange(len(w.data), h.InfoTableOfs, h.NumLumps*lumpInfoSize); err != nil {
		return errors.Wrap(err, "directory")
	}

	levels := map[string]int{}
	lumps := make([]Lump, h.NumLumps)
	for i := range lumps {
		o := h.InfoTableOfs + i*lumpInfoSize
		filepos := int(readU32LE(w.data, o))
		size := int(readU32LE(w.data, o+4))
		name := readFixedString(w.data, o+8, lumpNameSize, w.encoding)
		if err := checkRange(len(w.data), filepos, size); err != nil {
			return errors.Wrapf(err, "lump %d (%s)", i, name)
		}
		lumps[i] = Lump{Name: name, Data: w.data[filepos : filepos+size : filepos+size]}
		if i > 0 && strings.EqualFold(name, levelLumps[0]) {
			levels[strings.ToUpper(lumps[i-1].Name)] = i - 1
		}
	}
	w.Lumps = lumps
	w.levels = levels
	logger.Debugf("Read %v lump infos", len(lumps))
	return nil
}

// FindLumpIndex returns the index of the last lump with the given name, or -1.
// Names compare case-insensitively; later lumps shadow earlier ones, as a
// patch WAD overrides its base.
func (w *WAD) FindLumpIndex(name string) int {
	name = strings.ToUpper(name)
	for i := len(w.Lumps) - 1; i >= 0; i-- {
		if strings.ToUpper(w.Lumps[i].Name) == name {
			return i
		}
	}
	return -1
}

// FindLump returns the last lump with the given name.
func (w *WAD) FindLump(name string) (*Lump, bool) {
	i := w.FindLumpIndex(name)
	if i < 0 {
		return nil, false
	}
	return &w.Lumps[i], true
}

// lump is FindLump with an error for missing lumps.
func (w *WAD) lump(name string) (*Lump, error) {
	l, ok := w.FindLump(name)
	if !ok {
		return nil, errors.Wrapf(ErrLumpNotFound, "%s", name)
	}
	return l, nil
}

// LevelNames returns a slice of level names found in the WAD archive.
func (w *WAD) LevelNames() []string {
	result := make([]string, 0, len(w.levels))
	for name := range w.levels {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// ReadLevel reads level data from WAD archive and returns a Level struct.
func (w *WAD) ReadLevel(name string) (*Level, error) {
	idx := w.FindLumpIndex(name)
	if idx < 0 {
		return nil, errors.Wrapf(ErrLumpNotFound, "level %s", name)
	}
	return w.ParseMap(idx)
}

package wad

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Texture is a wall texture from a TEXTUREn lump, composed of patches.
type Texture struct {
	Name          string  // Texture name and index into textures map
	Index         int     // Order of definition across TEXTURE1, TEXTURE2
	IsMasked      bool    // Has transparent columns
	Width, Height int     // total width and height of the map texture
	Patches       []Patch // List of component Patches
}

type Patch struct {
	XOffset   int // horizontal offset of patch relative to upper-left of texture
	YOffset   int // vertical offset of patch relative to upper-left of texture
	PatchName string
}

const (
	textureHeaderSize = 22
	texturePatchSize  = 10
)

// texture resolves a side texture name. Blank names and unknown textures are
// nil.
func (w *WAD) texture(name string) *Texture {
	if isBlankName(name) {
		return nil
	}
	t, ok := w.Textures[strings.ToUpper(name)]
	if !ok {
		logger.Debugf("Texture %v not found", name)
		return nil
	}
	return t
}

// readPatchNames reads the PNAMES lump to populate a slice of patch names
func (w *WAD) readPatchNames() ([]string, error) {
	lump, ok := w.FindLump("PNAMES")
	if !ok {
		return nil, nil
	}
	logger.Debug("Loading patch names ...")
	data := lump.Data
	if err := checkRange(len(data), 0, 4); err != nil {
		return nil, errors.Wrap(err, "PNAMES")
	}
	count := int(readU32LE(data, 0))
	if count > len(data)/lumpNameSize {
		return nil, errors.Wrapf(ErrOutOfRangeRead, "PNAMES: %d names", count)
	}
	if err := checkRange(len(data), 4, count*lumpNameSize); err != nil {
		return nil, errors.Wrap(err, "PNAMES")
	}
	patchNames := make([]string, count)
	for i := range patchNames {
		// ToUpper required for "w94_1" patch
		patchNames[i] = strings.ToUpper(readFixedString(data, 4+i*lumpNameSize, lumpNameSize, w.encoding))
	}
	return patchNames, nil
}

// readTextures decodes TEXTURE1..TEXTURE9. A WAD without PNAMES, such as a map
// only PWAD, has no textures.
func (w *WAD) readTextures() (map[string]*Texture, error) {
	textures := make(map[string]*Texture)
	patchNames, err := w.readPatchNames()
	if err != nil || patchNames == nil {
		return textures, err
	}

	index := 0
	for i := 1; i < 10; i++ {
		name := fmt.Sprintf("TEXTURE%v", i)
		lump, ok := w.FindLump(name)
		if !ok {
			continue
		}
		logger.Debugf("Loading %v ...", name)
		list, err := decodeTextureLump(lump, patchNames, w)
		if err != nil {
			return nil, errors.Wrap(err, name)
		}
		for _, t := range list {
			t.Index = index
			index++
			textures[t.Name] = t
		}
	}
	logger.Debugf("Loaded %v textures", len(textures))
	return textures, nil
}

func decodeTextureLump(lump *Lump, patchNames []string, w *WAD) ([]*Texture, error) {
	data := lump.Data
	if err := checkRange(len(data), 0, 4); err != nil {
		return nil, err
	}
	count := int(readU32LE(data, 0))
	if count > len(data)/4 {
		return nil, errors.Wrapf(ErrOutOfRangeRead, "%d textures", count)
	}
	if err := checkRange(len(data), 4, 4*count); err != nil {
		return nil, err
	}

	textures := make([]*Texture, count)
	for i := range textures {
		o := int(readU32LE(data, 4+4*i))
		if err := checkRange(len(data), o, textureHeaderSize); err != nil {
			return nil, errors.Wrapf(err, "texture %d", i)
		}
		texture := &Texture{
			Name:     strings.ToUpper(readFixedString(data, o, lumpNameSize, w.encoding)),
			IsMasked: readU32LE(data, o+8) != 0,
			Width:    readI16LE(data, o+12),
			Height:   readI16LE(data, o+14),
		}
		numPatches := readI16LE(data, o+20)
		if numPatches < 0 {
			return nil, errors.Wrapf(ErrOutOfRangeRead, "texture %s: %d patches", texture.Name, numPatches)
		}
		if err := checkRange(len(data), o+textureHeaderSize, numPatches*texturePatchSize); err != nil {
			return nil, errors.Wrapf(err, "texture %s", texture.Name)
		}

		// Add patches to texture
		texture.Patches = make([]Patch, numPatches)
		for pi := range texture.Patches {
			po := o + textureHeaderSize + pi*texturePatchSize
			nameIdx := readI16LE(data, po+4)
			if nameIdx < 0 || nameIdx >= len(patchNames) {
				return nil, errors.Wrapf(ErrBadReference, "texture %s: patch name %d of %d", texture.Name, nameIdx, len(patchNames))
			}
			texture.Patches[pi] = Patch{
				XOffset:   readI16LE(data, po),
				YOffset:   readI16LE(data, po+2),
				PatchName: patchNames[nameIdx],
			}
		}
		textures[i] = texture
	}
	return textures, nil
}

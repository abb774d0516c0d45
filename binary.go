package wad

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Little-endian primitives over a byte buffer. None of them check bounds;
// callers validate the window before reading.

func readU16LE(buf []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(buf[off:])
}

func readU32LE(buf []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(buf[off:])
}

// readI16LE sign-extends the unsigned read by hand.
func readI16LE(buf []byte, off int) int {
	v := int(readU16LE(buf, off))
	if v >= 1<<15 {
		v -= 1 << 16
	}
	return v
}

// defaultEncoding is the DOS code page DOOM's tools wrote names in.
var defaultEncoding encoding.Encoding = charmap.CodePage437

// readFixedString trims trailing NULs from buf[off:off+length] and decodes the
// rest with enc.
func readFixedString(buf []byte, off, length int, enc encoding.Encoding) string {
	raw := bytes.TrimRight(buf[off:off+length], "\x00")
	if enc == nil {
		enc = defaultEncoding
	}
	s, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(s)
}

// isBlankName reports whether a texture name means "no texture".
func isBlankName(s string) bool {
	return s == "-" || len(bytes.Trim([]byte(s), " \x00")) == 0
}

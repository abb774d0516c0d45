package wad

import (
	"fmt"

	"github.com/pkg/errors"
)

// Errors returned while decoding a WAD or querying a level. Decode errors are
// wrapped with context, so compare with errors.Is.
var (
	ErrInvalidHeader     = errors.New("invalid WAD header")
	ErrUnexpectedLump    = errors.New("unexpected lump")
	ErrMalformedBlockMap = errors.New("malformed blockmap")
	ErrCorruptBspTree    = errors.New("corrupt BSP tree")
	ErrOutOfRangeRead    = errors.New("read out of range")
	ErrLumpSize          = errors.New("lump size is not a multiple of the record size")
	ErrBadReference      = errors.New("index out of range")
	ErrLumpNotFound      = errors.New("lump not found")
)

// UnexpectedLumpError reports a map lump slot holding the wrong lump.
type UnexpectedLumpError struct {
	Expected string
	Actual   string
}

func (e *UnexpectedLumpError) Error() string {
	return fmt.Sprintf("unexpected lump: expected %s, got %q", e.Expected, e.Actual)
}

func (e *UnexpectedLumpError) Unwrap() error {
	return ErrUnexpectedLump
}

// checkRange fails unless [off, off+n) lies within a buffer of length size.
func checkRange(size, off, n int) error {
	if off < 0 || n < 0 || off > size || n > size-off {
		return errors.Wrapf(ErrOutOfRangeRead, "%d bytes at offset %d of %d", n, off, size)
	}
	return nil
}

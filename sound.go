package wad

import (
	"strings"

	"github.com/pkg/errors"
)

// Sound lumps in the WAD file are stored in the DMX format; which consists of a short header
// followed by raw 8-bit, monaural (PCM) unsigned data, typically at a sampling rate of 11025 Hz,
// although some sounds use 22050 Hz. Each sample is one byte (8 bits).
type Sound struct {
	Name       string
	SampleRate int
	Samples    []byte
}

const (
	soundHeaderSize = 8
	soundPadding    = 16 // Pad bytes before and after the samples
	dmxFormat       = 3
)

// GetSound decodes a DMX sound lump, such as DSPISTOL.
func (w *WAD) GetSound(name string) (*Sound, error) {
	name = strings.ToUpper(name)
	lump, err := w.lump(name)
	if err != nil {
		return nil, err
	}
	data := lump.Data
	if err := checkRange(len(data), 0, soundHeaderSize); err != nil {
		return nil, errors.Wrapf(err, "sound %s", name)
	}
	if format := readU16LE(data, 0); format != dmxFormat {
		return nil, errors.Errorf("sound %s: unexpected format %d", name, format)
	}

	// The count includes the pad bytes
	count := int(readU32LE(data, 4))
	if count < 2*soundPadding {
		return nil, errors.Wrapf(ErrOutOfRangeRead, "sound %s: %d samples", name, count)
	}
	if err := checkRange(len(data), soundHeaderSize, count); err != nil {
		return nil, errors.Wrapf(err, "sound %s", name)
	}
	start := soundHeaderSize + soundPadding
	end := soundHeaderSize + count - soundPadding
	return &Sound{
		Name:       name,
		SampleRate: int(readU16LE(data, 2)),
		Samples:    data[start:end:end],
	}, nil
}

// MusicScore is a MUS lump, validated but not decoded into events.
type MusicScore struct {
	Name           string
	PrimaryCount   int // count of primary channels
	SecondaryCount int // count of secondary channels
	Instruments    []int
	Score          []byte
}

const musicHeaderSize = 16

var musicMagic = []byte("MUS\x1a")

// GetMusic returns a MUS music lump, such as D_E1M1.
func (w *WAD) GetMusic(name string) (*MusicScore, error) {
	name = strings.ToUpper(name)
	lump, err := w.lump(name)
	if err != nil {
		return nil, err
	}
	data := lump.Data
	if err := checkRange(len(data), 0, musicHeaderSize); err != nil {
		return nil, errors.Wrapf(err, "music %s", name)
	}
	if string(data[:4]) != string(musicMagic) {
		return nil, errors.Errorf("music %s: bad magic %q", name, data[:4])
	}
	scoreLen := int(readU16LE(data, 4))
	scoreStart := int(readU16LE(data, 6))
	score := &MusicScore{
		Name:           name,
		PrimaryCount:   int(readU16LE(data, 8)),
		SecondaryCount: int(readU16LE(data, 10)),
	}

	// Read the instruments
	numInstruments := int(readU16LE(data, 12))
	if err := checkRange(len(data), musicHeaderSize, 2*numInstruments); err != nil {
		return nil, errors.Wrapf(err, "music %s instruments", name)
	}
	score.Instruments = make([]int, numInstruments)
	for i := range score.Instruments {
		score.Instruments[i] = int(readU16LE(data, musicHeaderSize+2*i))
	}

	if err := checkRange(len(data), scoreStart, scoreLen); err != nil {
		return nil, errors.Wrapf(err, "music %s score", name)
	}
	score.Score = data[scoreStart : scoreStart+scoreLen : scoreStart+scoreLen]
	return score, nil
}

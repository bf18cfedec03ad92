/*
NAME
  wav.go

DESCRIPTION
  wav.go contains functions for parsing and writing wav audio, used to
  read the 16-bit PCM source file and, in tests, to fabricate synthetic
  WAV fixtures.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package wav provides functions for parsing and writing wav audio.
package wav

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// PCMFormat is the WAV format tag for uncompressed linear PCM.
const PCMFormat = 1

// bitDepth is the only sample bit depth this converter accepts as input.
const bitDepth = 16

// Errors returned by Parse; all are instances of the InputInvalid class
// from the caller's perspective (see convert.Error).
var (
	ErrNotPCM      = errors.New("wav: audio format is not 16-bit PCM")
	ErrBadBitDepth = errors.New("wav: unsupported bit depth")
	ErrEmpty       = errors.New("wav: no PCM data")
)

// PCM holds a fully decoded WAV source: its format, and its samples
// de-interleaved into one []int16 slice per channel.
type PCM struct {
	SampleRate int
	Channels   [][]int16 // Channels[c] holds channel c's samples.
}

// NumChannels returns the number of audio channels.
func (p *PCM) NumChannels() int {
	return len(p.Channels)
}

// Frames returns the number of sample frames per channel.
func (p *PCM) Frames() int {
	if len(p.Channels) == 0 {
		return 0
	}
	return len(p.Channels[0])
}

// Parse reads a standard RIFF/WAVE file and demultiplexes its samples
// into per-channel buffers. Only 16-bit linear PCM is supported; any
// other format tag or bit depth is reported as ErrNotPCM/ErrBadBitDepth.
func Parse(r io.Reader) (*PCM, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, errors.New("wav: not a valid RIFF/WAVE file")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "wav: could not decode PCM chunk")
	}

	if d.WavAudioFormat != PCMFormat {
		return nil, ErrNotPCM
	}
	if d.BitDepth != bitDepth {
		return nil, ErrBadBitDepth
	}
	if len(buf.Data) == 0 {
		return nil, ErrEmpty
	}

	nc := int(d.NumChans)
	if nc < 1 {
		nc = buf.Format.NumChannels
	}

	channels := make([][]int16, nc)
	for c := range channels {
		channels[c] = make([]int16, 0, len(buf.Data)/nc)
	}
	for i, s := range buf.Data {
		channels[i%nc] = append(channels[i%nc], int16(s))
	}

	return &PCM{SampleRate: int(d.SampleRate), Channels: channels}, nil
}

// Write encodes p as a standard 16-bit PCM RIFF/WAVE file using the
// go-audio/wav encoder. This is only exercised by tests, to build
// synthetic WAV fixtures; the converter's real output is always an SNS
// or SON container, never a WAV file.
func Write(w io.WriteSeeker, p *PCM) error {
	nc := p.NumChannels()
	if nc == 0 {
		return ErrEmpty
	}

	enc := wav.NewEncoder(w, p.SampleRate, bitDepth, nc, PCMFormat)

	frames := p.Frames()
	interleaved := make([]int, 0, frames*nc)
	for f := 0; f < frames; f++ {
		for c := 0; c < nc; c++ {
			interleaved = append(interleaved, int(p.Channels[c][f]))
		}
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: nc, SampleRate: p.SampleRate},
		Data:           interleaved,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return errors.Wrap(err, "wav: could not write PCM chunk")
	}
	return enc.Close()
}

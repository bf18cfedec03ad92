/*
NAME
  assemble.go

DESCRIPTION
  assemble.go builds the byte-exact SNS and SON sound containers LyN
  expects: a RIFF/WAVE chunk tree carrying a GC-ADPCM or Vorbis payload,
  optionally wrapped in an outer SON box with a leading LySE descriptor,
  and optionally prefixed with the 20-byte Just-Dance header.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package lyn

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Fixed format tags recognised in the fmt chunk.
const (
	formatTagDSP         = 0x5050
	formatTagOGG         = 0x3156
	formatTagExtensible  = 0xFFFE
	dspByteRate          = 128000
	dspOggBlockAlign     = 4
	dspBitsPerSample     = 4
	oggBitsPerSample     = 16
	extensibleCbSize     = 0x16
	longAudioThresholdHz = 10 // seconds; see longAudioFlag.
)

// subformatGUID is the fixed 16-byte WAVEFORMATEXTENSIBLE subformat
// blob the 4-channel SON fmt chunk carries.
var subformatGUID = []byte{
	0x50, 0x50, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00,
	0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71,
}

// justDancePrefix is the literal 20-byte LySE header prepended to
// Just-Dance SNS output.
var justDancePrefix = []byte{
	0x4C, 0x79, 0x53, 0x45, 0x0C, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x0C, 0x00, 0x00, 0x00,
	0x1F, 0x00, 0x00, 0x00,
}

// AssembleOptions holds everything Assemble needs to emit a single
// container. Payload is the already-encoded, already-interleaved data
// chunk body (ADPCM frames for CodecDSP, the block-interleaved Vorbis
// payload for CodecOGG).
type AssembleOptions struct {
	Codec       Codec
	Envelope    Envelope
	Extras      Extras
	FourChannel bool
	SampleRate  int
	NumSamples  int // per-channel decoded sample count, written into fact.
	Channels    int // logical channel count written into fmt.
	Payload     []byte
	Beats       BeatData
}

// Validate enforces the combination rules implied by §6: four_channel is
// SON-only and DSP-only (per the DSP interleaver's own restriction);
// JustDance/CustomBeats are SNS-only.
func (o AssembleOptions) Validate() error {
	if o.FourChannel {
		if o.Envelope != EnvelopeSON {
			return errors.New("lyn: four-channel mode requires the SON envelope")
		}
		if o.Codec != CodecDSP {
			return errors.New("lyn: four-channel mode requires the DSP codec")
		}
		if o.Channels != 4 {
			return errors.New("lyn: four-channel mode requires Channels == 4")
		}
	}
	if (o.Extras == ExtrasJustDance || o.Extras == ExtrasCustomBeats) && o.Envelope != EnvelopeSNS {
		return errors.New("lyn: JustDance/CustomBeats extras require the SNS envelope")
	}
	if o.Channels < 1 {
		return errors.New("lyn: Channels must be positive")
	}
	if o.SampleRate <= 0 {
		return errors.New("lyn: SampleRate must be positive")
	}
	return nil
}

// Assemble builds a complete SNS or SON container and returns its bytes.
func Assemble(opts AssembleOptions) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	son := opts.Envelope == EnvelopeSON

	var fmtBody []byte
	switch {
	case opts.FourChannel:
		fmtBody = fmtExtensible4Ch(uint32(opts.SampleRate))
	case opts.Codec == CodecOGG:
		fmtBody = fmtOGG(uint16(opts.Channels), uint32(opts.SampleRate))
	default:
		fmtBody = fmtDSP(uint16(opts.Channels), uint32(opts.SampleRate))
	}

	var factBody []byte
	if son {
		factBody = factBodySON(uint32(opts.NumSamples))
	} else {
		factBody = factBodySNS(uint32(opts.NumSamples))
	}

	riffBody := make([]byte, 0, len(fmtBody)+len(factBody)+len(opts.Payload)+64)
	riffBody = append(riffBody, "WAVE"...)
	if son {
		longFlag := uint32(0)
		if opts.NumSamples > opts.SampleRate*longAudioThresholdHz {
			longFlag = 0x21
		}
		riffBody = append(riffBody, lySEChunk(longFlag)...)
	}
	riffBody = append(riffBody, chunk("fmt ", fmtBody)...)
	riffBody = append(riffBody, chunk("fact", factBody)...)
	if opts.Extras == ExtrasCustomBeats && opts.Beats.Present() {
		riffBody = append(riffBody, opts.Beats.Bytes...)
	}
	riffBody = append(riffBody, chunk("data", opts.Payload)...)

	riffChunk := make([]byte, 0, 8+len(riffBody))
	riffChunk = append(riffChunk, "RIFF"...)
	riffChunk = append(riffChunk, leU32(uint32(len(riffBody)))...)
	riffChunk = append(riffChunk, riffBody...)

	if !son {
		out := riffChunk
		if opts.Extras == ExtrasJustDance {
			out = append(append([]byte(nil), justDancePrefix...), out...)
		}
		return out, nil
	}

	riffTotalSize := uint32(4 + len(riffBody))
	sonSize := riffTotalSize + 0x0C

	out := make([]byte, 0, 32+len(riffChunk)+4)
	out = append(out, leU32(sonSize)...)
	out = append(out, leU32(sonSize)...)
	out = append(out, leU32(0)...)
	out = append(out, leU32(2)...)
	out = append(out, leU32(0)...)
	out = append(out, "SON\x00"...)
	out = append(out, leU64(0)...)
	out = append(out, riffChunk...)
	out = append(out, leU32(0)...)
	return out, nil
}

// chunk wraps id and body as a standard four-byte-id + u32-size chunk.
func chunk(id string, body []byte) []byte {
	buf := make([]byte, 0, 8+len(body))
	buf = append(buf, id...)
	buf = append(buf, leU32(uint32(len(body)))...)
	buf = append(buf, body...)
	return buf
}

// fmtDSP builds the 0x12-byte DSP/SNS fmt body.
func fmtDSP(channels uint16, sampleRate uint32) []byte {
	buf := make([]byte, 0, 18)
	buf = append(buf, leU16(formatTagDSP)...)
	buf = append(buf, leU16(channels)...)
	buf = append(buf, leU32(sampleRate)...)
	buf = append(buf, leU32(dspByteRate)...)
	buf = append(buf, leU16(dspOggBlockAlign)...)
	buf = append(buf, leU16(dspBitsPerSample)...)
	buf = append(buf, leU16(0)...) // cb_size
	return buf
}

// fmtOGG builds the 0x12-byte OGG/SNS fmt body.
func fmtOGG(channels uint16, sampleRate uint32) []byte {
	byteRate := sampleRate * uint32(channels) * 2
	buf := make([]byte, 0, 18)
	buf = append(buf, leU16(formatTagOGG)...)
	buf = append(buf, leU16(channels)...)
	buf = append(buf, leU32(sampleRate)...)
	buf = append(buf, leU32(byteRate)...)
	buf = append(buf, leU16(dspOggBlockAlign)...)
	buf = append(buf, leU16(oggBitsPerSample)...)
	buf = append(buf, leU16(0)...) // cb_size
	return buf
}

// fmtExtensible4Ch builds the 0x28-byte WAVEFORMATEXTENSIBLE fmt body
// for four-channel SON output.
func fmtExtensible4Ch(sampleRate uint32) []byte {
	buf := make([]byte, 0, 40)
	buf = append(buf, leU16(formatTagExtensible)...)
	buf = append(buf, leU16(4)...) // channels
	buf = append(buf, leU32(sampleRate)...)
	buf = append(buf, leU32(dspByteRate)...)
	buf = append(buf, leU16(0)...) // block_align
	buf = append(buf, leU16(dspBitsPerSample)...)
	buf = append(buf, leU16(extensibleCbSize)...)
	buf = append(buf, leU16(0)...) // valid_bits_per_sample
	buf = append(buf, leU32(0)...) // channel_mask
	buf = append(buf, subformatGUID...)
	return buf
}

// factBodySNS builds the 0x10-byte fact body used in plain SNS output.
func factBodySNS(numSamples uint32) []byte {
	buf := make([]byte, 0, 16)
	buf = append(buf, leU32(numSamples)...)
	buf = append(buf, "LyN "...)
	buf = append(buf, leU32(3)...)
	buf = append(buf, leU32(7)...)
	return buf
}

// factBodySON builds the 0x10-byte fact body used inside a SON wrapper,
// whose trailing pair differs from plain SNS.
func factBodySON(numSamples uint32) []byte {
	buf := make([]byte, 0, 16)
	buf = append(buf, leU32(numSamples)...)
	buf = append(buf, "LyN "...)
	buf = append(buf, leU32(4)...)
	buf = append(buf, leU32(14)...)
	return buf
}

// lySEChunk builds the 0x18-byte (8-byte header + 0x10-byte body) LySE
// descriptor chunk inserted before fmt in SON output.
func lySEChunk(longAudioFlag uint32) []byte {
	body := make([]byte, 0, 16)
	body = append(body, leU32(1)...)
	body = append(body, leU32(0x10)...)
	body = append(body, leU32(longAudioFlag)...)
	body = append(body, leU32(0)...)
	return chunk("LySE", body)
}

func leU16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func leU32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func leU64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

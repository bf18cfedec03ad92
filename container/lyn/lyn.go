/*
NAME
  lyn.go

DESCRIPTION
  lyn.go defines the shared types the LyN container assembler and beat
  harvester operate on: the codec and envelope selectors, and the beat
  data threaded between a harvest and an assembly.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package lyn assembles the RIFF-framed SNS and SON sound containers
// used by the LyN game engine, and harvests beat-marker bytes from a
// reference SNS for splicing into a new one.
package lyn

// Codec selects the payload encoding carried in the container's data chunk.
type Codec int

const (
	// CodecDSP is Nintendo GC-ADPCM, format_tag 0x5050.
	CodecDSP Codec = iota
	// CodecOGG is multiplexed Vorbis, format_tag 0x3156.
	CodecOGG
)

// Extras selects an optional SNS-only addition to the container.
type Extras int

const (
	// ExtrasNone adds nothing beyond the base container.
	ExtrasNone Extras = iota
	// ExtrasJustDance prepends the 20-byte LySE prefix.
	ExtrasJustDance
	// ExtrasCustomBeats splices a harvested beat chunk between fact and data.
	ExtrasCustomBeats
)

// Envelope selects the outer container shape.
type Envelope int

const (
	// EnvelopeSNS is a bare RIFF/WAVE tree.
	EnvelopeSNS Envelope = iota
	// EnvelopeSON wraps the RIFF tree in an outer SON box with a leading
	// LySE descriptor chunk.
	EnvelopeSON
)

// BeatData is the byte range harvested from a reference SNS's cue chunk
// through to (excluding) its data chunk, plus the beat count read from
// the cue chunk for diagnostics. The zero value means "no beats".
type BeatData struct {
	Bytes []byte
	Count int32
}

// Present reports whether a harvest succeeded.
func (b BeatData) Present() bool { return b.Bytes != nil }

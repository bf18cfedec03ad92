/*
NAME
  config.go

DESCRIPTION
  config.go defines the configuration accepted by the convert package: a
  batch conversion job's sample-rate/mixdown/normalisation options, its
  container envelope and codec choice, and the extras that vary the
  output by container shape.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config holds the configuration for a single WAV-to-SNS/SON
// conversion job.
package config

import (
	"github.com/pkg/errors"

	"github.com/lyn-tools/snsconv/container/lyn"
)

// Format and Extras alias the container package's envelope/extras
// selectors: a conversion job picks them, the container assembler
// consumes them, and there is no reason for the two packages to define
// distinct enums for the same concept.
type (
	Format = lyn.Envelope
	Extras = lyn.Extras
	Codec  = lyn.Codec
)

// Format values.
const (
	FormatSNS = lyn.EnvelopeSNS
	FormatSON = lyn.EnvelopeSON
)

// Extras values.
const (
	ExtrasNone        = lyn.ExtrasNone
	ExtrasJustDance   = lyn.ExtrasJustDance
	ExtrasCustomBeats = lyn.ExtrasCustomBeats
)

// Codec values.
const (
	CodecDSP = lyn.CodecDSP
	CodecOGG = lyn.CodecOGG
)

// Config holds everything a single conversion job needs.
type Config struct {
	// TargetSampleRate resamples the input before encoding; 0 means
	// "don't resample, use the input's own rate".
	TargetSampleRate uint32

	// ForceMono downmixes a multi-channel input to mono via the external
	// preprocessor before encoding.
	ForceMono bool

	// Normalize applies loudness normalisation via the external
	// preprocessor before encoding.
	Normalize bool

	// Format selects the SNS or SON envelope.
	Format Format

	// FourChannel duplicates a stereo input's two channels into a
	// 4-channel WAVEFORMATEXTENSIBLE layout. SON-only.
	FourChannel bool

	// Extras selects an SNS-only addition: none, the Just-Dance prefix,
	// or a spliced custom beat chunk.
	Extras Extras

	// Codec selects GC-ADPCM ("DSP") or Vorbis ("OGG") encoding.
	Codec Codec

	// ReferenceSNSPath is the source SNS beats are harvested from when
	// Extras == ExtrasCustomBeats.
	ReferenceSNSPath string
}

// Default returns the zero-config defaults: no resampling, SNS/DSP, no extras.
func Default() Config {
	return Config{
		Format: FormatSNS,
		Extras: ExtrasNone,
		Codec:  CodecDSP,
	}
}

// Validate enforces the combination rules implied by §6 of the
// specification this converter follows: four-channel output is SON-only,
// and the SNS-only extras cannot be combined with SON.
func (c Config) Validate() error {
	if c.FourChannel && c.Format != FormatSON {
		return errors.New("config: FourChannel requires Format == FormatSON")
	}
	if c.FourChannel && c.Codec != CodecDSP {
		return errors.New("config: FourChannel requires Codec == CodecDSP")
	}
	if (c.Extras == ExtrasJustDance || c.Extras == ExtrasCustomBeats) && c.Format != FormatSNS {
		return errors.New("config: JustDance/CustomBeats extras require Format == FormatSNS")
	}
	if c.Extras == ExtrasCustomBeats && c.ReferenceSNSPath == "" {
		return errors.New("config: ExtrasCustomBeats requires a ReferenceSNSPath")
	}
	return nil
}

/*
NAME
  convert.go

DESCRIPTION
  convert.go drives the whole WAV-to-SNS/SON pipeline: parse the input,
  optionally preprocess and harvest beats, encode each channel with the
  configured codec, interleave, assemble the container, and write the
  result atomically.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package convert drives the conversion of a 16-bit PCM WAV file into
// the RIFF-framed SNS or SON container used by the LyN game engine.
package convert

import (
	"os"
	"path/filepath"

	"github.com/ausocean/utils/logging"

	"github.com/lyn-tools/snsconv/codec/adpcm"
	"github.com/lyn-tools/snsconv/codec/dsp"
	"github.com/lyn-tools/snsconv/codec/vorbis"
	"github.com/lyn-tools/snsconv/codec/wav"
	"github.com/lyn-tools/snsconv/container/lyn"
	"github.com/lyn-tools/snsconv/convert/config"
)

// Convert reads the WAV file at inPath, converts it per cfg, and writes
// the resulting SNS or SON container to outPath. outPath is only ever
// created once, after every byte of the output is ready: the result is
// written to a sibling temp file and renamed into place, so a caller
// never observes a partially written output file.
func Convert(inPath, outPath string, cfg config.Config, log logging.Logger) error {
	return convert(commandRunner{}, inPath, outPath, cfg, log)
}

// convert is Convert's implementation, parameterised over a Runner so
// tests can substitute a fake process runner.
func convert(runner Runner, inPath, outPath string, cfg config.Config, log logging.Logger) error {
	if err := cfg.Validate(); err != nil {
		return newError(InputInvalid, "invalid configuration", err)
	}

	workingPath := inPath
	needsPreprocess := cfg.ForceMono || cfg.Normalize || cfg.TargetSampleRate != 0
	if needsPreprocess {
		tmp, err := NewScopedTemp("", "snsconv-pre-*.wav")
		if err != nil {
			return newError(IO, "could not allocate temp file for preprocessing", err)
		}
		defer tmp.Close()

		mono, err := isMultiChannel(inPath)
		if err != nil {
			return newError(InputInvalid, "could not inspect input WAV", err)
		}
		if err := preprocess(runner, log, inPath, tmp.Path, cfg.TargetSampleRate, cfg.ForceMono && mono, cfg.Normalize); err != nil {
			return err
		}
		workingPath = tmp.Path
	}

	pcm, err := parseWAV(workingPath)
	if err != nil {
		return newError(InputInvalid, "could not parse working WAV", err)
	}

	var beats lyn.BeatData
	if cfg.Extras == config.ExtrasCustomBeats {
		refBytes, err := os.ReadFile(cfg.ReferenceSNSPath)
		if err != nil {
			return newError(IO, "could not read reference SNS for beat harvest", err)
		}
		harvested, err := lyn.HarvestBeats(refBytes)
		if err != nil {
			logDebug(log, "convert: beat harvest failed, proceeding without beats", "error", err.Error())
		} else {
			beats = harvested
		}
	}

	var streams [][]byte
	switch cfg.Codec {
	case config.CodecDSP:
		streams, err = encodeDSPChannels(pcm)
	case config.CodecOGG:
		streams, err = encodeVorbisChannels(runner, log, workingPath, pcm.NumChannels())
	default:
		streams, err = encodeDSPChannels(pcm)
	}
	if err != nil {
		return err
	}

	channelsOut := len(streams)
	if cfg.FourChannel {
		if len(streams) != 2 {
			return newError(InputInvalid, "FourChannel requires a stereo input", nil)
		}
		streams = duplicateStereo(streams)
		channelsOut = 4
	}

	var payload []byte
	switch cfg.Codec {
	case config.CodecOGG:
		payload = vorbis.InterleaveBlocks(streams)
	default:
		payload = dsp.Interleave(streams)
	}

	out, err := lyn.Assemble(lyn.AssembleOptions{
		Codec:       cfg.Codec,
		Envelope:    cfg.Format,
		Extras:      cfg.Extras,
		FourChannel: cfg.FourChannel,
		SampleRate:  pcm.SampleRate,
		NumSamples:  pcm.Frames(),
		Channels:    channelsOut,
		Payload:     payload,
		Beats:       beats,
	})
	if err != nil {
		return newError(InputInvalid, "could not assemble container", err)
	}

	if err := writeAtomic(outPath, out); err != nil {
		return newError(IO, "could not write output container", err)
	}
	return nil
}

// duplicateStereo appends copies of streams[0] and streams[1] as
// channels 2 and 3, for FourChannel's "channels 2/3 duplicate 0/1" rule.
func duplicateStereo(streams [][]byte) [][]byte {
	lCopy := append([]byte(nil), streams[0]...)
	rCopy := append([]byte(nil), streams[1]...)
	return append(streams, lCopy, rCopy)
}

// isMultiChannel reports whether the WAV at path has more than one channel.
func isMultiChannel(path string) (bool, error) {
	pcm, err := parseWAV(path)
	if err != nil {
		return false, err
	}
	return pcm.NumChannels() > 1, nil
}

func parseWAV(path string) (*wav.PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return wav.Parse(f)
}

// encodeDSPChannels GC-ADPCM-encodes every channel of pcm independently.
func encodeDSPChannels(pcm *wav.PCM) ([][]byte, error) {
	streams := make([][]byte, pcm.NumChannels())
	for c := range streams {
		enc := adpcm.NewEncoder()
		streams[c] = enc.Encode(pcm.Channels[c], nil)
	}
	return streams, nil
}

// encodeVorbisChannels splits inPath into n mono WAV files via the
// external channel splitter, Vorbis-encodes each with the external
// encoder, and repackages each resulting Ogg stream.
func encodeVorbisChannels(runner Runner, log logging.Logger, inPath string, n int) ([][]byte, error) {
	streams := make([][]byte, n)
	for c := 0; c < n; c++ {
		chanTmp, err := NewScopedTemp("", "snsconv-ch-*.wav")
		if err != nil {
			return nil, newError(IO, "could not allocate channel temp file", err)
		}
		defer chanTmp.Close()

		if err := splitChannel(runner, log, inPath, chanTmp.Path, c); err != nil {
			return nil, err
		}

		oggTmp, err := NewScopedTemp("", "snsconv-ogg-*.ogg")
		if err != nil {
			return nil, newError(IO, "could not allocate ogg temp file", err)
		}
		defer oggTmp.Close()

		if err := encodeVorbis(runner, log, chanTmp.Path, oggTmp.Path); err != nil {
			return nil, err
		}

		raw, err := os.ReadFile(oggTmp.Path)
		if err != nil {
			return nil, newError(IO, "could not read encoded ogg stream", err)
		}
		streams[c] = vorbis.Repackage(raw, log)
	}
	return streams, nil
}

// writeAtomic writes data to a temp file beside dst, then renames it
// into place, so dst is only ever observed fully written.
func writeAtomic(dst string, data []byte) error {
	dir := filepath.Dir(dst)
	tmp, err := NewScopedTemp(dir, "snsconv-out-*.tmp")
	if err != nil {
		return err
	}
	defer tmp.Close()

	if err := os.WriteFile(tmp.Path, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Path, dst)
}

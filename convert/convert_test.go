/*
NAME
  convert_test.go

DESCRIPTION
  convert_test.go contains tests for the convert package.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lyn-tools/snsconv/codec/wav"
	"github.com/lyn-tools/snsconv/convert/config"
)

// fakeRunner substitutes for commandRunner in tests: LookPath always
// succeeds, and Run always "succeeds" by writing the placeholder bytes
// "fake-output" to the path given as the last argument. That is the
// output path for the ffmpeg invocations; for oggenc the last argument
// is the input path, so the .ogg temp file stays empty.
type fakeRunner struct {
	failLookPath bool
	failRun      bool
	lastArgs     []string
}

func (f *fakeRunner) LookPath(name string) error {
	if f.failLookPath {
		return os.ErrNotExist
	}
	return nil
}

func (f *fakeRunner) Run(name string, args ...string) ([]byte, error) {
	f.lastArgs = args
	if f.failRun {
		return []byte("boom"), os.ErrInvalid
	}
	out := args[len(args)-1]
	if err := os.WriteFile(out, []byte("fake-output"), 0o644); err != nil {
		return nil, err
	}
	return nil, nil
}

func writeTestWAV(t *testing.T, path string, rate int, channels [][]int16) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("could not create test WAV: %v", err)
	}
	defer f.Close()
	err = wav.Write(f, &wav.PCM{SampleRate: rate, Channels: channels})
	if err != nil {
		t.Fatalf("could not write test WAV: %v", err)
	}
}

func TestConvertTinyMonoSNS(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.sns")

	writeTestWAV(t, inPath, 32000, [][]int16{make([]int16, 14)})

	cfg := config.Default()
	err := convert(&fakeRunner{}, inPath, outPath, cfg, nil)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("could not read output: %v", err)
	}
	if string(out[0:4]) != "RIFF" {
		t.Errorf("output does not start with RIFF magic: % x", out[:4])
	}
}

func TestConvertMissingInputIsInputInvalid(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	err := convert(&fakeRunner{}, filepath.Join(dir, "missing.wav"), filepath.Join(dir, "out.sns"), cfg, nil)
	if err == nil {
		t.Fatal("expected an error for a missing input file")
	}
	cerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if cerr.Kind != InputInvalid {
		t.Errorf("Kind = %v, want InputInvalid", cerr.Kind)
	}
}

func TestConvertInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	writeTestWAV(t, inPath, 32000, [][]int16{make([]int16, 14)})

	cfg := config.Config{FourChannel: true, Format: config.FormatSNS, Codec: config.CodecDSP}
	err := convert(&fakeRunner{}, inPath, filepath.Join(dir, "out.sns"), cfg, nil)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != InputInvalid {
		t.Fatalf("expected an InputInvalid *Error, got %v", err)
	}
}

func TestConvertExternalMissing(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	writeTestWAV(t, inPath, 32000, [][]int16{make([]int16, 14), make([]int16, 14)})

	cfg := config.Default()
	cfg.ForceMono = true
	err := convert(&fakeRunner{failLookPath: true}, inPath, filepath.Join(dir, "out.sns"), cfg, nil)
	if err == nil {
		t.Fatal("expected an error when the external tool is missing")
	}
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != ExternalMissing {
		t.Fatalf("expected an ExternalMissing *Error, got %v", err)
	}
}

func TestConvertNeverLeavesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.sns")
	writeTestWAV(t, inPath, 32000, [][]int16{make([]int16, 14)})

	cfg := config.Default()
	cfg.Extras = config.ExtrasCustomBeats
	cfg.ReferenceSNSPath = filepath.Join(dir, "does-not-exist.sns")

	err := convert(&fakeRunner{}, inPath, outPath, cfg, nil)
	if err == nil {
		t.Fatal("expected an error for a missing reference SNS")
	}
	if _, statErr := os.Stat(outPath); !os.IsNotExist(statErr) {
		t.Error("output file should not exist after a failed conversion")
	}
}

func TestConvertFourChannelSON(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.son")
	writeTestWAV(t, inPath, 32000, [][]int16{make([]int16, 28), make([]int16, 28)})

	cfg := config.Default()
	cfg.Format = config.FormatSON
	cfg.FourChannel = true

	err := convert(&fakeRunner{}, inPath, outPath, cfg, nil)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("could not read output: %v", err)
	}
	if string(out[20:24]) != "SON\x00" {
		t.Errorf("missing SON magic: %q", out[20:24])
	}
}

func TestConvertOggCodec(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.sns")
	writeTestWAV(t, inPath, 32000, [][]int16{make([]int16, 28), make([]int16, 28)})

	cfg := config.Default()
	cfg.Codec = config.CodecOGG

	runner := &fakeRunner{}
	if err := convert(runner, inPath, outPath, cfg, nil); err != nil {
		t.Fatalf("convert: %v", err)
	}
	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("could not read output: %v", err)
	}
	if string(out[0:4]) != "RIFF" {
		t.Errorf("output does not start with RIFF magic: % x", out[:4])
	}
}

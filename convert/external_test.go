/*
NAME
  external_test.go

DESCRIPTION
  external_test.go contains tests for the convert package.

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
	"errors"
	"testing"
)

type stubRunner struct {
	lookPathErr error
	runOut      []byte
	runErr      error
	calls       [][]string
}

func (s *stubRunner) LookPath(name string) error { return s.lookPathErr }

func (s *stubRunner) Run(name string, args ...string) ([]byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	return s.runOut, s.runErr
}

func TestPreprocessBuildsExpectedArgs(t *testing.T) {
	r := &stubRunner{}
	if err := preprocess(r, nil, "in.wav", "out.wav", 44100, true, true); err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	if len(r.calls) != 1 {
		t.Fatalf("expected exactly one Run call, got %d", len(r.calls))
	}
	args := r.calls[0]
	wantFragments := []string{"-i", "in.wav", "-ac", "1", "-ar", "44100", "-af", "loudnorm=I=-16:TP=-1.5:LRA=11", "out.wav"}
	joined := args
	for _, frag := range wantFragments {
		found := false
		for _, a := range joined {
			if a == frag {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected arg fragment %q in %v", frag, joined)
		}
	}
}

func TestPreprocessMissingTool(t *testing.T) {
	r := &stubRunner{lookPathErr: errors.New("not found")}
	err := preprocess(r, nil, "in.wav", "out.wav", 0, false, false)
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != ExternalMissing {
		t.Fatalf("expected ExternalMissing *Error, got %v", err)
	}
}

func TestPreprocessNonZeroExit(t *testing.T) {
	r := &stubRunner{runErr: errors.New("exit status 1")}
	err := preprocess(r, nil, "in.wav", "out.wav", 0, false, false)
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != ExternalFailed {
		t.Fatalf("expected ExternalFailed *Error, got %v", err)
	}
}

func TestSplitChannelArgs(t *testing.T) {
	r := &stubRunner{}
	if err := splitChannel(r, nil, "in.wav", "out.wav", 1); err != nil {
		t.Fatalf("splitChannel: %v", err)
	}
	args := r.calls[0]
	found := false
	for _, a := range args {
		if a == "[0:a]pan=mono|c0=c1[a]" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected pan filter arg for channel 1 in %v", args)
	}
}

func TestEncodeVorbisPrefersOggenc(t *testing.T) {
	r := &stubRunner{}
	if err := encodeVorbis(r, nil, "in.wav", "out.ogg"); err != nil {
		t.Fatalf("encodeVorbis: %v", err)
	}
	if len(r.calls) != 1 || r.calls[0][0] != "oggenc" {
		t.Fatalf("expected a single oggenc call, got %v", r.calls)
	}
}

func TestEncodeVorbisFallsBackToFfmpeg(t *testing.T) {
	r := &lookPathSelectiveRunner{missing: "oggenc"}
	if err := encodeVorbis(r, nil, "in.wav", "out.ogg"); err != nil {
		t.Fatalf("encodeVorbis: %v", err)
	}
	if len(r.calls) != 1 || r.calls[0][0] != "ffmpeg" {
		t.Fatalf("expected a single ffmpeg fallback call, got %v", r.calls)
	}
}

// lookPathSelectiveRunner fails LookPath for exactly one tool name, so
// the oggenc/ffmpeg fallback branch in encodeVorbis can be exercised.
type lookPathSelectiveRunner struct {
	missing string
	calls   [][]string
}

func (r *lookPathSelectiveRunner) LookPath(name string) error {
	if name == r.missing {
		return errors.New("not found")
	}
	return nil
}

func (r *lookPathSelectiveRunner) Run(name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	return nil, nil
}

/*
NAME
  external.go

DESCRIPTION
  external.go wraps the external tools the conversion pipeline delegates
  to: the ffmpeg-based resampler/downmixer/normaliser, the ffmpeg-based
  mono channel splitter, and the oggenc/ffmpeg Vorbis encoder. Each is
  invoked through a Runner so tests can substitute a fake process
  without shelling out.

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
	"fmt"
	"os/exec"

	"github.com/ausocean/utils/logging"
)

// Runner executes an external command and reports its outcome. The
// default implementation is commandRunner; tests substitute a fake.
type Runner interface {
	// LookPath reports whether name is found on PATH, mirroring
	// exec.LookPath's error-as-not-found semantics.
	LookPath(name string) error
	// Run executes name with args, returning the combined output and
	// any non-zero-exit or start failure.
	Run(name string, args ...string) ([]byte, error)
}

// commandRunner is the Runner backed by os/exec, used outside of tests.
type commandRunner struct{}

func (commandRunner) LookPath(name string) error {
	_, err := exec.LookPath(name)
	return err
}

func (commandRunner) Run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// preprocess invokes the resampler/downmix/loudnorm tool per §6,
// producing outPath from inPath. Any of rate==0, mono, normalize being
// the "don't apply" value is simply omitted from the argument list.
func preprocess(r Runner, log logging.Logger, inPath, outPath string, rate uint32, mono, normalize bool) error {
	const tool = "ffmpeg"
	if err := r.LookPath(tool); err != nil {
		return newError(ExternalMissing, tool+" not found on PATH", err)
	}

	args := []string{"-y", "-i", inPath}
	if mono {
		args = append(args, "-ac", "1")
	}
	if rate != 0 {
		args = append(args, "-ar", fmt.Sprint(rate))
	}
	if normalize {
		args = append(args, "-af", "loudnorm=I=-16:TP=-1.5:LRA=11")
	}
	args = append(args, outPath)

	logDebug(log, "convert: invoking preprocessor", "tool", tool, "args", args)
	out, err := r.Run(tool, args...)
	if err != nil {
		return newError(ExternalFailed, tool+" exited non-zero: "+string(out), err)
	}
	return nil
}

// splitChannel invokes the mono channel splitter per §6, extracting
// channel n (0-based) of inPath into outPath.
func splitChannel(r Runner, log logging.Logger, inPath, outPath string, n int) error {
	const tool = "ffmpeg"
	if err := r.LookPath(tool); err != nil {
		return newError(ExternalMissing, tool+" not found on PATH", err)
	}

	pan := fmt.Sprintf("[0:a]pan=mono|c0=c%d[a]", n)
	args := []string{"-y", "-i", inPath, "-filter_complex", pan, "-map", "[a]", outPath}

	logDebug(log, "convert: splitting channel", "channel", n, "args", args)
	out, err := r.Run(tool, args...)
	if err != nil {
		return newError(ExternalFailed, tool+" exited non-zero: "+string(out), err)
	}
	return nil
}

// encodeVorbis invokes oggenc (falling back to ffmpeg's libvorbis
// backend) to Vorbis-encode inPath into outPath per §6.
func encodeVorbis(r Runner, log logging.Logger, inPath, outPath string) error {
	if err := r.LookPath("oggenc"); err == nil {
		args := []string{"-q", "6", "-o", outPath, inPath}
		logDebug(log, "convert: invoking oggenc", "args", args)
		out, err := r.Run("oggenc", args...)
		if err != nil {
			return newError(ExternalFailed, "oggenc exited non-zero: "+string(out), err)
		}
		return nil
	}

	const tool = "ffmpeg"
	if err := r.LookPath(tool); err != nil {
		return newError(ExternalMissing, "neither oggenc nor "+tool+" found on PATH", err)
	}
	args := []string{"-y", "-i", inPath, "-c:a", "libvorbis", "-q:a", "6", outPath}
	logDebug(log, "convert: invoking ffmpeg libvorbis", "args", args)
	out, err := r.Run(tool, args...)
	if err != nil {
		return newError(ExternalFailed, tool+" exited non-zero: "+string(out), err)
	}
	return nil
}

// logDebug logs at Debug level if log is non-nil.
func logDebug(log logging.Logger, message string, params ...interface{}) {
	if log != nil {
		log.Log(logging.Debug, message, params...)
	}
}

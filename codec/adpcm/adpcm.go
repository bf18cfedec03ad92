/*
NAME
  adpcm.go

DESCRIPTION
  adpcm.go implements the GameCube ("GC-ADPCM" / "DSP") codec used by the
  LyN engine's sound containers: a 4-bit adaptive predictive codec that
  packs 14 decoded samples into an 8 byte frame, searching across 8 fixed
  coefficient pairs and 13 scale exponents per frame to minimise
  reconstruction error.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package adpcm provides functions to encode PCM into the GameCube
// GC-ADPCM codec used by LyN sound containers. It has no decoder.
package adpcm

const (
	// SamplesPerFrame is the number of decoded samples a single frame holds.
	SamplesPerFrame = 14

	// FrameSize is the number of bytes a single encoded frame occupies.
	FrameSize = 8

	// numCoef is the number of fixed coefficient pairs searched per frame.
	numCoef = 8

	// maxScale is the largest scale exponent considered by the search.
	maxScale = 12
)

// Coefficients holds the eight (c1, c2) predictor coefficient pairs taken
// from the canonical vgmstream-derived LyN coefficient table. A second,
// decimal-looking table appears elsewhere in LyN tooling but does not
// match this one bit-for-bit; this hex-form table is authoritative (see
// spec's pinned Open Question on the two tables).
var Coefficients = [numCoef][2]int16{
	{0x04AB, -0x0313}, // 0x04AB, 0xFCED
	{0x0789, -0x0121}, // 0x0789, 0xFEDF
	{0x09A2, -0x051B}, // 0x09A2, 0xFAE5
	{0x0C90, -0x053F}, // 0x0C90, 0xFAC1
	{0x084D, -0x055C}, // 0x084D, 0xFAA4
	{0x0982, -0x0209}, // 0x0982, 0xFDF7
	{0x0AF6, -0x0506}, // 0x0AF6, 0xFAFA
	{0x0BE6, -0x040B}, // 0x0BE6, 0xFBF5
}

// clamp16 clamps x to the int16 range.
func clamp16(x int64) int32 {
	switch {
	case x < -32768:
		return -32768
	case x > 32767:
		return 32767
	default:
		return int32(x)
	}
}

// clampNibble clamps x to the signed 4-bit range [-8, 7].
func clampNibble(x int64) int32 {
	switch {
	case x < -8:
		return -8
	case x > 7:
		return 7
	default:
		return int32(x)
	}
}

// Encoder holds the per-channel GC-ADPCM encoding state. Two Encoders
// must never share history; construct one Encoder per audio channel.
type Encoder struct {
	h1, h2 int32 // Decoder history, carried frame to frame.
}

// NewEncoder returns a new Encoder with zeroed history, as required at
// the start of every channel's stream.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// predict returns the predicted sample for the given coefficient pair and
// current history, per the §4.1 feedback rule.
func predict(c1, c2 int32, h1, h2 int32) int32 {
	return int32((int64(c1)*int64(h1) + int64(c2)*int64(h2) + 1024) >> 11)
}

// quantize rounds residual/scaleFactor half up (toward zero for negative
// residuals, because of truncating integer division) and clamps the
// result to a signed nibble.
func quantize(residual int64, scaleFactor int64) int32 {
	return clampNibble((residual + scaleFactor/2) / scaleFactor)
}

// decodeNibble reproduces the decoder's reconstruction of a stored
// nibble given a coefficient pair, scale factor and history.
func decodeNibble(nibble int32, scaleFactor int64, c1, c2, h1, h2 int32) int32 {
	d := (int64(nibble)*scaleFactor)<<11 + 1024 + int64(c1)*int64(h1) + int64(c2)*int64(h2)
	return clamp16(d >> 11)
}

// bestScale finds the smallest scale exponent s such that every residual's
// magnitude fits within (1<<s)*8 - 1, capping at maxScale if none fit.
func bestScale(maxAbs int64) int {
	for s := 0; s < maxScale; s++ {
		if maxAbs <= (int64(1)<<uint(s))*8-1 {
			return s
		}
	}
	return maxScale
}

// EncodeFrame encodes exactly SamplesPerFrame samples into one 8 byte
// frame, searching all coefficient pairs and the best scale for each,
// and returns the frame along with the accumulated squared
// reconstruction error used to pick the winning pair. The Encoder's
// history is advanced to reflect the chosen pair's simulated decode,
// ready for the next frame.
func (e *Encoder) EncodeFrame(samples [SamplesPerFrame]int32) (frame [FrameSize]byte, sumSq int64) {
	type trial struct {
		coefIdx int
		scale   int
		nibbles [SamplesPerFrame]int32
		sumSq   int64
		h1, h2  int32
	}

	var best *trial
	for ci := 0; ci < numCoef; ci++ {
		c1, c2 := int32(Coefficients[ci][0]), int32(Coefficients[ci][1])

		// Pass 1: run the ideal (non-quantized) predictor to find the
		// largest residual magnitude and pick a scale for it.
		idealH1, idealH2 := e.h1, e.h2
		var maxAbs int64
		for _, s := range samples {
			pred := predict(c1, c2, idealH1, idealH2)
			residual := int64(s) - int64(pred)
			if residual < 0 {
				residual = -residual
			}
			if residual > maxAbs {
				maxAbs = residual
			}
			idealH2 = idealH1
			idealH1 = s
		}
		scale := bestScale(maxAbs)
		scaleFactor := int64(1) << uint(scale)

		// Pass 2: simulate quantization and decode using the chosen
		// scale, accumulating squared error and the resulting history.
		t := trial{coefIdx: ci, scale: scale, h1: e.h1, h2: e.h2}
		for i, s := range samples {
			pred := predict(c1, c2, t.h1, t.h2)
			residual := int64(s) - int64(pred)
			nib := quantize(residual, scaleFactor)
			decoded := decodeNibble(nib, scaleFactor, c1, c2, t.h1, t.h2)
			diff := int64(s) - int64(decoded)
			t.sumSq += diff * diff
			t.nibbles[i] = nib
			t.h2 = t.h1
			t.h1 = decoded
		}

		if best == nil || t.sumSq < best.sumSq {
			best = &t
		}
	}

	frame[0] = byte(best.coefIdx<<4) | byte(best.scale)
	for i, nib := range best.nibbles {
		nb := byte(nib) & 0xF
		if i%2 == 0 {
			frame[1+i/2] = nb << 4
		} else {
			frame[1+i/2] |= nb
		}
	}

	e.h1, e.h2 = best.h1, best.h2
	return frame, best.sumSq
}

// Encode encodes the whole of samples to GC-ADPCM, right-padding the
// final partial frame with zero samples. progress, if non-nil, is
// invoked after every frame with the number of frames completed and the
// total frame count.
func (e *Encoder) Encode(samples []int16, progress func(done, total int)) []byte {
	total := (len(samples) + SamplesPerFrame - 1) / SamplesPerFrame
	out := make([]byte, 0, total*FrameSize)

	var frameSamples [SamplesPerFrame]int32
	for f := 0; f < total; f++ {
		base := f * SamplesPerFrame
		for i := 0; i < SamplesPerFrame; i++ {
			if base+i < len(samples) {
				frameSamples[i] = int32(samples[base+i])
			} else {
				frameSamples[i] = 0
			}
		}
		frame, _ := e.EncodeFrame(frameSamples)
		out = append(out, frame[:]...)
		if progress != nil {
			progress(f+1, total)
		}
	}
	return out
}

// EncBytes returns the number of GC-ADPCM bytes produced when encoding n
// samples: ceil(n/SamplesPerFrame) * FrameSize.
func EncBytes(n int) int {
	frames := (n + SamplesPerFrame - 1) / SamplesPerFrame
	return frames * FrameSize
}

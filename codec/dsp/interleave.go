/*
NAME
  interleave.go

DESCRIPTION
  interleave.go block-interleaves multiple GC-ADPCM channel streams at
  8 byte granularity, the layout LyN's DSP container expects for stereo
  and 4-channel SON audio.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dsp provides block-interleaving of GC-ADPCM channel streams
// for LyN's DSP container.
package dsp

// blockSize is the interleave granularity: one GC-ADPCM frame.
const blockSize = 8

// Interleave block-interleaves 2 or 4 channel byte streams at 8 byte
// granularity. Streams shorter than the longest are zero-padded (with
// trailing zero bytes, not zero-valued frames) before interleaving. The
// caller is responsible for passing streams whose length is already a
// multiple of blockSize.
func Interleave(streams [][]byte) []byte {
	maxLen := 0
	for _, s := range streams {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}
	blocks := maxLen / blockSize

	out := make([]byte, 0, blocks*blockSize*len(streams))
	for b := 0; b < blocks; b++ {
		off := b * blockSize
		for _, s := range streams {
			var chunk [blockSize]byte
			if off+blockSize <= len(s) {
				copy(chunk[:], s[off:off+blockSize])
			} else if off < len(s) {
				copy(chunk[:], s[off:])
			}
			out = append(out, chunk[:]...)
		}
	}
	return out
}

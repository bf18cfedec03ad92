/*
NAME
  interleave.go

DESCRIPTION
  interleave.go multiplexes multiple channels' Vorbis bitstreams into the
  fixed-block layout LyN's multi-channel OGG/SNS containers expect.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vorbis

import "encoding/binary"

// BlockSize is the fixed stride, in bytes, at which multi-channel Vorbis
// payloads are interleaved inside SNS/SON.
const BlockSize = 0x2134

// InterleaveBlocks pads each channel's Vorbis stream with trailing zero
// bytes to a multiple of BlockSize, then emits a payload header (the
// block size, followed by each channel's original logical length) and
// the zero-padded streams round-robined block by block.
func InterleaveBlocks(streams [][]byte) []byte {
	channels := len(streams)
	maxBlocks := 0
	padded := make([][]byte, channels)
	for i, s := range streams {
		blocks := (len(s) + BlockSize - 1) / BlockSize
		if blocks > maxBlocks {
			maxBlocks = blocks
		}
		p := make([]byte, blocks*BlockSize)
		copy(p, s)
		padded[i] = p
	}
	// Re-pad every stream to the same number of blocks so the
	// round-robin below has uniform-length streams to read from.
	for i, p := range padded {
		if len(p) < maxBlocks*BlockSize {
			grown := make([]byte, maxBlocks*BlockSize)
			copy(grown, p)
			padded[i] = grown
		}
	}

	header := make([]byte, 4+4*channels)
	binary.LittleEndian.PutUint32(header[0:4], BlockSize)
	for i, s := range streams {
		binary.LittleEndian.PutUint32(header[4+4*i:8+4*i], uint32(len(s)))
	}

	out := make([]byte, 0, len(header)+maxBlocks*BlockSize*channels)
	out = append(out, header...)
	for b := 0; b < maxBlocks; b++ {
		off := b * BlockSize
		for c := 0; c < channels; c++ {
			out = append(out, padded[c][off:off+BlockSize]...)
		}
	}
	return out
}

/*
NAME
  beats.go

DESCRIPTION
  beats.go scans a reference SNS for its cue chunk and harvests the byte
  range spanning from the cue chunk through to (excluding) the following
  data chunk, for splicing into a newly assembled SNS.

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
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrNoBeats is returned when a reference SNS carries no cue chunk, or
// no data chunk follows it.
var ErrNoBeats = errors.New("lyn: no cue/data chunk pair found in reference SNS")

var cueID = []byte("cue ")
var dataID = []byte("data")

// HarvestBeats scans refSNS for the first "cue " chunk, and the first
// "data" chunk that follows it, and returns the bytes spanning
// [cuePos, dataPos) verbatim, along with the beat count declared in the
// cue chunk's header. If no such pair exists, it returns ErrNoBeats and
// a zero BeatData, matching the source's "-1" failure report.
func HarvestBeats(refSNS []byte) (BeatData, error) {
	cuePos := bytes.Index(refSNS, cueID)
	if cuePos < 0 {
		return BeatData{}, ErrNoBeats
	}
	if cuePos+12 > len(refSNS) {
		return BeatData{}, ErrNoBeats
	}

	chunkSize := binary.LittleEndian.Uint32(refSNS[cuePos+4 : cuePos+8])
	count := int32(binary.LittleEndian.Uint32(refSNS[cuePos+8 : cuePos+12]))

	searchFrom := cuePos + 8 + int(chunkSize)
	if searchFrom > len(refSNS) {
		return BeatData{}, ErrNoBeats
	}

	rel := bytes.Index(refSNS[searchFrom:], dataID)
	if rel < 0 {
		return BeatData{}, ErrNoBeats
	}
	dataPos := searchFrom + rel

	beats := append([]byte(nil), refSNS[cuePos:dataPos]...)
	return BeatData{Bytes: beats, Count: count}, nil
}

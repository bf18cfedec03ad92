/*
NAME
  repackage.go

DESCRIPTION
  repackage.go rewrites an Ogg/Vorbis bitstream's comment header vendor
  string to the literal LyN expects, re-segmenting and re-numbering
  pages and recomputing every page's CRC-32. Audio pages are carried
  through unchanged apart from renumbering. Any parse inconsistency
  causes the original bytes to be returned unchanged, per the source's
  own failure semantics.

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

import (
	"encoding/binary"

	"github.com/ausocean/utils/logging"
)

// targetVendor is the vendor string LyN's Vorbis decoder expects.
const targetVendor = "Xiph.Org libVorbis I 20050304"

// setupPacketType is the Vorbis packet type byte identifying a setup
// header packet.
const setupPacketType = 0x05

// maxPage1Segments is the budget, in lacing-table entries, the source
// reserves on the combined comment+setup page before forcing setup into
// continuation pages.
const maxPage1Segments = 15

// maxContinuationChunk is the largest number of setup bytes packed into
// a single continuation page: 255 segments of 255 bytes each.
const maxContinuationChunk = 255 * 255

// Repackage rewrites raw's Vorbis comment vendor string and re-emits a
// well-formed Ogg stream with fresh page numbering and CRCs. If raw does
// not parse as a well-formed sequence of Vorbis header pages, raw is
// returned unchanged and the inconsistency is logged at Debug level
// only; it is never surfaced as a caller-visible error.
func Repackage(raw []byte, log logging.Logger) []byte {
	pages, err := ParsePages(raw)
	if err != nil {
		logDebug(log, "vorbis: could not parse pages, passing through unchanged", "error", err.Error())
		return raw
	}
	if len(pages) < 2 {
		logDebug(log, "vorbis: fewer than 2 pages, passing through unchanged")
		return raw
	}

	_, _, ok := extractPacket(pages, 1)
	if !ok {
		logDebug(log, "vorbis: could not extract comment packet, passing through unchanged")
		return raw
	}
	setupPacket, _, ok := extractPacket(pages, 2)
	if !ok {
		logDebug(log, "vorbis: could not extract setup packet, passing through unchanged")
		return raw
	}

	audioStart := findAudioStart(pages)

	serial := pages[0].Serial
	comment := buildCommentPacket()

	var out []Page
	seq := uint32(0)

	// Page 0: identification header, reused verbatim.
	out = append(out, Page{
		HeaderType: 0x02,
		Granule:    0,
		Serial:     serial,
		Sequence:   seq,
		Segments:   lacingFor(len(pages[0].Data)),
		Data:       pages[0].Data,
	})
	seq++

	// Page 1: new comment packet + as much of the setup packet as fits.
	commentSegments := (len(comment)+254)/255 + 1
	setupBudget := (maxPage1Segments - commentSegments) * 255
	if setupBudget < 0 {
		setupBudget = 0
	}

	page1Setup := setupPacket
	remaining := []byte(nil)
	if len(setupPacket) > setupBudget {
		page1Setup = setupPacket[:setupBudget]
		remaining = setupPacket[setupBudget:]
	}

	segs := lacingFor(len(comment))
	if len(remaining) > 0 {
		// Forced split at a 255-byte boundary: every segment is a full
		// 255, with no terminator, signalling continuation.
		for n := len(page1Setup); n > 0; n -= 255 {
			segs = append(segs, 255)
		}
	} else {
		segs = append(segs, lacingFor(len(page1Setup))...)
	}

	out = append(out, Page{
		HeaderType: 0x00,
		Granule:    0,
		Serial:     serial,
		Sequence:   seq,
		Segments:   segs,
		Data:       append(append([]byte(nil), comment...), page1Setup...),
	})
	seq++

	// Continuation pages, if the setup packet didn't fit on page 1.
	for len(remaining) > 0 {
		chunk := remaining
		if len(chunk) > maxContinuationChunk {
			chunk = chunk[:maxContinuationChunk]
		}
		remaining = remaining[len(chunk):]

		var segs []byte
		if len(remaining) > 0 {
			for n := len(chunk); n > 0; n -= 255 {
				segs = append(segs, 255)
			}
		} else {
			segs = lacingFor(len(chunk))
		}

		out = append(out, Page{
			HeaderType: continuation,
			Granule:    0,
			Serial:     serial,
			Sequence:   seq,
			Segments:   segs,
			Data:       chunk,
		})
		seq++
	}

	// Audio pages, carried through unchanged apart from renumbering.
	for _, p := range pages[audioStart:] {
		out = append(out, Page{
			HeaderType: p.HeaderType,
			Granule:    p.Granule,
			Serial:     serial,
			Sequence:   seq,
			Segments:   p.Segments,
			Data:       p.Data,
		})
		seq++
	}

	result := make([]byte, 0, len(raw))
	for _, p := range out {
		result = append(result, writePage(p)...)
	}
	return result
}

// extractPacket concatenates segment bodies starting at pages[startPage]
// until a segment smaller than 255 terminates the packet. It returns the
// packet bytes and the index of the page the packet terminated on. ok is
// false if startPage is out of range or no terminating segment is ever
// found.
func extractPacket(pages []Page, startPage int) (packet []byte, endPage int, ok bool) {
	if startPage >= len(pages) {
		return nil, 0, false
	}
	for pi := startPage; pi < len(pages); pi++ {
		p := pages[pi]
		off := 0
		for _, seg := range p.Segments {
			packet = append(packet, p.Data[off:off+int(seg)]...)
			off += int(seg)
			if seg < 255 {
				return packet, pi, true
			}
		}
	}
	return nil, 0, false
}

// findAudioStart locates the first page carrying audio data, per §4.3:
// the earliest non-continuation page with a positive granule position
// whose first body byte isn't a setup-packet marker; falling back to the
// first page with a positive granule, then to min(3, total pages).
func findAudioStart(pages []Page) int {
	for i, p := range pages {
		if p.IsContinuation() || p.Granule <= 0 {
			continue
		}
		if len(p.Data) > 0 && p.Data[0] == setupPacketType {
			continue
		}
		return i
	}
	for i, p := range pages {
		if p.Granule > 0 {
			return i
		}
	}
	if len(pages) < 3 {
		return len(pages)
	}
	return 3
}

// buildCommentPacket synthesises the replacement Vorbis comment packet:
// type byte, "vorbis", vendor length + bytes, and a zero user-comment
// count. No framing bit is appended, matching the source's behaviour.
func buildCommentPacket() []byte {
	buf := make([]byte, 0, 1+6+4+len(targetVendor)+4)
	buf = append(buf, 0x03)
	buf = append(buf, "vorbis"...)

	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(targetVendor)))
	buf = append(buf, lenBuf...)
	buf = append(buf, targetVendor...)

	countBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(countBuf, 0)
	buf = append(buf, countBuf...)
	return buf
}

// logDebug logs at Debug level if log is non-nil. Callers are not
// required to provide a logger; the repackager's passthrough-on-failure
// behaviour must not panic on a nil Logger.
func logDebug(log logging.Logger, message string, params ...interface{}) {
	if log != nil {
		log.Log(logging.Debug, message, params...)
	}
}

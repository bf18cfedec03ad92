/*
NAME
  page.go

DESCRIPTION
  page.go parses and serialises Ogg pages, the framing unit the Vorbis
  repackager reads and re-emits.

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
	"errors"
)

// pageHeaderSize is the size of a page's fixed header, up to and
// including the segment count byte, before the segment table.
const pageHeaderSize = 27

// continuation marks a page's first packet as the continuation of a
// packet begun on an earlier page.
const continuation = 0x01

// ErrShortPage is returned when a page's declared body extends past the
// end of the buffer, or the OggS magic is missing.
var ErrShortPage = errors.New("vorbis: short or malformed page")

// Page is the parsed view of a single Ogg page.
type Page struct {
	HeaderType byte
	Granule    int64
	Serial     uint32
	Sequence   uint32
	Segments   []byte
	Data       []byte
}

// IsContinuation reports whether this page's data begins mid-packet.
func (p Page) IsContinuation() bool { return p.HeaderType&continuation != 0 }

// ParsePages walks b and returns every Ogg page found. It stops and
// returns an error on a missing magic, a truncated header, or a body
// that runs past the end of b.
func ParsePages(b []byte) ([]Page, error) {
	var pages []Page
	off := 0
	for off < len(b) {
		if off+pageHeaderSize > len(b) {
			return nil, ErrShortPage
		}
		if string(b[off:off+4]) != "OggS" {
			return nil, ErrShortPage
		}

		headerType := b[off+5]
		granule := int64(binary.LittleEndian.Uint64(b[off+6 : off+14]))
		serial := binary.LittleEndian.Uint32(b[off+14 : off+18])
		seq := binary.LittleEndian.Uint32(b[off+18 : off+22])
		numSeg := int(b[off+26])

		segStart := off + pageHeaderSize
		if segStart+numSeg > len(b) {
			return nil, ErrShortPage
		}
		segments := b[segStart : segStart+numSeg]

		bodyLen := 0
		for _, s := range segments {
			bodyLen += int(s)
		}
		dataStart := segStart + numSeg
		if dataStart+bodyLen > len(b) {
			return nil, ErrShortPage
		}

		pages = append(pages, Page{
			HeaderType: headerType,
			Granule:    granule,
			Serial:     serial,
			Sequence:   seq,
			Segments:   append([]byte(nil), segments...),
			Data:       append([]byte(nil), b[dataStart:dataStart+bodyLen]...),
		})

		off = dataStart + bodyLen
	}
	if len(pages) == 0 {
		return nil, ErrShortPage
	}
	return pages, nil
}

// lacingFor returns the standard Ogg segment table for a packet of the
// given length: a chain of 255-value segments followed by one
// terminating segment smaller than 255 (possibly 0).
func lacingFor(n int) []byte {
	var segs []byte
	for n >= 255 {
		segs = append(segs, 255)
		n -= 255
	}
	segs = append(segs, byte(n))
	return segs
}

// writePage serialises p as a complete Ogg page, computing and
// embedding its CRC-32.
func writePage(p Page) []byte {
	buf := make([]byte, pageHeaderSize+len(p.Segments)+len(p.Data))
	copy(buf[0:4], "OggS")
	buf[4] = 0 // Stream structure version.
	buf[5] = p.HeaderType
	binary.LittleEndian.PutUint64(buf[6:14], uint64(p.Granule))
	binary.LittleEndian.PutUint32(buf[14:18], p.Serial)
	binary.LittleEndian.PutUint32(buf[18:22], p.Sequence)
	// buf[22:26] (checksum) left zero for the CRC pass below.
	buf[26] = byte(len(p.Segments))
	copy(buf[27:27+len(p.Segments)], p.Segments)
	copy(buf[27+len(p.Segments):], p.Data)

	crc := oggCRC32(buf)
	binary.LittleEndian.PutUint32(buf[22:26], crc)
	return buf
}

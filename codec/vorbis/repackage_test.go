/*
NAME
  repackage_test.go

DESCRIPTION
  repackage_test.go contains tests for the vorbis package.

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
	"bytes"
	"encoding/binary"
	"testing"
)

// buildTestStream constructs a minimal 3-page Ogg/Vorbis header (ID,
// comment, setup) followed by one small audio page, enough to exercise
// Repackage end to end.
func buildTestStream(vendor string, setupLen int) []byte {
	serial := uint32(0xAABBCCDD)

	idPacket := append([]byte{0x01}, []byte("vorbis-id-placeholder")...)
	page0 := Page{
		HeaderType: 0x02,
		Granule:    0,
		Serial:     serial,
		Sequence:   0,
		Segments:   lacingFor(len(idPacket)),
		Data:       idPacket,
	}

	commentPacket := make([]byte, 0, 1+6+4+len(vendor)+4)
	commentPacket = append(commentPacket, 0x03)
	commentPacket = append(commentPacket, "vorbis"...)
	lb := make([]byte, 4)
	binary.LittleEndian.PutUint32(lb, uint32(len(vendor)))
	commentPacket = append(commentPacket, lb...)
	commentPacket = append(commentPacket, vendor...)
	cb := make([]byte, 4)
	binary.LittleEndian.PutUint32(cb, 0)
	commentPacket = append(commentPacket, cb...)

	page1 := Page{
		HeaderType: 0x00,
		Granule:    0,
		Serial:     serial,
		Sequence:   1,
		Segments:   lacingFor(len(commentPacket)),
		Data:       commentPacket,
	}

	setupPacket := make([]byte, setupLen)
	setupPacket[0] = setupPacketType
	for i := 1; i < setupLen; i++ {
		setupPacket[i] = byte(i)
	}
	page2 := Page{
		HeaderType: 0x00,
		Granule:    0,
		Serial:     serial,
		Sequence:   2,
		Segments:   lacingFor(len(setupPacket)),
		Data:       setupPacket,
	}

	audioData := []byte{0xAB, 0xCD, 0xEF}
	page3 := Page{
		HeaderType: 0x00,
		Granule:    512,
		Serial:     serial,
		Sequence:   3,
		Segments:   lacingFor(len(audioData)),
		Data:       audioData,
	}

	var out []byte
	for _, p := range []Page{page0, page1, page2, page3} {
		out = append(out, writePage(p)...)
	}
	return out
}

// TestRepackageVendorRewrite covers spec §8 scenario 6: the repackaged
// comment packet carries the pinned vendor string and every page's CRC
// validates.
func TestRepackageVendorRewrite(t *testing.T) {
	in := buildTestStream("SomeOtherEncoder 1.0", 50)
	out := Repackage(in, nil)

	pages, err := ParsePages(out)
	if err != nil {
		t.Fatalf("could not parse repackaged output: %v", err)
	}

	commentPacket, _, ok := extractPacket(pages, 1)
	if !ok {
		t.Fatal("could not extract comment packet from output")
	}
	if commentPacket[0] != 0x03 || string(commentPacket[1:7]) != "vorbis" {
		t.Fatalf("malformed comment packet header: % x", commentPacket[:8])
	}
	vendorLen := binary.LittleEndian.Uint32(commentPacket[7:11])
	if vendorLen != uint32(len(targetVendor)) {
		t.Errorf("vendor length = %d, want %d", vendorLen, len(targetVendor))
	}
	vendor := string(commentPacket[11 : 11+vendorLen])
	if vendor != targetVendor {
		t.Errorf("vendor = %q, want %q", vendor, targetVendor)
	}
	count := binary.LittleEndian.Uint32(commentPacket[11+vendorLen : 15+vendorLen])
	if count != 0 {
		t.Errorf("user comment count = %d, want 0", count)
	}

	for i, p := range pages {
		raw := writePage(Page{
			HeaderType: p.HeaderType,
			Granule:    p.Granule,
			Serial:     p.Serial,
			Sequence:   p.Sequence,
			Segments:   p.Segments,
			Data:       p.Data,
		})
		gotCRC := binary.LittleEndian.Uint32(raw[22:26])
		zeroed := append([]byte(nil), raw...)
		binary.LittleEndian.PutUint32(zeroed[22:26], 0)
		wantCRC := oggCRC32(zeroed)
		if gotCRC != wantCRC {
			t.Errorf("page %d: CRC %x does not validate against recomputed %x", i, gotCRC, wantCRC)
		}
	}
}

// TestRepackageSetupContinuation checks that a setup packet larger than
// the page-1 budget spills into continuation pages with header_type=0x01.
func TestRepackageSetupContinuation(t *testing.T) {
	in := buildTestStream("v", 9000)
	out := Repackage(in, nil)

	pages, err := ParsePages(out)
	if err != nil {
		t.Fatalf("could not parse repackaged output: %v", err)
	}

	foundContinuation := false
	for _, p := range pages[2:] {
		if p.IsContinuation() {
			foundContinuation = true
			break
		}
	}
	if !foundContinuation {
		t.Error("expected at least one continuation page for a large setup packet")
	}
}

// TestRepackageMalformedPassthrough checks that unparsable input is
// returned unchanged rather than surfacing an error.
func TestRepackageMalformedPassthrough(t *testing.T) {
	in := []byte("not an ogg stream")
	out := Repackage(in, nil)
	if !bytes.Equal(in, out) {
		t.Error("expected malformed input to be returned unchanged")
	}
}

// TestAudioPagesPreserved checks that audio page granule positions and
// data survive repackaging unchanged (only the sequence number and
// serial are rewritten).
func TestAudioPagesPreserved(t *testing.T) {
	in := buildTestStream("v", 50)
	out := Repackage(in, nil)

	inPages, _ := ParsePages(in)
	outPages, _ := ParsePages(out)

	inAudio := inPages[len(inPages)-1]
	outAudio := outPages[len(outPages)-1]

	if inAudio.Granule != outAudio.Granule {
		t.Errorf("granule = %d, want %d", outAudio.Granule, inAudio.Granule)
	}
	if !bytes.Equal(inAudio.Data, outAudio.Data) {
		t.Error("audio page data changed during repackaging")
	}
}

/*
NAME
  crc.go

DESCRIPTION
  crc.go implements the non-reflected CRC-32 variant Ogg pages use,
  which is a different variant to Go's standard library crc32.IEEE
  (which is reflected). Pages are checksummed with this field zeroed,
  then the result is written back into the page's checksum field.

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

// oggPoly is the CRC-32 polynomial Ogg pages are checksummed with. It
// must not be confused with the reflected polynomial Go's hash/crc32
// package (crc32.IEEE) implements; Ogg's variant is non-reflected with
// no initial or final XOR.
const oggPoly uint32 = 0x04C11DB7

var oggCRCTable [256]uint32

func init() {
	for i := 0; i < 256; i++ {
		crc := uint32(i) << 24
		for b := 0; b < 8; b++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ oggPoly
			} else {
				crc <<= 1
			}
		}
		oggCRCTable[i] = crc
	}
}

// oggCRC32 computes the Ogg page CRC-32 over data, which must have its
// own checksum field (bytes 22..25 of a page) zeroed before the call.
func oggCRC32(data []byte) uint32 {
	var crc uint32
	for _, b := range data {
		crc = (crc << 8) ^ oggCRCTable[byte(crc>>24)^b]
	}
	return crc
}

// Package sevenbit implements the Yamaha 7-to-8 bit repacking used to
// carry 8-bit bulk-dump payloads through a MIDI SysEx channel, which
// forbids any byte with bit 7 set.
//
// Encoding groups raw bytes 7 at a time. Each group produces a header
// byte whose bits 6..0 carry the original bit 7 of data bytes 0..6 (bit 6
// for byte 0, bit 5 for byte 1, ... bit 0 for byte 6), followed by the 7
// data bytes with bit 7 cleared. The final group may be short.
package sevenbit

import "github.com/qypat/qypat/qerr"

// Encode packs raw into Yamaha's 7-bit transport form. len(Encode(raw))
// is ceil(len(raw)/7) header bytes plus len(raw) data bytes.
func Encode(raw []byte) []byte {
	out := make([]byte, 0, len(raw)+(len(raw)+6)/7)
	for i := 0; i < len(raw); i += 7 {
		end := i + 7
		if end > len(raw) {
			end = len(raw)
		}
		group := raw[i:end]

		var header byte
		for j, b := range group {
			if b&0x80 != 0 {
				header |= 1 << (6 - j)
			}
		}
		out = append(out, header)
		for _, b := range group {
			out = append(out, b&0x7F)
		}
	}
	return out
}

// Decode inverts Encode. A malformed final group (a header byte with no
// following data byte) simply stops the decode; a short final group
// elsewhere in the stream yields whatever data bytes remain rather than
// erroring.
func Decode(encoded []byte) []byte {
	out := make([]byte, 0, len(encoded))
	for i := 0; i < len(encoded); {
		header := encoded[i]
		i++
		end := i + 7
		if end > len(encoded) {
			end = len(encoded)
		}
		for j := i; j < end; j++ {
			bitPos := 6 - (j - i)
			high := (header >> uint(bitPos)) & 0x01
			out = append(out, encoded[j]|(high<<7))
		}
		i = end
	}
	return out
}

// DecodeExpect decodes encoded and enforces want as the exact decoded
// length: an overlong result is truncated, a short one is reported as an
// error. It serves a caller that knows a logical block's target size
// (128 bytes per canonical block); the bulk-dump assembler itself uses
// Decode and does not enforce a size.
func DecodeExpect(encoded []byte, want int) ([]byte, error) {
	decoded := Decode(encoded)
	if len(decoded) == want {
		return decoded, nil
	}
	if len(decoded) > want {
		return decoded[:want], nil
	}
	return nil, &qerr.InputTooShort{Got: len(decoded), Want: want}
}

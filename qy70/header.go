package qy70

import "github.com/qypat/qypat/qerr"

// HeaderSize is the decoded size of the AL=0x7F global style/pattern
// header block.
const HeaderSize = 640

// StyleMarkerThreshold is the format-marker boundary: marker values
// below this indicate a single Pattern (track data at AL=0x00-0x07);
// values at or above it indicate a full Style (track data at
// AL=0x00-0x2F, six sections of eight tracks).
const StyleMarkerThreshold = 0x08

// IsStyle reports whether the format marker marks a full Style rather
// than a single Pattern.
func IsStyle(formatMarker byte) bool { return formatMarker >= StyleMarkerThreshold }

// formatMarkerOffset is where this package keeps the style/pattern
// marker byte. It is NOT offset 0: the assembler's tempo recovery reads
// the raw (pre-decode) first two encoded bytes of AL=0x7F's first
// message directly as (range, offset), and since a range value (1-4)
// always carries bit 6 clear, decoded byte 0 is indistinguishable from
// the tempo offset on any stream this package produces. The format
// marker is kept one byte over, at an offset the tempo override never
// touches.
const formatMarkerOffset = 1

// fixedHeaderPrefix is bytes 2-6 of the decoded global header, carried
// through unexamined beyond being present. Observed devices populate it
// identically regardless of pattern content, so a freshly-synthesized
// header (no captured template available) uses this literal.
var fixedHeaderPrefix = [5]byte{0x00, 0x00, 0x00, 0x00, 0x00}

// styleDataMarker is the bytes 7-10 constant.
var styleDataMarker = [4]byte{0x00, 0x00, 0x00, 0x00}

// constantBytes1213 is the bytes 11-12 constant.
var constantBytes1213 = [2]byte{0x00, 0x00}

// TimeSigByteOffset is the candidate time-signature byte; its
// numerator/denominator mapping is not confirmed, so this module only
// carries the byte through and always decodes the time signature as
// 4/4.
const TimeSigByteOffset = 13

// Header is the decoded AL=0x7F global style/pattern header. Only the
// fields this package identifies are surfaced; everything else
// (including the as-yet-unidentified per-track mixer fields) is carried
// through byte-exact in Raw.
type Header struct {
	FormatMarker byte
	TimeSigByte  byte

	// Raw is the full 640-byte decoded block, preserved byte-exact so
	// that re-encoding never has to "zero-then-fill" unidentified
	// regions. Raw[0..6] are the exception: the first 7-bit group's
	// header byte carries the tempo range and its first data byte the
	// tempo offset (see DecodeTempo/Encode), so after an encode/decode
	// cycle Raw[0] holds the tempo offset and bit 7 of Raw[1..6] holds
	// the range bits instead of the original values.
	Raw []byte
}

// ParseHeader reads the known fields of a decoded AL=0x7F block. decoded
// must be at least HeaderSize bytes; a shorter block is a hard error
// because the converter and encoder both rely on a full-size template.
func ParseHeader(decoded []byte) (Header, error) {
	if len(decoded) < HeaderSize {
		return Header{}, &qerr.InputTooShort{Got: len(decoded), Want: HeaderSize}
	}
	raw := make([]byte, HeaderSize)
	copy(raw, decoded[:HeaderSize])
	return Header{
		FormatMarker: raw[formatMarkerOffset],
		TimeSigByte:  raw[TimeSigByteOffset],
		Raw:          raw,
	}, nil
}

// NewMinimalHeader synthesizes a HeaderSize-byte header with the known
// fixed bytes set and everything else zeroed, for use when no captured
// template is available.
func NewMinimalHeader(isStyle bool) Header {
	raw := make([]byte, HeaderSize)
	marker := byte(0x00)
	if isStyle {
		marker = StyleMarkerThreshold
	}
	raw[formatMarkerOffset] = marker
	copy(raw[2:7], fixedHeaderPrefix[:])
	copy(raw[7:11], styleDataMarker[:])
	copy(raw[11:13], constantBytes1213[:])
	raw[TimeSigByteOffset] = 0x0C // the same value q7p.MinimalTemplate writes
	return Header{FormatMarker: marker, TimeSigByte: raw[TimeSigByteOffset], Raw: raw}
}

// WithFormatMarker returns a copy of h with the format marker byte
// replaced. The tempo itself is not a field of Header: it lives in the
// raw (pre-7-bit-decode) bytes of the header's first bulk-dump message,
// not in the decoded block — see DecodeTempo/EncodeTempo and the
// Assembler's FirstRawEnc.
func (h Header) WithFormatMarker(marker byte) Header {
	out := h
	out.Raw = append([]byte(nil), h.Raw...)
	out.Raw[formatMarkerOffset] = marker
	out.FormatMarker = marker
	return out
}

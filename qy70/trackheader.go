package qy70

import "github.com/qypat/qypat/qerr"

// TrackSubHeaderSize is the fixed-width prefix of each per-track decoded
// stream; everything after it is the opaque event stream.
const TrackSubHeaderSize = 24

var trackSubHeaderFixedPrefix = [12]byte{0x08, 0x04, 0x82, 0x01, 0x00, 0x40, 0x20, 0x08, 0x04, 0x82, 0x01, 0x00}
var trackSubHeaderFixed1213 = [2]byte{0x06, 0x1C}

// defaultVoiceMarker means "use track-type default" (drum kit for drum
// tracks, acoustic bass for BA, acoustic grand for chord tracks) rather
// than an explicit (bank_msb, program) pair.
var defaultVoiceMarker = [2]byte{0x40, 0x80}

// drumNoteRangeMarker is the fixed bytes 16-17 pair for drum tracks,
// standing in for an explicit (low, high) melody range.
var drumNoteRangeMarker = [2]byte{0x87, 0xF8}

const (
	panFlagExplicit = 0x41
	panFlagDefault  = 0x00
)

// TrackSubHeader is the decoded form of the first 24 bytes of a QY70
// per-track stream. Bytes 18-20 ("track-type flags") are not
// individually identified (drum-vs-melody is read from the bytes 16-17
// marker instead), so they are kept raw and carried through.
type TrackSubHeader struct {
	VoiceIsDefault bool
	BankMSB        byte
	Program        byte

	IsDrum    bool
	NoteLow   byte
	NoteHigh  byte

	TypeFlags [3]byte

	PanExplicit bool
	Pan         byte
}

// ParseTrackSubHeader reads the first TrackSubHeaderSize bytes of a
// decoded per-track stream.
func ParseTrackSubHeader(decoded []byte) (TrackSubHeader, error) {
	if len(decoded) < TrackSubHeaderSize {
		return TrackSubHeader{}, &qerr.InputTooShort{Got: len(decoded), Want: TrackSubHeaderSize}
	}
	h := TrackSubHeader{}

	v0, v1 := decoded[14], decoded[15]
	if v0 == defaultVoiceMarker[0] && v1 == defaultVoiceMarker[1] {
		h.VoiceIsDefault = true
	} else {
		h.BankMSB, h.Program = v0, v1
	}

	n0, n1 := decoded[16], decoded[17]
	if n0 == drumNoteRangeMarker[0] && n1 == drumNoteRangeMarker[1] {
		h.IsDrum = true
	} else {
		h.NoteLow, h.NoteHigh = n0, n1
	}

	copy(h.TypeFlags[:], decoded[18:21])

	if decoded[21] == panFlagExplicit {
		h.PanExplicit = true
		h.Pan = decoded[22]
	} else {
		h.Pan = 64
	}

	return h, nil
}

// Bytes serializes h back into the 24-byte sub-header, using the fixed
// prefix bytes every observed QY70 track stream carries.
func (h TrackSubHeader) Bytes() [TrackSubHeaderSize]byte {
	var out [TrackSubHeaderSize]byte
	copy(out[0:12], trackSubHeaderFixedPrefix[:])
	copy(out[12:14], trackSubHeaderFixed1213[:])

	if h.VoiceIsDefault {
		out[14], out[15] = defaultVoiceMarker[0], defaultVoiceMarker[1]
	} else {
		out[14], out[15] = h.BankMSB, h.Program
	}

	if h.IsDrum {
		out[16], out[17] = drumNoteRangeMarker[0], drumNoteRangeMarker[1]
	} else {
		out[16], out[17] = h.NoteLow, h.NoteHigh
	}

	copy(out[18:21], h.TypeFlags[:])

	if h.PanExplicit {
		out[21] = panFlagExplicit
		out[22] = h.Pan
	} else {
		out[21] = panFlagDefault
		out[22] = 64
	}
	out[23] = 0x00

	return out
}

// Package pattern is the neutral in-memory model both QY70 and Q7P decode
// into and encode from. A Pattern is produced by exactly one decoder,
// read-only mutated by the converter prior to re-encoding, and owns its
// Sections, Tracks, and (for Q7P-origin patterns) a full copy of the raw
// file buffer used as the byte-exact preservation template for
// everything the format does not semantically decode.
package pattern

import "fmt"

// SourceFormat tags which decoder produced a Pattern. Modeling this as a
// tagged variant (rather than branching on a file extension the way the
// source CLI layer did) lets every downstream consumer pattern-match
// instead of re-deriving the format from context.
type SourceFormat int

const (
	SourceUnknown SourceFormat = iota
	SourceQY70
	SourceQ7P
)

func (f SourceFormat) String() string {
	switch f {
	case SourceQY70:
		return "qy70"
	case SourceQ7P:
		return "q7p"
	default:
		return "unknown"
	}
}

// NameWidth is the fixed display-name width for both formats.
const NameWidth = 10

// TempoMin and TempoMax bound the global tempo attribute. Note this is
// the Pattern-level field's documented range; the QY70 wire encoding
// additionally narrows the *representable* window to [57,279] BPM and
// Q7P's raw word covers [20.0,300.0] in tenths of a BPM.
const (
	TempoMin = 20
	TempoMax = 300
)

// TimeSignature is (numerator, denominator) with denominator constrained
// to a power of two in {1,2,4,8,16}.
type TimeSignature struct {
	Numerator   int
	Denominator int
}

// DefaultTimeSignature is 4/4, used whenever a format's time-signature
// encoding is ambiguous or not reliably decodable.
var DefaultTimeSignature = TimeSignature{Numerator: 4, Denominator: 4}

// Valid reports whether the time signature is structurally sane.
func (t TimeSignature) Valid() bool {
	if t.Numerator < 1 || t.Numerator > 32 {
		return false
	}
	switch t.Denominator {
	case 1, 2, 4, 8, 16:
		return true
	default:
		return false
	}
}

// EffectID is a 2-byte identifier for a global reverb/chorus/variation
// type. Its value space is device-specific and not further decoded here.
type EffectID [2]byte

// GlobalEffects is the Pattern-level effects record.
type GlobalEffects struct {
	ReverbType    EffectID
	ChorusType    EffectID
	VariationType EffectID
}

// Pattern is the top-level aggregate: a named, tempo-tagged collection
// of sections shared by both wire formats.
type Pattern struct {
	Name       string
	SlotNumber int
	TempoBPM   int
	TimeSig    TimeSignature
	Flags      byte
	Sections   map[SectionKind]*Section
	Effects    GlobalEffects
	Source     SourceFormat

	// RawTemplate is the owned copy of the entire Q7P file buffer this
	// Pattern was decoded from. Only set for SourceQ7P patterns; it is
	// the "copy-then-patch" base the encoder starts from. Never set for
	// QY70-origin patterns, which have no single template buffer to
	// preserve (the QY70 encoder instead carries through a captured
	// 640-byte header block; see qy70.Encode).
	RawTemplate []byte
}

// New returns an empty Pattern with a name padded to NameWidth and an
// empty Sections map, ready for a decoder to populate.
func New(source SourceFormat) *Pattern {
	return &Pattern{
		Name:     PadName(""),
		TempoBPM: 120,
		TimeSig:  DefaultTimeSignature,
		Sections: make(map[SectionKind]*Section),
		Source:   source,
	}
}

// PadName enforces the display-name invariant both formats share: ASCII
// 0x20-0x7E, space padded (or truncated) to NameWidth glyphs.
func PadName(name string) string {
	b := make([]byte, NameWidth)
	for i := 0; i < NameWidth; i++ {
		if i < len(name) {
			c := name[i]
			if c < 0x20 || c > 0x7E {
				c = 0x20
			}
			b[i] = c
		} else {
			b[i] = 0x20
		}
	}
	return string(b)
}

// SectionCount returns the number of sections this Pattern carries,
// regardless of enabled state.
func (p *Pattern) SectionCount() int { return len(p.Sections) }

// TrackCountPerSection is the per-source-format track width: exactly 8
// on QY70, exactly 16 on Q7P.
func (p *Pattern) TrackCountPerSection() int {
	if p.Source == SourceQY70 {
		return 8
	}
	return 16
}

// Validate checks the structural invariants that are independent of
// wire format (format-specific checks live in q7p/qy70's own decoders
// and in package validate). It returns the first violation found, or
// nil.
func (p *Pattern) Validate() error {
	if p.Source == SourceQY70 && len(p.Sections) != 6 {
		return fmt.Errorf("pattern: qy70 pattern must have exactly 6 sections, got %d", len(p.Sections))
	}
	if p.Source == SourceQ7P && len(p.Sections) > 16 {
		return fmt.Errorf("pattern: q7p pattern must have at most 16 sections, got %d", len(p.Sections))
	}
	want := p.TrackCountPerSection()
	for kind, s := range p.Sections {
		if len(s.Tracks) != want {
			return fmt.Errorf("pattern: section %s must have %d tracks, got %d", kind, want, len(s.Tracks))
		}
	}
	if !p.TimeSig.Valid() {
		return fmt.Errorf("pattern: invalid time signature %+v", p.TimeSig)
	}
	return nil
}

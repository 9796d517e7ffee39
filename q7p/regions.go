// Package q7p implements the QY700 fixed-layout binary pattern file: its
// named region map, decoder, encoder, and the constants the validator,
// differ, and region inspector packages share.
package q7p

import "github.com/qypat/qypat/pattern"

// SmallSize and LargeSize are the only two buffer lengths a Q7P file may
// have. Any other length is a hard decode error.
const (
	SmallSize = 3072
	LargeSize = 5120
)

// Magic is the fixed 16-byte literal every Q7P file opens with.
var Magic = []byte("YQ7PAT     V1.00")

// Named region offsets, as laid out in the Q7P file. All multi-byte
// fields in the file are big-endian.
const (
	OffHeader      = 0x000
	OffPatternInfo = 0x010
	OffPatternNum  = 0x010
	OffFlags       = 0x011
	OffReserved1   = 0x012
	OffSizeMarker  = 0x030
	OffReserved2   = 0x032

	OffSectionPtrs  = 0x100
	SectionPtrCount = 16 // matches pattern.SectionKind's 16-entry enumeration

	OffSectionData   = 0x120
	SectionDataCount = 6 // only the six base kinds have a block in this layout
	SectionDataSize  = 16

	OffTempo     = 0x180
	OffTempoWord = 0x188
	OffTimeSig   = 0x18A

	OffChannels = 0x190

	OffReserved3   = 0x1A0
	OffTrackConfig = 0x1DC
	offTrackNums   = 0x1DC // 8 bytes, carried through unexamined
	offTrackEnable = 0x1E4 // 2 bytes, 16-bit enable bitmask

	OffBankMSB = 0x1E6
	OffProgram = 0x1F6
	OffBankLSB = 0x206
	OffReserved4 = 0x216

	OffVolumeTable = 0x220
	OffReverbTable = 0x250
	OffPanTable    = 0x270
	// tableArrayStart is the 6-byte header every Volume/Reverb/Pan table
	// carries before its 16-byte array.
	tableArrayStart = 6

	OffTable3 = 0x2C0

	OffPhrase       = 0x360
	PhraseRegionLen = 0x318 // 792 bytes
	// phraseSlotSize is the per-section slice width the converter uses
	// when writing QY70-derived phrase bytes: offset 0x360 +
	// section_index*80, at most 80 bytes per section.
	phraseSlotSize = 80

	OffSequence       = 0x678
	SequenceRegionLen = 0x1F8 // 504 bytes

	OffTemplateInfo = 0x870
	OffName         = 0x876
	NameFieldLen    = 10

	OffPatternMap = 0x900

	OffFillArea = 0x9C0
	OffPadArea  = 0xB10
	EndOfFile   = 0xC00

	FillByte byte = 0xFE
	PadByte  byte = 0xF8
)

// TracksPerSection is the fixed Q7P track width.
const TracksPerSection = 16

// sectionKindOrder is the fixed ordering of pattern.SectionKind values
// against the 16-entry SectionPtrs table: QY70's six kinds plus Q7P's
// ten extended/reserved kinds. The pointer table and this slice share
// one index space.
var sectionKindOrder = []pattern.SectionKind{
	pattern.Intro, pattern.MainA, pattern.MainB, pattern.FillAB, pattern.FillBA, pattern.Ending,
	pattern.MainC, pattern.MainD, pattern.Intro2, pattern.Ending2, pattern.Break,
	pattern.Reserved1, pattern.Reserved2, pattern.Reserved3, pattern.Reserved4, pattern.Reserved5,
}

// knownTimeSigBytes is the validator's membership set; the exact
// numerator/denominator each byte encodes is undocumented, so package
// q7p never derives a TimeSignature from it — see Decode and
// pattern.DefaultTimeSignature.
var knownTimeSigBytes = map[byte]bool{
	0x0C: true, 0x14: true, 0x1C: true, 0x1A: true,
	0x22: true, 0x24: true, 0x2C: true, 0x32: true,
}

// IsKnownTimeSigByte reports whether b is one of the eight time-signature
// byte values observed in the wild.
func IsKnownTimeSigByte(b byte) bool { return knownTimeSigBytes[b] }

// Region names one named span of the file, for the differ and region
// inspector.
type Region struct {
	Name       string
	Start, End int
}

// Regions returns the fixed named-region map of the first 0xC00 bytes,
// in file order, shared by package diff and package inspect.
func Regions() []Region {
	return []Region{
		{"Header", OffHeader, OffPatternInfo},
		{"PatternInfo", OffPatternInfo, OffReserved1},
		{"Reserved1", OffReserved1, OffSizeMarker},
		{"SizeMarker", OffSizeMarker, OffReserved2},
		{"Reserved2", OffReserved2, OffSectionPtrs},
		{"SectionPtrs", OffSectionPtrs, OffSectionData},
		{"SectionData", OffSectionData, OffTempo},
		{"Tempo", OffTempo, OffChannels},
		{"Channels", OffChannels, OffReserved3},
		{"Reserved3", OffReserved3, OffTrackConfig},
		{"TrackConfig", OffTrackConfig, OffBankMSB},
		{"BankMSB", OffBankMSB, OffProgram},
		{"Program", OffProgram, OffBankLSB},
		{"BankLSB", OffBankLSB, OffReserved4},
		{"Reserved4", OffReserved4, OffVolumeTable},
		{"VolumeTable", OffVolumeTable, OffReverbTable},
		{"ReverbTable", OffReverbTable, OffPanTable},
		{"PanTable", OffPanTable, OffTable3},
		{"Table3", OffTable3, OffPhrase},
		{"Phrase", OffPhrase, OffSequence},
		{"Sequence", OffSequence, OffTemplateInfo},
		{"TemplateInfo", OffTemplateInfo, OffPatternMap},
		{"PatternMap", OffPatternMap, OffFillArea},
		{"FillArea", OffFillArea, OffPadArea},
		{"PadArea", OffPadArea, EndOfFile},
	}
}

// FillerBytes is the set of filler/padding values the region inspector
// excludes from its meaningful-byte count.
var FillerBytes = map[byte]bool{0x00: true, 0x20: true, 0x40: true, 0x7F: true, 0xFE: true, 0xF8: true}

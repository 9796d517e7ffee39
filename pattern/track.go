package pattern

import "strconv"

// Voice is a (bank_msb, program, bank_lsb) triple, each 0-127.
type Voice struct {
	BankMSB byte
	Program byte
	BankLSB byte
}

// PanCenter and PanRandom are the two named Pan values: 64 is center and
// 0 denotes random panning.
const (
	PanCenter = 64
	PanRandom = 0
)

// Mixer is a track's volume/pan/send record, each 0-127.
type Mixer struct {
	Volume      byte
	Pan         byte
	ReverbSend  byte
	ChorusSend  byte
}

// NoteRange is the optional melody-track note window. QY70-specific:
// drum tracks instead encode the fixed sub-header pair 0x87 0xF8.
type NoteRange struct {
	Low, High byte
}

// QY70TrackNames gives the fixed display-name alphabet for a track's
// position, per source format. QY70 names are drawn from this list by
// zero-based position (0=D1, 1=D2, ... 7=C4); Q7P uses TRn regardless
// of position.
var QY70TrackNames = []string{"D1", "D2", "PC", "BA", "C1", "C2", "C3", "C4"}

// NameForPosition returns the display name for a track at zero-based
// position i in a section of the given source format.
func NameForPosition(source SourceFormat, i int) string {
	if source == SourceQY70 && i < len(QY70TrackNames) {
		return QY70TrackNames[i]
	}
	if i < 0 {
		i = 0
	}
	// Q7P tracks, and any QY70 position beyond the 8-track alphabet
	// (defensive only; QY70 sections are always exactly 8 tracks).
	return "TR" + strconv.Itoa(i+1)
}

// Track owns a MIDI channel, voice, mixer, enable/type flags, an optional
// melody note range, and its phrase bytes. Drum tracks conventionally
// sit on channel 10.
type Track struct {
	Number  int
	Name    string
	Channel int
	Voice   Voice
	Mixer   Mixer
	Enabled bool
	IsDrum  bool

	// NoteRange is only meaningful when !IsDrum and the source is QY70.
	NoteRange *NoteRange

	// Phrase is the opaque per-track event-stream byte run: bar-
	// delimiter markers are known (0xDC) but the field layout is
	// unsolved, so this module never parses it.
	Phrase []byte
}

// NewTrack returns a disabled Track with number n (1-based) and a center
// mixer.
func NewTrack(n int) *Track {
	return &Track{
		Number:  n,
		Channel: n,
		Mixer:   Mixer{Volume: 100, Pan: PanCenter, ReverbSend: 40, ChorusSend: 0},
		Enabled: false,
	}
}

// DefaultQ7PChannel is the per-position default MIDI channel table used
// when a Q7P Channels byte is 0x00 ("use default").
var DefaultQ7PChannel = [16]int{10, 10, 2, 3, 4, 5, 6, 7, 8, 9, 11, 12, 13, 14, 15, 16}

package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qypat/qypat/pattern"
	"github.com/qypat/qypat/q7p"
	"github.com/qypat/qypat/qerr"
	"github.com/qypat/qypat/qlog"
	"github.com/qypat/qypat/qy70"
	"github.com/qypat/qypat/sysex"
)

func buildQY70Wire(t *testing.T, bpm int) []byte {
	t.Helper()
	p := pattern.New(pattern.SourceQY70)
	for _, kind := range pattern.QY70Sections {
		p.Sections[kind] = pattern.NewSection(kind, qy70.TracksPerSection)
	}
	p.TempoBPM = bpm
	section := p.Sections[pattern.MainA]
	section.Enabled = true
	track := section.Tracks[0]
	track.Enabled = true
	track.Voice = pattern.Voice{BankMSB: 0, Program: 12}
	track.Phrase = []byte{0xDC, 0x01, 0x02}

	wire, err := qy70.Encode(p, nil, 0)
	require.NoError(t, err)
	return wire
}

func TestQY70ToQ7PBasicConversion(t *testing.T) {
	wire := buildQY70Wire(t, 132)

	res, err := QY70ToQ7P(wire, nil)
	require.NoError(t, err)
	require.Len(t, res.Buf, q7p.SmallSize)

	got, err := q7p.Decode(res.Buf)
	require.NoError(t, err)
	assert.Equal(t, 132, got.TempoBPM)
	assert.True(t, got.Sections[pattern.MainA].Enabled)
	assert.True(t, got.Sections[pattern.MainA].Tracks[0].Enabled)
	assert.Equal(t, byte(12), got.Sections[pattern.MainA].Tracks[0].Voice.Program)
	assert.Equal(t, 1, res.Report.SectionsConverted)
}

func TestQY70ToQ7PRejectsBrokenStream(t *testing.T) {
	_, err := QY70ToQ7P([]byte{0xF0, 0x43}, nil)
	assert.Error(t, err)
}

func buildQ7PWithAllTracksEnabled(t *testing.T) []byte {
	t.Helper()
	p := pattern.New(pattern.SourceQ7P)
	for i, kind := range []pattern.SectionKind{
		pattern.Intro, pattern.MainA, pattern.MainB, pattern.FillAB, pattern.FillBA, pattern.Ending,
		pattern.MainC, pattern.MainD, pattern.Intro2, pattern.Ending2, pattern.Break,
		pattern.Reserved1, pattern.Reserved2, pattern.Reserved3, pattern.Reserved4, pattern.Reserved5,
	} {
		_ = i
		p.Sections[kind] = pattern.NewSection(kind, q7p.TracksPerSection)
	}
	p.TempoBPM = 118
	section := p.Sections[pattern.MainA]
	section.Enabled = true
	for i, track := range section.Tracks {
		track.Enabled = true
		track.Voice = pattern.Voice{BankMSB: 0, Program: byte(i)}
	}
	section.Phrase = []byte{0xDC, 0x00, 0x01}

	return q7p.Encode(p, nil)
}

// TestQ7PToQY70TracksAboveEightDropped covers the lossy-warning
// fixture: converting a 16-track Q7P section to QY70 must report
// Tracks9To16Dropped and emit only the first eight tracks.
func TestQ7PToQY70TracksAboveEightDropped(t *testing.T) {
	buf := buildQ7PWithAllTracksEnabled(t)

	res, err := Q7PToQY70(buf)
	require.NoError(t, err)
	require.Equal(t, 8, res.Report.TracksDropped)

	var sawDropped, sawEventWarning bool
	for _, w := range res.Warnings {
		switch w.Kind {
		case qerr.Tracks9To16Dropped:
			sawDropped = true
		case qerr.EventStreamCarriedThrough:
			sawEventWarning = true
		}
	}
	assert.True(t, sawDropped)
	assert.True(t, sawEventWarning)

	envs, issues := sysex.Scan(res.Buf, sysex.Options{}, qlog.New("test"))
	assert.Empty(t, issues)
	blocks, feedErrs := sysex.AssembleAll(envs, sysex.Options{})
	assert.Empty(t, feedErrs)

	got, err := qy70.Decode(blocks)
	require.NoError(t, err)
	for i := 0; i < qy70.TracksPerSection; i++ {
		assert.True(t, got.Sections[pattern.MainA].Tracks[i].Enabled)
	}
}

func TestQ7PToQY70RejectsBadBuffer(t *testing.T) {
	_, err := Q7PToQY70(make([]byte, 10))
	assert.Error(t, err)
}

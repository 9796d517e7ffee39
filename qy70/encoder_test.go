package qy70

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qypat/qypat/pattern"
	"github.com/qypat/qypat/qlog"
	"github.com/qypat/qypat/sysex"
)

func singleTrackPattern(bpm int) *pattern.Pattern {
	p := pattern.New(pattern.SourceQY70)
	p.TempoBPM = bpm
	for _, kind := range pattern.QY70Sections {
		p.Sections[kind] = pattern.NewSection(kind, TracksPerSection)
	}
	section := p.Sections[pattern.MainA]
	section.Enabled = true
	track := section.Tracks[0]
	track.Enabled = true
	track.Voice = pattern.Voice{BankMSB: 1, Program: 5}
	track.Mixer.Pan = 100
	track.Phrase = []byte{0xDC, 0x01, 0x02, 0x03}
	return p
}

func TestEncodeDecodeRoundTripSinglePattern(t *testing.T) {
	p := singleTrackPattern(140)

	wire, err := Encode(p, nil, 0)
	require.NoError(t, err)

	envs, issues := sysex.Scan(wire, sysex.Options{}, qlog.New("test"))
	assert.Empty(t, issues)

	blocks, feedErrs := sysex.AssembleAll(envs, sysex.Options{})
	assert.Empty(t, feedErrs)

	got, err := Decode(blocks)
	require.NoError(t, err)

	assert.Equal(t, 140, got.TempoBPM)
	gotTrack := got.Sections[pattern.MainA].Tracks[0]
	assert.True(t, gotTrack.Enabled)
	assert.Equal(t, byte(1), gotTrack.Voice.BankMSB)
	assert.Equal(t, byte(5), gotTrack.Voice.Program)
	assert.Equal(t, []byte{0xDC, 0x01, 0x02, 0x03}, gotTrack.Phrase)
}

func TestEncodeStyleEnablesMultipleSections(t *testing.T) {
	p := singleTrackPattern(120)
	p.Sections[pattern.MainB].Enabled = true
	p.Sections[pattern.MainB].Tracks[0].Enabled = true

	wire, err := Encode(p, nil, 0)
	require.NoError(t, err)

	envs, _ := sysex.Scan(wire, sysex.Options{}, qlog.New("test"))
	blocks, _ := sysex.AssembleAll(envs, sysex.Options{})
	got, err := Decode(blocks)
	require.NoError(t, err)

	assert.True(t, got.Sections[pattern.MainA].Enabled)
	assert.True(t, got.Sections[pattern.MainB].Enabled)
}

func TestEncodeRejectsOutOfRangeTempo(t *testing.T) {
	p := singleTrackPattern(500)
	_, err := Encode(p, nil, 0)
	assert.Error(t, err)
}

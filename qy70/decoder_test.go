package qy70

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qypat/qypat/pattern"
	"github.com/qypat/qypat/qlog"
	"github.com/qypat/qypat/sysex"
)

func TestDecodeBytesFullPipeline(t *testing.T) {
	p := singleTrackPattern(96)
	wire, err := Encode(p, nil, 0x00)
	require.NoError(t, err)

	got, issues, err := DecodeBytes(wire, sysex.Options{}, qlog.New("test"))
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, 96, got.TempoBPM)
	assert.True(t, got.Sections[pattern.MainA].Tracks[0].Enabled)
}

func TestDecodeWithoutHeaderBlockDefaultsTempo(t *testing.T) {
	blocks := map[byte]*sysex.Block{}
	got, err := Decode(blocks)
	require.NoError(t, err)
	assert.Equal(t, 120, got.TempoBPM)
	assert.Len(t, got.Sections, 6)
}

func TestDecodeTrackMarksDisabledWhenBlockMissing(t *testing.T) {
	track := decodeTrack(0, nil)
	assert.False(t, track.Enabled)
	assert.Equal(t, "D1", track.Name)
}

package qy70

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderRejectsShortBlock(t *testing.T) {
	_, err := ParseHeader(make([]byte, 10))
	assert.Error(t, err)
}

func TestNewMinimalHeaderMarksStyle(t *testing.T) {
	pat := NewMinimalHeader(false)
	assert.False(t, IsStyle(pat.FormatMarker))

	style := NewMinimalHeader(true)
	assert.True(t, IsStyle(style.FormatMarker))
}

func TestWithFormatMarkerDoesNotMutateOriginal(t *testing.T) {
	h := NewMinimalHeader(false)
	h2 := h.WithFormatMarker(StyleMarkerThreshold)
	assert.False(t, IsStyle(h.FormatMarker))
	assert.True(t, IsStyle(h2.FormatMarker))
}

func TestParseHeaderRoundTripsFixedBytes(t *testing.T) {
	h := NewMinimalHeader(true)
	parsed, err := ParseHeader(h.Raw)
	require.NoError(t, err)
	assert.Equal(t, h.FormatMarker, parsed.FormatMarker)
	assert.Equal(t, h.TimeSigByte, parsed.TimeSigByte)
	assert.Equal(t, h.Raw, parsed.Raw)
}

package qy70

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTempoFixtures(t *testing.T) {
	rng, off, err := EncodeTempo(155)
	require.NoError(t, err)
	assert.Equal(t, byte(3), rng)
	assert.Equal(t, byte(3), off)

	rng, off, err = EncodeTempo(133)
	require.NoError(t, err)
	assert.Equal(t, byte(2), rng)
	assert.Equal(t, byte(76), off)
}

func TestTempoRoundTrip(t *testing.T) {
	for bpm := TempoBPMMin; bpm <= TempoBPMMax; bpm++ {
		rng, off, err := EncodeTempo(bpm)
		require.NoError(t, err)
		got, err := DecodeTempo(rng, off)
		require.NoError(t, err)
		assert.Equal(t, bpm, got)
	}
}

func TestTempoOutOfRange(t *testing.T) {
	_, _, err := EncodeTempo(40)
	assert.Error(t, err)
	_, _, err = EncodeTempo(300)
	assert.Error(t, err)
	_, err = DecodeTempo(5, 0)
	assert.Error(t, err)
}

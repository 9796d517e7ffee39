package sevenbit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0x80, 0x40, 0x20, 0x10, 0x08, 0x04, 0x02},
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		make([]byte, 128),
	}
	for i := range cases[4] {
		cases[4][i] = byte(i * 3)
	}

	for _, raw := range cases {
		got := Decode(Encode(raw))
		assert.Equal(t, raw, got)
	}
}

func TestEncodeKnownVector(t *testing.T) {
	raw := []byte{0x80, 0x40, 0x20, 0x10, 0x08, 0x04, 0x02}
	want := []byte{0x40, 0x00, 0x40, 0x20, 0x10, 0x08, 0x04, 0x02}
	assert.Equal(t, want, Encode(raw))
	assert.Equal(t, raw, Decode(want))
}

func Test128ByteBlockEncodesTo147Bytes(t *testing.T) {
	raw := make([]byte, 128)
	encoded := Encode(raw)
	assert.Len(t, encoded, 147)

	decoded, err := DecodeExpect(encoded, 128)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestDecodeExpectTruncatesOverlong(t *testing.T) {
	raw := make([]byte, 130)
	encoded := Encode(raw)
	decoded, err := DecodeExpect(encoded, 128)
	require.NoError(t, err)
	assert.Len(t, decoded, 128)
}

func TestDecodeExpectErrorsOnShort(t *testing.T) {
	raw := make([]byte, 100)
	encoded := Encode(raw)
	_, err := DecodeExpect(encoded, 128)
	require.Error(t, err)
}

package diff

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qypat/qypat/q7p"
)

func TestQ7PIdenticalBuffers(t *testing.T) {
	a := q7p.MinimalTemplate()
	b := append([]byte(nil), a...)
	r, err := Q7P(a, b)
	require.NoError(t, err)
	assert.True(t, r.Identical)
	assert.Equal(t, 0, r.ByteDifferences)
	assert.Empty(t, r.Regions)
}

func TestQ7PDetectsTempoChange(t *testing.T) {
	a := q7p.MinimalTemplate()
	binary.BigEndian.PutUint16(a[q7p.OffTempoWord:], 1200)
	b := append([]byte(nil), a...)
	binary.BigEndian.PutUint16(b[q7p.OffTempoWord:], 1400)

	r, err := Q7P(a, b)
	require.NoError(t, err)
	assert.False(t, r.Identical)
	require.Len(t, r.Fields, 1)
	assert.Equal(t, "Tempo", r.Fields[0].Field)
	assert.Equal(t, "120.0 BPM", r.Fields[0].A)
	assert.Equal(t, "140.0 BPM", r.Fields[0].B)
}

func TestQ7PRejectsWrongSize(t *testing.T) {
	_, err := Q7P(make([]byte, 10), q7p.MinimalTemplate())
	assert.Error(t, err)
}

func TestQ7PGroupsByteDiffByRegion(t *testing.T) {
	a := q7p.MinimalTemplate()
	b := append([]byte(nil), a...)
	b[q7p.OffPatternNum] = 9

	r, err := Q7P(a, b)
	require.NoError(t, err)
	require.Len(t, r.Regions, 1)
	assert.Equal(t, "PatternInfo", r.Regions[0].Region)
}

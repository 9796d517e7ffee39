package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qypat/qypat/q7p"
	"github.com/qypat/qypat/sysex"
)

func TestQ7PValidGoodBuffer(t *testing.T) {
	buf := q7p.MinimalTemplate()
	r := Q7P(buf)
	assert.True(t, r.Valid())
}

func TestQ7PWrongSizeIsError(t *testing.T) {
	r := Q7P(make([]byte, 10))
	assert.False(t, r.Valid())
}

func TestQ7PBadMagicIsError(t *testing.T) {
	buf := q7p.MinimalTemplate()
	buf[0] = 'Z'
	r := Q7P(buf)
	assert.False(t, r.Valid())
}

func TestQ7PTempoOutOfRangeIsError(t *testing.T) {
	buf := q7p.MinimalTemplate()
	buf[q7p.OffTempoWord] = 0xFF
	buf[q7p.OffTempoWord+1] = 0xFF
	r := Q7P(buf)
	assert.False(t, r.Valid())
}

func TestQ7PFillerNonzeroIsInfoNotError(t *testing.T) {
	buf := q7p.MinimalTemplate()
	buf[q7p.OffFillArea] = 0x00
	r := Q7P(buf)
	assert.True(t, r.Valid())
	assert.NotEmpty(t, r.Issues)
}

func TestQY70ValidStream(t *testing.T) {
	stream := append([]byte(nil), sysex.BuildInit(0)...)
	stream = append(stream, sysex.BuildBulkDump(0, sysex.Address{AH: 0x02, AM: 0x7E, AL: 0x00}, make([]byte, 128))...)
	stream = append(stream, sysex.BuildClose(0)...)
	r := QY70(stream)
	assert.True(t, r.Valid())
}

func TestQY70MissingCloseIsError(t *testing.T) {
	stream := sysex.BuildInit(0)
	r := QY70(stream)
	assert.False(t, r.Valid())
}

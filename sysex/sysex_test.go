package sysex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qypat/qypat/qlog"
)

func buildStream(device byte, al byte, blocks [][]byte) []byte {
	var buf []byte
	buf = append(buf, BuildInit(device)...)
	for _, b := range blocks {
		buf = append(buf, BuildBulkDump(device, Address{AH: StyleAddress.AH, AM: StyleAddress.AM, AL: al}, b)...)
	}
	buf = append(buf, BuildClose(device)...)
	return buf
}

func TestScanRoundTrip(t *testing.T) {
	decoded := make([]byte, 128)
	for i := range decoded {
		decoded[i] = byte(i)
	}
	stream := buildStream(0x02, 0x00, [][]byte{decoded})

	envs, issues := Scan(stream, Options{}, qlog.New("test"))
	require.Empty(t, issues)
	require.Len(t, envs, 3)
	assert.Equal(t, KindInit, envs[0].Kind)
	assert.Equal(t, KindBulkDump, envs[1].Kind)
	assert.Equal(t, KindClose, envs[2].Kind)

	blocks, errs := AssembleAll(envs, Options{})
	require.Empty(t, errs)
	blk, ok := blocks[0x00]
	require.True(t, ok)
	assert.Equal(t, decoded, blk.Decoded)
}

func TestScanDropsBadManufacturer(t *testing.T) {
	env := BuildInit(0x00)
	env[1] = 0x41 // not Yamaha
	envs, issues := Scan(env, Options{}, qlog.New("test"))
	assert.Empty(t, envs)
	require.Len(t, issues, 1)
	assert.Equal(t, "sysex", issues[0].Area)
}

func TestScanDropsBadChecksum(t *testing.T) {
	decoded := make([]byte, 16)
	stream := BuildBulkDump(0x00, Address{AH: 0x02, AM: 0x7E, AL: 0x7F}, decoded)
	// Corrupt the checksum byte (second-to-last byte, just before F7).
	stream[len(stream)-2] ^= 0xFF
	stream[len(stream)-2] &= 0x7F

	envs, issues := Scan(stream, Options{}, qlog.New("test"))
	assert.Empty(t, envs)
	require.Len(t, issues, 1)
}

func TestAssemblerRejectsBulkDumpInIdle(t *testing.T) {
	a := NewAssembler(Options{})
	env := Envelope{Kind: KindBulkDump, Addr: Address{AL: 0x00}, EncodedPayload: []byte{0}}
	err := a.Feed(env)
	assert.Error(t, err)
}

func TestAssemblerToleratesWhenConfigured(t *testing.T) {
	a := NewAssembler(Options{Tolerant: true})
	env := Envelope{Kind: KindBulkDump, Addr: Address{AL: 0x00}, EncodedPayload: []byte{0}}
	err := a.Feed(env)
	assert.NoError(t, err)
}

func TestSessionStateMachine(t *testing.T) {
	a := NewAssembler(Options{})
	assert.Equal(t, StateIdle, a.State())
	require.NoError(t, a.Feed(Envelope{Kind: KindInit, Device: 0x00}))
	assert.Equal(t, StateAwaitingData, a.State())
	require.NoError(t, a.Feed(Envelope{Kind: KindClose}))
	assert.Equal(t, StateClosed, a.State())
}

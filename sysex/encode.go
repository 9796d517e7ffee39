package sysex

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/qypat/qypat/checksum"
	"github.com/qypat/qypat/sevenbit"
)

// wrap builds a full F0...F7 envelope around body (manufacturer, device
// byte, model, ...), using gitlab.com/gomidi/midi/v2's SysEx framing
// instead of hand-assembling the delimiter bytes.
func wrap(body []byte) []byte {
	msg := midi.SysEx(body)
	return append([]byte(nil), []byte(msg)...)
}

// BuildInit returns the Init envelope for device:
// F0 43 1n 5F 00 00 00 01 F7.
func BuildInit(device byte) []byte {
	return wrap([]byte{Manufacturer, 0x10 | (device & 0x0F), Model, 0x00, 0x00, 0x00, 0x01})
}

// BuildClose returns the Close envelope for device: F0 43 1n 5F 00 00 00
// 00 F7.
func BuildClose(device byte) []byte {
	return wrap([]byte{Manufacturer, 0x10 | (device & 0x0F), Model, 0x00, 0x00, 0x00, 0x00})
}

// BuildBulkDump returns one bulk-dump envelope carrying the
// len(decoded) bytes of decoded at addr, freshly checksummed:
// F0 43 0n 5F BH BL AH AM AL <encoded> CS F7.
func BuildBulkDump(device byte, addr Address, decoded []byte) []byte {
	return BuildBulkDumpFromEncoded(device, addr, sevenbit.Encode(decoded), len(decoded))
}

// BuildBulkDumpFromEncoded is BuildBulkDump for a caller that has already
// 7-bit-packed its payload — used by package qy70's header encoder, which
// must override the first encoded group's header byte with the tempo
// range nibble rather than its literal bit-7-carrier value.
func BuildBulkDumpFromEncoded(device byte, addr Address, encoded []byte, declaredSize int) []byte {
	bh := byte((declaredSize >> 7) & 0x7F)
	bl := byte(declaredSize & 0x7F)

	covered := make([]byte, 0, bulkDumpAddrSize+len(encoded))
	covered = append(covered, bh, bl, addr.AH, addr.AM, addr.AL)
	covered = append(covered, encoded...)
	cs := checksum.Compute(covered)

	body := make([]byte, 0, 3+len(covered)+1)
	body = append(body, Manufacturer, 0x00|(device&0x0F), Model)
	body = append(body, covered...)
	body = append(body, cs)
	return wrap(body)
}

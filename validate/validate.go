// Package validate implements structural checks over a raw Q7P or QY70
// SysEx buffer. Findings are always structured and graded, never
// propagated as a Go error.
package validate

import (
	"encoding/binary"

	"github.com/qypat/qypat/q7p"
	"github.com/qypat/qypat/qerr"
	"github.com/qypat/qypat/qlog"
	"github.com/qypat/qypat/sysex"
)

// Result is the validator's output: every finding it raised, plus
// whether the buffer is "valid" (no error-grade finding).
type Result struct {
	Issues []qerr.Issue
}

// Valid reports whether no error-grade issue was raised.
func (r Result) Valid() bool {
	for _, i := range r.Issues {
		if i.Severity == qerr.SeverityError {
			return false
		}
	}
	return true
}

func (r *Result) add(sev qerr.Severity, area string, offset int, msg string) {
	r.Issues = append(r.Issues, qerr.Issue{Severity: sev, Area: area, Offset: offset, Message: msg})
}

// Q7P runs the structural Q7P checks: size, magic, tempo range, time-sig
// byte membership, per-track channel and volume/pan ranges, and filler
// region consistency.
func Q7P(buf []byte) Result {
	var r Result

	if len(buf) != q7p.SmallSize && len(buf) != q7p.LargeSize {
		r.add(qerr.SeverityError, "size", 0, "buffer length is neither 3072 nor 5120 bytes")
		return r
	}
	for i, b := range q7p.Magic {
		if buf[q7p.OffHeader+i] != b {
			r.add(qerr.SeverityError, "Header", q7p.OffHeader, "magic mismatch")
			break
		}
	}

	tempoRaw := binary.BigEndian.Uint16(buf[q7p.OffTempoWord : q7p.OffTempoWord+2])
	if tempoRaw < 200 || tempoRaw > 3000 {
		r.add(qerr.SeverityError, "Tempo", q7p.OffTempoWord, "tempo raw word out of [200,3000]")
	}

	tsb := buf[q7p.OffTimeSig]
	if !q7p.IsKnownTimeSigByte(tsb) {
		r.add(qerr.SeverityWarning, "Tempo", q7p.OffTimeSig, "unrecognized time-signature byte")
	}

	for i := 0; i < q7p.TracksPerSection; i++ {
		ch := buf[q7p.OffChannels+i]
		if ch > 15 {
			r.add(qerr.SeverityError, "Channels", q7p.OffChannels+i, "channel byte out of 0..15")
		}
		vol := buf[q7p.OffVolumeTable+6+i]
		if vol > 127 {
			r.add(qerr.SeverityError, "VolumeTable", q7p.OffVolumeTable+6+i, "volume out of 0..127")
		}
		pan := buf[q7p.OffPanTable+6+i]
		if pan > 127 {
			r.add(qerr.SeverityError, "PanTable", q7p.OffPanTable+6+i, "pan out of 0..127")
		}
	}

	fillNonzero := 0
	for i := q7p.OffFillArea; i < q7p.OffPadArea; i++ {
		if buf[i] != q7p.FillByte {
			fillNonzero++
		}
	}
	if fillNonzero > 0 {
		r.add(qerr.SeverityInfo, "FillArea", q7p.OffFillArea, "filler bytes not all 0xFE")
	}
	padNonzero := 0
	for i := q7p.OffPadArea; i < q7p.EndOfFile; i++ {
		if buf[i] != q7p.PadByte {
			padNonzero++
		}
	}
	if padNonzero > 0 {
		r.add(qerr.SeverityInfo, "PadArea", q7p.OffPadArea, "pad bytes not all 0xF8")
	}

	return r
}

// QY70 runs the structural SysEx checks: every bulk-dump checksum verifies,
// the stream opens with Init and closes with Close, every bulk-dump
// payload size is 147, manufacturer/model match, and the device number
// is identical across every envelope.
func QY70(buf []byte) Result {
	var r Result

	envs, scanIssues := sysex.Scan(buf, sysex.Options{Tolerant: true}, qlog.New("validate"))
	r.Issues = append(r.Issues, scanIssues...)

	if len(envs) == 0 {
		r.add(qerr.SeverityError, "sysex", 0, "no envelopes found")
		return r
	}
	if envs[0].Kind != sysex.KindInit {
		r.add(qerr.SeverityError, "sysex", envs[0].Offset, "stream does not open with Init")
	}
	if envs[len(envs)-1].Kind != sysex.KindClose {
		r.add(qerr.SeverityError, "sysex", envs[len(envs)-1].Offset, "stream does not close with Close")
	}

	var device byte
	haveDevice := false
	for _, e := range envs {
		if e.Kind == sysex.KindBulkDump && len(e.EncodedPayload) != 147 {
			r.add(qerr.SeverityWarning, "sysex", e.Offset, "bulk-dump payload is not 147 bytes")
		}
		if !haveDevice {
			device = e.Device
			haveDevice = true
		} else if e.Device != device {
			r.add(qerr.SeverityError, "sysex", e.Offset, "device number differs from the stream's first envelope")
		}
	}

	return r
}

package sysex

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/qypat/qypat/checksum"
	"github.com/qypat/qypat/qerr"
	"github.com/qypat/qypat/qlog"
	"github.com/qypat/qypat/sevenbit"
)

// Options configures the framer's tolerance for malformed input.
type Options struct {
	// Tolerant, when true, keeps a bad-checksum bulk-dump envelope in
	// Scan's returned slice instead of dropping it (the issue is reported
	// either way), and lets the Assembler accumulate a bulk dump that
	// arrives before Init or from a mismatched device instead of
	// returning an error.
	Tolerant bool
}

// Scan extracts every F0...F7 envelope from buf, classifies it, extracts
// its address triple, and validates its checksum. Envelopes with the
// wrong manufacturer, wrong model, a truncated body, or a bad checksum
// are dropped from the returned slice (when Tolerant, a bad-checksum
// bulk dump is kept) but are always reported in the returned
// diagnostics.
func Scan(buf []byte, opts Options, log qlog.Logger) ([]Envelope, []qerr.Issue) {
	var envs []Envelope
	var issues []qerr.Issue

	for i := 0; i < len(buf); i++ {
		if buf[i] != sysExStart {
			continue
		}
		end := -1
		for j := i + 1; j < len(buf); j++ {
			if buf[j] == sysExEnd {
				end = j
				break
			}
		}
		if end == -1 {
			issues = append(issues, qerr.Issue{
				Severity: qerr.SeverityError,
				Area:     "sysex",
				Offset:   i,
				Message:  "truncated envelope: no 0xF7 found",
			})
			log.Error("sysex: truncated envelope at offset %d", i)
			break
		}

		raw := append([]byte(nil), buf[i:end+1]...)
		env, issue, ok := parseEnvelope(raw, i)
		if issue != nil {
			issues = append(issues, *issue)
			log.Warn("sysex: %s", issue.Message)
		}
		if ok || opts.Tolerant {
			if ok || env.Kind != KindUnknown {
				envs = append(envs, env)
			}
		}

		i = end
	}

	return envs, issues
}

// parseEnvelope classifies and validates a single raw envelope (0xF0
// through 0xF7 inclusive). ok is false when the envelope must be dropped
// for a strict caller; issue, when non-nil, is the reason.
func parseEnvelope(raw []byte, offset int) (Envelope, *qerr.Issue, bool) {
	msg := midi.Message(raw)
	var body []byte
	if !msg.GetSysEx(&body) || len(body) < 2 {
		return Envelope{}, &qerr.Issue{
			Severity: qerr.SeverityError,
			Area:     "sysex",
			Offset:   offset,
			Message:  "not a well-formed SysEx envelope",
		}, false
	}

	// body = manufacturer, device/type, model, ...payload...
	if body[0] != Manufacturer {
		return Envelope{Kind: KindUnknown, Offset: offset, Raw: raw}, &qerr.Issue{
			Severity: qerr.SeverityError,
			Area:     "sysex",
			Offset:   offset,
			Message:  (&qerr.BadManufacturer{Got: body[0]}).Error(),
		}, false
	}
	if len(body) < 3 || body[2] != Model {
		got := byte(0)
		if len(body) > 2 {
			got = body[2]
		}
		return Envelope{Kind: KindUnknown, Offset: offset, Raw: raw}, &qerr.Issue{
			Severity: qerr.SeverityError,
			Area:     "sysex",
			Offset:   offset,
			Message:  (&qerr.BadModel{Got: got}).Error(),
		}, false
	}

	typeByte := body[1]
	device := typeByte & 0x0F
	rest := body[3:]

	switch typeByte & 0xF0 {
	case 0x10:
		return parseParamChange(raw, offset, device, rest)
	case 0x00:
		return parseBulkDump(raw, offset, device, rest)
	default:
		return Envelope{Kind: KindUnknown, Device: device, Offset: offset, Raw: raw}, &qerr.Issue{
			Severity: qerr.SeverityWarning,
			Area:     "sysex",
			Offset:   offset,
			Message:  "unrecognized envelope type byte",
		}, false
	}
}

func parseParamChange(raw []byte, offset int, device byte, rest []byte) (Envelope, *qerr.Issue, bool) {
	env := Envelope{Kind: KindParamChange, Device: device, Offset: offset, Raw: raw}
	switch {
	case len(rest) == 4 && rest[0] == 0 && rest[1] == 0 && rest[2] == 0 && rest[3] == 1:
		env.Kind = KindInit
	case len(rest) == 4 && rest[0] == 0 && rest[1] == 0 && rest[2] == 0 && rest[3] == 0:
		env.Kind = KindClose
	}
	return env, nil, true
}

// bulkDumpAddrSize is the 5-byte (BH, BL, AH, AM, AL) header preceding a
// bulk-dump's encoded payload, and trailerSize is the trailing checksum
// byte.
const (
	bulkDumpAddrSize = 5
	trailerSize      = 1
)

func parseBulkDump(raw []byte, offset int, device byte, rest []byte) (Envelope, *qerr.Issue, bool) {
	if len(rest) < bulkDumpAddrSize+trailerSize {
		return Envelope{Kind: KindUnknown, Device: device, Offset: offset, Raw: raw}, &qerr.Issue{
			Severity: qerr.SeverityError,
			Area:     "sysex",
			Offset:   offset,
			Message:  (&qerr.UnexpectedSize{Got: len(rest), Want: bulkDumpAddrSize + trailerSize}).Error(),
		}, false
	}

	bh, bl := rest[0], rest[1]
	size := (int(bh) << 7) | int(bl)
	addr := Address{AH: rest[2], AM: rest[3], AL: rest[4]}

	encodedLen := len(rest) - bulkDumpAddrSize - trailerSize
	encoded := append([]byte(nil), rest[bulkDumpAddrSize:bulkDumpAddrSize+encodedLen]...)
	cs := rest[len(rest)-1]

	covered := rest[:len(rest)-1] // BH BL AH AM AL + encoded
	want := checksum.Compute(covered)
	if !checksum.Verify(covered, cs) {
		env := Envelope{
			Kind: KindBulkDump, Device: device, Offset: offset, Raw: raw,
			Addr: addr, Size: size, EncodedPayload: encoded, Checksum: cs,
		}
		return env, &qerr.Issue{
			Severity: qerr.SeverityError,
			Area:     "sysex",
			Offset:   offset,
			Message:  (&qerr.BadChecksum{Offset: offset, Got: cs, Want: want}).Error(),
		}, false
	}

	// Confirm the encoded payload actually 7-bit-decodes to the declared
	// size; a mismatch here is informational for a strict caller (the
	// checksum already validated the bytes we received) but worth
	// surfacing since the assembler downstream trusts Size.
	if decoded := sevenbit.Decode(encoded); len(decoded) < size {
		return Envelope{
				Kind: KindBulkDump, Device: device, Offset: offset, Raw: raw,
				Addr: addr, Size: size, EncodedPayload: encoded, Checksum: cs,
			}, &qerr.Issue{
				Severity: qerr.SeverityWarning,
				Area:     "sysex",
				Offset:   offset,
				Message:  "bulk-dump payload decodes shorter than declared size",
			}, true
	}

	return Envelope{
		Kind: KindBulkDump, Device: device, Offset: offset, Raw: raw,
		Addr: addr, Size: size, EncodedPayload: encoded, Checksum: cs,
	}, nil, true
}

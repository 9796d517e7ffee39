package qy70

import (
	"github.com/qypat/qypat/pattern"
	"github.com/qypat/qypat/sevenbit"
	"github.com/qypat/qypat/sysex"
)

// headerBlockSize is the per-message chunk width every QY70 bulk dump
// uses: a logical block larger than this spans consecutive same-AL
// messages.
const headerBlockSize = 128

// Encode renders p as a complete QY70 bulk-dump SysEx stream: Init, the
// AL=0x7F global header (tempo folded into its first message's raw
// encoded bytes), one or more per-section-per-track bulk dumps, and
// Close.
//
// template carries forward a previously-captured header's fixed bytes
// (bytes 2-12, the time-signature byte, and anything else this package
// does not identify) so that round-tripping a decoded Pattern does not
// have to zero-then-fill them; pass nil to synthesize a minimal header.
func Encode(p *pattern.Pattern, template *Header, device byte) ([]byte, error) {
	isStyle := countEnabledQY70Sections(p) > 1

	var hdr Header
	if template != nil {
		hdr = *template
		hdr.Raw = append([]byte(nil), template.Raw...)
	} else {
		hdr = NewMinimalHeader(isStyle)
	}
	marker := byte(0x00)
	if isStyle {
		marker = StyleMarkerThreshold
	}
	hdr = hdr.WithFormatMarker(marker)

	rng, offset, err := EncodeTempo(p.TempoBPM)
	if err != nil {
		return nil, err
	}

	out := append([]byte(nil), sysex.BuildInit(device)...)
	out = append(out, encodeHeaderBlocks(hdr, rng, offset, device)...)

	for i, kind := range pattern.QY70Sections {
		if !isStyle && kind != pattern.MainA {
			continue
		}
		section := p.Sections[kind]
		if section == nil || !section.Enabled {
			continue
		}
		base := byte(i * TracksPerSection)
		for t := 0; t < TracksPerSection && t < len(section.Tracks); t++ {
			track := section.Tracks[t]
			if track == nil || !track.Enabled {
				continue
			}
			al := byte(t)
			if isStyle {
				al = base + byte(t)
			}
			addr := sysex.Address{AH: sysex.StyleAddress.AH, AM: sysex.StyleAddress.AM, AL: al}
			out = append(out, splitBulkDump(device, addr, encodeTrackStream(track))...)
		}
	}

	out = append(out, sysex.BuildClose(device)...)
	return out, nil
}

// encodeHeaderBlocks packs hdr.Raw into headerBlockSize-byte bulk-dump
// messages, overriding the first message's encoded header byte and first
// data byte with the tempo range/offset pair — the inverse of Decode
// reading those same two raw bytes back out.
func encodeHeaderBlocks(hdr Header, rng, offset, device byte) []byte {
	var out []byte
	addr := sysex.Address{AH: sysex.StyleAddress.AH, AM: sysex.StyleAddress.AM, AL: sysex.GlobalHeaderAL}
	for i := 0; i < len(hdr.Raw); i += headerBlockSize {
		end := i + headerBlockSize
		if end > len(hdr.Raw) {
			end = len(hdr.Raw)
		}
		chunk := hdr.Raw[i:end]
		encoded := sevenbit.Encode(chunk)
		if i == 0 && len(encoded) >= 2 {
			encoded[0] = rng
			encoded[1] = offset
		}
		out = append(out, sysex.BuildBulkDumpFromEncoded(device, addr, encoded, len(chunk))...)
	}
	return out
}

// encodeTrackStream serializes a track's sub-header plus its carried-
// through phrase bytes into one decoded per-track stream.
func encodeTrackStream(track *pattern.Track) []byte {
	sub := subHeaderFromTrack(track)
	b := sub.Bytes()
	out := make([]byte, 0, TrackSubHeaderSize+len(track.Phrase))
	out = append(out, b[:]...)
	out = append(out, track.Phrase...)
	return out
}

func subHeaderFromTrack(track *pattern.Track) TrackSubHeader {
	h := TrackSubHeader{IsDrum: track.IsDrum}
	if track.Voice == (pattern.Voice{}) {
		h.VoiceIsDefault = true
	} else {
		h.BankMSB, h.Program = track.Voice.BankMSB, track.Voice.Program
	}
	if !track.IsDrum && track.NoteRange != nil {
		h.NoteLow, h.NoteHigh = track.NoteRange.Low, track.NoteRange.High
	}
	if track.Mixer.Pan != pattern.PanCenter {
		h.PanExplicit = true
		h.Pan = track.Mixer.Pan
	}
	return h
}

// splitBulkDump builds one or more bulk-dump envelopes carrying decoded
// at addr, splitting at headerBlockSize-byte boundaries. An empty
// decoded stream still emits a single zero-length message so a
// disabled-but-present track round-trips.
func splitBulkDump(device byte, addr sysex.Address, decoded []byte) []byte {
	if len(decoded) == 0 {
		return sysex.BuildBulkDump(device, addr, decoded)
	}
	var out []byte
	for i := 0; i < len(decoded); i += headerBlockSize {
		end := i + headerBlockSize
		if end > len(decoded) {
			end = len(decoded)
		}
		out = append(out, sysex.BuildBulkDump(device, addr, decoded[i:end])...)
	}
	return out
}

func countEnabledQY70Sections(p *pattern.Pattern) int {
	n := 0
	for _, kind := range pattern.QY70Sections {
		if s := p.Sections[kind]; s != nil && s.Enabled {
			n++
		}
	}
	return n
}

package qy70

import (
	"github.com/qypat/qypat/pattern"
	"github.com/qypat/qypat/qerr"
	"github.com/qypat/qypat/qlog"
	"github.com/qypat/qypat/sysex"
)

// TracksPerSection is the fixed QY70 track width.
const TracksPerSection = 8

// DecodeBytes scans raw for SysEx envelopes, reassembles them, and
// decodes the result into a Pattern. Diagnostics from the scan (dropped
// envelopes) are returned alongside a successful decode; a hard decode
// failure aborts and returns no partial Pattern.
func DecodeBytes(raw []byte, opts sysex.Options, log qlog.Logger) (*pattern.Pattern, []qerr.Issue, error) {
	envs, issues := sysex.Scan(raw, opts, log)
	blocks, feedErrs := sysex.AssembleAll(envs, opts)
	for _, e := range feedErrs {
		issues = append(issues, qerr.Issue{Severity: qerr.SeverityWarning, Area: "sysex", Message: e.Error()})
	}
	p, err := Decode(blocks)
	return p, issues, err
}

// Decode interprets already-reassembled per-AL blocks into a Pattern.
// blocks normally comes from sysex.Assembler.Blocks.
func Decode(blocks map[byte]*sysex.Block) (*pattern.Pattern, error) {
	p := pattern.New(pattern.SourceQY70)

	headerBlock, haveHeader := blocks[sysex.GlobalHeaderAL]
	var hdr Header
	isStyle := false
	if haveHeader {
		h, err := ParseHeader(headerBlock.Decoded)
		if err != nil {
			return nil, err
		}
		hdr = h
		isStyle = IsStyle(hdr.FormatMarker)

		if len(headerBlock.FirstRawEnc) >= 2 {
			bpm, err := DecodeTempo(headerBlock.FirstRawEnc[0], headerBlock.FirstRawEnc[1])
			if err == nil {
				p.TempoBPM = bpm
			}
		}
	}

	p.TimeSig = pattern.DefaultTimeSignature // Header.TimeSigByte has no confirmed mapping

	for i, kind := range pattern.QY70Sections {
		section := pattern.NewSection(kind, TracksPerSection)
		var sectionTrackBlocks [TracksPerSection]*sysex.Block

		if isStyle {
			base := byte(i * TracksPerSection)
			for t := 0; t < TracksPerSection; t++ {
				sectionTrackBlocks[t] = blocks[base+byte(t)]
			}
		} else if kind == pattern.MainA {
			for t := 0; t < TracksPerSection; t++ {
				sectionTrackBlocks[t] = blocks[byte(t)]
			}
		}

		any := false
		for t, blk := range sectionTrackBlocks {
			track := decodeTrack(t, blk)
			section.Tracks[t] = track
			if track.Enabled {
				any = true
			}
		}
		section.Enabled = any
		if any {
			// The first 16 bytes of a section's track-0 stream double as
			// its opaque configuration blob by convention.
			if blk := sectionTrackBlocks[0]; blk != nil && len(blk.Decoded) >= 16 {
				copy(section.ConfigBlock[:], blk.Decoded[:16])
			}
		}

		p.Sections[kind] = section
	}

	return p, nil
}

func decodeTrack(position int, blk *sysex.Block) *pattern.Track {
	track := pattern.NewTrack(position + 1)
	track.Name = pattern.NameForPosition(pattern.SourceQY70, position)

	if blk == nil || len(blk.Decoded) == 0 {
		track.Enabled = false
		return track
	}
	track.Enabled = true

	if len(blk.Decoded) >= TrackSubHeaderSize {
		sub, err := ParseTrackSubHeader(blk.Decoded)
		if err == nil {
			applySubHeader(track, sub)
		}
		track.Phrase = pattern.CloneBytes(blk.Decoded[TrackSubHeaderSize:])
	} else {
		track.Phrase = pattern.CloneBytes(blk.Decoded)
	}

	return track
}

func applySubHeader(track *pattern.Track, sub TrackSubHeader) {
	track.IsDrum = sub.IsDrum
	if !sub.IsDrum {
		track.NoteRange = &pattern.NoteRange{Low: sub.NoteLow, High: sub.NoteHigh}
	}
	if !sub.VoiceIsDefault {
		track.Voice = pattern.Voice{BankMSB: sub.BankMSB, Program: sub.Program}
	}
	if sub.PanExplicit {
		track.Mixer.Pan = sub.Pan
	} else {
		track.Mixer.Pan = pattern.PanCenter
	}
}

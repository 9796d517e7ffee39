// Package convert implements a bidirectional converter between the QY70
// wire format and the Q7P file format. Conversion failures are errors;
// known, documented information loss is reported as Warning values
// alongside a best-effort result, never as an error.
package convert

import (
	"github.com/qypat/qypat/pattern"
	"github.com/qypat/qypat/q7p"
	"github.com/qypat/qypat/qerr"
	"github.com/qypat/qypat/qlog"
	"github.com/qypat/qypat/qy70"
	"github.com/qypat/qypat/sysex"
)

// q7pSectionPhraseSlot is the per-section byte budget in the Q7P Phrase
// region: 0x360 + section_index*80, at most 80 bytes.
const q7pSectionPhraseSlot = 80

// Report supplements the warning list with tallies a CLI caller finds
// convenient: how many tracks or bytes a conversion dropped. It never
// changes the Warning kinds already reported — it is purely an
// additional summary of the same findings.
type Report struct {
	SectionsConverted int
	TracksDropped     int
	BytesTruncated    int
}

// Result is a converter's successful (possibly lossy) output.
type Result struct {
	Buf      []byte
	Warnings []qerr.Warning
	Report   Report
}

// QY70ToQ7P converts a QY70 SysEx bulk-dump stream into a Q7P buffer.
// template, when non-nil, is merged into exactly as q7p.Encode would
// use it; nil starts from the built-in minimal Q7P template.
func QY70ToQ7P(syx []byte, template []byte) (Result, error) {
	src, issues, err := qy70.DecodeBytes(syx, sysex.Options{}, qlog.New("convert"))
	if err != nil {
		return Result{}, err
	}
	for _, iss := range issues {
		if iss.Severity == qerr.SeverityError {
			return Result{}, &qerr.RegionOutOfBounds{Name: iss.Area}
		}
	}

	dst := pattern.New(pattern.SourceQ7P)
	dst.Name = pattern.PadName("NEW STYLE")
	dst.TempoBPM = src.TempoBPM
	dst.TimeSig = src.TimeSig

	var warnings []qerr.Warning
	var report Report

	for _, kind := range pattern.QY70Sections {
		srcSection := src.Sections[kind]
		dstSection := pattern.NewSection(kind, q7p.TracksPerSection)
		if srcSection == nil {
			dst.Sections[kind] = dstSection
			continue
		}
		dstSection.Enabled = srcSection.Enabled
		dstSection.ConfigBlock = srcSection.ConfigBlock

		if srcSection.Enabled {
			report.SectionsConverted++
		}

		var phrase []byte
		for t := 0; t < qy70.TracksPerSection && t < len(srcSection.Tracks); t++ {
			srcTrack := srcSection.Tracks[t]
			if srcTrack == nil {
				continue
			}
			dstTrack := dstSection.Tracks[t]
			dstTrack.Enabled = srcTrack.Enabled
			dstTrack.IsDrum = srcTrack.IsDrum
			dstTrack.Voice = srcTrack.Voice
			dstTrack.Mixer.Pan = srcTrack.Mixer.Pan
			if srcTrack.Enabled {
				phrase = append(phrase, srcTrack.Phrase...)
			}
		}

		if len(phrase) > 0 {
			if len(phrase) > q7pSectionPhraseSlot {
				report.BytesTruncated += len(phrase) - q7pSectionPhraseSlot
				warnings = append(warnings, qerr.Warning{
					Kind:    qerr.PhraseTruncated,
					Message: "section " + kind.String() + " phrase bytes exceed the 80-byte Q7P slot",
				})
				phrase = phrase[:q7pSectionPhraseSlot]
			}
			dstSection.Phrase = phrase
		}

		dst.Sections[kind] = dstSection
	}

	// Q7P's extended/reserved section kinds have no QY70 counterpart;
	// carry them as disabled, empty sections so Pattern.Validate's
	// per-format section count holds.
	for _, kind := range []pattern.SectionKind{
		pattern.MainC, pattern.MainD, pattern.Intro2, pattern.Ending2, pattern.Break,
		pattern.Reserved1, pattern.Reserved2, pattern.Reserved3, pattern.Reserved4, pattern.Reserved5,
	} {
		dst.Sections[kind] = pattern.NewSection(kind, q7p.TracksPerSection)
	}

	warnings = append(warnings, qerr.Warning{
		Kind:    qerr.MixerMappingUnknown,
		Message: "per-track volume/reverb/chorus have no known QY70 header offset; Q7P defaults were used",
	})

	buf := q7p.Encode(dst, template)
	return Result{Buf: buf, Warnings: warnings, Report: report}, nil
}

// Q7PToQY70 converts a Q7P buffer into a QY70 SysEx bulk-dump stream.
func Q7PToQY70(buf []byte) (Result, error) {
	src, err := q7p.Decode(buf)
	if err != nil {
		return Result{}, err
	}

	dst := pattern.New(pattern.SourceQY70)
	dst.TempoBPM = src.TempoBPM
	dst.TimeSig = src.TimeSig

	var warnings []qerr.Warning
	var report Report
	sawDroppedTracks := false

	for _, kind := range pattern.QY70Sections {
		srcSection := src.Sections[kind]
		dstSection := pattern.NewSection(kind, qy70.TracksPerSection)
		if srcSection == nil {
			dst.Sections[kind] = dstSection
			continue
		}
		dstSection.Enabled = srcSection.Enabled
		dstSection.ConfigBlock = srcSection.ConfigBlock
		if srcSection.Enabled {
			report.SectionsConverted++
		}

		for t := 0; t < qy70.TracksPerSection; t++ {
			srcTrack := srcSection.Tracks[t]
			if srcTrack == nil {
				continue
			}
			dstTrack := dstSection.Tracks[t]
			dstTrack.Enabled = srcTrack.Enabled
			dstTrack.IsDrum = srcTrack.IsDrum
			dstTrack.Voice = srcTrack.Voice
			if srcTrack.Mixer.Pan != pattern.PanCenter {
				dstTrack.Mixer.Pan = srcTrack.Mixer.Pan
			}
			// The per-track event bitstream cannot be re-synthesized from
			// Q7P phrase bytes; carry the section's own opaque phrase
			// bytes through as a best-effort stand-in.
			dstTrack.Phrase = append([]byte(nil), srcSection.Phrase...)
		}

		for t := qy70.TracksPerSection; srcSection.Enabled && t < len(srcSection.Tracks); t++ {
			if srcSection.Tracks[t] != nil && srcSection.Tracks[t].Enabled {
				sawDroppedTracks = true
				report.TracksDropped++
			}
		}

		dst.Sections[kind] = dstSection
	}

	if sawDroppedTracks {
		warnings = append(warnings, qerr.Warning{
			Kind:    qerr.Tracks9To16Dropped,
			Message: "tracks 9-16 have no QY70 equivalent and were dropped",
		})
	}
	warnings = append(warnings, qerr.Warning{
		Kind:    qerr.EventStreamCarriedThrough,
		Message: "sequence data may not be fully preserved: QY70 track streams were synthesized from Q7P section phrase bytes, not decoded event data",
	})

	wire, err := qy70.Encode(dst, nil, 0x00)
	if err != nil {
		return Result{}, err
	}

	return Result{Buf: wire, Warnings: warnings, Report: report}, nil
}

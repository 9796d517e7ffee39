package q7p

import (
	"bytes"
	"encoding/binary"

	"github.com/qypat/qypat/pattern"
	"github.com/qypat/qypat/qerr"
)

// Decode parses a Q7P buffer into a Pattern. buf is not retained
// directly, but its contents are copied into the returned Pattern's
// RawTemplate so that Encode can "copy-then-patch" rather than
// "zero-then-fill".
func Decode(buf []byte) (*pattern.Pattern, error) {
	if len(buf) != SmallSize && len(buf) != LargeSize {
		return nil, &qerr.UnexpectedSize{Got: len(buf), Want: SmallSize}
	}
	if !bytes.Equal(buf[OffHeader:OffHeader+len(Magic)], Magic) {
		return nil, &qerr.BadMagic{Got: append([]byte(nil), buf[OffHeader:OffHeader+len(Magic)]...)}
	}

	p := pattern.New(pattern.SourceQ7P)
	p.RawTemplate = append([]byte(nil), buf...)
	p.SlotNumber = int(buf[OffPatternNum])
	p.Flags = buf[OffFlags]

	tempoRaw := binary.BigEndian.Uint16(buf[OffTempoWord : OffTempoWord+2])
	p.TempoBPM = int(tempoRaw) / 10
	// The time-signature byte at OffTimeSig has no documented
	// numerator/denominator mapping, so it is only carried through in
	// RawTemplate (package validate checks it in the raw buffer) rather
	// than decoded into TimeSig here.
	p.TimeSig = pattern.DefaultTimeSignature

	bankMSB := buf[OffBankMSB : OffBankMSB+TracksPerSection]
	program := buf[OffProgram : OffProgram+TracksPerSection]
	bankLSB := buf[OffBankLSB : OffBankLSB+TracksPerSection]
	volume := buf[OffVolumeTable+tableArrayStart : OffVolumeTable+tableArrayStart+TracksPerSection]
	reverb := buf[OffReverbTable+tableArrayStart : OffReverbTable+tableArrayStart+TracksPerSection]
	pan := buf[OffPanTable+tableArrayStart : OffPanTable+tableArrayStart+TracksPerSection]
	channels := buf[OffChannels : OffChannels+TracksPerSection]
	enableMask := binary.BigEndian.Uint16(buf[offTrackEnable : offTrackEnable+2])

	for idx, kind := range sectionKindOrder {
		ptr := binary.BigEndian.Uint16(buf[OffSectionPtrs+idx*2 : OffSectionPtrs+idx*2+2])
		section := pattern.NewSection(kind, TracksPerSection)
		section.SetEnabledFromPointer(ptr)

		if idx < SectionDataCount {
			copy(section.ConfigBlock[:], buf[OffSectionData+idx*SectionDataSize:OffSectionData+idx*SectionDataSize+SectionDataSize])
			lo := OffPhrase + idx*phraseSlotSize
			hi := lo + phraseSlotSize
			if hi <= OffPhrase+PhraseRegionLen {
				section.Phrase = append([]byte(nil), buf[lo:hi]...)
			}
		}

		for t := 0; t < TracksPerSection; t++ {
			track := pattern.NewTrack(t + 1)
			track.Name = pattern.NameForPosition(pattern.SourceQ7P, t)
			track.Enabled = enableMask&(1<<uint(t)) != 0
			track.Voice = pattern.Voice{BankMSB: bankMSB[t], Program: program[t], BankLSB: bankLSB[t]}
			track.Mixer = pattern.Mixer{Volume: volume[t], Pan: pan[t], ReverbSend: reverb[t]}
			track.Channel = decodeChannel(channels[t], t)
			section.Tracks[t] = track
		}

		p.Sections[kind] = section
	}

	name := buf[OffName : OffName+NameFieldLen]
	p.Name = pattern.PadName(trimNameBytes(name))

	return p, nil
}

// decodeChannel applies the Q7P channel-byte rule: a nonzero byte is
// ch+1, a zero byte falls back to the per-position default.
func decodeChannel(raw byte, position int) int {
	if raw != 0 {
		return int(raw) + 1
	}
	if position < len(pattern.DefaultQ7PChannel) {
		return pattern.DefaultQ7PChannel[position]
	}
	return 1
}

func trimNameBytes(b []byte) string {
	end := len(b)
	for end > 0 && (b[end-1] == 0x00 || b[end-1] == 0x20) {
		end--
	}
	return string(b[:end])
}

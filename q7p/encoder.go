package q7p

import (
	"encoding/binary"

	"github.com/qypat/qypat/pattern"
)

// defaultVolume and defaultReverb are the minimal template's per-track
// mixer defaults (volume 100, reverb 40; pan uses pattern.PanCenter),
// and defaultName is its name.
const (
	defaultVolume = 100
	defaultReverb = 40
	defaultName   = "NEW STYLE "
)

// MinimalTemplate returns a freshly-built, valid empty Q7P buffer: magic
// set, every section pointer disabled, tempo 120, channels defaulted,
// mixer defaults applied, fillers filled, name "NEW STYLE ".
func MinimalTemplate() []byte {
	buf := make([]byte, SmallSize)
	copy(buf[OffHeader:], Magic)

	for i := 0; i < SectionPtrCount; i++ {
		binary.BigEndian.PutUint16(buf[OffSectionPtrs+i*2:], pattern.PointerDisabled)
	}

	binary.BigEndian.PutUint16(buf[OffTempoWord:], 1200)
	buf[OffTimeSig] = 0x0C

	for t := 0; t < TracksPerSection; t++ {
		buf[OffVolumeTable+tableArrayStart+t] = defaultVolume
		buf[OffReverbTable+tableArrayStart+t] = defaultReverb
		buf[OffPanTable+tableArrayStart+t] = pattern.PanCenter
	}

	copy(buf[OffName:OffName+NameFieldLen], pattern.PadName(defaultName))

	for i := OffFillArea; i < OffPadArea; i++ {
		buf[i] = FillByte
	}
	for i := OffPadArea; i < EndOfFile; i++ {
		buf[i] = PadByte
	}

	return buf
}

// Encode renders p back into a Q7P buffer. It starts from p.RawTemplate
// when one exists (the copy-then-patch base), then template if given,
// then a freshly-built MinimalTemplate — and patches only the fields the
// Pattern model represents, leaving every other byte untouched.
func Encode(p *pattern.Pattern, template []byte) []byte {
	var buf []byte
	switch {
	case len(p.RawTemplate) == SmallSize || len(p.RawTemplate) == LargeSize:
		buf = append([]byte(nil), p.RawTemplate...)
	case len(template) == SmallSize || len(template) == LargeSize:
		buf = append([]byte(nil), template...)
	default:
		buf = MinimalTemplate()
	}

	buf[OffPatternNum] = byte(p.SlotNumber)
	buf[OffFlags] = p.Flags
	binary.BigEndian.PutUint16(buf[OffTempoWord:], uint16(p.TempoBPM*10))

	name := pattern.PadName(p.Name)
	copy(buf[OffName:OffName+NameFieldLen], name)

	var enableMask uint16
	globalsWritten := false

	for idx, kind := range sectionKindOrder {
		section := p.Sections[kind]
		enabled := section != nil && section.Enabled

		if idx >= SectionDataCount {
			// No SectionData layout exists for the extended/reserved
			// kinds at this buffer size; their pointer bytes are left
			// exactly as the template had them.
			continue
		}

		if enabled {
			binary.BigEndian.PutUint16(buf[OffSectionPtrs+idx*2:], uint16(OffSectionData+idx*SectionDataSize))
		} else {
			binary.BigEndian.PutUint16(buf[OffSectionPtrs+idx*2:], pattern.PointerDisabled)
		}

		if section != nil {
			copy(buf[OffSectionData+idx*SectionDataSize:OffSectionData+idx*SectionDataSize+SectionDataSize], section.ConfigBlock[:])
			lo := OffPhrase + idx*phraseSlotSize
			hi := lo + phraseSlotSize
			if hi <= OffPhrase+PhraseRegionLen && len(section.Phrase) > 0 {
				n := copy(buf[lo:hi], section.Phrase)
				for i := lo + n; i < hi; i++ {
					buf[i] = 0x00
				}
			}
		}

		if !globalsWritten && enabled && section != nil {
			writeGlobalTrackTables(buf, section)
			globalsWritten = true
		}
		if section != nil {
			for t := 0; t < TracksPerSection && t < len(section.Tracks); t++ {
				if section.Tracks[t] != nil && section.Tracks[t].Enabled {
					enableMask |= 1 << uint(t)
				}
			}
		}
	}

	if !globalsWritten {
		writeGlobalTrackTables(buf, nil)
	}
	binary.BigEndian.PutUint16(buf[offTrackEnable:], enableMask)

	for i := OffFillArea; i < OffPadArea; i++ {
		buf[i] = FillByte
	}
	for i := OffPadArea; i < EndOfFile; i++ {
		buf[i] = PadByte
	}

	return buf
}

// writeGlobalTrackTables writes the 16-wide voice/mixer/channel tables
// that are shared across every section. source, when non-nil, supplies
// the per-position values; a nil position or source falls back to the
// encode-time defaults.
func writeGlobalTrackTables(buf []byte, source *pattern.Section) {
	for t := 0; t < TracksPerSection; t++ {
		var track *pattern.Track
		if source != nil && t < len(source.Tracks) {
			track = source.Tracks[t]
		}
		if track == nil {
			buf[OffBankMSB+t] = 0
			buf[OffProgram+t] = 0
			buf[OffBankLSB+t] = 0
			buf[OffVolumeTable+tableArrayStart+t] = defaultVolume
			buf[OffReverbTable+tableArrayStart+t] = defaultReverb
			buf[OffPanTable+tableArrayStart+t] = pattern.PanCenter
			buf[OffChannels+t] = 0
			continue
		}
		buf[OffBankMSB+t] = track.Voice.BankMSB
		buf[OffProgram+t] = track.Voice.Program
		buf[OffBankLSB+t] = track.Voice.BankLSB
		buf[OffVolumeTable+tableArrayStart+t] = track.Mixer.Volume
		buf[OffReverbTable+tableArrayStart+t] = track.Mixer.ReverbSend
		buf[OffPanTable+tableArrayStart+t] = track.Mixer.Pan
		buf[OffChannels+t] = encodeChannel(track.Channel, t)
	}
}

// encodeChannel inverts decodeChannel: a channel matching the
// per-position default encodes as 0x00 ("use default"), anything else
// as ch-1. Channel 1 therefore also encodes as 0x00 and decodes back as
// the position's default channel.
func encodeChannel(channel, position int) byte {
	if position < len(pattern.DefaultQ7PChannel) && channel == pattern.DefaultQ7PChannel[position] {
		return 0
	}
	if channel <= 0 {
		return 0
	}
	return byte(channel - 1)
}

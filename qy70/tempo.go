// Package qy70 interprets the per-AL decoded streams the sysex assembler
// produces into the neutral pattern model, and generates them back.
package qy70

import "github.com/qypat/qypat/qerr"

// TempoRangeMin and TempoRangeMax bound the QY70 wire tempo's range
// nibble.
const (
	TempoRangeMin = 1
	TempoRangeMax = 4
)

// TempoBPMMin and TempoBPMMax bound the representable QY70 tempo
// window: the usable BPM window is 57-279.
const (
	TempoBPMMin = 57
	TempoBPMMax = 279
)

// DecodeTempo converts the wire (range, offset) pair into BPM: bpm =
// range*95 - 133 + offset.
func DecodeTempo(rng, offset byte) (int, error) {
	if rng < TempoRangeMin || rng > TempoRangeMax {
		return 0, &qerr.TempoOutOfRange{Raw: int(rng)}
	}
	bpm := int(rng)*95 - 133 + int(offset)
	if bpm < TempoBPMMin || bpm > TempoBPMMax {
		return 0, &qerr.TempoOutOfRange{Raw: bpm}
	}
	return bpm, nil
}

// EncodeTempo picks the smallest valid range such that
// 0 <= bpm-(range*95-133) <= 94, and returns (range, offset).
func EncodeTempo(bpm int) (rng, offset byte, err error) {
	if bpm < TempoBPMMin || bpm > TempoBPMMax {
		return 0, 0, &qerr.TempoOutOfRange{Raw: bpm}
	}
	for r := TempoRangeMin; r <= TempoRangeMax; r++ {
		base := r*95 - 133
		off := bpm - base
		if off >= 0 && off <= 94 {
			return byte(r), byte(off), nil
		}
	}
	return 0, 0, &qerr.TempoOutOfRange{Raw: bpm}
}

// Package diff implements a Q7P differ: a region-grouped byte-level diff
// plus a handful of named structural comparisons.
package diff

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/qypat/qypat/q7p"
	"github.com/qypat/qypat/qerr"
)

// RegionDiff is one named region whose bytes differ between the two
// buffers.
type RegionDiff struct {
	Region      string
	FirstOffset int
	LastOffset  int
	PreviewA    []byte
	PreviewB    []byte
}

// FieldDiff is one named fixed-offset structural comparison.
type FieldDiff struct {
	Field  string
	Offset int
	A, B   string
}

// Result is the differ's output. Identical is true iff the two buffers
// compare byte-for-byte equal.
type Result struct {
	Identical       bool
	ByteDifferences int
	Regions         []RegionDiff
	Fields          []FieldDiff
}

const previewLen = 8

// Q7P compares two Q7P buffers. A size or magic mismatch on either
// buffer is reported as a single top-level error rather than a partial
// diff.
func Q7P(a, b []byte) (Result, error) {
	for _, buf := range [][]byte{a, b} {
		if len(buf) != q7p.SmallSize && len(buf) != q7p.LargeSize {
			return Result{}, &qerr.UnexpectedSize{Got: len(buf), Want: q7p.SmallSize}
		}
		if !bytes.Equal(buf[q7p.OffHeader:q7p.OffHeader+len(q7p.Magic)], q7p.Magic) {
			return Result{}, &qerr.BadMagic{Got: append([]byte(nil), buf[q7p.OffHeader:q7p.OffHeader+len(q7p.Magic)]...)}
		}
	}

	var r Result
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	diffCount := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			diffCount++
		}
	}
	diffCount += abs(len(a) - len(b))
	r.ByteDifferences = diffCount
	r.Identical = diffCount == 0

	for _, region := range q7p.Regions() {
		end := region.End
		if end > n {
			end = n
		}
		first, last := -1, -1
		for i := region.Start; i < end; i++ {
			if a[i] != b[i] {
				if first == -1 {
					first = i
				}
				last = i
			}
		}
		if first == -1 {
			continue
		}
		r.Regions = append(r.Regions, RegionDiff{
			Region:      region.Name,
			FirstOffset: first,
			LastOffset:  last,
			PreviewA:    previewAt(a, first),
			PreviewB:    previewAt(b, first),
		})
	}

	r.Fields = structuralDiffs(a, b)
	return r, nil
}

func structuralDiffs(a, b []byte) []FieldDiff {
	var out []FieldDiff

	nameA := string(a[q7p.OffName : q7p.OffName+q7p.NameFieldLen])
	nameB := string(b[q7p.OffName : q7p.OffName+q7p.NameFieldLen])
	if nameA != nameB {
		out = append(out, FieldDiff{Field: "Name", Offset: q7p.OffName, A: nameA, B: nameB})
	}

	tempoA := binary.BigEndian.Uint16(a[q7p.OffTempoWord : q7p.OffTempoWord+2])
	tempoB := binary.BigEndian.Uint16(b[q7p.OffTempoWord : q7p.OffTempoWord+2])
	if tempoA != tempoB {
		out = append(out, FieldDiff{
			Field: "Tempo", Offset: q7p.OffTempoWord,
			A: fmt.Sprintf("%.1f BPM", float64(tempoA)/10),
			B: fmt.Sprintf("%.1f BPM", float64(tempoB)/10),
		})
	}

	if a[q7p.OffPatternNum] != b[q7p.OffPatternNum] {
		out = append(out, FieldDiff{
			Field: "PatternNumber", Offset: q7p.OffPatternNum,
			A: fmt.Sprintf("%d", a[q7p.OffPatternNum]),
			B: fmt.Sprintf("%d", b[q7p.OffPatternNum]),
		})
	}

	return out
}

func previewAt(buf []byte, offset int) []byte {
	end := offset + previewLen
	if end > len(buf) {
		end = len(buf)
	}
	return append([]byte(nil), buf[offset:end]...)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

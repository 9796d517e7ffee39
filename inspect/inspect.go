// Package inspect computes per-region byte counts and density over a
// Q7P buffer, consumed by external hex-dump and visual-map renderers. It
// computes no byte histogram and never renders anything itself.
package inspect

import (
	"github.com/qypat/qypat/q7p"
	"github.com/qypat/qypat/qerr"
)

// RegionInfo is one named region's statistics.
type RegionInfo struct {
	Name            string
	Start, End      int
	Size            int
	NonzeroCount    int
	MeaningfulCount int
	Density         float64
}

// Regions returns per-region statistics for buf, in file order.
func Regions(buf []byte) ([]RegionInfo, error) {
	if len(buf) != q7p.SmallSize && len(buf) != q7p.LargeSize {
		return nil, &qerr.UnexpectedSize{Got: len(buf), Want: q7p.SmallSize}
	}

	var out []RegionInfo
	for _, region := range q7p.Regions() {
		end := region.End
		if end > len(buf) {
			end = len(buf)
		}
		size := end - region.Start
		nonzero, meaningful := 0, 0
		for i := region.Start; i < end; i++ {
			b := buf[i]
			if b != 0x00 {
				nonzero++
			}
			if !q7p.FillerBytes[b] {
				meaningful++
			}
		}
		density := 0.0
		if size > 0 {
			density = float64(meaningful) / float64(size)
		}
		out = append(out, RegionInfo{
			Name: region.Name, Start: region.Start, End: end, Size: size,
			NonzeroCount: nonzero, MeaningfulCount: meaningful, Density: density,
		})
	}
	return out, nil
}

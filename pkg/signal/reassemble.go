// ABOUTME: Reassembly of decoded chunk frames into one ordered table
// ABOUTME: Concatenates, windows and stable-sorts by identity key
package signal

import (
	"sort"

	"github.com/cerebra-health/cerebra-go/pkg/frame"
)

// Reassemble merges decoded chunk frames into a single table holding
// the rows with from <= time < to, stable-sorted by (study, channel
// group, segment, time). The frames themselves are key-ordered first,
// so a shuffled input produces an identical table. Returns nil when no
// rows fall inside the window; callers distinguish "no data" from
// failure because errors never reach this layer.
func Reassemble(frames []*frame.Frame, from, to float64) *frame.Frame {
	ordered := make([]*frame.Frame, 0, len(frames))
	for _, f := range frames {
		if f.NumRows() > 0 {
			ordered = append(ordered, f)
		}
	}
	if len(ordered) == 0 {
		return nil
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Rows[0].Less(ordered[j].Rows[0])
	})

	combined := frame.Concat(ordered...).FilterTime(from, to)
	if combined.NumRows() == 0 {
		return nil
	}
	combined.SortRows()
	return combined
}

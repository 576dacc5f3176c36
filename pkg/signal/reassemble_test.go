// ABOUTME: Tests for reassembly of decoded chunk frames
// ABOUTME: Verifies windowing, key ordering and input-order independence
package signal

import (
	"math/rand"
	"testing"

	"github.com/cerebra-health/cerebra-go/pkg/frame"
)

func chunkFrame(study, group, segment string, channels []string, start float64, values ...float32) *frame.Frame {
	f := frame.New(channels)
	for i, v := range values {
		row := frame.Row{
			Time:           start + float64(i),
			StudyID:        study,
			ChannelGroupID: group,
			SegmentID:      segment,
			Values:         make([]float32, len(channels)),
		}
		for c := range row.Values {
			row.Values[c] = v
		}
		f.Rows = append(f.Rows, row)
	}
	return f
}

func TestReassembleSortsByIdentityKey(t *testing.T) {
	frames := []*frame.Frame{
		chunkFrame("study-1", "group-2", "seg-1", []string{"X"}, 100, 1, 2),
		chunkFrame("study-1", "group-1", "seg-2", []string{"A"}, 50, 3),
		chunkFrame("study-1", "group-1", "seg-1", []string{"A"}, 200, 4),
		chunkFrame("study-1", "group-1", "seg-1", []string{"A"}, 0, 5, 6),
	}

	got := Reassemble(frames, 0, 1e12)
	if got.NumRows() != 6 {
		t.Fatalf("expected 6 rows, got %d", got.NumRows())
	}

	wantKeys := []struct {
		group, segment string
		time           float64
	}{
		{"group-1", "seg-1", 0},
		{"group-1", "seg-1", 1},
		{"group-1", "seg-1", 200},
		{"group-1", "seg-2", 50},
		{"group-2", "seg-1", 100},
		{"group-2", "seg-1", 101},
	}
	for i, w := range wantKeys {
		r := got.Rows[i]
		if r.ChannelGroupID != w.group || r.SegmentID != w.segment || r.Time != w.time {
			t.Errorf("row %d: expected (%s %s %v), got (%s %s %v)",
				i, w.group, w.segment, w.time, r.ChannelGroupID, r.SegmentID, r.Time)
		}
	}
}

func TestReassembleWindow(t *testing.T) {
	frames := []*frame.Frame{
		chunkFrame("study-1", "group-1", "seg-1", []string{"A"}, 0, 1, 2, 3, 4, 5),
	}

	got := Reassemble(frames, 1, 4)
	if got.NumRows() != 3 {
		t.Fatalf("expected rows in [1,4), got %d rows", got.NumRows())
	}
	if got.Rows[0].Time != 1 || got.Rows[2].Time != 3 {
		t.Errorf("window should be from-inclusive and to-exclusive, got times %v..%v",
			got.Rows[0].Time, got.Rows[2].Time)
	}
}

func TestReassembleEmpty(t *testing.T) {
	if got := Reassemble(nil, 0, 1e12); got != nil {
		t.Errorf("no frames should reassemble to nil, got %+v", got)
	}

	frames := []*frame.Frame{
		chunkFrame("study-1", "group-1", "seg-1", []string{"A"}, 0, 1, 2),
	}
	if got := Reassemble(frames, 500, 600); got != nil {
		t.Errorf("a window with no rows should reassemble to nil, got %+v", got)
	}
}

func TestReassembleInputOrderIndependent(t *testing.T) {
	build := func() []*frame.Frame {
		return []*frame.Frame{
			chunkFrame("study-1", "group-1", "seg-1", []string{"A", "B"}, 0, 1, 2),
			chunkFrame("study-1", "group-1", "seg-1", []string{"A", "B"}, 2, 3),
			chunkFrame("study-1", "group-2", "seg-2", []string{"X"}, 10, 4),
			chunkFrame("study-2", "group-1", "seg-3", []string{"A", "B"}, 5, 6),
		}
	}

	want := Reassemble(build(), 0, 1e12)
	if want.NumRows() != 5 {
		t.Fatalf("expected 5 rows, got %d", want.NumRows())
	}

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		frames := build()
		rng.Shuffle(len(frames), func(i, j int) {
			frames[i], frames[j] = frames[j], frames[i]
		})
		got := Reassemble(frames, 0, 1e12)
		if !got.Equal(want) {
			t.Fatalf("trial %d: shuffled input produced a different table", trial)
		}
	}
}

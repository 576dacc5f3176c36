// ABOUTME: Tests for the frame table type
// ABOUTME: Covers column order, concat union, filtering, sorting and CSV output
package frame

import (
	"math"
	"strings"
	"testing"
)

func TestColumnsOrder(t *testing.T) {
	f := New([]string{"Fp1", "Fp2"})
	want := []string{"time", "id", "channelGroups.id", "segments.id", "Fp1", "Fp2"}
	got := f.Columns()
	if len(got) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestColumnsNilFrame(t *testing.T) {
	var f *Frame
	got := f.Columns()
	if len(got) != 4 {
		t.Fatalf("nil frame should expose the 4 identity columns, got %v", got)
	}
}

func TestConcatSameColumns(t *testing.T) {
	a := &Frame{
		ChannelNames: []string{"ch1"},
		Rows:         []Row{{Time: 0, StudyID: "s", Values: []float32{1}}},
	}
	b := &Frame{
		ChannelNames: []string{"ch1"},
		Rows:         []Row{{Time: 1, StudyID: "s", Values: []float32{2}}},
	}

	got := Concat(a, b)
	if got.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", got.NumRows())
	}
	if got.Rows[0].Values[0] != 1 || got.Rows[1].Values[0] != 2 {
		t.Errorf("rows not concatenated in input order: %+v", got.Rows)
	}
}

func TestConcatUnionFillsNaN(t *testing.T) {
	a := &Frame{
		ChannelNames: []string{"ch1"},
		Rows:         []Row{{Time: 0, StudyID: "s", Values: []float32{1}}},
	}
	b := &Frame{
		ChannelNames: []string{"ch2"},
		Rows:         []Row{{Time: 1, StudyID: "s", Values: []float32{2}}},
	}

	got := Concat(a, b)
	if got == nil {
		t.Fatal("expected a frame")
	}
	if len(got.ChannelNames) != 2 || got.ChannelNames[0] != "ch1" || got.ChannelNames[1] != "ch2" {
		t.Fatalf("expected union columns [ch1 ch2], got %v", got.ChannelNames)
	}
	if got.Rows[0].Values[0] != 1 {
		t.Errorf("row 0 ch1: expected 1, got %v", got.Rows[0].Values[0])
	}
	if !math.IsNaN(float64(got.Rows[0].Values[1])) {
		t.Errorf("row 0 ch2 should be NaN, got %v", got.Rows[0].Values[1])
	}
	if !math.IsNaN(float64(got.Rows[1].Values[0])) {
		t.Errorf("row 1 ch1 should be NaN, got %v", got.Rows[1].Values[0])
	}
	if got.Rows[1].Values[1] != 2 {
		t.Errorf("row 1 ch2: expected 2, got %v", got.Rows[1].Values[1])
	}
}

func TestConcatNothing(t *testing.T) {
	if got := Concat(); got != nil {
		t.Errorf("concat of nothing should be nil, got %+v", got)
	}
	if got := Concat(nil, New([]string{"ch1"})); got != nil {
		t.Errorf("concat of nil and empty should be nil, got %+v", got)
	}
}

func TestFilterTimeHalfOpen(t *testing.T) {
	f := &Frame{
		ChannelNames: []string{"ch1"},
		Rows: []Row{
			{Time: 10, Values: []float32{0}},
			{Time: 20, Values: []float32{0}},
			{Time: 30, Values: []float32{0}},
		},
	}

	got := f.FilterTime(20, 30)
	if got.NumRows() != 1 {
		t.Fatalf("expected 1 row in [20,30), got %d", got.NumRows())
	}
	if got.Rows[0].Time != 20 {
		t.Errorf("expected the row at t=20 (from is inclusive), got t=%v", got.Rows[0].Time)
	}

	if got := f.FilterTime(31, 40); got != nil {
		t.Errorf("empty filter result should be nil, got %+v", got)
	}
}

func TestSortRowsKeyOrder(t *testing.T) {
	f := &Frame{
		ChannelNames: []string{"ch1"},
		Rows: []Row{
			{Time: 5, StudyID: "b", ChannelGroupID: "g1", SegmentID: "s1", Values: []float32{0}},
			{Time: 9, StudyID: "a", ChannelGroupID: "g2", SegmentID: "s1", Values: []float32{0}},
			{Time: 1, StudyID: "a", ChannelGroupID: "g2", SegmentID: "s1", Values: []float32{0}},
			{Time: 3, StudyID: "a", ChannelGroupID: "g1", SegmentID: "s2", Values: []float32{0}},
			{Time: 7, StudyID: "a", ChannelGroupID: "g1", SegmentID: "s1", Values: []float32{0}},
		},
	}
	f.SortRows()

	type key struct {
		study, group, segment string
		time                  float64
	}
	want := []key{
		{"a", "g1", "s1", 7},
		{"a", "g1", "s2", 3},
		{"a", "g2", "s1", 1},
		{"a", "g2", "s1", 9},
		{"b", "g1", "s1", 5},
	}
	for i, w := range want {
		r := f.Rows[i]
		if r.StudyID != w.study || r.ChannelGroupID != w.group || r.SegmentID != w.segment || r.Time != w.time {
			t.Errorf("row %d: expected %+v, got (%s %s %s %v)", i, w, r.StudyID, r.ChannelGroupID, r.SegmentID, r.Time)
		}
	}
}

func TestEqual(t *testing.T) {
	nan := float32(math.NaN())
	a := &Frame{ChannelNames: []string{"ch1"}, Rows: []Row{{Time: 1, Values: []float32{nan}}}}
	b := &Frame{ChannelNames: []string{"ch1"}, Rows: []Row{{Time: 1, Values: []float32{nan}}}}

	if !a.Equal(b) {
		t.Error("frames with identical rows (including NaN) should be equal")
	}

	b.Rows[0].Values[0] = 2
	if a.Equal(b) {
		t.Error("frames with different values should not be equal")
	}

	var nilFrame *Frame
	if nilFrame.Equal(a) {
		t.Error("nil frame should not equal a non-nil frame")
	}
	if !nilFrame.Equal(nil) {
		t.Error("two nil frames should be equal")
	}
}

func TestChannelColumn(t *testing.T) {
	f := &Frame{
		ChannelNames: []string{"ch1", "ch2"},
		Rows: []Row{
			{Time: 0, Values: []float32{1, 10}},
			{Time: 1, Values: []float32{2, 20}},
		},
	}

	col, ok := f.Channel("ch2")
	if !ok {
		t.Fatal("expected ch2 to exist")
	}
	if col[0] != 10 || col[1] != 20 {
		t.Errorf("unexpected ch2 column: %v", col)
	}

	if _, ok := f.Channel("missing"); ok {
		t.Error("missing channel should report ok=false")
	}
}

func TestWriteCSV(t *testing.T) {
	f := &Frame{
		ChannelNames: []string{"ch1", "ch2"},
		Rows: []Row{
			{Time: 1000, StudyID: "study", ChannelGroupID: "grp", SegmentID: "seg", Values: []float32{0.5, -1}},
		},
	}

	var sb strings.Builder
	if err := f.WriteCSV(&sb); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	want := "time,id,channelGroups.id,segments.id,ch1,ch2\n" +
		"1000,study,grp,seg,0.5,-1\n"
	if sb.String() != want {
		t.Errorf("unexpected CSV output:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestWriteCSVNilFrame(t *testing.T) {
	var f *Frame
	var sb strings.Builder
	if err := f.WriteCSV(&sb); err != nil {
		t.Fatalf("WriteCSV on nil frame failed: %v", err)
	}
	if sb.String() != "time,id,channelGroups.id,segments.id\n" {
		t.Errorf("nil frame should write only the identity header, got %q", sb.String())
	}
}

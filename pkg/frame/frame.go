// ABOUTME: Column-ordered table of decoded channel samples
// ABOUTME: Supports concatenation, time filtering, key sorting and CSV output
package frame

import (
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"
)

// Identity column labels shared by every frame. Channel columns follow
// these four in the order the channel group declares them.
const (
	ColTime           = "time"
	ColStudyID        = "id"
	ColChannelGroupID = "channelGroups.id"
	ColSegmentID      = "segments.id"
)

// Row is one time-step of decoded samples together with its identity.
type Row struct {
	Time           float64 // epoch milliseconds
	StudyID        string
	ChannelGroupID string
	SegmentID      string
	Values         []float32 // one entry per frame channel, NaN when absent
}

// Frame is a table of decoded samples: one row per time-step, one value
// column per channel. A nil *Frame means "no data" and is safe to query.
type Frame struct {
	ChannelNames []string
	Rows         []Row
}

// New returns an empty frame with the given channel columns.
func New(channelNames []string) *Frame {
	return &Frame{ChannelNames: append([]string(nil), channelNames...)}
}

// Columns returns the column labels: the four identity columns followed
// by the channel names.
func (f *Frame) Columns() []string {
	var names []string
	if f != nil {
		names = f.ChannelNames
	}
	cols := make([]string, 0, 4+len(names))
	cols = append(cols, ColTime, ColStudyID, ColChannelGroupID, ColSegmentID)
	cols = append(cols, names...)
	return cols
}

// NumRows returns the number of rows. Safe on a nil frame.
func (f *Frame) NumRows() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// Times returns a copy of the time column.
func (f *Frame) Times() []float64 {
	if f == nil {
		return nil
	}
	out := make([]float64, len(f.Rows))
	for i, r := range f.Rows {
		out[i] = r.Time
	}
	return out
}

// Channel returns a copy of one channel column by name.
func (f *Frame) Channel(name string) ([]float32, bool) {
	if f == nil {
		return nil, false
	}
	col := -1
	for i, n := range f.ChannelNames {
		if n == name {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, false
	}
	out := make([]float32, len(f.Rows))
	for i, r := range f.Rows {
		if col < len(r.Values) {
			out[i] = r.Values[col]
		}
	}
	return out, true
}

// Concat merges frames into one table. Channel columns are the union of
// the input columns in first-seen order; rows that lack a channel carry
// NaN in that column. Nil and empty frames are skipped; if nothing
// remains the result is nil.
func Concat(frames ...*Frame) *Frame {
	var names []string
	index := make(map[string]int)
	total := 0
	for _, f := range frames {
		if f.NumRows() == 0 {
			continue
		}
		total += len(f.Rows)
		for _, name := range f.ChannelNames {
			if _, ok := index[name]; !ok {
				index[name] = len(names)
				names = append(names, name)
			}
		}
	}
	if total == 0 {
		return nil
	}

	out := &Frame{ChannelNames: names, Rows: make([]Row, 0, total)}
	for _, f := range frames {
		if f.NumRows() == 0 {
			continue
		}
		if sameColumns(f.ChannelNames, names) {
			out.Rows = append(out.Rows, f.Rows...)
			continue
		}
		for _, r := range f.Rows {
			values := make([]float32, len(names))
			for i := range values {
				values[i] = float32(math.NaN())
			}
			for i, name := range f.ChannelNames {
				if i < len(r.Values) {
					values[index[name]] = r.Values[i]
				}
			}
			r.Values = values
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FilterTime returns a frame holding the rows with from <= time < to,
// or nil when no rows remain.
func (f *Frame) FilterTime(from, to float64) *Frame {
	if f.NumRows() == 0 {
		return nil
	}
	kept := make([]Row, 0, len(f.Rows))
	for _, r := range f.Rows {
		if r.Time >= from && r.Time < to {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return &Frame{ChannelNames: f.ChannelNames, Rows: kept}
}

// SortRows stable-sorts rows by (study, channel group, segment, time).
func (f *Frame) SortRows() {
	if f.NumRows() < 2 {
		return
	}
	sort.SliceStable(f.Rows, func(i, j int) bool {
		return f.Rows[i].Less(f.Rows[j])
	})
}

// Less orders rows by (study, channel group, segment, time).
func (r Row) Less(o Row) bool {
	if r.StudyID != o.StudyID {
		return r.StudyID < o.StudyID
	}
	if r.ChannelGroupID != o.ChannelGroupID {
		return r.ChannelGroupID < o.ChannelGroupID
	}
	if r.SegmentID != o.SegmentID {
		return r.SegmentID < o.SegmentID
	}
	return r.Time < o.Time
}

// Equal reports whether two frames hold identical columns and rows.
// Values compare by bit pattern, so NaN fill values compare equal.
func (f *Frame) Equal(o *Frame) bool {
	if f == nil || o == nil {
		return f == nil && o == nil
	}
	if !sameColumns(f.ChannelNames, o.ChannelNames) || len(f.Rows) != len(o.Rows) {
		return false
	}
	for i := range f.Rows {
		a, b := f.Rows[i], o.Rows[i]
		if math.Float64bits(a.Time) != math.Float64bits(b.Time) ||
			a.StudyID != b.StudyID ||
			a.ChannelGroupID != b.ChannelGroupID ||
			a.SegmentID != b.SegmentID ||
			len(a.Values) != len(b.Values) {
			return false
		}
		for j := range a.Values {
			if math.Float32bits(a.Values[j]) != math.Float32bits(b.Values[j]) {
				return false
			}
		}
	}
	return true
}

// WriteCSV writes the frame as CSV with a header row. Times keep full
// float64 precision; sample values are written at float32 precision.
// A nil frame writes only the header.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns()); err != nil {
		return err
	}
	if f != nil {
		record := make([]string, 0, 4+len(f.ChannelNames))
		for _, r := range f.Rows {
			record = record[:0]
			record = append(record,
				strconv.FormatFloat(r.Time, 'f', -1, 64),
				r.StudyID, r.ChannelGroupID, r.SegmentID)
			for _, v := range r.Values {
				record = append(record, strconv.FormatFloat(float64(v), 'g', -1, 32))
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

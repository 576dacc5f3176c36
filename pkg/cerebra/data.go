// ABOUTME: Channel-data orchestration from metadata rows to a frame
// ABOUTME: Groups rows into segments, dispatches chunks, reassembles
package cerebra

import (
	"context"

	"github.com/cerebra-health/cerebra-go/pkg/frame"
	"github.com/cerebra-health/cerebra-go/pkg/signal"
)

// ChannelData downloads the data described by the metadata rows and
// reassembles it into one frame restricted to [from, to). Times are
// epoch milliseconds.
//
// Rows are grouped by segment; each segment's rows must cover every
// channel of its channel group, because chunk payloads interleave all
// of them. Narrow a download by dropping whole channel groups from
// rows, not single channels.
//
// Rows with an empty BaseDataChunkURL get their URL resolved first.
// Segments the platform no longer reports are skipped. The result is
// nil when nothing in the window decoded.
func (c *Client) ChannelData(ctx context.Context, rows []MetadataRow, from, to float64) (*frame.Frame, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	segments := segmentsFromRows(rows)

	var unresolved []string
	for _, seg := range segments {
		if seg.BaseURL == "" {
			unresolved = append(unresolved, seg.ID)
		}
	}
	if len(unresolved) > 0 {
		urls, err := c.SegmentURLs(ctx, unresolved)
		if err != nil {
			return nil, err
		}
		for i := range segments {
			if segments[i].BaseURL == "" {
				segments[i].BaseURL = urls[segments[i].ID]
			}
		}
	}

	tasks := signal.Tasks(segments, from, to, c.log)
	frames := c.fetcher.Dispatch(ctx, tasks, c.cfg.DownloadConcurrency)
	return signal.Reassemble(frames, from, to), nil
}

// segmentsFromRows groups rows by segment ID in first-seen order and
// builds the download unit for each.
func segmentsFromRows(rows []MetadataRow) []signal.Segment {
	grouped := make(map[string][]MetadataRow)
	var order []string
	for _, row := range rows {
		if _, ok := grouped[row.SegmentID]; !ok {
			order = append(order, row.SegmentID)
		}
		grouped[row.SegmentID] = append(grouped[row.SegmentID], row)
	}

	segments := make([]signal.Segment, 0, len(order))
	for _, id := range order {
		segRows := grouped[id]
		first := segRows[0]
		segments = append(segments, signal.Segment{
			StudyID:        first.StudyID,
			ChannelGroupID: first.ChannelGroupID,
			ID:             id,
			StartTime:      first.SegmentStartTime,
			Duration:       first.SegmentDuration,
			BaseURL:        first.BaseDataChunkURL,
			Descriptor:     GroupDescriptor(segRows),
		})
	}
	return segments
}

// GroupDescriptor builds the decode descriptor for rows sharing a
// channel group: sampling parameters from the first row, channel names
// resolved with the ID fallback. Export writers use it for headers.
func GroupDescriptor(rows []MetadataRow) signal.Descriptor {
	if len(rows) == 0 {
		return signal.Descriptor{}
	}
	first := rows[0]
	return signal.Descriptor{
		SampleEncoding:   first.SampleEncoding,
		Compression:      first.Compression,
		SampleRate:       first.SampleRate,
		SamplesPerRecord: first.SamplesPerRecord,
		RecordsPerChunk:  first.RecordsPerChunk,
		SignalMin:        first.SignalMin,
		SignalMax:        first.SignalMax,
		Exponent:         first.Exponent,
		Units:            first.Units,
		Channels:         ChannelNamesOrIDs(rows),
	}
}

// ChannelNamesOrIDs returns the unique channel names across the rows
// in first-seen order, substituting the channel ID when a name is
// empty or shared by more than one channel.
func ChannelNamesOrIDs(rows []MetadataRow) []string {
	var unique []MetadataRow
	seen := make(map[string]bool)
	counts := make(map[string]int)
	for _, row := range rows {
		if seen[row.ChannelID] {
			continue
		}
		seen[row.ChannelID] = true
		unique = append(unique, row)
		counts[row.ChannelName]++
	}

	names := make([]string, len(unique))
	for i, row := range unique {
		if row.ChannelName == "" || counts[row.ChannelName] > 1 {
			names[i] = row.ChannelID
		} else {
			names[i] = row.ChannelName
		}
	}
	return names
}

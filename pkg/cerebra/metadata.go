// ABOUTME: Study metadata queries and the row flattening they feed
// ABOUTME: Implements Studies, StudyMetadata, MetadataRows and SegmentURLs
package cerebra

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	defaultStudyPageSize = 50
	segmentURLBatchSize  = 10000
)

// Studies returns every study matching the search term, paging through
// the results. An empty search term matches everything. pageSize is
// the batch size per request; 0 means the default of 50.
func (c *Client) Studies(ctx context.Context, search string, pageSize int) ([]Study, error) {
	if pageSize <= 0 {
		pageSize = defaultStudyPageSize
	}

	var studies []Study
	req := c.request(studiesQuery, map[string]any{"searchTerm": search})
	err := c.gql.DoPaginated(ctx, req, pageSize, func(data json.RawMessage) (int, error) {
		var page struct {
			Studies []Study `json:"studies"`
		}
		if err := json.Unmarshal(data, &page); err != nil {
			return 0, fmt.Errorf("decode studies page: %w", err)
		}
		studies = append(studies, page.Studies...)
		return len(page.Studies), nil
	})
	if err != nil {
		return nil, err
	}
	return studies, nil
}

// StudyMetadata returns the study's full channel-group tree: every
// group with its sampling parameters, segments and channels.
func (c *Client) StudyMetadata(ctx context.Context, studyID string) (*Study, error) {
	var out struct {
		Study *Study `json:"study"`
	}
	err := c.gql.Do(ctx, c.request(studyMetadataQuery, map[string]any{"id": studyID}), &out)
	if err != nil {
		return nil, err
	}
	if out.Study == nil {
		return nil, fmt.Errorf("study %q not found", studyID)
	}
	return out.Study, nil
}

// MetadataRows flattens a study tree into one row per channel of each
// segment of each channel group. Channel names are kept as reported;
// ChannelData falls back to channel IDs where names are empty or
// ambiguous.
func MetadataRows(study *Study) []MetadataRow {
	if study == nil {
		return nil
	}
	var rows []MetadataRow
	for _, group := range study.ChannelGroups {
		for _, segment := range group.Segments {
			for _, channel := range group.Channels {
				rows = append(rows, MetadataRow{
					StudyID:          study.ID,
					StudyName:        study.Name,
					ChannelGroupID:   group.ID,
					ChannelGroupName: group.Name,
					SegmentID:        segment.ID,
					SegmentStartTime: segment.StartTime,
					SegmentDuration:  segment.Duration,
					SampleRate:       group.SampleRate,
					SamplesPerRecord: group.SamplesPerRecord,
					RecordsPerChunk:  group.RecordsPerChunk,
					SampleEncoding:   group.SampleEncoding,
					Compression:      group.Compression,
					SignalMin:        group.SignalMin,
					SignalMax:        group.SignalMax,
					Units:            group.Units,
					Exponent:         group.Exponent,
					ChannelID:        channel.ID,
					ChannelName:      channel.Name,
				})
			}
		}
	}
	return rows
}

// SegmentURLs resolves the chunk URL template for each segment ID,
// batching requests. Segments the platform does not report (expired,
// deleted) are absent from the result.
func (c *Client) SegmentURLs(ctx context.Context, segmentIDs []string) (map[string]string, error) {
	urls := make(map[string]string, len(segmentIDs))
	for start := 0; start < len(segmentIDs); start += segmentURLBatchSize {
		end := start + segmentURLBatchSize
		if end > len(segmentIDs) {
			end = len(segmentIDs)
		}

		var out struct {
			Segments []struct {
				ID               string `json:"id"`
				BaseDataChunkURL string `json:"baseDataChunkUrl"`
			} `json:"studyChannelGroupSegments"`
		}
		req := c.request(segmentURLsQuery, map[string]any{"segmentIds": segmentIDs[start:end]})
		if err := c.gql.Do(ctx, req, &out); err != nil {
			return nil, err
		}
		for _, seg := range out.Segments {
			// The platform returns null entries for unknown IDs.
			if seg.ID != "" {
				urls[seg.ID] = seg.BaseDataChunkURL
			}
		}
	}
	return urls, nil
}

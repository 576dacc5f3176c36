// ABOUTME: Chunk URL derivation from segment metadata and templated base URLs
// ABOUTME: Expands segments into the fixed task order the dispatcher consumes
package signal

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"

	"go.uber.org/zap"
)

// chunkField matches the zero-padded numeric chunk field in a base URL,
// e.g. ".../00000000000.dat?X-Signature=...".
var chunkField = regexp.MustCompile(`(\d+)\.dat`)

// DeriveChunkRefs expands a segment's templated base URL into one ref
// per chunk overlapping the window [from, to] (epoch ms). A segment
// without a resolved base URL yields no refs and no error. A malformed
// template, or a chunk index that does not fit the template's digit
// field, fails the whole segment with a DerivationError.
func DeriveChunkRefs(seg Segment, from, to float64) ([]ChunkRef, error) {
	if seg.BaseURL == "" {
		return nil, nil
	}

	loc := chunkField.FindStringSubmatchIndex(seg.BaseURL)
	if loc == nil {
		return nil, &DerivationError{SegmentID: seg.ID, Reason: "base url has no numeric chunk field"}
	}
	width := loc[3] - loc[2]
	prefix := seg.BaseURL[:loc[2]]
	suffix := seg.BaseURL[loc[3]:]

	periodMs := seg.Descriptor.ChunkPeriod() * 1000
	if periodMs <= 0 || math.IsNaN(periodMs) || math.IsInf(periodMs, 0) {
		return nil, &DerivationError{SegmentID: seg.ID, Reason: "chunk period is not positive"}
	}

	numChunks := int(math.Ceil(seg.Duration / periodMs))
	var refs []ChunkRef
	for i := 0; i < numChunks; i++ {
		start := seg.StartTime + float64(i)*periodMs
		if start > to {
			break
		}
		if start+periodMs < from {
			continue
		}
		if len(strconv.Itoa(i)) > width {
			return nil, &DerivationError{
				SegmentID: seg.ID,
				Reason:    fmt.Sprintf("chunk index %d exceeds the %d-digit url field", i, width),
			}
		}
		refs = append(refs, ChunkRef{
			Index:     i,
			URL:       fmt.Sprintf("%s%0*d%s", prefix, width, i, suffix),
			StartTime: start,
		})
	}
	return refs, nil
}

// Tasks expands segments into chunk tasks in the fixed submission order
// the dispatcher relies on: segments deduplicated and sorted by
// (study, channel group, segment id), chunks by index. Segments that
// cannot be derived are logged and skipped; their chunks never reach
// the dispatcher.
func Tasks(segments []Segment, from, to float64, log *zap.Logger) []Task {
	if log == nil {
		log = zap.NewNop()
	}

	ordered := make([]Segment, 0, len(segments))
	seen := make(map[string]bool, len(segments))
	for _, seg := range segments {
		key := seg.StudyID + "\x00" + seg.ChannelGroupID + "\x00" + seg.ID
		if seen[key] {
			continue
		}
		seen[key] = true
		ordered = append(ordered, seg)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.StudyID != b.StudyID {
			return a.StudyID < b.StudyID
		}
		if a.ChannelGroupID != b.ChannelGroupID {
			return a.ChannelGroupID < b.ChannelGroupID
		}
		return a.ID < b.ID
	})

	var tasks []Task
	for _, seg := range ordered {
		if err := seg.Descriptor.Validate(); err != nil {
			log.Warn("skipping segment with unusable metadata",
				zap.String("study", seg.StudyID),
				zap.String("channel_group", seg.ChannelGroupID),
				zap.String("segment", seg.ID),
				zap.Error(err))
			continue
		}
		refs, err := DeriveChunkRefs(seg, from, to)
		if err != nil {
			log.Warn("skipping segment",
				zap.String("study", seg.StudyID),
				zap.String("channel_group", seg.ChannelGroupID),
				zap.String("segment", seg.ID),
				zap.Error(err))
			continue
		}
		end := seg.StartTime + seg.Duration
		for _, ref := range refs {
			tasks = append(tasks, Task{
				StudyID:        seg.StudyID,
				ChannelGroupID: seg.ChannelGroupID,
				SegmentID:      seg.ID,
				ChunkIndex:     ref.Index,
				URL:            ref.URL,
				StartTime:      ref.StartTime,
				SegmentEnd:     end,
				Descriptor:     seg.Descriptor,
			})
		}
	}
	return tasks
}

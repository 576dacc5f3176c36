// ABOUTME: Platform object types returned by metadata and label queries
// ABOUTME: Mirrors the GraphQL schema plus the flattened metadata row
package cerebra

// Study is a recording study with its channel-group tree. Queries that
// do not select the full tree leave the nested slices empty.
type Study struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Patient       *Patient       `json:"patient,omitempty"`
	ChannelGroups []ChannelGroup `json:"channelGroups,omitempty"`
}

// Patient identifies the study subject.
type Patient struct {
	ID   string `json:"id"`
	User *User  `json:"user,omitempty"`
}

// User is the platform account behind a patient or label author.
type User struct {
	FullName string `json:"fullName"`
}

// ChannelGroup is one acquisition group: a set of channels recorded
// with the same sampling parameters, split into segments on disk.
type ChannelGroup struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	SampleRate       float64   `json:"sampleRate"`
	SamplesPerRecord int       `json:"samplesPerRecord"`
	RecordsPerChunk  int       `json:"recordsPerChunk"`
	ChunkPeriod      float64   `json:"chunkPeriod"`
	SampleEncoding   string    `json:"sampleEncoding"`
	Compression      string    `json:"compression"`
	SignalMin        float64   `json:"signalMin"`
	SignalMax        float64   `json:"signalMax"`
	Units            string    `json:"units"`
	Exponent         float64   `json:"exponent"`
	Segments         []Segment `json:"segments"`
	Channels         []Channel `json:"channels"`
}

// Segment is one contiguous stretch of recorded data.
type Segment struct {
	ID        string  `json:"id"`
	StartTime float64 `json:"startTime"`
	Duration  float64 `json:"duration"`
}

// Channel is a single recorded signal, e.g. one electrode.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MetadataRow is the flattened form of the study metadata tree: one
// row per channel of each segment of each channel group. This is the
// unit ChannelData consumes; slice a set of rows to choose what to
// download.
type MetadataRow struct {
	StudyID          string
	StudyName        string
	ChannelGroupID   string
	ChannelGroupName string
	SegmentID        string
	SegmentStartTime float64
	SegmentDuration  float64
	SampleRate       float64
	SamplesPerRecord int
	RecordsPerChunk  int
	SampleEncoding   string
	Compression      string
	SignalMin        float64
	SignalMax        float64
	Units            string
	Exponent         float64
	ChannelID        string
	ChannelName      string

	// BaseDataChunkURL is the segment's chunk URL template. Left
	// empty by MetadataRows; filled by SegmentURLs or on demand by
	// ChannelData.
	BaseDataChunkURL string
}

// LabelGroup is a named set of annotations on a study.
type LabelGroup struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	LabelType   string  `json:"labelType,omitempty"`
	Description string  `json:"description,omitempty"`
	Labels      []Label `json:"labels,omitempty"`
}

// Label is one annotation: a point or span on the study timeline.
type Label struct {
	ID         string      `json:"id"`
	Note       string      `json:"note,omitempty"`
	StartTime  float64     `json:"startTime"`
	Duration   float64     `json:"duration"`
	Timezone   float64     `json:"timezone,omitempty"`
	CreatedBy  *User       `json:"createdBy,omitempty"`
	CreatedAt  string      `json:"createdAt,omitempty"`
	UpdatedAt  string      `json:"updatedAt,omitempty"`
	Tags       []Tag       `json:"tags,omitempty"`
	LabelGroup *LabelGroup `json:"labelGroup,omitempty"`
}

// NewLabel is the input for AddLabels. Times are epoch milliseconds,
// duration is milliseconds, timezone is an offset from UTC in hours.
type NewLabel struct {
	Note       string   `json:"note,omitempty"`
	StartTime  float64  `json:"startTime"`
	Duration   float64  `json:"duration"`
	Timezone   float64  `json:"timezone,omitempty"`
	TagIDs     []string `json:"tagIds,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Tag attaches a typed marker to a label.
type Tag struct {
	ID      string   `json:"id"`
	TagType *TagType `json:"tagType,omitempty"`
}

// TagType describes a tag's category and value.
type TagType struct {
	ID       string       `json:"id"`
	Value    string       `json:"value"`
	Category *TagCategory `json:"category,omitempty"`
}

// TagCategory groups related tag types.
type TagCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ABOUTME: The download subcommand: channel data to CSV or EDF files
// ABOUTME: Writes one file per channel group that has data in the window
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"

	"github.com/cerebra-health/cerebra-go/pkg/cerebra"
	"github.com/cerebra-health/cerebra-go/pkg/export"
)

// downloadJob is one resolved download request: a study, a time window
// in epoch milliseconds and an output format.
type downloadJob struct {
	Study  string
	From   float64
	To     float64
	Format string
	Gzip   bool
}

// newDownloadJob validates one download request, resolving times and
// defaulting the format to CSV.
func newDownloadJob(study, from, to, format string, gzip bool) (downloadJob, error) {
	job := downloadJob{Study: study, Gzip: gzip}
	var err error
	if job.From, err = parseTime(from, 0); err != nil {
		return job, err
	}
	if job.To, err = parseTime(to, defaultToTime); err != nil {
		return job, err
	}
	switch format {
	case "", "csv":
		job.Format = "csv"
	case "edf":
		job.Format = "edf"
	default:
		return job, fmt.Errorf("unknown format %q (want csv or edf)", format)
	}
	return job, nil
}

func runDownload(args []string) int {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	study := fs.String("study", "", "Study ID to download (required unless -manifest)")
	from := fs.String("from", "", "Window start, epoch ms or RFC 3339 (default: start of recording)")
	to := fs.String("to", "", "Window end, epoch ms or RFC 3339 (default: end of recording)")
	format := fs.String("format", "csv", "Output format: csv or edf")
	gzipOut := fs.Bool("gzip", false, "Compress CSV output")
	manifestPath := fs.String("manifest", "", "YAML manifest of download jobs (replaces -study/-from/-to/-format)")
	outDir := fs.String("out", ".", "Output directory")
	verbose := fs.Bool("verbose", false, "Debug logging")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: cerebra-dl download [options]

Download the channel data of one study, or of every study listed in a
YAML manifest, writing one CSV or EDF file per channel group.

Options:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	var jobs []downloadJob
	if *manifestPath != "" {
		var err error
		if jobs, err = loadManifest(*manifestPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
	} else {
		if *study == "" {
			fmt.Fprintln(os.Stderr, "Error: -study or -manifest is required")
			fs.Usage()
			return ExitInvalidArgs
		}
		job, err := newDownloadJob(*study, *from, *to, *format, *gzipOut)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
		jobs = []downloadJob{job}
	}

	ctx, cancel := signalContext()
	defer cancel()

	client, log, code := setup(*verbose)
	if code != ExitSuccess {
		return code
	}
	defer log.Sync()

	if err := client.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitAuthError
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitExportError
	}
	bucket, err := fileblob.OpenBucket(*outDir, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitExportError
	}
	defer bucket.Close()

	failed := 0
	for _, job := range jobs {
		if err := downloadStudy(ctx, client, bucket, *outDir, job); err != nil {
			fmt.Fprintf(os.Stderr, "Error: study %s: %v\n", job.Study, err)
			failed++
		}
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "[cerebra-dl] %d of %d jobs failed\n", failed, len(jobs))
		return ExitGeneralError
	}
	return ExitSuccess
}

// downloadStudy fetches the study tree and exports each channel group
// that has data in the job's window.
func downloadStudy(ctx context.Context, client *cerebra.Client, bucket *blob.Bucket, outDir string, job downloadJob) error {
	study, err := client.StudyMetadata(ctx, job.Study)
	if err != nil {
		return err
	}
	rows := cerebra.MetadataRows(study)
	if len(rows) == 0 {
		return fmt.Errorf("study has no channel data")
	}

	patient := ""
	if study.Patient != nil && study.Patient.User != nil {
		patient = study.Patient.User.FullName
	}

	byGroup, order := groupRows(rows)
	for _, groupID := range order {
		groupRows := byGroup[groupID]
		data, err := client.ChannelData(ctx, groupRows, job.From, job.To)
		if err != nil {
			return fmt.Errorf("channel group %s: %w", groupID, err)
		}
		if data.NumRows() == 0 {
			fmt.Fprintf(os.Stderr, "[cerebra-dl] %s: no data in window\n", exportName(study, groupRows[0]))
			continue
		}

		base := exportName(study, groupRows[0])
		var name string
		switch job.Format {
		case "edf":
			name = filepath.Join(outDir, base+".edf")
			err = export.WriteEDF(name, data, cerebra.GroupDescriptor(groupRows), export.EDFConfig{
				PatientID:   patient,
				RecordingID: study.Name,
			})
		default:
			key := base + ".csv"
			if job.Gzip {
				key += ".gz"
			}
			name = filepath.Join(outDir, key)
			err = export.WriteCSV(ctx, bucket, key, data)
		}
		if err != nil {
			return fmt.Errorf("channel group %s: %w", groupID, err)
		}
		fmt.Fprintf(os.Stderr, "[cerebra-dl] wrote %s (%d rows)\n", name, data.NumRows())
	}
	return nil
}

// groupRows splits metadata rows by channel group in first-seen order.
func groupRows(rows []cerebra.MetadataRow) (map[string][]cerebra.MetadataRow, []string) {
	grouped := make(map[string][]cerebra.MetadataRow)
	var order []string
	for _, row := range rows {
		if _, ok := grouped[row.ChannelGroupID]; !ok {
			order = append(order, row.ChannelGroupID)
		}
		grouped[row.ChannelGroupID] = append(grouped[row.ChannelGroupID], row)
	}
	return grouped, order
}

// exportName builds a filesystem-safe base name for one channel
// group's output file.
func exportName(study *cerebra.Study, row cerebra.MetadataRow) string {
	name := study.Name
	if name == "" {
		name = study.ID
	}
	group := row.ChannelGroupName
	if group == "" {
		group = row.ChannelGroupID
	}
	return sanitize(name) + "_" + sanitize(group)
}

var nameSanitizer = strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "_")

// sanitize keeps a display name usable as a single path element.
func sanitize(s string) string {
	return nameSanitizer.Replace(s)
}

// ABOUTME: YAML batch manifest for the download subcommand
// ABOUTME: Lists per-study jobs with time windows and output format
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// manifest is the on-disk shape of a batch download file:
//
//	jobs:
//	  - study: study-id
//	    from: "2026-01-01T00:00:00Z"
//	    to: "2026-01-02T00:00:00Z"
//	    format: edf
type manifest struct {
	Jobs []manifestJob `yaml:"jobs"`
}

type manifestJob struct {
	Study  string `yaml:"study"`
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Format string `yaml:"format"`
	Gzip   bool   `yaml:"gzip"`
}

// loadManifest reads a YAML manifest and resolves it into download
// jobs, validating each entry.
func loadManifest(path string) ([]downloadJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(m.Jobs) == 0 {
		return nil, fmt.Errorf("%s lists no jobs", path)
	}

	jobs := make([]downloadJob, 0, len(m.Jobs))
	for i, mj := range m.Jobs {
		if mj.Study == "" {
			return nil, fmt.Errorf("%s: job %d has no study", path, i+1)
		}
		job, err := newDownloadJob(mj.Study, mj.From, mj.To, mj.Format, mj.Gzip)
		if err != nil {
			return nil, fmt.Errorf("%s: job %d: %w", path, i+1, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// ABOUTME: Package documentation for frame exporters
// ABOUTME: EDF files via OpenPSG/edf, CSV objects via gocloud.dev blob buckets
// Package export writes downloaded frames to external formats.
//
// WriteEDF turns one channel group's frame into an EDF file, deriving
// the signal headers from the group descriptor. WriteCSV writes a
// frame of any shape to a gocloud.dev blob bucket, gzip-compressed
// when the key ends in ".gz".
//
// Example:
//
//	desc := cerebra.GroupDescriptor(rows)
//	err := export.WriteEDF("night1.edf", data, desc, export.EDFConfig{
//		PatientID: "study-123",
//	})
package export

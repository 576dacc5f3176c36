// ABOUTME: Package documentation for the frame table type
// ABOUTME: Frames hold one row per time-step with identity and channel columns
// Package frame defines the tabular result type produced by decoding
// channel-data chunks.
//
// A Frame has four identity columns (time, id, channelGroups.id,
// segments.id) followed by one column per channel. Frames from
// different channel groups can be concatenated: the channel columns
// become the union of the inputs and missing values are NaN.
//
// A nil *Frame is the "no data" result and is safe to query.
//
// Example:
//
//	combined := frame.Concat(frames...)
//	combined.SortRows()
//	err := combined.WriteCSV(os.Stdout)
package frame

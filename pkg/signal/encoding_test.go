// ABOUTME: Tests for the sample encoding registry
// ABOUTME: Verifies digital ranges, little-endian reads and sign extension
package signal

import (
	"errors"
	"testing"
)

func TestEncodingDigitalRanges(t *testing.T) {
	tests := []struct {
		name string
		min  int64
		max  int64
	}{
		{"int8", -128, 127},
		{"int16", -32768, 32767},
		{"int32", -2147483648, 2147483647},
		{"int64", -9223372036854775808, 9223372036854775807},
	}

	for _, tt := range tests {
		enc, err := EncodingByName(tt.name)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got := enc.DigitalMin(); got != tt.min {
			t.Errorf("%s: expected digital min %d, got %d", tt.name, tt.min, got)
		}
		if got := enc.DigitalMax(); got != tt.max {
			t.Errorf("%s: expected digital max %d, got %d", tt.name, tt.max, got)
		}
	}
}

func TestEncodingByNameUnknown(t *testing.T) {
	_, err := EncodingByName("float32")
	if err == nil {
		t.Fatal("expected an error for an unknown encoding")
	}
	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected an EncodingError, got %T", err)
	}
	if encErr.Encoding != "float32" {
		t.Errorf("expected the error to carry the encoding name, got %q", encErr.Encoding)
	}
}

func TestSampleReadsLittleEndian(t *testing.T) {
	enc16, _ := EncodingByName("int16")
	buf := []byte{0xFF, 0x7F, 0x00, 0x80}
	if got := enc16.Sample(buf, 0); got != 32767 {
		t.Errorf("int16 sample 0: expected 32767, got %d", got)
	}
	if got := enc16.Sample(buf, 1); got != -32768 {
		t.Errorf("int16 sample 1: expected -32768, got %d", got)
	}

	enc8, _ := EncodingByName("int8")
	if got := enc8.Sample([]byte{0x80}, 0); got != -128 {
		t.Errorf("int8: expected -128, got %d", got)
	}

	enc32, _ := EncodingByName("int32")
	if got := enc32.Sample([]byte{0xFF, 0xFF, 0xFF, 0x7F}, 0); got != 2147483647 {
		t.Errorf("int32: expected 2147483647, got %d", got)
	}

	enc64, _ := EncodingByName("int64")
	buf64 := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80}
	if got := enc64.Sample(buf64, 0); got != -9223372036854775808 {
		t.Errorf("int64: expected math.MinInt64, got %d", got)
	}
}

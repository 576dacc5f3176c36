// ABOUTME: Sample encoding registry for chunk payloads
// ABOUTME: Maps metadata encoding names to fixed-width little-endian signed integers
package signal

import "encoding/binary"

// Encoding describes one fixed-width signed integer sample type.
// Samples are stored little-endian.
type Encoding struct {
	Name  string
	Width int // bytes per sample
}

var encodings = map[string]Encoding{
	"int8":  {Name: "int8", Width: 1},
	"int16": {Name: "int16", Width: 2},
	"int32": {Name: "int32", Width: 4},
	"int64": {Name: "int64", Width: 8},
}

// EncodingByName resolves a sampleEncoding value from channel-group
// metadata. Unknown names return an EncodingError.
func EncodingByName(name string) (Encoding, error) {
	enc, ok := encodings[name]
	if !ok {
		return Encoding{}, &EncodingError{Encoding: name}
	}
	return enc, nil
}

// DigitalMin returns the smallest representable raw sample value.
func (e Encoding) DigitalMin() int64 {
	return -1 << (8*e.Width - 1)
}

// DigitalMax returns the largest representable raw sample value.
func (e Encoding) DigitalMax() int64 {
	return 1<<(8*e.Width-1) - 1
}

// Sample reads the i-th sample from buf as a sign-extended int64.
func (e Encoding) Sample(buf []byte, i int) int64 {
	off := i * e.Width
	switch e.Width {
	case 1:
		return int64(int8(buf[off]))
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(buf[off:])))
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(buf[off:])))
	default:
		return int64(binary.LittleEndian.Uint64(buf[off:]))
	}
}

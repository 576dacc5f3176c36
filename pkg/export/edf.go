// ABOUTME: EDF export of decoded channel-group frames
// ABOUTME: Maps group descriptors onto EDF signal headers via OpenPSG/edf
package export

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/OpenPSG/edf"

	"github.com/cerebra-health/cerebra-go/pkg/frame"
	"github.com/cerebra-health/cerebra-go/pkg/signal"
)

// EDFConfig carries the header fields that frame data cannot supply.
type EDFConfig struct {
	// PatientID fills the EDF patient identification field.
	PatientID string

	// RecordingID fills the EDF recording identification field.
	RecordingID string

	// Units overrides the physical dimension taken from the descriptor.
	Units string
}

// WriteEDF writes one channel group's frame to path as an EDF file.
//
// The descriptor supplies the signal layout: channel order, sampling
// rate, record size and the digital-to-physical calibration. Every
// descriptor channel must be a frame column. Rows are written as one
// continuous recording starting at the first row's time; gaps between
// segments are not represented. The tail of the last record, and any
// NaN values, are written as the physical minimum, the platform's
// missing-data value.
//
// EDF stores 16-bit samples, so wider encodings are quantized to the
// int16 range over the same physical span.
func WriteEDF(path string, f *frame.Frame, desc signal.Descriptor, cfg EDFConfig) error {
	if f.NumRows() == 0 {
		return fmt.Errorf("nothing to export")
	}
	if err := desc.Validate(); err != nil {
		return err
	}
	enc, err := signal.EncodingByName(desc.SampleEncoding)
	if err != nil {
		return err
	}

	cols := make([][]float32, len(desc.Channels))
	for i, name := range desc.Channels {
		col, ok := f.Channel(name)
		if !ok {
			return fmt.Errorf("frame has no channel %q", name)
		}
		cols[i] = col
	}

	physMin, physMax := physicalRange(desc)
	digMin, digMax := digitalRange(enc)
	units := cfg.Units
	if units == "" {
		units = desc.Units
	}

	sigs := make([]edf.SignalHeader, len(desc.Channels))
	for i, name := range desc.Channels {
		sigs[i] = edf.SignalHeader{
			Label:             name,
			PhysicalDimension: dimension(units, desc.Exponent),
			PhysicalMin:       physMin,
			PhysicalMax:       physMax,
			DigitalMin:        digMin,
			DigitalMax:        digMax,
			SamplesPerRecord:  desc.SamplesPerRecord,
		}
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	w, err := edf.Create(file, edf.Header{
		Version:            edf.Version0,
		PatientID:          cfg.PatientID,
		RecordingID:        cfg.RecordingID,
		StartTime:          time.UnixMilli(int64(f.Rows[0].Time)).UTC(),
		DataRecordDuration: recordDuration(desc),
		SignalCount:        len(sigs),
		Signals:            sigs,
	})
	if err != nil {
		file.Close()
		return fmt.Errorf("write edf header: %w", err)
	}

	spr := desc.SamplesPerRecord
	records := (len(f.Rows) + spr - 1) / spr
	record := make([][]float64, len(cols))
	for c := range record {
		record[c] = make([]float64, spr)
	}
	for r := 0; r < records; r++ {
		for c, col := range cols {
			for s := 0; s < spr; s++ {
				i := r*spr + s
				v := physMin
				if i < len(col) && !math.IsNaN(float64(col[i])) {
					v = float64(col[i])
				}
				record[c][s] = v
			}
		}
		if err := w.WriteRecord(record); err != nil {
			file.Close()
			return fmt.Errorf("write edf record %d: %w", r, err)
		}
	}

	if err := w.Close(); err != nil {
		file.Close()
		return fmt.Errorf("finalize edf header: %w", err)
	}
	return file.Close()
}

// physicalRange returns the physical bounds of decoded values: the
// descriptor's signal range with its exponent applied.
func physicalRange(d signal.Descriptor) (float64, float64) {
	exp := math.Pow(10, d.Exponent)
	return d.SignalMin * exp, d.SignalMax * exp
}

// digitalRange clamps the encoding's raw range to EDF's 16-bit samples.
func digitalRange(enc signal.Encoding) (int, int) {
	lo, hi := enc.DigitalMin(), enc.DigitalMax()
	if lo < math.MinInt16 {
		lo = math.MinInt16
	}
	if hi > math.MaxInt16 {
		hi = math.MaxInt16
	}
	return int(lo), int(hi)
}

// recordDuration returns the time span one data record covers.
func recordDuration(d signal.Descriptor) time.Duration {
	return time.Duration(float64(d.SamplesPerRecord) / d.SampleRate * float64(time.Second))
}

// dimension labels the physical unit: explicit units when known,
// otherwise a label derived from the power-of-10 exponent.
func dimension(units string, exponent float64) string {
	if units != "" {
		return units
	}
	switch exponent {
	case 0:
		return "V"
	case -3:
		return "mV"
	case -6:
		return "uV"
	case -9:
		return "nV"
	}
	return fmt.Sprintf("1e%d V", int(exponent))
}

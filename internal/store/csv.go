package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"dayselect-dr/internal/model"
)

// ReadSamplesCSV loads meter samples from a CSV dump with a
// customer_id,timestamp,kw header. Timestamps are RFC3339.
func ReadSamplesCSV(path string) ([]model.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeSamplesCSV(f)
}

func DecodeSamplesCSV(r io.Reader) ([]model.Sample, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) < 3 || header[0] != "customer_id" || header[1] != "timestamp" || header[2] != "kw" {
		return nil, fmt.Errorf("unexpected CSV header %v, expected customer_id,timestamp,kw", header)
	}

	var out []model.Sample
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ts, err := time.Parse(time.RFC3339, rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid timestamp %q: %w", line, rec[1], err)
		}
		kw, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid kw %q: %w", line, rec[2], err)
		}
		out = append(out, model.Sample{CustomerID: rec[0], Timestamp: ts, KW: kw})
	}
	return out, nil
}

// WriteSamplesCSV writes samples in the format ReadSamplesCSV accepts.
func WriteSamplesCSV(path string, samples []model.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"customer_id", "timestamp", "kw"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			s.CustomerID,
			s.Timestamp.Format(time.RFC3339),
			strconv.FormatFloat(s.KW, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

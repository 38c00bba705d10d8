package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// ReadCSV loads a frame from a headered CSV file. A file holding only a
// header row yields an empty frame; a zero-byte file yields a frame
// with no columns.
func ReadCSV(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}

	f := New(header...)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		f.AppendRow(record...)
	}
	return f, nil
}

// WriteCSV persists the frame. The full file content is assembled in
// memory first and written to the final path in one call, so readers
// never observe a partially written dataset.
func (f *Frame) WriteCSV(path string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(f.cols); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	for _, row := range f.rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("encode row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadPartitions loads every *.csv file directly under dir, in
// lexicographic filename order so repeated runs see partitions in the
// same order. The returned names parallel the frames.
func ReadPartitions(dir string) ([]*Frame, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".csv" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	frames := make([]*Frame, 0, len(names))
	for _, name := range names {
		f, err := ReadCSV(filepath.Join(dir, name))
		if err != nil {
			return nil, nil, err
		}
		frames = append(frames, f)
	}
	return frames, names, nil
}

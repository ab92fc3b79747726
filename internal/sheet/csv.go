package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// CSVStore is the flat-file backend for single-host deploys. The file's
// first row is the header; rows shorter than the header read back with empty
// trailing cells. An upsert that introduces new columns rewrites the whole
// file with the widened header.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) LoadAll(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, records, err := s.read()
	return records, err
}

func (s *CSVStore) Upsert(ctx context.Context, key string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, records, err := s.read()
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range records {
		if existing[ColHospitalName] == key {
			records[i] = rec.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec.Clone())
	}
	return s.write(records)
}

func (s *CSVStore) read() ([]string, []Record, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open sheet file: %w", errors.Join(ErrUnavailable, err))
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet header: %w", err)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read sheet row: %w", err)
		}
		rec := make(Record, len(header))
		for i, col := range header {
			if i < len(row) && row[i] != "" {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}
	return header, records, nil
}

// write replaces the file atomically: the widened header and every row go to
// a sibling temp file which is renamed over the original.
func (s *CSVStore) write(records []Record) error {
	header := Headers(records)

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".sheet-*.csv")
	if err != nil {
		return fmt.Errorf("create sheet temp file: %w", errors.Join(ErrUnavailable, err))
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write sheet header: %w", errors.Join(ErrUnavailable, err))
	}
	for _, rec := range records {
		row := make([]string, len(header))
		for i, col := range header {
			row[i] = rec[col]
		}
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write sheet row: %w", errors.Join(ErrUnavailable, err))
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush sheet file: %w", errors.Join(ErrUnavailable, err))
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close sheet temp file: %w", errors.Join(ErrUnavailable, err))
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace sheet file: %w", errors.Join(ErrUnavailable, err))
	}
	return nil
}

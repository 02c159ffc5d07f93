package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"liquidityPool/internal/model"
)

// JsonlStorage appends operation records to a JSONL file.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutOperationBatch appends a batch of records as JSON lines.
func (s *JsonlStorage) PutOperationBatch(_ context.Context, records []model.OperationRecord) error {
	if len(records) == 0 {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create journal dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open journal file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal operation record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write operation record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush journal: %w", err)
	}

	return nil
}

// ReadOperations loads every record from a JSONL journal.
func ReadOperations(path string) ([]model.OperationRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var records []model.OperationRecord
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record model.OperationRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("decode journal line %d: %w", len(records)+1, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan journal: %w", err)
	}
	return records, nil
}

// Multi fans a batch out to several sinks, stopping at the first error.
type Multi []Storage

func (m Multi) PutOperationBatch(ctx context.Context, records []model.OperationRecord) error {
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.PutOperationBatch(ctx, records); err != nil {
			return err
		}
	}
	return nil
}

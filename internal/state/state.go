// Package state persists engine and custody snapshots between CLI runs.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"liquidityPool/internal/model"
)

// Store loads and saves the full snapshot.
type Store interface {
	Load(ctx context.Context) (model.Snapshot, bool, error)
	Save(ctx context.Context, snap model.Snapshot) error
	Close() error
}

// FileStore stores the snapshot in a local JSON file.
type FileStore struct {
	Path string
}

func (s *FileStore) Load(ctx context.Context) (model.Snapshot, bool, error) {
	if s == nil || s.Path == "" {
		return model.Snapshot{}, false, nil
	}
	stat, err := os.Stat(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Snapshot{}, false, nil
		}
		return model.Snapshot{}, false, fmt.Errorf("stat state: %w", err)
	}
	if stat.IsDir() {
		return model.Snapshot{}, false, fmt.Errorf("state path is a directory")
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return model.Snapshot{}, false, fmt.Errorf("read state: %w", err)
	}
	snap, err := decode(data)
	if err != nil {
		return model.Snapshot{}, false, err
	}
	return snap, true, nil
}

func (s *FileStore) Save(ctx context.Context, snap model.Snapshot) error {
	if s == nil || s.Path == "" {
		return nil
	}
	dir := filepath.Dir(s.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	data, err := encode(snap)
	if err != nil {
		return err
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state tmp: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func encode(snap model.Snapshot) ([]byte, error) {
	snap.SavedAt = time.Now().UTC().Format(time.RFC3339Nano)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return data, nil
}

func decode(data []byte) (model.Snapshot, error) {
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("parse state: %w", err)
	}
	return snap, nil
}

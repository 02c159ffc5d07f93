package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"

	"liquidityPool/internal/model"
)

var snapshotKey = []byte("amm/snapshot")

// LevelStore keeps the snapshot in a LevelDB database.
type LevelStore struct {
	db *leveldb.DB
}

// OpenLevelStore creates or opens a LevelDB database at path.
func OpenLevelStore(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}
	return &LevelStore{db: db}, nil
}

func (s *LevelStore) Load(ctx context.Context) (model.Snapshot, bool, error) {
	data, err := s.db.Get(snapshotKey, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return model.Snapshot{}, false, nil
		}
		return model.Snapshot{}, false, fmt.Errorf("read state: %w", err)
	}
	snap, err := decode(data)
	if err != nil {
		return model.Snapshot{}, false, err
	}
	return snap, true, nil
}

func (s *LevelStore) Save(ctx context.Context, snap model.Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}
	if err := s.db.Put(snapshotKey, data, nil); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func (s *LevelStore) Close() error {
	return s.db.Close()
}

// Open returns the store for backend ("file" or "leveldb") rooted at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", "file":
		return &FileStore{Path: path}, nil
	case "leveldb":
		return OpenLevelStore(path)
	default:
		return nil, fmt.Errorf("unknown state backend %q", backend)
	}
}

// Package snapshot persists the whole directory as a single blob and
// restores it verbatim, identity included: relationships are stored as
// IDs, so a course's teacher is the same record after a round-trip.
package snapshot

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
)

type Store struct {
	path string
	db   *inmemdb.DB
}

func NewStore(conf *core.Config, db *inmemdb.DB) *Store {
	return &Store{path: conf.SnapshotPath, db: db}
}

// Load replaces the DB state with the persisted snapshot. A missing or
// unreadable file leaves the DB untouched; the caller reports it as a
// warning and keeps running on whatever state it already has.
func (s *Store) Load() error {
	file, err := os.Open(s.path)
	if err != nil {
		return errors.Wrap(err, "opening snapshot")
	}
	defer func() { _ = file.Close() }()

	var snap inmemdb.Snapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return errors.Wrap(err, "decoding snapshot")
	}
	s.db.Restore(snap)
	return nil
}

// Save writes the full DB state to the snapshot file. The blob is
// written to a temp file first and renamed into place so a failed save
// leaves the previous snapshot intact.
func (s *Store) Save() error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating snapshot temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := gob.NewEncoder(tmp).Encode(s.db.Dump()); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "encoding snapshot")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing snapshot temp file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "replacing snapshot")
	}
	return nil
}

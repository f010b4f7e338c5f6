package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/lennartvogel/foldview/pkg/errors"
)

// FileStore keeps one JSON file per model under a directory. File names are
// derived from a SHA-256 hash of the model ID, so arbitrary IDs never hit
// filesystem naming rules. Writes go through a temp file and rename so
// concurrent readers never see a torn document.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store in dir, creating the directory
// if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create store directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Get reads the model's constraint set, or nil, nil when absent. A corrupt
// file counts as absent and is removed.
func (s *FileStore) Get(ctx context.Context, modelID string) (*ConstraintSet, error) {
	path := s.path(modelID)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read constraints for %s", modelID)
	}
	var cs ConstraintSet
	if err := json.Unmarshal(data, &cs); err != nil {
		_ = os.Remove(path)
		return nil, nil
	}
	return &cs, nil
}

// Put writes the set to its file.
func (s *FileStore) Put(ctx context.Context, cs *ConstraintSet) error {
	if err := validateSet(cs); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cs, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode constraints for %s", cs.ModelID)
	}
	path := s.path(cs.ModelID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write constraints for %s", cs.ModelID)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write constraints for %s", cs.ModelID)
	}
	return nil
}

// Delete removes the model's file if present.
func (s *FileStore) Delete(ctx context.Context, modelID string) error {
	err := os.Remove(s.path(modelID))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStore, err, "delete constraints for %s", modelID)
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(modelID string) string {
	sum := sha256.Sum256([]byte(modelID))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)

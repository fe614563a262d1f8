package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"akinator/internal/domain/kb"
	appErrors "akinator/internal/errors"
)

// FileKnowledgeStore keeps the knowledge base in a single text file.
type FileKnowledgeStore struct {
	path string
	log  *zap.SugaredLogger
}

func NewFileKnowledgeStore(path string, log *zap.SugaredLogger) *FileKnowledgeStore {
	return &FileKnowledgeStore{path: path, log: log}
}

func (f *FileKnowledgeStore) Describe() string {
	return "file " + f.path
}

func (f *FileKnowledgeStore) Load(ctx context.Context) (kb.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return kb.Snapshot{}, appErrors.ErrBaseNotFound
	}
	if err != nil {
		return kb.Snapshot{}, fmt.Errorf("read %s: %w", f.path, err)
	}

	snapshot := kb.Snapshot{ID: f.path, Text: string(data)}
	if info, err := os.Stat(f.path); err == nil {
		snapshot.SavedAt = info.ModTime()
	}
	return snapshot, nil
}

// Save writes to a temporary file next to the target and renames it over,
// so a failed write never truncates the previous base.
func (f *FileKnowledgeStore) Save(ctx context.Context, snapshot kb.Snapshot) (err error) {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.WriteString(snapshot.Text); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}

	f.log.Infow("knowledge base written", "path", f.path, "bytes", len(snapshot.Text))
	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/playperu/crocodile/internal/crocodile"
)

// FileStore keeps the state document in a JSON file.
type FileStore struct {
	path string
	opts options
}

func NewFileStore(path string, opts ...Option) *FileStore {
	return &FileStore{path: path, opts: newOptions(opts)}
}

// BackupPath is where a corrupted document is archived before reset.
func (s *FileStore) BackupPath() string {
	return s.path + ".bak"
}

func (s *FileStore) Load(ctx context.Context) (crocodile.State, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.opts.logger.Info("store file not found, creating new database", "path", s.path)
		return s.reset(ctx)
	}
	if err != nil {
		return crocodile.State{}, fmt.Errorf("reading store: %w", err)
	}

	st, err := decodeState(raw, s.opts.defaultFilter)
	if err == nil {
		s.opts.logger.Info("store loaded", "path", s.path, "users", len(st.Users), "guilds", len(st.Guilds))
		return st, nil
	}

	s.opts.logger.Warn("store corrupted, archiving and starting empty",
		"path", s.path,
		"backup", s.BackupPath(),
		"error", err,
	)
	if err := os.WriteFile(s.BackupPath(), raw, 0o644); err != nil {
		return crocodile.State{}, fmt.Errorf("archiving corrupted store: %w", err)
	}
	return s.reset(ctx)
}

func (s *FileStore) reset(ctx context.Context) (crocodile.State, error) {
	st := crocodile.NewState()
	if err := s.Commit(ctx, st); err != nil {
		return crocodile.State{}, err
	}
	return st, nil
}

// Commit overwrites the document through a temp file and a rename, so a
// crash mid-write leaves the previous document intact.
func (s *FileStore) Commit(_ context.Context, st crocodile.State) error {
	data, err := encodeState(st)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("committing store: %w", err)
	}
	return nil
}

func (s *FileStore) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

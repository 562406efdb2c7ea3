// Package storage implements the filesystem-backed document store.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schemeseva/scheme-service/internal/apperr"
	"github.com/schemeseva/scheme-service/internal/interfaces"
)

const stagingDir = ".staging"

// DocumentPath builds the deterministic storage path for one uploaded
// file. The extension comes from the original filename, falling back
// to "bin". applicationNo is the caller-supplied unique identifier, so
// the path is collision-free across requests.
func DocumentPath(userID, schemeID uint, fieldName, applicationNo, originalFilename string) string {
	ext := strings.TrimPrefix(filepath.Ext(originalFilename), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("applications/user_%d/scheme_%d/%s_%s.%s", userID, schemeID, fieldName, applicationNo, ext)
}

type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("media root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, stagingDir), 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

func (s *LocalStore) Stage(fieldName, originalFilename string, content []byte) (*interfaces.StagedDocument, error) {
	f, err := os.CreateTemp(filepath.Join(s.root, stagingDir), "doc-*")
	if err != nil {
		return nil, fmt.Errorf("%w: stage %s: %v", apperr.ErrStorage, fieldName, err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("%w: stage %s: %v", apperr.ErrStorage, fieldName, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("%w: stage %s: %v", apperr.ErrStorage, fieldName, err)
	}

	return &interfaces.StagedDocument{
		FieldName:        fieldName,
		OriginalFilename: originalFilename,
		TempPath:         f.Name(),
		Size:             int64(len(content)),
	}, nil
}

func (s *LocalStore) Commit(staged *interfaces.StagedDocument, relPath string) error {
	dst, err := s.Resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("%w: commit %s: %v", apperr.ErrStorage, relPath, err)
	}
	if err := os.Rename(staged.TempPath, dst); err != nil {
		return fmt.Errorf("%w: commit %s: %v", apperr.ErrStorage, relPath, err)
	}
	return nil
}

func (s *LocalStore) Discard(staged *interfaces.StagedDocument) {
	if staged == nil {
		return
	}
	_ = os.Remove(staged.TempPath)
}

func (s *LocalStore) Remove(relPath string) error {
	abs, err := s.Resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: remove %s: %v", apperr.ErrStorage, relPath, err)
	}
	return nil
}

// Resolve maps a stored relative path to an absolute path under the
// media root. Stored paths are not trusted blindly: anything cleaning
// to a location outside the root is rejected.
func (s *LocalStore) Resolve(relPath string) (string, error) {
	if relPath == "" || filepath.IsAbs(relPath) {
		return "", fmt.Errorf("%w: invalid path %q", apperr.ErrStorage, relPath)
	}
	abs := filepath.Join(s.root, filepath.Clean(relPath))
	if abs != s.root && !strings.HasPrefix(abs, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path %q escapes media root", apperr.ErrStorage, relPath)
	}
	return abs, nil
}

// Package backup keeps timestamped copies of skin files so that a
// transformation can be undone.
//
// A snapshot is a directory inside the skin folder named
// "<prefix>-YYYY-MM-DD-HH-MM-SS". Two snapshots taken within the same
// second share a directory; the later copies win.
package backup

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/setanarut/instafader/utils"
)

const (
	DefaultPrefix = "instafader-backup"
	timeLayout    = "2006-01-02-15-04-05"
)

// Manager creates and restores snapshots of files in Dir.
type Manager struct {
	Dir    string
	Prefix string
	Now    func() time.Time
}

func NewManager(dir string) *Manager {
	return &Manager{Dir: dir, Prefix: DefaultPrefix, Now: time.Now}
}

// Snapshot is one backup directory being filled.
type Snapshot struct {
	Path   string
	source string
}

// Name returns the snapshot directory name.
func (s *Snapshot) Name() string {
	return filepath.Base(s.Path)
}

// CreateSnapshot makes a new snapshot directory stamped with the current time.
func (m *Manager) CreateSnapshot() (*Snapshot, error) {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	path := filepath.Join(m.Dir, m.prefix()+"-"+now().Format(timeLayout))
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	return &Snapshot{Path: path, source: m.Dir}, nil
}

// SnapshotAt makes a snapshot of m.Dir at an arbitrary path, such as a
// scratch directory outside the skin folder.
func (m *Manager) SnapshotAt(path string) (*Snapshot, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	return &Snapshot{Path: path, source: m.Dir}, nil
}

// Backup copies name, a path relative to the skin folder, into the
// snapshot keeping its mode and modification time.
func (s *Snapshot) Backup(name string) error {
	dst := filepath.Join(s.Path, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("backup %s: %w", name, err)
	}
	if err := CopyFile(filepath.Join(s.source, filepath.FromSlash(name)), dst); err != nil {
		return fmt.Errorf("backup %s: %w", name, err)
	}
	return nil
}

// Latest returns the snapshot directory created most recently.
func (m *Manager) Latest() (string, bool, error) {
	entries, err := os.ReadDir(m.Dir)
	if err != nil {
		return "", false, err
	}
	type candidate struct {
		name    string
		created time.Time
	}
	var cands []candidate
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), m.prefix()) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		cands = append(cands, candidate{name: e.Name(), created: creationTime(fi)})
	}
	if len(cands) == 0 {
		return "", false, nil
	}
	// Newest first; the timestamp in the name breaks ties.
	slices.SortFunc(cands, func(a, b candidate) int {
		if c := b.created.Compare(a.created); c != 0 {
			return c
		}
		return strings.Compare(b.name, a.name)
	})
	return filepath.Join(m.Dir, cands[0].name), true, nil
}

// Restore copies every file in snapshot back into the skin folder,
// overwriting what is there. progress, when non-nil, receives the fraction
// of files restored after each one. It stops at the first failure; files
// already restored stay restored.
func (m *Manager) Restore(snapshot string, progress func(float64)) (int, error) {
	var files []string
	err := filepath.WalkDir(snapshot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(snapshot, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("list snapshot: %w", err)
	}

	for i, rel := range files {
		dst := filepath.Join(m.Dir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return i, fmt.Errorf("restore %s: %w", filepath.ToSlash(rel), err)
		}
		if err := CopyFile(filepath.Join(snapshot, rel), dst); err != nil {
			return i, fmt.Errorf("restore %s: %w", filepath.ToSlash(rel), err)
		}
		if progress != nil {
			progress(float64(i+1) / float64(len(files)))
		}
	}
	return len(files), nil
}

// CopyFile replaces dst with the contents of src, then applies src's
// permission bits and modification time.
func CopyFile(src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(dst, data, fi.Mode().Perm()); err != nil {
		return err
	}
	if err := os.Chmod(dst, fi.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, fi.ModTime(), fi.ModTime())
}

func (m *Manager) prefix() string {
	if m.Prefix == "" {
		return DefaultPrefix
	}
	return m.Prefix
}

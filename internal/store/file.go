package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/prsolans/agreement-mapper/internal/model"
)

// FileStore writes one JSON file per report into a directory. The report ID
// doubles as the file name.
type FileStore struct {
	dir string
}

// NewFile creates the report directory if needed.
func NewFile(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "reports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "store: creating %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Save(_ context.Context, report *model.Report) (string, error) {
	id := uuid.New().String()

	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "store: marshal report")
	}
	if err := os.WriteFile(s.path(id), raw, 0o644); err != nil {
		return "", eris.Wrapf(err, "store: write report %s", id)
	}
	return id, nil
}

func (s *FileStore) List(_ context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, eris.Wrapf(err, "store: reading %s", s.dir)
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")

		raw, err := os.ReadFile(s.path(id))
		if err != nil {
			continue
		}
		var partial struct {
			Meta model.Meta `json:"_meta"`
		}
		if err := json.Unmarshal(raw, &partial); err != nil {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		summaries = append(summaries, Summary{
			ID:          id,
			CompanyName: partial.Meta.CompanyName,
			DisplayName: displayName(partial.Meta.CompanyName),
			Timestamp:   info.ModTime().UTC(),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Timestamp.After(summaries[j].Timestamp)
	})
	return summaries, nil
}

func (s *FileStore) Load(_ context.Context, id string) (*model.Report, error) {
	raw, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Errorf("store: report %s not found", id)
		}
		return nil, eris.Wrapf(err, "store: reading report %s", id)
	}

	var report model.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, eris.Wrapf(err, "store: parsing report %s", id)
	}
	return &report, nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return eris.Errorf("store: report %s not found", id)
		}
		return eris.Wrapf(err, "store: deleting report %s", id)
	}
	return nil
}

// IsConfigured reports whether the report directory is usable.
func (s *FileStore) IsConfigured() bool {
	info, err := os.Stat(s.dir)
	return err == nil && info.IsDir()
}

func (s *FileStore) Close() error { return nil }

package statusfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/bft-labs/companion/pkg/companion"
)

const fileName = "status.json"

// Record is the persisted form of the last status snapshot.
type Record struct {
	Status  companion.Status `json:"status"`
	SavedAt time.Time        `json:"saved_at"`
}

// IsEmpty reports whether nothing was ever saved.
func (r Record) IsEmpty() bool {
	return r.SavedAt.IsZero()
}

// Clean reports whether the recorded session ended with a shutdown.
func (r Record) Clean() bool {
	return r.Status.State == companion.StateShuttingDown
}

// Repository stores a Record as JSON in a directory.
type Repository struct {
	dir string
}

// NewRepository creates a Repository for dir.
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// Path returns the full path to the status file.
func (r *Repository) Path() string {
	return filepath.Join(r.dir, fileName)
}

// Load returns the saved record. A missing file yields an empty record and
// no error.
func (r *Repository) Load() (Record, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, nil
		}
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Save writes rec through a temp file and rename, so readers never see a
// partial document.
func (r *Repository) Save(rec Record) error {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, r.Path())
}

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/conf-hunt/internal/conference"
)

const snapshotFile = "snapshot.json"

// ErrNoSnapshot is returned when no snapshot has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot saved")

// Snapshot is a saved conference collection.
type Snapshot struct {
	UpdatedAt   string           `json:"updated_at"` // RFC3339 timestamp
	ListingURL  string           `json:"listing_url"`
	Conferences *conference.List `json:"conferences"`
}

// Storage handles persistence of conference snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Path returns the snapshot file path.
func (s *Storage) Path() string {
	return filepath.Join(s.dataDir, snapshotFile)
}

// Load reads the saved snapshot.
func (s *Storage) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snapshot.Conferences == nil {
		snapshot.Conferences = conference.NewList()
	}

	return &snapshot, nil
}

// Save writes a snapshot of list, replacing any previous one.
func (s *Storage) Save(list *conference.List, listingURL string) error {
	snapshot := &Snapshot{
		UpdatedAt:   time.Now().UTC().Format(time.RFC3339),
		ListingURL:  listingURL,
		Conferences: list,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	// Write to a temporary file first so a failed write keeps the old snapshot.
	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	return nil
}

// GetConference returns the saved conference with the given name.
func (s *Storage) GetConference(name string) (*conference.Record, error) {
	snapshot, err := s.Load()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	for _, rec := range snapshot.Conferences.Records() {
		if strings.EqualFold(rec.Name, strings.TrimSpace(name)) {
			return rec, nil
		}
	}

	return nil, fmt.Errorf("conference not found: %s", name)
}

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/pfrederiksen/conf-hunt/internal/conference"
)

func testList() *conference.List {
	late := conference.NewRecord(conference.Summary{
		Name:     "APS March Meeting",
		Location: "Denver, USA",
		Date:     time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		URL:      "https://example.com/aps",
	})
	late.Keywords = []string{"quantum", "qubit"}
	late.Speakers = []string{"Ada Lovelace"}
	late.Attributes[conference.ProgramURLKey] = "https://example.com/aps/program"
	late.Description = "a meeting | about physics"

	early := conference.NewRecord(conference.Summary{
		Name:     "QIP 2026",
		Location: "Riga, Latvia",
		Date:     time.Date(2026, time.January, 24, 0, 0, 0, 0, time.UTC),
		URL:      "https://example.com/qip",
	})

	return conference.NewList(late, early)
}

func TestSaveAndLoad(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if _, err := store.Load(); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("Load() before Save error = %v, want ErrNoSnapshot", err)
	}

	list := testList()
	if err := store.Save(list, "https://example.com/list"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(store.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind: %v", err)
	}

	snapshot, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if snapshot.ListingURL != "https://example.com/list" {
		t.Errorf("ListingURL = %q", snapshot.ListingURL)
	}
	if _, err := time.Parse(time.RFC3339, snapshot.UpdatedAt); err != nil {
		t.Errorf("UpdatedAt %q is not RFC3339: %v", snapshot.UpdatedAt, err)
	}

	got := snapshot.Conferences
	if got.Len() != 2 {
		t.Fatalf("loaded %d conferences, want 2", got.Len())
	}
	if got.At(0).Name != "QIP 2026" {
		t.Errorf("first conference = %q, want date order", got.At(0).Name)
	}
	want := list.At(1)
	if !reflect.DeepEqual(got.At(1), want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got.At(1), want)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(); err == nil || errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load() error = %v, want parse error", err)
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := New(dir); err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("data directory not created: %v", err)
	}
}

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := New("~/conf-hunt-data")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if want := filepath.Join(home, "conf-hunt-data", snapshotFile); store.Path() != want {
		t.Errorf("Path() = %q, want %q", store.Path(), want)
	}
}

func TestGetConference(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := store.Save(testList(), ""); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{name: "exact name", query: "QIP 2026"},
		{name: "case-insensitive", query: "aps march meeting"},
		{name: "unknown", query: "TQC", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := store.GetConference(tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetConference(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
			if !tt.wantErr && rec == nil {
				t.Errorf("GetConference(%q) returned nil record", tt.query)
			}
		})
	}
}

package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendAndRead(t *testing.T) {
	dir := t.TempDir()
	j := Open(dir)

	if err := j.Append(Entry{Operation: "import", Count: 3, Source: "family.ged", IDs: []string{"I1", "I2", "I3"}}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := j.Append(Entry{Operation: "sync", Count: 2}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := j.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Operation != "import" || entries[0].Count != 3 {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[0].Timestamp.IsZero() {
		t.Error("timestamp not filled")
	}
	if entries[1].Operation != "sync" {
		t.Errorf("second entry = %+v", entries[1])
	}
}

func TestReadMissingJournal(t *testing.T) {
	j := Open(t.TempDir())
	entries, err := j.Read()
	if err != nil || entries != nil {
		t.Fatalf("Read on missing journal = %v, %v", entries, err)
	}
}

func TestReadSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	j := Open(dir)
	if err := j.Append(Entry{Operation: "export", Source: "out.gramps"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	path := filepath.Join(dir, ".roots", "journal.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("{truncated")
	f.Close()

	entries, err := j.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want malformed line skipped", len(entries))
	}
}

func TestReadSince(t *testing.T) {
	dir := t.TempDir()
	j := Open(dir)
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := j.Append(Entry{Timestamp: old, Operation: "import"}); err != nil {
		t.Fatal(err)
	}
	if err := j.Append(Entry{Operation: "sync"}); err != nil {
		t.Fatal(err)
	}

	entries, err := j.ReadSince(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ReadSince: %v", err)
	}
	if len(entries) != 1 || entries[0].Operation != "sync" {
		t.Errorf("entries = %+v, want only the recent sync", entries)
	}
}

func TestBulkIDsNotListed(t *testing.T) {
	dir := t.TempDir()
	j := Open(dir)
	ids := make([]string, maxListedIDs+1)
	for i := range ids {
		ids[i] = "I1"
	}
	if err := j.Append(Entry{Operation: "import", Count: len(ids), IDs: ids}); err != nil {
		t.Fatal(err)
	}
	entries, err := j.Read()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries[0].IDs) != 0 {
		t.Errorf("ids = %d, want dropped for bulk entry", len(entries[0].IDs))
	}
}

package store

import (
	"os"
	"path/filepath"
	"testing"

	chatmodel "github.com/lazy-care/backend/internal/model/chat"
)

func TestFileStoreLoadMissingFileInitializes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	st := NewFileStore(path)

	doc := chatmodel.Document{History: []chatmodel.Record{}}
	if err := st.Load(&doc); err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if len(doc.History) != 0 {
		t.Fatalf("expected empty history, got %d records", len(doc.History))
	}

	// The empty document must now exist on disk.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected file to be created: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("expected non-empty file content")
	}
}

func TestFileStoreLoadCorruptFileResets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	st := NewFileStore(path)
	doc := chatmodel.Document{History: []chatmodel.Record{}}
	if err := st.Load(&doc); err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if len(doc.History) != 0 {
		t.Fatalf("expected reset history, got %d records", len(doc.History))
	}

	// The corrupt content must have been overwritten with the empty document.
	reread := chatmodel.Document{}
	if err := st.Load(&reread); err != nil {
		t.Fatalf("reread err: %v", err)
	}
	if len(reread.History) != 0 {
		t.Fatalf("expected empty history after reset, got %d", len(reread.History))
	}
}

func TestFileStoreLoadWrongShapeResetsCleanly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	// Valid JSON, wrong field type: decoding fails midway through the record.
	if err := os.WriteFile(path, []byte(`{"chatHistory":[{"email":42}]}`), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	st := NewFileStore(path)
	doc := chatmodel.Document{History: []chatmodel.Record{}}
	if err := st.Load(&doc); err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if len(doc.History) != 0 {
		t.Fatalf("expected empty history after reset, got %+v", doc.History)
	}

	// The reset file must hold the empty collection, not a half-decoded record.
	reread := chatmodel.Document{History: []chatmodel.Record{}}
	if err := st.Load(&reread); err != nil {
		t.Fatalf("reread err: %v", err)
	}
	if len(reread.History) != 0 {
		t.Fatalf("expected empty persisted history, got %+v", reread.History)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	st := NewFileStore(path)

	doc := chatmodel.Document{History: []chatmodel.Record{
		{Email: "a@x.com", Message: "hi", AIResponse: "hello", Timestamp: "2026-01-02T03:04:05Z"},
	}}
	if err := st.Save(&doc); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	loaded := chatmodel.Document{}
	if err := st.Load(&loaded); err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if len(loaded.History) != 1 {
		t.Fatalf("expected 1 record, got %d", len(loaded.History))
	}
	if loaded.History[0].Message != "hi" || loaded.History[0].AIResponse != "hello" {
		t.Fatalf("unexpected record: %+v", loaded.History[0])
	}
}

func TestFileStoreSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "chats.json")
	st := NewFileStore(path)

	doc := chatmodel.Document{History: []chatmodel.Record{}}
	if err := st.Save(&doc); err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file at %s: %v", path, err)
	}
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	st := NewFileStore(filepath.Join(dir, "chats.json"))

	doc := chatmodel.Document{History: []chatmodel.Record{}}
	if err := st.Save(&doc); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir err: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the document file, found %d entries", len(entries))
	}
}

package records

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"ocr-server-go/src/configs/database"
	"ocr-server-go/src/core/image"
	"ocr-server-go/src/core/ocr"
	"ocr-server-go/src/core/promotion"
	"ocr-server-go/src/core/utils"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, _, err := database.Open("sqlite://"+filepath.Join(t.TempDir(), "records.db"), utils.NewNopLogger())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return NewStore(db)
}

func sampleResult(text string) *ocr.Result {
	return &ocr.Result{
		Text:           text,
		Confidence:     80,
		Language:       "spa+eng",
		Engine:         "tesseract",
		Metadata:       image.Metadata{Format: image.UnknownFormat, ByteSize: 10, Error: "bad image"},
		ProcessingTime: ocr.PlaceholderProcessingTime,
		WordCount:      utils.CountWords(text),
		CharacterCount: utils.CountCharacters(text),
	}
}

func TestSaveAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, Entry{RequestID: "req-1", Endpoint: "process", Filename: "a.jpg", Result: sampleResult("uno")})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if first.ID == "" {
		t.Error("record id not generated")
	}
	time.Sleep(5 * time.Millisecond)

	promo := promotion.Extract(ocr.MediumSnippet)
	second, err := store.Save(ctx, Entry{RequestID: "req-2", Endpoint: "promotion", Result: sampleResult(ocr.MediumSnippet), Promotion: &promo})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	list, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Error("records must be newest first")
	}
	if list[0].WordCount != utils.CountWords(ocr.MediumSnippet) {
		t.Errorf("WordCount = %d", list[0].WordCount)
	}

	var meta image.Metadata
	if err := json.Unmarshal(list[1].Metadata, &meta); err != nil {
		t.Fatalf("metadata json: %v", err)
	}
	if !meta.Failed() || meta.Error != "bad image" {
		t.Errorf("metadata = %+v", meta)
	}

	var storedPromo promotion.Data
	if err := json.Unmarshal(list[0].Promotion, &storedPromo); err != nil {
		t.Fatalf("promotion json: %v", err)
	}
	if storedPromo.Brand == nil || *storedPromo.Brand != "Samsung" {
		t.Errorf("promotion = %+v", storedPromo)
	}

	limited, err := store.Recent(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Errorf("Recent(1) = %d records, %v", len(limited), err)
	}
}

func TestPing(t *testing.T) {
	if err := newTestStore(t).Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestSaveRequiresResult(t *testing.T) {
	if _, err := newTestStore(t).Save(context.Background(), Entry{}); err == nil {
		t.Error("expected error without result")
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{-1, DefaultLimit},
		{0, DefaultLimit},
		{1, 1},
		{100, 100},
		{101, MaxLimit},
	}
	for _, tt := range tests {
		if got := ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

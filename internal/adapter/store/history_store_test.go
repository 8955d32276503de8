package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cropyield/internal/domain/entity"
)

func newTestHistory(t *testing.T) *HistoryStore {
	t.Helper()
	db, err := OpenDatabase(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), false)
	if err != nil {
		t.Fatal(err)
	}
	h, err := NewHistoryStore(db)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestHistoryRecentNewestFirst(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, item := range []string{"Wheat", "Rice", "Maize"} {
		p := &entity.Prediction{
			ID:         fmt.Sprintf("id-%d", i),
			Input:      entity.CropInput{Year: 2010 + i, Area: "India", Item: item},
			Value:      float64(1000 * (i + 1)),
			Source:     entity.SourceModel,
			Assessment: entity.Assessment{Category: "Low", Confidence: 70},
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := h.Save(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := h.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recent))
	}
	if recent[0].Input.Item != "Maize" || recent[1].Input.Item != "Rice" {
		t.Errorf("unexpected order: %s, %s", recent[0].Input.Item, recent[1].Input.Item)
	}
	if recent[0].Value != 3000 || recent[0].Assessment.Confidence != 70 || recent[0].Input.Year != 2012 {
		t.Errorf("fields not round-tripped: %+v", recent[0])
	}
}

func TestHistoryRejectsDuplicateID(t *testing.T) {
	h := newTestHistory(t)
	p := &entity.Prediction{ID: "same", CreatedAt: time.Now()}
	if err := h.Save(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	if err := h.Save(context.Background(), p); err == nil {
		t.Fatal("expected primary key violation")
	}
}

package lead

import (
	"reflect"
	"testing"

	"leadengine/internal/domain"
)

func TestIngest_FiltersKnownKeys(t *testing.T) {
	existing := map[string]struct{}{"123 main st": {}}
	candidates := []domain.Lead{
		{Title: "123 Main St"},
		{Title: "456 Oak Ave"},
	}

	got := Ingest(candidates, existing)

	if len(got) != 1 || got[0].Title != "456 Oak Ave" {
		t.Fatalf("expected only 456 Oak Ave, got %+v", got)
	}
}

func TestIngest_PrefersLinkKey(t *testing.T) {
	existing := map[string]struct{}{"https://example.com/listing/1": {}}
	candidates := []domain.Lead{
		// same link, different title: still a dup
		{Title: "totally different title", Link: "https://example.com/listing/1"},
		// same title as a known title-keyed lead but has its own link: new
		{Title: "123 Main St", Link: "https://example.com/listing/2"},
	}

	got := Ingest(candidates, existing)
	if len(got) != 1 || got[0].Link != "https://example.com/listing/2" {
		t.Fatalf("expected only listing/2, got %+v", got)
	}
}

func TestIngest_StableOrderAndInBatchDedup(t *testing.T) {
	candidates := []domain.Lead{
		{Title: "C Street"},
		{Title: "A Street"},
		{Title: "a  street."}, // same key as "A Street" after normalization
		{Title: "B Street"},
	}

	got := Ingest(candidates, map[string]struct{}{})

	titles := make([]string, len(got))
	for i, l := range got {
		titles[i] = l.Title
	}
	want := []string{"C Street", "A Street", "B Street"}
	if !reflect.DeepEqual(titles, want) {
		t.Fatalf("expected %v, got %v", want, titles)
	}
}

func TestIngest_DoesNotMutateExisting(t *testing.T) {
	existing := map[string]struct{}{"known": {}}
	_ = Ingest([]domain.Lead{{Title: "Fresh Lead"}}, existing)

	if len(existing) != 1 {
		t.Fatalf("existing keys mutated: %v", existing)
	}
}

func TestIngest_SkipsEmptyKeys(t *testing.T) {
	got := Ingest([]domain.Lead{{Title: "   "}, {Title: "Real One"}}, nil)
	if len(got) != 1 || got[0].Title != "Real One" {
		t.Fatalf("expected only Real One, got %+v", got)
	}
}

func TestIngest_Deterministic(t *testing.T) {
	existing := map[string]struct{}{"123 main st": {}}
	candidates := []domain.Lead{
		{Title: "123 Main St"},
		{Title: "456 Oak Ave"},
		{Title: "789 Pine Rd"},
	}

	first := Ingest(candidates, existing)
	second := Ingest(candidates, existing)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("ingest not deterministic for identical inputs")
	}
}

package corpus

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/helpdex/internal/domain"
)

func sampleDocs() []domain.Document {
	return []domain.Document{
		{ID: "a1", Type: domain.DocArticle, Text: "Reset your password via settings."},
		{ID: "s1", Type: domain.DocScript, Text: "Greet the customer and confirm their account."},
		{ID: "p1", Type: domain.DocProcedure, Text: "Password reset procedure."},
	}
}

func TestNew_Valid(t *testing.T) {
	s, err := New(sampleDocs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	d, ok := s.At(2)
	if !ok || d.ID != "p1" {
		t.Errorf("At(2) = %+v, %v", d, ok)
	}
	if _, ok := s.At(3); ok {
		t.Error("At(3) should be out of range")
	}
	if _, ok := s.At(-1); ok {
		t.Error("At(-1) should be out of range")
	}
	if d, ok := s.Get("s1"); !ok || d.Type != domain.DocScript {
		t.Errorf("Get(s1) = %+v, %v", d, ok)
	}
}

func TestNew_Empty(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 0 || len(s.Texts()) != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		docs []domain.Document
	}{
		{"missing id", []domain.Document{{Type: domain.DocArticle, Text: "x"}}},
		{"unknown type", []domain.Document{{ID: "x", Type: "faq", Text: "x"}}},
		{"empty text", []domain.Document{{ID: "x", Type: domain.DocScript}}},
		{"duplicate id", []domain.Document{
			{ID: "x", Type: domain.DocScript, Text: "a"},
			{ID: "x", Type: domain.DocArticle, Text: "b"},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.docs)
			if !errors.Is(err, domain.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestTextsPreserveOrder(t *testing.T) {
	s, err := New(sampleDocs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	texts := s.Texts()
	for i, d := range sampleDocs() {
		if texts[i] != d.Text {
			t.Errorf("texts[%d] = %q, want %q", i, texts[i], d.Text)
		}
	}
}

func TestStoreIsolatedFromInput(t *testing.T) {
	docs := sampleDocs()
	s, err := New(docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	docs[0].Text = "mutated"
	if d, _ := s.At(0); d.Text == "mutated" {
		t.Error("store must copy input documents")
	}
}

func TestCountByType(t *testing.T) {
	s, _ := New(sampleDocs())
	counts := s.CountByType()
	if counts[domain.DocArticle] != 1 || counts[domain.DocScript] != 1 || counts[domain.DocProcedure] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gridmend/gridmend/internal/model"
)

type stubGenerator struct {
	name string
	recs []model.Recommendation
	err  error
}

func (s stubGenerator) Name() string { return s.name }
func (s stubGenerator) Generate(context.Context, Input) ([]model.Recommendation, error) {
	return s.recs, s.err
}

func sampleInput() Input {
	return Input{Issues: []model.Issue{{
		Type: model.IssueWhitespace, Sheet: "S", Column: "C",
		Severity: model.SeverityLow, Count: 1,
	}}}
}

func TestChainFallsThroughFailedTiers(t *testing.T) {
	want := []model.Recommendation{{ID: "r1", Title: "from second tier"}}
	chain := NewChain(
		stubGenerator{name: "first", err: errors.New("boom")},
		stubGenerator{name: "second", recs: want},
		stubGenerator{name: "third", err: errors.New("never reached")},
	)
	got, err := chain.Generate(context.Background(), sampleInput())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "from second tier" {
		t.Errorf("recs = %+v", got)
	}
}

func TestChainJoinsAllErrors(t *testing.T) {
	chain := NewChain(
		stubGenerator{name: "a", err: errors.New("first failure")},
		stubGenerator{name: "b", err: errors.New("second failure")},
	)
	_, err := chain.Generate(context.Background(), sampleInput())
	if err == nil {
		t.Fatal("expected error when every tier fails")
	}
	for _, want := range []string{"a:", "first failure", "b:", "second failure"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestParseRecommendationsTolerantFraming(t *testing.T) {
	content := "Here you go:\n```json\n[{\"title\":\"Trim\",\"transformation\":" +
		"{\"type\":\"trim_whitespace\",\"sheet\":\"S\",\"column\":\"C\"}}," +
		"{\"title\":\"Bogus\",\"transformation\":{\"type\":\"nonsense\",\"sheet\":\"S\"}}]\n```"
	recs, err := parseRecommendations(content, sampleInput())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("recs = %d, want 1 (malformed item dropped)", len(recs))
	}
	if recs[0].Transformation.Type() != "trim_whitespace" {
		t.Errorf("type = %q", recs[0].Transformation.Type())
	}
	if recs[0].ID == "" {
		t.Error("recommendation needs an id")
	}
	if !recs[0].CanProcessInParallel {
		t.Error("trim_whitespace should default to parallel")
	}
}

func TestParseRecommendationsNoArray(t *testing.T) {
	if _, err := parseRecommendations("sorry, I cannot help", sampleInput()); err == nil {
		t.Error("prose without JSON should fail")
	}
}

package search

import (
	"math"
	"testing"

	"github.com/geffen-cloud/vintner/internal/domain"
)

func lexCand(id string, score float64) domain.Candidate {
	return domain.Candidate{ID: id, TextScore: score}
}

func semCand(id string, score float64) domain.Candidate {
	return domain.Candidate{ID: id, SemanticScore: score}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMergeBlendsOverlappingCandidates(t *testing.T) {
	lexical := []domain.Candidate{lexCand("A", 0.9)}
	semantic := []domain.Candidate{semCand("A", 0.5), semCand("B", 0.7)}

	merged := Merge(lexical, semantic)

	if len(merged) != 2 {
		t.Fatalf("expected 2 merged candidates, got %d", len(merged))
	}

	scores := map[string]float64{}
	for _, c := range merged {
		scores[c.ID] = c.Score
	}

	// A: 0.5*0.78 + 0.9*0.22 + 0.08 = 0.668
	if !almostEqual(scores["A"], 0.668) {
		t.Errorf("A score = %v, want 0.668", scores["A"])
	}
	// B semantic-only: max(0.7*0.78, 0.7*0.72) = 0.546
	if !almostEqual(scores["B"], 0.546) {
		t.Errorf("B score = %v, want 0.546", scores["B"])
	}

	if merged[0].ID != "A" {
		t.Errorf("expected A ranked first, got %s", merged[0].ID)
	}
}

func TestMergeLexicalOnlyRemap(t *testing.T) {
	merged := Merge([]domain.Candidate{lexCand("A", 0.9)}, nil)

	if len(merged) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(merged))
	}
	// 0.25 + 0.9*0.5 = 0.7
	if !almostEqual(merged[0].Score, 0.7) {
		t.Errorf("lexical-only score = %v, want 0.7", merged[0].Score)
	}
}

func TestMergeClampsToOne(t *testing.T) {
	merged := Merge(
		[]domain.Candidate{lexCand("A", 1.0)},
		[]domain.Candidate{semCand("A", 1.0)},
	)

	if merged[0].Score > 1.0 {
		t.Errorf("blended score %v exceeds 1.0", merged[0].Score)
	}
	if !almostEqual(merged[0].Score, 1.0) {
		t.Errorf("blended score = %v, want clamp to 1.0", merged[0].Score)
	}
}

func TestMergeChannelOrderIndependentForOverlap(t *testing.T) {
	lexical := []domain.Candidate{lexCand("A", 0.4), lexCand("B", 0.8)}
	semantic := []domain.Candidate{semCand("B", 0.3), semCand("A", 0.9)}

	first := Merge(lexical, semantic)

	lexicalRev := []domain.Candidate{lexCand("B", 0.8), lexCand("A", 0.4)}
	semanticRev := []domain.Candidate{semCand("A", 0.9), semCand("B", 0.3)}

	second := Merge(lexicalRev, semanticRev)

	if len(first) != len(second) {
		t.Fatalf("pool sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || !almostEqual(first[i].Score, second[i].Score) {
			t.Errorf("position %d differs: %s(%v) vs %s(%v)",
				i, first[i].ID, first[i].Score, second[i].ID, second[i].Score)
		}
	}
}

func TestMergeSanitizesChannelScores(t *testing.T) {
	merged := Merge(
		[]domain.Candidate{lexCand("A", math.NaN()), lexCand("B", -0.5), lexCand("C", 3.0)},
		nil,
	)

	for _, c := range merged {
		if math.IsNaN(c.Score) || c.Score < 0 || c.Score > 1 {
			t.Errorf("candidate %s has unsanitized score %v", c.ID, c.Score)
		}
	}
}

func TestMergeTieBreaksByID(t *testing.T) {
	merged := Merge(
		[]domain.Candidate{lexCand("B", 0.6), lexCand("A", 0.6)},
		nil,
	)

	if merged[0].ID != "A" || merged[1].ID != "B" {
		t.Errorf("equal scores must order by id: got %s, %s", merged[0].ID, merged[1].ID)
	}
}

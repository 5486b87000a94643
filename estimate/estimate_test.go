package estimate

import (
	"context"
	"testing"

	"github.com/Ghost---Shadow/vamos-hose/shiftstore"
)

type fakeLoader struct {
	chunks map[int]shiftstore.Chunk
}

func (f *fakeLoader) LoadChunk(ctx context.Context, idx int) (shiftstore.Chunk, error) {
	if c, ok := f.chunks[idx]; ok {
		return c, nil
	}
	return shiftstore.Chunk{}, nil
}

func storeFromEntries(entries map[string]shiftstore.Entry) *shiftstore.Store {
	chunks := map[int]shiftstore.Chunk{}
	for key, entry := range entries {
		idx := shiftstore.ChunkIndex(key)
		if chunks[idx] == nil {
			chunks[idx] = shiftstore.Chunk{}
		}
		chunks[idx][key] = entry
	}
	return shiftstore.New(&fakeLoader{chunks: chunks}, nil)
}

// TestEstimateScenarioS7 reproduces spec.md §8's S7: two peaks that land
// exactly on a two-carbon compound's two distinct shifts should score 1.0
// with matchedPeaks=2.
func TestEstimateScenarioS7(t *testing.T) {
	store := storeFromEntries(map[string]shiftstore.Entry{
		"keyA": {Nucleus: "C", SMILES: "CC", Solvents: map[string]shiftstore.SolventStats{
			"CDCl3": {Avg: 14.0, Cnt: 1},
		}},
		"keyB": {Nucleus: "C", SMILES: "CC", Solvents: map[string]shiftstore.SolventStats{
			"CDCl3": {Avg: 23.0, Cnt: 1},
		}},
	})

	opts := NewOptions()
	opts.Tolerance = 2
	opts.MinMatches = 2

	candidates, err := Estimate(context.Background(), store, []float64{14.0, 23.0}, opts)
	if err != nil {
		t.Fatalf("Estimate error = %v", err)
	}

	var cc *Candidate
	for i := range candidates {
		if candidates[i].SMILES == "CC" {
			cc = &candidates[i]
		}
	}
	if cc == nil {
		t.Fatalf("expected a CC candidate, got %+v", candidates)
	}
	if cc.MatchedPeaks != 2 {
		t.Errorf("MatchedPeaks = %d, want 2", cc.MatchedPeaks)
	}
	if cc.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0", cc.Score)
	}
}

func TestEstimateFiltersByMinMatches(t *testing.T) {
	store := storeFromEntries(map[string]shiftstore.Entry{
		"keyA": {Nucleus: "C", SMILES: "C", Solvents: map[string]shiftstore.SolventStats{
			"CDCl3": {Avg: 14.0, Cnt: 1},
		}},
	})
	opts := NewOptions()
	opts.MinMatches = 2
	candidates, err := Estimate(context.Background(), store, []float64{14.0}, opts)
	if err != nil {
		t.Fatalf("Estimate error = %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates below minMatches, got %+v", candidates)
	}
}

func TestEstimateIgnoresOtherNuclei(t *testing.T) {
	store := storeFromEntries(map[string]shiftstore.Entry{
		"keyA": {Nucleus: "H", SMILES: "C", Solvents: map[string]shiftstore.SolventStats{
			"CDCl3": {Avg: 14.0, Cnt: 1},
		}},
	})
	opts := NewOptions()
	candidates, err := Estimate(context.Background(), store, []float64{14.0}, opts)
	if err != nil {
		t.Fatalf("Estimate error = %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected proton entries excluded from a 13C scan, got %+v", candidates)
	}
}

func TestEstimateSortIsNonIncreasingByScoreThenMatches(t *testing.T) {
	store := storeFromEntries(map[string]shiftstore.Entry{
		"best": {Nucleus: "C", SMILES: "best", Solvents: map[string]shiftstore.SolventStats{
			"CDCl3": {Avg: 14.0, Cnt: 1},
		}},
		"worse": {Nucleus: "C", SMILES: "worse", Solvents: map[string]shiftstore.SolventStats{
			"CDCl3": {Avg: 15.5, Cnt: 1},
		}},
	})
	opts := NewOptions()
	opts.Tolerance = 2
	candidates, err := Estimate(context.Background(), store, []float64{14.0}, opts)
	if err != nil {
		t.Fatalf("Estimate error = %v", err)
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score > candidates[i-1].Score {
			t.Fatalf("candidates not sorted descending by score: %+v", candidates)
		}
		if candidates[i].Score == candidates[i-1].Score && candidates[i].MatchedPeaks > candidates[i-1].MatchedPeaks {
			t.Fatalf("equal-score candidates not sorted descending by matched peaks: %+v", candidates)
		}
	}
}

func TestEstimateCapsResultCount(t *testing.T) {
	entries := map[string]shiftstore.Entry{}
	for i := 0; i < 5; i++ {
		key := string(rune('a' + i))
		entries[key] = shiftstore.Entry{
			Nucleus: "C", SMILES: key,
			Solvents: map[string]shiftstore.SolventStats{"CDCl3": {Avg: 14.0, Cnt: 1}},
		}
	}
	store := storeFromEntries(entries)
	opts := NewOptions()
	opts.Cap = 2
	candidates, err := Estimate(context.Background(), store, []float64{14.0}, opts)
	if err != nil {
		t.Fatalf("Estimate error = %v", err)
	}
	if len(candidates) != 2 {
		t.Errorf("Estimate returned %d candidates, want capped at 2", len(candidates))
	}
}

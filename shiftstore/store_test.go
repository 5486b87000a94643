package shiftstore

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"testing"
)

// memLoader is a ChunkLoader over an in-memory map, with a load counter
// so tests can assert coalescing behavior.
type memLoader struct {
	data  map[int]Chunk
	loads int32
}

func (m *memLoader) LoadChunk(ctx context.Context, idx int) (Chunk, error) {
	atomic.AddInt32(&m.loads, 1)
	c, ok := m.data[idx]
	if !ok {
		return nil, errors.New("no such chunk")
	}
	return c, nil
}

func testLogger() *log.Logger {
	return log.New(nopWriter{}, "", 0)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func sampleEntry(smiles string) Entry {
	return Entry{
		Nucleus: "C",
		SMILES:  smiles,
		Solvents: map[string]SolventStats{
			"CDCl3": {Min: 10, Max: 10, Avg: 10, Cnt: 3},
			"D2O":   {Min: 20, Max: 20, Avg: 20, Cnt: 7},
		},
	}
}

func TestChunkIndexIsDeterministic(t *testing.T) {
	key := "HHHC(HHC/HHH/)"
	a := ChunkIndex(key)
	b := ChunkIndex(key)
	if a != b {
		t.Fatalf("ChunkIndex(%q) not stable: %d vs %d", key, a, b)
	}
	if a < 0 || a >= ChunkCount {
		t.Fatalf("ChunkIndex(%q) = %d, want 0..255", key, a)
	}
}

func TestWeightedAvgMatchesScenarioS6(t *testing.T) {
	e := Entry{
		Nucleus: "C",
		SMILES:  "CC",
		Solvents: map[string]SolventStats{
			"A": {Avg: 10, Cnt: 3},
			"B": {Avg: 20, Cnt: 7},
		},
	}
	got := WeightedAvg(e)
	if got != 17.0 {
		t.Errorf("WeightedAvg() = %v, want 17.0", got)
	}
}

func TestWeightedAvgWithZeroCountIsZero(t *testing.T) {
	e := Entry{Solvents: map[string]SolventStats{}}
	if got := WeightedAvg(e); got != 0 {
		t.Errorf("WeightedAvg(empty) = %v, want 0", got)
	}
}

func TestLoadChunkCoalescesConcurrentCallers(t *testing.T) {
	key := "HHHC(HHC/HHH/)"
	idx := ChunkIndex(key)
	loader := &memLoader{data: map[int]Chunk{idx: {key: sampleEntry("CCC")}}}
	s := New(loader, testLogger())

	ctx := context.Background()
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := s.LoadChunk(ctx, idx)
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatalf("LoadChunk error = %v", err)
		}
	}
	if loads := atomic.LoadInt32(&loader.loads); loads != 1 {
		t.Errorf("loader.loads = %d, want 1 (coalesced)", loads)
	}
}

func TestQueryExactMissingChunkSurfacesError(t *testing.T) {
	loader := &memLoader{data: map[int]Chunk{}}
	s := New(loader, testLogger())
	_, _, err := s.QueryExact(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected a MissingChunkError, got nil")
	}
	var mce MissingChunkError
	if !errors.As(err, &mce) {
		t.Errorf("error = %v, want MissingChunkError", err)
	}
}

func TestQueryExactAbsentKeyIsNotAnError(t *testing.T) {
	key := "some-key"
	idx := ChunkIndex(key)
	loader := &memLoader{data: map[int]Chunk{idx: {}}}
	s := New(loader, testLogger())
	_, ok, err := s.QueryExact(context.Background(), key)
	if err != nil {
		t.Fatalf("QueryExact error = %v", err)
	}
	if ok {
		t.Error("QueryExact found a key that was never stored")
	}
}

func TestPreloadLoadsEveryDistinctChunk(t *testing.T) {
	keys := []string{"HHHC(HHC/HHH/)", "HHCC(HHH,HHH//)", "=OCC(,HHH,HHH//)"}
	data := map[int]Chunk{}
	for _, k := range keys {
		data[ChunkIndex(k)] = Chunk{k: sampleEntry("x")}
	}
	loader := &memLoader{data: data}
	s := New(loader, testLogger())
	if err := s.Preload(context.Background(), keys); err != nil {
		t.Fatalf("Preload error = %v", err)
	}
	for _, k := range keys {
		_, ok, err := s.QueryExact(context.Background(), k)
		if err != nil || !ok {
			t.Errorf("QueryExact(%q) after Preload = (%v, %v), want a hit", k, ok, err)
		}
	}
}

func TestClearEvictsCache(t *testing.T) {
	key := "k"
	idx := ChunkIndex(key)
	loader := &memLoader{data: map[int]Chunk{idx: {key: sampleEntry("x")}}}
	s := New(loader, testLogger())
	s.QueryExact(context.Background(), key)
	if loads := atomic.LoadInt32(&loader.loads); loads != 1 {
		t.Fatalf("expected 1 load before Clear, got %d", loads)
	}
	s.Clear()
	s.QueryExact(context.Background(), key)
	if loads := atomic.LoadInt32(&loader.loads); loads != 2 {
		t.Errorf("expected a second load after Clear, got %d", loads)
	}
}

func TestValidateFindsMisplacedKeyAndBadCount(t *testing.T) {
	goodKey := "good"
	goodIdx := ChunkIndex(goodKey)
	wrongIdx := (goodIdx + 1) % ChunkCount

	data := map[int]Chunk{
		goodIdx: {goodKey: sampleEntry("x")},
	}
	// Plant "good" again, but this time under the wrong chunk index, and
	// give it a zero-count solvent.
	if data[wrongIdx] == nil {
		data[wrongIdx] = Chunk{}
	}
	data[wrongIdx]["good"] = Entry{
		Nucleus: "C", SMILES: "x",
		Solvents: map[string]SolventStats{"CDCl3": {Cnt: 0}},
	}
	// Fill every other chunk so Validate's full scan doesn't error out.
	for i := 0; i < ChunkCount; i++ {
		if data[i] == nil {
			data[i] = Chunk{}
		}
	}

	loader := &memLoader{data: data}
	s := New(loader, testLogger())
	report, err := s.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate error = %v", err)
	}
	if report.OK() {
		t.Fatal("Validate reported OK on a deliberately broken store")
	}
	if len(report.Misplaced) == 0 {
		t.Error("Validate did not flag the key stored under the wrong chunk")
	}
	if len(report.BadCounts) == 0 {
		t.Error("Validate did not flag the zero-count solvent")
	}
}

func TestEachVisitsEveryStoredKey(t *testing.T) {
	keys := []string{"a", "b", "c"}
	data := map[int]Chunk{}
	for i := 0; i < ChunkCount; i++ {
		data[i] = Chunk{}
	}
	for _, k := range keys {
		data[ChunkIndex(k)][k] = sampleEntry(k)
	}
	loader := &memLoader{data: data}
	s := New(loader, testLogger())

	seen := map[string]bool{}
	err := s.Each(context.Background(), func(snap Snapshot) error {
		seen[snap.Key] = true
		return nil
	})
	if err != nil {
		t.Fatalf("Each error = %v", err)
	}
	for _, k := range keys {
		if !seen[k] {
			t.Errorf("Each did not visit key %q", k)
		}
	}
}

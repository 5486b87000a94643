/*
 * estimate.go, part of vamos-hose.
 *
 * The reverse estimator (C6, spec.md §4.6): peaks -> ranked candidate
 * molecules, built by scanning the whole store. Chunks are scanned
 * concurrently via errgroup, the same fan-out-then-join shape the pack
 * uses for parallel I/O-bound work, and each run is stamped with a
 * google/uuid scan ID for log correlation, mirroring how the pack's
 * services tag requests for tracing.
 */

package estimate

import (
	"context"
	"log"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/Ghost---Shadow/vamos-hose/lookup"
	"github.com/Ghost---Shadow/vamos-hose/shiftstore"
)

// DefaultTolerance, DefaultMinMatches and DefaultCap are C6's reference
// defaults (spec.md §4.6).
const (
	DefaultTolerance = 2.0
	DefaultMinMatches = 1
	DefaultCap        = 50
)

// Candidate is one ranked result (spec.md §3's "Candidate").
type Candidate struct {
	SMILES       string
	HOSE         string
	MatchedPeaks int
	Score        float64
}

// Options configures one Estimate run. Estimate replaces a non-positive
// Tolerance, MinMatches or Cap with its default, reads an empty Nucleus
// as 13C and a nil Logger as log.Default(); NewOptions returns the
// reference defaults explicitly.
type Options struct {
	Tolerance  float64
	MinMatches int
	Nucleus    string
	Cap        int
	Logger     *log.Logger
}

// NewOptions returns Options populated with spec.md §4.6's reference
// defaults.
func NewOptions() Options {
	return Options{
		Tolerance:  DefaultTolerance,
		MinMatches: DefaultMinMatches,
		Nucleus:    "13C",
		Cap:        DefaultCap,
	}
}

type accumulator struct {
	smiles       string
	hose         string
	matchedPeaks map[int]bool
	errors       []float64 // one entry per distinct matched peak, |shift-peak|
}

// Estimate runs C6 against every entry in store matching opts.Nucleus,
// scoring candidates against the observed peaks.
func Estimate(ctx context.Context, store *shiftstore.Store, peaks []float64, opts Options) ([]Candidate, error) {
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	if opts.MinMatches <= 0 {
		opts.MinMatches = DefaultMinMatches
	}
	if opts.Cap <= 0 {
		opts.Cap = DefaultCap
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	element := lookup.ElementFromNucleus(opts.Nucleus)
	scanID := uuid.New()
	logger.Printf("estimate: scan %s starting, %d peaks, nucleus %s", scanID, len(peaks), element)

	var mu sync.Mutex
	acc := map[string]*accumulator{}

	mergeHit := func(entry shiftstore.Entry, key string, peakIdx int, err float64) {
		mu.Lock()
		defer mu.Unlock()
		a, ok := acc[entry.SMILES]
		if !ok {
			a = &accumulator{smiles: entry.SMILES, hose: key, matchedPeaks: map[int]bool{}}
			acc[entry.SMILES] = a
		}
		if !a.matchedPeaks[peakIdx] {
			a.matchedPeaks[peakIdx] = true
			a.errors = append(a.errors, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for idx := 0; idx < shiftstore.ChunkCount; idx++ {
		idx := idx
		g.Go(func() error {
			chunk, err := store.LoadChunk(gctx, idx)
			if err != nil {
				return err
			}
			for key, entry := range chunk {
				if entry.Nucleus != element {
					continue
				}
				shift := shiftstore.WeightedAvg(entry)
				for i, peak := range peaks {
					d := math.Abs(shift - peak)
					if d <= opts.Tolerance {
						mergeHit(entry, key, i, d)
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := len(peaks)
	var candidates []Candidate
	for _, a := range acc {
		matched := len(a.matchedPeaks)
		if matched < opts.MinMatches {
			continue
		}
		candidates = append(candidates, Candidate{
			SMILES:       a.smiles,
			HOSE:         a.hose,
			MatchedPeaks: matched,
			Score:        round1000(score(a.errors, total, opts.Tolerance)),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].MatchedPeaks > candidates[j].MatchedPeaks
	})
	if len(candidates) > opts.Cap {
		logger.Printf("estimate: scan %s truncating %d candidates to cap %d", scanID, len(candidates), opts.Cap)
		candidates = candidates[:opts.Cap]
	}
	return candidates, nil
}

// score implements spec.md §4.6 step 4:
// round1000((matched/|P|) * (1 - (E/matched)/tau)), with E the
// cumulative per-peak error (gonum/floats.Sum over the matched errors).
func score(errors []float64, totalPeaks int, tolerance float64) float64 {
	matched := len(errors)
	if totalPeaks == 0 || matched == 0 {
		return 0
	}
	coverage := float64(matched) / float64(totalPeaks)
	e := floats.Sum(errors)
	avgErr := e / float64(matched)
	return coverage * (1 - (avgErr / tolerance))
}

func round1000(x float64) float64 {
	return math.Round(x*1000) / 1000
}

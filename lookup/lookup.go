/*
 * lookup.go, part of vamos-hose.
 *
 * Forward lookup (C5, spec.md §4.5): SMILES -> per-atom shifts, with
 * progressive HOSE truncation when the exact key misses. Grounded on
 * gochem's own "parse, then derive tables, then walk atoms" shape (the
 * same sequence v3's trajectory readers use: open, prepare, iterate)
 * and on spec.md §9's "synchronous HOSE generation -> batch preload
 * (awaits once) -> synchronous per-atom fallback" staging.
 */

package lookup

import (
	"context"
	"strings"

	"github.com/Ghost---Shadow/vamos-hose/hose"
	"github.com/Ghost---Shadow/vamos-hose/shiftstore"
	"github.com/Ghost---Shadow/vamos-hose/smiles"
)

// maxTruncations bounds the fallback loop (spec.md §4.5 step 5).
const maxTruncations = 8

// Result is one matched atom (spec.md §3's "Lookup result").
type Result struct {
	Atom   string // element symbol
	HOSE   string // the key that actually hit
	Shift  float64
	SMILES string // the stored reference SMILES
}

// Lookup runs C5 end to end: parse smi, generate HOSE codes for every
// atom whose element matches nucleus, preload their chunks, and resolve
// each with the exact/truncation/leading-H fallback sequence. Atoms
// with no hit anywhere in the fallback chain are silently skipped
// (spec.md §7).
func Lookup(ctx context.Context, store *shiftstore.Store, smi string, nucleus string) ([]Result, error) {
	mol, err := smiles.Parse(smi)
	if err != nil {
		// spec.md §7: malformed SMILES propagates unchanged from the
		// external parser, unwrapped.
		return nil, err
	}

	element := ElementFromNucleus(nucleus)

	type pending struct {
		atomIdx int
		key     string
	}
	var keys []string
	var atoms []pending
	for i := 0; i < mol.AtomCount(); i++ {
		if mol.Element(i) != element {
			continue
		}
		key, err := hose.Hose(mol, i, hose.DefaultMaxSpheres)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, pending{atomIdx: i, key: key})
		keys = append(keys, key)
	}

	if err := store.Preload(ctx, keys); err != nil {
		return nil, err
	}

	var results []Result
	for _, a := range atoms {
		entry, matched, ok, err := resolve(ctx, store, a.key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		results = append(results, Result{
			Atom:   element,
			HOSE:   matched,
			Shift:  shiftstore.WeightedAvg(entry),
			SMILES: entry.SMILES,
		})
	}
	return results, nil
}

// resolve implements spec.md §4.5 step 5's fallback sequence: exact,
// then up to maxTruncations rightmost-delimiter truncations (each tried
// with and without the delimiter), then a single leading-H strip.
func resolve(ctx context.Context, store *shiftstore.Store, key string) (shiftstore.Entry, string, bool, error) {
	if e, ok, err := query(ctx, store, key); err != nil {
		return shiftstore.Entry{}, "", false, err
	} else if ok {
		return e, key, true, nil
	}

	cur := key
	for i := 0; i < maxTruncations; i++ {
		pos := rightmostDelimiter(cur)
		if pos <= 0 {
			break
		}
		withDelim := cur[:pos+1]
		if e, ok, err := query(ctx, store, withDelim); err != nil {
			return shiftstore.Entry{}, "", false, err
		} else if ok {
			return e, withDelim, true, nil
		}

		withoutDelim := cur[:pos]
		if e, ok, err := query(ctx, store, withoutDelim); err != nil {
			return shiftstore.Entry{}, "", false, err
		} else if ok {
			return e, withoutDelim, true, nil
		}
		cur = withoutDelim
	}

	stripped := stripLeadingH(cur)
	if stripped != cur {
		if e, ok, err := query(ctx, store, stripped); err != nil {
			return shiftstore.Entry{}, "", false, err
		} else if ok {
			return e, stripped, true, nil
		}
	}
	return shiftstore.Entry{}, "", false, nil
}

func query(ctx context.Context, store *shiftstore.Store, key string) (shiftstore.Entry, bool, error) {
	return store.QueryExact(ctx, key)
}

// rightmostDelimiter returns the index of the rightmost '/', '(' or ')'
// in s, or -1 if none occur (spec.md §9's explicit exclusion of ','
// from the fallback delimiter set, since removing a comma changes
// neighbor count rather than just sphere depth).
func rightmostDelimiter(s string) int {
	return strings.LastIndexAny(s, "/()")
}

// stripLeadingH removes a maximal leading run of 'H' tokens.
func stripLeadingH(s string) string {
	i := 0
	for i < len(s) && s[i] == 'H' {
		i++
	}
	return s[i:]
}

// ElementFromNucleus strips a nucleus string's leading digits to get
// its element symbol (spec.md §6: "13C" -> "C", "1H" -> "H"). Default
// "13C" if nucleus is empty.
func ElementFromNucleus(nucleus string) string {
	if nucleus == "" {
		return "C"
	}
	return strings.TrimLeft(nucleus, "0123456789")
}

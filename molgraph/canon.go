/*
 * canon.go, part of vamos-hose.
 *
 * The canonical labeler (spec.md §4.2): Weininger invariant refinement
 * with prime-product partition refinement. Grounded on the two-pass
 * rank/refine style gochem itself uses for trajectory frame bookkeeping
 * (part_test.go's repeated re-sort-and-rank idiom) and on chemgraph's
 * habit of treating a *chem.Molecule as a gonum/graph.Graph
 * (chemgraph/graph.go) rather than hand-rolling adjacency walks.
 */

package molgraph

import (
	"fmt"
	"sort"
)

// first200Primes backs the labeler's rank->prime assignment (spec.md
// §4.2 step 2: "the rank-th prime from the first 200 primes").
var first200Primes = [200]int64{
	2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71,
	73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 127, 131, 137, 139, 149, 151, 157, 163, 167, 173,
	179, 181, 191, 193, 197, 199, 211, 223, 227, 229, 233, 239, 241, 251, 257, 263, 269, 271, 277, 281,
	283, 293, 307, 311, 313, 317, 331, 337, 347, 349, 353, 359, 367, 373, 379, 383, 389, 397, 401, 409,
	419, 421, 431, 433, 439, 443, 449, 457, 461, 463, 467, 479, 487, 491, 499, 503, 509, 521, 523, 541,
	547, 557, 563, 569, 571, 577, 587, 593, 599, 601, 607, 613, 617, 619, 631, 641, 643, 647, 653, 659,
	661, 673, 677, 683, 691, 701, 709, 719, 727, 733, 739, 743, 751, 757, 761, 769, 773, 787, 797, 809,
	811, 821, 823, 827, 829, 839, 853, 857, 859, 863, 877, 881, 883, 887, 907, 911, 919, 929, 937, 941,
	947, 953, 967, 971, 977, 983, 991, 997, 1009, 1013, 1019, 1021, 1031, 1033, 1039, 1049, 1051, 1061, 1063, 1069,
	1087, 1091, 1093, 1097, 1103, 1109, 1117, 1123, 1129, 1151, 1153, 1163, 1171, 1181, 1187, 1193, 1201, 1213, 1217, 1223,
}

const maxRefinementRounds = 100

type atomInvariant struct {
	curr  int64
	last  int64
	prime int64
}

// CanonicalLabels assigns N distinct-where-possible integer labels to
// mol's atoms via spec.md §4.2. It never fails outright: non-termination
// within 100 rounds degrades to "best-effort labels" rather than an
// error, matching the spec's stated failure mode.
func CanonicalLabels(mol *Molecule) ([]int, error) {
	n := mol.AtomCount()
	if n == 0 {
		return nil, nil
	}
	inv := make([]atomInvariant, n)

	for i := 0; i < n; i++ {
		inv[i].curr = initialInvariant(mol, i)
		inv[i].last = 0
		inv[i].prime = first200Primes[0]
	}
	rerank(inv)

	for round := 0; round < maxRefinementRounds; round++ {
		next := make([]int64, n)
		for i := 0; i < n; i++ {
			p := int64(1)
			for _, nb := range heavyNeighbors(mol, i) {
				p *= inv[nb].prime
			}
			next[i] = p
		}
		for i := 0; i < n; i++ {
			inv[i].last = inv[i].curr
			inv[i].curr = next[i]
		}
		order := rerank(inv)

		maxCurr := int64(0)
		invariantPartition := true
		for i := 0; i < n; i++ {
			if inv[i].curr != inv[i].last {
				invariantPartition = false
			}
			if inv[i].curr > maxCurr {
				maxCurr = inv[i].curr
			}
		}

		if invariantPartition && maxCurr == int64(n) {
			break
		}
		if invariantPartition && maxCurr < int64(n) {
			breakLowestTie(inv, order)
			continue
		}
		// Not yet an invariant partition: just let the loop run another round.
	}

	labels := make([]int, n)
	for i := 0; i < n; i++ {
		labels[i] = int(inv[i].curr)
	}
	return labels, nil
}

// initialInvariant builds the lexical-concatenation invariant of
// spec.md §4.2 step 1.
func initialInvariant(mol *Molecule, i int) int64 {
	totalConn := mol.TotalDegree(i)
	heavyConn := mol.HeavyDegree(i)
	charge := mol.AtomCharge(i)
	atomicNum, _ := AtomicNumber(mol.Element(i))
	chargeSign := 0
	if charge < 0 {
		chargeSign = 1
	}
	absCharge := charge
	if absCharge < 0 {
		absCharge = -absCharge
	}
	implicitH := mol.ImplicitH(i)

	s := fmt.Sprintf("%02d%02d%03d%01d%02d%02d", totalConn, heavyConn, atomicNum, chargeSign, absCharge, implicitH)
	var v int64
	for _, c := range s {
		v = v*10 + int64(c-'0')
	}
	return v
}

// heavyNeighbors lists the heavy-atom neighbor indices of atom i, reading
// connectivity off the molecule's gonum/graph.Weighted backing.
func heavyNeighbors(mol *Molecule, i int) []int {
	g := mol.Graph()
	it := g.From(int64(i))
	out := make([]int, 0, it.Len())
	for it.Next() {
		out = append(out, int(it.Node().ID()))
	}
	sort.Ints(out)
	return out
}

// rerank sorts atoms ascending by (last, curr), assigns dense group ranks
// starting at 1, and replaces each atom's curr/prime with its rank and
// the rank-th prime (spec.md §4.2 step 2). Returns the sorted atom-index
// order used, which breakLowestTie needs.
func rerank(inv []atomInvariant) []int {
	n := len(inv)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if inv[ia].last != inv[ib].last {
			return inv[ia].last < inv[ib].last
		}
		return inv[ia].curr < inv[ib].curr
	})

	rank := 0
	var prevLast, prevCurr int64
	havePrev := false
	ranks := make([]int64, n)
	for _, idx := range order {
		if !havePrev || inv[idx].last != prevLast || inv[idx].curr != prevCurr {
			rank++
			prevLast, prevCurr = inv[idx].last, inv[idx].curr
			havePrev = true
		}
		ranks[idx] = int64(rank)
	}
	for i := 0; i < n; i++ {
		inv[i].curr = ranks[i]
		inv[i].prime = primeForRank(ranks[i])
	}
	return order
}

func primeForRank(rank int64) int64 {
	idx := rank - 1
	if idx < 0 {
		idx = 0
	}
	if int(idx) >= len(first200Primes) {
		idx = int64(len(first200Primes) - 1)
	}
	return first200Primes[idx]
}

// breakLowestTie implements spec.md §4.2 step 4's tie-break: double every
// curr, find the first (lowest-index, in sorted order) atom whose
// doubled curr equals its predecessor's, and decrement that one curr by
// one.
func breakLowestTie(inv []atomInvariant, order []int) {
	for i := range inv {
		inv[i].curr *= 2
	}
	for pos := 1; pos < len(order); pos++ {
		cur, prev := order[pos], order[pos-1]
		if inv[cur].curr == inv[prev].curr {
			inv[cur].curr--
			return
		}
	}
}

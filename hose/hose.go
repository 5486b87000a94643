/*
 * hose.go, part of vamos-hose.
 *
 * The HOSE generator (C3): a two-pass ordered breadth-first traversal
 * producing a canonical, byte-exact code string for one atom. This has
 * no teacher ancestor in gochem (nothing in the retrieval pack builds a
 * scoring tree like this); it is grounded directly on the algorithm
 * contract in the spec's §4.3, transcribed literally rather than
 * reinterpreted, since any divergence breaks lookups for every molecule
 * containing the affected substructure.
 */

package hose

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Ghost---Shadow/vamos-hose/molgraph"
)

// DefaultMaxSpheres is the reference sphere depth (spec.md §6).
const DefaultMaxSpheres = 4

// Molecule is the capability surface C3 consumes. *molgraph.Molecule
// satisfies it directly.
type Molecule interface {
	AtomCount() int
	Neighbors(i int) []molgraph.NeighborRef
	BondOrder(b int) int
	IsAromatic(b int) bool
	Element(i int) string
	AtomCharge(i int) int
	ImplicitH(i int) int
	SymmetryRank(i int) int
	TotalDegree(i int) int
}

// Hose computes the canonical HOSE code for atom center in mol, out to
// maxSpheres concentric spheres. It is a pure function of mol and
// center: calling it twice with the same inputs yields the same string.
func Hose(mol Molecule, center int, maxSpheres int) (string, error) {
	if maxSpheres <= 0 {
		maxSpheres = DefaultMaxSpheres
	}
	spheres := buildSpheres(mol, center, maxSpheres)
	scoreAndSort(mol, center, spheres)
	return emit(spheres, maxSpheres), nil
}

// buildSpheres runs pass 1 (spec.md §4.3): for each sphere, a list of
// transient tree nodes, sorted ascending by canonical label once built.
func buildSpheres(mol Molecule, center int, maxSpheres int) [][]*node {
	spheres := make([][]*node, maxSpheres)
	root := newRoot(center)

	sphere0 := make([]*node, 0)
	for _, nb := range mol.Neighbors(center) {
		sphere0 = append(sphere0, &node{
			kind: kindAtom, atomIdx: nb.AtomIndex, element: mol.Element(nb.AtomIndex),
			charge: mol.AtomCharge(nb.AtomIndex),
			bondType: bondTypeOf(mol, nb.BondIndex), parent: root, parentAtomIdx: center,
			degree: mol.TotalDegree(nb.AtomIndex),
		})
	}
	for i := 0; i < mol.ImplicitH(center); i++ {
		sphere0 = append(sphere0, &node{
			kind: kindHydrogen, atomIdx: -1, element: "H", bondType: bondHydrogen,
			parent: root, parentAtomIdx: center, degree: 0,
		})
	}
	sortByCanonicalLabel(mol, sphere0)
	if maxSpheres > 0 {
		spheres[0] = sphere0
	}

	for s := 1; s < maxSpheres; s++ {
		prev := spheres[s-1]
		next := make([]*node, 0)
		for _, n := range prev {
			if n.kind != kindAtom {
				continue
			}
			next = append(next, expandAtomNode(mol, n)...)
		}
		sortByCanonicalLabel(mol, next)
		spheres[s] = next
	}
	return spheres
}

// expandAtomNode produces sphere s's children for one real-atom node n
// from sphere s-1, per spec.md §4.3's "Sphere s>0" rule.
func expandAtomNode(mol Molecule, n *node) []*node {
	impl := mol.ImplicitH(n.atomIdx)
	nbrs := mol.Neighbors(n.atomIdx)

	if len(nbrs) == 1 && impl == 0 {
		return []*node{{
			kind: kindComma, atomIdx: -1, element: ",", bondType: bondComma,
			parent: n, parentAtomIdx: n.atomIdx, degree: 0,
		}}
	}

	children := make([]*node, 0, len(nbrs)+impl)
	for _, nb := range nbrs {
		if nb.AtomIndex == n.parentAtomIdx {
			continue
		}
		children = append(children, &node{
			kind: kindAtom, atomIdx: nb.AtomIndex, element: mol.Element(nb.AtomIndex),
			charge: mol.AtomCharge(nb.AtomIndex),
			bondType: bondTypeOf(mol, nb.BondIndex), parent: n, parentAtomIdx: n.atomIdx,
			degree: mol.TotalDegree(nb.AtomIndex),
		})
	}
	for i := 0; i < impl; i++ {
		children = append(children, &node{
			kind: kindHydrogen, atomIdx: -1, element: "H", bondType: bondHydrogen,
			parent: n, parentAtomIdx: n.atomIdx, degree: 0,
		})
	}
	return children
}

func bondTypeOf(mol Molecule, bondIdx int) int {
	if mol.IsAromatic(bondIdx) {
		return 4
	}
	return mol.BondOrder(bondIdx)
}

// sortByCanonicalLabel sorts a freshly built sphere ascending by C2's
// canonical label. Synthetic H/comma nodes carry no atom index to rank
// by, so they're given a reserved high key: spec.md §4.3 describes this
// as "defined (low) keys so that runs of H sink to a stable end", which
// this reproduces by sorting them after every real atom.
func sortByCanonicalLabel(mol Molecule, sphere []*node) {
	key := func(n *node) int {
		if n.kind == kindAtom {
			return mol.SymmetryRank(n.atomIdx)
		}
		return math.MaxInt32
	}
	sort.SliceStable(sphere, func(i, j int) bool {
		return key(sphere[i]) < key(sphere[j])
	})
}

// scoreAndSort runs pass 2, steps 1-6 of spec.md §4.3.
func scoreAndSort(mol Molecule, center int, spheres [][]*node) {
	accumulateDegrees(spheres)
	scoreAndInitialSort(mol, center, spheres)
	mergeRanking(spheres)
	forwardStringscore(spheres)
	backwardStringscore(spheres)
	forwardStringscore(spheres)
}

// accumulateDegrees is step 1: bottom-up, add every node's degree into
// its parent's ranking.
func accumulateDegrees(spheres [][]*node) {
	for s := len(spheres) - 1; s >= 0; s-- {
		for _, n := range spheres[s] {
			if n.parent != nil {
				n.parent.ranking += n.degree
			}
		}
	}
}

// scoreAndInitialSort is step 2: element/bond/ring-closure scoring,
// sphere by sphere. A single visited set, updated as each node is
// scored, both carries ring-closure detection across spheres and
// resolves the case where the same atom is reached twice within one
// sphere (the far side of a ring, equidistant from the center along
// two branches): the first occurrence encountered scores as a plain
// atom, the second as the ring closure.
func scoreAndInitialSort(mol Molecule, center int, spheres [][]*node) {
	visited := map[int]bool{center: true}
	for _, sphere := range spheres {
		for _, n := range sphere {
			switch {
			case n.kind == kindAtom && visited[n.atomIdx]:
				n.score = rankRingClosure
				n.ringClose = true
			case n.kind == kindAtom:
				n.score = elementRank(n.element)
			case n.kind == kindHydrogen:
				n.score = rankH
			default: // comma
				n.score = rankComma
			}
			n.score += bondRank(n.bondType)
			n.stringscore = zeropad6(n.score)

			if n.kind == kindAtom {
				visited[n.atomIdx] = true
			}
		}
		sortDescendingByStringscore(sphere)
	}
}

// mergeRanking is step 3.
func mergeRanking(spheres [][]*node) {
	for _, sphere := range spheres {
		for _, n := range sphere {
			n.score += n.ranking
			n.stringscore = zeropad6(n.score)
		}
		sortDescendingByStringscore(sphere)
	}
}

// forwardStringscore is steps 4 and 6: rebuild each sphere's
// stringscore as parent.stringscore + zeropad6(score), outermost
// sphere last.
func forwardStringscore(spheres [][]*node) {
	for _, sphere := range spheres {
		for _, n := range sphere {
			parentSS := ""
			if n.parent != nil {
				parentSS = n.parent.stringscore
			}
			n.stringscore = parentSS + zeropad6(n.score)
		}
		sortDescendingByStringscore(sphere)
	}
}

// backwardStringscore is step 5: propagate each node's stringscore up
// into its parent, outermost sphere first, re-sorting the parent
// sphere after each propagation.
func backwardStringscore(spheres [][]*node) {
	for s := len(spheres) - 1; s >= 1; s-- {
		for _, n := range spheres[s] {
			n.parent.stringscore = n.stringscore
		}
		sortDescendingByStringscore(spheres[s-1])
	}
}

func sortDescendingByStringscore(sphere []*node) {
	sort.SliceStable(sphere, func(i, j int) bool {
		return sphere[i].stringscore > sphere[j].stringscore
	})
}

func zeropad6(score int) string {
	return fmt.Sprintf("%06d", score)
}

// emit is step 7: render the scored, sorted spheres into the final
// HOSE string.
func emit(spheres [][]*node, maxSpheres int) string {
	var out strings.Builder
	if len(spheres) > 0 {
		emitSphereBody(&out, spheres[0])
	}

	lastPos := -1
	for s := 1; s < maxSpheres; s++ {
		out.WriteByte(delimiterAt(s - 1))
		lastPos = s - 1
		if s < len(spheres) {
			emitSphereBody(&out, spheres[s])
		}
	}
	for pos := lastPos + 1; pos <= maxSpheres-1; pos++ {
		out.WriteByte(delimiterAt(pos))
	}
	return out.String()
}

// emitSphereBody renders one sphere's nodes in their final sorted
// order, interleaving "," between runs of siblings from different
// parents and suppressing output for nodes whose parent was a stopper.
// Ring closures were already decided during scoring (n.ringClose,
// scoreAndInitialSort's visited set); emission just prints whatever
// token each node was scored as and never re-derives ring membership.
func emitSphereBody(out *strings.Builder, sphere []*node) {
	if len(sphere) == 0 {
		return
	}
	currentBranch := sphere[0].parentAtomIdx
	for i, n := range sphere {
		if i > 0 && !n.parent.stopper && n.parentAtomIdx != currentBranch {
			out.WriteByte(',')
			currentBranch = n.parentAtomIdx
		}
		if n.parent.stopper {
			n.stopper = true
		} else {
			out.WriteString(bondSymbol(n.bondType))
			out.WriteString(tokenFor(n))
		}
	}
}

// tokenFor implements §4.3's per-node token emission.
func tokenFor(n *node) string {
	switch n.kind {
	case kindHydrogen:
		return "H"
	case kindComma:
		return ""
	}
	if n.ringClose {
		n.stopper = true
		return "&" + chargeSuffix(n.charge)
	}
	return bremser(n.element) + chargeSuffix(n.charge)
}

/*
 * molecule.go, part of vamos-hose.
 *
 * Adapted from gochem's chem.go (Atom/Topology) and bonds.go (Bond). The
 * teacher's Atom/Topology carry PDB/MD fields (b-factors, occupancy,
 * chains, coordinates); here an Atom is a pure graph vertex and a Molecule
 * is pure topology, matching spec.md §3's "Molecule (external)" data
 * model: the only things a consumer gets are element, charge, implicit-H,
 * neighbor bonds and (post-perception) a symmetry rank.
 */

package molgraph

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Atom is one vertex of a Molecule's graph.
type Atom struct {
	Index     int
	Symbol    string
	Charge    int
	ImplicitH int
	Aromatic  bool // true if the atom itself was written in lowercase (ring-aromatic)

	bonds []*Bond // bonds incident to this atom, in the order they were added

	rankSet bool
	rank    int // symmetry rank, filled in by EnsureDerivedTables
}

// ID implements gonum/graph.Node, the same way gochem's chemgraph.Atom
// does (chemgraph/graph.go), letting a Molecule back itself with a
// gonum/graph/simple.WeightedUndirectedGraph for connectivity queries.
func (a *Atom) ID() int64 { return int64(a.Index) }

// Bond connects two atoms. Order is one of 1 (single), 2 (double) or 3
// (triple); Aromatic, when true, supersedes Order for every purpose the
// HOSE generator cares about (spec.md §3).
type Bond struct {
	Index    int
	At1, At2 *Atom
	Order    int
	Aromatic bool
}

// Cross returns the atom at the other end of the bond from origin.
// Adapted from gochem's bonds.go Bond.Cross.
func (b *Bond) Cross(origin *Atom) *Atom {
	switch origin.Index {
	case b.At1.Index:
		return b.At2
	case b.At2.Index:
		return b.At1
	default:
		panic("molgraph: Cross called with an atom not in the bond")
	}
}

// NeighborRef is one entry of Molecule.Neighbors: the neighboring atom's
// index and the index of the bond connecting to it.
type NeighborRef struct {
	AtomIndex int
	BondIndex int
}

// Molecule is the C1 molecule adapter's backing type: an ordered,
// 0-indexed atom list plus the bonds between them. It never exposes a
// mutable view to callers beyond what's needed to build the graph.
type Molecule struct {
	Atoms    []*Atom
	Bonds    []*Bond
	Charge   int
	Unpaired int

	g       *simple.WeightedUndirectedGraph
	derived bool
}

// New returns an empty Molecule with the given total charge and number of
// unpaired electrons (the latter unused by this package but kept for
// parity with gochem's Topology, which any future QM-adjacent producer of
// a Molecule would want to set).
func New(charge, unpaired int) *Molecule {
	return &Molecule{Charge: charge, Unpaired: unpaired, g: simple.NewWeightedUndirectedGraph(0, 0)}
}

// AddAtom appends a new atom and returns its index.
func (m *Molecule) AddAtom(symbol string, charge, implicitH int, aromatic bool) int {
	idx := len(m.Atoms)
	at := &Atom{
		Index:     idx,
		Symbol:    symbol,
		Charge:    charge,
		ImplicitH: implicitH,
		Aromatic:  aromatic,
	}
	m.Atoms = append(m.Atoms, at)
	m.g.AddNode(at)
	return idx
}

// AddBond connects atoms i and j and returns the new bond's index. Panics
// if either index is out of range, mirroring gochem's "fundamental
// functions panic on programmer error" stance (chem.go).
func (m *Molecule) AddBond(i, j, order int, aromatic bool) int {
	if i >= len(m.Atoms) || j >= len(m.Atoms) {
		panic("molgraph: AddBond atom index out of range")
	}
	idx := len(m.Bonds)
	b := &Bond{Index: idx, At1: m.Atoms[i], At2: m.Atoms[j], Order: order, Aromatic: aromatic}
	m.Bonds = append(m.Bonds, b)
	m.Atoms[i].bonds = append(m.Atoms[i].bonds, b)
	m.Atoms[j].bonds = append(m.Atoms[j].bonds, b)
	weight := float64(order)
	if aromatic {
		weight = 1.5
	}
	m.g.SetWeightedEdge(simple.WeightedEdge{F: m.Atoms[i], T: m.Atoms[j], W: weight})
	return idx
}

// AtomCount returns N, the number of atoms.
func (m *Molecule) AtomCount() int {
	return len(m.Atoms)
}

// Graph exposes the molecule's connectivity as a gonum/graph.Weighted, the
// way chemgraph.TopologyFromChem exposes a *chem.Molecule to the rest of
// gonum/graph. The canonical labeler uses this directly instead of
// reimplementing neighbor iteration.
func (m *Molecule) Graph() graph.Weighted { return m.g }

// Neighbors returns the (neighbor-index, bond-index) pairs for atom i, in
// bond-insertion order.
func (m *Molecule) Neighbors(i int) []NeighborRef {
	at := m.Atoms[i]
	refs := make([]NeighborRef, 0, len(at.bonds))
	for _, b := range at.bonds {
		refs = append(refs, NeighborRef{AtomIndex: b.Cross(at).Index, BondIndex: b.Index})
	}
	return refs
}

// HeavyDegree returns the number of heavy (non-implicit-H) neighbors atom
// i has.
func (m *Molecule) HeavyDegree(i int) int {
	return len(m.Atoms[i].bonds)
}

// TotalDegree returns heavy-neighbor count plus implicit hydrogens, i.e.
// the tree node's "molecular total-bond-count (degree)" field from
// spec.md §3.
func (m *Molecule) TotalDegree(i int) int {
	return m.HeavyDegree(i) + m.Atoms[i].ImplicitH
}

// BondOrder returns the bond's nominal order (1, 2 or 3).
func (m *Molecule) BondOrder(b int) int { return m.Bonds[b].Order }

// IsAromatic returns whether bond b is flagged aromatic.
func (m *Molecule) IsAromatic(b int) bool { return m.Bonds[b].Aromatic }

// Element returns atom i's element symbol.
func (m *Molecule) Element(i int) string { return m.Atoms[i].Symbol }

// AtomCharge returns atom i's formal charge.
func (m *Molecule) AtomCharge(i int) int { return m.Atoms[i].Charge }

// ImplicitH returns atom i's implicit hydrogen count.
func (m *Molecule) ImplicitH(i int) int { return m.Atoms[i].ImplicitH }

// SymmetryRank returns atom i's post-perception symmetry rank. Panics if
// EnsureDerivedTables has not been called, the same "programmer error"
// stance gochem takes for uninitialized derived data.
func (m *Molecule) SymmetryRank(i int) int {
	at := m.Atoms[i]
	if !at.rankSet {
		panic("molgraph: SymmetryRank read before EnsureDerivedTables")
	}
	return at.rank
}

// EnsureDerivedTables triggers symmetry-rank perception (the canonical
// labeler, spec.md §4.2) if it hasn't run yet. Idempotent: a second call
// is a no-op. This is C1's only derived-data hook (spec.md §4.1).
func (m *Molecule) EnsureDerivedTables() error {
	if m.derived {
		return nil
	}
	labels, err := CanonicalLabels(m)
	if err != nil {
		return err
	}
	for i, at := range m.Atoms {
		at.rank = labels[i]
		at.rankSet = true
	}
	m.derived = true
	return nil
}

// String is a debug-only rendering, not used by any HOSE/lookup path.
func (a *Atom) String() string {
	return fmt.Sprintf("%s#%d", a.Symbol, a.Index)
}

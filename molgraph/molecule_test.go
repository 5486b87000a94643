package molgraph

import "testing"

func ethanol() *Molecule {
	m := New(0, 0)
	c1 := m.AddAtom("C", 0, 3, false)
	c2 := m.AddAtom("C", 0, 2, false)
	o := m.AddAtom("O", 0, 1, false)
	m.AddBond(c1, c2, 1, false)
	m.AddBond(c2, o, 1, false)
	return m
}

func TestAddAtomAssignsSequentialIndices(t *testing.T) {
	m := ethanol()
	if m.AtomCount() != 3 {
		t.Fatalf("AtomCount() = %d, want 3", m.AtomCount())
	}
	for i, at := range m.Atoms {
		if at.Index != i {
			t.Errorf("atom %d has Index %d", i, at.Index)
		}
	}
}

func TestNeighborsFollowBondInsertionOrder(t *testing.T) {
	m := ethanol()
	nbrs := m.Neighbors(1) // the central carbon
	if len(nbrs) != 2 {
		t.Fatalf("Neighbors(1) returned %d entries, want 2", len(nbrs))
	}
	if nbrs[0].AtomIndex != 0 || nbrs[1].AtomIndex != 2 {
		t.Errorf("Neighbors(1) = %+v, want [{0 ..} {2 ..}]", nbrs)
	}
}

func TestDegreesCountImplicitHydrogens(t *testing.T) {
	m := ethanol()
	if got := m.HeavyDegree(0); got != 1 {
		t.Errorf("HeavyDegree(0) = %d, want 1", got)
	}
	if got := m.TotalDegree(0); got != 4 {
		t.Errorf("TotalDegree(0) = %d, want 4 (1 heavy + 3 implicit H)", got)
	}
}

func TestAddBondPanicsOnOutOfRangeIndex(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("AddBond with an out-of-range index did not panic")
		}
	}()
	m := New(0, 0)
	m.AddAtom("C", 0, 4, false)
	m.AddBond(0, 5, 1, false)
}

func TestSymmetryRankPanicsBeforeEnsureDerivedTables(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("SymmetryRank before EnsureDerivedTables did not panic")
		}
	}()
	m := ethanol()
	m.SymmetryRank(0)
}

func TestEnsureDerivedTablesIsIdempotent(t *testing.T) {
	m := ethanol()
	if err := m.EnsureDerivedTables(); err != nil {
		t.Fatalf("EnsureDerivedTables() error = %v", err)
	}
	first := m.SymmetryRank(0)
	if err := m.EnsureDerivedTables(); err != nil {
		t.Fatalf("second EnsureDerivedTables() error = %v", err)
	}
	if got := m.SymmetryRank(0); got != first {
		t.Errorf("SymmetryRank(0) changed across repeated EnsureDerivedTables calls: %d -> %d", first, got)
	}
}

func TestGraphReflectsBondWeights(t *testing.T) {
	m := ethanol()
	g := m.Graph()
	w, ok := g.Weight(0, 1)
	if !ok {
		t.Fatal("Graph().Weight(0, 1) reports no edge, want the C-C single bond")
	}
	if w != 1 {
		t.Errorf("Graph().Weight(0, 1) = %v, want 1", w)
	}
}

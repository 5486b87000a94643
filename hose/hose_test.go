package hose

import (
	"testing"

	"github.com/Ghost---Shadow/vamos-hose/molgraph"
	"github.com/Ghost---Shadow/vamos-hose/smiles"
)

func mustParse(t *testing.T, s string) *molgraph.Molecule {
	t.Helper()
	m, err := smiles.Parse(s)
	if err != nil {
		t.Fatalf("smiles.Parse(%q) error = %v", s, err)
	}
	return m
}

func TestHoseBenzeneScenarioS1(t *testing.T) {
	m := mustParse(t, "c1ccccc1")
	got, err := Hose(m, 0, DefaultMaxSpheres)
	if err != nil {
		t.Fatalf("Hose() error = %v", err)
	}
	want := "H*C*C(H,H,*C,*C/H,H,*C,*&/H*&)"
	if got != want {
		t.Errorf("Hose(benzene, 0) = %q, want %q", got, want)
	}
}

func TestHosePropaneScenarioS2(t *testing.T) {
	m := mustParse(t, "CCC")
	cases := []struct {
		atom int
		want string
	}{
		{0, "HHHC(HHC/HHH/)"},
		{1, "HHCC(HHH,HHH//)"},
		{2, "HHHC(HHC/HHH/)"},
	}
	for _, c := range cases {
		got, err := Hose(m, c.atom, DefaultMaxSpheres)
		if err != nil {
			t.Fatalf("Hose(propane, %d) error = %v", c.atom, err)
		}
		if got != c.want {
			t.Errorf("Hose(propane, %d) = %q, want %q", c.atom, got, c.want)
		}
	}
}

func TestHoseAcetoneScenarioS3(t *testing.T) {
	m := mustParse(t, "CC(=O)C")
	cases := []struct {
		atom int
		want string
	}{
		{0, "HHHC(=OC/,HHH/)"},
		{1, "=OCC(,HHH,HHH//)"},
	}
	for _, c := range cases {
		got, err := Hose(m, c.atom, DefaultMaxSpheres)
		if err != nil {
			t.Fatalf("Hose(acetone, %d) error = %v", c.atom, err)
		}
		if got != c.want {
			t.Errorf("Hose(acetone, %d) = %q, want %q", c.atom, got, c.want)
		}
	}
}

func TestHoseCyclohexaneScenarioS4(t *testing.T) {
	m := mustParse(t, "C1CCCCC1")
	got, err := Hose(m, 0, DefaultMaxSpheres)
	if err != nil {
		t.Fatalf("Hose() error = %v", err)
	}
	want := "HHCC(HH,HH,C,C/HH,HH,C,&/HH&)"
	if got != want {
		t.Errorf("Hose(cyclohexane, 0) = %q, want %q", got, want)
	}
}

func TestHoseSymmetryStabilityBenzene(t *testing.T) {
	m := mustParse(t, "c1ccccc1")
	first, _ := Hose(m, 0, DefaultMaxSpheres)
	for i := 1; i < 6; i++ {
		got, _ := Hose(m, i, DefaultMaxSpheres)
		if got != first {
			t.Errorf("Hose(benzene, %d) = %q, want %q (all ring atoms are topologically equivalent)", i, got, first)
		}
	}
}

func TestHoseSymmetryStabilityToluene(t *testing.T) {
	m := mustParse(t, "Cc1ccccc1")
	// Ring atoms: 1 (ipso), 2≡6 (ortho), 3≡5 (meta), 4 (para).
	ortho2, _ := Hose(m, 2, DefaultMaxSpheres)
	ortho6, _ := Hose(m, 6, DefaultMaxSpheres)
	if ortho2 != ortho6 {
		t.Errorf("toluene ortho atoms 2 and 6 diverge: %q vs %q", ortho2, ortho6)
	}
	meta3, _ := Hose(m, 3, DefaultMaxSpheres)
	meta5, _ := Hose(m, 5, DefaultMaxSpheres)
	if meta3 != meta5 {
		t.Errorf("toluene meta atoms 3 and 5 diverge: %q vs %q", meta3, meta5)
	}
}

func TestHoseIsDeterministicAcrossCalls(t *testing.T) {
	m := mustParse(t, "CC(=O)C")
	first, _ := Hose(m, 1, DefaultMaxSpheres)
	for i := 0; i < 5; i++ {
		got, _ := Hose(m, 1, DefaultMaxSpheres)
		if got != first {
			t.Fatalf("Hose is not stable across repeated calls: %q vs %q", got, first)
		}
	}
}

func TestDecodeCountsAtomsAndRingClosures(t *testing.T) {
	sum := Decode("HHCC(HH,HH,C,C/HH,HH,C,&/HH&)")
	if sum.AtomCounts["C"] == 0 {
		t.Errorf("Decode did not count any carbons: %+v", sum)
	}
	if sum.RingClosures == 0 {
		t.Errorf("Decode did not find the ring closure marker '&': %+v", sum)
	}
	if len(sum.Spheres) != 4 {
		t.Errorf("Decode found %d spheres, want 4", len(sum.Spheres))
	}
}

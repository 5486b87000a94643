/*
 * elementdata.go, part of vamos-hose.
 *
 * Adapted from gochem's atomicdata.go: the original keeps small maps of
 * per-element physical constants for "common bio-elements" only, and is
 * deliberately not exhaustive. We keep that same shape and the same
 * "not exhaustive, monotonicity is all that matters" stance (spec.md §6).
 */

package molgraph

// atomicNumber gives the atomic number used by the canonical labeler's
// initial invariant (spec.md §4.2 step 1). Elements outside this table have
// no entry: AtomicNumber reports false and the labeler uses 0 for them.
var atomicNumber = map[string]int{
	"H": 1, "He": 2, "Li": 3, "Be": 4, "B": 5, "C": 6, "N": 7, "O": 8, "F": 9, "Ne": 10,
	"Na": 11, "Mg": 12, "Al": 13, "Si": 14, "P": 15, "S": 16, "Cl": 17, "Ar": 18,
	"K": 19, "Ca": 20, "Cr": 24, "Mn": 25, "Fe": 26, "Co": 27, "Ni": 28, "Cu": 29, "Zn": 30,
	"Se": 34, "Br": 35, "Mo": 42, "Sn": 50, "I": 53, "Pt": 78, "Au": 79, "Hg": 80, "Pb": 82,
}

// atomicMass is used as the fallback lookup-rank source for elements not
// present in the fixed element-rank table (spec.md §6: "800 000 -
// atomicMass(element)"). Kept to the same "just the common elements" scope
// as gochem's symbolMass.
var atomicMass = map[string]float64{
	"H": 1.008, "He": 4.003, "Li": 6.94, "Be": 9.012, "B": 10.81, "C": 12.01, "N": 14.01,
	"O": 16.00, "F": 18.998, "Ne": 20.18, "Na": 22.99, "Mg": 24.30, "Al": 26.98, "Si": 28.08,
	"P": 30.97, "S": 32.06, "Cl": 35.45, "Ar": 39.95, "K": 39.1, "Ca": 40.08, "Cr": 51.996,
	"Mn": 54.94, "Fe": 55.84, "Co": 58.93, "Ni": 58.69, "Cu": 63.55, "Zn": 65.38, "Se": 78.96,
	"Br": 79.904, "Mo": 95.95, "Sn": 118.71, "I": 126.90, "Pt": 195.08, "Au": 196.97,
	"Hg": 200.59, "Pb": 207.2,
}

// defaultValences lists the Daylight-style allowed valence states for the
// SMILES organic subset, smallest first. Used by the smiles package, kept
// here next to the rest of the element tables.
var defaultValences = map[string][]int{
	"B": {3}, "C": {4}, "N": {3, 5}, "O": {2}, "P": {3, 5}, "S": {2, 4, 6},
	"F": {1}, "Cl": {1}, "Br": {1}, "I": {1},
}

// AtomicNumber returns the atomic number for symbol and whether it was
// found in the table.
func AtomicNumber(symbol string) (int, bool) {
	n, ok := atomicNumber[symbol]
	return n, ok
}

// AtomicMass returns the atomic mass for symbol and whether it was found
// in the table.
func AtomicMass(symbol string) (float64, bool) {
	m, ok := atomicMass[symbol]
	return m, ok
}

// OrganicSubsetValences returns the Daylight organic-subset valence list
// for symbol (e.g. "N" -> [3 5]), and whether symbol belongs to the subset.
func OrganicSubsetValences(symbol string) ([]int, bool) {
	v, ok := defaultValences[symbol]
	return v, ok
}

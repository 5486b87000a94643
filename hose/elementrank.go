/*
 * elementrank.go, part of vamos-hose.
 *
 * The fixed-point tables of §6 (External Interfaces): element rank,
 * bond rank, the Bremser substitution table and the delimiter sequence.
 * Grounded on gochem's atomicdata.go in spirit (a small flat lookup
 * table kept next to the code that consumes it) but the values
 * themselves come straight from the external-interfaces contract,
 * since they must be byte-exact against the reference database.
 */

package hose

import (
	"strconv"

	"github.com/Ghost---Shadow/vamos-hose/molgraph"
)

const (
	rankComma       = 1000
	rankRingClosure = 1100
	rankH           = 799999
)

var fixedElementRank = map[string]int{
	"C": 9000, "O": 8900, "N": 8800, "S": 8700, "P": 8600,
	"Si": 8500, "B": 8400, "F": 8300, "Cl": 8200, "Br": 8100, "I": 7900,
	"H": rankH,
}

// elementRank implements §6's element rank table, falling back to
// 800000 - atomicMass(element) for anything not in the fixed table.
func elementRank(symbol string) int {
	if r, ok := fixedElementRank[symbol]; ok {
		return r
	}
	if mass, ok := molgraph.AtomicMass(symbol); ok {
		return 800000 - int(mass)
	}
	return 800000
}

// bondRank implements §6's bond rank: single=0, double=200000,
// triple=300000, aromatic=100000, comma(-1)=50000.
func bondRank(bondType int) int {
	switch bondType {
	case 2:
		return 200000
	case 3:
		return 300000
	case 4:
		return 100000
	case bondComma:
		return 50000
	default:
		return 0
	}
}

// bondSymbol implements §6's bond symbol table.
func bondSymbol(bondType int) string {
	switch bondType {
	case 2:
		return "="
	case 3:
		return "%"
	case 4:
		return "*"
	default:
		return ""
	}
}

var bremserSubstitution = map[string]string{
	"Si": "Q", "Cl": "X", "Br": "Y",
}

// bremser applies §6's Bremser substitution table: Si->Q, Cl->X, Br->Y,
// every other element symbol passes through unchanged.
func bremser(symbol string) string {
	if s, ok := bremserSubstitution[symbol]; ok {
		return s
	}
	return symbol
}

// chargeSuffix renders a formal charge the way tokenFor emits it: +/-
// for |charge|==1, "+n"/"-n" for |charge|>1, nothing for charge==0.
func chargeSuffix(charge int) string {
	switch {
	case charge == 0:
		return ""
	case charge == 1:
		return "+"
	case charge == -1:
		return "-"
	case charge > 1:
		return "+" + strconv.Itoa(charge)
	default:
		return "-" + strconv.Itoa(-charge)
	}
}

// delimiterAt implements §6's delimiter sequence: positions 0.. are
// '(', '/', '/', ')', then '/' indefinitely.
func delimiterAt(pos int) byte {
	switch pos {
	case 0:
		return '('
	case 1, 2:
		return '/'
	case 3:
		return ')'
	default:
		return '/'
	}
}

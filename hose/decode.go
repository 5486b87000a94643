/*
 * decode.go, part of vamos-hose.
 *
 * A supplemented feature: the original project's hose_decoder.py reads
 * a HOSE string back into coarse structural statistics (atom counts,
 * bond-type counts, ring/aromatic flags) for display purposes, rather
 * than reconstructing a molecule. Kept in that same "summarize, don't
 * reconstruct" spirit, translated into the real token syntax this
 * generator actually emits (Bremser-substituted elements, '&' ring
 * closures, the '(' / '/' / ')' sphere delimiters) rather than the
 * Python prototype's simplified placeholder syntax.
 */

package hose

import "strings"

// Summary is a coarse, human-readable description of a HOSE code's
// content: per-sphere bodies, atom-symbol counts and bond-type counts.
type Summary struct {
	Spheres      []string
	AtomCounts   map[string]int
	DoubleBonds  int
	TripleBonds  int
	AromaticBond int
	RingClosures int
}

// Decode splits a HOSE code into its sphere bodies and tallies the
// tokens each one contains. It does not attempt to reverse the
// generator: a HOSE code is lossy by construction (spec.md §3's
// GLOSSARY), so Decode only recovers what the string still carries.
func Decode(code string) Summary {
	sum := Summary{AtomCounts: make(map[string]int)}

	spheres := splitPrefixAndParenthesized(code)
	sum.Spheres = spheres

	for _, sphere := range spheres {
		tallySphere(&sum, sphere)
	}
	return sum
}

// splitPrefixAndParenthesized separates the sphere-0 prefix from the
// parenthesized "(S1/S2/.../Sn)" tail and returns every sphere body in
// order, prefix first.
func splitPrefixAndParenthesized(code string) []string {
	open := strings.IndexByte(code, '(')
	if open < 0 {
		return []string{code}
	}
	prefix := code[:open]
	closeIdx := strings.LastIndexByte(code, ')')
	inner := code
	if closeIdx > open {
		inner = code[open+1 : closeIdx]
	} else {
		inner = code[open+1:]
	}
	return append([]string{prefix}, strings.Split(inner, "/")...)
}

func tallySphere(sum *Summary, sphere string) {
	i := 0
	for i < len(sphere) {
		c := sphere[i]
		switch {
		case c == '&':
			sum.RingClosures++
			i++
		case c == '=':
			sum.DoubleBonds++
			i++
		case c == '%':
			sum.TripleBonds++
			i++
		case c == '*':
			sum.AromaticBond++
			i++
		case c == ',' || c == '+' || c == '-':
			i++
		case c >= '0' && c <= '9':
			i++
		default:
			sym, n := readElementToken(sphere, i)
			if sym != "" {
				sum.AtomCounts[sym]++
			}
			i += n
		}
	}
}

// readElementToken reads one Bremser/element symbol starting at i and
// returns it (reversed out of its Bremser substitution) along with the
// number of bytes consumed.
func readElementToken(s string, i int) (string, int) {
	c := s[i]
	switch c {
	case 'Q':
		return "Si", 1
	case 'X':
		return "Cl", 1
	case 'Y':
		return "Br", 1
	}
	if c >= 'A' && c <= 'Z' {
		if i+1 < len(s) && s[i+1] >= 'a' && s[i+1] <= 'z' {
			return s[i : i+2], 2
		}
		return s[i : i+1], 1
	}
	return "", 1
}

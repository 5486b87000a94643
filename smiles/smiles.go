/*
 * smiles.go, part of vamos-hose.
 *
 * A from-scratch SMILES reader standing in for the external
 * cheminformatics toolkit spec.md §1 assumes a collaborator supplies:
 * nothing in the retrieval pack parses SMILES in pure Go (the one SMILES
 * consumer in the pack, chem_extractor/validator.go, only regex-checks
 * atom tokens, it never builds a graph), so this package is written in
 * gochem's own idiom instead -- a small byte scanner that reports
 * malformed input as a *Error carrying the offset -- applied to a domain
 * gochem itself never covered.
 */

package smiles

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Ghost---Shadow/vamos-hose/molgraph"
)

// aromaticOrganic maps a lowercase organic-subset symbol to its
// uppercase element.
var aromaticOrganic = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
}

// organicSubset is the set of atoms usable outside brackets, per the
// Daylight organic subset (spec.md §1's external-parser assumption,
// resolved here since we're standing in for that parser).
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
}

// Error reports a malformed SMILES string. It carries the offending
// string and byte offset so a caller can point a user at the problem.
type Error struct {
	Input  string
	Offset int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("smiles: %s at offset %d in %q", e.Reason, e.Offset, e.Input)
}

// Parse reads a SMILES string and returns the molgraph.Molecule it
// describes. Only the single-molecule case is supported: a "." in the
// input (disconnected structures) is an error, since spec.md's [MODULE]
// C1 takes one Molecule per lookup/estimate call.
func Parse(s string) (*molgraph.Molecule, error) {
	p := &parser{src: s, mol: molgraph.New(0, 0)}
	if err := p.run(); err != nil {
		return nil, err
	}
	p.fillImplicitHydrogens()
	if err := p.mol.EnsureDerivedTables(); err != nil {
		return nil, err
	}
	return p.mol, nil
}

// fillImplicitHydrogens assigns each organic-subset atom's implicit
// hydrogen count from the Daylight default-valence tables, the same
// model every SMILES toolkit uses for atoms that weren't written with
// an explicit bracket H count.
func (p *parser) fillImplicitHydrogens() {
	for _, idx := range p.organicIdx {
		sym := p.mol.Element(idx)
		valences, ok := molgraph.OrganicSubsetValences(sym)
		if !ok {
			continue
		}
		used := 0
		for _, nb := range p.mol.Neighbors(idx) {
			used += p.mol.BondOrder(nb.BondIndex)
		}
		if p.mol.Atoms[idx].Aromatic {
			// Each aromatic ring bond is stored with Order 1 (the
			// delocalized bond order isn't an integer), so an aromatic
			// atom's two ring bonds would otherwise count as only one
			// bond's worth of valence. Add the bond-order-1.5 rounding
			// back in as a single extra unit of used valence, the usual
			// aromatic-valence-model shortcut: benzene's c resolves to
			// valence(4) - used(2 exact ring bonds + 1) = 1 implicit H.
			used++
		}
		valence := valences[len(valences)-1]
		for _, v := range valences {
			if v >= used {
				valence = v
				break
			}
		}
		h := valence - used
		if h < 0 {
			h = 0
		}
		p.mol.Atoms[idx].ImplicitH = h
	}
}

type ringClosure struct {
	atom    int
	order   int
	arom    bool
	hadBond bool
}

type parser struct {
	src string
	pos int
	mol *molgraph.Molecule

	prev     int // index of the most recently placed atom, -1 if none
	pendBond int // 0 = unset (default), 1/2/3 = explicit, 4 = aromatic
	rings    map[int]ringClosure

	organicIdx []int // atoms whose implicit-H count still needs filling in
}

func (p *parser) run() error {
	p.prev = -1
	p.rings = make(map[int]ringClosure)
	var branchStack []int

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '.':
			return p.errorf("disconnected structures are not supported")
		case c == '(':
			branchStack = append(branchStack, p.prev)
			p.pos++
		case c == ')':
			if len(branchStack) == 0 {
				return p.errorf("unbalanced ')'")
			}
			p.prev = branchStack[len(branchStack)-1]
			branchStack = branchStack[:len(branchStack)-1]
			p.pos++
		case c == '-' || c == '=' || c == '#' || c == ':':
			if p.pendBond != 0 {
				return p.errorf("two bond symbols in a row")
			}
			p.pendBond = bondOrderFor(c)
			p.pos++
		case c == '%':
			if err := p.ringClosure(true); err != nil {
				return err
			}
		case c >= '0' && c <= '9':
			if err := p.ringClosure(false); err != nil {
				return err
			}
		case c == '[':
			if err := p.bracketAtom(); err != nil {
				return err
			}
		default:
			if err := p.organicAtom(); err != nil {
				return err
			}
		}
	}
	if len(branchStack) != 0 {
		return p.errorf("unbalanced '('")
	}
	if len(p.rings) != 0 {
		return p.errorf("unclosed ring bond")
	}
	return nil
}

func bondOrderFor(c byte) int {
	switch c {
	case '-':
		return 1
	case '=':
		return 2
	case '#':
		return 3
	case ':':
		return 4
	}
	return 0
}

// ringClosure consumes a ring-bond digit (or %nn) and either opens or
// closes the ring, depending on whether that number has been seen
// before.
func (p *parser) ringClosure(percent bool) error {
	if p.prev < 0 {
		return p.errorf("ring bond before any atom")
	}
	start := p.pos
	var num int
	if percent {
		p.pos++ // consume '%'
		if p.pos+2 > len(p.src) {
			return p.errorf("truncated %%nn ring bond")
		}
		n, err := strconv.Atoi(p.src[p.pos : p.pos+2])
		if err != nil {
			return p.errorf("invalid %%nn ring bond")
		}
		num = n
		p.pos += 2
	} else {
		num = int(p.src[p.pos] - '0')
		p.pos++
	}
	_ = start

	order := 1
	arom := false
	switch p.pendBond {
	case 2:
		order = 2
	case 3:
		order = 3
	case 4:
		arom = true
	}
	hadBond := p.pendBond != 0
	p.pendBond = 0

	if rc, open := p.rings[num]; open {
		delete(p.rings, num)
		finalOrder, finalArom := order, arom
		if !hadBond {
			finalOrder, finalArom = rc.order, rc.arom
		}
		if !hadBond && !rc.hadBond && p.mol.Atoms[rc.atom].Aromatic && p.mol.Atoms[p.prev].Aromatic {
			// Neither ring-bond digit carried an explicit bond symbol: per
			// OpenSMILES/Daylight, a default bond between two aromatic-subset
			// atoms is aromatic.
			finalArom = true
		}
		p.mol.AddBond(rc.atom, p.prev, finalOrder, finalArom)
		return nil
	}
	p.rings[num] = ringClosure{atom: p.prev, order: order, arom: arom, hadBond: hadBond}
	return nil
}

// organicAtom consumes one bracket-free atom token: an optional
// two-letter element (Cl, Br) or a one-letter/aromatic element.
func (p *parser) organicAtom() error {
	start := p.pos
	c := p.src[p.pos]

	sym := string(c)
	lower := strings.ToLower(sym)
	aromatic := false
	if elem, ok := aromaticOrganic[lower]; ok && sym == lower {
		aromatic = true
		sym = elem
	}

	if sym == "C" || sym == "B" {
		if p.pos+1 < len(p.src) {
			two := p.src[p.pos : p.pos+2]
			if two == "Cl" || two == "Br" {
				sym = two
			}
		}
	}
	if !organicSubset[sym] {
		return p.errorf("unrecognized organic-subset atom %q", sym)
	}
	p.pos += len(sym)

	idx := p.mol.AddAtom(sym, 0, 0, aromatic)
	p.organicIdx = append(p.organicIdx, idx)
	p.bondFromPrev(idx)
	p.prev = idx
	_ = start
	return nil
}

// bracketAtom consumes a "[...]" atom specification: isotope (skipped),
// element, aromatic flag, chirality (skipped), hcount, charge and atom
// class (skipped).
func (p *parser) bracketAtom() error {
	start := p.pos
	p.pos++ // consume '['
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++ // isotope, unused by HOSE generation
	}
	if p.pos >= len(p.src) {
		return p.errorf("unterminated '['")
	}

	elemStart := p.pos
	aromatic := false
	if p.src[p.pos] >= 'a' && p.src[p.pos] <= 'z' {
		aromatic = true
	}
	p.pos++
	if p.pos < len(p.src) && p.src[p.pos] >= 'a' && p.src[p.pos] <= 'z' {
		p.pos++
	}
	sym := p.src[elemStart:p.pos]
	if aromatic {
		sym = strings.ToUpper(sym[:1]) + sym[1:]
	}

	for p.pos < len(p.src) && (p.src[p.pos] == '@') {
		p.pos++ // chirality, unused by HOSE generation
	}

	hcount := 0
	if p.pos < len(p.src) && p.src[p.pos] == 'H' {
		p.pos++
		n := 1
		digitStart := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		if p.pos > digitStart {
			n, _ = strconv.Atoi(p.src[digitStart:p.pos])
		}
		hcount = n
	}

	charge := 0
	if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
		sign := 1
		if p.src[p.pos] == '-' {
			sign = -1
		}
		symCh := p.src[p.pos]
		p.pos++
		run := 1
		for p.pos < len(p.src) && p.src[p.pos] == symCh {
			run++
			p.pos++
		}
		n := run
		digitStart := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		if p.pos > digitStart {
			n, _ = strconv.Atoi(p.src[digitStart:p.pos])
		}
		charge = sign * n
	}

	if p.pos < len(p.src) && p.src[p.pos] == ':' {
		p.pos++ // atom class marker
	}
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++ // atom class, unused by HOSE generation
	}

	if p.pos >= len(p.src) || p.src[p.pos] != ']' {
		return p.errorf("unterminated bracket atom")
	}
	p.pos++ // consume ']'

	idx := p.mol.AddAtom(sym, charge, hcount, aromatic)
	p.bondFromPrev(idx)
	p.prev = idx
	_ = start
	return nil
}

func (p *parser) bondFromPrev(idx int) {
	if p.prev < 0 {
		p.pendBond = 0
		return
	}
	order, arom := 1, false
	switch p.pendBond {
	case 2:
		order = 2
	case 3:
		order = 3
	case 4:
		arom = true
	case 0:
		// No explicit bond symbol: per OpenSMILES/Daylight, a default bond
		// between two aromatic-subset atoms is itself aromatic, not a
		// single bond.
		if p.mol.Atoms[p.prev].Aromatic && p.mol.Atoms[idx].Aromatic {
			arom = true
		}
	}
	p.mol.AddBond(p.prev, idx, order, arom)
	p.pendBond = 0
}

func (p *parser) errorf(reason string, args ...interface{}) error {
	return &Error{Input: p.src, Offset: p.pos, Reason: fmt.Sprintf(reason, args...)}
}

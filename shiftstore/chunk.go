/*
 * chunk.go, part of vamos-hose.
 *
 * The shift-store payload shapes (spec.md §3, §6). A chunk is a plain
 * map from HOSE key to shift entry; each entry flattens its nucleus and
 * reference SMILES alongside one submap per solvent, so Entry carries
 * its own MarshalJSON/UnmarshalJSON rather than relying on struct tags,
 * the same "the wire shape isn't the Go shape" move stf.go makes for
 * its packed coordinate records.
 */

package shiftstore

import "encoding/json"

// SolventStats is one solvent's aggregate over every measurement on file
// for a given HOSE key (spec.md §3's shift-entry payload).
type SolventStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	Cnt int     `json:"cnt"`
}

// Entry is one HOSE key's stored shift data: the target nucleus letter,
// a reference SMILES, and per-solvent aggregates. The wire form keys
// nucleus and SMILES as "n" and "s"; every other key is a solvent name.
type Entry struct {
	Nucleus  string
	SMILES   string
	Solvents map[string]SolventStats
}

// MarshalJSON flattens Entry back into the wire shape described in
// spec.md §6: {"n": ..., "s": ..., "<solvent>": {...}, ...}.
func (e Entry) MarshalJSON() ([]byte, error) {
	raw := make(map[string]interface{}, len(e.Solvents)+2)
	raw["n"] = e.Nucleus
	raw["s"] = e.SMILES
	for solvent, stats := range e.Solvents {
		raw[solvent] = stats
	}
	return json.Marshal(raw)
}

// UnmarshalJSON splits the flattened wire shape back into Nucleus,
// SMILES and a Solvents submap, treating any key other than "n"/"s" as
// a solvent name.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Solvents = make(map[string]SolventStats, len(raw))
	for key, val := range raw {
		switch key {
		case "n":
			if err := json.Unmarshal(val, &e.Nucleus); err != nil {
				return err
			}
		case "s":
			if err := json.Unmarshal(val, &e.SMILES); err != nil {
				return err
			}
		default:
			var stats SolventStats
			if err := json.Unmarshal(val, &stats); err != nil {
				return err
			}
			e.Solvents[key] = stats
		}
	}
	return nil
}

// Chunk is one of the store's 256 disjoint key partitions (spec.md §3).
type Chunk map[string]Entry

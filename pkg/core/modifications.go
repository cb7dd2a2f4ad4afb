package core

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Modification is a mass shift applied to one residue of a peptide.
type Modification struct {
	Mass     float64
	Position int    // 0-based residue index; -1 for N-term
	Name     string // Name as written in the mod string (or the numeric mass)
}

// ModDatabase maps modification names to mass shifts
type ModDatabase struct {
	mods map[string]float64
}

// NewModDatabase creates an empty modification database
func NewModDatabase() *ModDatabase {
	return &ModDatabase{
		mods: make(map[string]float64),
	}
}

// LoadFromCSV loads modifications from CSV (header line, then name,massshift[,...])
func (db *ModDatabase) LoadFromCSV(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	// Skip header line
	scanner.Scan()

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			return fmt.Errorf("line %d: invalid format, expected at least 2 comma-separated fields", lineNum)
		}

		name := strings.TrimSpace(parts[0])
		massStr := strings.TrimSpace(parts[1])

		mass, err := strconv.ParseFloat(massStr, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid mass value '%s': %w", lineNum, massStr, err)
		}

		db.mods[name] = mass
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading CSV: %w", err)
	}

	return nil
}

// GetMass returns the mass shift for a modification name
func (db *ModDatabase) GetMass(name string) (float64, bool) {
	mass, ok := db.mods[name]
	return mass, ok
}

// Add adds or updates a modification
func (db *ModDatabase) Add(name string, mass float64) {
	db.mods[name] = mass
}

// Len returns the number of known modifications
func (db *ModDatabase) Len() int {
	return len(db.mods)
}

// ParseModString parses "Oxidation@M8;57.021464@2" style strings. Each entry
// is a name or a numeric mass, '@', then a 1-based position optionally
// prefixed by the residue letter, which must then match the sequence.
func (db *ModDatabase) ParseModString(modStr string, sequence string) ([]Modification, error) {
	if strings.TrimSpace(modStr) == "" {
		return nil, nil
	}

	var mods []Modification
	for _, part := range strings.Split(modStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		nameOrMass, posStr, ok := strings.Cut(part, "@")
		if !ok || strings.Contains(posStr, "@") {
			return nil, invalid("mods", "entry '%s' is not 'name@position' or 'mass@position'", part)
		}
		nameOrMass = strings.TrimSpace(nameOrMass)

		mass, err := strconv.ParseFloat(nameOrMass, 64)
		if err != nil {
			var known bool
			mass, known = db.GetMass(nameOrMass)
			if !known {
				return nil, invalid("mods", "unknown modification '%s'", nameOrMass)
			}
		}

		position, err := parsePosition(posStr, sequence)
		if err != nil {
			return nil, err
		}

		mods = append(mods, Modification{
			Mass:     mass,
			Position: position,
			Name:     nameOrMass,
		})
	}

	return mods, nil
}

// parsePosition accepts "8", "M8", "0" or "-1" (both N-term)
func parsePosition(posStr string, sequence string) (int, error) {
	posStr = strings.TrimSpace(posStr)
	if posStr == "-1" || posStr == "0" {
		return -1, nil
	}

	var residue rune
	if posStr != "" {
		if r := rune(posStr[0]); r >= 'A' && r <= 'Z' {
			residue = r
			posStr = posStr[1:]
		}
	}

	pos, err := strconv.Atoi(posStr)
	if err != nil {
		return 0, invalid("mods", "invalid position '%s'", posStr)
	}
	if pos < 1 || pos > len(sequence) {
		return 0, invalid("mods", "position %d outside sequence of length %d", pos, len(sequence))
	}
	if residue != 0 && rune(sequence[pos-1]) != residue {
		return 0, invalid("mods", "position %d is %c, not %c", pos, sequence[pos-1], residue)
	}

	return pos - 1, nil
}

// Adjustments folds modifications into one mass shift per residue.
// N-terminal modifications land on the first residue.
func Adjustments(sequence string, mods []Modification) ([]float64, error) {
	adj := make([]float64, len(sequence))
	for _, mod := range mods {
		pos := mod.Position
		if pos == -1 {
			pos = 0
		}
		if pos < 0 || pos >= len(adj) {
			return nil, invalid("mods", "%s at position %d outside sequence", mod.Name, mod.Position)
		}
		adj[pos] += mod.Mass
	}
	return adj, nil
}

// DefaultModDatabase returns a ModDatabase pre-loaded with modifications
// common in solid-phase peptide synthesis and its side reactions
func DefaultModDatabase() *ModDatabase {
	db := NewModDatabase()

	// Unimod monoisotopic shifts
	db.Add("Acetyl", 42.010565)
	db.Add("Amidated", -0.984016)
	db.Add("Biotin", 226.077598)
	db.Add("Carbamidomethyl", 57.021464)
	db.Add("Deamidated", 0.984016)
	db.Add("Dehydrated", -18.010565)
	db.Add("Formyl", 27.994915)
	db.Add("Gln->pyro-Glu", -17.026549)
	db.Add("Glu->pyro-Glu", -18.010565)
	db.Add("Methyl", 14.01565)
	db.Add("Oxidation", 15.994915)
	db.Add("Dioxidation", 31.989829)
	db.Add("Phospho", 79.966331)
	db.Add("Palmitoyl", 238.229666)
	db.Add("Myristoyl", 210.198366)
	db.Add("Sulfo", 79.956815)

	// Protecting groups left on after cleavage
	db.Add("tBu", 56.0626)
	db.Add("Boc", 100.052429)
	db.Add("Fmoc", 222.068080)
	db.Add("Trt", 242.109550)
	db.Add("Pbf", 252.081966)
	db.Add("Acm", 71.037114)

	return db
}

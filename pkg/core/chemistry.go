// Package core provides the mass model for synthetic peptide side products
package core

const (
	// WaterMass is lost once per peptide bond formed during condensation.
	WaterMass = 18.0106

	// DefaultCapMass is the terminal capping group mass used when none is given.
	DefaultCapMass = 41.0265

	// DefaultTolerance is the default absolute mass tolerance for a match.
	DefaultTolerance = 1.0

	// DeletedMarker marks a dropped residue in a deletion pattern.
	DeletedMarker = '*'
)

// AminoAcidMasses maps one-letter codes to free amino acid monoisotopic masses
var AminoAcidMasses = map[rune]float64{
	'A': 89.0477,
	'R': 174.1117,
	'N': 132.0535,
	'D': 133.0375,
	'C': 121.0197,
	'E': 147.0532,
	'Q': 146.0691,
	'G': 75.032,
	'H': 155.0695,
	'I': 131.0946,
	'L': 131.0946,
	'K': 146.1055,
	'M': 149.051,
	'F': 165.079,
	'P': 115.0633,
	'S': 105.0426,
	'T': 119.0582,
	'W': 204.0899,
	'Y': 181.0739,
	'V': 117.079,
}

// ResidueMass returns the table mass for a one-letter amino acid code.
func ResidueMass(symbol rune) (float64, error) {
	mass, ok := AminoAcidMasses[symbol]
	if !ok {
		return 0, &ResidueError{Symbol: symbol, Position: -1}
	}
	return mass, nil
}

// CandidateMass computes the mass of a chain of residues joined by peptide
// bonds: sum(masses) - waterMass*(len-1) + capMass. The sum is accumulated
// left to right so repeated evaluations of the same chain agree bit for bit.
func CandidateMass(masses []float64, waterMass, capMass float64) float64 {
	sum := 0.0
	for _, m := range masses {
		sum += m
	}
	return sum - waterMass*float64(len(masses)-1) + capMass
}

// ChargeMZ returns the m/z of a neutral mass at the given charge, using a
// unit mass per added charge.
func ChargeMZ(mass float64, charge int) float64 {
	return (mass + float64(charge)) / float64(charge)
}

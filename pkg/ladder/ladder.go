// Package ladder computes the N-terminal truncation ladder of a peptide:
// every suffix left after losing leading residues, with its mass and the
// m/z it would show at charge states 1 through MaxCharge.
package ladder

import "github.com/ChrisMcGann/TruncSearch/pkg/core"

// MaxCharge is the highest charge state reported per row.
const MaxCharge = 8

// Row is one truncation product.
type Row struct {
	Sequence string             // Remaining suffix
	Mass     float64            // Suffix mass including cap
	MZ       [MaxCharge]float64 // MZ[k-1] = (Mass + k) / k
}

// List returns the ladder from the two-residue suffix up to the full
// peptide. A single residue peptide has no rows.
func List(peptide string, adjustments []float64, capMass float64) ([]Row, error) {
	pep, err := core.NewPeptide(peptide, adjustments, capMass)
	if err != nil {
		return nil, err
	}

	n := pep.Len()
	rows := make([]Row, 0, n-1)

	running := pep.Masses[n-1]
	for i := n - 2; i >= 0; i-- {
		running += pep.Masses[i] - core.WaterMass

		row := Row{
			Sequence: peptide[i:],
			Mass:     running + capMass,
		}
		for k := 1; k <= MaxCharge; k++ {
			row.MZ[k-1] = core.ChargeMZ(row.Mass, k)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

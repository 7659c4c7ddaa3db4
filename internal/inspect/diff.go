package inspect

import "slices"

// Drift lists the differences between a struct and its table.
type Drift struct {
	// Missing are struct columns the table does not have.
	Missing []string
	// Unmapped are table columns no struct field reads.
	Unmapped []string
}

// Clean reports whether struct and table agree.
func (d Drift) Clean() bool {
	return len(d.Missing) == 0 && len(d.Unmapped) == 0
}

// Compare returns the drift between the columns of info and live, keeping
// the order of each side.
func Compare(info *StructInfo, live []string) Drift {
	var d Drift
	cols := info.Columns()
	for _, c := range cols {
		if !slices.Contains(live, c) {
			d.Missing = append(d.Missing, c)
		}
	}
	for _, c := range live {
		if !slices.Contains(cols, c) {
			d.Unmapped = append(d.Unmapped, c)
		}
	}
	return d
}

package workbook

import "database/sql"

// Cell is a numeric value that may be missing. Missing cells come from
// teams absent in the scraped season stats or stats the site did not
// publish; they stay missing through arithmetic instead of turning into
// zeroes.
type Cell struct {
	Value float64
	Valid bool
}

func Number(v float64) Cell {
	return Cell{Value: v, Valid: true}
}

// Diff returns home minus away. If either side is missing the result is
// missing.
func Diff(home, away Cell) Cell {
	if !home.Valid || !away.Valid {
		return Cell{}
	}
	return Cell{Value: home.Value - away.Value, Valid: true}
}

func (c Cell) NullFloat64() sql.NullFloat64 {
	return sql.NullFloat64{Float64: c.Value, Valid: c.Valid}
}

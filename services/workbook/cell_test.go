package workbook

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	diff := Diff(Number(27), Number(24))
	require.True(t, diff.Valid)
	require.Equal(t, float64(3), diff.Value)
}

func TestDiffMissingPropagates(t *testing.T) {
	require.False(t, Diff(Cell{}, Number(24)).Valid)
	require.False(t, Diff(Number(27), Cell{}).Valid)
	require.False(t, Diff(Cell{}, Cell{}).Valid)
}

func TestNullFloat64(t *testing.T) {
	require.False(t, Cell{}.NullFloat64().Valid)

	nf := Number(17.5).NullFloat64()
	require.True(t, nf.Valid)
	require.Equal(t, 17.5, nf.Float64)
}

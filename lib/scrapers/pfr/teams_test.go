package pfr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMappingCoversAllTeams(t *testing.T) {
	require.Len(t, franchiseToInternal, 32)
	require.Len(t, InternalCodes(), 32)
}

func TestRelocatedFranchiseCodes(t *testing.T) {
	// the site kept pre-relocation codes for these two franchises, so
	// the mapping cannot be a passthrough
	testCases := []struct {
		franchise string
		internal  string
	}{
		{franchise: "sdg", internal: "LAC"},
		{franchise: "rai", internal: "LV"},
		{franchise: "ram", internal: "LAR"},
		{franchise: "oti", internal: "TEN"},
		{franchise: "clt", internal: "IND"},
	}

	for _, test := range testCases {
		internal, err := InternalCode(test.franchise)
		require.NoError(t, err)
		require.Equal(t, test.internal, internal)
		require.NotEqual(t, test.franchise, internal)

		franchise, err := FranchiseCode(test.internal)
		require.NoError(t, err)
		require.Equal(t, test.franchise, franchise)
	}
}

func TestUnknownCodesError(t *testing.T) {
	_, err := InternalCode("xyz")
	require.ErrorIs(t, err, ErrUnknownTeamCode)

	_, err = FranchiseCode("SD")
	require.ErrorIs(t, err, ErrUnknownTeamCode)
}

func TestRoundTrip(t *testing.T) {
	for _, internal := range InternalCodes() {
		franchise, err := FranchiseCode(internal)
		require.NoError(t, err)

		back, err := InternalCode(franchise)
		require.NoError(t, err)
		require.Equal(t, internal, back)
	}
}

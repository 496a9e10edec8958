package pfr

import "fmt"

// franchise code used in the site's /teams/ urls -> internal team code.
// the site keeps historical franchise codes, so several entries differ
// from the team's current common abbreviation (sdg predates the
// Chargers' move to Los Angeles, rai the Raiders' move to Las Vegas).
var franchiseToInternal = map[string]string{
	"crd": "ARI",
	"atl": "ATL",
	"rav": "BAL",
	"buf": "BUF",
	"car": "CAR",
	"chi": "CHI",
	"cin": "CIN",
	"cle": "CLE",
	"dal": "DAL",
	"den": "DEN",
	"det": "DET",
	"gnb": "GB",
	"htx": "HOU",
	"clt": "IND",
	"jax": "JAX",
	"kan": "KC",
	"sdg": "LAC",
	"ram": "LAR",
	"rai": "LV",
	"mia": "MIA",
	"min": "MIN",
	"nwe": "NE",
	"nor": "NO",
	"nyg": "NYG",
	"nyj": "NYJ",
	"phi": "PHI",
	"pit": "PIT",
	"sea": "SEA",
	"sfo": "SF",
	"tam": "TB",
	"oti": "TEN",
	"was": "WAS",
}

var internalToFranchise = map[string]string{}

func init() {
	for franchise, internal := range franchiseToInternal {
		internalToFranchise[internal] = franchise
	}
}

// InternalCode maps a site franchise code to the internal team code.
func InternalCode(franchise string) (string, error) {
	code, ok := franchiseToInternal[franchise]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTeamCode, franchise)
	}
	return code, nil
}

// FranchiseCode maps an internal team code back to the site franchise
// code used in urls.
func FranchiseCode(internal string) (string, error) {
	code, ok := internalToFranchise[internal]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTeamCode, internal)
	}
	return code, nil
}

// InternalCodes lists all internal team codes in no particular order.
func InternalCodes() []string {
	codes := make([]string, 0, len(internalToFranchise))
	for internal := range internalToFranchise {
		codes = append(codes, internal)
	}
	return codes
}

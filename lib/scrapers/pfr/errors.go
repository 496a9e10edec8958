package pfr

import (
	"errors"
	"fmt"
)

// ErrUnknownTeamCode is returned when a team code has no entry in the
// franchise mapping table.
var ErrUnknownTeamCode = errors.New("unknown team code")

// FetchError is a transport or HTTP level failure reaching the stats
// site. The site being down or throttling looks like this.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Err.Error())
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError means the fetch succeeded but the page did not have the
// shape we expect, usually because the site changed its markup.
type ParseError struct {
	URL    string
	Table  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s (table %q): %s", e.URL, e.Table, e.Reason)
}

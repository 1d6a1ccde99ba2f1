package service

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrBadTarget is returned when the query string is not valid percent-encoding.
var ErrBadTarget = errors.New("target URL is not valid percent-encoding")

// DecodeTarget recovers the target URL from the raw query string. Callers
// encode the target twice, so it is percent-decoded twice. Like
// decodeURIComponent, '+' is left as-is.
func DecodeTarget(rawQuery string) (string, error) {
	once, err := url.PathUnescape(rawQuery)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadTarget, err)
	}
	twice, err := url.PathUnescape(once)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadTarget, err)
	}
	return twice, nil
}

// targetHost returns the host of target for logging. Paths and queries are
// left out since they may carry credentials.
func targetHost(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return u.Host
}

package scanner

import "errors"

var (
	errNoData         = errors.New("no intraday data")
	errNoOpeningRange = errors.New("no 9:30 bar or zero-width range")
)

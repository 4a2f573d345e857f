package canonical

import "errors"

var (
	ErrUnsupportedScheme = errors.New("unsupported URI scheme")
	ErrMalformedURI      = errors.New("malformed URI")
)

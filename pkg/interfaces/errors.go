package interfaces

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// CategoryTransport tags failures talking to the remote server.
const CategoryTransport = goerrors.Category("transport")

// ErrUnauthenticated is returned by identity providers when the caller has no
// valid session.
var ErrUnauthenticated = errors.New("unauthenticated")

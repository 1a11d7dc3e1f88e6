package versioncatalog

import (
	"errors"
	"fmt"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/pack"
)

var errUnknownLoader = errors.New("no version source registered for loader")

// SourceUnavailableError reports that a loader's version authority could
// not be reached or parsed. It is never turned into a stale or guessed
// version (spec.md §4.5) — the caller surfaces it as-is.
type SourceUnavailableError struct {
	Loader pack.Loader
	Err    error
}

func NewSourceUnavailableError(loader pack.Loader, err error) *SourceUnavailableError {
	return &SourceUnavailableError{Loader: loader, Err: err}
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("%s version source unavailable: %v", e.Loader, e.Err)
}

func (e *SourceUnavailableError) Kind() core.ErrorKind { return core.KindNetwork }
func (e *SourceUnavailableError) Unwrap() error        { return e.Err }

var _ core.EmpackError = &SourceUnavailableError{}

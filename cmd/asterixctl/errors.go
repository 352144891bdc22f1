package main

import (
	"errors"
	"fmt"

	"github.com/srg/asterix/internal/xmlloader"
)

// FormatUserError rewrites a handful of internal error types into
// messages that point at what the user can fix, falling back to the raw
// error text otherwise.
func FormatUserError(err error) string {
	var notFound *xmlloader.ConfigNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Sprintf("category definitions not found at %q (check --category-dir)", notFound.Path)
	}

	var parseErr *xmlloader.XMLParseError
	if errors.As(err, &parseErr) {
		return fmt.Sprintf("%s:%d: %s", parseErr.File, parseErr.Line, parseErr.Detail)
	}

	return err.Error()
}

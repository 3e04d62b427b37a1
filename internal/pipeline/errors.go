package pipeline

import "github.com/rotisserie/eris"

// Extraction failures are fatal to the current request: no partial
// profile is synthesized from a failed extraction.
var (
	// ErrExtractionTransient marks a collaborator transport failure.
	ErrExtractionTransient = eris.New("pipeline: extraction collaborator unavailable")

	// ErrExtractionMalformed marks a response that could not be parsed
	// as the expected structure.
	ErrExtractionMalformed = eris.New("pipeline: extraction response malformed")
)

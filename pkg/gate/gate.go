// Package gate provides the human checkpoint surface of the pipeline: a
// small interface for prompting a person, a console implementation for
// interactive runs, and a scripted implementation for tests.
package gate

// Gate collects decisions from a human operator. Implementations never
// return an error for malformed input; callers receive the raw answer and
// apply their own fallback, so a typo cannot fail a run.
type Gate interface {
	// Choose presents options and returns the answer. Input matching an
	// option (by text or 1-based index) is canonicalized to that option;
	// anything else comes back verbatim for the caller to validate.
	// Empty input yields def.
	Choose(prompt string, options []string, def string) (string, error)

	// Confirm asks a yes/no question. Unrecognized input yields def.
	Confirm(prompt string, def bool) (bool, error)

	// EditList collects a free-form list of entries, one per line,
	// terminated by an empty line. An empty result means "keep as is".
	EditList(prompt string) ([]string, error)
}

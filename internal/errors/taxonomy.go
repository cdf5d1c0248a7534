package errors

import stderrors "errors"

// Failure classes shared by the judge client, the selector and the streak
// engine. Callers wrap them with context and test with Is.
var (
	// ErrCatalogFetch: the problem catalog could not be fetched or was not OK.
	ErrCatalogFetch = stderrors.New("problem catalog unavailable")
	// ErrEmptyCandidates: no catalog entry satisfies the global rating filter.
	ErrEmptyCandidates = stderrors.New("no problems match the rating filter")
	// ErrUserInfoUnavailable: the user rating could not be fetched.
	ErrUserInfoUnavailable = stderrors.New("user info unavailable")
	// ErrSubmissionFetch: the submission history could not be fetched.
	ErrSubmissionFetch = stderrors.New("submission history unavailable")
	// ErrRemoteSync: a leaderboard read or write failed.
	ErrRemoteSync = stderrors.New("leaderboard sync failed")
	// ErrSuperseded: a newer request finished first; the result was dropped.
	ErrSuperseded = stderrors.New("request superseded by a newer one")
	// ErrNotInitialized: the local ledger does not exist yet.
	ErrNotInitialized = stderrors.New("storage not initialized, run 'potd init' first")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return stderrors.New(text)
}

// Hint returns a short remediation line for known failure classes.
func Hint(err error) string {
	switch {
	case Is(err, ErrCatalogFetch):
		return "The judge API may be down or rate limiting; try again in a minute."
	case Is(err, ErrEmptyCandidates):
		return "The catalog returned no rated problems in range."
	case Is(err, ErrNotInitialized):
		return "Run 'potd init' to create the local ledger."
	default:
		return ""
	}
}

package freshproxy

// Outcome describes how a request was satisfied.
type Outcome string

const (
	// OutcomeFirstFetch means the page was not cached and was fetched
	// unconditionally from the origin.
	OutcomeFirstFetch Outcome = "first-fetch"

	// OutcomeRevalidated means a cache hit was revalidated against the
	// origin and replaced with fresh content.
	OutcomeRevalidated Outcome = "revalidated"

	// OutcomeNotModified means the origin confirmed the cached page is
	// still current, so it was served unchanged.
	OutcomeNotModified Outcome = "not-modified"

	// OutcomeStaleServed means revalidation was attempted but could not
	// complete, so the cached page was served as-is.
	OutcomeStaleServed Outcome = "stale-served"

	// OutcomeUnverifiedStale means no stored date field was usable for
	// revalidation, so the cached page was served without verification.
	OutcomeUnverifiedStale Outcome = "unverified-stale"
)

// Degraded reports whether the outcome served possibly-outdated content.
func (o Outcome) Degraded() bool {
	return o == OutcomeStaleServed || o == OutcomeUnverifiedStale
}

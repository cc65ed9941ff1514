package freshproxy

import (
	"net/http"

	"github.com/antonls/freshproxy/cache"
	"github.com/antonls/freshproxy/pkg/cachekey"
	"github.com/antonls/freshproxy/pkg/codec"
	"github.com/antonls/freshproxy/pkg/httpdate"
)

// selectValidator picks the stored timestamp to use for conditional
// revalidation. The priorities are fixed: a still-future Expires wins,
// then any parseable Last-Modified, then any parseable last access date.
// It reports false if none of the three is usable.
func selectValidator(entry cache.Entry) (string, bool) {
	if httpdate.Classify(entry.Expires) == httpdate.NotYetPassed {
		return entry.Expires, true
	}
	if httpdate.Classify(entry.LastModified) != httpdate.ParseFailure {
		return entry.LastModified, true
	}
	if httpdate.Classify(entry.LastAccess) != httpdate.ParseFailure {
		return entry.LastAccess, true
	}
	return "", false
}

// validate decides whether a cache hit can be trusted, revalidates it
// against the origin when possible, and reconciles the result. On any
// failure to complete revalidation the cached entry is returned unchanged
// and the outcome says how degraded the result is.
func (p *Proxy) validate(entry cache.Entry) (cache.Entry, Outcome) {
	since, ok := selectValidator(entry)
	if !ok {
		p.log.Warn().
			Str("host", entry.Host).
			Str("path", entry.Path).
			Msg("No usable date field, page may have been modified since last access")
		return entry, OutcomeUnverifiedStale
	}

	raw, err := p.dialer.FetchConditional(entry.Host, entry.Path, since)
	if err != nil {
		p.metrics.RecordOriginFailure()
	}
	if err != nil || len(raw) == 0 {
		p.log.Warn().
			Err(err).
			Str("host", entry.Host).
			Str("path", entry.Path).
			Msg("Revalidation failed, serving cached page")
		return entry, OutcomeStaleServed
	}

	if code, ok := codec.ParseStatusCode(raw); ok && code == http.StatusNotModified {
		p.log.Debug().
			Str("host", entry.Host).
			Str("path", entry.Path).
			Msg("Origin confirmed cached page is current")
		return entry, OutcomeNotModified
	}

	body := codec.ParseBody(raw)
	if len(body) == 0 {
		p.log.Warn().
			Str("host", entry.Host).
			Str("path", entry.Path).
			Msg("Revalidation response had no body, serving cached page")
		return entry, OutcomeStaleServed
	}

	md := codec.ParseMetadata(raw)
	updated := cache.Entry{
		Host:         entry.Host,
		Path:         entry.Path,
		LastAccess:   md.Date,
		LastModified: md.LastModified,
		Expires:      md.Expires,
		Body:         body,
	}
	p.store.Add(cachekey.Key(entry.Host, entry.Path), updated)
	return updated, OutcomeRevalidated
}

package freshproxy

import (
	"testing"

	"github.com/antonls/freshproxy/cache"
)

const (
	futureDate = "Fri, 31 Dec 2999 23:59:59 GMT"
	pastDate   = "Sun, 06 Nov 1994 08:49:37 GMT"
	otherPast  = "Mon, 01 Jan 1996 00:00:00 GMT"
)

func TestCascadePrefersFutureExpires(t *testing.T) {
	entry := cache.Entry{
		Expires:      futureDate,
		LastModified: pastDate,
		LastAccess:   otherPast,
	}
	date, ok := selectValidator(entry)
	if !ok {
		t.Fatal("No validator selected")
	}
	if date != futureDate {
		t.Fatalf("Selected %q, want the Expires value", date)
	}
}

func TestCascadeFallsBackToLastModified(t *testing.T) {
	// a past Expires does not qualify, a past Last-Modified does
	entry := cache.Entry{
		Expires:      pastDate,
		LastModified: otherPast,
		LastAccess:   pastDate,
	}
	date, ok := selectValidator(entry)
	if !ok {
		t.Fatal("No validator selected")
	}
	if date != otherPast {
		t.Fatalf("Selected %q, want the Last-Modified value", date)
	}
}

func TestCascadeFallsBackToLastAccess(t *testing.T) {
	entry := cache.Entry{
		Expires:      pastDate,
		LastModified: "not a date",
		LastAccess:   otherPast,
	}
	date, ok := selectValidator(entry)
	if !ok {
		t.Fatal("No validator selected")
	}
	if date != otherPast {
		t.Fatalf("Selected %q, want the last access value", date)
	}
}

func TestCascadeNothingUsable(t *testing.T) {
	entry := cache.Entry{
		Expires:      "",
		LastModified: "garbage",
		LastAccess:   "also garbage",
	}
	if date, ok := selectValidator(entry); ok {
		t.Fatalf("Selected %q from unparseable fields", date)
	}
}

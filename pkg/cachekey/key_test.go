package cachekey

import "testing"

func TestSplitInvertsKey(t *testing.T) {
	key := Key("a.example", "/x/y")
	host, path, err := Split(key)
	if err != nil {
		t.Fatalf("%s: %s", key, err)
	}
	if host != "a.example" || path != "/x/y" {
		t.Fatalf("Split(%q) = %q, %q", key, host, path)
	}
}

// Naive host+path concatenation aliases e.g. ("a.example", "/x") with
// ("a.example/x", ""). The separator keeps such pairs distinct.
func TestDistinctPairsNeverAlias(t *testing.T) {
	if Key("a.example", "/x") == Key("a.example/", "x") {
		t.Fatal("Distinct pairs produced the same key")
	}
	if Key("a.example", "/x") == Key("a.example/x", "") {
		t.Fatal("Distinct pairs produced the same key")
	}
}

func TestSplitRejectsMalformed(t *testing.T) {
	if _, _, err := Split("no-separator-here"); err == nil {
		t.Fatal("Malformed key accepted")
	}
}

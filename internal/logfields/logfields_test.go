package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Source", KeySource, "file", Source("file")},
		{"Category", KeyCategory, "retrieval", Category("retrieval")},
		{"URL", KeyURL, "https://store.example.com", URL("https://store.example.com")},
		{"Path", KeyPath, "/SiteAssets/menuData.ts", Path("/SiteAssets/menuData.ts")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.attr.Key != c.attrKey {
				t.Fatalf("expected key %q got %q", c.attrKey, c.attr.Key)
			}
			if c.attr.Value.String() != c.attrVal {
				t.Fatalf("expected value %q got %q", c.attrVal, c.attr.Value.String())
			}
		})
	}
}

func TestIntHelpers(t *testing.T) {
	if a := Status(404); a.Key != KeyStatus || a.Value.Int64() != 404 {
		t.Fatalf("unexpected status attr %v", a)
	}
	if a := Attempt(2); a.Key != KeyAttempt || a.Value.Int64() != 2 {
		t.Fatalf("unexpected attempt attr %v", a)
	}
}

func TestErrorHelper(t *testing.T) {
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("nil error should yield empty value, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("expected boom got %q", a.Value.String())
	}
}

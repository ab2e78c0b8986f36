package menu

import (
	"encoding/json"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestValidate(t *testing.T) {
	var nilMenu *MenuData
	if err := nilMenu.Validate(); err == nil {
		t.Fatal("expected error for nil menu")
	}
	if err := (&MenuData{}).Validate(); err == nil {
		t.Fatal("expected error for nil navigation")
	}
	m := &MenuData{Navigation: []NavigationItem{}}
	if err := m.Validate(); err != nil {
		t.Fatalf("empty navigation should be valid, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	m := &MenuData{}
	m.Normalize()
	if m.Navigation == nil {
		t.Fatal("expected non-nil navigation after normalize")
	}

	m = &MenuData{Navigation: []NavigationItem{
		{Title: "X", MegaMenu: &MegaMenuData{Columns: []MenuColumn{{Title: "C"}}}},
	}}
	m.Normalize()
	if m.Navigation[0].MegaMenu.Columns[0].Items == nil {
		t.Fatal("expected non-nil column items after normalize")
	}
}

func TestSortColumns(t *testing.T) {
	m := &MenuData{Navigation: []NavigationItem{
		{Title: "Zeta", Href: "/z"}, // top-level order must be preserved
		{Title: "Grouped", MegaMenu: &MegaMenuData{Columns: []MenuColumn{
			{Title: "Col", Items: []MenuItem{
				{Title: "banana", Href: "/b"},
				{Title: "Apple", Href: "/a"},
				{Title: "cherry", Href: "/c"},
			}},
		}}},
	}}
	m.SortColumns(language.Und)

	if m.Navigation[0].Title != "Zeta" {
		t.Fatal("top-level order changed")
	}
	items := m.Navigation[1].MegaMenu.Columns[0].Items
	got := []string{items[0].Title, items[1].Title, items[2].Title}
	want := []string{"Apple", "banana", "cherry"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v got %v", want, got)
		}
	}
}

func TestFallbackContents(t *testing.T) {
	fb := Fallback()
	if err := fb.Validate(); err != nil {
		t.Fatalf("fallback must be valid: %v", err)
	}
	titles := map[string]bool{}
	for _, item := range fb.Navigation {
		titles[item.Title] = true
	}
	for _, want := range []string{"My Sites", "Forms Central", "Library", "IT Support Portal"} {
		if !titles[want] {
			t.Fatalf("fallback missing %q", want)
		}
	}
}

func TestSerialize(t *testing.T) {
	m := &MenuData{Navigation: []NavigationItem{{Title: "Home", Href: "/"}}}
	out, err := Serialize(m, "")
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	if !strings.HasPrefix(out, "export const menuData = {") {
		t.Fatalf("unexpected prefix: %q", out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), ";") {
		t.Fatalf("expected trailing semicolon: %q", out)
	}

	// The declaration body must be plain JSON.
	body := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(out), "export const menuData = "), ";")
	var parsed MenuData
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if !parsed.Equal(m) {
		t.Fatal("round trip changed the menu")
	}
}

func TestSerialize_InvalidMenu(t *testing.T) {
	if _, err := Serialize(&MenuData{}, ""); err == nil {
		t.Fatal("expected error for menu without navigation")
	}
}

func TestEqual(t *testing.T) {
	a := Fallback()
	b := Fallback()
	if !a.Equal(&b) {
		t.Fatal("identical menus must be equal")
	}
	b.Navigation[0].Title = "changed"
	if a.Equal(&b) {
		t.Fatal("differing menus must not be equal")
	}
}

// Package menu defines the navigation menu data model shared by the
// retrieval, cache, and serving layers.
package menu

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/megamenu/internal/errors"
)

// MenuData is the root menu structure handed to consumers.
//
// Navigation is never nil once a MenuData value exists; it may be empty.
type MenuData struct {
	Navigation []NavigationItem `json:"navigation"`
}

// NavigationItem is a top-level entry: either a plain link (Href set) or a
// mega-menu trigger (MegaMenu set, Href may be empty). Both set at once is
// tolerated but only the mega menu is meaningful.
type NavigationItem struct {
	Title    string        `json:"title"`
	Href     string        `json:"href,omitempty"`
	MegaMenu *MegaMenuData `json:"megaMenu,omitempty"`
}

// MegaMenuData groups links into columns.
type MegaMenuData struct {
	Columns []MenuColumn `json:"columns"`
}

// MenuColumn is one column of a mega menu. Title may be empty.
type MenuColumn struct {
	Title string     `json:"title,omitempty"`
	Items []MenuItem `json:"items"`
}

// MenuItem is a single link inside a column.
type MenuItem struct {
	Title string `json:"title"`
	Href  string `json:"href"`
}

// Validate checks the structural invariants required of any MenuData before
// it is cached or served.
func (m *MenuData) Validate() error {
	if m == nil {
		return errors.ValidationError("menu data is nil")
	}
	if m.Navigation == nil {
		return errors.ValidationError("menu data has no navigation field")
	}
	return nil
}

// Normalize ensures Navigation is non-nil and every column carries a non-nil
// item slice, so consumers never see null sequences.
func (m *MenuData) Normalize() {
	if m.Navigation == nil {
		m.Navigation = []NavigationItem{}
	}
	for i := range m.Navigation {
		mm := m.Navigation[i].MegaMenu
		if mm == nil {
			continue
		}
		for j := range mm.Columns {
			if mm.Columns[j].Items == nil {
				mm.Columns[j].Items = []MenuItem{}
			}
		}
	}
}

// SortColumns orders the items within every column alphabetically by title
// using locale-aware collation. Only the list-backed source requires sorted
// columns; file-backed sources preserve author order.
func (m *MenuData) SortColumns(tag language.Tag) {
	c := collate.New(tag, collate.IgnoreCase)
	for i := range m.Navigation {
		mm := m.Navigation[i].MegaMenu
		if mm == nil {
			continue
		}
		for j := range mm.Columns {
			items := mm.Columns[j].Items
			sort.SliceStable(items, func(a, b int) bool {
				return c.CompareString(items[a].Title, items[b].Title) < 0
			})
		}
	}
}

// Equal reports deep equality of two menus. Used to decide whether an
// upload actually changed anything worth broadcasting.
func (m *MenuData) Equal(other *MenuData) bool {
	if m == nil || other == nil {
		return m == other
	}
	if len(m.Navigation) != len(other.Navigation) {
		return false
	}
	for i := range m.Navigation {
		if !m.Navigation[i].equal(&other.Navigation[i]) {
			return false
		}
	}
	return true
}

func (n *NavigationItem) equal(other *NavigationItem) bool {
	if n.Title != other.Title || n.Href != other.Href {
		return false
	}
	if (n.MegaMenu == nil) != (other.MegaMenu == nil) {
		return false
	}
	if n.MegaMenu == nil {
		return true
	}
	if len(n.MegaMenu.Columns) != len(other.MegaMenu.Columns) {
		return false
	}
	for i := range n.MegaMenu.Columns {
		a, b := n.MegaMenu.Columns[i], other.MegaMenu.Columns[i]
		if a.Title != b.Title || len(a.Items) != len(b.Items) {
			return false
		}
		for j := range a.Items {
			if a.Items[j] != b.Items[j] {
				return false
			}
		}
	}
	return true
}

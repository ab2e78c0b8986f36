package store

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/megamenu/internal/config"
	"git.home.luguber.info/inful/megamenu/internal/errors"
	"git.home.luguber.info/inful/megamenu/internal/menu"
)

// ListSource retrieves the menu from an HTML list view rather than a source
// file: each row is one link, with columns for the top-level entry, the
// mega-menu column, and the link itself.
//
// Expected markup: one <tr> per record inside <table class="menu-list">,
// cells in order: top-level title, column title, link (<a href>). A row with
// an empty column cell is a plain top-level link. Items within a column are
// sorted alphabetically by title; top-level entries keep list order.
type ListSource struct {
	client  *Client
	listURL string
}

// NewListSource creates the list-backed source from the store configuration.
func NewListSource(client *Client, st config.StoreConfig) *ListSource {
	return &ListSource{client: client, listURL: st.ListURL}
}

// Name implements Source.
func (s *ListSource) Name() string { return "list" }

// Fetch retrieves the list view and assembles a menu from its rows.
func (s *ListSource) Fetch(ctx context.Context) (menu.MenuData, error) {
	req, err := s.client.NewRequest(ctx, "GET", s.listURL, nil)
	if err != nil {
		return menu.MenuData{}, err
	}
	html, err := s.client.DoRaw(req)
	if err != nil {
		return menu.MenuData{}, err
	}
	return parseListView(html)
}

func parseListView(html string) (menu.MenuData, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return menu.MenuData{}, errors.Wrap(err, errors.CategoryParse, errors.SeverityWarning,
			"failed to parse list view HTML")
	}

	table := doc.Find("table.menu-list").First()
	if table.Length() == 0 {
		return menu.MenuData{}, errors.ParseError("list view has no menu-list table")
	}

	data := menu.MenuData{Navigation: []menu.NavigationItem{}}
	navIndex := map[string]int{}
	colIndex := map[string]map[string]int{}

	table.Find("tbody > tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < 3 {
			return
		}
		navTitle := strings.TrimSpace(tds.Eq(0).Text())
		colTitle := strings.TrimSpace(tds.Eq(1).Text())
		link := tds.Eq(2).Find("a").First()
		itemTitle := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if navTitle == "" {
			return
		}

		if colTitle == "" {
			// Plain top-level link.
			if _, seen := navIndex[navTitle]; !seen {
				navIndex[navTitle] = len(data.Navigation)
				data.Navigation = append(data.Navigation, menu.NavigationItem{Title: navTitle, Href: href})
			}
			return
		}

		ni, seen := navIndex[navTitle]
		if !seen {
			ni = len(data.Navigation)
			navIndex[navTitle] = ni
			colIndex[navTitle] = map[string]int{}
			data.Navigation = append(data.Navigation, menu.NavigationItem{
				Title:    navTitle,
				MegaMenu: &menu.MegaMenuData{Columns: []menu.MenuColumn{}},
			})
		}
		item := &data.Navigation[ni]
		if item.MegaMenu == nil {
			item.MegaMenu = &menu.MegaMenuData{Columns: []menu.MenuColumn{}}
		}
		cols := colIndex[navTitle]
		if cols == nil {
			cols = map[string]int{}
			colIndex[navTitle] = cols
		}
		ci, seen := cols[colTitle]
		if !seen {
			ci = len(item.MegaMenu.Columns)
			cols[colTitle] = ci
			item.MegaMenu.Columns = append(item.MegaMenu.Columns, menu.MenuColumn{Title: colTitle, Items: []menu.MenuItem{}})
		}
		if itemTitle != "" {
			col := &item.MegaMenu.Columns[ci]
			col.Items = append(col.Items, menu.MenuItem{Title: itemTitle, Href: href})
		}
	})

	if len(data.Navigation) == 0 {
		return menu.MenuData{}, errors.ValidationError("list view produced an empty menu")
	}
	data.SortColumns(language.Und)
	return data, nil
}

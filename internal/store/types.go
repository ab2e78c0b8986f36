// Package store implements the retrieval strategies against the remote
// document store, behind a single Source interface so the provider can walk
// them in configured order.
package store

import (
	"context"

	"git.home.luguber.info/inful/megamenu/internal/menu"
)

// Source is one menu acquisition strategy. Implementations fetch whatever
// the store holds (source text, HTML rows, a repo file) and return a
// validated menu, or a classified error the provider degrades through.
type Source interface {
	// Name identifies the strategy in logs and metrics.
	Name() string

	// Fetch retrieves and recovers the menu.
	Fetch(ctx context.Context) (menu.MenuData, error)
}

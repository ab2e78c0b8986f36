package store

import (
	"context"
	"net/url"

	"git.home.luguber.info/inful/megamenu/internal/config"
	"git.home.luguber.info/inful/megamenu/internal/errors"
	"git.home.luguber.info/inful/megamenu/internal/menu"
	"git.home.luguber.info/inful/megamenu/internal/recovery"
)

// MetaSource is the alternate retrieval strategy: it first resolves the
// document's canonical location through the metadata endpoint, then fetches
// the content at the resolved path. Stores occasionally move files between
// folders; the metadata lookup survives that where the fixed path does not.
type MetaSource struct {
	client    *Client
	filePath  string
	constName string
}

// NewMetaSource creates the alternate source from the store configuration.
func NewMetaSource(client *Client, st config.StoreConfig) *MetaSource {
	return &MetaSource{
		client:    client,
		filePath:  serverRelativePath(st),
		constName: st.ConstName,
	}
}

// fileMeta is the metadata record the store returns for a document.
type fileMeta struct {
	Name              string `json:"name"`
	ServerRelativeURL string `json:"serverRelativeUrl"`
	DownloadURL       string `json:"downloadUrl,omitempty"`
}

// Name implements Source.
func (s *MetaSource) Name() string { return "meta" }

// Fetch resolves the document location, then retrieves and recovers it.
func (s *MetaSource) Fetch(ctx context.Context) (menu.MenuData, error) {
	metaReq, err := s.client.NewRequest(ctx, "GET", "/files/meta?path="+url.QueryEscape(s.filePath), nil)
	if err != nil {
		return menu.MenuData{}, err
	}

	var meta fileMeta
	if err := s.client.DoJSON(metaReq, &meta); err != nil {
		return menu.MenuData{}, err
	}

	resolved := meta.DownloadURL
	if resolved == "" {
		resolved = meta.ServerRelativeURL
	}
	if resolved == "" {
		return menu.MenuData{}, errors.RetrievalError("file metadata has no resolvable location").
			WithRetryable(false).
			WithContext("path", s.filePath)
	}

	req, err := s.client.NewRequest(ctx, "GET", "/files/raw?path="+url.QueryEscape(resolved), nil)
	if err != nil {
		return menu.MenuData{}, err
	}
	raw, err := s.client.DoRaw(req)
	if err != nil {
		return menu.MenuData{}, err
	}
	return recovery.Recover(raw, s.constName)
}

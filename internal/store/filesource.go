package store

import (
	"context"
	"net/url"
	"path"

	"git.home.luguber.info/inful/megamenu/internal/config"
	"git.home.luguber.info/inful/megamenu/internal/menu"
	"git.home.luguber.info/inful/megamenu/internal/recovery"
)

// FileSource is the primary retrieval strategy: a single GET against the
// document's raw-content endpoint by server-relative path.
type FileSource struct {
	client    *Client
	filePath  string
	constName string
}

// NewFileSource creates the primary source from the store configuration.
func NewFileSource(client *Client, st config.StoreConfig) *FileSource {
	return &FileSource{
		client:    client,
		filePath:  serverRelativePath(st),
		constName: st.ConstName,
	}
}

// serverRelativePath joins site path, folder, and filename into the
// server-relative location of the menu file.
func serverRelativePath(st config.StoreConfig) string {
	return path.Join("/", st.SitePath, st.Folder, st.Filename)
}

// Name implements Source.
func (s *FileSource) Name() string { return "file" }

// Fetch retrieves the raw menu text and recovers structured data from it.
func (s *FileSource) Fetch(ctx context.Context) (menu.MenuData, error) {
	endpoint := "/files/raw?path=" + url.QueryEscape(s.filePath)
	req, err := s.client.NewRequest(ctx, "GET", endpoint, nil)
	if err != nil {
		return menu.MenuData{}, err
	}
	raw, err := s.client.DoRaw(req)
	if err != nil {
		return menu.MenuData{}, err
	}
	return recovery.Recover(raw, s.constName)
}

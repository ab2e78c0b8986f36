package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/megamenu/internal/config"
	"git.home.luguber.info/inful/megamenu/internal/errors"
)

func testStoreConfig() config.StoreConfig {
	return config.StoreConfig{
		SitePath:  "/sites/intranet",
		Folder:    "SiteAssets",
		Filename:  "menuData.ts",
		ConstName: "menuData",
	}
}

func TestFileSource_Fetch(t *testing.T) {
	const body = `// generated, do not edit
export const menuData = {
  navigation: [
    { title: 'Library', href: 'https://library.example.com/' },
  ],
};
`
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Query().Get("path")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	src := NewFileSource(NewClient(srv.Client(), srv.URL, ""), testStoreConfig())
	data, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/sites/intranet/SiteAssets/menuData.ts", gotPath)
	require.Len(t, data.Navigation, 1)
	assert.Equal(t, "Library", data.Navigation[0].Title)
	assert.Equal(t, "https://library.example.com/", data.Navigation[0].Href)
}

func TestFileSource_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	src := NewFileSource(NewClient(srv.Client(), srv.URL, ""), testStoreConfig())
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryRetrieval))
}

func TestFileSource_GarbageContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<!DOCTYPE html><html>login page</html>"))
	}))
	defer srv.Close()

	src := NewFileSource(NewClient(srv.Client(), srv.URL, ""), testStoreConfig())
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryParse))
	assert.False(t, errors.IsRetryable(err), "unparseable content will not parse on retry")
}

package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/megamenu/internal/menu"
)

func TestUploader_TokenHandshakeAndUpload(t *testing.T) {
	data := menu.MenuData{Navigation: []menu.NavigationItem{{Title: "My Sites", Href: "/sites"}}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /contextinfo", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"formDigestValue":"digest-123"}`))
	})
	mux.HandleFunc("POST /files/upload", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "digest-123", r.Header.Get("X-RequestDigest"))
		assert.Equal(t, "/sites/intranet/SiteAssets", r.URL.Query().Get("folder"))

		var body uploadBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "menuData.ts", body.Filename)
		assert.True(t, strings.HasPrefix(body.Content, "export const menuData = "))
		assert.Contains(t, body.Content, `"My Sites"`)
		w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	u := NewUploader(NewClient(srv.Client(), srv.URL, "secret"), testStoreConfig())
	require.NoError(t, u.Upload(context.Background(), data))
}

func TestUploader_EmptyDigestRejected(t *testing.T) {
	uploaded := false
	mux := http.NewServeMux()
	mux.HandleFunc("POST /contextinfo", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"formDigestValue":""}`))
	})
	mux.HandleFunc("POST /files/upload", func(w http.ResponseWriter, _ *http.Request) {
		uploaded = true
		w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	u := NewUploader(NewClient(srv.Client(), srv.URL, ""), testStoreConfig())
	err := u.Upload(context.Background(), menu.MenuData{Navigation: []menu.NavigationItem{{Title: "x"}}})
	require.Error(t, err)
	assert.False(t, uploaded, "upload must not proceed without an anti-forgery token")
}

func TestUploader_UploadEndpointFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /contextinfo", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"formDigestValue":"digest-123"}`))
	})
	mux.HandleFunc("POST /files/upload", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusInsufficientStorage)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	u := NewUploader(NewClient(srv.Client(), srv.URL, ""), testStoreConfig())
	err := u.Upload(context.Background(), menu.MenuData{Navigation: []menu.NavigationItem{{Title: "x"}}})
	require.Error(t, err)
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/megamenu/internal/config"
	"git.home.luguber.info/inful/megamenu/internal/menu"
)

// fakeService returns a fixed menu and records uploads.
type fakeService struct {
	data     menu.MenuData
	uploadOK bool
	uploaded *menu.MenuData
}

func (f *fakeService) GetMenuData(_ context.Context) menu.MenuData { return f.data }

func (f *fakeService) Upload(_ context.Context, data menu.MenuData) bool {
	f.uploaded = &data
	return f.uploadOK
}

func newTestServer(svc *fakeService, adminToken string) *httptest.Server {
	s := New(config.ServerConfig{Addr: ":0", AdminToken: adminToken}, svc, nil)
	return httptest.NewServer(s.Handler())
}

func TestGetMenu(t *testing.T) {
	svc := &fakeService{data: menu.MenuData{Navigation: []menu.NavigationItem{{Title: "My Sites", Href: "/sites"}}}}
	srv := newTestServer(svc, "")
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/menu")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got menu.MenuData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Navigation, 1)
	assert.Equal(t, "My Sites", got.Navigation[0].Title)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakeService{}, "")
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func postMenu(t *testing.T, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/api/menu", strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

const validUpload = `{"navigation":[{"title":"My Sites","href":"/sites"}]}`

func TestUploadMenu(t *testing.T) {
	svc := &fakeService{uploadOK: true}
	srv := newTestServer(svc, "admin-token")
	defer srv.Close()

	resp := postMenu(t, srv.URL, "admin-token", validUpload)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, svc.uploaded)
	assert.Equal(t, "My Sites", svc.uploaded.Navigation[0].Title)

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, true, result["success"])
}

func TestUploadMenu_Unauthorized(t *testing.T) {
	svc := &fakeService{uploadOK: true}
	srv := newTestServer(svc, "admin-token")
	defer srv.Close()

	for name, token := range map[string]string{
		"missing token": "",
		"wrong token":   "not-the-token",
	} {
		t.Run(name, func(t *testing.T) {
			resp := postMenu(t, srv.URL, token, validUpload)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Nil(t, svc.uploaded)
		})
	}
}

func TestUploadMenu_DisabledWithoutAdminToken(t *testing.T) {
	srv := newTestServer(&fakeService{uploadOK: true}, "")
	defer srv.Close()

	// Even a correct-looking bearer token is rejected when none is configured.
	resp := postMenu(t, srv.URL, "anything", validUpload)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUploadMenu_BadPayload(t *testing.T) {
	srv := newTestServer(&fakeService{uploadOK: true}, "admin-token")
	defer srv.Close()

	for name, body := range map[string]string{
		"not json":           "export const menuData = {};",
		"missing navigation": `{"pages":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			resp := postMenu(t, srv.URL, "admin-token", body)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestUploadMenu_StoreFailure(t *testing.T) {
	srv := newTestServer(&fakeService{uploadOK: false}, "admin-token")
	defer srv.Close()

	resp := postMenu(t, srv.URL, "admin-token", validUpload)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, false, result["success"])
}

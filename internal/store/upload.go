package store

import (
	"context"
	"net/url"
	"path"

	"git.home.luguber.info/inful/megamenu/internal/config"
	"git.home.luguber.info/inful/megamenu/internal/errors"
	"git.home.luguber.info/inful/megamenu/internal/menu"
)

// Uploader implements the administrative write path: it serializes the menu
// back into the stored declaration format and submits it to the store's
// folder-relative upload endpoint. The store requires a freshly obtained
// anti-forgery token on every write.
type Uploader struct {
	client    *Client
	folder    string
	filename  string
	constName string
}

// NewUploader creates an uploader from the store configuration.
func NewUploader(client *Client, st config.StoreConfig) *Uploader {
	return &Uploader{
		client:    client,
		folder:    path.Join("/", st.SitePath, st.Folder),
		filename:  st.Filename,
		constName: st.ConstName,
	}
}

// contextInfo is the anti-forgery handshake response.
type contextInfo struct {
	FormDigestValue string `json:"formDigestValue"`
}

// uploadBody is the upload request payload.
type uploadBody struct {
	Folder   string `json:"folder"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Upload serializes and submits the menu. It returns an error for the caller
// to map to a success flag; unlike retrieval, upload failures are meant to
// reach an administrator.
func (u *Uploader) Upload(ctx context.Context, data menu.MenuData) error {
	content, err := menu.Serialize(&data, u.constName)
	if err != nil {
		return err
	}

	tokenReq, err := u.client.NewRequest(ctx, "POST", "/contextinfo", nil)
	if err != nil {
		return err
	}
	var info contextInfo
	if err := u.client.DoJSON(tokenReq, &info); err != nil {
		return err
	}
	if info.FormDigestValue == "" {
		return errors.RetrievalError("store returned an empty anti-forgery token").WithRetryable(false)
	}

	endpoint := "/files/upload?folder=" + url.QueryEscape(u.folder)
	req, err := u.client.NewRequest(ctx, "POST", endpoint, uploadBody{
		Folder:   u.folder,
		Filename: u.filename,
		Content:  content,
	})
	if err != nil {
		return err
	}
	req.Header.Set("X-RequestDigest", info.FormDigestValue)

	if _, err := u.client.DoRaw(req); err != nil {
		return err
	}
	return nil
}

package store

import (
	"context"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/megamenu/internal/config"
	"git.home.luguber.info/inful/megamenu/internal/errors"
	"git.home.luguber.info/inful/megamenu/internal/menu"
	"git.home.luguber.info/inful/megamenu/internal/recovery"
)

// GitSource reads the menu file from a git repository, for stores that
// version the menu next to the site code instead of (or in addition to)
// publishing it to the document library.
type GitSource struct {
	cfg       config.GitConfig
	constName string
}

// NewGitSource creates the git-backed source from the store configuration.
func NewGitSource(st config.StoreConfig) *GitSource {
	return &GitSource{cfg: st.Git, constName: st.ConstName}
}

// Name implements Source.
func (s *GitSource) Name() string { return "git" }

// Fetch shallow-clones the configured branch into a temporary directory,
// reads the menu file, and recovers structured data from it.
func (s *GitSource) Fetch(ctx context.Context) (menu.MenuData, error) {
	tmpDir, err := os.MkdirTemp("", "megamenu-git-")
	if err != nil {
		return menu.MenuData{}, errors.Wrap(err, errors.CategoryInternal, errors.SeverityWarning,
			"failed to create clone directory")
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	cloneOptions := &git.CloneOptions{
		URL:           s.cfg.URL,
		ReferenceName: plumbing.NewBranchReferenceName(s.cfg.Branch),
		SingleBranch:  true,
		Depth:         1,
	}
	if _, err := git.PlainCloneContext(ctx, tmpDir, false, cloneOptions); err != nil {
		return menu.MenuData{}, errors.Wrap(err, errors.CategoryRetrieval, errors.SeverityWarning,
			"failed to clone menu repository").
			WithContext("url", s.cfg.URL).
			WithContext("branch", s.cfg.Branch)
	}

	raw, err := os.ReadFile(filepath.Join(tmpDir, filepath.Clean(s.cfg.Path))) // #nosec G304 -- path comes from validated config
	if err != nil {
		return menu.MenuData{}, errors.Wrap(err, errors.CategoryRetrieval, errors.SeverityWarning,
			"menu file not found in repository").
			WithContext("path", s.cfg.Path)
	}
	return recovery.Recover(string(raw), s.constName)
}

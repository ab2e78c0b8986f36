package store

import (
	"net/http"

	"git.home.luguber.info/inful/megamenu/internal/config"
	"git.home.luguber.info/inful/megamenu/internal/errors"
)

// NewSource creates a single source from the configuration.
func NewSource(kind config.SourceType, client *Client, st config.StoreConfig) (Source, error) {
	switch kind {
	case config.SourceFile:
		return NewFileSource(client, st), nil
	case config.SourceMeta:
		return NewMetaSource(client, st), nil
	case config.SourceList:
		return NewListSource(client, st), nil
	case config.SourceGit:
		return NewGitSource(st), nil
	default:
		return nil, errors.ConfigError("unsupported source type").
			WithContext("type", string(kind))
	}
}

// BuildSources creates the ordered strategy chain the provider walks. The
// shared HTTP client is reused across every HTTP-backed source.
func BuildSources(cfg *config.Config, httpClient *http.Client) ([]Source, error) {
	client := NewClient(httpClient, cfg.Store.BaseURL, cfg.Store.AuthToken)

	sources := make([]Source, 0, len(cfg.Sources))
	for _, kind := range cfg.Sources {
		src, err := NewSource(kind, client, cfg.Store)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

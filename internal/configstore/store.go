// Package configstore caches per-repository policy configuration for the
// process lifetime.
package configstore

import (
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/crumbwatch/crumbwatch/internal/model"
)

// Store hands out per-repository configuration, creating defaults on
// first encounter.
type Store interface {
	Get(repositoryID string) *model.RepositoryConfig
	Set(cfg *model.RepositoryConfig)
	All() []*model.RepositoryConfig
}

// MemoryStore is an in-process Store backed by an expiring cache.
type MemoryStore struct {
	cache *gocache.Cache
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a Store whose entries never expire; configs live
// for the process lifetime and are refreshed by Set.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get returns the config for the repository, creating and caching the
// default policy if none is stored. The repository id is "owner/name".
func (s *MemoryStore) Get(repositoryID string) *model.RepositoryConfig {
	if v, ok := s.cache.Get(repositoryID); ok {
		return v.(*model.RepositoryConfig)
	}

	owner, name, _ := strings.Cut(repositoryID, "/")
	cfg := model.DefaultRepositoryConfig(owner, name)
	s.cache.SetDefault(repositoryID, cfg)
	return cfg
}

// Set stores the config under its repository id.
func (s *MemoryStore) Set(cfg *model.RepositoryConfig) {
	s.cache.SetDefault(cfg.RepositoryID, cfg)
}

// All returns every cached config.
func (s *MemoryStore) All() []*model.RepositoryConfig {
	items := s.cache.Items()
	configs := make([]*model.RepositoryConfig, 0, len(items))
	for _, item := range items {
		configs = append(configs, item.Object.(*model.RepositoryConfig))
	}
	return configs
}

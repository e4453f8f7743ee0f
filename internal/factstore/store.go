//-------------------------------------------------------------------------
//
// delivery-facts
//
// Copyright (c) 2025 - 2026, ShopLens Analytics
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package factstore memoizes the fact table to a Parquet artifact on disk
// and offers a caller-owned in-memory cache on top of it. There is no
// staleness checking: an existing artifact is returned verbatim until it is
// deleted out-of-band or a rebuild is forced.
package factstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shoplens/delivery-facts/internal/logging"
	"github.com/shoplens/delivery-facts/internal/source"
	"github.com/shoplens/delivery-facts/internal/transform"
)

// ArtifactName is the fact table's cache artifact filename under the
// processed data directory.
const ArtifactName = "fact_orders.parquet"

// ArtifactPath returns the cache artifact location for a processed dir.
func ArtifactPath(processedDir string) string {
	return filepath.Join(processedDir, ArtifactName)
}

// Get returns the fact table. When the cache artifact exists and rebuild is
// false it is loaded unchanged; otherwise the table is built from the raw
// CSVs under rawDir, persisted to the artifact, and returned. Building
// fails only when required source files are missing
// (source.ErrSourceUnavailable).
func Get(rawDir, processedDir string, rebuild bool) ([]transform.FactOrder, error) {
	path := ArtifactPath(processedDir)

	if !rebuild {
		if _, err := os.Stat(path); err == nil {
			facts, err := ReadParquet(path)
			if err != nil {
				return nil, fmt.Errorf("loading cached fact table: %w", err)
			}
			logging.Debug().
				Str("artifact", path).
				Int("rows", len(facts)).
				Msg("Loaded fact table from cache artifact")
			return facts, nil
		}
	}

	data, err := source.LoadRequired(rawDir)
	if err != nil {
		return nil, err
	}
	facts := transform.BuildFactOrders(data)

	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating processed dir: %w", err)
	}
	if err := WriteParquet(path, facts); err != nil {
		return nil, fmt.Errorf("persisting fact table: %w", err)
	}

	logging.Info().
		Str("artifact", path).
		Int("rows", len(facts)).
		Bool("rebuild", rebuild).
		Msg("Built fact table")

	return facts, nil
}

type cacheKey struct {
	rawDir       string
	processedDir string
	rebuild      bool
}

// Cache is a keyed in-memory cache over Get, owned by the caller rather
// than held in package state. Entries are invalidated only by explicit
// eviction.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey][]transform.FactOrder
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey][]transform.FactOrder)}
}

// Get returns the fact table for the given locations, loading it through
// the disk layer at most once per key.
func (c *Cache) Get(rawDir, processedDir string, rebuild bool) ([]transform.FactOrder, error) {
	key := cacheKey{rawDir: rawDir, processedDir: processedDir, rebuild: rebuild}

	c.mu.Lock()
	defer c.mu.Unlock()
	if facts, ok := c.entries[key]; ok {
		return facts, nil
	}

	facts, err := Get(rawDir, processedDir, rebuild)
	if err != nil {
		return nil, err
	}
	c.entries[key] = facts
	return facts, nil
}

// Evict drops the cached entry for the given key, if present.
func (c *Cache) Evict(rawDir, processedDir string, rebuild bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey{rawDir: rawDir, processedDir: processedDir, rebuild: rebuild})
}

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StoreInfo is one registry entry.
type StoreInfo struct {
	StoreID      string   `json:"storeId"`
	Domains      []string `json:"domains"`
	Status       string   `json:"status"`
	RegisteredAt string   `json:"registeredAt,omitempty"`
}

// Registry is the on-disk record of known stores.
type Registry struct {
	Stores map[string]StoreInfo `json:"stores"`
}

var registryMu sync.Mutex

func registryPath() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "registry.json"), nil
}

// LoadRegistry reads the store registry, returning an empty registry when
// none exists yet.
func LoadRegistry() (*Registry, error) {
	path, err := registryPath()
	if err != nil {
		return nil, err
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{Stores: make(map[string]StoreInfo)}, nil
		}
		return nil, fmt.Errorf("failed to read store registry: %w", err)
	}

	var registry Registry
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse store registry: %w", err)
	}
	if registry.Stores == nil {
		registry.Stores = make(map[string]StoreInfo)
	}
	return &registry, nil
}

// RegisterStore adds a store to the registry and persists it. Existing
// entries are overwritten.
func RegisterStore(info StoreInfo) error {
	path, err := registryPath()
	if err != nil {
		return err
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	registry := &Registry{Stores: make(map[string]StoreInfo)}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, registry); err != nil {
			return fmt.Errorf("failed to parse store registry: %w", err)
		}
		if registry.Stores == nil {
			registry.Stores = make(map[string]StoreInfo)
		}
	}

	if info.RegisteredAt == "" {
		info.RegisteredAt = time.Now().UTC().Format(time.RFC3339)
	}
	registry.Stores[info.StoreID] = info

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	data, err := json.MarshalIndent(registry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store registry: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write store registry: %w", err)
	}
	return nil
}

// Package store manages storefront (tenant) configuration and context,
// isolating multi-store logic from the rest of the gateway.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Izzycode820/huzilerz-go/pkg/config"
)

// Config represents the structure of a single store's configuration.
type Config struct {
	StoreID         string   `json:"storeId"`
	Domains         []string `json:"domains"`
	Status          string   `json:"status"`
	GraphQLEndpoint string   `json:"GRAPHQL_ENDPOINT,omitempty"`
}

func configRoot() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, "huzilerz-go-server", "config"), nil
}

// LoadStoreConfig loads configuration for a specific store from its
// store.json file. A missing endpoint falls back to the process default.
func LoadStoreConfig(storeID string) (*Config, error) {
	root, err := configRoot()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(root, storeID, "store.json")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("store config file not found at %s", configPath)
	}

	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not read store config file: %w", err)
	}

	var storeConfig Config
	if err := json.Unmarshal(configFile, &storeConfig); err != nil {
		return nil, fmt.Errorf("could not parse store config json: %w", err)
	}

	storeConfig.StoreID = storeID
	if storeConfig.GraphQLEndpoint == "" {
		storeConfig.GraphQLEndpoint = config.GraphQLEndpoint
	}

	return &storeConfig, nil
}

// PrimaryHostname returns the store's canonical storefront hostname: the
// first configured domain, or the synthesized subdomain on the platform
// suffix when none is configured.
func (c *Config) PrimaryHostname() string {
	if len(c.Domains) > 0 && c.Domains[0] != "*" {
		return c.Domains[0]
	}
	return SynthesizeHostname(c.StoreID)
}

// SynthesizeHostname builds the fake production-like subdomain used on local
// development so the backend's tenant resolution behaves identically.
func SynthesizeHostname(slug string) string {
	return slug + "." + config.StorefrontDomainSuffix
}

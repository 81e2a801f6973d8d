package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyExport  = "export"
	keyWindow  = "window"
	keyServer  = "server"
	keyLogging = "logging"
	keyCache   = "cache"
	keyStore   = "store"
)

// knownTopLevelKeys lists the YAML keys that correspond to Config fields.
// Keys not in this list are ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyExport:  true,
	keyWindow:  true,
	keyServer:  true,
	keyLogging: true,
	keyCache:   true,
	keyStore:   true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// target. A key present in the overlay replaces the whole section; absent
// keys leave target unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}
		if err = unmarshalSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection decodes node into a fresh value before assigning it, so
// maps from the previous section never leak into the replacement.
func unmarshalSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyExport:
		var v ExportConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Export = v
	case keyWindow:
		var v WindowConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Window = v
	case keyServer:
		var v ServerConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Server = v
	case keyLogging:
		var v LoggingConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyCache:
		var v CacheConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Cache = v
	case keyStore:
		var v StoreConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Store = v
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

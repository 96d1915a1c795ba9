// Package yaml loads client configuration and server catalogs from YAML
// files.
package yaml

import (
	"fmt"
	"os"

	"github.com/fwojciec/storystream"
	"gopkg.in/yaml.v3"
)

type configFile struct {
	BaseURL       string   `yaml:"base_url,omitempty"`
	Transport     string   `yaml:"transport,omitempty"`
	Streams       []string `yaml:"streams,omitempty"`
	InitialStream string   `yaml:"initial_stream,omitempty"`
}

type catalogFile struct {
	Streams map[string][]string `yaml:"streams"`
}

// ParseConfig parses raw YAML over [storystream.DefaultConfig]. Keys absent
// from data keep their defaults. The result is not validated, so callers can
// apply overrides first and call [storystream.Config.Validate] once.
func ParseConfig(data []byte) (storystream.Config, error) {
	var f configFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return storystream.Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg := storystream.DefaultConfig()
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.Transport != "" {
		cfg.Transport = f.Transport
	}
	if len(f.Streams) > 0 {
		cfg.Streams = f.Streams
	}
	cfg.InitialStream = f.InitialStream
	return cfg, nil
}

// LoadConfig reads and parses the config file at path without validating it.
// A missing file is reported with an error wrapping os.ErrNotExist.
func LoadConfig(path string) (storystream.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return storystream.Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return storystream.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// MarshalConfig renders cfg in the format ParseConfig reads.
func MarshalConfig(cfg storystream.Config) ([]byte, error) {
	return yaml.Marshal(configFile{
		BaseURL:       cfg.BaseURL,
		Transport:     cfg.Transport,
		Streams:       cfg.Streams,
		InitialStream: cfg.InitialStream,
	})
}

// ParseCatalog parses a catalog of the form
//
//	streams:
//	  stream1:
//	    - "Once upon a time, "
//	    - "there was a goblin."
func ParseCatalog(data []byte) (storystream.Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(f.Streams) == 0 {
		return nil, fmt.Errorf("catalog has no streams: %w", storystream.ErrValidation)
	}
	for id := range f.Streams {
		if id == "" {
			return nil, fmt.Errorf("catalog has an empty stream id: %w", storystream.ErrValidation)
		}
	}
	return storystream.Catalog(f.Streams), nil
}

// LoadCatalog reads and parses the catalog file at path.
func LoadCatalog(path string) (storystream.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

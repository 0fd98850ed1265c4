package feature

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a stored configuration blob cannot be read.
var ErrInvalidConfig = errors.New("invalid feature configuration")

// ConfigVersion is the envelope version written by EncodeConfig.
const ConfigVersion = 1

// Profile describes the target solution a feature was generated against.
type Profile struct {
	Name                string           `json:"name" yaml:"name"`
	FrameworkNamespaces []string         `json:"frameworkNamespaces,omitempty" yaml:"frameworkNamespaces,omitempty"`
	DbContextNamespaces []string         `json:"dbContextNamespaces,omitempty" yaml:"dbContextNamespaces,omitempty"`
	UIFramework         string           `json:"uiFramework,omitempty" yaml:"uiFramework,omitempty"`
	Projects            []ProfileProject `json:"projects,omitempty" yaml:"projects,omitempty"`
}

// ProfileProject is one project of a profile.
type ProfileProject struct {
	Category  string `json:"category" yaml:"category"`
	Path      string `json:"path" yaml:"path"`
	Namespace string `json:"namespace" yaml:"namespace"`
}

// Config is the decoded configuration blob stored with a feature.
// Version 0 means the blob predates the envelope and only Raw is set.
type Config struct {
	Version int
	Profile *Profile
	Extra   map[string]string
	Raw     json.RawMessage
}

type configEnvelope struct {
	Version int               `json:"version"`
	Profile *Profile          `json:"profile,omitempty"`
	Extra   map[string]string `json:"extra,omitempty"`
}

// EncodeConfig serializes a profile and the caller's extra template
// parameters into a versioned blob. With neither set it returns the empty
// string.
func EncodeConfig(p *Profile, extra map[string]string) (string, error) {
	if p == nil && len(extra) == 0 {
		return "", nil
	}
	data, err := json.Marshal(configEnvelope{Version: ConfigVersion, Profile: p, Extra: extra})
	if err != nil {
		return "", fmt.Errorf("failed to encode feature configuration: %w", err)
	}
	return string(data), nil
}

// DecodeConfig reads a blob written by EncodeConfig. Blobs without a version
// field are returned as version 0 with the raw payload preserved. Unknown
// versions and malformed envelopes fail with ErrInvalidConfig.
func DecodeConfig(blob string) (*Config, error) {
	if blob == "" {
		return &Config{Version: ConfigVersion}, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(blob), &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, ok := probe["version"]; !ok {
		return &Config{Version: 0, Raw: json.RawMessage(blob)}, nil
	}

	var env configEnvelope
	dec := json.NewDecoder(bytes.NewReader([]byte(blob)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if env.Version != ConfigVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidConfig, env.Version)
	}
	return &Config{Version: env.Version, Profile: env.Profile, Extra: env.Extra, Raw: json.RawMessage(blob)}, nil
}

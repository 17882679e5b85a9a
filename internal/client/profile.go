package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Profile is the camctl connection profile.
type Profile struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
}

// DefaultProfilePath returns $XDG_CONFIG_HOME/camctl/profile.yaml (or the
// platform equivalent).
func DefaultProfilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("client: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "camctl", "profile.yaml"), nil
}

// LoadProfile reads a profile. A missing file yields an empty profile.
func LoadProfile(path string) (Profile, error) {
	var p Profile
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("client: read profile: %w", err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("client: parse profile %s: %w", path, err)
	}
	return p, nil
}

// SaveProfile writes p with owner-only permissions since it holds a token.
func SaveProfile(path string, p Profile) error {
	b, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("client: encode profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("client: create profile dir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("client: write profile: %w", err)
	}
	return nil
}

// Merge returns p with non-empty fields of override applied.
func (p Profile) Merge(override Profile) Profile {
	if override.Endpoint != "" {
		p.Endpoint = override.Endpoint
	}
	if override.Token != "" {
		p.Token = override.Token
	}
	return p
}

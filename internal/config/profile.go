package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Profile holds the connection settings for one tenant. The token mirrors
// what the web client keeps under "{tenant}_token" in local storage.
type Profile struct {
	BaseURL string `yaml:"base_url"`
	Tenant  string `yaml:"tenant"`
	Token   string `yaml:"token,omitempty"`
}

// ProfileFile is the on-disk configuration, keyed by profile name so one
// machine can hold several tenants.
type ProfileFile struct {
	Default  string             `yaml:"default,omitempty"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// DefaultProfilePath returns the per-user config location, e.g.
// ~/.config/pfm/config.yaml.
func DefaultProfilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pfm", "config.yaml"), nil
}

func (f *ProfileFile) normalize() {
	if f.Profiles == nil {
		f.Profiles = map[string]Profile{}
	}
}

// Lookup resolves a profile by name; an empty name means the file's default.
func (f *ProfileFile) Lookup(name string) (Profile, error) {
	if name == "" {
		name = f.Default
	}
	if name == "" {
		return Profile{}, errors.New("no profile requested and no default profile set")
	}
	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not found", name)
	}
	return p, nil
}

// LoadProfiles reads the profile file. A missing file is not an error: it
// yields an empty file so first runs work on environment variables alone.
func LoadProfiles(path string) (*ProfileFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f := &ProfileFile{}
			f.normalize()
			return f, nil
		}
		return nil, err
	}

	var f ProfileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	f.normalize()
	return &f, nil
}

// SaveProfiles writes the file atomically with 0600 permissions; it carries
// a bearer token.
func SaveProfiles(path string, f *ProfileFile) error {
	if path == "" {
		return errors.New("profile path is empty")
	}
	f.normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".pfm-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

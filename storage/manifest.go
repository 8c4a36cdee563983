package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ManifestFilename lists what a run wrote.
const ManifestFilename = "manifest.yaml"

// Manifest records a run's inputs, counts and every output file with its
// checksum, so a consumer can tell which files belong together.
type Manifest struct {
	Version     int          `yaml:"version"`
	RunID       string       `yaml:"run_id"`
	GeneratedAt time.Time    `yaml:"generated_at"`
	Input       string       `yaml:"input"`
	Counts      RunCounts    `yaml:"counts"`
	Files       []FileDigest `yaml:"files"`
}

// RunCounts are the row totals at each stage.
type RunCounts struct {
	Raw      int `yaml:"raw"`
	Valid    int `yaml:"valid"`
	Invalid  int `yaml:"invalid"`
	Filtered int `yaml:"filtered"`
	Imputed  int `yaml:"imputed"`
}

// FileDigest identifies one written file.
type FileDigest struct {
	Path   string `yaml:"path"`
	Bytes  int64  `yaml:"bytes"`
	SHA256 string `yaml:"sha256"`
}

// AddFile hashes the file at path and appends it.
func (m *Manifest) AddFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "manifest: read %s", path)
	}
	sum := sha256.Sum256(b)
	m.Files = append(m.Files, FileDigest{
		Path:   filepath.ToSlash(path),
		Bytes:  int64(len(b)),
		SHA256: hex.EncodeToString(sum[:]),
	})
	return nil
}

// Write serialises the manifest into dir.
func (m *Manifest) Write(dir string) (string, error) {
	out, err := yaml.Marshal(m)
	if err != nil {
		return "", eris.Wrap(err, "manifest: marshal")
	}
	path := filepath.Join(dir, ManifestFilename)
	if err := os.WriteFile(path, out, 0644); err != nil {
		return "", eris.Wrapf(err, "manifest: write %s", path)
	}
	return path, nil
}

// ReadManifest loads a manifest written by Write.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "manifest: read %s", path)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(err, "manifest: unmarshal %s", path)
	}
	return &m, nil
}

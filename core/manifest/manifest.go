// Package manifest records the outputs of a generation run: which
// per-person documents were written, their sizes, and their content
// digests. The manifest is what downstream tooling verifies instead of
// re-reading every output.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/pullquote/core/errors"
)

// HashResult contains both SHA-256 and BLAKE3 hashes of a blob. SHA-256
// is the primary digest; BLAKE3 is carried for fast verification.
type HashResult struct {
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
}

// HashData computes both digests of data.
func HashData(data []byte) HashResult {
	s := sha256.Sum256(data)
	b := blake3.Sum256(data)
	return HashResult{
		SHA256: hex.EncodeToString(s[:]),
		BLAKE3: hex.EncodeToString(b[:]),
	}
}

// Output describes one generated per-person document.
type Output struct {
	Person    string     `json:"person"`
	Path      string     `json:"path"`
	Hashes    HashResult `json:"hashes"`
	SizeBytes int64      `json:"size_bytes"`
	Converted bool       `json:"converted,omitempty"`
}

// Manifest describes one generation run.
type Manifest struct {
	RunID        string     `json:"run_id"`
	CreatedAt    time.Time  `json:"created_at"`
	Source       string     `json:"source"`
	SourceHashes HashResult `json:"source_hashes"`
	Fixed        bool       `json:"fixed,omitempty"`
	Outputs      []Output   `json:"outputs"`
}

// New creates a manifest for a run over the given source document.
func New(source string, data []byte) *Manifest {
	return &Manifest{
		RunID:        uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Source:       source,
		SourceHashes: HashData(data),
	}
}

// AddOutput records a generated document.
func (m *Manifest) AddOutput(person, path string, data []byte, converted bool) {
	m.Outputs = append(m.Outputs, Output{
		Person:    person,
		Path:      path,
		Hashes:    HashData(data),
		SizeBytes: int64(len(data)),
		Converted: converted,
	})
}

// ToJSON serializes the manifest with indentation.
func (m *Manifest) ToJSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// Save writes the manifest to path.
func (m *Manifest) Save(path string) error {
	data, err := m.ToJSON()
	if err != nil {
		return errors.Wrap(err, "failed to serialize manifest")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// Load reads a manifest back from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "failed to parse manifest")
	}
	return &m, nil
}

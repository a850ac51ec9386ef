package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Artifact kinds recorded in the manifest.
const (
	KindImage  = "/image"
	KindReport = "/report"
)

// Artifact is one registered campaign output.
type Artifact struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id,omitempty"`
	Kind      string    `json:"kind"`
	MimeType  string    `json:"mime_type"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Registrar records produced artifacts. Registration is best-effort:
// callers log and continue when it fails.
type Registrar interface {
	Register(ctx context.Context, a Artifact) error
}

// ManifestRegistrar appends artifact records to a JSON manifest file
// alongside the outputs it describes.
type ManifestRegistrar struct {
	mu   sync.Mutex
	path string
}

// ManifestFilename is the manifest file kept in the output directory.
const ManifestFilename = "artifacts.json"

// NewManifestRegistrar creates a registrar writing to dir/artifacts.json.
func NewManifestRegistrar(dir string) *ManifestRegistrar {
	if dir == "" {
		dir = DefaultDir
	}
	return &ManifestRegistrar{path: filepath.Join(dir, ManifestFilename)}
}

// Path returns the manifest file path.
func (r *ManifestRegistrar) Path() string {
	return r.path
}

// Register appends the artifact to the manifest, assigning an ID and
// creation time when absent.
func (r *ManifestRegistrar) Register(ctx context.Context, a Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return err
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	entries = append(entries, a)

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// List returns all registered artifacts, oldest first. A missing manifest
// is an empty list, not an error.
func (r *ManifestRegistrar) List() ([]Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *ManifestRegistrar) load() ([]Artifact, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var entries []Artifact
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return entries, nil
}

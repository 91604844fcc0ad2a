package repository

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"

	"github.com/okian/brandhealth/internal/domain/model"
)

//go:embed data/q1_2025.yaml
var embeddedWave []byte

// Source produces a defaulted, not yet validated dataset.
type Source interface {
	// Kind labels the source in metrics: "embedded", "yaml", "toml", "csv" or "xlsx".
	Kind() string
	// Location names the source in logs and errors.
	Location() string
	Read(ctx context.Context) (*model.Dataset, error)
}

// EmbeddedSource reads the wave compiled into the binary.
type EmbeddedSource struct{}

// NewEmbeddedSource returns the built-in Q1 2025 source.
func NewEmbeddedSource() EmbeddedSource { return EmbeddedSource{} }

func (EmbeddedSource) Kind() string     { return "embedded" }
func (EmbeddedSource) Location() string { return "embedded:data/q1_2025.yaml" }

func (EmbeddedSource) Read(ctx context.Context) (*model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeYAML(rawbytes.Provider(embeddedWave))
}

// FileSource reads a dataset file. The extension selects the decoder:
// .yaml/.yml and .toml documents, .csv and .xlsx tables.
type FileSource struct {
	path string
	kind string
}

// NewFileSource validates the extension of path. The file itself is only
// opened by Read.
func NewFileSource(path string) (FileSource, error) {
	kind, err := formatOf(path)
	if err != nil {
		return FileSource{}, err
	}
	return FileSource{path: path, kind: kind}, nil
}

func formatOf(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return "yaml", nil
	case ".toml":
		return "toml", nil
	case ".csv":
		return "csv", nil
	case ".xlsx":
		return "xlsx", nil
	default:
		return "", fmt.Errorf("%s: extension %q: %w", path, ext, ErrUnknownFormat)
	}
}

func (s FileSource) Kind() string     { return s.kind }
func (s FileSource) Location() string { return s.path }

func (s FileSource) Read(ctx context.Context) (*model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch s.kind {
	case "yaml":
		if _, err := os.Stat(s.path); err != nil {
			return nil, err
		}
		return decodeYAML(file.Provider(s.path))
	case "toml":
		if _, err := os.Stat(s.path); err != nil {
			return nil, err
		}
		return decodeTOML(file.Provider(s.path))
	case "csv":
		f, err := os.Open(s.path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return decodeCSV(f)
	case "xlsx":
		f, err := os.Open(s.path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return decodeXLSX(f)
	}
	return nil, fmt.Errorf("%s: %w", s.path, ErrUnknownFormat)
}

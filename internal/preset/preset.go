package preset

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"tern/internal/config"
)

//go:embed presets/*.toml
var catalog embed.FS

// Errors reported by the registry.
var (
	ErrNotFound = errors.New("preset not found")
	ErrExists   = errors.New("destination already exists")
)

// Descriptor names one shipped preset.
type Descriptor struct {
	Name        string
	Dataset     string
	Description string
}

// Options controls how Materialize writes the preset.
type Options struct {
	// FileName overrides the destination file name (default tern.toml).
	FileName string
	// Overwrite allows replacing an existing destination file.
	Overwrite bool
	// FreshToken replaces the template's empty access token with a generated
	// one. Without it the copy is byte-identical to the shipped template.
	FreshToken bool
}

// Result reports what Materialize wrote.
type Result struct {
	Path  string
	Token string
}

// List returns descriptors for every shipped preset, sorted by name. The
// dataset name and description are read from the template itself so the
// listing can never drift from what setup-config writes.
func List() ([]Descriptor, error) {
	entries, err := fs.ReadDir(catalog, "presets")
	if err != nil {
		return nil, fmt.Errorf("read preset catalog: %w", err)
	}
	descriptors := make([]Descriptor, 0, len(entries))
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".toml")
		content, err := Read(name)
		if err != nil {
			return nil, err
		}
		var parsed struct {
			Data struct {
				Name        string `toml:"name"`
				Description string `toml:"description"`
			} `toml:"data"`
		}
		if err := toml.Unmarshal(content, &parsed); err != nil {
			return nil, fmt.Errorf("parse preset %s: %w", name, err)
		}
		descriptors = append(descriptors, Descriptor{
			Name:        name,
			Dataset:     parsed.Data.Name,
			Description: parsed.Data.Description,
		})
	}
	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].Name < descriptors[j].Name })
	return descriptors, nil
}

// Names returns the sorted preset names.
func Names() ([]string, error) {
	descriptors, err := List()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}
	return names, nil
}

// Read returns the raw template bytes for a preset name.
func Read(name string) ([]byte, error) {
	content, err := catalog.ReadFile("presets/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return content, nil
}

// Materialize copies the named preset into destDir. The destination must not
// exist unless Options.Overwrite is set; on any failure nothing is written.
func Materialize(name, destDir string, opts Options) (Result, error) {
	content, err := Read(name)
	if err != nil {
		return Result{}, err
	}

	fileName := opts.FileName
	if fileName == "" {
		fileName = config.FileName
	}
	dest := filepath.Join(destDir, fileName)

	if !opts.Overwrite {
		if _, err := os.Stat(dest); err == nil {
			return Result{}, fmt.Errorf("%w: %s (use --overwrite to replace it)", ErrExists, dest)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("check destination: %w", err)
		}
	}

	result := Result{Path: dest}
	if opts.FreshToken {
		token := fmt.Sprintf("%s_%s", name, uuid.NewString())
		injected, ok := injectToken(content, token)
		if !ok {
			return Result{}, fmt.Errorf("preset %q has no access_token line to replace", name)
		}
		content = injected
		result.Token = token
	}

	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", dest, err)
	}
	return result, nil
}

// injectToken rewrites the access_token line, leaving every other byte of the
// template untouched.
func injectToken(content []byte, token string) ([]byte, bool) {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "access_token") {
			continue
		}
		eq := strings.Index(line, "=")
		if eq < 0 {
			continue
		}
		lines[i] = fmt.Sprintf("%s= %q", line[:eq], token)
		return []byte(strings.Join(lines, "\n")), true
	}
	return nil, false
}

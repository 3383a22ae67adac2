// internal/diagram/diagram.go
//
// This package turns the three architecture diagram sources into something
// a generated page can show: either a URL on a remote PlantUML server or
// the raw source text when the server cannot be reached.

package diagram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Kind is one of the three fixed architecture diagram categories.
type Kind string

const (
	KindRuntime Kind = "runtime"
	KindClass   Kind = "class"
	KindBlock   Kind = "block"
)

// Kinds returns the fixed display order for the three diagram kinds.
func Kinds() []Kind {
	return []Kind{KindRuntime, KindClass, KindBlock}
}

// Title returns the page heading for the kind.
func (k Kind) Title() string {
	switch k {
	case KindRuntime:
		return "Runtime Diagram"
	case KindClass:
		return "Class Diagram"
	case KindBlock:
		return "Block Diagram"
	default:
		return string(k)
	}
}

// FileName returns the diagram source file name inside the architecture
// directory, matching the scaffolded project layout.
func (k Kind) FileName() string {
	return string(k) + "_diagram.puml"
}

// Source is one diagram description read from disk. It is a read-only
// input; the builder never rewrites diagram files.
type Source struct {
	Kind Kind
	Path string
	Text string
}

// LoadSources reads all three diagram sources from the architecture
// directory. Every file must exist; the scaffold creates all three and a
// missing one means the project layout is broken.
func LoadSources(dir string) ([]Source, error) {
	sources := make([]Source, 0, 3)
	for _, kind := range Kinds() {
		path := filepath.Join(dir, kind.FileName())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("diagram: read %s source: %w", kind, err)
		}
		sources = append(sources, Source{Kind: kind, Path: path, Text: string(data)})
	}
	return sources, nil
}

// Mode records how a diagram made it onto the page.
type Mode string

const (
	// ModeRemote means the remote server accepted the encoded diagram and
	// the page embeds an image URL.
	ModeRemote Mode = "remote"
	// ModeFallback means the remote call failed and the page embeds the
	// diagram source text verbatim.
	ModeFallback Mode = "fallback"
)

// Rendered is the per-diagram outcome the composer consumes.
type Rendered struct {
	Kind Kind
	Mode Mode
	// URL is the remote image reference; set only in ModeRemote.
	URL string
	// Text is the verbatim diagram source; set only in ModeFallback.
	Text string
	// Reason says why the render fell back; empty in ModeRemote.
	Reason string
}

// RenderSource runs one diagram through the renderer and folds any failure
// into a fallback record. A failed render is degraded output, not an
// error: one unreachable diagram never blocks the other two.
func RenderSource(ctx context.Context, r Renderer, src Source) Rendered {
	url, err := r.Render(ctx, src.Text)
	if err != nil {
		return Rendered{Kind: src.Kind, Mode: ModeFallback, Text: src.Text, Reason: err.Error()}
	}
	return Rendered{Kind: src.Kind, Mode: ModeRemote, URL: url}
}

// internal/config/config.go
//
// This package resolves the on-disk layout the documentation build works
// against. The defaults match what the project scaffold generates; an
// optional docsmith.yaml in the project root overrides them.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"docsmith/internal/diagram"
)

const (
	// ConfigFileName is looked up in the project root. Absence is fine;
	// the scaffold layout is the default.
	ConfigFileName = "docsmith.yaml"

	// WorkDir holds build-time state (logs) inside the project.
	WorkDir = ".docsmith"

	defaultHighLevelPath   = "Docs/requirements/high_level_requirements.yaml"
	defaultSoftwarePath    = "Docs/requirements/software_requirements.yaml"
	defaultArchitectureDir = "Docs/architecture"
	defaultOutputDir       = "Docs/generated_site"
)

// RendererSettings control the remote diagram render attempts.
type RendererSettings struct {
	Server  string
	Timeout time.Duration
	Offline bool
}

// Config is the resolved build configuration. All paths are absolute.
type Config struct {
	// ProjectDir is the directory the build was invoked for.
	ProjectDir string

	HighLevelPath   string
	SoftwarePath    string
	ArchitectureDir string
	OutputDir       string

	Renderer RendererSettings
}

// fileConfig models docsmith.yaml. Every field is optional.
type fileConfig struct {
	Requirements struct {
		HighLevel string `yaml:"high_level"`
		Software  string `yaml:"software"`
	} `yaml:"requirements"`
	Architecture struct {
		Dir string `yaml:"dir"`
	} `yaml:"architecture"`
	Output   string `yaml:"output"`
	Renderer struct {
		Server  string `yaml:"server"`
		Timeout string `yaml:"timeout"`
		Offline bool   `yaml:"offline"`
	} `yaml:"renderer"`
}

// Load resolves the configuration for a project directory, applying
// docsmith.yaml overrides when the file exists.
func Load(projectDir string) (*Config, error) {
	absolute, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("config: resolve project dir: %w", err)
	}

	cfg := &Config{
		ProjectDir:      absolute,
		HighLevelPath:   filepath.Join(absolute, filepath.FromSlash(defaultHighLevelPath)),
		SoftwarePath:    filepath.Join(absolute, filepath.FromSlash(defaultSoftwarePath)),
		ArchitectureDir: filepath.Join(absolute, filepath.FromSlash(defaultArchitectureDir)),
		OutputDir:       filepath.Join(absolute, filepath.FromSlash(defaultOutputDir)),
		Renderer: RendererSettings{
			Server:  diagram.DefaultServer,
			Timeout: diagram.DefaultTimeout,
		},
	}

	data, err := os.ReadFile(filepath.Join(absolute, ConfigFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", ConfigFileName, err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", ConfigFileName, err)
	}
	if err := cfg.apply(file); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(file fileConfig) error {
	if path, err := c.resolve(file.Requirements.HighLevel, "requirements.high_level"); err != nil {
		return err
	} else if path != "" {
		c.HighLevelPath = path
	}
	if path, err := c.resolve(file.Requirements.Software, "requirements.software"); err != nil {
		return err
	} else if path != "" {
		c.SoftwarePath = path
	}
	if path, err := c.resolve(file.Architecture.Dir, "architecture.dir"); err != nil {
		return err
	} else if path != "" {
		c.ArchitectureDir = path
	}
	if path, err := c.resolve(file.Output, "output"); err != nil {
		return err
	} else if path != "" {
		c.OutputDir = path
	}
	if server := strings.TrimSpace(file.Renderer.Server); server != "" {
		c.Renderer.Server = server
	}
	if raw := strings.TrimSpace(file.Renderer.Timeout); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("config: renderer.timeout %q: %w", raw, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("config: renderer.timeout must be positive, got %q", raw)
		}
		c.Renderer.Timeout = timeout
	}
	c.Renderer.Offline = file.Renderer.Offline
	return nil
}

// resolve turns a relative override into an absolute path under the
// project directory. Paths that escape the project are rejected so a bad
// config cannot redirect the overwrite of the output directory elsewhere.
func (c *Config) resolve(raw, label string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(trimmed))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("config: %s must be relative to the project dir, got %q", label, raw)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("config: %s escapes the project dir: %q", label, raw)
	}
	return filepath.Join(c.ProjectDir, cleaned), nil
}

// LogDir returns the directory the build log lives in.
func (c *Config) LogDir() string {
	return filepath.Join(c.ProjectDir, WorkDir)
}

// Package config provides the configuration loader for cinder.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/cinder/internal/core/domain"
	"go.trai.ch/cinder/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load walks up from cwd until it finds a cinder.yaml, then parses and
// validates it into the domain config.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var file File
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}

	return l.resolve(configPath, &file)
}

// findConfiguration searches cwd and its ancestors for the config file.
func findConfiguration(cwd string) (string, error) {
	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		currentDir = cwd
	}
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "configuration discovery failed"),
		"cwd", cwd)
}

// resolve validates the parsed file and turns every relative path into an
// absolute one anchored at the project root.
func (l *Loader) resolve(configPath string, file *File) (*domain.Config, error) {
	root := resolveRoot(configPath, file.Root)

	cfg := &domain.Config{
		Root:    root,
		Styles:  resolveCategory(root, file.Styles),
		Scripts: resolveCategory(root, file.Scripts),
		Markup:  resolveCategory(root, file.Markup),
	}

	if len(cfg.Styles.Patterns) == 0 &&
		len(cfg.Scripts.Patterns) == 0 &&
		len(cfg.Markup.Patterns) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrNoSourcePatterns, "invalid configuration"),
			"config", configPath)
	}

	if file.LoadPath != "" {
		cfg.LoadPath = resolvePath(root, file.LoadPath)
	}

	var err error
	cfg.Debounce, err = resolveWindow(file.Watch.DebounceMs, domain.DefaultDebounce)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid configuration"), "field", "watch.debounceMs")
	}
	cfg.OutputSettle, err = resolveWindow(file.Output.SettleMs, domain.DefaultOutputSettle)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid configuration"), "field", "output.settleMs")
	}

	for _, watchRoot := range file.Watch.Roots {
		cfg.WatchRoots = append(cfg.WatchRoots, resolvePath(root, watchRoot))
	}
	if len(cfg.WatchRoots) == 0 {
		cfg.WatchRoots = []string{root}
	}
	cfg.IgnoreGlobs = file.Watch.Ignore

	outDir := file.Output.Dir
	if outDir == "" {
		outDir = domain.DefaultOutputDir
	}
	cfg.OutputDir = resolvePath(root, outDir)

	for _, ext := range file.Output.ExcludeExts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.ExcludedExts = append(cfg.ExcludedExts, ext)
	}

	cfg.LivereloadAddr = file.Livereload.Addr
	if cfg.LivereloadAddr == "" {
		cfg.LivereloadAddr = domain.DefaultLivereloadAddr
	}

	return cfg, nil
}

func resolveCategory(root string, dto *CategoryDTO) domain.CategoryConfig {
	if dto == nil {
		return domain.CategoryConfig{}
	}

	cat := domain.CategoryConfig{
		Patterns: dto.Patterns,
		Command:  dto.Command,
	}
	if dto.SrcRoot != "" {
		cat.SrcRoot = resolvePath(root, dto.SrcRoot)
	}
	return cat
}

// resolveWindow turns a millisecond field into a duration. Zero means the
// default; negative values are a configuration error.
func resolveWindow(ms int, fallback time.Duration) (time.Duration, error) {
	if ms < 0 {
		return 0, domain.ErrInvalidDebounce
	}
	if ms == 0 {
		return fallback, nil
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(root, path))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

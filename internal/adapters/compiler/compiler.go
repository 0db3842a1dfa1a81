// Package compiler implements per-category compilers that shell out to
// external tools.
package compiler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/cinder/internal/core/domain"
	"go.trai.ch/cinder/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Compiler = (*Shell)(nil)

// Placeholders recognized in configured compiler commands.
const (
	placeholderIn  = "{in}"
	placeholderOut = "{out}"
)

// defaultCommands are the built-in compiler invocations per category.
// Markup has none; without a configured command markup files are copied.
var defaultCommands = map[domain.Category][]string{
	domain.CategoryStyle:  {"sass", "--no-source-map", placeholderIn, placeholderOut},
	domain.CategoryScript: {"esbuild", "--bundle", placeholderIn, "--outfile=" + placeholderOut},
}

// Shell compiles sources of one category by invoking an external tool.
// The tool is a black box; only its exit status and diagnostics matter.
type Shell struct {
	category domain.Category
	cfg      *domain.Config
	logger   ports.Logger
}

// NewShell creates a compiler for the given category.
func NewShell(category domain.Category, cfg *domain.Config, logger ports.Logger) *Shell {
	return &Shell{
		category: category,
		cfg:      cfg,
		logger:   logger,
	}
}

// Compile compiles one source file into the output tree.
func (s *Shell) Compile(ctx context.Context, path string) error {
	outPath, err := s.OutputPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create output directory")
	}

	argv := s.command()
	if len(argv) == 0 {
		return copyFile(path, outPath)
	}

	args := expandArgs(argv, path, outPath)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec // command comes from project config
	cmd.Dir = s.cfg.Root
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// The tool's stderr is the diagnostic the user needs; keep it in the
		// cause chain so every output path renders it.
		if diag := strings.TrimSpace(stderr.String()); diag != "" {
			err = zerr.Wrap(err, diag)
		}
		return zerr.With(zerr.Wrap(err, domain.ErrCompileFailed.Error()), "command", args[0])
	}

	s.logger.Info(fmt.Sprintf("compiled %s", outPath))
	return nil
}

// OutputPath maps a source path into the output tree: relative to the
// category's source root, extension swapped for the compiled one.
func (s *Shell) OutputPath(path string) (string, error) {
	srcRoot := s.cfg.CategoryConfigFor(s.category).SrcRoot
	if srcRoot == "" {
		srcRoot = s.cfg.Root
	}

	rel, err := filepath.Rel(srcRoot, filepath.FromSlash(path))
	if err != nil || strings.HasPrefix(rel, "..") {
		// Sources outside the source root flatten to their base name.
		rel = filepath.Base(filepath.FromSlash(path))
	}

	ext := filepath.Ext(rel)
	rel = strings.TrimSuffix(rel, ext) + s.category.OutputExt()

	return filepath.Join(s.cfg.OutputDir, rel), nil
}

// command returns the configured invocation, or the category default.
func (s *Shell) command() []string {
	if configured := s.cfg.CategoryConfigFor(s.category).Command; len(configured) > 0 {
		return configured
	}
	return defaultCommands[s.category]
}

// expandArgs substitutes the in/out placeholders. A command naming
// neither placeholder gets both appended, input first.
func expandArgs(argv []string, in, out string) []string {
	args := make([]string, len(argv))
	usedIn, usedOut := false, false
	for i, arg := range argv {
		if strings.Contains(arg, placeholderIn) {
			usedIn = true
		}
		if strings.Contains(arg, placeholderOut) {
			usedOut = true
		}
		arg = strings.ReplaceAll(arg, placeholderIn, in)
		arg = strings.ReplaceAll(arg, placeholderOut, out)
		args[i] = arg
	}
	if !usedIn {
		args = append(args, in)
	}
	if !usedOut {
		args = append(args, out)
	}
	return args
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src) // #nosec G304 -- src comes from the watched tree
	if err != nil {
		return zerr.Wrap(err, domain.ErrSourceReadFailed.Error())
	}
	if err := os.WriteFile(dst, data, domain.PrivateFilePerm); err != nil {
		return zerr.Wrap(err, "failed to write output file")
	}
	return nil
}

// ForConfig builds the compiler set the dispatcher runs with.
func ForConfig(cfg *domain.Config, logger ports.Logger) map[domain.Category]ports.Compiler {
	compilers := make(map[domain.Category]ports.Compiler, len(domain.Categories()))
	for _, cat := range domain.Categories() {
		compilers[cat] = NewShell(cat, cfg, logger)
	}
	return compilers
}

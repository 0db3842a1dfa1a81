package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/cinder/internal/core/domain"
)

func TestCanonicalize(t *testing.T) {
	t.Run("absolute path passes through", func(t *testing.T) {
		abs, err := filepath.Abs("/project/src/style.scss")
		assert.NoError(t, err)
		assert.Equal(t, filepath.ToSlash(abs), domain.Canonicalize("/project/src/style.scss"))
	})

	t.Run("relative path becomes absolute", func(t *testing.T) {
		got := domain.Canonicalize("src/style.scss")
		assert.True(t, filepath.IsAbs(filepath.FromSlash(got)))
	})

	t.Run("dot segments collapse", func(t *testing.T) {
		assert.Equal(t,
			domain.Canonicalize("/project/src/style.scss"),
			domain.Canonicalize("/project/lib/../src/./style.scss"),
		)
	})
}

func TestIsPartial(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"underscore basename", "/project/src/_mixins.scss", true},
		{"plain basename", "/project/src/main.scss", false},
		{"underscore only in directory", "/project/_partials/main.scss", false},
		{"underscore in directory and basename", "/project/_partials/_mixins.scss", true},
		{"bare underscore file", "_", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsPartial(tt.path))
		})
	}
}

func TestCategoryForPath(t *testing.T) {
	tests := []struct {
		path string
		want domain.Category
	}{
		{"/src/main.scss", domain.CategoryStyle},
		{"/src/main.sass", domain.CategoryStyle},
		{"/src/Main.SCSS", domain.CategoryStyle},
		{"/src/app.js", domain.CategoryScript},
		{"/src/app.mjs", domain.CategoryScript},
		{"/src/app.cjs", domain.CategoryScript},
		{"/src/app.ts", domain.CategoryScript},
		{"/src/index.html", domain.CategoryMarkup},
		{"/src/index.htm", domain.CategoryMarkup},
		{"/src/readme.md", domain.CategoryUnknown},
		{"/src/Makefile", domain.CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CategoryForPath(tt.path))
		})
	}
}

func TestCategory_OutputExt(t *testing.T) {
	assert.Equal(t, ".css", domain.CategoryStyle.OutputExt())
	assert.Equal(t, ".js", domain.CategoryScript.OutputExt())
	assert.Equal(t, ".html", domain.CategoryMarkup.OutputExt())
	assert.Empty(t, domain.CategoryUnknown.OutputExt())
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "style", domain.CategoryStyle.String())
	assert.Equal(t, "script", domain.CategoryScript.String())
	assert.Equal(t, "markup", domain.CategoryMarkup.String())
	assert.Equal(t, "unknown", domain.CategoryUnknown.String())
}

func TestConfig_PatternsFor(t *testing.T) {
	cfg := &domain.Config{
		Styles:  domain.CategoryConfig{Patterns: []string{"src/**/*.scss"}},
		Scripts: domain.CategoryConfig{Patterns: []string{"src/**/*.ts"}},
		Markup:  domain.CategoryConfig{Patterns: []string{"src/**/*.html"}},
	}

	assert.Equal(t, []string{"src/**/*.scss"}, cfg.PatternsFor(domain.CategoryStyle))
	assert.Equal(t, []string{"src/**/*.ts"}, cfg.PatternsFor(domain.CategoryScript))
	assert.Equal(t, []string{"src/**/*.html"}, cfg.PatternsFor(domain.CategoryMarkup))
	assert.Nil(t, cfg.PatternsFor(domain.CategoryUnknown))
}

func TestConfig_ExcludesExt(t *testing.T) {
	cfg := &domain.Config{ExcludedExts: []string{".map", ".gz"}}

	assert.True(t, cfg.ExcludesExt(".map"))
	assert.True(t, cfg.ExcludesExt(".gz"))
	assert.False(t, cfg.ExcludesExt(".css"))
	assert.False(t, cfg.ExcludesExt(""))
}

package domain

import (
	"path/filepath"
	"strings"
)

// Category classifies a source file by what compiles it.
// It is a closed set; dispatch points switch over it exhaustively.
type Category uint8

const (
	// CategoryUnknown indicates a file no compiler is responsible for.
	CategoryUnknown Category = iota
	// CategoryStyle indicates a Sass stylesheet source.
	CategoryStyle
	// CategoryScript indicates a script source.
	CategoryScript
	// CategoryMarkup indicates a markup source.
	CategoryMarkup
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryStyle:
		return "style"
	case CategoryScript:
		return "script"
	case CategoryMarkup:
		return "markup"
	case CategoryUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// Categories lists every compilable category, in dispatch order.
func Categories() []Category {
	return []Category{CategoryStyle, CategoryScript, CategoryMarkup}
}

var categoryByExt = map[string]Category{
	".scss": CategoryStyle,
	".sass": CategoryStyle,
	".js":   CategoryScript,
	".mjs":  CategoryScript,
	".cjs":  CategoryScript,
	".ts":   CategoryScript,
	".html": CategoryMarkup,
	".htm":  CategoryMarkup,
}

// CategoryForPath classifies a path by its extension.
// Unrecognized extensions map to CategoryUnknown.
func CategoryForPath(path string) Category {
	return categoryByExt[strings.ToLower(filepath.Ext(path))]
}

// OutputExt returns the extension a compiled file of this category carries.
func (c Category) OutputExt() string {
	switch c {
	case CategoryStyle:
		return ".css"
	case CategoryScript:
		return ".js"
	case CategoryMarkup:
		return ".html"
	case CategoryUnknown:
		return ""
	default:
		return ""
	}
}

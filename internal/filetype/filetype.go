// Package filetype classifies directory entries into the coarse types the
// file grid understands and maps each type to its glyph.
package filetype

import (
	"strings"

	"github.com/gobwas/glob"
)

// Type is the coarse classification of a listed entry.
type Type string

const (
	Dir      Type = "dir"
	Image    Type = "image"
	Video    Type = "video"
	Audio    Type = "audio"
	Document Type = "document"
	Archive  Type = "archive"
	Code     Type = "code"
	File     Type = "file"
)

// FallbackGlyph is shown for types without a glyph of their own.
const FallbackGlyph = "📃"

var glyphs = map[Type]string{
	Document: "📄",
	Dir:      "📁",
	Audio:    "🎵",
	Video:    "🎬",
	Archive:  "📦",
	Code:     "💻",
	File:     "📃",
}

type rule struct {
	typ     Type
	pattern glob.Glob
}

// Checked in order; the first match wins.
var rules = []rule{
	{Image, glob.MustCompile("*.{jpg,jpeg,png,gif,webp}")},
	{Document, glob.MustCompile("*.{pdf,doc,docx,txt,odt,md}")},
	{Audio, glob.MustCompile("*.{mp3,wav,ogg,flac,m4a}")},
	{Video, glob.MustCompile("*.{mp4,mov,avi,mkv}")},
	{Archive, glob.MustCompile("*.{zip,rar,7z,tar,gz}")},
	{Code, glob.MustCompile("*.{py,js,ts,html,css,json,xml}")},
}

// Classify returns the type of an entry from its name. Matching is
// case-insensitive on the extension.
func Classify(name string, isDir bool) Type {
	if isDir {
		return Dir
	}
	lower := strings.ToLower(name)
	for _, r := range rules {
		if r.pattern.Match(lower) {
			return r.typ
		}
	}
	return File
}

// Glyph returns the icon for t, or FallbackGlyph for unknown types.
func Glyph(t Type) string {
	if g, ok := glyphs[t]; ok {
		return g
	}
	return FallbackGlyph
}

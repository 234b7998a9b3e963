package receipt

import (
	_ "embed"
	"fmt"
	"os"
)

const fontFamily = "Receipt"

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	dejaVuRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	dejaVuBold []byte
	//go:embed fonts/DejaVuSansCondensed-Oblique.ttf
	dejaVuItalic []byte
)

// Fonts are the TrueType faces the PDF is drawn with. Text is embedded as
// Unicode, so a glyph the face lacks shows as a box but still extracts as
// the original character.
type Fonts struct {
	Regular []byte
	Bold    []byte
	Italic  []byte
}

// EmbeddedFonts returns DejaVu Sans Condensed. It covers the Latin, Greek
// and Cyrillic scripts but no CJK ideographs.
func EmbeddedFonts() Fonts {
	return Fonts{Regular: dejaVuRegular, Bold: dejaVuBold, Italic: dejaVuItalic}
}

// LoadFonts reads one TrueType file used for every style, for deployments
// whose passengers write in scripts DejaVu does not cover. An empty path
// keeps the embedded fonts.
func LoadFonts(path string) (Fonts, error) {
	if path == "" {
		return EmbeddedFonts(), nil
	}

	face, err := os.ReadFile(path)
	if err != nil {
		return Fonts{}, fmt.Errorf("read receipt font: %w", err)
	}
	if len(face) == 0 {
		return Fonts{}, fmt.Errorf("read receipt font: %s is empty", path)
	}
	return Fonts{Regular: face, Bold: face, Italic: face}, nil
}

func (f Fonts) orEmbedded() Fonts {
	if len(f.Regular) == 0 {
		return EmbeddedFonts()
	}
	if len(f.Bold) == 0 {
		f.Bold = f.Regular
	}
	if len(f.Italic) == 0 {
		f.Italic = f.Regular
	}
	return f
}

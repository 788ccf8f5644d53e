package document

import (
	"os"
	"strings"
	"unicode"

	"github.com/go-pdf/fpdf"
	"github.com/samber/lo"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"

	apperrors "audio2pdf/internal/app/errors"
)

const replacementRune = '?'

var defaultFace = mustParseFont(goregular.TTF)

func mustParseFont(ttf []byte) *sfnt.Font {
	f, err := sfnt.Parse(ttf)
	if err != nil {
		panic(err)
	}
	return f
}

// Paragraphs splits text on newlines and keeps the lines that contain
// something other than whitespace. Kept lines are not trimmed.
func Paragraphs(text string) []string {
	return lo.Filter(strings.Split(text, "\n"), func(line string, _ int) bool {
		return strings.TrimSpace(line) != ""
	})
}

// Writer lays out transcript text as a PDF, one paragraph per non-blank line.
// Text is set in an embedded UTF-8 TrueType font; runes the font has no glyph
// for are replaced with '?'.
type Writer struct {
	PageSize   string
	FontFamily string
	FontSize   float64
	LineHeight float64
	Spacing    float64
	Margin     float64

	ttf      []byte
	face     *sfnt.Font
	compress bool
}

// NewWriter returns a writer with US-Letter pages and a plain 12pt body style
// set in Go Regular.
func NewWriter() *Writer {
	return &Writer{
		PageSize:   "Letter",
		FontFamily: "goregular",
		FontSize:   12,
		LineHeight: 14.4,
		Spacing:    6,
		Margin:     72,
		ttf:        goregular.TTF,
		face:       defaultFace,
		compress:   true,
	}
}

// NewWriterWithFont is NewWriter with the TrueType font at path. An empty
// path keeps the embedded default.
func NewWriterWithFont(path string) (*Writer, error) {
	w := NewWriter()
	if path == "" {
		return w, nil
	}

	ttf, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Mark(err, apperrors.ErrFileReadFailed)
	}
	face, err := sfnt.Parse(ttf)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidConfig, "font %s: %v", path, err)
	}

	w.FontFamily = "custom"
	w.ttf = ttf
	w.face = face
	return w, nil
}

// MissingGlyphs returns the distinct runes of text the font cannot draw, in
// order of first appearance. Control characters are ignored.
func (w *Writer) MissingGlyphs(text string) []rune {
	var (
		buf     sfnt.Buffer
		missing []rune
		seen    = make(map[rune]bool)
	)
	for _, r := range text {
		if seen[r] || unicode.IsControl(r) {
			continue
		}
		seen[r] = true
		if !w.hasGlyph(&buf, r) {
			missing = append(missing, r)
		}
	}
	return missing
}

func (w *Writer) hasGlyph(buf *sfnt.Buffer, r rune) bool {
	idx, err := w.face.GlyphIndex(buf, r)
	return err == nil && idx != 0
}

// renderable swaps runes without a glyph for '?'
func (w *Writer) renderable(line string) string {
	var buf sfnt.Buffer
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || w.hasGlyph(&buf, r) {
			return r
		}
		return replacementRune
	}, line)
}

// Write renders text to outputPath, replacing any existing file, and returns
// the number of paragraphs laid out. Empty text yields a valid one-page document.
func (w *Writer) Write(text, outputPath string) (int, error) {
	paragraphs := Paragraphs(text)

	pdf := fpdf.New("P", "pt", w.PageSize, "")
	pdf.SetCompression(w.compress)
	pdf.SetMargins(w.Margin, w.Margin, w.Margin)
	pdf.SetAutoPageBreak(true, w.Margin)
	pdf.AddUTF8FontFromBytes(w.FontFamily, "", w.ttf)
	pdf.AddPage()
	pdf.SetFont(w.FontFamily, "", w.FontSize)

	for _, p := range paragraphs {
		pdf.MultiCell(0, w.LineHeight, w.renderable(p), "", "L", false)
		pdf.Ln(w.Spacing)
	}

	if err := pdf.Error(); err != nil {
		return 0, apperrors.Mark(err, apperrors.ErrDocumentFailed)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return 0, apperrors.Mark(err, apperrors.ErrFileWriteFailed)
	}
	if err := pdf.Output(f); err != nil {
		f.Close()
		return 0, apperrors.Mark(err, apperrors.ErrDocumentFailed)
	}
	if err := f.Close(); err != nil {
		return 0, apperrors.Mark(err, apperrors.ErrFileWriteFailed)
	}

	return len(paragraphs), nil
}

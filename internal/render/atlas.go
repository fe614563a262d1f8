package render

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"akinator/internal/domain/tree"
)

const atlasFontFamily = "atlas"

// WriteAtlas writes a PDF with one section per known object listing its
// traits. fontPath should point at a TTF with Cyrillic glyphs; without it
// the core Helvetica font is used and non-Latin text is lost.
func WriteAtlas(t *tree.Tree, output, fontPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")

	family := "Helvetica"
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if fontPath != "" {
		pdf.AddUTF8Font(atlasFontFamily, "", fontPath)
		family = atlasFontFamily
		translate = func(s string) string { return s }
	}

	pdf.AddPage()
	pdf.SetFont(family, "", 16)
	pdf.Cell(0, 10, translate("База знаний"))
	pdf.Ln(12)

	for _, leaf := range t.Leaves() {
		pdf.SetFont(family, "", 13)
		pdf.Cell(0, 8, translate(leaf.Label()))
		pdf.Ln(8)

		pdf.SetFont(family, "", 10)
		traits := tree.Traits(leaf)
		if len(traits) == 0 {
			pdf.MultiCell(0, 5, translate("  (без признаков)"), "", "L", false)
		}
		for _, trait := range traits {
			mark := "+"
			if !trait.Yes {
				mark = "-"
			}
			pdf.MultiCell(0, 5, translate(fmt.Sprintf("  %s %s", mark, trait.Sentence())), "", "L", false)
		}
		pdf.Ln(3)
	}

	return pdf.OutputFileAndClose(output)
}

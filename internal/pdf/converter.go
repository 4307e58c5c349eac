package pdf

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz" // Lightweight PDF renderer
)

// ExtractText pulls plain text from every page of a PDF
func ExtractText(pdfData []byte) (string, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// IsPDF reports whether data starts with the PDF magic header
func IsPDF(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

// ExtractTextAny returns text from a PDF payload, or the payload itself
// interpreted as UTF-8 when it is not a PDF. DOCX and other binary
// formats must be converted upstream.
func ExtractTextAny(data []byte) (string, error) {
	if IsPDF(data) {
		return ExtractText(data)
	}
	return string(data), nil
}

// Package textract turns uploaded referral documents into plain text.
// Faxed referrals arrive as PDFs; everything else is treated as text.
package textract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable is returned when no text can be extracted from a document.
// It is distinct from a successful extraction of text the model then fails
// to make sense of.
var ErrUnreadable = errors.New("could not extract text from document")

// Extractor converts uploaded document bytes into best-effort plain text.
type Extractor interface {
	Extract(filename string, data []byte) (string, error)
}

type extractor struct{}

func New() Extractor { return extractor{} }

func (extractor) Extract(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrUnreadable
	}
	if isPDF(filename, data) {
		return extractPDF(data)
	}
	if !utf8.Valid(data) {
		return "", ErrUnreadable
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", ErrUnreadable
	}
	return text, nil
}

func isPDF(filename string, data []byte) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf") ||
		bytes.HasPrefix(data, []byte("%PDF"))
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if strings.TrimSpace(buf.String()) == "" {
		return "", ErrUnreadable
	}
	return buf.String(), nil
}

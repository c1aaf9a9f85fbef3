// Package extract turns document files into plain text ready for chunking.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedType is returned for files whose extension has no extractor.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrEmptyText is returned when a file yields no text.
	ErrEmptyText = errors.New("no text extracted")
)

// Document is the text of one input file and its file metadata.
type Document struct {
	Name     string // Base name of the file, used as the chunk source.
	Text     string
	FileType string // Lowercase extension without the dot.
	Size     int64  // File size in bytes.
}

// Metadata returns the per-file chunk metadata.
func (d Document) Metadata() map[string]string {
	return map[string]string{
		"file_type": d.FileType,
		"file_size": fmt.Sprintf("%d", d.Size),
	}
}

// Supported reports whether path has an extension File can read.
func Supported(path string) bool {
	switch fileType(path) {
	case "pdf", "txt", "md", "markdown":
		return true
	}
	return false
}

// File extracts the text of the file at path.
func File(path string) (Document, error) {
	if !Supported(path) {
		return Document{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedType)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	doc := Document{
		Name:     filepath.Base(path),
		FileType: fileType(path),
		Size:     info.Size(),
	}

	if doc.FileType == "pdf" {
		doc.Text, err = pdfText(path)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		doc.Text = string(data)
	}
	if err != nil {
		return Document{}, fmt.Errorf("extracting %s: %w", doc.Name, err)
	}

	if strings.TrimSpace(doc.Text) == "" {
		return Document{}, fmt.Errorf("%s: %w", doc.Name, ErrEmptyText)
	}
	return doc, nil
}

// pdfText concatenates the plain text of every page, one page per paragraph.
func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

func fileType(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

// Format identifies how a file's bytes are decoded.
type Format string

// Supported formats. Anything unrecognized is read as UTF-8 text.
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
	FormatText Format = "text"
)

// maxDocxXMLBytes bounds how much of word/document.xml is read.
const maxDocxXMLBytes = 32 << 20

// DetectFormat picks a decoder from the file extension.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatText
	}
}

// Extract decodes an uploaded file into raw (not yet normalized) text.
func Extract(filename string, data []byte) (string, error) {
	switch DetectFormat(filename) {
	case FormatPDF:
		return extractPDF(filename, data)
	case FormatDOCX:
		return extractDOCX(filename, data)
	case FormatHTML:
		return extractHTML(filename, data)
	default:
		return decodeText(data), nil
	}
}

// ExtractFile reads a file from disk and extracts its text.
func ExtractFile(path string) (string, *Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	text, err := Extract(filepath.Base(path), data)
	if err != nil {
		return "", nil, err
	}
	return text, NewMetadata(filepath.Base(path), len(data), text), nil
}

// decodeText reads data as UTF-8, dropping invalid byte sequences.
func decodeText(data []byte) string {
	s := strings.ToValidUTF8(string(data), "")
	return strings.TrimPrefix(s, "\ufeff")
}

// extractPDF concatenates the plain text of every page.
func extractPDF(filename string, data []byte) (text string, err error) {
	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Filename: filename, Format: string(FormatPDF), Message: fmt.Sprintf("malformed document: %v", r)}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Filename: filename, Format: string(FormatPDF), Message: "failed to open document", Cause: err}
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Filename: filename, Format: string(FormatPDF), Message: fmt.Sprintf("failed to read page %d", i), Cause: err}
		}
		if strings.TrimSpace(content) != "" {
			pages = append(pages, content)
		}
	}
	return strings.Join(pages, "\n"), nil
}

// extractDOCX returns the non-empty paragraphs of word/document.xml joined by newlines.
func extractDOCX(filename string, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Filename: filename, Format: string(FormatDOCX), Message: "not a zip archive", Cause: err}
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", &ExtractionError{Filename: filename, Format: string(FormatDOCX), Message: "word/document.xml not found"}
	}

	rc, err := doc.Open()
	if err != nil {
		return "", &ExtractionError{Filename: filename, Format: string(FormatDOCX), Message: "failed to open document.xml", Cause: err}
	}
	defer func() { _ = rc.Close() }()

	paragraphs, err := docxParagraphs(io.LimitReader(rc, maxDocxXMLBytes))
	if err != nil {
		return "", &ExtractionError{Filename: filename, Format: string(FormatDOCX), Message: "failed to parse document.xml", Cause: err}
	}
	return strings.Join(paragraphs, "\n"), nil
}

// docxParagraphs walks WordprocessingML and collects the text of each w:p.
// Tabs and breaks inside runs are kept as \t and \n.
func docxParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if current.Len() > 0 {
					paragraphs = append(paragraphs, current.String())
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	return paragraphs, nil
}

// extractHTML returns the visible body text with one line per block element.
func extractHTML(filename string, data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", &ExtractionError{Filename: filename, Format: string(FormatHTML), Message: "failed to parse HTML", Cause: err}
	}

	doc.Find("script, style, noscript, template").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, tr, section, article, header, footer, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	return joinLines(body.Text()), nil
}

package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
)

// Result is a converted document: normalized markdown-like text plus the
// origin metadata detected from the file itself.
type Result struct {
	Markdown string
	Filename string
	MimeType string
}

// IConverter turns an uploaded file into normalized text for chunking.
type IConverter interface {
	Convert(filePath string) (*Result, error)
}

type documentConverter struct{}

func NewDocumentConverter() IConverter {
	return &documentConverter{}
}

func (c *documentConverter) Convert(filePath string) (*Result, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var text string
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		text, err = convertPDF(filePath)
	case ".docx":
		text, err = convertDOCX(filePath)
	case ".xlsx":
		text, err = convertXLSX(filePath)
	case ".md", ".markdown", ".txt":
		text = string(data)
	default:
		// Unknown extension: accept anything that sniffs as text.
		if mt := mimetype.Detect(data); strings.HasPrefix(mt.String(), "text/") {
			text = string(data)
		} else {
			return nil, fmt.Errorf("unsupported file format: %s", ext)
		}
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("document has no extractable text")
	}

	return &Result{
		Markdown: text,
		Filename: filepath.Base(filePath),
		MimeType: mimetype.Detect(data).String(),
	}, nil
}

func convertPDF(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", err
	}

	var text strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		text.WriteString(fmt.Sprintf("## Page %d\n\n%s\n\n", i, pageText))
	}
	return text.String(), nil
}

func convertDOCX(filePath string) (string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	return extractDocxText(r.Editable().GetContent()), nil
}

// extractDocxText pulls the text runs out of the document XML. Paragraph ends
// become newlines so the splitter sees natural boundaries.
func extractDocxText(xmlContent string) string {
	var text strings.Builder
	for _, paragraph := range strings.Split(xmlContent, "</w:p>") {
		wrote := false
		parts := strings.Split(paragraph, "<w:t")
		for i, part := range parts {
			if i == 0 {
				continue
			}
			gt := strings.Index(part, ">")
			if gt < 0 {
				continue
			}
			rest := part[gt+1:]
			end := strings.Index(rest, "</w:t>")
			if end < 0 {
				continue
			}
			text.WriteString(rest[:end])
			wrote = true
		}
		if wrote {
			text.WriteString("\n\n")
		}
	}
	return text.String()
}

func convertXLSX(filePath string) (string, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, sheet := range f.Sheets {
		text.WriteString(fmt.Sprintf("## Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
		text.WriteString("\n")
	}
	return text.String(), nil
}

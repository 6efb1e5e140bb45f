package ingestion

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/jonathan/resume-bender/internal/types"
)

// Resume upload limits.
const (
	MaxResumeBytes = 5 * 1024 * 1024
	MaxPDFPages    = 20
	headPreviewLen = 80
	previewRunes   = 600
)

var (
	pdfMagic    = []byte("%PDF")
	xmlTagRegex = regexp.MustCompile(`<[^>]+>`)
)

type resumeKind int

const (
	kindUnsupported resumeKind = iota
	kindText
	kindPDF
	kindDOCX
)

func detectKind(filename, contentType string, blob []byte) resumeKind {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(contentType, "text/plain") || strings.HasSuffix(name, ".txt"):
		return kindText
	case strings.Contains(contentType, "pdf") || strings.HasSuffix(name, ".pdf") || bytes.HasPrefix(blob, pdfMagic):
		return kindPDF
	case strings.Contains(contentType, "wordprocessingml") || strings.HasSuffix(name, ".docx"):
		return kindDOCX
	default:
		return kindUnsupported
	}
}

// ExtractResume pulls plain text out of an uploaded resume. Plain text,
// PDF (first MaxPDFPages pages) and DOCX are supported. Failures are
// *ExtractError values carrying 413, 415 or 400.
func ExtractResume(filename, contentType string, blob []byte) (*types.ResumeExtract, error) {
	if len(blob) > MaxResumeBytes {
		return nil, tooLarge()
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	kind := detectKind(filename, contentType, blob)
	var (
		text string
		err  error
	)
	switch kind {
	case kindText:
		text = strings.ToValidUTF8(string(blob), "")
	case kindPDF:
		text, err = pdfText(blob)
	case kindDOCX:
		text, err = docxText(blob)
	default:
		what := contentType
		if what == "" {
			what = filename
		}
		return nil, unsupported(what)
	}
	if err != nil {
		return nil, err
	}

	text = strings.Join(strings.Fields(text), " ")
	return &types.ResumeExtract{
		Filename:        filename,
		ContentType:     contentType,
		SizeBytes:       len(blob),
		HeadPreviewText: headPreview(blob),
		Preview:         firstRunes(text, previewRunes),
		TextLength:      utf8.RuneCountInString(text),
		ProbablyScanned: kind == kindPDF && text == "",
		Text:            text,
	}, nil
}

func pdfText(blob []byte) (text string, err error) {
	// The PDF reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = unreadable("Failed to open PDF", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return "", unreadable("Failed to open PDF", err)
	}

	pages := min(reader.NumPage(), MaxPDFPages)
	parts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", unreadable(fmt.Sprintf("Failed to read page %d", i), err)
		}
		parts = append(parts, pageText)
	}
	return strings.Join(parts, "\n\n"), nil
}

func docxText(blob []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return "", unreadable("Failed to open DOCX", err)
	}
	defer func() { _ = doc.Close() }()

	content := doc.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = strings.ReplaceAll(content, "<w:tab/>", "\t")
	return html.UnescapeString(xmlTagRegex.ReplaceAllString(content, " ")), nil
}

// headPreview decodes the first bytes of the upload, dropping invalid UTF-8.
func headPreview(blob []byte) string {
	head := blob[:min(len(blob), headPreviewLen)]
	return strings.ToValidUTF8(string(head), "")
}

func firstRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

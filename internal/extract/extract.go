// Package extract converts uploaded documents (PDF, DOCX, HTML, plain text)
// into the plain text the analysis modules consume.
package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"resumeready/internal/errors"
	"resumeready/internal/utils"

	"github.com/gabriel-vasile/mimetype"
)

// Document formats.
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
	FormatHTML = "html"
	FormatText = "text"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeHTML = "text/html"
	mimeText = "text/plain"
	mimeZip  = "application/zip"
)

// DefaultMaxSize bounds the documents Text accepts when no limit is given.
const DefaultMaxSize = 10 << 20

// Result is the extracted text of one document.
type Result struct {
	Text      string `json:"text" yaml:"text"`
	PageCount int    `json:"pageCount" yaml:"pageCount"`
	Format    string `json:"format" yaml:"format"`
	Bytes     int    `json:"bytes" yaml:"bytes"`
}

// Options tune extraction.
type Options struct {
	// MaxSize is the largest accepted document in bytes; zero means DefaultMaxSize.
	MaxSize int64
	// Filename is used as a format hint when content sniffing is inconclusive.
	Filename string
}

// Text extracts the text of data. The format is sniffed from the content, and
// the filename extension breaks ties for text-like content.
func Text(data []byte, opts Options) (*Result, error) {
	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if len(data) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "document is empty", nil)
	}
	if int64(len(data)) > maxSize {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("document is %s, larger than the %s limit",
				utils.FormatFileSize(int64(len(data))), utils.FormatFileSize(maxSize)), nil)
	}

	format, err := DetectFormat(data, opts.Filename)
	if err != nil {
		return nil, err
	}

	var res *Result
	switch format {
	case FormatPDF:
		res, err = pdfText(data)
	case FormatDOCX:
		res, err = docxText(data)
	case FormatHTML:
		res, err = htmlText(data)
	default:
		res = plainText(data)
	}
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeExtractFailed,
			fmt.Sprintf("could not extract text from %s document", format), err).
			WithContext("format", format)
	}

	res.Format = format
	res.Bytes = len(data)
	res.Text = cleanWhitespace(res.Text)
	return res, nil
}

// DetectFormat names the document format of data.
func DetectFormat(data []byte, filename string) (string, error) {
	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is(mimePDF):
		return FormatPDF, nil
	case mtype.Is(mimeDOCX), mtype.Is(mimeZip) && utils.GetFileExtension(filename) == ".docx":
		return FormatDOCX, nil
	case mtype.Is(mimeHTML):
		return FormatHTML, nil
	case mtype.Is(mimeText), utf8.Valid(data) && !bytes.ContainsRune(data, 0):
		switch utils.GetFileExtension(filename) {
		case ".html", ".htm":
			return FormatHTML, nil
		}
		return FormatText, nil
	}
	return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
		fmt.Sprintf("unsupported document type %s", mtype.String()), nil).
		WithContext("mime", mtype.String())
}

func plainText(data []byte) *Result {
	text := strings.ToValidUTF8(string(data), "")
	return &Result{
		Text:      text,
		PageCount: strings.Count(text, "\f") + 1,
	}
}

// cleanWhitespace trims every line, collapses runs of spaces and keeps at
// most one blank line between paragraphs.
func cleanWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\f", "\n")

	var b strings.Builder
	blank := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank++
			continue
		}
		if b.Len() > 0 {
			if blank > 0 {
				b.WriteString("\n\n")
			} else {
				b.WriteByte('\n')
			}
		}
		blank = 0
		b.WriteString(line)
	}
	return b.String()
}

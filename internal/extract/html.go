package extract

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are removed before text is taken from a page.
const noiseSelectors = "nav, footer, header, script, style, noscript, iframe, form, .ad, .ads, .advertisement, .sidebar, .cookie-banner, .popup"

// contentSelectors locate the posting body on common job boards, most specific first.
var contentSelectors = []string{
	".job-description",
	"#job-description",
	".job-details",
	".posting-content",
	"[data-testid=jobDescriptionText]",
	"main",
	"article",
	"#content",
	".content",
}

func htmlText(data []byte) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelectors).Remove()
	// Block elements end lines so paragraphs survive Text().
	doc.Find("p, li, br, h1, h2, h3, h4, h5, h6, div, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	content := doc.Find("body")
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content.Length() == 0 {
		content = doc.Selection
	}

	return &Result{Text: content.Text(), PageCount: 1}, nil
}

package acquire

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// stripSelectors remove chrome and noise elements before content selection.
const stripSelectors = "script, style, noscript, nav, header, footer, aside, iframe, form, " +
	".ad, .ads, .advertisement, .sidebar, .social-share, " +
	".cookie-banner, .cookie-consent, #cookie-banner, #onetrust-consent-sdk"

// contentSelectors are tried in order; site-specific wire-service containers
// come before the generic ones.
var contentSelectors = []string{
	".bw-release-story",      // Business Wire
	".release-body",          // PR Newswire
	".article-body",          // GlobeNewswire
	".news-release",          // Newswire.com
	"#releaseBody",           // Accesswire
	"article",
	"main",
	"[role=main]",
	".content",
}

var whitespaceRun = regexp.MustCompile(`[ \t\r\f]+`)
var blankLineRun = regexp.MustCompile(`\n{3,}`)

// extractContent parses the page HTML and returns the normalized article
// text plus a title guess. An empty text result means no selector matched
// and the body itself carried nothing usable.
func extractContent(body []byte, selectorMinChars int) (text, title string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	metaDesc, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	metaDesc = strings.TrimSpace(metaDesc)

	doc.Find(stripSelectors).Remove()

	fragment := selectFragment(doc, selectorMinChars)
	if fragment == "" {
		fragment = strings.TrimSpace(doc.Find("body").Text())
	} else {
		if md, convErr := htmltomarkdown.ConvertString(fragment); convErr == nil {
			fragment = md
		} else {
			// Fall back to plain text when markdown conversion chokes.
			fragment = strings.TrimSpace(doc.FindMatcher(goquery.Single("body")).Text())
		}
	}

	text = collapseWhitespace(fragment)
	header := synthesizeHeader(title, metaDesc)
	if header != "" {
		text = header + "\n\n" + text
	}
	return strings.TrimSpace(text), title, nil
}

// selectFragment returns the outer HTML of the first content selector whose
// trimmed text exceeds the threshold, or "" when none qualifies.
func selectFragment(doc *goquery.Document, minChars int) string {
	for _, sel := range contentSelectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if len(strings.TrimSpace(node.Text())) <= minChars {
			continue
		}
		html, err := goquery.OuterHtml(node)
		if err != nil {
			continue
		}
		return html
	}
	return ""
}

func synthesizeHeader(title, metaDesc string) string {
	parts := make([]string, 0, 2)
	if title != "" {
		parts = append(parts, title)
	}
	if metaDesc != "" {
		parts = append(parts, metaDesc)
	}
	return strings.Join(parts, "\n")
}

// collapseWhitespace squeezes runs of spaces and blank lines.
func collapseWhitespace(s string) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(blankLineRun.ReplaceAllString(s, "\n\n"))
}

// Package scraper pulls full article text from a publisher page when a
// provider only returned a teaser. Feeds the AI summarizer, never the
// aggregation pipeline.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxContentLength caps extracted text so prompts stay bounded.
const MaxContentLength = 6000

// Content is the extracted article body.
type Content struct {
	Title string
	Text  string
	URL   string
}

type Scraper struct {
	client *http.Client
}

func New() *Scraper {
	return &Scraper{client: &http.Client{}}
}

// Extract fetches the page and pulls the main article text out of it.
func (s *Scraper) Extract(ctx context.Context, url string) (*Content, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	text := extractBody(doc)
	if text == "" {
		return nil, fmt.Errorf("no article content found")
	}

	return &Content{
		Title: extractTitle(doc),
		Text:  text,
		URL:   url,
	}, nil
}

// extractBody tries the usual article containers, most specific first.
func extractBody(doc *goquery.Document) string {
	selectors := []string{
		"article p",
		".article-body p",
		".post-content p",
		".entry-content p",
		".content p",
		"main p",
		"p",
	}

	var paragraphs []string
	for _, selector := range selectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= 3 {
			break
		}
		paragraphs = paragraphs[:0]
	}

	if len(paragraphs) == 0 {
		return ""
	}
	return trimToLength(strings.Join(paragraphs, "\n\n"), MaxContentLength)
}

func extractTitle(doc *goquery.Document) string {
	for _, selector := range []string{"h1", ".headline", ".article-title", "title"} {
		title := strings.TrimSpace(doc.Find(selector).First().Text())
		if title != "" {
			return title
		}
	}
	return ""
}

// trimToLength cuts on a paragraph boundary where possible.
func trimToLength(text string, max int) string {
	if len(text) <= max {
		return text
	}

	paragraphs := strings.Split(text, "\n\n")
	var out []string
	total := 0
	for _, p := range paragraphs {
		if total+len(p) > max {
			break
		}
		out = append(out, p)
		total += len(p) + 2
	}
	if len(out) == 0 {
		return text[:max]
	}
	return strings.Join(out, "\n\n")
}

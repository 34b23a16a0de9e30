package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// maxDocChars caps extracted page text so a single fetch cannot flood the
// model context.
const maxDocChars = 12000

// FetchPageInput is the model-facing input schema for the fetchPage tool.
type FetchPageInput struct {
	URL string `json:"url" jsonschema_description:"HTTP or HTTPS URL of the page to read"`
}

// FetchPage downloads a web page and extracts its readable content.
// Readability extraction is attempted first; pages it cannot parse fall
// back to a plain-text walk of the document body.
func (h *Handler) FetchPage(ctx context.Context, in FetchPageInput) Result {
	raw := strings.TrimSpace(in.URL)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Failure(ErrCodeValidation,
			fmt.Sprintf("%q is not a fetchable URL. Only http and https are supported.", raw), "")
	}
	if h.guard != nil {
		if err := h.guard.Validate(u.String()); err != nil {
			return Failure(ErrCodeValidation,
				fmt.Sprintf("That URL can't be fetched: %v.", err), err.Error())
		}
	}

	page, err := h.fetchHTML(ctx, u.String())
	if err != nil {
		h.logger.Warn("page fetch failed", "url", u.String(), "error", err)
		return classifyFetchError(err, "page fetch",
			fmt.Sprintf("The page at %s was not found.", u.String()))
	}

	title, text := extractReadable(page, u)
	if text == "" {
		return Success(fmt.Sprintf("The page at %s had no readable text content.", u.String()),
			map[string]any{"url": u.String()})
	}
	if len(text) > maxDocChars {
		text = truncate(text, maxDocChars) + "…"
	}

	return Success(fmt.Sprintf("Content of %s:\n\n%s", u.String(), text), map[string]any{
		"url":   u.String(),
		"title": title,
		"text":  text,
	})
}

// fetchHTML retrieves a page body with the shared error classification
// used by the other HTTP tools.
func (h *Handler) fetchHTML(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", "aria/1.0 (+documentation fetcher)")

	client := h.fetchClient
	if client == nil {
		client = h.client
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &httpError{statusCode: resp.StatusCode, body: truncate(string(body), 200)}
	}
	return string(body), nil
}

// extractReadable pulls the main article text out of an HTML document.
func extractReadable(page string, u *url.URL) (title, text string) {
	article, err := readability.FromReader(strings.NewReader(page), u)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return strings.TrimSpace(article.Title), collapseWhitespace(article.TextContent)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", ""
	}
	title = strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find("script, style, noscript, nav, footer").Remove()

	body := doc.Find("main, article").First()
	if body.Length() == 0 {
		body = doc.Find("body").First()
	}
	if body.Length() == 0 {
		return title, ""
	}
	return title, collapseWhitespace(nodeText(body.Get(0)))
}

// nodeText walks an HTML node collecting text content, inserting line
// breaks at block boundaries so headings and paragraphs stay separated.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "p", "div", "li", "br", "h1", "h2", "h3", "h4", "h5", "h6", "pre", "tr":
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// truncate cuts s to at most n bytes, backing up so a multi-byte rune is
// never split.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Package extract pulls study content out of web pages, YouTube videos
// and PDF files.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/quizforge/backend/internal/domain/link"
	"github.com/quizforge/backend/internal/worker"
)

const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	fetchTimeout   = 10 * time.Second
	extractWorkers = 4
)

// Result is the extracted content of one source.
type Result struct {
	URL     string
	Title   string
	Content string
	Type    link.Type
}

// Extractor fetches and extracts content from external sources.
type Extractor struct {
	client *http.Client
}

func New() *Extractor {
	return &Extractor{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// FromURL fetches a web page and returns its visible text and title.
func (e *Extractor) FromURL(ctx context.Context, pageURL string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("invalid URL %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("parsing %s: %w", pageURL, err)
	}

	title, text := walkDocument(doc)
	return Result{URL: pageURL, Title: title, Content: text, Type: link.TypeURL}, nil
}

// FromYouTube returns the video title via the oEmbed endpoint plus whatever
// text the watch page itself exposes. If oEmbed fails the page is extracted
// like any other URL.
func (e *Extractor) FromYouTube(ctx context.Context, videoURL string) (Result, error) {
	page, err := e.FromURL(ctx, videoURL)
	if err != nil {
		return Result{}, err
	}
	page.Type = link.TypeYouTube

	if title, err := e.oembedTitle(ctx, videoURL); err == nil && title != "" {
		page.Title = title
	}
	return page, nil
}

func (e *Extractor) oembedTitle(ctx context.Context, videoURL string) (string, error) {
	oembedURL := "https://www.youtube.com/oembed?format=json&url=" + url.QueryEscape(videoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, oembedURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oembed status %d", resp.StatusCode)
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	return payload.Title, nil
}

// FromPDF extracts text from a PDF on disk using the pdftotext binary
// (poppler-utils).
func (e *Extractor) FromPDF(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext %s: %w", path, err)
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return "", fmt.Errorf("pdftotext %s: no extractable text", path)
	}
	return text, nil
}

// IsYouTube reports whether the URL points at a YouTube video.
func IsYouTube(u string) bool {
	return strings.Contains(u, "youtube.com") || strings.Contains(u, "youtu.be")
}

// FromURLs extracts all URLs concurrently. A source that fails does not fail
// the batch: it produces a Result of type "error" whose content describes the
// failure, in input order.
func (e *Extractor) FromURLs(ctx context.Context, urls []string) []Result {
	pool := worker.NewPool[Result](extractWorkers, len(urls))

	for i, u := range urls {
		u := u
		pool.Submit(strconv.Itoa(i), func() Result {
			var res Result
			var err error
			if IsYouTube(u) {
				res, err = e.FromYouTube(ctx, u)
			} else {
				res, err = e.FromURL(ctx, u)
			}
			if err != nil {
				return Result{
					URL:     u,
					Title:   u,
					Content: fmt.Sprintf("Failed to extract content: %v", err),
					Type:    link.TypeError,
				}
			}
			if res.Title == "" {
				res.Title = u
			}
			return res
		})
	}
	pool.Close()

	results := make([]Result, len(urls))
	for r := range pool.Results() {
		idx, _ := strconv.Atoi(r.JobID)
		results[idx] = r.Output
	}
	return results
}

// ============================================================================
// HTML text extraction
// ============================================================================

// walkDocument returns the document title and its visible text with
// whitespace collapsed. Script and style subtrees are skipped.
func walkDocument(doc *html.Node) (title, text string) {
	var parts []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return title, strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

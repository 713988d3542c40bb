package tool

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/hupe1980/eventcrew/core"
)

// FetchToolName is the name the model uses to read a web page.
const FetchToolName = "fetch_page"

// FetchOptions configures a FetchTool.
type FetchOptions struct {
	MaxBodySize int64
	// MaxChars truncates the converted page handed back to the model.
	MaxChars   int
	UserAgent  string
	HTTPClient *http.Client
}

// FetchTool downloads a web page found via search and returns it as markdown
// (or plain text). Like SearchTool it reports failures as strings.
type FetchTool struct {
	opts FetchOptions
}

// NewFetchTool creates a FetchTool.
func NewFetchTool(optFns ...func(o *FetchOptions)) *FetchTool {
	opts := FetchOptions{
		MaxBodySize: 5 * 1024 * 1024,
		MaxChars:    8000,
		UserAgent:   "eventcrew-fetch/1.0",
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &FetchTool{opts: opts}
}

// Name implements Tool.
func (t *FetchTool) Name() string { return FetchToolName }

// Description implements Tool.
func (t *FetchTool) Description() string {
	return "Fetch a web page by URL and return its content as markdown. Use it to read venue or vendor pages found via search."
}

// Parameters implements Tool.
func (t *FetchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "The http(s) URL to fetch",
			},
			"format": map[string]any{
				"type":        "string",
				"description": "Output format: markdown (default) or text",
				"enum":        []string{"markdown", "text"},
			},
		},
		"required": []string{"url"},
	}
}

// Call implements Tool.
func (t *FetchTool) Call(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	url, _ := args["url"].(string)
	format, _ := args["format"].(string)
	if format == "" {
		format = "markdown"
	}

	content, err := t.fetch(toolCtx, url, format)
	if err != nil {
		toolCtx.LogWarn("tool.fetch.failed", "url", url, "error", err.Error())
		return "Fetch unavailable: " + err.Error(), nil
	}

	return content, nil
}

func (t *FetchTool) fetch(toolCtx *core.ToolContext, url, format string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("url must start with http:// or https://")
	}

	req, err := http.NewRequestWithContext(toolCtx.Context(), http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", t.opts.UserAgent)

	resp, err := t.opts.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request failed with status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.opts.MaxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) >= t.opts.MaxBodySize {
		body = trimPartialRune(body)
	}

	content := string(body)
	if !utf8.ValidString(content) {
		return "", fmt.Errorf("response content is not valid UTF-8")
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		switch format {
		case "text":
			content, err = htmlToText(content)
		default:
			content, err = htmlToMarkdown(content)
		}
		if err != nil {
			return "", fmt.Errorf("failed to convert html: %w", err)
		}
	}

	return truncate(content, t.opts.MaxChars), nil
}

func htmlToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find(blockElements).AppendHtml(" ")

	return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
}

const blockElements = "address, article, aside, blockquote, br, dd, div, dl, dt, " +
	"figcaption, footer, h1, h2, h3, h4, h5, h6, header, hr, li, main, nav, " +
	"ol, p, pre, section, table, td, th, tr, ul"

// trimPartialRune drops a multi-byte rune cut off by the body size limit.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			break
		}
	}
	return b
}

func htmlToMarkdown(html string) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Remove("script", "style", "noscript")

	return converter.ConvertString(html)
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars]) + fmt.Sprintf("\n\n[Content truncated to %d characters]", maxChars)
}

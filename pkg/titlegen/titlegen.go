// Package titlegen suggests human-readable titles for URLs. An upstream
// text-generation model refines a title parsed from the URL itself; any
// upstream failure falls back to the parsed title.
package titlegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	untitled = "Untitled Link"

	preamble = "You are an expert copywriter. Refine a simple, machine-generated title to be more engaging " +
		"and human-readable, using the full URL for context. The final title must be no more than 10 words."
)

var pageExtension = regexp.MustCompile(`\.(html|htm|php|aspx|jsp)$`)

// ParseURLTitle derives a deterministic title from the domain and the last
// path segment, e.g. "https://www.github.com/go/my-repo.html" -> "Github: my repo".
func ParseURLTitle(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Hostname() == "" {
		return untitled
	}

	domain := strings.TrimPrefix(u.Hostname(), "www.")
	mainDomain := strings.Split(domain, ".")[0]

	path := strings.Trim(u.Path, "/")
	segments := strings.Split(path, "/")
	lastSegment := segments[len(segments)-1]

	cleanSegment := ""
	if lastSegment != "" {
		cleanSegment = strings.NewReplacer("-", " ", "_", " ").Replace(lastSegment)
		cleanSegment = pageExtension.ReplaceAllString(cleanSegment, "")
	}

	title := mainDomain
	if cleanSegment != "" {
		title = mainDomain + ": " + cleanSegment
	}
	return capitalize(title)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Config describes the upstream chat endpoint.
type Config struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// Generator refines parsed titles through a Cohere-compatible chat API.
type Generator struct {
	cfg        Config
	httpClient *http.Client
	log        *zap.Logger
}

// New creates a Generator. With an empty API key the upstream is never called.
func New(cfg Config, log *zap.Logger) *Generator {
	return &Generator{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

type chatRequest struct {
	Model       string  `json:"model"`
	Preamble    string  `json:"preamble"`
	Message     string  `json:"message"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type chatResponse struct {
	Text string `json:"text"`
}

// Suggest always returns a title; upstream errors are logged and replaced by
// the parsed fallback.
func (g *Generator) Suggest(ctx context.Context, rawURL string) string {
	baseline := ParseURLTitle(rawURL)
	if g.cfg.APIKey == "" {
		return baseline
	}

	title, err := g.refine(ctx, rawURL, baseline)
	if err != nil {
		g.log.Warn("title generation failed, using parsed title",
			zap.String("url", rawURL),
			zap.String("fallback", baseline),
			zap.Error(err))
		return baseline
	}
	if title == "" {
		return baseline
	}

	g.log.Debug("title generated", zap.String("url", rawURL), zap.String("title", title))
	return title
}

func (g *Generator) refine(ctx context.Context, rawURL, baseline string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       g.cfg.Model,
		Preamble:    preamble,
		Message:     fmt.Sprintf("Refine the title for the URL %q. The simple title is: %q", rawURL, baseline),
		Temperature: 0.75,
		MaxTokens:   30,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return strings.ReplaceAll(strings.TrimSpace(body.Text), `"`, ""), nil
}

package icy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	// maxMetaInterval bounds how much audio is skipped to reach in-band metadata.
	maxMetaInterval = 64 * 1024
	defaultTimeout  = 10 * time.Second
	defaultAgent    = "mediascan"
)

// HTTPDoer describes the HTTP client used for station requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Metadata is the station information a server announces.
type Metadata struct {
	Name        string
	Description string
	Genre       string
	URL         string
	Bitrate     int
	StreamTitle string
}

// Empty reports whether no descriptive field was announced.
func (m *Metadata) Empty() bool {
	return m == nil || (m.Name == "" && m.Description == "" && m.Genre == "" && m.StreamTitle == "")
}

// Client fetches ICY metadata.
type Client struct {
	doer      HTTPDoer
	userAgent string
	timeout   time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.doer = doer
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if strings.TrimSpace(agent) != "" {
			c.userAgent = strings.TrimSpace(agent)
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewClient constructs a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{doer: http.DefaultClient, userAgent: defaultAgent, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch requests url with Icy-MetaData enabled and returns the announced
// station metadata.
func (c *Client) Fetch(ctx context.Context, url string) (*Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build icy request: %w", err)
	}
	req.Header.Set("Icy-MetaData", "1")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("icy request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("icy request returned %d", resp.StatusCode)
	}

	meta := &Metadata{
		Name:        headerText(resp.Header, "icy-name"),
		Description: headerText(resp.Header, "icy-description"),
		Genre:       headerText(resp.Header, "icy-genre"),
		URL:         headerText(resp.Header, "icy-url"),
	}
	if br, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("icy-br"))); err == nil {
		meta.Bitrate = br
	}

	if interval, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("icy-metaint"))); err == nil && interval > 0 && interval <= maxMetaInterval {
		title, err := readStreamTitle(resp.Body, interval)
		if err == nil {
			meta.StreamTitle = title
		}
	}
	return meta, nil
}

func headerText(h http.Header, key string) string {
	return repairText(strings.TrimSpace(h.Get(key)))
}

// repairText decodes Latin-1 bytes that servers send without declaring a
// charset.
func repairText(s string) string {
	if s == "" || utf8.ValidString(s) {
		return s
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return decoded
}

// readStreamTitle skips one audio interval and parses the metadata block
// that follows it.
func readStreamTitle(r io.Reader, interval int) (string, error) {
	if _, err := io.CopyN(io.Discard, r, int64(interval)); err != nil {
		return "", err
	}
	var lenByte [1]byte
	if _, err := io.ReadFull(r, lenByte[:]); err != nil {
		return "", err
	}
	size := int(lenByte[0]) * 16
	if size == 0 {
		return "", errors.New("icy: empty metadata block")
	}
	block := make([]byte, size)
	if _, err := io.ReadFull(r, block); err != nil {
		return "", err
	}
	return parseStreamTitle(strings.TrimRight(string(block), "\x00")), nil
}

// parseStreamTitle extracts StreamTitle from "StreamTitle='...';StreamUrl='...';".
func parseStreamTitle(block string) string {
	const key = "StreamTitle='"
	start := strings.Index(block, key)
	if start < 0 {
		return ""
	}
	rest := block[start+len(key):]
	end := strings.Index(rest, "';")
	if end < 0 {
		end = strings.LastIndex(rest, "'")
	}
	if end < 0 {
		return ""
	}
	return repairText(strings.TrimSpace(rest[:end]))
}

package icy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

const maxPlaylistBytes = 256 * 1024

// IsPlaylist reports whether rawURL names an m3u or pls playlist.
func IsPlaylist(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".m3u", ".m3u8", ".pls":
		return true
	}
	return false
}

// ResolvePlaylist returns the first stream URL listed by the playlist at
// rawURL. Non-playlist URLs are returned unchanged.
func (c *Client) ResolvePlaylist(ctx context.Context, rawURL string) (string, error) {
	if !IsPlaylist(rawURL) {
		return rawURL, nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build playlist request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.doer.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch playlist: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("playlist request returned %d", resp.StatusCode)
	}

	entry, err := FirstEntry(io.LimitReader(resp.Body, maxPlaylistBytes))
	if err != nil {
		return "", fmt.Errorf("playlist %s: %w", rawURL, err)
	}
	base, _ := url.Parse(rawURL)
	ref, err := url.Parse(entry)
	if err != nil {
		return "", fmt.Errorf("playlist %s: bad entry %q: %w", rawURL, entry, err)
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	return ref.String(), nil
}

// FirstEntry returns the first stream entry of an m3u or pls document.
func FirstEntry(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "[") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if ok && strings.HasPrefix(strings.ToLower(key), "file") {
			if value = strings.TrimSpace(value); value != "" {
				return value, nil
			}
			continue
		}
		if ok && !strings.Contains(key, "/") {
			// pls header keys such as NumberOfEntries or Title1.
			continue
		}
		return line, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", errors.New("no stream entries")
}

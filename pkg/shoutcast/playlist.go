package shoutcast

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxPlaylistSize bounds how much of a playlist response is read.
const maxPlaylistSize = 64 * 1024

type playlistKind int

const (
	notPlaylist playlistKind = iota
	playlistPLS
	playlistM3U
)

// parsePLS parses a PLS playlist file and returns the first stream URL
func parsePLS(body io.Reader) (string, error) {
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "File") {
			continue
		}
		if _, url, ok := strings.Cut(line, "="); ok {
			if url = strings.TrimSpace(url); url != "" {
				return url, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read playlist: %w", err)
	}

	return "", fmt.Errorf("no stream URL found in PLS playlist")
}

// parseM3U parses an M3U playlist file and returns the first stream URL
func parseM3U(body io.Reader) (string, error) {
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read playlist: %w", err)
	}

	return "", fmt.Errorf("no stream URL found in M3U playlist")
}

// classify decides whether resp is a playlist from its headers and URL. An
// ICY stream is never a playlist.
func classify(url string, resp *http.Response) playlistKind {
	if resp.Header.Get("icy-metaint") != "" {
		return notPlaylist
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	path := strings.ToLower(resp.Request.URL.Path)
	if path == "" {
		path = strings.ToLower(url)
	}

	switch {
	case strings.Contains(contentType, "audio/x-scpls"),
		strings.Contains(contentType, "application/pls+xml"),
		strings.HasSuffix(path, ".pls"):
		return playlistPLS
	case strings.Contains(contentType, "mpegurl"),
		strings.HasSuffix(path, ".m3u"),
		strings.HasSuffix(path, ".m3u8"):
		return playlistM3U
	}

	return notPlaylist
}

// resolvePlaylist reads a playlist body and returns the stream URL it names.
func resolvePlaylist(kind playlistKind, body io.Reader) (string, error) {
	body = io.LimitReader(body, maxPlaylistSize)

	switch kind {
	case playlistPLS:
		url, err := parsePLS(body)
		if err != nil {
			return "", fmt.Errorf("failed to parse PLS playlist: %w", err)
		}
		return url, nil
	case playlistM3U:
		url, err := parseM3U(body)
		if err != nil {
			return "", fmt.Errorf("failed to parse M3U playlist: %w", err)
		}
		return url, nil
	}

	return "", fmt.Errorf("not a playlist")
}

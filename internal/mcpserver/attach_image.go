package mcpserver

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/notewise/internal/noteservice"
)

var mimeToExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// fetcher downloads remote images.
type fetcher struct {
	client *http.Client
	// checkHost rejects hosts that must not be contacted.
	checkHost func(host string) error
}

func newFetcher() *fetcher {
	f := &fetcher{checkHost: checkBlockedHost}
	f.client = &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("too many redirects (max 5)")
			}
			return f.checkHost(req.URL.Hostname())
		},
	}
	return f
}

func (s *Server) attachImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	noteID, err := req.RequireString("note_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawURL, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var data []byte
	var detectedExt string
	if strings.HasPrefix(rawURL, "data:") {
		data, detectedExt, err = decodeDataURI(rawURL)
	} else {
		data, detectedExt, err = s.fetcher.fetch(ctx, rawURL)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	filename := req.GetString("filename", "")
	if filename == "" {
		filename = filenameFromURL(rawURL, detectedExt)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if err := validateMagicBytes(data, ext); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	n, err := s.svc.SetImage(ctx, noteID, filename, data)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]string{"note_id": n.ID, "image_url": n.ImageURL})
}

// decodeDataURI parses a data:<mediatype>;base64,<data> URI.
func decodeDataURI(uri string) ([]byte, string, error) {
	rest := strings.TrimPrefix(uri, "data:")
	commaIdx := strings.Index(rest, ",")
	if commaIdx < 0 {
		return nil, "", fmt.Errorf("invalid data URI: missing comma separator")
	}
	meta, encoded := rest[:commaIdx], rest[commaIdx+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("only base64 data URIs are supported")
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, "", fmt.Errorf("invalid base64 data: %w", err)
		}
	}
	if len(data) > noteservice.MaxImageSize {
		return nil, "", fmt.Errorf("file too large: %d bytes (max %d)", len(data), noteservice.MaxImageSize)
	}

	mime := strings.Split(strings.TrimSuffix(meta, ";base64"), ";")[0]
	ext := mimeToExt[mime]
	if ext == "" {
		return nil, "", fmt.Errorf("unsupported MIME type in data URI: %s", mime)
	}
	return data, ext, nil
}

// fetch downloads an image over http/https.
func (f *fetcher) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, "", fmt.Errorf("unsupported scheme: %s (only http/https)", parsed.Scheme)
	}
	if err := f.checkHost(parsed.Hostname()); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("invalid URL: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, noteservice.MaxImageSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read body failed: %w", err)
	}
	if len(data) > noteservice.MaxImageSize {
		return nil, "", fmt.Errorf("file too large: exceeds %d bytes", noteservice.MaxImageSize)
	}

	ct := resp.Header.Get("Content-Type")
	return data, mimeToExt[strings.Split(ct, ";")[0]], nil
}

// checkBlockedHost rejects loopback and cloud metadata addresses.
func checkBlockedHost(host string) error {
	if host == "metadata.google.internal" {
		return fmt.Errorf("blocked host: %s", host)
	}

	ip := net.ParseIP(host)
	if ip == nil {
		ips, lookupErr := net.LookupIP(host)
		if lookupErr != nil || len(ips) == 0 {
			return nil //nolint:nilerr // let http.Client handle DNS failures
		}
		ip = ips[0]
	}

	if ip.IsLoopback() {
		return fmt.Errorf("blocked host: loopback address %s", host)
	}
	// AWS/GCP/Azure metadata endpoint.
	if ip.Equal(net.ParseIP("169.254.169.254")) {
		return fmt.Errorf("blocked host: cloud metadata address %s", host)
	}
	return nil
}

// filenameFromURL takes the last path segment of an http URL when it has an
// extension, otherwise "image" plus the detected extension.
func filenameFromURL(rawURL, fallbackExt string) string {
	if !strings.HasPrefix(rawURL, "data:") {
		if parsed, err := url.Parse(rawURL); err == nil {
			base := path.Base(parsed.Path)
			if filepath.Ext(base) != "" {
				return base
			}
		}
	}
	return "image" + fallbackExt
}

// validateMagicBytes verifies file content matches the declared extension.
func validateMagicBytes(data []byte, ext string) error {
	detected := http.DetectContentType(data)
	got := mimeToExt[strings.Split(detected, ";")[0]]

	switch ext {
	case ".jpg", ".jpeg":
		if got != ".jpg" {
			return fmt.Errorf("content does not match extension %s (detected: %s)", ext, detected)
		}
	default:
		if got != ext {
			return fmt.Errorf("content does not match extension %s (detected: %s)", ext, detected)
		}
	}
	return nil
}

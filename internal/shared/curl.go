// Utilities for reusing headers from a "Copy as cURL" request.
package shared

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
)

var (
	curlHeaderRe = regexp.MustCompile(`(?:-H|--header)\s+(?:'([^']+)'|"([^"]+)")`)
	curlCookieRe = regexp.MustCompile(`(?:-b|--cookie)\s+(?:'([^']+)'|"([^"]+)")`)
)

// CurlHeaders holds the headers and cookie of a cURL command copied from the browser.
type CurlHeaders struct {
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a file containing a cURL command and extracts its headers.
func ParseCurlFile(path string) (*CurlHeaders, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}
	return ParseCurlCommand(content)
}

// ParseCurlCommand extracts -H/--header values and the -b/--cookie value of a cURL command.
//
// A "Cookie:" header counts as the cookie when no -b flag is present.
func ParseCurlCommand(data []byte) (*CurlHeaders, error) {
	cmd := strings.ReplaceAll(string(data), "\\\n", " ")
	cmd = strings.ReplaceAll(cmd, "\\", "")

	c := &CurlHeaders{Headers: map[string]string{}}
	for _, m := range curlHeaderRe.FindAllStringSubmatch(cmd, -1) {
		key, value, ok := strings.Cut(firstGroup(m), ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if strings.EqualFold(key, "cookie") {
			if c.Cookie == "" {
				c.Cookie = value
			}
			continue
		}
		c.Headers[key] = value
	}
	if m := curlCookieRe.FindStringSubmatch(cmd); m != nil {
		c.Cookie = firstGroup(m)
	}

	if len(c.Headers) == 0 && c.Cookie == "" {
		return nil, fmt.Errorf("%w: no headers found in curl command", ErrInvalidInput)
	}
	return c, nil
}

func firstGroup(m []string) string {
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

// Header returns the identity-bearing headers as an [http.Header].
//
// Transport headers that the client sets itself (Content-Length, Host, Accept-Encoding) are dropped.
func (c *CurlHeaders) Header() http.Header {
	h := http.Header{}
	for k, v := range c.Headers {
		switch http.CanonicalHeaderKey(k) {
		case "Content-Length", "Host", "Accept-Encoding", "Connection":
			continue
		}
		h.Set(k, v)
	}
	if c.Cookie != "" {
		h.Set("Cookie", c.Cookie)
	}
	return h
}

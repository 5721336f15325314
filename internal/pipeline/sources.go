package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"unicode/utf8"
)

const (
	homepageFetchLimit   = 5000
	homepageExcerptLimit = 2000
	readmeExcerptLimit   = 3000
)

var readmeNames = []string{"README.md", "readme.md", "README.txt", "readme.txt"}

// fetchHomepage retrieves the locally served homepage of a process to give
// the summary stage something concrete to describe. Any failure yields an
// empty excerpt; the summary prompt degrades to name-only context.
func fetchHomepage(ctx context.Context, client *http.Client, port int) string {
	if port <= 0 || client == nil {
		return ""
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://localhost:%d/", port), nil)
	if err != nil {
		return ""
	}
	resp, err := client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, homepageFetchLimit))
	if err != nil {
		return ""
	}
	return truncate(string(body), homepageExcerptLimit)
}

// findReadme reads the first README variant found in the process workdir.
func findReadme(workdir string) string {
	if workdir == "" {
		return ""
	}
	for _, name := range readmeNames {
		content, err := os.ReadFile(filepath.Join(workdir, name))
		if err != nil {
			continue
		}
		return truncate(string(content), readmeExcerptLimit)
	}
	return ""
}

// truncate caps s at limit bytes without splitting a multi-byte rune, so
// excerpts stay valid UTF-8 when embedded in prompts.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

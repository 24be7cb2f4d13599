package captions

import (
	"bufio"
	"log/slog"
	"os"
	"strings"
)

// LoadCookieHeader builds the Cookie header sent to youtube.com. A literal
// header wins; otherwise youtube.com cookies are read from a Netscape
// cookies.txt file. Missing input yields "".
func LoadCookieHeader(header, path string) string {
	if h := strings.TrimSpace(header); h != "" {
		return h
	}
	if path == "" {
		return ""
	}

	f, err := os.Open(path)
	if err != nil {
		slog.Warn("Could not read YouTube cookies file", "path", path, "error", err)
		return ""
	}
	defer f.Close()

	var pairs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 7 {
			continue
		}
		domain, name, value := parts[0], parts[5], parts[6]
		if name == "" || value == "" {
			continue
		}
		if strings.Contains(domain, "youtube.com") {
			pairs = append(pairs, strings.TrimSpace(name+"="+value))
		}
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("Failed to scan YouTube cookies file", "path", path, "error", err)
	}
	return strings.Join(pairs, "; ")
}

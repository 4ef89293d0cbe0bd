package analyzer

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"route-recon/internal/logger"
	"route-recon/internal/utils"
)

// codingCookie matches a PEP 263 declaration such as "# -*- coding: euc-kr -*-"
var codingCookie = regexp.MustCompile(`^[ \t\f]*#.*?coding[:=][ \t]*([-\w.]+)`)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ScanDirectory walks the root directory and finds .py files in lexical order.
// Paths whose root-relative form contains any exclusion substring are skipped.
func ScanDirectory(root string, excludePatterns []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, _ := filepath.Rel(root, path)
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			// Skip VCS metadata always
			if d.Name() == ".git" || d.Name() == ".svn" || d.Name() == ".hg" {
				return filepath.SkipDir
			}
			if relPath != "." && utils.IsExcluded(relPath, excludePatterns) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(path, ".py") && !utils.IsExcluded(relPath, excludePatterns) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	return files, nil
}

// ReadFile reads a source file and returns UTF-8 text.
// Valid UTF-8 is used as-is; otherwise the PEP 263 coding cookie and then each
// encoding hint (e.g. "euc-kr", "windows-1252") is tried in order.
func ReadFile(path string, encodingHints []string) (string, error) {
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	if utf8.Valid(rawBytes) {
		return string(bytes.TrimPrefix(rawBytes, utf8BOM)), nil
	}

	candidates := make([]string, 0, len(encodingHints)+1)
	if cookie := declaredEncoding(rawBytes); cookie != "" {
		candidates = append(candidates, cookie)
	}
	candidates = append(candidates, encodingHints...)

	var lastErr error
	for _, name := range candidates {
		if isUTF8Name(name) {
			// already known to be invalid
			continue
		}
		enc, err := lookupEncoding(name)
		if err != nil {
			lastErr = err
			continue
		}
		decoded, _, err := transform.Bytes(enc.NewDecoder(), rawBytes)
		if err != nil {
			lastErr = err
			continue
		}
		if utf8.Valid(decoded) {
			logger.Debug("Decoded %s as %s", path, name)
			return string(decoded), nil
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no usable encoding among %v", candidates)
	}
	return string(rawBytes), fmt.Errorf("failed to decode %s: %w", path, lastErr)
}

// declaredEncoding returns the coding cookie of the first two lines, if any
func declaredEncoding(content []byte) string {
	lines := bytes.SplitN(content, []byte("\n"), 3)
	for i, line := range lines {
		if i >= 2 {
			break
		}
		if m := codingCookie.FindSubmatch(line); m != nil {
			return string(m[1])
		}
	}
	return ""
}

func isUTF8Name(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8", "utf_8":
		return true
	}
	return false
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

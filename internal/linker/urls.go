package linker

import (
	"regexp"
	"strings"

	"route-recon/internal/utils"
)

var (
	// router.register(r'products', views.ProductViewSet, basename='product')
	routerPattern = regexp.MustCompile(`router\.register\(r?['"]([^'"]+)['"],\s*(?:views\.)?(\w+)`)

	// path('items/', views.ItemView.as_view()) and path('health/', health_check)
	pathPattern = regexp.MustCompile(`path\(['"](.+?)['"],\s*(?:\w+\.)?(\w+)(?:\.as_view\(\))?`)
)

// ScanURLPatterns extracts router registrations and path declarations from the text
// of a URL configuration module. Router registrations come first, each group in
// textual order.
func ScanURLPatterns(content, file string) []UrlPattern {
	var patterns []UrlPattern

	for _, m := range routerPattern.FindAllStringSubmatchIndex(content, -1) {
		target := content[m[4]:m[5]]
		if utils.IsNonViewKeyword(target) {
			continue
		}
		patterns = append(patterns, UrlPattern{
			Kind:     PatternRouter,
			Fragment: content[m[2]:m[3]],
			Target:   target,
			File:     file,
			Line:     lineAt(content, m[0]),
		})
	}

	for _, m := range pathPattern.FindAllStringSubmatchIndex(content, -1) {
		target := content[m[4]:m[5]]
		if utils.IsNonViewKeyword(target) {
			continue
		}
		patterns = append(patterns, UrlPattern{
			Kind:     PatternPath,
			Fragment: content[m[2]:m[3]],
			Target:   target,
			File:     file,
			Line:     lineAt(content, m[0]),
		})
	}

	return patterns
}

func lineAt(content string, offset int) int {
	return strings.Count(content[:offset], "\n") + 1
}

package imagery

import (
	"regexp"
	"strings"
)

// urlTokens are applied in order, each as a literal all-occurrence replace.
var urlTokens = []struct{ from, to string }{
	{"{zoom}", "{z}"},
	{"{height}", "256"},
	{"{width}", "256"},
	{"{bbox}", "{bbox-epsg-3857}"},
	{"{proj}", "EPSG:3857"},
}

// switchToken matches {switch:a,b,c} and captures the first option.
var switchToken = regexp.MustCompile(`\{switch:([a-zA-Z]+),.*?\}`)

// RewriteURL normalizes editor-layer-index template tokens to the forms
// understood by web map tile clients.
func RewriteURL(u string) string {
	for _, t := range urlTokens {
		u = strings.ReplaceAll(u, t.from, t.to)
	}
	return switchToken.ReplaceAllString(u, "${1}")
}

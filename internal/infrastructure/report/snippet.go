package report

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type SnippetConfig struct {
	TagsToRemove  []string
	AttrsToRemove []string
	MaxRunes      int
}

// DefaultSnippetConfig keeps everything assistive technology reads (role,
// aria-*, alt, tabindex, labels) and drops presentation noise.
var DefaultSnippetConfig = SnippetConfig{
	TagsToRemove:  []string{"script", "style", "noscript", "svg", "template"},
	AttrsToRemove: []string{"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "nonce", "integrity"},
	MaxRunes:      300,
}

// CleanSnippet shortens an element's outer HTML for display. Unparsable input
// is only truncated.
func CleanSnippet(raw string, cfg *SnippetConfig) string {
	if cfg == nil {
		cfg = &DefaultSnippetConfig
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(raw), body)
	if err != nil {
		return truncateRunes(strings.TrimSpace(raw), cfg.MaxRunes)
	}

	var sb strings.Builder
	for _, n := range nodes {
		if !cleanNode(n, cfg) {
			continue
		}
		_ = html.Render(&sb, n)
	}
	return truncateRunes(strings.TrimSpace(sb.String()), cfg.MaxRunes)
}

// cleanNode reports whether n survives. Removed children are detached.
func cleanNode(n *html.Node, cfg *SnippetConfig) bool {
	switch n.Type {
	case html.CommentNode:
		return false
	case html.ElementNode:
	default:
		return true
	}

	if isOneOf(n.Data, cfg.TagsToRemove...) {
		return false
	}
	n.Attr = filterAttributes(n.Attr, cfg)

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if !cleanNode(c, cfg) {
			n.RemoveChild(c)
		}
		c = next
	}
	return true
}

func filterAttributes(attrs []html.Attribute, cfg *SnippetConfig) []html.Attribute {
	kept := attrs[:0]
	for _, attr := range attrs {
		if isOneOf(attr.Key, cfg.AttrsToRemove...) || strings.HasPrefix(attr.Key, "data-") || strings.HasPrefix(attr.Key, "on") {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func truncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "…"
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}

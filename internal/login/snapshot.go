package login

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// SnapshotFromHTML builds a Snapshot from saved markup, for running the
// detector without a browser.
func SnapshotFromHTML(url string, r io.Reader) (Snapshot, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read markup: %w", err)
	}
	doc, err := html.Parse(strings.NewReader(string(raw)))
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse markup: %w", err)
	}
	return Snapshot{
		URL:   url,
		Title: strings.TrimSpace(findTitle(doc)),
		HTML:  string(raw),
	}, nil
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		return sb.String()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

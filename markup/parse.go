// Package markup parses the pre-rendered comment thread markup the comments
// service delivers and renders its limited HTML for terminal display.
package markup

import (
	"strings"

	xhtml "golang.org/x/net/html"
)

// Comment is one entry of a parsed comment thread. ReplyID and ReplyLabel
// come from the entry's reply affordance and are empty when the entry has
// none.
type Comment struct {
	ID         string // server comment identifier
	Author     string
	Age        string // server-rendered relative time, kept verbatim
	BodyHTML   string // inner markup of the content block
	Depth      int    // nesting level, 0 for top-level comments
	ReplyID    string
	ReplyLabel string
}

// Parse extracts comment entries from rendered thread markup. A comment
// block is any element whose class list contains "comment"; nesting depth
// counts enclosing blocks. Markup with no recognizable blocks yields nil,
// and callers fall back to showing the markup as plain text.
func Parse(renderedHTML string) []Comment {
	doc, err := xhtml.Parse(strings.NewReader(renderedHTML))
	if err != nil {
		return nil
	}

	var out []Comment
	var walk func(n *xhtml.Node, depth int)
	walk = func(n *xhtml.Node, depth int) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == xhtml.ElementNode && hasClass(c, "comment") {
				out = append(out, parseComment(c, depth))
				walk(c, depth+1)
				continue
			}
			walk(c, depth)
		}
	}
	walk(doc, 0)
	return out
}

// parseComment reads one block's fields. The search stops at nested comment
// blocks; their fields belong to their own entries.
func parseComment(n *xhtml.Node, depth int) Comment {
	cm := Comment{Depth: depth, ID: attr(n, "data-id")}
	if cm.ID == "" {
		cm.ID = strings.TrimPrefix(attr(n, "id"), "comment-")
	}

	var walk func(x *xhtml.Node)
	walk = func(x *xhtml.Node) {
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xhtml.ElementNode || hasClass(c, "comment") {
				continue
			}
			switch {
			case hasClass(c, "comment-author"):
				cm.Author = strings.TrimSpace(textContent(c))
			case hasClass(c, "comment-meta"):
				cm.Age = strings.TrimSpace(textContent(c))
			case hasClass(c, "comment-content"):
				cm.BodyHTML = innerHTML(c)
			case c.Data == "a" && hasClass(c, "comment-reply"):
				cm.ReplyID = attr(c, "data-id")
				cm.ReplyLabel = attr(c, "data-label")
				if cm.ReplyLabel == "" {
					cm.ReplyLabel = strings.TrimSpace(textContent(c))
				}
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return cm
}

func attr(n *xhtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *xhtml.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func textContent(n *xhtml.Node) string {
	var sb strings.Builder
	var walk func(x *xhtml.Node)
	walk = func(x *xhtml.Node) {
		if x.Type == xhtml.TextNode {
			sb.WriteString(x.Data)
		}
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func innerHTML(n *xhtml.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := xhtml.Render(&sb, c); err != nil {
			return ""
		}
	}
	return sb.String()
}

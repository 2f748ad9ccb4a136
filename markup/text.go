package markup

import (
	"strings"

	xhtml "golang.org/x/net/html"
)

// Text converts the limited HTML of a comment body to plain text with basic
// formatting. Handled: <p>, <br>, <a>, <i>/<em>, <b>/<strong>, <code>,
// <pre>, <blockquote>, and entities. Output is word-wrapped to width; zero
// width disables wrapping.
func Text(raw string, width int) string {
	if raw == "" {
		return ""
	}

	tokenizer := xhtml.NewTokenizer(strings.NewReader(raw))
	var sb strings.Builder
	var inPre bool
	var anchorURL string

	for {
		tt := tokenizer.Next()
		switch tt {
		case xhtml.ErrorToken:
			return wrap(strings.TrimSpace(sb.String()), width)

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			t := tokenizer.Token()
			switch t.Data {
			case "p":
				if sb.Len() > 0 {
					sb.WriteString("\n\n")
				}
			case "br":
				sb.WriteString("\n")
			case "i", "em":
				sb.WriteString("*")
			case "b", "strong":
				sb.WriteString("**")
			case "code":
				if !inPre {
					sb.WriteString("`")
				}
			case "pre":
				inPre = true
				sb.WriteString("\n")
			case "blockquote":
				if sb.Len() > 0 {
					sb.WriteString("\n\n")
				}
				sb.WriteString("> ")
			case "a":
				for _, attr := range t.Attr {
					if attr.Key == "href" {
						anchorURL = attr.Val
					}
				}
			}

		case xhtml.EndTagToken:
			t := tokenizer.Token()
			switch t.Data {
			case "i", "em":
				sb.WriteString("*")
			case "b", "strong":
				sb.WriteString("**")
			case "code":
				if !inPre {
					sb.WriteString("`")
				}
			case "pre":
				inPre = false
				sb.WriteString("\n")
			case "blockquote":
				sb.WriteString("\n")
			case "a":
				if anchorURL != "" {
					// Only append the URL when it differs from the link text.
					if !strings.HasSuffix(strings.TrimSpace(sb.String()), anchorURL) {
						sb.WriteString(" [")
						sb.WriteString(anchorURL)
						sb.WriteString("]")
					}
					anchorURL = ""
				}
			}

		case xhtml.TextToken:
			text := tokenizer.Token().Data
			if inPre {
				// Preserve whitespace in pre blocks, indent with 4 spaces.
				for i, line := range strings.Split(text, "\n") {
					if i > 0 {
						sb.WriteString("\n")
					}
					if line != "" {
						sb.WriteString("    ")
						sb.WriteString(line)
					}
				}
			} else {
				sb.WriteString(text)
			}
		}
	}
}

// wrap word-wraps text to width. Indented code lines are left alone.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out strings.Builder
	for _, paragraph := range strings.Split(text, "\n") {
		if strings.HasPrefix(paragraph, "    ") {
			out.WriteString(paragraph)
			out.WriteString("\n")
			continue
		}
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			out.WriteString("\n")
			continue
		}
		lineLen := 0
		for i, word := range words {
			if i > 0 && lineLen+1+len(word) > width {
				out.WriteString("\n")
				lineLen = 0
			} else if i > 0 {
				out.WriteString(" ")
				lineLen++
			}
			out.WriteString(word)
			lineLen += len(word)
		}
		out.WriteString("\n")
	}
	return strings.TrimRight(out.String(), "\n")
}

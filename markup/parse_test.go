package markup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const threadFixture = `
<div class="comments-widget">
  <div class="comment" data-id="41">
    <span class="comment-author">Jane</span>
    <span class="comment-meta">2 days ago</span>
    <div class="comment-content"><p>First!</p></div>
    <a class="comment-reply" href="#" data-id="41" data-label="Reply to Jane">Reply</a>
    <div class="comment-replies">
      <div class="comment" data-id="42">
        <span class="comment-author">Sam</span>
        <span class="comment-meta">1 day ago</span>
        <div class="comment-content"><p>Welcome</p></div>
        <a class="comment-reply" href="#" data-id="42" data-label="Reply to Sam">Reply</a>
        <div class="comment-replies">
          <div class="comment" data-id="45">
            <span class="comment-author">Lee</span>
            <span class="comment-meta">5 hours ago</span>
            <div class="comment-content"><p>Deep</p></div>
            <a class="comment-reply" href="#" data-id="45" data-label="Reply to Lee">Reply</a>
          </div>
        </div>
      </div>
    </div>
  </div>
  <div class="comment featured" data-id="43">
    <span class="comment-author">Ada</span>
    <span class="comment-meta">3 hours ago</span>
    <div class="comment-content"><p>Late reply</p></div>
    <a class="comment-reply" href="#" data-id="43">Reply to Ada</a>
  </div>
  <article class="comment" id="comment-9">
    <span class="comment-author">Kim</span>
    <span class="comment-meta">1 hour ago</span>
    <div class="comment-content"><p>No reply here</p></div>
  </article>
</div>
`

func TestParseThread(t *testing.T) {
	got := Parse(threadFixture)
	want := []Comment{
		{ID: "41", Author: "Jane", Age: "2 days ago", BodyHTML: "<p>First!</p>", Depth: 0, ReplyID: "41", ReplyLabel: "Reply to Jane"},
		{ID: "42", Author: "Sam", Age: "1 day ago", BodyHTML: "<p>Welcome</p>", Depth: 1, ReplyID: "42", ReplyLabel: "Reply to Sam"},
		{ID: "45", Author: "Lee", Age: "5 hours ago", BodyHTML: "<p>Deep</p>", Depth: 2, ReplyID: "45", ReplyLabel: "Reply to Lee"},
		{ID: "43", Author: "Ada", Age: "3 hours ago", BodyHTML: "<p>Late reply</p>", Depth: 0, ReplyID: "43", ReplyLabel: "Reply to Ada"},
		{ID: "9", Author: "Kim", Age: "1 hour ago", BodyHTML: "<p>No reply here</p>", Depth: 0},
	}
	require.Equal(t, want, got)
}

func TestParseUnrecognizedMarkup(t *testing.T) {
	require.Nil(t, Parse("<p>Some rendered comments, but not in block form.</p>"))
	require.Nil(t, Parse(""))
}

func TestTextFormatting(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"paragraphs", "<p>Hello</p><p>World</p>", "Hello\n\nWorld"},
		{"line break", "one<br>two", "one\ntwo"},
		{"italic", "<i>em</i> and <em>em</em>", "*em* and *em*"},
		{"bold", "<b>loud</b>", "**loud**"},
		{"inline code", "run <code>go vet</code>", "run `go vet`"},
		{"entities", "&amp; &lt;3", "& <3"},
		{"link", `see <a href="https://example.com">this</a> now`, "see this [https://example.com] now"},
		{"bare link", `<a href="https://example.com">https://example.com</a>`, "https://example.com"},
		{"blockquote", "<p>intro</p><blockquote>quoted words</blockquote>", "intro\n\n> quoted words"},
		{"code block", "<p>see:</p><pre><code>x := 1\ny := 2</code></pre>", "see:\n    x := 1\n    y := 2"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Text(tt.in, 0))
		})
	}
}

func TestTextWrapping(t *testing.T) {
	require.Equal(t, "aaa bbb\nccc", Text("<p>aaa bbb ccc</p>", 7))
	require.Equal(t, "aaaa\nbb", Text("<p>aaaa bb</p>", 3))

	// Code blocks are never wrapped.
	require.Equal(t, "x\n    a b c d e f", Text("<pre>x\na b c d e f</pre>", 4))
}

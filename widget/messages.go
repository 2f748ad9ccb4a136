package widget

import "github.com/chimewidget/chime/comments"

// Result messages for the widget's async commands. All network work runs in
// commands; these carry the outcomes back into Update.

// recaptchaConfigMsg is sent when the bot-mitigation config fetch finishes.
type recaptchaConfigMsg struct {
	cfg *comments.RecaptchaConfig
	err error
}

// recaptchaReadyMsg is sent when provider initialization finishes.
type recaptchaReadyMsg struct {
	err error
}

// commentsMsg is sent when a comment listing fetch finishes.
type commentsMsg struct {
	resp *comments.Response
	err  error
}

// submitMsg is sent when a submission finishes. tokenErr is set when the
// token fetch failed and no request was made.
type submitMsg struct {
	result   *comments.Result
	err      error
	tokenErr error
}

package comments

import "fmt"

// Order controls the sort direction of a comment listing.
type Order string

const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC" // service default, newest first
)

// Toggle returns the opposite sort direction.
func (o Order) Toggle() Order {
	if o == OrderAsc {
		return OrderDesc
	}
	return OrderAsc
}

// Response is one comment listing for a post: the total comment count and
// the thread markup, pre-rendered by the service.
type Response struct {
	Count        int    `json:"count"`
	RenderedHTML string `json:"rendered_html"`
}

// Submission is the payload for creating a comment. Parent is the ID of the
// comment being replied to, 0 for a top-level comment.
type Submission struct {
	AuthorName     string `json:"author_name"`
	AuthorEmail    string `json:"author_email"`
	Content        string `json:"content"`
	Parent         int    `json:"parent"`
	RecaptchaToken string `json:"recaptcha_token,omitempty"`
}

// Result is the service's answer to a submission. Approved comments are
// already visible in the next listing; unapproved ones are held for
// moderation.
type Result struct {
	Message  string `json:"message"`
	Approved bool   `json:"approved"`
}

// RecaptchaConfig tells the client whether bot mitigation is on and which
// site key to initialize the token provider with.
type RecaptchaConfig struct {
	Enabled bool   `json:"enabled"`
	SiteKey string `json:"site_key"`
}

// APIError is a non-success response from the comments service. Message
// carries the server-provided explanation when the body had one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("comments API: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("comments API: HTTP %d: %s", e.StatusCode, e.Message)
}

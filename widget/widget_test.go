package widget

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/chimewidget/chime/comments"
	"github.com/chimewidget/chime/recaptcha"
)

const singleCommentHTML = `<div class="comment" data-id="42">
  <span class="comment-author">Jane</span>
  <span class="comment-meta">2 hours ago</span>
  <div class="comment-content"><p>Hello from Jane</p></div>
  <a class="comment-reply" href="#" data-id="42" data-label="Reply to Jane">Reply</a>
</div>`

// fakeService stands in for the comments service and records traffic.
type fakeService struct {
	mu sync.Mutex

	config       comments.RecaptchaConfig
	configStatus int
	listHTML     string
	listCount    int
	listStatus   int
	createStatus int
	createBody   string

	paths  []string
	orders []string
	posts  []map[string]any
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, r.URL.Path)

	switch {
	case r.URL.Path == "/api/v1/recaptcha/config":
		if f.configStatus != 0 {
			w.WriteHeader(f.configStatus)
			return
		}
		json.NewEncoder(w).Encode(f.config)

	case r.Method == http.MethodGet:
		f.orders = append(f.orders, r.URL.Query().Get("order"))
		if f.listStatus != 0 {
			w.WriteHeader(f.listStatus)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"count":         f.listCount,
			"rendered_html": f.listHTML,
		})

	case r.Method == http.MethodPost:
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.posts = append(f.posts, body)
		if f.createStatus != 0 {
			w.WriteHeader(f.createStatus)
		}
		io.WriteString(w, f.createBody)
	}
}

func (f *fakeService) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

func (f *fakeService) listOrders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.orders...)
}

func (f *fakeService) requestPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

func (f *fakeService) post(i int) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts[i]
}

func (f *fakeService) setListStatus(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listStatus = code
}

// drain runs cmd and feeds resulting messages back into the model until no
// commands remain. Spinner ticks are dropped to keep it finite.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch v := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, v...)
			continue
		case spinner.TickMsg:
			continue
		}
		var next tea.Cmd
		m, next = m.Update(msg)
		queue = append(queue, next)
	}
	return m
}

func mountWidget(t *testing.T, f *fakeService) Model {
	t.Helper()
	return mountWidgetOpts(t, f, Options{})
}

func mountWidgetOpts(t *testing.T, f *fakeService, opts Options) Model {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	opts.Client = comments.New(comments.Config{Endpoint: srv.URL, APIKey: "k"})
	if opts.PostID == 0 {
		opts.PostID = 1
	}
	if opts.Width == 0 {
		opts.Width, opts.Height = 80, 30
	}
	m := New(opts)
	return drain(t, m, m.Init())
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func fillForm(m *Model, name, email, content string) {
	m.form.name.SetValue(name)
	m.form.email.SetValue(email)
	m.form.content.SetValue(content)
}

func TestMountLoadsConfigBeforeComments(t *testing.T) {
	f := &fakeService{listHTML: singleCommentHTML, listCount: 1}
	m := mountWidget(t, f)

	paths := f.requestPaths()
	require.Equal(t, []string{"/api/v1/recaptcha/config", "/api/v1/posts/1/comments"}, paths)

	require.False(t, m.Loading())
	require.Equal(t, 1, m.Count())
	require.Len(t, m.Entries(), 1)
	require.Equal(t, "Jane", m.Entries()[0].Author)
}

func TestEmptyListingShowsEmptyState(t *testing.T) {
	f := &fakeService{listHTML: "", listCount: 0}
	m := mountWidget(t, f)

	require.Equal(t, 0, m.Count())
	require.Contains(t, m.View(), "No comments yet.")
}

func TestLoadFailureRetainsPreviousComments(t *testing.T) {
	f := &fakeService{listHTML: singleCommentHTML, listCount: 1}
	m := mountWidget(t, f)
	require.Len(t, m.Entries(), 1)

	f.setListStatus(http.StatusInternalServerError)
	m, cmd := m.Update(keyMsg("ctrl+r"))
	m = drain(t, m, cmd)

	require.False(t, m.Loading())
	require.Len(t, m.Entries(), 1)
	require.Equal(t, 1, m.Count())
	require.Contains(t, m.View(), "Jane")
}

func TestVerbatimFallbackForUnrecognizedMarkup(t *testing.T) {
	f := &fakeService{listHTML: "<p>three comments, rendered some other way</p>", listCount: 3}
	m := mountWidget(t, f)

	require.Equal(t, 3, m.Count())
	require.Empty(t, m.Entries())
	require.Contains(t, m.View(), "three comments, rendered some other way")

	// No entries means no reply affordances.
	m, _ = m.Update(keyMsg("r"))
	require.Nil(t, m.ReplyTarget())
}

func TestReplyTargetLifecycle(t *testing.T) {
	f := &fakeService{
		listHTML:   singleCommentHTML,
		listCount:  1,
		createBody: `{"message":"ok","approved":false}`,
	}
	m := mountWidget(t, f)

	m, _ = m.Update(keyMsg("r"))
	target := m.ReplyTarget()
	require.NotNil(t, target)
	require.Equal(t, "42", target.ID)
	require.Equal(t, "Reply to Jane", target.Label)
	require.Contains(t, m.View(), "Reply to Jane")

	// Esc cancels the target without leaving the form.
	m, _ = m.Update(keyMsg("esc"))
	require.Nil(t, m.ReplyTarget())

	// A submission after cancelling goes in top level.
	fillForm(&m, "Sam", "sam@example.com", "Hello")
	m, cmd := m.Update(keyMsg("ctrl+s"))
	m = drain(t, m, cmd)
	require.Equal(t, float64(0), f.post(0)["parent"])
}

func TestSubmitValidatesFields(t *testing.T) {
	f := &fakeService{listHTML: "", listCount: 0, createBody: `{"message":"ok","approved":true}`}
	m := mountWidget(t, f)

	m, cmd := m.Update(keyMsg("ctrl+s"))
	require.Nil(t, cmd)
	require.Equal(t, "Name is required", m.Status())
	require.Zero(t, f.postCount())
}

func TestSubmitApprovedReloadsOnce(t *testing.T) {
	f := &fakeService{
		listHTML:   singleCommentHTML,
		listCount:  1,
		createBody: `{"message":"Comment posted.","approved":true}`,
	}
	m := mountWidget(t, f)

	m, _ = m.Update(keyMsg("r"))
	fillForm(&m, "Sam", "sam@example.com", "Agreed!")
	m, cmd := m.Update(keyMsg("ctrl+s"))
	m = drain(t, m, cmd)

	require.Equal(t, 1, f.postCount())
	sub := f.post(0)
	require.Equal(t, "Sam", sub["author_name"])
	require.Equal(t, "sam@example.com", sub["author_email"])
	require.Equal(t, "Agreed!", sub["content"])
	require.Equal(t, float64(42), sub["parent"])

	// Mount load plus exactly one refetch.
	require.Len(t, f.listOrders(), 2)

	require.Equal(t, "Comment posted.", m.Status())
	require.Nil(t, m.ReplyTarget())
	name, email, content := m.form.values()
	require.Empty(t, name)
	require.Empty(t, email)
	require.Empty(t, content)
}

func TestSubmitPendingDoesNotReload(t *testing.T) {
	f := &fakeService{
		listHTML:   singleCommentHTML,
		listCount:  1,
		createBody: `{"message":"Held for moderation.","approved":false}`,
	}
	m := mountWidget(t, f)

	fillForm(&m, "Sam", "sam@example.com", "First")
	m, cmd := m.Update(keyMsg("ctrl+s"))
	m = drain(t, m, cmd)

	require.Equal(t, "Held for moderation.", m.Status())
	require.Len(t, f.listOrders(), 1, "pending submissions must not refetch")

	// Pending submissions still reset the composer.
	name, _, _ := m.form.values()
	require.Empty(t, name)
}

func TestSubmitServerErrorKeepsForm(t *testing.T) {
	f := &fakeService{
		listHTML:     singleCommentHTML,
		listCount:    1,
		createStatus: http.StatusConflict,
		createBody:   `{"message":"Duplicate comment detected"}`,
	}
	m := mountWidget(t, f)

	m, _ = m.Update(keyMsg("r"))
	fillForm(&m, "Sam", "sam@example.com", "Again")
	m, cmd := m.Update(keyMsg("ctrl+s"))
	m = drain(t, m, cmd)

	require.Equal(t, "Duplicate comment detected", m.Status())
	name, _, content := m.form.values()
	require.Equal(t, "Sam", name)
	require.Equal(t, "Again", content)
	require.NotNil(t, m.ReplyTarget())
	require.Len(t, f.listOrders(), 1)
}

func TestSubmitErrorWithoutMessageUsesFallback(t *testing.T) {
	f := &fakeService{
		listHTML:     "",
		listCount:    0,
		createStatus: http.StatusInternalServerError,
		createBody:   "boom",
	}
	m := mountWidget(t, f)

	fillForm(&m, "Sam", "sam@example.com", "Hello")
	m, cmd := m.Update(keyMsg("ctrl+s"))
	m = drain(t, m, cmd)

	require.Equal(t, genericSubmitError, m.Status())
}

func TestInFlightSubmitIsNoOp(t *testing.T) {
	f := &fakeService{
		listHTML:   "",
		listCount:  0,
		createBody: `{"message":"ok","approved":false}`,
	}
	m := mountWidget(t, f)

	fillForm(&m, "Sam", "sam@example.com", "One")
	m, first := m.Update(keyMsg("ctrl+s"))
	require.True(t, m.Submitting())

	m, second := m.Update(keyMsg("ctrl+s"))
	require.Nil(t, second)

	m = drain(t, m, first)
	require.False(t, m.Submitting())
	require.Equal(t, 1, f.postCount())
}

func TestTokenUnavailableBlocksSubmission(t *testing.T) {
	f := &fakeService{
		config:    comments.RecaptchaConfig{Enabled: true, SiteKey: "sk"},
		listHTML:  "",
		listCount: 0,
	}
	provider := &recaptcha.StaticProvider{InitErr: errors.New("script load failed")}
	m := mountWidgetOpts(t, f, Options{Provider: provider})
	require.Equal(t, recaptcha.StateUnavailable, m.RecaptchaState())

	fillForm(&m, "Sam", "sam@example.com", "Hello")
	m, cmd := m.Update(keyMsg("ctrl+s"))
	m = drain(t, m, cmd)

	require.Equal(t, recaptchaFailedText, m.Status())
	require.Zero(t, f.postCount(), "no request may reach the service without a token")
}

func TestTokenAttachedWhenReady(t *testing.T) {
	f := &fakeService{
		config:     comments.RecaptchaConfig{Enabled: true, SiteKey: "sk"},
		listHTML:   "",
		listCount:  0,
		createBody: `{"message":"ok","approved":false}`,
	}
	provider := &recaptcha.StaticProvider{TokenValue: "tok-xyz"}
	m := mountWidgetOpts(t, f, Options{Provider: provider})
	require.Equal(t, recaptcha.StateReady, m.RecaptchaState())

	fillForm(&m, "Sam", "sam@example.com", "Hello")
	m, cmd := m.Update(keyMsg("ctrl+s"))
	m = drain(t, m, cmd)

	require.Equal(t, 1, f.postCount())
	require.Equal(t, "tok-xyz", f.post(0)["recaptcha_token"])
}

func TestTokenFetchFailureSendsNothing(t *testing.T) {
	f := &fakeService{
		config:    comments.RecaptchaConfig{Enabled: true, SiteKey: "sk"},
		listHTML:  "",
		listCount: 0,
	}
	provider := &recaptcha.StaticProvider{TokenErr: errors.New("challenge expired")}
	m := mountWidgetOpts(t, f, Options{Provider: provider})
	require.Equal(t, recaptcha.StateReady, m.RecaptchaState())

	fillForm(&m, "Sam", "sam@example.com", "Hello")
	m, cmd := m.Update(keyMsg("ctrl+s"))
	m = drain(t, m, cmd)

	require.Equal(t, recaptchaFailedText, m.Status())
	require.Zero(t, f.postCount())
}

func TestConfigFetchFailureDisablesRecaptcha(t *testing.T) {
	f := &fakeService{
		configStatus: http.StatusInternalServerError,
		listHTML:     "",
		listCount:    0,
		createBody:   `{"message":"ok","approved":false}`,
	}
	m := mountWidget(t, f)
	require.Equal(t, recaptcha.StateDisabled, m.RecaptchaState())

	fillForm(&m, "Sam", "sam@example.com", "Hello")
	m, cmd := m.Update(keyMsg("ctrl+s"))
	m = drain(t, m, cmd)

	require.Equal(t, 1, f.postCount())
	_, hasToken := f.post(0)["recaptcha_token"]
	require.False(t, hasToken)
}

func TestOrderToggleRefetches(t *testing.T) {
	f := &fakeService{listHTML: singleCommentHTML, listCount: 1}
	m := mountWidget(t, f)
	require.Equal(t, comments.OrderDesc, m.Order())

	m, cmd := m.Update(keyMsg("o"))
	m = drain(t, m, cmd)

	require.Equal(t, comments.OrderAsc, m.Order())
	require.Equal(t, []string{"DESC", "ASC"}, f.listOrders())
}

func TestReplyParentFallsBackToTopLevel(t *testing.T) {
	html := strings.ReplaceAll(singleCommentHTML, `data-id="42"`, `data-id="c-42"`)
	f := &fakeService{
		listHTML:   html,
		listCount:  1,
		createBody: `{"message":"ok","approved":false}`,
	}
	m := mountWidget(t, f)

	m, _ = m.Update(keyMsg("r"))
	require.NotNil(t, m.ReplyTarget())

	fillForm(&m, "Sam", "sam@example.com", "Hi")
	m, cmd := m.Update(keyMsg("ctrl+s"))
	m = drain(t, m, cmd)

	require.Equal(t, float64(0), f.post(0)["parent"])
}

// Package widget is an embeddable Bubble Tea component that shows the
// threaded comments of one post on a chime comments service and submits new
// comments against it.
package widget

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/chimewidget/chime/comments"
	"github.com/chimewidget/chime/markup"
	"github.com/chimewidget/chime/recaptcha"
)

const (
	scrollStep = 3

	loadingText = "  Loading comments..."
	emptyText   = "  No comments yet."

	genericSubmitError  = "Something went wrong. Please try again."
	recaptchaFailedText = "Could not verify that you are human. Please try again later."
)

// ReplyTarget is the comment a submission will thread under.
type ReplyTarget struct {
	ID    string
	Label string
}

// Options configure a widget instance. Client and PostID are required.
// Provider is the embedder's bot-mitigation token integration; leave it nil
// when there is none.
type Options struct {
	Client   *comments.Client
	PostID   int
	Order    comments.Order
	Provider recaptcha.Provider
	Width    int
	Height   int
}

type zone int

const (
	zoneList zone = iota
	zoneForm
)

type statusKind int

const (
	statusNone statusKind = iota
	statusInfo
	statusError
	statusSuccess
)

type entryOffset struct {
	startLine int
	endLine   int
}

// Model is the comments widget. Mount it with Init, size it with SetSize or
// a WindowSizeMsg, and route messages through Update. All state mutation
// happens on the program's event loop.
type Model struct {
	id     string
	client *comments.Client
	postID int
	order  comments.Order

	provider recaptcha.Provider
	gate     *recaptcha.Gate

	loading  bool
	loaded   bool
	count    int
	entries  []markup.Comment
	rawHTML  string
	verbatim bool

	cursor   int
	offsets  []entryOffset
	viewport viewport.Model
	spinner  spinner.Model

	form       form
	focus      zone
	replyTo    *ReplyTarget
	submitting bool

	status     string
	statusKind statusKind

	keys   KeyMap
	width  int
	height int
}

// New creates a widget for one post.
func New(opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	order := opts.Order
	if order == "" {
		order = comments.OrderDesc
	}

	m := Model{
		id:       uuid.NewString(),
		client:   opts.Client,
		postID:   opts.PostID,
		order:    order,
		provider: opts.Provider,
		loading:  true,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		form:     newForm(),
		keys:     DefaultKeys,
	}
	m.SetSize(opts.Width, opts.Height)
	return m
}

// Init starts the mount sequence. The bot-mitigation config resolves first;
// the first comment load is issued from its result.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchRecaptchaConfig())
}

// SetSize lays the widget out for the given dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.form.setWidth(w)

	// Header, reply banner, form fields, status, hint.
	chrome := 2 + 1 + m.form.height() + 2
	vh := h - chrome
	if vh < 3 {
		vh = 3
	}
	m.viewport.Height = vh
	m.rebuildContent()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recaptchaConfigMsg:
		if msg.err != nil {
			// A service without the endpoint must not block submissions.
			log.Error().Str("widget", m.id).Err(msg.err).Msg("recaptcha config fetch failed")
			m.gate = recaptcha.New(false, "", nil)
		} else {
			log.Debug().Str("widget", m.id).Bool("enabled", msg.cfg.Enabled).Msg("recaptcha config resolved")
			m.gate = recaptcha.New(msg.cfg.Enabled, msg.cfg.SiteKey, m.provider)
		}
		cmds := []tea.Cmd{m.loadComments()}
		if m.gate.State() == recaptcha.StateInitializing {
			cmds = append(cmds, m.initProvider())
		}
		return m, tea.Batch(cmds...)

	case recaptchaReadyMsg:
		m.gate.SetReady(msg.err)
		return m, nil

	case commentsMsg:
		m.loading = false
		if msg.err != nil {
			log.Error().Str("widget", m.id).Int("post_id", m.postID).Err(msg.err).Msg("comment load failed")
			m.rebuildContent()
			return m, nil
		}
		m.loaded = true
		m.count = msg.resp.Count
		m.rawHTML = msg.resp.RenderedHTML
		m.entries = markup.Parse(msg.resp.RenderedHTML)
		m.verbatim = len(m.entries) == 0 && strings.TrimSpace(msg.resp.RenderedHTML) != ""
		if m.cursor >= len(m.entries) {
			m.cursor = len(m.entries) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.rebuildContent()
		return m, nil

	case submitMsg:
		return m.finishSubmit(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.startSubmit()
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		m.rebuildContent()
		return m, m.loadComments()
	}

	if m.focus == zoneForm {
		return m.handleFormKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		return m.moveDown(), nil

	case key.Matches(msg, m.keys.Up):
		return m.moveUp(), nil

	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		m.rebuildContent()
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.End):
		if len(m.entries) > 0 {
			m.cursor = len(m.entries) - 1
			m.rebuildContent()
			m.viewport.GotoBottom()
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Reply):
		if e := m.selectedEntry(); e != nil && e.ReplyID != "" {
			m.replyTo = &ReplyTarget{ID: e.ReplyID, Label: e.ReplyLabel}
			m.focus = zoneForm
			m.rebuildContent()
			return m, m.form.focusField(fieldContent)
		}
		return m, nil

	case key.Matches(msg, m.keys.Compose):
		m.focus = zoneForm
		m.rebuildContent()
		return m, m.form.focusField(fieldName)

	case key.Matches(msg, m.keys.FocusForm):
		m.focus = zoneForm
		m.rebuildContent()
		return m, m.form.focusField(fieldName)

	case key.Matches(msg, m.keys.Order):
		m.order = m.order.Toggle()
		m.loading = true
		m.cursor = 0
		m.rebuildContent()
		return m, m.loadComments()

	case key.Matches(msg, m.keys.Cancel):
		if m.replyTo != nil {
			m.replyTo = nil
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		// First esc clears the reply target, second one leaves the form.
		if m.replyTo != nil {
			m.replyTo = nil
			return m, nil
		}
		m.focus = zoneList
		m.form.blur()
		m.rebuildContent()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		return m, m.form.cycle(1)

	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.cycle(-1)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) moveDown() Model {
	if len(m.entries) == 0 {
		m.viewport.SetYOffset(m.viewport.YOffset + scrollStep)
		return m
	}
	if m.cursor >= 0 && m.cursor < len(m.offsets) {
		off := m.offsets[m.cursor]
		viewBottom := m.viewport.YOffset + m.viewport.Height
		if off.endLine >= viewBottom {
			// Entry extends below the viewport, scroll within it.
			m.viewport.SetYOffset(m.viewport.YOffset + scrollStep)
			return m
		}
	}
	if m.cursor < len(m.entries)-1 {
		m.cursor++
		m.rebuildContent()
		m.scrollToCursor()
	}
	return m
}

func (m Model) moveUp() Model {
	if len(m.entries) == 0 {
		m.viewport.SetYOffset(m.viewport.YOffset - scrollStep)
		return m
	}
	if m.cursor >= 0 && m.cursor < len(m.offsets) {
		off := m.offsets[m.cursor]
		if off.startLine < m.viewport.YOffset {
			// Entry extends above the viewport, scroll within it.
			newOff := m.viewport.YOffset - scrollStep
			if newOff < off.startLine {
				newOff = off.startLine
			}
			m.viewport.SetYOffset(newOff)
			return m
		}
	}
	if m.cursor > 0 {
		m.cursor--
		m.rebuildContent()
		m.scrollToCursor()
	}
	return m
}

// startSubmit validates the form and gate on the event loop, then hands the
// token fetch and the request to a command.
func (m Model) startSubmit() (Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	if err := m.form.validate(); err != "" {
		m.setStatus(err, statusError)
		return m, nil
	}

	gateState := recaptcha.StateInitializing
	if m.gate != nil {
		gateState = m.gate.State()
	}
	if gateState == recaptcha.StateInitializing || gateState == recaptcha.StateUnavailable {
		log.Warn().Str("widget", m.id).Stringer("state", gateState).Msg("submission blocked, recaptcha not ready")
		m.setStatus(recaptchaFailedText, statusError)
		return m, nil
	}

	name, email, content := m.form.values()
	sub := comments.Submission{
		AuthorName:  name,
		AuthorEmail: email,
		Content:     content,
		Parent:      m.parentID(),
	}

	m.submitting = true
	m.setStatus("Submitting...", statusInfo)

	client, postID := m.client, m.postID
	gate := m.gate
	needToken := gateState == recaptcha.StateReady
	return m, func() tea.Msg {
		if needToken {
			tok, err := gate.Token(context.Background())
			if err != nil {
				return submitMsg{tokenErr: err}
			}
			sub.RecaptchaToken = tok
		}
		result, err := client.Create(context.Background(), postID, sub)
		return submitMsg{result: result, err: err}
	}
}

func (m Model) finishSubmit(msg submitMsg) (Model, tea.Cmd) {
	m.submitting = false

	if msg.tokenErr != nil {
		log.Warn().Str("widget", m.id).Err(msg.tokenErr).Msg("recaptcha token fetch failed")
		m.setStatus(recaptchaFailedText, statusError)
		return m, nil
	}

	if msg.err != nil {
		log.Error().Str("widget", m.id).Int("post_id", m.postID).Err(msg.err).Msg("comment submission failed")
		var apiErr *comments.APIError
		if errors.As(msg.err, &apiErr) && apiErr.Message != "" {
			m.setStatus(apiErr.Message, statusError)
		} else {
			m.setStatus(genericSubmitError, statusError)
		}
		return m, nil
	}

	m.setStatus(msg.result.Message, statusSuccess)
	m.form.reset()
	m.replyTo = nil
	if msg.result.Approved {
		m.loading = true
		return m, m.loadComments()
	}
	return m, nil
}

// parentID resolves the wire parent from the active reply target. Top-level
// submissions use 0.
func (m Model) parentID() int {
	if m.replyTo == nil {
		return 0
	}
	id, err := strconv.Atoi(m.replyTo.ID)
	if err != nil {
		log.Warn().Str("widget", m.id).Str("reply_id", m.replyTo.ID).Msg("non-numeric reply target, submitting top level")
		return 0
	}
	return id
}

func (m *Model) setStatus(text string, kind statusKind) {
	m.status = text
	m.statusKind = kind
}

func (m Model) selectedEntry() *markup.Comment {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return nil
	}
	return &m.entries[m.cursor]
}

func (m Model) fetchRecaptchaConfig() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		cfg, err := client.Recaptcha(context.Background())
		return recaptchaConfigMsg{cfg: cfg, err: err}
	}
}

func (m Model) initProvider() tea.Cmd {
	gate := m.gate
	return func() tea.Msg {
		return recaptchaReadyMsg{err: gate.Init(context.Background())}
	}
}

func (m Model) loadComments() tea.Cmd {
	client, postID, order := m.client, m.postID, m.order
	return func() tea.Msg {
		resp, err := client.List(context.Background(), postID, order)
		return commentsMsg{resp: resp, err: err}
	}
}

func (m *Model) rebuildContent() {
	if m.verbatim {
		// The markup didn't match the block contract; show it as flowed
		// text. Reply affordances are unavailable in this mode.
		m.offsets = nil
		m.viewport.SetContent(markup.Text(m.rawHTML, max(m.width-4, 20)))
		return
	}
	if len(m.entries) == 0 {
		m.offsets = nil
		if m.loading && !m.loaded {
			m.viewport.SetContent(loadingText)
		} else {
			m.viewport.SetContent(emptyText)
		}
		return
	}

	var sb strings.Builder
	m.offsets = make([]entryOffset, len(m.entries))
	avail := m.width - 4
	if avail < 20 {
		avail = 20
	}

	line := 0
	for i, e := range m.entries {
		start := line
		indent := min(e.Depth*2, 30)
		indentStr := strings.Repeat(" ", indent)

		barColor := depthColors[e.Depth%len(depthColors)]
		selected := i == m.cursor && m.focus == zoneList
		if selected {
			barColor = accentColor
		}
		bar := lipgloss.NewStyle().Foreground(barColor).Render("│")

		header := authorStyle.Render(e.Author)
		if e.Age != "" {
			header += " " + metaStyle.Render(e.Age)
		}
		if selected && e.ReplyID != "" {
			header += " " + metaStyle.Render("[r to reply]")
		}

		bodyWidth := avail - indent
		if bodyWidth < 20 {
			bodyWidth = 20
		}
		body := markup.Text(e.BodyHTML, bodyWidth)

		headerLine := indentStr + bar + " " + header
		if selected {
			headerLine = selectedStyle.Render(headerLine)
		}
		sb.WriteString(headerLine + "\n")
		line++

		for _, bl := range strings.Split(body, "\n") {
			bodyLine := indentStr + bar + " " + bl
			if selected {
				bodyLine = selectedStyle.Render(bodyLine)
			}
			sb.WriteString(bodyLine + "\n")
			line++
		}
		sb.WriteString("\n")
		line++

		m.offsets[i] = entryOffset{startLine: start, endLine: line - 1}
	}

	m.viewport.SetContent(sb.String())
}

func (m *Model) scrollToCursor() {
	if m.cursor < 0 || m.cursor >= len(m.offsets) {
		return
	}
	off := m.offsets[m.cursor]
	if off.startLine < m.viewport.YOffset || off.startLine >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(off.startLine)
	}
}

// View renders the widget.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderForm(),
		m.renderStatus(),
		m.renderHint(),
	)
}

func (m Model) renderHeader() string {
	dir := "newest first"
	if m.order == comments.OrderAsc {
		dir = "oldest first"
	}
	title := headerStyle.Render(fmt.Sprintf("Comments (%d)", m.count)) + " " + metaStyle.Render("· "+dir)
	if m.loading {
		title += " " + m.spinner.View()
	}
	sep := ""
	if m.width > 0 {
		sep = separatorStyle.Render(strings.Repeat("─", m.width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, sep)
}

func (m Model) renderForm() string {
	var sb strings.Builder
	if m.replyTo != nil {
		sb.WriteString(bannerStyle.Render(m.replyTo.Label) + metaStyle.Render("  (esc cancels)"))
	} else {
		sb.WriteString(metaStyle.Render("Commenting on this post"))
	}
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("name") + " " + m.form.name.View())
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("email") + " " + m.form.email.View())
	sb.WriteString("\n")
	sb.WriteString(m.form.content.View())
	return sb.String()
}

func (m Model) renderStatus() string {
	switch m.statusKind {
	case statusError:
		return errorStyle.Render(m.status)
	case statusSuccess:
		return successStyle.Render(m.status)
	case statusInfo:
		return metaStyle.Render(m.status)
	}
	return ""
}

func (m Model) renderHint() string {
	if m.submitting {
		return hintStyle.Render("Submitting...")
	}
	if m.focus == zoneForm {
		return hintStyle.Render("tab:next field  ctrl+s:send  esc:back")
	}
	return hintStyle.Render("j/k:move  r:reply  c:comment  o:order  tab:form  ctrl+r:refresh")
}

// Loading reports whether a listing fetch is in flight.
func (m Model) Loading() bool { return m.loading }

// Submitting reports whether a submission is in flight.
func (m Model) Submitting() bool { return m.submitting }

// Count is the comment count from the last successful listing.
func (m Model) Count() int { return m.count }

// Order is the current sort direction.
func (m Model) Order() comments.Order { return m.order }

// Entries is the parsed comment list. Callers must not mutate it.
func (m Model) Entries() []markup.Comment { return m.entries }

// ReplyTarget is the active reply target, nil when the submission is
// top-level.
func (m Model) ReplyTarget() *ReplyTarget { return m.replyTo }

// Status is the current status line text.
func (m Model) Status() string { return m.status }

// RecaptchaState is the bot-mitigation gate's readiness. Before the config
// resolves it reports initializing.
func (m Model) RecaptchaState() recaptcha.State {
	if m.gate == nil {
		return recaptcha.StateInitializing
	}
	return m.gate.State()
}

// Package wizard is the interactive stepper: a step header, the selected
// step's markdown content and its action buttons.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/stepper/internal/flow"
	"github.com/mark3labs/stepper/internal/logger"
	"github.com/mark3labs/stepper/internal/orchestrator"
	"github.com/mark3labs/stepper/internal/stepper"
	"github.com/mark3labs/stepper/internal/tui/theme"
)

const hintDuration = 3 * time.Second

// Controller is the part of the orchestrator the wizard drives.
type Controller interface {
	Snapshot() stepper.Snapshot
	StepContent(index int) string
	Flow() *flow.Flow
	Do(ctx context.Context, action string, index int) (orchestrator.Outcome, error)
	Activate(ctx context.Context, index int) (orchestrator.Outcome, error)
	Reset(ctx context.Context) (orchestrator.Outcome, error)
	ToggleOrientation(ctx context.Context) (orchestrator.Outcome, error)
	ToggleError(ctx context.Context, index int) (orchestrator.Outcome, error)
	Reload(ctx context.Context, f *flow.Flow) (orchestrator.Outcome, error)
}

// RefreshMsg asks the wizard to re-read the controller state.
type RefreshMsg struct{}

type outcomeMsg struct {
	out orchestrator.Outcome
	err error
}

type hintDismissMsg struct{ seq int }

type flowEditedMsg struct{ err error }

// Model is the bubbletea model of the wizard.
type Model struct {
	ctx      context.Context
	ctrl     Controller
	flowPath string
	keys     keyMap

	snap     stepper.Snapshot
	buttons  *ButtonBar
	viewport viewport.Model

	// Rendered markdown of the selected step
	rendered      string
	renderedIndex int
	renderedWidth int
	renderedFrom  string

	hint    string
	hintSeq int

	width    int
	height   int
	quitting bool
}

// New creates a wizard over ctrl. flowPath is opened by the edit key and
// may be empty to disable editing.
func New(ctx context.Context, ctrl Controller, flowPath string) *Model {
	m := &Model{
		ctx:           ctx,
		ctrl:          ctrl,
		flowPath:      flowPath,
		keys:          defaultKeyMap(),
		buttons:       NewButtonBar(),
		viewport:      viewport.New(viewport.WithWidth(80), viewport.WithHeight(10)),
		renderedIndex: stepper.Unselected,
		width:         80,
		height:        24,
	}
	m.refresh(ctrl.Snapshot())
	return m
}

// Run starts the wizard full-screen and blocks until the user quits.
func Run(ctx context.Context, o *orchestrator.Orchestrator, flowPath string) error {
	m := New(ctx, o, flowPath)
	p := tea.NewProgram(m)
	o.OnChange(func() { p.Send(RefreshMsg{}) })

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)

	case RefreshMsg:
		m.refresh(m.ctrl.Snapshot())
		return m, nil

	case outcomeMsg:
		if msg.err == nil {
			m.refresh(msg.out.Snapshot)
		}
		if text := describe(msg.out, msg.err); text != "" {
			return m, m.showHint(text)
		}
		return m, nil

	case hintDismissMsg:
		if msg.seq == m.hintSeq {
			m.hint = ""
			m.layout()
		}
		return m, nil

	case flowEditedMsg:
		if msg.err != nil {
			return m, m.showHint("Editor failed: " + msg.err.Error())
		}
		return m, m.reloadFlow()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, k.Continue):
		if name := m.buttons.FocusedAction(); name != "" {
			return m.do(name)
		}
		return m.do(stepper.NameContinue)
	case key.Matches(msg, k.Press):
		if name := m.buttons.FocusedAction(); name != "" {
			return m.do(name)
		}
		return nil
	case key.Matches(msg, k.Back):
		return m.do(stepper.NameBack)
	case key.Matches(msg, k.Skip):
		return m.do(stepper.NameSkip)
	case key.Matches(msg, k.Cancel):
		return m.do(stepper.NameCancel)
	case key.Matches(msg, k.Activate):
		index := int(msg.String()[0] - '1')
		return m.run(func(ctx context.Context) (orchestrator.Outcome, error) {
			return m.ctrl.Activate(ctx, index)
		})
	case key.Matches(msg, k.FocusNext):
		m.buttons.FocusNext()
	case key.Matches(msg, k.FocusPrev):
		m.buttons.FocusPrev()
	case key.Matches(msg, k.Reset):
		m.buttons.Blur()
		return m.run(m.ctrl.Reset)
	case key.Matches(msg, k.Orientation):
		return m.run(m.ctrl.ToggleOrientation)
	case key.Matches(msg, k.ToggleError):
		return m.run(func(ctx context.Context) (orchestrator.Outcome, error) {
			return m.ctrl.ToggleError(ctx, -1)
		})
	case key.Matches(msg, k.Edit):
		return m.openEditor()
	case key.Matches(msg, k.ScrollUp), key.Matches(msg, k.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// do performs a named action on the selected step.
func (m *Model) do(action string) tea.Cmd {
	return m.run(func(ctx context.Context) (orchestrator.Outcome, error) {
		return m.ctrl.Do(ctx, action, -1)
	})
}

// run executes fn off the update loop. Hooks may take a while.
func (m *Model) run(fn func(context.Context) (orchestrator.Outcome, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		out, err := fn(ctx)
		return outcomeMsg{out: out, err: err}
	}
}

func (m *Model) showHint(text string) tea.Cmd {
	m.hintSeq++
	m.hint = text
	m.layout()
	seq := m.hintSeq
	return tea.Tick(hintDuration, func(time.Time) tea.Msg {
		return hintDismissMsg{seq: seq}
	})
}

// openEditor launches $EDITOR on the flow file and reloads it afterwards.
func (m *Model) openEditor() tea.Cmd {
	if m.flowPath == "" || !flowPathExists(m.flowPath) {
		return m.showHint("No flow file to edit")
	}
	cmd, err := editor.Command("stepper", m.flowPath)
	if err != nil {
		return m.showHint("Editor unavailable: " + err.Error())
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return flowEditedMsg{err: err}
	})
}

func (m *Model) reloadFlow() tea.Cmd {
	path := m.flowPath
	return m.run(func(ctx context.Context) (orchestrator.Outcome, error) {
		f, err := flow.Load(path)
		if err != nil {
			return orchestrator.Outcome{Action: "reload"}, err
		}
		return m.ctrl.Reload(ctx, f)
	})
}

// refresh adopts a new snapshot.
func (m *Model) refresh(snap stepper.Snapshot) {
	m.snap = snap
	if st, ok := snap.SelectedStep(); ok && !st.HideActions {
		m.buttons.SetActions(st.Actions)
	} else {
		m.buttons.SetActions(nil)
	}
	m.layout()
}

// describe turns an outcome into the hint shown to the user, or "".
func describe(out orchestrator.Outcome, err error) string {
	switch {
	case errors.Is(err, orchestrator.ErrStopped):
		return ""
	case err != nil:
		return err.Error()
	}

	if v := out.Validation; v != nil && !v.Passed {
		text := "Validation failed"
		if v.TimedOut {
			text = "Validation timed out"
		}
		if line := firstLine(v.Output); line != "" {
			text += ": " + line
		}
		return text
	}
	for _, h := range out.Hooks {
		if h.Err != nil || !h.Result.Passed {
			return fmt.Sprintf("Hook %s failed", h.Name)
		}
	}
	if !out.Performed && stepper.ParseAction(out.Action) == stepper.ActionContinue {
		if st, ok := out.Snapshot.SelectedStep(); ok && st.Error {
			return "Step has an error"
		}
	}
	if !out.Performed && out.Action == "activate" {
		return "That step cannot be activated yet"
	}
	return ""
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.quitting {
		view.AltScreen = false
		view.Content = lipgloss.NewLayer("")
		return view
	}

	canvas := uv.NewScreenBuffer(m.width, m.height)
	m.Draw(canvas, canvas.Bounds())
	view.Content = lipgloss.NewLayer(canvas.Render())
	view.BackgroundColor = lipgloss.Color(theme.Current().BgBase)
	return view
}

// Draw renders the wizard into area.
func (m *Model) Draw(scr uv.Screen, area uv.Rectangle) {
	l := m.computeLayout(area)

	uv.NewStyledString(m.renderTitle()).Draw(scr, l.title)
	uv.NewStyledString(m.renderHeader(l.header.Dx())).Draw(scr, l.header)
	if !l.content.Empty() {
		uv.NewStyledString(theme.Current().S().Content.Render(m.viewport.View())).Draw(scr, l.content)
	}
	if !l.buttons.Empty() {
		uv.NewStyledString(m.buttons.Render()).Draw(scr, l.buttons)
	}
	uv.NewStyledString(m.renderStatus()).Draw(scr, l.status)
	uv.NewStyledString(renderHintBar(m.keys.hints()...)).Draw(scr, l.hints)
}

func (m *Model) renderTitle() string {
	title := "Stepper"
	if f := m.ctrl.Flow(); f != nil && f.Title != "" {
		title = f.Title
	}
	return theme.Current().S().Title.Render(title)
}

func (m *Model) renderHeader(width int) string {
	if len(m.snap.Steps) == 0 {
		return theme.Current().S().StepSummary.Render("This flow has no steps.")
	}
	if m.snap.Vertical {
		return renderVerticalHeader(m.snap, width)
	}
	return renderHorizontalHeader(m.snap, width)
}

// renderStatus shows the current hint, or the completion notice.
func (m *Model) renderStatus() string {
	s := theme.Current().S()
	switch {
	case m.hint != "":
		return s.Hint.Render(m.hint)
	case m.snap.Completed:
		return s.Complete.Render("✓ All steps complete")
	}
	return ""
}

type layoutAreas struct {
	title   uv.Rectangle
	header  uv.Rectangle
	content uv.Rectangle
	buttons uv.Rectangle
	status  uv.Rectangle
	hints   uv.Rectangle
}

func (m *Model) computeLayout(area uv.Rectangle) layoutAreas {
	var l layoutAreas
	x, y := area.Min.X, area.Min.Y
	w, h := area.Dx(), area.Dy()

	l.title = uv.Rect(x, y, w, 1)
	l.hints = uv.Rect(x, y+h-1, w, 1)
	l.status = uv.Rect(x, y+h-2, w, 1)
	bottom := y + h - 2

	if len(m.buttons.Buttons()) > 0 {
		l.buttons = uv.Rect(x, bottom-1, w, 1)
		bottom--
	}

	top := y + 2
	if m.snap.Vertical {
		headerW := min(36, w/3)
		l.header = uv.Rect(x, top, headerW, max(0, bottom-top-1))
		l.content = uv.Rect(x+headerW+2, top, max(0, w-headerW-2), max(0, bottom-top-1))
		return l
	}

	headerH := lipgloss.Height(m.renderHeader(w))
	l.header = uv.Rect(x, top, w, headerH)
	contentTop := top + headerH + 1
	l.content = uv.Rect(x, contentTop, w, max(0, bottom-contentTop-1))
	return l
}

// layout resizes the viewport and re-renders the selected step's content
// when it changed.
func (m *Model) layout() {
	l := m.computeLayout(uv.Rect(0, 0, m.width, m.height))
	// Border and padding of the content box
	width := max(0, l.content.Dx()-4)
	m.viewport.SetWidth(width)
	m.viewport.SetHeight(max(0, l.content.Dy()-2))
	m.buttons.SetWidth(m.width)

	index := m.snap.Selected
	content := ""
	if index >= 0 {
		content = m.ctrl.StepContent(index)
	}
	if index == m.renderedIndex && width == m.renderedWidth && content == m.renderedFrom {
		return
	}

	m.renderedIndex, m.renderedWidth, m.renderedFrom = index, width, content
	switch {
	case index < 0:
		m.rendered = theme.Current().S().StepSummary.Render("No step selected.")
	case strings.TrimSpace(content) == "":
		m.rendered = ""
	default:
		m.rendered = renderMarkdown(content, width)
	}
	m.viewport.SetContent(m.rendered)
	m.viewport.GotoTop()
}

// renderMarkdown renders step content with glamour, falling back to the
// raw text.
func renderMarkdown(content string, width int) string {
	if width > 120 {
		width = 120
	}
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logger.Debug("Markdown renderer unavailable: %v", err)
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		logger.Debug("Markdown render failed: %v", err)
		return content
	}
	return strings.Trim(rendered, "\n")
}

// flowPathExists reports whether the flow file can be edited in place.
func flowPathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

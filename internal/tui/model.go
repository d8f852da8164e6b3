package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lightcull/internal/app"
	"lightcull/internal/domain"
	appErrors "lightcull/internal/errors"
)

// Options configure the browser.
type Options struct {
	Workflow *app.Workflow
	Pairs    []domain.ImagePair
	// Changes delivers the folder after external edits. Nil disables live rescans.
	Changes <-chan string
}

// Messages for the TUI
type (
	scannedMsg struct {
		pairs []domain.ImagePair
		stats domain.FolderStatistics
		err   error
	}
	taggedMsg struct {
		pairs []domain.ImagePair
		err   error
	}
	movedMsg struct {
		result      app.MoveBatchResult
		destination string
		err         error
	}
	undoneMsg struct {
		op  domain.MoveOperation
		err error
	}
	renamedMsg struct {
		result app.RenameBatchResult
	}
	infoMsg struct {
		meta domain.ImageMetadata
		err  error
	}
	thumbProgressMsg struct {
		run            int
		current, total int
	}
	thumbsDoneMsg struct {
		run   int
		pairs []domain.ImagePair
	}
	statsMsg struct {
		stats domain.FolderStatistics
		err   error
	}
	folderChangedMsg struct{}
)

type mode int

const (
	modeBrowse mode = iota
	modeRename
)

// Model is the culling browser. Every file operation runs in a tea.Cmd and reports back
// through a message, so the view never blocks on disk.
type Model struct {
	opts     Options
	ctx      context.Context
	keys     keyMap
	list     list.Model
	help     help.Model
	spinner  spinner.Model
	progress progress.Model
	input    textinput.Model
	mode     mode

	stats  domain.FolderStatistics
	info   *domain.ImageMetadata
	status string
	failed bool
	busy   bool

	thumbRun     int
	thumbCurrent int
	thumbTotal   int
	generating   bool
	stopThumbs   context.CancelFunc

	width    int
	height   int
	Quitting bool
}

func NewModel(ctx context.Context, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	input := textinput.New()
	input.Placeholder = "prefix"
	input.CharLimit = 64
	input.Prompt = "Rename with prefix: "

	l := list.New(pairItems(opts.Pairs, nil), pairDelegate{}, 80, 16)
	l.KeyMap = listKeyMap()
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return Model{
		opts:     opts,
		ctx:      ctx,
		keys:     defaultKeyMap(),
		list:     l,
		help:     help.New(),
		spinner:  s,
		progress: p,
		input:    input,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.scanCmd(), waitForChange(m.opts.Changes))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(msg.Width-20, 60)
		m.list.SetSize(msg.Width, max(msg.Height-12, 3))
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeRename {
			return m.updateRename(msg)
		}
		return m.updateBrowse(msg)

	case scannedMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.stats = msg.stats
		m.setPairs(msg.pairs)
		cmd := m.startThumbnails()
		return m, cmd

	case statsMsg:
		if msg.err == nil {
			m.stats = msg.stats
		}
		return m, nil

	case taggedMsg:
		m.busy = false
		for _, pair := range msg.pairs {
			m.replacePair(pair)
		}
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus(fmt.Sprintf("Toggled %s on %d pairs", domain.TopTag, len(msg.pairs)))
		}
		return m, m.statsCmd()

	case movedMsg:
		if msg.err != nil {
			m.busy = false
			m.setError(msg.err)
			return m, nil
		}
		moved := len(msg.result.Operations)
		if len(msg.result.Failures) > 0 {
			m.setError(fmt.Errorf("moved %d, %d failed: %s", moved, len(msg.result.Failures),
				appErrors.UserMessage(msg.result.Failures[0].Err)))
		} else {
			m.setStatus(fmt.Sprintf("Moved %d pairs to %s", moved, msg.destination))
		}
		return m, m.scanCmd()

	case undoneMsg:
		if msg.err != nil {
			m.busy = false
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Restored %s from %s", filepath.Base(msg.op.OriginalJPEGPath), msg.op.Destination))
		return m, m.scanCmd()

	case renamedMsg:
		if len(msg.result.Failures) > 0 {
			m.setError(fmt.Errorf("renamed %d, %d failed: %s", len(msg.result.Renamed), len(msg.result.Failures),
				appErrors.UserMessage(msg.result.Failures[0].Err)))
		} else {
			m.setStatus(fmt.Sprintf("Renamed %d pairs", len(msg.result.Renamed)))
		}
		return m, m.scanCmd()

	case infoMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		meta := msg.meta
		m.info = &meta
		return m, nil

	case relayMsg:
		next, cmd := m.Update(msg.msg)
		return next, tea.Batch(cmd, msg.next)

	case thumbProgressMsg:
		if msg.run != m.thumbRun {
			return m, nil
		}
		m.thumbCurrent = msg.current
		m.thumbTotal = msg.total
		if msg.total == 0 {
			return m, nil
		}
		return m, m.progress.SetPercent(float64(msg.current) / float64(msg.total))

	case thumbsDoneMsg:
		if msg.run != m.thumbRun {
			return m, nil
		}
		m.generating = false
		for _, pair := range msg.pairs {
			m.replacePair(pair)
		}
		return m, nil

	case folderChangedMsg:
		return m, tea.Batch(m.scanCmd(), waitForChange(m.opts.Changes))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Quitting = true
		if m.stopThumbs != nil {
			m.stopThumbs()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Mark):
		m.toggleMark()
		return m, nil
	}

	if m.busy {
		// One file operation at a time keeps the undo order equal to the key order.
		if isAction(msg, m.keys) {
			return m, nil
		}
	} else {
		switch {
		case key.Matches(msg, m.keys.Tag):
			return m.run(m.tagCmd(m.targets()))
		case key.Matches(msg, m.keys.Delete):
			return m.run(m.moveCmd(m.targets(), domain.DeleteFolder))
		case key.Matches(msg, m.keys.Archive):
			return m.run(m.moveCmd(m.targets(), domain.ArchiveFolder))
		case key.Matches(msg, m.keys.Outtake):
			return m.run(m.moveCmd(m.targets(), domain.OuttakeFolder))
		case key.Matches(msg, m.keys.Undo):
			return m.run(m.undoCmd())
		case key.Matches(msg, m.keys.Info):
			return m.run(m.infoCmd())
		case key.Matches(msg, m.keys.Rename):
			if len(m.targets()) == 0 {
				return m, nil
			}
			m.mode = modeRename
			m.input.SetValue("")
			return m, m.input.Focus()
		}
	}

	before := m.list.Index()
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if m.list.Index() != before {
		m.info = nil
	}
	return m, cmd
}

func (m Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.Quitting = true
		if m.stopThumbs != nil {
			m.stopThumbs()
		}
		return m, tea.Quit
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		prefix := strings.TrimSpace(m.input.Value())
		m.mode = modeBrowse
		m.input.Blur()
		if prefix == "" {
			return m, nil
		}
		return m.run(m.renameCmd(m.targets(), prefix))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) run(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if cmd == nil {
		return m, nil
	}
	m.busy = true
	m.status = ""
	m.failed = false
	return m, cmd
}

func isAction(msg tea.KeyMsg, k keyMap) bool {
	return key.Matches(msg, k.Tag, k.Delete, k.Archive, k.Outtake, k.Undo, k.Info, k.Rename)
}

func (m Model) tagCmd(pairs []domain.ImagePair) tea.Cmd {
	if len(pairs) == 0 {
		return nil
	}
	w := m.opts.Workflow
	return func() tea.Msg {
		updated := make([]domain.ImagePair, 0, len(pairs))
		for _, pair := range pairs {
			next, err := w.ToggleTag(pair)
			if err != nil {
				return taggedMsg{pairs: updated, err: err}
			}
			updated = append(updated, next)
		}
		return taggedMsg{pairs: updated}
	}
}

func (m Model) moveCmd(pairs []domain.ImagePair, destination string) tea.Cmd {
	if len(pairs) == 0 {
		return nil
	}
	w := m.opts.Workflow
	return func() tea.Msg {
		result, err := w.MoveBatch(pairs, destination)
		return movedMsg{result: result, destination: destination, err: err}
	}
}

func (m Model) undoCmd() tea.Cmd {
	w := m.opts.Workflow
	return func() tea.Msg {
		op, err := w.UndoLastMove()
		return undoneMsg{op: op, err: err}
	}
}

func (m Model) renameCmd(pairs []domain.ImagePair, prefix string) tea.Cmd {
	if len(pairs) == 0 {
		return nil
	}
	w := m.opts.Workflow
	return func() tea.Msg {
		return renamedMsg{result: w.RenameBatch(pairs, prefix)}
	}
}

func (m Model) infoCmd() tea.Cmd {
	item, ok := m.list.SelectedItem().(pairItem)
	if !ok {
		return nil
	}
	w, ctx := m.opts.Workflow, m.ctx
	return func() tea.Msg {
		meta, err := w.Metadata(ctx, item.pair)
		return infoMsg{meta: meta, err: err}
	}
}

func (m Model) scanCmd() tea.Cmd {
	w := m.opts.Workflow
	return func() tea.Msg {
		pairs, err := w.Scan()
		if err != nil {
			return scannedMsg{err: err}
		}
		stats, err := w.Statistics()
		return scannedMsg{pairs: pairs, stats: stats, err: err}
	}
}

func (m Model) statsCmd() tea.Cmd {
	w := m.opts.Workflow
	return func() tea.Msg {
		stats, err := w.Statistics()
		return statsMsg{stats: stats, err: err}
	}
}

// startThumbnails cancels a running generation and starts one for the current list. Progress
// arrives over a channel that a listening command drains one message at a time.
func (m *Model) startThumbnails() tea.Cmd {
	if m.stopThumbs != nil {
		m.stopThumbs()
	}
	pairs := m.pairs()
	if len(pairs) == 0 {
		m.generating = false
		return nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.stopThumbs = cancel
	m.thumbRun++
	m.generating = true
	m.thumbCurrent, m.thumbTotal = 0, len(pairs)

	run := m.thumbRun
	w := m.opts.Workflow
	updates := make(chan tea.Msg, 16)

	generate := func() tea.Msg {
		defer close(updates)
		done := w.GenerateThumbnails(ctx, pairs, func(current, total int) {
			select {
			case updates <- thumbProgressMsg{run: run, current: current, total: total}:
			case <-ctx.Done():
			}
		})
		return thumbsDoneMsg{run: run, pairs: done}
	}
	return tea.Batch(generate, listen(updates))
}

func listen(updates <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return nil
		}
		return relayMsg{msg: msg, next: listen(updates)}
	}
}

// relayMsg carries a progress update together with the command that waits for the next one.
type relayMsg struct {
	msg  tea.Msg
	next tea.Cmd
}

func waitForChange(changes <-chan string) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return folderChangedMsg{}
	}
}

func (m *Model) setPairs(pairs []domain.ImagePair) {
	marked := make(map[string]bool)
	thumbs := make(map[string]string)
	for _, item := range m.list.Items() {
		it := item.(pairItem)
		if it.marked {
			marked[it.pair.Key()] = true
		}
		if it.pair.ThumbnailPath != "" {
			thumbs[it.pair.JPEGPath] = it.pair.ThumbnailPath
		}
	}
	for i, pair := range pairs {
		if path, ok := thumbs[pair.JPEGPath]; ok && pair.ThumbnailPath == "" {
			pairs[i] = pair.WithThumbnail(path)
		}
	}

	selected := ""
	if it, ok := m.list.SelectedItem().(pairItem); ok {
		selected = it.pair.Key()
	}
	index := m.list.Index()

	m.list.SetItems(pairItems(pairs, marked))
	for i, pair := range pairs {
		if pair.Key() == selected {
			index = i
			break
		}
	}
	if index >= len(pairs) {
		index = len(pairs) - 1
	}
	if index >= 0 {
		m.list.Select(index)
	}
}

// replacePair swaps in the updated value of a pair, keeping its mark.
func (m *Model) replacePair(pair domain.ImagePair) {
	i := domain.IndexOf(m.pairs(), pair)
	if i < 0 {
		return
	}
	it := m.list.Items()[i].(pairItem)
	if pair.ThumbnailPath == "" {
		pair.ThumbnailPath = it.pair.ThumbnailPath
	}
	m.list.SetItem(i, pairItem{pair: pair, marked: it.marked})
}

func (m *Model) toggleMark() {
	it, ok := m.list.SelectedItem().(pairItem)
	if !ok {
		return
	}
	it.marked = !it.marked
	m.list.SetItem(m.list.Index(), it)
}

// targets are the marked pairs, or the selected one when nothing is marked.
func (m Model) targets() []domain.ImagePair {
	var marked []domain.ImagePair
	for _, item := range m.list.Items() {
		if it := item.(pairItem); it.marked {
			marked = append(marked, it.pair)
		}
	}
	if len(marked) > 0 {
		return marked
	}
	if it, ok := m.list.SelectedItem().(pairItem); ok {
		return []domain.ImagePair{it.pair}
	}
	return nil
}

func (m Model) pairs() []domain.ImagePair {
	items := m.list.Items()
	out := make([]domain.ImagePair, 0, len(items))
	for _, item := range items {
		out = append(out, item.(pairItem).pair)
	}
	return out
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.failed = false
}

func (m *Model) setError(err error) {
	m.status = appErrors.UserMessage(err)
	m.failed = true
}

func pairItems(pairs []domain.ImagePair, marked map[string]bool) []list.Item {
	items := make([]list.Item, 0, len(pairs))
	for _, pair := range pairs {
		items = append(items, pairItem{pair: pair, marked: marked[pair.Key()]})
	}
	return items
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if len(m.list.Items()) == 0 {
		b.WriteString(dateStyle.Render("  No JPEG files in this folder"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.list.View())
		b.WriteString("\n")
	}

	if m.info != nil {
		b.WriteString(m.renderInfo())
		b.WriteString("\n")
	}
	if m.generating {
		b.WriteString(m.renderThumbnails())
		b.WriteString("\n")
	}
	if m.mode == modeRename {
		b.WriteString(promptStyle.Render(m.input.View()))
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("📷 LightCull")
	folder := subtitleStyle.Render(fmt.Sprintf("%s %s", iconFolder, m.opts.Workflow.Folder()))

	stat := func(label string, value int) string {
		return statLabelStyle.Render(label+" ") + statValueStyle.Render(fmt.Sprint(value))
	}
	stats := strings.Join([]string{
		stat("pairs", m.stats.TotalPairs()),
		stat("with RAW", m.stats.JPEGWithRAW),
		stat(domain.TopTag, m.stats.TaggedPairs),
		stat("to delete", m.stats.DeletedFiles),
	}, "  ")

	return lipgloss.JoinVertical(lipgloss.Left, title, folder, stats)
}

func (m Model) renderInfo() string {
	meta := m.info
	lines := []string{sectionStyle.Render(meta.FileName)}
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, statLabelStyle.Render(fmt.Sprintf("%-9s", label))+" "+value)
		}
	}
	add("Camera", strings.TrimSpace(meta.CameraMake+" "+meta.CameraModel))
	add("Lens", meta.FocalLength)
	add("Aperture", meta.Aperture)
	add("Shutter", meta.ShutterSpeed)
	add("ISO", meta.ISO)
	if !meta.DateTaken.IsZero() {
		add("Taken", meta.DateTaken.Format("2006-01-02 15:04"))
	}
	return infoBoxStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderThumbnails() string {
	percent := 0.0
	if m.thumbTotal > 0 {
		percent = float64(m.thumbCurrent) / float64(m.thumbTotal)
	}
	return fmt.Sprintf("%s Thumbnails %s %s",
		m.spinner.View(),
		m.progress.ViewAs(percent),
		statLabelStyle.Render(fmt.Sprintf("%d/%d", m.thumbCurrent, m.thumbTotal)),
	)
}

func (m Model) renderStatus() string {
	switch {
	case m.busy:
		return m.spinner.View() + " Working..."
	case m.status == "":
		return ""
	case m.failed:
		return errorStyle.Render(iconError + " " + m.status)
	default:
		return successStyle.Render(iconSuccess + " " + m.status)
	}
}

// Run starts the browser and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

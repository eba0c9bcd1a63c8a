package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tokmakchat/internal/assistant"
	"tokmakchat/internal/avatar"
	"tokmakchat/internal/chat"
	"tokmakchat/internal/events"
	"tokmakchat/internal/logger"
	"tokmakchat/internal/notify"
	"tokmakchat/internal/panels"
	"tokmakchat/internal/speech"
	"tokmakchat/internal/tui/render"
	"tokmakchat/internal/tui/slash"
)

type Options struct {
	// Submitter 为 nil 时所有远程请求直接以失败结束。
	Submitter Submitter
	// Events 是 EQ 订阅，结果事件按 Owner 路由。
	Events <-chan events.Event
	// Bus 承载语音桥回调。
	Bus *events.Bus
	// Speech 为 nil 时麦克风不可用，回复也不朗读。
	Speech       *speech.Bridge
	Context      context.Context
	Language     string
	Profile      string
	SpeakReplies bool
	// ManualTasks 为 true 时任务面板不在进入时自动加载，需按 Enter 触发。
	ManualTasks bool
	// Workdir 是文档页候选文件的扫描根目录，为空时不提供候选。
	Workdir string
	Model   string
	Clock   func() time.Time
	Log     *logger.LogEntry
}

type tab int

const (
	tabChat tab = iota
	tabDocument
	tabTasks
	tabCount
)

var tabTitles = [tabCount]string{"Sohbet", panels.DocumentTitle, "Akıllı Görevler"}

type engineEventMsg struct {
	Event events.Event
}

type busEventMsg struct {
	Event any
}

type frameMsg time.Time

// frameInterval 是动画帧间隔。
const frameInterval = 50 * time.Millisecond

type Model struct {
	chat  *chat.Controller
	docs  *panels.DocumentController
	tasks *panels.TaskController

	textarea  textarea.Model
	pathInput textinput.Model
	chatView  render.Viewport
	docView   render.Viewport
	taskView  render.Viewport
	slash     *slash.State
	spin      spinner.Model
	indicator *StatusIndicator
	toasts    *toastStack
	suggest   *docSuggester

	eqSub  <-chan events.Event
	busSub <-chan any
	clock  func() time.Time
	log    *logger.LogEntry

	active       tab
	manualTasks  bool
	selectedPath string
	modelName    string
	showHelp     bool
	quitting     bool
	frame        int
	phase        float64
	width        int
	height       int

	// renderedChat 是已渲染消息的 (末条 ID, 宽度)，未变化时跳过重排。
	renderedChatID    int64
	renderedChatWidth int
}

func New(opts Options) *Model {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	log := opts.Log
	if log == nil {
		log = logger.Named("tui")
	}

	ta := textarea.New()
	ta.Placeholder = chat.Placeholder
	ta.Prompt = "› "
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(80)
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "~/belgeler/rapor.pdf"
	ti.Prompt = "Dosya: "
	ti.CharLimit = 0

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(avatar.StatusThinking.Color())

	m := &Model{
		textarea:    ta,
		pathInput:   ti,
		chatView:    render.NewViewport(60, 10),
		docView:     render.NewViewport(60, 10),
		taskView:    render.NewViewport(60, 10),
		slash:       slash.NewState(slash.Options{MaxLines: 8}),
		spin:        spin,
		indicator:   NewStatusIndicator(clock),
		toasts:      newToastStack(clock),
		suggest:     newDocSuggester(opts.Workdir),
		eqSub:       opts.Events,
		clock:       clock,
		log:         log,
		modelName:   opts.Model,
		manualTasks: opts.ManualTasks,
		width:       100,
		height:      30,
	}
	if opts.Bus != nil {
		m.busSub = opts.Bus.Subscribe()
	}

	notifyFn := notify.Func(m.toasts.Push)
	chatOpts := chat.Options{
		Notify:       notifyFn,
		Language:     opts.Language,
		SpeakReplies: opts.SpeakReplies,
		Log:          log.WithField("panel", OwnerChat),
	}
	docOpts := panels.DocumentOptions{Notify: notifyFn, Log: log.WithField("panel", OwnerDocument)}
	taskOpts := panels.TaskOptions{Notify: notifyFn, Profile: opts.Profile, Log: log.WithField("panel", OwnerTasks)}
	if opts.Submitter != nil {
		gw := NewGateway(opts.Context, opts.Submitter)
		chatOpts.Requester = gw
		docOpts.Requester = gw
		taskOpts.Requester = gw
	}
	if opts.Speech != nil && opts.Bus != nil {
		chatOpts.Voice = NewBridgeVoice(opts.Speech, opts.Bus)
	}
	m.chat = chat.NewController(chatOpts)
	m.docs = panels.NewDocumentController(docOpts)
	m.tasks = panels.NewTaskController(taskOpts)
	m.layout()
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := m.listenQueues()
	cmds = append(cmds, m.spin.Tick, textarea.Blink, frameTick())
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.finish(cmds...)
	case frameMsg:
		m.frame++
		// 浏览器约每 1/60 秒推进一次 TimeStep，这里按实际经过的时间折算。
		m.phase += avatar.TimeStep * float64(frameInterval) / float64(time.Second/60)
		m.toasts.Expire()
		cmds = append(cmds, frameTick())
		return m.finish(cmds...)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		return m.finish(cmds...)
	case busEventMsg:
		m.handleBusEvent(msg.Event)
		cmds = append(cmds, m.listenBus())
		return m.finish(cmds...)
	case engineEventMsg:
		m.handleEngineEvent(msg.Event)
		cmds = append(cmds, m.listenEngine())
		return m.finish(cmds...)
	case tea.MouseMsg:
		cmds = append(cmds, m.activeViewport().HandleUpdate(msg))
		return m.finish(cmds...)
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			cmds = append(cmds, cmd)
			return m.finish(cmds...)
		}
	}

	cmds = append(cmds, m.updateInputs(msg))
	return m.finish(cmds...)
}

// finish 在每条消息后同步计时器、布局与视口内容。
func (m *Model) finish(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	m.indicator.Sync(m.chat.Thinking() || m.docs.Loading() || m.tasks.Loading())
	m.layout()
	m.refreshViews()
	return m, tea.Batch(cmds...)
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *Model) listenEngine() tea.Cmd {
	if m.eqSub == nil {
		return nil
	}
	return func() tea.Msg {
		evt, ok := <-m.eqSub
		if !ok {
			return nil
		}
		return engineEventMsg{Event: evt}
	}
}

func (m *Model) listenBus() tea.Cmd {
	if m.busSub == nil {
		return nil
	}
	return func() tea.Msg {
		evt, ok := <-m.busSub
		if !ok {
			return nil
		}
		return busEventMsg{Event: evt}
	}
}

func (m *Model) listenQueues() []tea.Cmd {
	cmds := []tea.Cmd{}
	if cmd := m.listenEngine(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.listenBus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return cmds
}

func (m *Model) handleBusEvent(evt any) {
	switch ev := evt.(type) {
	case transcriptMsg:
		m.chat.Transcript(ev.Text)
		m.syncComposer()
	case recognitionEndedMsg:
		m.chat.ListeningEnded()
	case recognitionErrorMsg:
		m.chat.RecognitionFailed(ev.Err)
	case speechDoneMsg:
		m.chat.SpeechFinished(ev.Utterance)
	}
}

// handleEngineEvent 把 EQ 结果按 Owner 交给对应控制器；其余生命周期事件只用于日志。
func (m *Model) handleEngineEvent(evt events.Event) {
	switch evt.Type {
	case events.EventOperationResult:
		m.routeResult(evt)
	case events.EventError:
		m.log.WithField("submission_id", evt.SubmissionID).WithField("owner", evt.Owner).Warnf("operation failed: %v", evt.Payload)
		m.routeFailure(evt)
	}
}

func (m *Model) routeResult(evt events.Event) {
	ok := false
	switch evt.Owner {
	case OwnerChat:
		var res assistant.Result[assistant.ConverseOutput]
		if res, ok = evt.Payload.(assistant.Result[assistant.ConverseOutput]); ok {
			m.chat.ConverseResult(evt.SubmissionID, res)
		}
	case OwnerDocument:
		var res assistant.Result[assistant.AnalyzeDocumentOutput]
		if res, ok = evt.Payload.(assistant.Result[assistant.AnalyzeDocumentOutput]); ok {
			m.docs.Complete(evt.SubmissionID, res)
		}
	case OwnerTasks:
		var res assistant.Result[assistant.AnticipateTasksOutput]
		if res, ok = evt.Payload.(assistant.Result[assistant.AnticipateTasksOutput]); ok {
			m.tasks.Complete(evt.SubmissionID, res)
		}
	}
	if !ok {
		m.log.WithField("owner", evt.Owner).WithField("kind", evt.Kind).Warn("unexpected result event")
	}
}

// routeFailure 处理没有产生结果的提交（例如处理器缺失），按失败结果收尾。
func (m *Model) routeFailure(evt events.Event) {
	switch evt.Owner {
	case OwnerChat:
		m.chat.ConverseResult(evt.SubmissionID, assistant.Result[assistant.ConverseOutput]{Error: assistant.ErrConverse})
	case OwnerDocument:
		m.docs.Complete(evt.SubmissionID, assistant.Result[assistant.AnalyzeDocumentOutput]{Error: assistant.ErrAnalyzeDocument})
	case OwnerTasks:
		m.tasks.Complete(evt.SubmissionID, assistant.Result[assistant.AnticipateTasksOutput]{Error: assistant.ErrAnticipateTasks})
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		m.quitting = true
		return tea.Quit, true
	}
	if m.showHelp {
		m.showHelp = false
		return nil, true
	}
	if m.active == tabChat && m.slash.Open() {
		if action, handled := m.slash.HandleKey(key); handled {
			return m.applySlash(action), true
		}
	}

	if m.active == tabDocument && m.suggest.Visible() {
		switch key {
		case "down", "ctrl+n":
			m.suggest.Move(1)
			return nil, true
		case "up", "ctrl+p":
			m.suggest.Move(-1)
			return nil, true
		case "enter":
			if path, ok := m.suggest.Accept(); ok {
				m.pathInput.SetValue(path)
				m.pathInput.CursorEnd()
				m.documentEnter()
				return nil, true
			}
		}
	}

	switch key {
	case "tab":
		return m.switchTab((m.active + 1) % tabCount), true
	case "shift+tab":
		return m.switchTab((m.active + tabCount - 1) % tabCount), true
	case "alt+1":
		return m.switchTab(tabChat), true
	case "alt+2":
		return m.switchTab(tabDocument), true
	case "alt+3":
		return m.switchTab(tabTasks), true
	case "ctrl+r":
		m.chat.ToggleMic()
		return nil, true
	case "pgup", "pgdown":
		return m.activeViewport().HandleUpdate(msg), true
	case "enter":
		switch m.active {
		case tabChat:
			return m.submitChat(), true
		case tabDocument:
			m.documentEnter()
			return nil, true
		case tabTasks:
			m.tasks.Mount(m.clock())
			return nil, true
		}
	}
	return nil, false
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.active {
	case tabChat:
		m.textarea, cmd = m.textarea.Update(msg)
		m.chat.SetInput(m.textarea.Value())
		m.syncSlash()
		m.setComposerHeight()
	case tabDocument:
		before := m.pathInput.Value()
		m.pathInput, cmd = m.pathInput.Update(msg)
		if value := m.pathInput.Value(); value != before {
			m.suggest.Filter(value)
		}
	}
	return cmd
}

func (m *Model) switchTab(next tab) tea.Cmd {
	m.active = next
	var cmd tea.Cmd
	switch next {
	case tabChat:
		m.pathInput.Blur()
		cmd = m.textarea.Focus()
	case tabDocument:
		m.textarea.Blur()
		cmd = m.pathInput.Focus()
		if err := m.suggest.Scan(); err != nil {
			m.log.WithError(err).Warn("document scan failed")
		}
	case tabTasks:
		m.textarea.Blur()
		m.pathInput.Blur()
		if !m.manualTasks {
			m.tasks.Mount(m.clock())
		}
	}
	return cmd
}

// submitChat 处理聊天输入框的 Enter：斜杠命令优先，其余文本交给控制器。
func (m *Model) submitChat() tea.Cmd {
	value := m.textarea.Value()
	if action := m.slash.ResolveSubmit(value); action.Kind != slash.ActionNone {
		return m.applySlash(action)
	}
	m.chat.SetInput(value)
	m.chat.Submit()
	m.syncComposer()
	return nil
}

// syncComposer 让输入框跟随控制器中的输入（提交后清空、语音转写填入）。
func (m *Model) syncComposer() {
	if m.textarea.Value() != m.chat.Input() {
		m.textarea.SetValue(m.chat.Input())
	}
	m.syncSlash()
	m.setComposerHeight()
}

func (m *Model) syncSlash() {
	value := m.textarea.Value()
	column := len([]rune(value))
	if m.textarea.Line() == 0 {
		column = m.textarea.LineInfo().CharOffset
	}
	m.slash.SyncInput(slash.Input{Value: value, CursorColumn: column})
}

func (m *Model) setComposerHeight() {
	lines := m.textarea.LineCount()
	if lines < 1 {
		lines = 1
	}
	if lines > 6 {
		lines = 6
	}
	if m.textarea.Height() != lines {
		m.textarea.SetHeight(lines)
	}
}

func (m *Model) documentEnter() {
	path := expandHome(m.pathInput.Value())
	if path == "" || path == m.selectedPath {
		m.docs.Analyze()
		return
	}
	m.selectDocument(path)
}

func (m *Model) selectDocument(path string) bool {
	if m.docs.SelectPath(path) {
		m.selectedPath = path
		return true
	}
	m.selectedPath = ""
	return false
}

func (m *Model) activeViewport() *render.Viewport {
	switch m.active {
	case tabDocument:
		return &m.docView
	case tabTasks:
		return &m.taskView
	default:
		return &m.chatView
	}
}

func (m *Model) avatarStatus() avatar.Status {
	if m.docs.Loading() {
		return m.docs.Status()
	}
	return m.chat.Status()
}

// refreshViews 把控制器状态渲染进各视口。
func (m *Model) refreshViews() {
	msgs := m.chat.Messages()
	var lastID int64
	if len(msgs) > 0 {
		lastID = msgs[len(msgs)-1].ID
	}
	if lastID != m.renderedChatID || m.chatView.Width != m.renderedChatWidth {
		m.chatView.SetLines(render.LinesToStrings(render.RenderMessages(msgs, m.chatView.Width)))
		m.renderedChatID = lastID
		m.renderedChatWidth = m.chatView.Width
	}

	if out, ok := m.docs.Result(); ok {
		m.docView.SetLines(render.LinesToStrings(render.RenderSummaries(out, panels.AbstractHeading, panels.ConcreteHeading, m.docView.Width)))
	} else {
		m.docView.SetLines(render.LinesToStrings(render.WrapLines(panels.DocumentEmptyState, m.docView.Width, faintStyle)))
	}

	switch tasks := m.tasks.Tasks(); {
	case m.tasks.Loading():
		m.taskView.SetLines([]string{m.spin.View() + " " + tasksLoadingLabel})
	case len(tasks) == 0:
		m.taskView.SetLines(render.LinesToStrings(render.WrapLines(panels.TasksEmptyState, m.taskView.Width, faintStyle)))
	default:
		m.taskView.SetLines(render.LinesToStrings(render.RenderTasks(tasks, panels.ReasonLabel, m.taskView.Width)))
	}
}

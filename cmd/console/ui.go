package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/guining-hotel/internal/handlers"
	"github.com/jwebster45206/guining-hotel/pkg/catalog"
	"github.com/jwebster45206/guining-hotel/pkg/chat"
	"github.com/jwebster45206/guining-hotel/pkg/game"
	"github.com/jwebster45206/guining-hotel/pkg/room"
	"github.com/jwebster45206/guining-hotel/pkg/state"
	"github.com/jwebster45206/guining-hotel/pkg/synthesis"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	PlaceHolderText = "Type a command, or /help..."
	ChatPlaceHolder = "Say something to Death, or /close..."

	// RevealInterval paces the Death dialogue, one message per tick.
	RevealInterval   = 800 * time.Millisecond
	localNoteDismiss = 2000 * time.Millisecond

	actionReset = "reset"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	api        *apiClient
	catalog    *catalog.Catalog
	characters []string

	view       game.View
	ending     *catalog.Ending
	lastReveal *synthesis.Reveal
	room       *room.Controller // Set while inside a room; discarded on exit
	detail     string

	// Chat pacing. Closing the chat bumps chatGen so pending ticks are dropped.
	chatOpen  bool
	chatGen   int
	revealing bool

	// Toasts are shown one at a time. Replacing the queue bumps noteGen.
	notes   []game.Notification
	noteGen int

	// Responses older than the last applied one are ignored.
	seq     int
	applied int

	mainViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error

	showQuitModal bool
}

type actionMsg struct {
	seq    int
	action string
	resp   *handlers.ActionResponse
	err    error
}

type revealTickMsg struct{ gen int }

type noteDismissMsg struct{ gen int }

var (
	mainPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	deathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("141")). // violet
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	clueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("86")). // green
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

var titleCaser = cases.Title(language.English)

func NewConsoleUI(api *apiClient, cat *catalog.Catalog, characters []string, resp *handlers.ActionResponse) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = chat.MaxMessageLength
	ta.SetWidth(50)
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	mainVp := viewport.New(50, 20)
	mainVp.MouseWheelEnabled = true

	m := ConsoleUI{
		api:          api,
		catalog:      cat,
		characters:   characters,
		textarea:     ta,
		mainViewport: mainVp,
		metaViewport: viewport.New(20, 20),
	}
	m.applyView(resp)
	return m
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.mainViewport, vpCmd = m.mainViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEsc:
			if m.chatOpen {
				m.closeChat()
				m.refresh()
				return m, nil
			}
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			model, cmd := m.handleInput(input)
			cm := model.(ConsoleUI)
			cm.refresh()
			return cm, cmd
		}

	case actionMsg:
		model, cmd := m.handleAction(msg)
		cm := model.(ConsoleUI)
		cm.refresh()
		return cm, cmd

	case revealTickMsg:
		if msg.gen != m.chatGen || !m.chatOpen {
			return m, nil
		}
		return m.send(handlers.ActionRequest{Action: handlers.ActionRevealNext})

	case noteDismissMsg:
		if msg.gen != m.noteGen || len(m.notes) == 0 {
			return m, nil
		}
		m.notes = m.notes[1:]
		m.refresh()
		return m, m.scheduleNote()
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.mainViewport, vpCmd = m.mainViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// handleInput runs one line typed by the player.
func (m ConsoleUI) handleInput(input string) (tea.Model, tea.Cmd) {
	m.err = nil
	if input == "" {
		if m.view.Status == state.StatusStart {
			return m.send(handlers.ActionRequest{Action: handlers.ActionStart})
		}
		return m, nil
	}
	if !strings.HasPrefix(input, "/") {
		if m.chatOpen {
			return m.send(handlers.ActionRequest{Action: handlers.ActionSendMessage, Text: input})
		}
		return m.localNote("Type /help for commands")
	}
	return m.handleCommand(input)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	switch cmd {
	case "/help":
		m.detail = helpText
		return m, nil

	case "/quit":
		m.showQuitModal = true
		return m, nil

	case "/start":
		return m.send(handlers.ActionRequest{Action: handlers.ActionStart})

	case "/unlock":
		if len(args) < 2 {
			return m.localNote("Usage: /unlock <room> <owner name>")
		}
		name := strings.TrimSpace(strings.TrimPrefix(rest, args[0]))
		return m.send(handlers.ActionRequest{Action: handlers.ActionUnlockRoom, Room: args[0], Name: name})

	case "/enter":
		if len(args) != 1 {
			return m.localNote("Usage: /enter <room>")
		}
		return m.send(handlers.ActionRequest{Action: handlers.ActionEnterRoom, Room: args[0]})

	case "/back":
		switch {
		case m.chatOpen:
			m.closeChat()
			return m, nil
		case m.view.Status == state.StatusInRoom:
			return m.send(handlers.ActionRequest{Action: handlers.ActionReturnToHub})
		case m.view.Status == state.StatusEnding:
			return m.send(handlers.ActionRequest{Action: handlers.ActionReturnFromEnding})
		}
		return m, nil

	case "/open", "/password", "/take":
		return m.handleRoomCommand(cmd, args)

	case "/look":
		if len(args) != 1 {
			return m.localNote("Usage: /look <clue>")
		}
		return m.look(args[0])

	case "/chat":
		m.openChat()
		return m.send(handlers.ActionRequest{Action: handlers.ActionOpenChat})

	case "/close":
		m.closeChat()
		return m, nil

	case "/collect":
		if len(args) != 1 {
			return m.localNote("Usage: /collect <message number>")
		}
		id, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
		if err != nil {
			return m.localNote("Usage: /collect <message number>")
		}
		return m.send(handlers.ActionRequest{Action: handlers.ActionCollectChat, MessageID: id})

	case "/ask":
		if len(m.view.Offers) == 0 {
			return m.localNote("Death has nothing to add right now")
		}
		m.openChat()
		return m.send(handlers.ActionRequest{Action: handlers.ActionAcceptOffer, Offer: m.view.Offers[0]})

	case "/slot":
		if len(args) != 2 {
			return m.localNote("Usage: /slot <1-3> <clue>")
		}
		i, ok := parseSlot(args[0])
		if !ok {
			return m.localNote("Slots are numbered 1 to 3")
		}
		return m.send(handlers.ActionRequest{Action: handlers.ActionPlaceSlot, Slot: &i, Clue: args[1]})

	case "/clear":
		if len(args) != 1 {
			return m.localNote("Usage: /clear <1-3>")
		}
		i, ok := parseSlot(args[0])
		if !ok {
			return m.localNote("Slots are numbered 1 to 3")
		}
		return m.send(handlers.ActionRequest{Action: handlers.ActionClearSlot, Slot: &i})

	case "/synth":
		return m.send(handlers.ActionRequest{Action: handlers.ActionSynthesize, Name: rest})

	case "/ending":
		if !m.view.EndingAvailable {
			return m.localNote("The ending is not available yet")
		}
		if pending(m.view) > 0 {
			return m.localNote("Let Death finish speaking first")
		}
		if len(args) != 1 {
			return m.localNote("Usage: /ending <truth1|truth2>")
		}
		return m.send(handlers.ActionRequest{Action: handlers.ActionChooseEnding, Choice: strings.ToLower(args[0])})

	case "/copy":
		if m.lastReveal == nil {
			return m.localNote("Nothing to copy yet")
		}
		if err := clipboard.WriteAll(m.lastReveal.Title + "\n\n" + m.lastReveal.Story); err != nil {
			m.err = fmt.Errorf("copy failed: %w", err)
			return m, nil
		}
		return m.localNote("Copied to clipboard")

	case "/reset":
		m.seq++
		seq, id, api := m.seq, m.view.ID, m.api
		return m, func() tea.Msg {
			resp, err := api.clearSave(id)
			return actionMsg{seq: seq, action: actionReset, resp: resp, err: err}
		}
	}

	return m.localNote(fmt.Sprintf("Unknown command %s. Type /help", cmd))
}

// handleRoomCommand drives the room controller. None of it is saved.
func (m ConsoleUI) handleRoomCommand(cmd string, args []string) (tea.Model, tea.Cmd) {
	if m.room == nil {
		return m.localNote("You are not in a room")
	}
	switch cmd {
	case "/open":
		if len(args) != 1 {
			return m.localNote("Usage: /open <hotspot>")
		}
		open, err := m.room.Toggle(args[0])
		if err != nil {
			return m.localNote(capitalize(err.Error()))
		}
		if open {
			m.detail = "You open the " + args[0] + "."
		} else {
			m.detail = "You close the " + args[0] + "."
		}
		return m, nil

	case "/password":
		if len(args) < 2 {
			return m.localNote("Usage: /password <hotspot> <password>")
		}
		if err := m.room.Unlock(args[0], strings.Join(args[1:], " ")); err != nil {
			return m.localNote(capitalize(err.Error()))
		}
		m.detail = "The " + args[0] + " unlocks."
		return m, nil

	case "/take":
		if len(args) != 1 {
			return m.localNote("Usage: /take <clue>")
		}
		action, clue, err := m.room.Select(args[0])
		if err != nil {
			return m.localNote(capitalize(err.Error()))
		}
		if action == room.ActionShowDetail {
			m.detail = clueDetail(clue)
			return m, nil
		}
		return m.send(handlers.ActionRequest{Action: handlers.ActionCollect, Clue: clue.ID})
	}
	return m, nil
}

func (m ConsoleUI) look(id string) (tea.Model, tea.Cmd) {
	id = catalog.NormalizeClueID(id)
	if item, ok := m.view.Inventory.Get(id); ok {
		m.detail = inventoryDetail(item)
		return m, nil
	}
	if m.room != nil {
		for _, clue := range m.room.VisibleClues() {
			if clue.ID == id {
				m.detail = clueDetail(clue)
				return m, nil
			}
		}
	}
	return m.localNote("You cannot see that here")
}

func (m *ConsoleUI) openChat() {
	if !m.chatOpen {
		m.chatOpen = true
		m.chatGen++
		m.revealing = false
		m.textarea.Placeholder = ChatPlaceHolder
	}
}

func (m *ConsoleUI) closeChat() {
	m.chatOpen = false
	m.chatGen++
	m.revealing = false
	m.textarea.Placeholder = PlaceHolderText
}

// send posts one action; the response arrives as an actionMsg.
func (m ConsoleUI) send(req handlers.ActionRequest) (tea.Model, tea.Cmd) {
	m.seq++
	seq, id, api := m.seq, m.view.ID, m.api
	return m, func() tea.Msg {
		resp, err := api.act(id, req)
		return actionMsg{seq: seq, action: req.Action, resp: resp, err: err}
	}
}

func (m ConsoleUI) handleAction(msg actionMsg) (tea.Model, tea.Cmd) {
	if msg.action == handlers.ActionRevealNext {
		m.revealing = false
	}
	if msg.seq < m.applied {
		return m, m.maybeReveal()
	}
	m.applied = msg.seq

	if msg.err != nil {
		m.err = msg.err
		var apiErr *APIError
		if errors.As(msg.err, &apiErr) && len(apiErr.Notifications) > 0 {
			return m, m.showNotes(apiErr.Notifications)
		}
		return m, nil
	}

	if msg.action == actionReset {
		m.closeChat()
		m.room = nil
		m.ending = nil
		m.lastReveal = nil
		m.detail = ""
	}
	if msg.resp.Reveal != nil {
		m.lastReveal = msg.resp.Reveal
		m.detail = titleStyle.Render(msg.resp.Reveal.Title) + "\n\n" + msg.resp.Reveal.Story
	}
	if msg.action == handlers.ActionChooseEnding {
		m.closeChat()
	}
	m.applyView(msg.resp)

	cmds := []tea.Cmd{m.showNotes(msg.resp.Notifications)}
	if m.chatOpen && m.view.ChatCursor.Unread && msg.action != handlers.ActionOpenChat {
		model, cmd := m.send(handlers.ActionRequest{Action: handlers.ActionOpenChat})
		m = model.(ConsoleUI)
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, m.maybeReveal())
	return m, tea.Batch(cmds...)
}

// maybeReveal schedules the next reveal tick while the chat is open and
// messages are pending.
func (m *ConsoleUI) maybeReveal() tea.Cmd {
	if !m.chatOpen || m.revealing || pending(m.view) == 0 {
		return nil
	}
	m.revealing = true
	return revealTick(m.chatGen)
}

// applyView adopts a fresh session view and keeps the room controller in step.
func (m *ConsoleUI) applyView(resp *handlers.ActionResponse) {
	m.view = resp.View
	if resp.Ending != nil {
		m.ending = resp.Ending
	}

	if m.view.Status != state.StatusInRoom {
		m.room = nil
		return
	}
	rv := room.View{Inventory: m.view.Inventory, UnlockedHidden: m.view.UnlockedHidden, Flags: m.view.Flags}
	if m.room != nil && m.room.Room().ID == m.view.Room {
		m.room.Update(rv)
		return
	}
	ctrl, err := room.New(m.catalog, m.view.Room, rv)
	if err != nil {
		m.err = err
		m.room = nil
		return
	}
	m.room = ctrl
	m.detail = ""
}

// showNotes replaces the toast queue. A nil slice keeps the current queue.
func (m *ConsoleUI) showNotes(notes []game.Notification) tea.Cmd {
	if notes != nil {
		m.notes = append([]game.Notification(nil), notes...)
	}
	return m.scheduleNote()
}

func (m *ConsoleUI) scheduleNote() tea.Cmd {
	m.noteGen++
	if len(m.notes) == 0 {
		return nil
	}
	gen := m.noteGen
	return tea.Tick(m.notes[0].Duration(), func(time.Time) tea.Msg {
		return noteDismissMsg{gen: gen}
	})
}

func (m ConsoleUI) localNote(text string) (tea.Model, tea.Cmd) {
	cmd := m.showNotes([]game.Notification{{Text: text, DismissMS: localNoteDismiss.Milliseconds()}})
	return m, cmd
}

func revealTick(gen int) tea.Cmd {
	return tea.Tick(RevealInterval, func(time.Time) tea.Msg {
		return revealTickMsg{gen: gen}
	})
}

func pending(v game.View) int {
	if n := len(v.Chat) - v.ChatCursor.Revealed; n > 0 {
		return n
	}
	return 0
}

// parseSlot turns a 1-based slot number into an index.
func parseSlot(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > state.SlotCount {
		return 0, false
	}
	return n - 1, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func clueDetail(c catalog.Clue) string {
	var b strings.Builder
	b.WriteString(clueStyle.Render(fmt.Sprintf("[%s] %s", c.ID, c.Name)) + "\n")
	b.WriteString(c.Description)
	if c.Detail != "" {
		b.WriteString("\n\n" + c.Detail)
	}
	return b.String()
}

func inventoryDetail(item state.InventoryItem) string {
	var b strings.Builder
	b.WriteString(clueStyle.Render(fmt.Sprintf("[%s] %s", item.ID, item.Title)) + "\n")
	b.WriteString(item.Content)
	if item.Detail != "" {
		b.WriteString("\n\n" + item.Detail)
	}
	return b.String()
}

func (m *ConsoleUI) resize() {
	mainWidth := int(float64(m.width)*0.68) - 4
	metaWidth := m.width - mainWidth - 6
	m.mainViewport.Width = mainWidth - 2
	m.mainViewport.Height = m.height - 6
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 2
	m.textarea.SetWidth(mainWidth - 4)
}

// refresh re-renders both panels for the current state and width.
func (m *ConsoleUI) refresh() {
	width := m.mainViewport.Width - 4
	if width < 20 {
		width = 20
	}
	m.mainViewport.SetContent(m.renderMain(width))
	if m.chatOpen {
		m.mainViewport.GotoBottom()
	}
	m.metaViewport.SetContent(m.renderMeta())
}

func (m ConsoleUI) renderMain(width int) string {
	var content strings.Builder
	if len(m.notes) > 0 {
		content.WriteString(noteStyle.Render(m.notes[0].Text) + "\n\n")
	}

	switch {
	case m.chatOpen:
		content.WriteString(renderChat(m.view, width))
		if pending(m.view) > 0 {
			content.WriteString(promptStyle.Render("Death is typing...") + "\n")
		}
	case m.view.Status == state.StatusStart:
		content.WriteString(titleStyle.Render("GUINING HOTEL") + "\n\n")
		content.WriteString(wordwrap.String("Six rooms. Six deaths. Death itself is waiting on your phone.", width) + "\n\n")
		content.WriteString(promptStyle.Render("Press Enter to begin."))
	case m.view.Status == state.StatusEnding:
		if m.ending != nil {
			content.WriteString(titleStyle.Render(m.ending.Title) + "\n\n")
			content.WriteString(wordwrap.String(m.ending.Text, width) + "\n\n")
		}
		content.WriteString(promptStyle.Render("/back to return to the hotel"))
	case m.room != nil:
		content.WriteString(m.renderRoom(width))
	default:
		content.WriteString(m.renderHub(width))
	}

	if m.detail != "" && !m.chatOpen {
		content.WriteString("\n" + separatorStyle.Render(strings.Repeat("─", width)) + "\n")
		content.WriteString(wordwrap.String(m.detail, width) + "\n")
	}
	if m.err != nil {
		content.WriteString("\n" + errorStyle.Render(capitalize(m.err.Error())) + "\n")
	}
	return content.String()
}

func (m ConsoleUI) renderHub(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("HOTEL CORRIDOR") + "\n\n")
	for _, r := range m.catalog.Rooms {
		line := fmt.Sprintf("  %s  %s", r.ID, r.Name)
		switch {
		case !m.view.UnlockedRooms.Has(r.ID):
			b.WriteString(lockedStyle.Render(line+"  (locked)") + "\n")
		case m.view.VisitedRooms.Has(r.ID):
			b.WriteString(line + "  (visited)\n")
		default:
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("\n")
	if m.view.ChatCursor.Unread {
		b.WriteString(deathStyle.Render("Death has sent you a message. /chat") + "\n")
	}
	if len(m.view.Offers) > 0 {
		b.WriteString(deathStyle.Render("Something in your inventory catches Death's eye. /ask") + "\n")
	}
	if m.view.EndingAvailable {
		b.WriteString(titleStyle.Render("The final choice awaits: /ending truth1 or /ending truth2") + "\n")
	}
	b.WriteString(wordwrap.String(promptStyle.Render("/unlock <room> <owner>, /enter <room>, /chat, /slot, /synth <name>"), width))
	return b.String()
}

func (m ConsoleUI) renderRoom(width int) string {
	var b strings.Builder
	r := m.room.Room()
	b.WriteString(titleStyle.Render(fmt.Sprintf("ROOM %s: %s", r.ID, strings.ToUpper(r.Name))) + "\n\n")

	if hs := m.room.Hotspots(); len(hs) > 0 {
		b.WriteString("You can search:\n")
		for _, h := range hs {
			status := "closed"
			switch {
			case h.Kind == catalog.HotspotLocked && !h.Unlocked:
				status = "locked"
				if h.Hint != "" {
					status += ", hint: " + h.Hint
				}
			case h.Open:
				status = "open"
			}
			b.WriteString(fmt.Sprintf("  %s (%s) [%s]\n", h.Name, h.ID, status))
		}
		b.WriteString("\n")
	}

	b.WriteString("You see:\n")
	clues := m.room.VisibleClues()
	if len(clues) == 0 {
		b.WriteString(lockedStyle.Render("  nothing of note") + "\n")
	}
	for _, c := range clues {
		mark := ""
		if m.room.Collected(c.ID) {
			mark = " (collected)"
		}
		b.WriteString(fmt.Sprintf("  [%s] %s%s\n", c.ID, c.Name, mark))
	}
	b.WriteString("\n")
	b.WriteString(wordwrap.String(promptStyle.Render("/open <hotspot>, /password <hotspot> <pw>, /take <clue>, /look <clue>, /back"), width))
	return b.String()
}

// renderChat shows the Death dialogue up to the reveal cursor.
func renderChat(v game.View, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("DEATH") + "\n\n")
	for _, msg := range v.Revealed() {
		switch msg.Sender {
		case chat.SenderUser:
			b.WriteString(userStyle.Render("You: ") + wordwrap.String(msg.Text, width-5) + "\n\n")
		default:
			b.WriteString(deathStyle.Render("Death: ") + wordwrap.String(msg.Text, width-7) + "\n")
			if msg.IsClue() {
				collected := ""
				if v.Inventory.Has(msg.ClueRef) {
					collected = " (collected)"
				}
				b.WriteString(clueStyle.Render(fmt.Sprintf("  [clue %s] /collect %d%s", catalog.NormalizeClueID(msg.ClueRef), msg.ID, collected)) + "\n")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m ConsoleUI) renderMeta() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("INVESTIGATION") + "\n\n")
	b.WriteString(fmt.Sprintf("Save: %s...\n", m.view.ID.String()[:8]))
	b.WriteString(fmt.Sprintf("Status: %s\n\n", m.view.Status))

	b.WriteString(titleStyle.Render("Synthesis") + "\n")
	for i, id := range m.view.Slots {
		if id == "" {
			id = "-"
		}
		b.WriteString(fmt.Sprintf("  %d: %s\n", i+1, id))
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Truths") + "\n")
	for _, name := range m.characters {
		t1, t2 := " ", " "
		if m.view.Truths.Truth1.Has(name) {
			t1 = "I"
		}
		if m.view.Truths.Truth2.Has(name) {
			t2 = "II"
		}
		b.WriteString(fmt.Sprintf("  %-16s %s %s\n", name, t1, t2))
	}
	b.WriteString("\n")

	b.WriteString(renderInventory(m.view.Groups))
	return b.String()
}

func renderInventory(groups []state.Group) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Inventory") + "\n")
	if len(groups) == 0 {
		b.WriteString(lockedStyle.Render("  empty") + "\n")
	}
	for _, g := range groups {
		b.WriteString("  " + titleCaser.String(g.Category) + "\n")
		for _, item := range g.Items {
			b.WriteString(fmt.Sprintf("    [%s] %s\n", item.ID, strings.TrimPrefix(item.Title, state.TitlePrefix)))
		}
	}
	return b.String()
}

const helpText = `Commands:
  Enter                      begin (on the title screen)
  /unlock <room> <owner>     verify a room owner's name
  /enter <room>              go into an unlocked room
  /open <hotspot>            open or close a drawer, pillow, painting
  /password <hotspot> <pw>   unlock a locked hotspot
  /take <clue>               collect a clue, or read it
  /look <clue>               read a clue
  /back                      leave the room, chat or ending
  /chat, /close              open or close the Death dialogue
  /collect <n>               take the clue from Death's message n
  /ask                       ask Death about what you found
  /slot <1-3> <clue>         place a clue into the synthesis panel
  /clear <1-3>               empty a synthesis slot
  /synth <name>              synthesize a truth for a character
  /ending <truth1|truth2>    make the final choice
  /copy                      copy the last truth to the clipboard
  /reset                     clear the save and start over
  /quit                      leave the game`

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Your progress is saved.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	mainWidth := int(float64(m.width)*0.68) - 4
	metaWidth := m.width - mainWidth - 6

	mainPanel := mainPanelStyle.Width(mainWidth).Height(m.height - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.mainViewport.View(),
			separatorStyle.Render(strings.Repeat("─", mainWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, mainPanel, metaPanel)
}

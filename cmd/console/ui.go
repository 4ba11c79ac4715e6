package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/asperstar/worldbuilder/pkg/character"
	"github.com/asperstar/worldbuilder/pkg/chat"
)

const PlaceHolderText = "Type your message here..."

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Conversation state, kept client-side and replayed on each turn
	character  *character.Character
	history    []chat.ChatMessage
	lastSource string
	rpMode     string

	// Character selection state
	showCharacterModal bool
	characters         []character.Character
	selectedCharacter  int
	loadingCharacters  bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type chatResponseMsg struct {
	response *chat.ChatResponse
	err      error
}

type charactersLoadedMsg struct {
	characters []character.Character
	err        error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	characterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

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

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:             cfg,
		client:             client,
		textarea:           ta,
		chatViewport:       chatVp,
		metaViewport:       metaVp,
		ready:              false,
		showCharacterModal: true,
		loadingCharacters:  true,
		selectedCharacter:  0,
	}
}

func writeBanner(c *character.Character, chatWidth int) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("WORLDBUILDER") + "\n\n")
	content.WriteString(fmt.Sprintf("You are chatting with %s.\n", c.Name))
	content.WriteString("Type your messages below to talk in character.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth-6)) + "\n\n")
	return content.String()
}

func (m *ConsoleUI) writeMetadata() string {
	c := m.character
	var content strings.Builder
	content.WriteString(titleStyle.Render("CHARACTER") + "\n\n")

	content.WriteString("Name:\n")
	content.WriteString(c.Name + "\n\n")

	if c.TemplateTag != "" {
		content.WriteString("Template:\n")
		content.WriteString(c.TemplateTag + "\n\n")
	}

	if c.WorldID != "" {
		content.WriteString("World:\n")
		content.WriteString(c.WorldID + "\n\n")
	}

	content.WriteString("Messages:\n")
	content.WriteString(fmt.Sprintf("%d total\n\n", len(m.history)))

	if m.lastSource != "" {
		content.WriteString("Last source:\n")
		content.WriteString(m.lastSource + "\n\n")
	}

	mode := m.rpMode
	if mode == "" {
		mode = "lax"
	}
	content.WriteString("Safety mode:\n")
	content.WriteString(mode + "\n\n")

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /copy: Copy last reply\n")
	content.WriteString("• /safe: Toggle safety mode\n")

	return content.String()
}

// writeChatContent rebuilds the chat viewport from history for the
// current width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(writeBanner(m.character, chatWidth))

	for _, msg := range m.history {
		switch msg.Role {
		case chat.ChatRoleAssistant:
			content.WriteString(formatCharacterResponse(m.character.Name, msg.Content, chatWidth) + "\n\n")
		case chat.ChatRoleUser:
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(msg.Content, chatWidth-6) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.showCharacterModal {
		return m.loadCharacters()
	}
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showCharacterModal {
		return m.updateCharacterModal(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)

		m.ready = true
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0

			// Send history as it was before this turn; the server
			// appends the new message itself.
			req := chat.ChatRequest{
				CharacterID: m.character.ID,
				Message:     input,
				History:     append([]chat.ChatMessage(nil), m.history...),
				RPMode:      m.rpMode,
			}
			m.history = append(m.history, chat.ChatMessage{
				Role:    chat.ChatRoleUser,
				Content: input,
			})
			m.writeChatContent()

			return m, tea.Batch(m.sendChatMessage(req), progressTick())
		}

	case chatResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.writeChatContent()
			currentContent := m.chatViewport.View()
			errorMsg := errorStyle.Render("Error: "+msg.err.Error()) + "\n\n"
			m.chatViewport.SetContent(currentContent + errorMsg)
		} else {
			m.history = append(m.history, chat.ChatMessage{
				Role:    chat.ChatRoleAssistant,
				Content: msg.response.Response,
			})
			m.lastSource = msg.response.Source
			m.writeChatContent()
		}
		m.chatViewport.GotoBottom()
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// formatCharacterResponse wraps a reply and highlights the speaker
// label, adding one when the model left it off.
func formatCharacterResponse(name, response string, width int) string {
	hasPrefix := strings.HasPrefix(response, name+":")

	wrapWidth := width
	if !hasPrefix {
		wrapWidth = width - len(name) - 2
	}

	wrapped := wordwrap.String(response, wrapWidth)
	if hasPrefix {
		rest := strings.TrimPrefix(wrapped, name+":")
		return speakerStyle.Render(name+":") + rest
	}
	return characterStyle.Render(name+": ") + wrapped
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))

	switch cmd {
	case "/help":
		helpText := `
Commands:
• /help - Show this help
• /copy - Copy the last reply to the clipboard
• /safe - Toggle family-friendly mode
• Ctrl+C - Quit

How to chat:
• Type a message and press Enter
• The character replies in their own voice
• Mention topics they care about to see trigger responses
`
		currentContent := m.chatViewport.View()
		m.chatViewport.SetContent(currentContent + titleStyle.Render("Help:") + helpText + "\n")
		m.chatViewport.GotoBottom()

	case "/copy":
		var note string
		if reply := m.lastReply(); reply == "" {
			note = errorStyle.Render("Nothing to copy yet.")
		} else if err := clipboard.WriteAll(reply); err != nil {
			note = errorStyle.Render("Copy failed: " + err.Error())
		} else {
			note = loadingStyle.Render("Copied last reply to clipboard.")
		}
		currentContent := m.chatViewport.View()
		m.chatViewport.SetContent(currentContent + note + "\n\n")
		m.chatViewport.GotoBottom()

	case "/safe":
		if m.rpMode == "family-friendly" {
			m.rpMode = ""
		} else {
			m.rpMode = "family-friendly"
		}
		m.metaViewport.SetContent(m.writeMetadata())
	}

	m.textarea.Reset()
	return m, nil
}

func (m *ConsoleUI) lastReply() string {
	for i := len(m.history) - 1; i >= 0; i-- {
		if m.history[i].Role == chat.ChatRoleAssistant {
			return m.history[i].Content
		}
	}
	return ""
}

func (m ConsoleUI) sendChatMessage(req chat.ChatRequest) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendChat(m.client, m.config.APIBaseURL, req)
		return chatResponseMsg{resp, err}
	}
}

func (m ConsoleUI) loadCharacters() tea.Cmd {
	return func() tea.Msg {
		characters, err := listCharacters(m.client, m.config.APIBaseURL)
		return charactersLoadedMsg{characters, err}
	}
}

func (m ConsoleUI) updateCharacterModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case charactersLoadedMsg:
		m.loadingCharacters = false
		if msg.err != nil {
			m.err = msg.err
		} else if len(msg.characters) == 0 {
			m.err = fmt.Errorf("no characters found; create one via POST /v1/characters")
		} else {
			m.characters = msg.characters
		}

	case tea.KeyMsg:
		if m.loadingCharacters || m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedCharacter > 0 {
				m.selectedCharacter--
			}
		case tea.KeyDown:
			if m.selectedCharacter < len(m.characters)-1 {
				m.selectedCharacter++
			}
		case tea.KeyEnter:
			if len(m.characters) > 0 {
				c := m.characters[m.selectedCharacter]
				m.character = &c
				m.showCharacterModal = false
				if m.width > 0 && m.height > 0 {
					chatWidth := int(float64(m.width)*0.75) - 4
					metaWidth := m.width - chatWidth - 6
					m.chatViewport.Width = chatWidth - 2
					m.chatViewport.Height = m.height - 7
					m.metaViewport.Width = metaWidth - 2
					m.metaViewport.Height = m.height - 4
					m.textarea.SetWidth(chatWidth - 4)
				}
				m.writeChatContent()
				m.metaViewport.SetContent(m.writeMetadata())
				m.textarea.Focus()
				m.ready = true
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

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
				if !m.showCharacterModal {
					m.textarea.Focus()
					return m, textarea.Blink
				}
				return m, nil
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
	content.WriteString(modalTitleStyle.Render("Leave Chat?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to end this conversation?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderCharacterModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loadingCharacters {
		content.WriteString(modalTitleStyle.Render("Loading Characters..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while we fetch your characters..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load characters: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else {
		content.WriteString(modalTitleStyle.Render("Select a Character"))
		content.WriteString("\n\n")

		for i, c := range m.characters {
			label := c.Name
			if c.TemplateTag != "" && c.TemplateTag != character.TemplateCustom {
				label = fmt.Sprintf("%s (%s)", c.Name, c.TemplateTag)
			}
			if i == m.selectedCharacter {
				content.WriteString(modalSelectedItemStyle.Render("▶ " + label))
			} else {
				content.WriteString(modalItemStyle.Render("  " + label))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showCharacterModal {
		return m.renderCharacterModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", chatWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}

	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓") // Blinking effect at the progress point
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

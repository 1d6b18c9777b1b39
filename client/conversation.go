package client

import (
	"html"
	"strings"
	"unicode/utf8"
)

const (
	MaxInputLength   = 500
	TruncationNotice = "Message truncated to 500 characters."
	ConnectionError  = "Sorry, I'm having trouble connecting right now. Please try again later."
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusSending Status = "sending"
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

type ChatTurn struct {
	Content string
	Role    Role
}

// State is the whole conversation view. Transitions return a new value and
// never modify the receiver's transcript in place.
type State struct {
	Status     Status
	Transcript []ChatTurn
}

func NewState() State {
	return State{Status: StatusIdle}
}

func (s State) appendTurn(content string, role Role) State {
	transcript := make([]ChatTurn, len(s.Transcript), len(s.Transcript)+1)
	copy(transcript, s.Transcript)
	s.Transcript = append(transcript, ChatTurn{Content: content, Role: role})
	return s
}

// Submit starts a turn. It is refused when the trimmed input is empty or a
// turn is already in flight; in that case the state is returned unchanged.
func (s State) Submit(input string) (State, string, bool) {
	message := strings.TrimSpace(input)
	if message == "" || s.Status == StatusSending {
		return s, "", false
	}
	next := s.appendTurn(message, RoleUser)
	next.Status = StatusSending
	return next, message, true
}

// Resolve finishes the in-flight turn with the bot line for outcome and
// always returns to idle.
func (s State) Resolve(outcome Outcome) State {
	next := s.appendTurn(outcome.BotLine(), RoleBot)
	next.Status = StatusIdle
	return next
}

// ClampInput cuts input to MaxInputLength characters. When it had to cut, a
// truncation notice is added to the transcript.
func (s State) ClampInput(input string) (State, string) {
	if utf8.RuneCountInString(input) <= MaxInputLength {
		return s, input
	}
	runes := []rune(input)
	return s.appendTurn(TruncationNotice, RoleBot), string(runes[:MaxInputLength])
}

type Controls struct {
	InputDisabled  bool
	SubmitDisabled bool
	SubmitLabel    string
}

func (s State) Controls() Controls {
	if s.Status == StatusSending {
		return Controls{InputDisabled: true, SubmitDisabled: true, SubmitLabel: "Sending..."}
	}
	return Controls{SubmitLabel: "Send"}
}

// RenderTurn produces the HTML for one transcript line. Content is escaped;
// the only markup it gains is a <br> for every newline.
func RenderTurn(turn ChatTurn) string {
	label := "Bot"
	if turn.Role == RoleUser {
		label = "You"
	}
	return "<strong>" + label + ":</strong> " + FormatMessage(turn.Content)
}

func FormatMessage(content string) string {
	return strings.ReplaceAll(html.EscapeString(content), "\n", "<br>")
}

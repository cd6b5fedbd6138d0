package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/xiaot623/chatbridge/internal/domain"
	"github.com/xiaot623/chatbridge/internal/session"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	questionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	answerStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// emit writes v as JSON or YAML, or calls text for the styled rendering.
func (e *env) emit(v interface{}, text func(w io.Writer)) error {
	switch e.format {
	case formatJSON:
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(e.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(e.out)
		return nil
	}
}

type loginView struct {
	Outcome   session.Outcome `json:"outcome" yaml:"outcome"`
	Reason    string          `json:"reason,omitempty" yaml:"reason,omitempty"`
	LoggedIn  bool            `json:"logged_in" yaml:"logged_in"`
	Principal string          `json:"principal" yaml:"principal"`
	Username  string          `json:"username" yaml:"username"`
}

func renderLogin(w io.Writer, v loginView) {
	if !v.LoggedIn {
		fmt.Fprintf(w, "%s %s\n", warnStyle.Render("Not logged in:"), v.Outcome)
		return
	}
	fmt.Fprintf(w, "%s %s %s\n", okStyle.Render("Logged in as"), titleStyle.Render(v.Username), idStyle.Render(v.Principal))
}

type chatMetaView struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

func chatMetaViews(chats []domain.ChatMeta) []chatMetaView {
	out := make([]chatMetaView, len(chats))
	for i, c := range chats {
		out[i] = chatMetaView{ID: c.ID, Name: c.Name}
	}
	return out
}

func renderChats(w io.Writer, chats []chatMetaView) {
	if len(chats) == 0 {
		fmt.Fprintln(w, "No chats yet.")
		return
	}
	for _, c := range chats {
		fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(c.Name), idStyle.Render(c.ID))
	}
}

type messageView struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

type historyView struct {
	ID       string        `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	Messages []messageView `json:"messages" yaml:"messages"`
}

func newHistoryView(chatID string, info *domain.ChatInfo) historyView {
	v := historyView{ID: chatID, Messages: []messageView{}}
	if info == nil {
		return v
	}
	v.Name = info.Name
	for _, m := range info.Messages {
		v.Messages = append(v.Messages, messageView{Question: m.Question, Answer: m.Answer})
	}
	return v
}

func renderHistory(w io.Writer, h historyView) {
	fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(h.Name), idStyle.Render(h.ID))
	for _, m := range h.Messages {
		fmt.Fprintln(w, questionStyle.Render("> "+m.Question))
		fmt.Fprintln(w, answerStyle.Render(m.Answer))
	}
}

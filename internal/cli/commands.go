package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newLoginCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and show the resulting session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := e.app.Current()
			v := loginView{
				Outcome:   e.login.Outcome,
				Reason:    e.login.Reason,
				LoggedIn:  sess.LoggedIn,
				Principal: sess.Principal.String(),
				Username:  sess.Username,
			}
			return e.emit(v, func(w io.Writer) { renderLogin(w, v) })
		},
	}
}

func newChatCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a message to the model and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireLogin(); err != nil {
				return err
			}
			reply, err := e.app.Facade.ChatWithBackend(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return e.emit(map[string]string{"reply": reply}, func(w io.Writer) {
				fmt.Fprintln(w, reply)
			})
		},
	}
}

func newChatsCommand(e *env) *cobra.Command {
	chats := &cobra.Command{
		Use:   "chats",
		Short: "Manage your chats",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your chats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireLogin(); err != nil {
				return err
			}
			metas, err := e.app.Facade.ListChats(cmd.Context(), e.principal())
			if err != nil {
				return err
			}
			views := chatMetaViews(metas)
			return e.emit(views, func(w io.Writer) { renderChats(w, views) })
		},
	}

	var chatID string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireLogin(); err != nil {
				return err
			}
			id := chatID
			if id == "" {
				id = uuid.NewString()
			}
			if err := e.app.Facade.CreateNewChat(cmd.Context(), e.principal(), id, args[0]); err != nil {
				return err
			}
			v := chatMetaView{ID: id, Name: args[0]}
			return e.emit(v, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s  %s\n", okStyle.Render("Created"), titleStyle.Render(v.Name), idStyle.Render(v.ID))
			})
		},
	}
	create.Flags().StringVar(&chatID, "id", "", "Chat id (default: a new UUID)")

	rename := &cobra.Command{
		Use:   "rename <chat-id> <new-name>",
		Short: "Rename a chat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireLogin(); err != nil {
				return err
			}
			renamed, err := e.app.Facade.RenameChat(cmd.Context(), e.principal(), args[0], args[1])
			if err != nil {
				return err
			}
			return e.emit(map[string]bool{"renamed": renamed}, func(w io.Writer) {
				if renamed {
					fmt.Fprintf(w, "%s %s\n", okStyle.Render("Renamed"), idStyle.Render(args[0]))
				} else {
					fmt.Fprintf(w, "%s %s\n", warnStyle.Render("No such chat"), idStyle.Render(args[0]))
				}
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <chat-id>",
		Short: "Delete a chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireLogin(); err != nil {
				return err
			}
			deleted, err := e.app.Facade.DeleteChat(cmd.Context(), e.principal(), args[0])
			if err != nil {
				return err
			}
			return e.emit(map[string]bool{"deleted": deleted}, func(w io.Writer) {
				if deleted {
					fmt.Fprintf(w, "%s %s\n", okStyle.Render("Deleted"), idStyle.Render(args[0]))
				} else {
					fmt.Fprintf(w, "%s %s\n", warnStyle.Render("No such chat"), idStyle.Render(args[0]))
				}
			})
		},
	}

	history := &cobra.Command{
		Use:   "history <chat-id>",
		Short: "Show a chat with its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireLogin(); err != nil {
				return err
			}
			info, err := e.app.Facade.GetChatHistory(cmd.Context(), e.principal(), args[0])
			if err != nil {
				return err
			}
			v := newHistoryView(args[0], info)
			return e.emit(v, func(w io.Writer) { renderHistory(w, v) })
		},
	}

	var question, answer string
	add := &cobra.Command{
		Use:   "add <chat-id>",
		Short: "Append a question/answer pair to a chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireLogin(); err != nil {
				return err
			}
			if err := e.app.Facade.AddChatMessage(cmd.Context(), e.principal(), args[0], question, answer); err != nil {
				return err
			}
			return e.emit(map[string]bool{"ok": true}, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s\n", okStyle.Render("Added to"), idStyle.Render(args[0]))
			})
		},
	}
	add.Flags().StringVarP(&question, "question", "q", "", "Question text")
	add.Flags().StringVarP(&answer, "answer", "a", "", "Answer text")

	chats.AddCommand(list, create, rename, del, history, add)
	return chats
}

func newUserNameCommand(e *env) *cobra.Command {
	username := &cobra.Command{
		Use:   "username",
		Short: "Show or change your display name",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show your display name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireLogin(); err != nil {
				return err
			}
			name, err := e.app.Facade.GetUserName(cmd.Context(), e.principal())
			if err != nil {
				return err
			}
			return e.emit(map[string]string{"username": name}, func(w io.Writer) {
				fmt.Fprintln(w, titleStyle.Render(name))
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <name>",
		Short: "Change your display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireLogin(); err != nil {
				return err
			}
			if err := e.app.Facade.SetUserName(cmd.Context(), e.principal(), args[0]); err != nil {
				return err
			}
			return e.emit(map[string]string{"username": args[0]}, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s\n", okStyle.Render("Display name set to"), titleStyle.Render(args[0]))
			})
		},
	}

	username.AddCommand(get, set)
	return username
}

func newPromptCommand(e *env) *cobra.Command {
	prompt := &cobra.Command{
		Use:   "prompt",
		Short: "Prompt quota",
	}

	try := &cobra.Command{
		Use:   "try",
		Short: "Consume one prompt of your quota",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireLogin(); err != nil {
				return err
			}
			allowed, err := e.app.Facade.TryPrompt(cmd.Context(), e.principal())
			if err != nil {
				return err
			}
			return e.emit(map[string]bool{"allowed": allowed}, func(w io.Writer) {
				if allowed {
					fmt.Fprintln(w, okStyle.Render("Prompt allowed"))
				} else {
					fmt.Fprintln(w, warnStyle.Render("Prompt limit reached, try again later"))
				}
			})
		},
	}

	prompt.AddCommand(try)
	return prompt
}

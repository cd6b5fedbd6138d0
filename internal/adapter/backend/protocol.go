package backend

import (
	"github.com/xiaot623/chatbridge/internal/domain"
	"github.com/xiaot623/chatbridge/internal/principal"
)

// ServiceName is the net/rpc service name the backend handler registers under.
const ServiceName = "Backend"

var methods = map[domain.Procedure]string{
	domain.ProcChat:                   ServiceName + ".Chat",
	domain.ProcCreateNewChat:          ServiceName + ".CreateNewChat",
	domain.ProcAddChatMessage:         ServiceName + ".AddChatMessage",
	domain.ProcGetChatHistory:         ServiceName + ".GetChatHistory",
	domain.ProcDeleteChat:             ServiceName + ".DeleteChat",
	domain.ProcRenameChat:             ServiceName + ".RenameChat",
	domain.ProcListChats:              ServiceName + ".ListChats",
	domain.ProcSetUserName:            ServiceName + ".SetUserName",
	domain.ProcGetUserName:            ServiceName + ".GetUserName",
	domain.ProcTryIncrementUserPrompt: ServiceName + ".TryIncrementUserPrompt",
}

// MethodFor maps a wire procedure name to the net/rpc service method serving it.
func MethodFor(procedure string) (string, bool) {
	m, ok := methods[domain.Procedure(procedure)]
	return m, ok
}

// ChatArgs are the arguments of chat.
type ChatArgs struct {
	Message string `json:"message"`
}

// PrincipalArgs are the arguments of procedures keyed only by principal.
type PrincipalArgs struct {
	Principal principal.Principal `json:"principal"`
}

// ChatRefArgs identify one chat of a principal.
type ChatRefArgs struct {
	Principal principal.Principal `json:"principal"`
	ChatID    string              `json:"chat_id"`
}

// CreateNewChatArgs are the arguments of create_new_chat.
type CreateNewChatArgs struct {
	Principal principal.Principal `json:"principal"`
	ChatID    string              `json:"chat_id"`
	Name      string              `json:"name"`
}

// AddChatMessageArgs are the arguments of add_chat_message.
type AddChatMessageArgs struct {
	Principal principal.Principal `json:"principal"`
	ChatID    string              `json:"chat_id"`
	Question  string              `json:"question"`
	Answer    string              `json:"answer"`
}

// RenameChatArgs are the arguments of rename_chat.
type RenameChatArgs struct {
	Principal principal.Principal `json:"principal"`
	ChatID    string              `json:"chat_id"`
	NewName   string              `json:"new_name"`
}

// SetUserNameArgs are the arguments of set_user_name.
type SetUserNameArgs struct {
	Principal principal.Principal `json:"principal"`
	Name      string              `json:"name"`
}

// Empty is the reply of procedures that return nothing.
type Empty struct{}

package domain

// Procedure is the name of a remote procedure on the chat backend.
type Procedure string

const (
	ProcChat                   Procedure = "chat"
	ProcCreateNewChat          Procedure = "create_new_chat"
	ProcAddChatMessage         Procedure = "add_chat_message"
	ProcGetChatHistory         Procedure = "get_chat_history"
	ProcDeleteChat             Procedure = "delete_chat"
	ProcRenameChat             Procedure = "rename_chat"
	ProcListChats              Procedure = "list_chats"
	ProcSetUserName            Procedure = "set_user_name"
	ProcGetUserName            Procedure = "get_user_name"
	ProcTryIncrementUserPrompt Procedure = "try_increment_user_prompt"
)

// Procedures lists every backend procedure.
var Procedures = []Procedure{
	ProcChat,
	ProcCreateNewChat,
	ProcAddChatMessage,
	ProcGetChatHistory,
	ProcDeleteChat,
	ProcRenameChat,
	ProcListChats,
	ProcSetUserName,
	ProcGetUserName,
	ProcTryIncrementUserPrompt,
}

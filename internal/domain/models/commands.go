package models

import "strings"

// CommandType enumerates the nursery commands workers can send over WhatsApp.
type CommandType string

const (
	CommandSell       CommandType = "sell"
	CommandLoss       CommandType = "loss"
	CommandGerminated CommandType = "germinated"
	CommandPlant      CommandType = "plant"
	CommandStock      CommandType = "stock"
	CommandHelp       CommandType = "help"
	CommandUnknown    CommandType = "unknown"
)

var commandAliases = map[string]CommandType{
	"sell":       CommandSell,
	"sale":       CommandSell,
	"loss":       CommandLoss,
	"lost":       CommandLoss,
	"germinated": CommandGerminated,
	"germ":       CommandGerminated,
	"plant":      CommandPlant,
	"planted":    CommandPlant,
	"stock":      CommandStock,
	"help":       CommandHelp,
}

// Command is a parsed worker instruction.
type Command struct {
	Type CommandType
	Raw  string
	Args []string

	// MessageID identifies the inbound message the command came from.
	MessageID string
}

// ParseCommand derives a Command from a free-form message. Batch identifiers
// are case-insensitive, so arguments are kept in their original case and
// normalized by the dispatcher.
func ParseCommand(message string) Command {
	trimmedMsg := strings.TrimSpace(message)
	cmd := Command{Type: CommandUnknown, Raw: message}
	if trimmedMsg == "" {
		return cmd
	}

	tokens := strings.Fields(trimmedMsg)
	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	if t, ok := commandAliases[head]; ok {
		cmd.Type = t
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}

// IsSlashCommand reports whether the message already uses command syntax.
func IsSlashCommand(message string) bool {
	return strings.HasPrefix(strings.TrimSpace(message), "/")
}

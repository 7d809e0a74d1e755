// Package consts contains constants for the archive domain
package consts

// Command represents a bot command
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandStart          = Command{Name: "start", Description: "Start the bot"}
	CommandHelp           = Command{Name: "help", Description: "Show help message"}
	CommandShowAlbums     = Command{Name: "showalbums", Description: "Show identifiers and names for all available albums"}
	CommandConsolidateAll = Command{Name: "consolidateall", Description: "Merge posts that were split into multiple messages, for all albums"}
	CommandGenerateAll    = Command{Name: "generateall", Description: "Generate all albums"}
	CommandGenerate       = Command{Name: "generate", Description: "Generate the specified album (add album username after the command)"}
	CommandDeleteAll      = Command{Name: "deleteall", Description: "Delete all albums"}
	CommandDelete         = Command{Name: "delete", Description: "Delete the specified album (add album username after the command)"}
)

// AllCommands contains all available bot commands for menu registration
var AllCommands = []Command{
	CommandStart,
	CommandHelp,
	CommandShowAlbums,
	CommandConsolidateAll,
	CommandGenerateAll,
	CommandGenerate,
	CommandDeleteAll,
	CommandDelete,
}

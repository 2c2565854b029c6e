package main

import (
	"os"

	// Load API keys from a .env file in the working directory
	_ "github.com/joho/godotenv/autoload"

	// Register the chat providers
	_ "github.com/chazuruo/launchdeck/internal/ai/openai"

	"github.com/chazuruo/launchdeck/internal/cli"
)

// Version is set at build time using ldflags
var Version = "dev"

// Commit is set at build time using ldflags
var Commit = "unknown"

// Date is set at build time using ldflags
var Date = "unknown"

// BuiltBy is set at build time using ldflags
var BuiltBy = "unknown"

func main() {
	rootCmd := cli.NewRootCommand(Version, Commit, Date, BuiltBy)
	os.Exit(cli.Execute(rootCmd))
}

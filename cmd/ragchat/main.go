package main

import (
	"fmt"
	"os"
)

const usageText = `ragchat talks to a document question-answering backend.

Usage:
  ragchat <command> [flags]

Commands:
  ui        run the interactive chat UI
  signup    create an account
  login     sign in and store the session token
  logout    drop the stored credentials
  whoami    show the signed-in account
  docs      manage indexed documents (list, add, rm)
  sessions  manage saved chats (list, rm)
  help      show help

Flags:
  -h, --help   show help

Examples:
  ragchat login --email dana@example.com
  ragchat docs add ./handbook.pdf
  ragchat docs add https://example.com/faq
  ragchat sessions rm 3
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}

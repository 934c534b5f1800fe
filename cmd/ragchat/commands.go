package main

import (
	"io"
	"os"
)

type commandRunner interface {
	Run(args []string) error
}

type commandWiring struct {
	stdout       io.Writer
	stderr       io.Writer
	newClient    clientFactory
	readPassword passwordReader
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout:       stdout,
		stderr:       stderr,
		newClient:    newRagchatClient,
		readPassword: promptPassword,
	}
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"ui":       NewUICommand(wiring.stderr, wiring.newClient),
		"signup":   NewSignupCommand(wiring.stdout, wiring.stderr, wiring.newClient, wiring.readPassword),
		"login":    NewLoginCommand(wiring.stdout, wiring.stderr, wiring.newClient, wiring.readPassword),
		"logout":   NewLogoutCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"whoami":   NewWhoamiCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"docs":     NewDocsCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"sessions": NewSessionsCommand(wiring.stdout, wiring.stderr, wiring.newClient),
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type SessionsCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewSessionsCommand(stdout, stderr io.Writer, newClient clientFactory) *SessionsCommand {
	return &SessionsCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
	}
}

func (c *SessionsCommand) Run(args []string) error {
	sub := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub = args[0]
		args = args[1:]
	}
	switch sub {
	case "list":
		return c.runList(args)
	case "rm":
		return c.runRemove(args)
	}
	return fmt.Errorf("unknown sessions subcommand: %s (expected list or rm)", sub)
}

func (c *SessionsCommand) runList(args []string) error {
	fs := flag.NewFlagSet("sessions list", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cl, err := c.newClient()
	if err != nil {
		return err
	}
	defer cl.Close()
	sessions, err := cl.ListSessions(context.Background())
	if err != nil {
		return err
	}
	printSessions(c.stdout, sessions)
	return nil
}

func (c *SessionsCommand) runRemove(args []string) error {
	fs := flag.NewFlagSet("sessions rm", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("sessions rm requires a session id")
	}
	id, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid session id %q", fs.Arg(0))
	}

	cl, err := c.newClient()
	if err != nil {
		return err
	}
	defer cl.Close()
	if err := cl.DeleteSession(context.Background(), id); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "ok")
	return nil
}

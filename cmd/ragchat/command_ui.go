package main

import (
	"flag"
	"io"
)

type UICommand struct {
	stderr    io.Writer
	newClient clientFactory
}

func NewUICommand(stderr io.Writer, newClient clientFactory) *UICommand {
	return &UICommand{
		stderr:    stderr,
		newClient: newClient,
	}
}

func (c *UICommand) Run(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cl, err := c.newClient()
	if err != nil {
		return err
	}
	defer cl.Close()
	return cl.RunUI()
}

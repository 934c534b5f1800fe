package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"ragchat/internal/client"
)

type LoginCommand struct {
	stdout       io.Writer
	stderr       io.Writer
	newClient    clientFactory
	readPassword passwordReader
}

func NewLoginCommand(stdout, stderr io.Writer, newClient clientFactory, readPassword passwordReader) *LoginCommand {
	return &LoginCommand{
		stdout:       stdout,
		stderr:       stderr,
		newClient:    newClient,
		readPassword: readPassword,
	}
}

func (c *LoginCommand) Run(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("login requires --email")
	}
	if *password == "" {
		value, err := c.readPassword("password: ")
		if err != nil {
			return err
		}
		*password = value
	}

	ctx := context.Background()
	cl, err := c.newClient()
	if err != nil {
		return err
	}
	defer cl.Close()
	token, err := cl.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := cl.SaveToken(ctx, token); err != nil {
		return err
	}
	user, err := cl.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "signed in as %s (%s)\n", user.Username, user.Email)
	return nil
}

type SignupCommand struct {
	stdout       io.Writer
	stderr       io.Writer
	newClient    clientFactory
	readPassword passwordReader
}

func NewSignupCommand(stdout, stderr io.Writer, newClient clientFactory, readPassword passwordReader) *SignupCommand {
	return &SignupCommand{
		stdout:       stdout,
		stderr:       stderr,
		newClient:    newClient,
		readPassword: readPassword,
	}
}

func (c *SignupCommand) Run(args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	email := fs.String("email", "", "account email")
	username := fs.String("username", "", "display name")
	password := fs.String("password", "", "account password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *username == "" {
		return errors.New("signup requires --email and --username")
	}
	if *password == "" {
		value, err := c.readPassword("password: ")
		if err != nil {
			return err
		}
		*password = value
	}

	ctx := context.Background()
	cl, err := c.newClient()
	if err != nil {
		return err
	}
	defer cl.Close()
	if err := cl.Signup(ctx, client.SignupRequest{
		Email:    *email,
		Username: *username,
		Password: *password,
	}); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "account created for %s, sign in with: ragchat login --email %s\n", *username, *email)
	return nil
}

type LogoutCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewLogoutCommand(stdout, stderr io.Writer, newClient clientFactory) *LogoutCommand {
	return &LogoutCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
	}
}

func (c *LogoutCommand) Run(args []string) error {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cl, err := c.newClient()
	if err != nil {
		return err
	}
	defer cl.Close()
	if err := cl.ClearCredentials(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "signed out")
	return nil
}

type WhoamiCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewWhoamiCommand(stdout, stderr io.Writer, newClient clientFactory) *WhoamiCommand {
	return &WhoamiCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
	}
}

func (c *WhoamiCommand) Run(args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cl, err := c.newClient()
	if err != nil {
		return err
	}
	defer cl.Close()
	if !cl.Authenticated() {
		return errors.New("not signed in, run: ragchat login")
	}
	user, err := cl.CurrentUser(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "%s (%s)\n", user.Username, user.Email)
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type DocsCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewDocsCommand(stdout, stderr io.Writer, newClient clientFactory) *DocsCommand {
	return &DocsCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
	}
}

func (c *DocsCommand) Run(args []string) error {
	sub := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub = args[0]
		args = args[1:]
	}
	switch sub {
	case "list":
		return c.runList(args)
	case "add":
		return c.runAdd(args)
	case "rm":
		return c.runRemove(args)
	}
	return fmt.Errorf("unknown docs subcommand: %s (expected list, add or rm)", sub)
}

func (c *DocsCommand) runList(args []string) error {
	fs := flag.NewFlagSet("docs list", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cl, err := c.newClient()
	if err != nil {
		return err
	}
	defer cl.Close()
	documents, err := cl.ListDocuments(context.Background())
	if err != nil {
		return err
	}
	printDocuments(c.stdout, documents)
	return nil
}

// runAdd uploads each argument, treating http(s) values as pages to fetch
// and anything else as a local PDF path.
func (c *DocsCommand) runAdd(args []string) error {
	fs := flag.NewFlagSet("docs add", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("docs add requires at least one PDF path or URL")
	}

	var urls []string
	var paths []string
	for _, arg := range fs.Args() {
		if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
			urls = append(urls, arg)
		} else {
			paths = append(paths, arg)
		}
	}

	ctx := context.Background()
	cl, err := c.newClient()
	if err != nil {
		return err
	}
	defer cl.Close()

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		resp, err := cl.UploadPDF(ctx, filepath.Base(path), f)
		f.Close()
		if err != nil {
			return fmt.Errorf("upload %s: %w", path, err)
		}
		fmt.Fprintf(c.stdout, "indexed %s (%d chunks)\n", resp.Filename, resp.Chunks)
	}

	if len(urls) > 0 {
		resp, err := cl.UploadURLs(ctx, urls)
		if err != nil {
			return err
		}
		for _, result := range resp.Results {
			if result.Status == "success" {
				fmt.Fprintf(c.stdout, "indexed %s (%d chunks)\n", result.URL, result.Chunks)
			} else {
				fmt.Fprintf(c.stdout, "failed %s: %s\n", result.URL, result.Error)
			}
		}
	}
	return nil
}

func (c *DocsCommand) runRemove(args []string) error {
	fs := flag.NewFlagSet("docs rm", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("docs rm requires a document id")
	}
	id, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid document id %q", fs.Arg(0))
	}

	cl, err := c.newClient()
	if err != nil {
		return err
	}
	defer cl.Close()
	if err := cl.DeleteDocument(context.Background(), id); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "ok")
	return nil
}

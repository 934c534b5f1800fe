package main

import (
	"fmt"
	"io"
	"os"
	"syscall"
	"text/tabwriter"

	"ragchat/internal/types"

	"golang.org/x/term"
)

type passwordReader func(prompt string) (string, error)

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

func printDocuments(output io.Writer, documents []*types.Document) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tTYPE\tCHUNKS\tUPLOADED\tNAME")
	for _, doc := range documents {
		uploaded := "-"
		if !doc.UploadedAt.IsZero() {
			uploaded = doc.UploadedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(writer, "%d\t%s\t%d\t%s\t%s\n", doc.ID, doc.SourceType, doc.ChunkCount, uploaded, doc.Filename)
	}
	_ = writer.Flush()
}

func printSessions(output io.Writer, sessions []*types.ChatSession) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tMESSAGES\tCREATED\tTITLE")
	for _, session := range sessions {
		created := "-"
		if !session.CreatedAt.IsZero() {
			created = session.CreatedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(writer, "%d\t%d\t%s\t%s\n", session.ID, session.MessageCount, created, session.Title)
	}
	_ = writer.Flush()
}

func exitOnErr(label string, err error, stderr io.Writer) {
	if err == nil {
		return
	}
	fmt.Fprintf(stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}

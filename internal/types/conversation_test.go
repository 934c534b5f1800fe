package types

import (
	"testing"
	"time"
)

func TestConversationBindAfterFirstAnswer(t *testing.T) {
	var conv Conversation
	if conv.Bound() {
		t.Fatal("new conversation should not be bound")
	}

	now := time.Now()
	conv.AppendUser("what is in the report?", now)
	conv.AppendAssistant("the report covers Q3.", nil, now)
	conv.Bind(42)

	if !conv.Bound() {
		t.Fatal("conversation should be bound after Bind")
	}
	if *conv.SessionID != 42 {
		t.Fatalf("unexpected session id: %d", *conv.SessionID)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("unexpected message count: %d", len(conv.Messages))
	}
	if conv.Messages[0].Role != RoleUser || conv.Messages[1].Role != RoleAssistant {
		t.Fatalf("unexpected roles: %s, %s", conv.Messages[0].Role, conv.Messages[1].Role)
	}
}

func TestConversationAppendAssistantCopiesCitations(t *testing.T) {
	var conv Conversation
	page := 3
	citations := []Citation{
		{Source: "report.pdf", Page: &page},
		{Source: "notes.pdf"},
	}
	conv.AppendAssistant("see the report", citations, time.Now())

	citations[0].Source = "mutated"
	got := conv.Messages[0].Citations
	if len(got) != 2 {
		t.Fatalf("unexpected citation count: %d", len(got))
	}
	if got[0].Source != "report.pdf" {
		t.Fatalf("citation aliased caller slice: %q", got[0].Source)
	}
	if got[0].Page == nil || *got[0].Page != 3 {
		t.Fatalf("unexpected page: %v", got[0].Page)
	}
	if got[1].Page != nil {
		t.Fatalf("expected nil page for second citation")
	}
}

func TestConversationAppendAssistantEmptyCitations(t *testing.T) {
	var conv Conversation
	conv.AppendAssistant("no sources", []Citation{}, time.Now())
	if conv.Messages[0].HasCitations() {
		t.Fatal("empty citation list should not attach a citation block")
	}
}

func TestConversationReplaceAndReset(t *testing.T) {
	var conv Conversation
	conv.AppendUser("draft", time.Now())

	history := []Message{
		{Role: RoleUser, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
	}
	conv.Replace(7, history)
	if !conv.Bound() || *conv.SessionID != 7 {
		t.Fatalf("replace did not bind session: %v", conv.SessionID)
	}
	if len(conv.Messages) != 2 || conv.Messages[0].Content != "q1" {
		t.Fatalf("replace did not install history: %#v", conv.Messages)
	}

	conv.Reset()
	if conv.Bound() || conv.Messages != nil {
		t.Fatalf("reset left state behind: %v %v", conv.SessionID, conv.Messages)
	}
}

func TestConversationLastAssistant(t *testing.T) {
	var conv Conversation
	if _, ok := conv.LastAssistant(); ok {
		t.Fatal("empty buffer has no assistant message")
	}
	now := time.Now()
	conv.AppendUser("q1", now)
	conv.AppendAssistant("a1", nil, now)
	conv.AppendUser("q2", now)

	msg, ok := conv.LastAssistant()
	if !ok || msg.Content != "a1" {
		t.Fatalf("unexpected last assistant: %v %v", msg, ok)
	}
}

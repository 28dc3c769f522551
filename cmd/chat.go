package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pricescout/pricescout/internal/model"
)

// maxChatContextChars bounds the accumulated conversation sent with each
// turn. Older turns are dropped from the front once exceeded.
const maxChatContextChars = 8000

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the shopping assistant",
	Long:  "Interactive loop: each line is sent with the accumulated conversation as context. Type 'exit' or press Ctrl-D to quit.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc := initSearch()
		return runChat(cmd.Context(), os.Stdin, os.Stdout, svc.Chat)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// askFunc matches search.Service.Chat.
type askFunc func(ctx context.Context, message, conversation string) *model.CompareResult

// runChat drives the read/ask/print loop. The conversation transcript
// accumulates across turns and rides along as context.
func runChat(ctx context.Context, in io.Reader, out io.Writer, ask askFunc) error {
	fmt.Fprintln(out, "Shopping assistant. Ask about products or prices; 'exit' to quit.")

	var transcript strings.Builder
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		result := ask(ctx, line, trimTranscript(transcript.String()))
		if !result.Success {
			fmt.Fprintf(out, "! %s\n", result.Error)
			continue
		}

		fmt.Fprintln(out, result.Answer)

		transcript.WriteString("User: " + line + "\n")
		transcript.WriteString("Assistant: " + result.Answer + "\n")
	}

	return scanner.Err()
}

// trimTranscript drops the oldest turns once the transcript exceeds the
// context bound.
func trimTranscript(s string) string {
	if len(s) <= maxChatContextChars {
		return s
	}
	cut := s[len(s)-maxChatContextChars:]
	// Resync to a turn boundary so the context never starts mid-line.
	if idx := strings.Index(cut, "\nUser: "); idx >= 0 {
		return cut[idx+1:]
	}
	return cut
}

package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/nlook/sparkcoach/internal/agent"
)

type ConsoleChatUI struct {
	In  io.Reader
	Out io.Writer
}

func (u *ConsoleChatUI) Run(ctx context.Context, backend CoachBackend, opts ChatOptions) error {
	in := u.In
	if in == nil {
		return fmt.Errorf("console ui: In is nil")
	}
	out := u.Out
	if out == nil {
		return fmt.Errorf("console ui: Out is nil")
	}

	threadID := opts.ThreadID
	if threadID == "" {
		threadID = uuid.NewString()
	}

	start, err := backend.Start(ctx, threadID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Coach: %s\n\n", start.Greeting)
	fmt.Fprintln(out, "(type exit or quit to leave)")

	reader := bufio.NewReader(in)
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "Bye!")
			return nil
		default:
		}

		fmt.Fprint(out, "You: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(out, "\nBye!")
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return nil
		}

		res, err := backend.Submit(ctx, threadID, line)
		if err != nil {
			return err
		}

		if res.Response == "" {
			fmt.Fprintln(out, "Coach: (no reply)")
		} else {
			fmt.Fprintf(out, "Coach: %s\n", res.Response)
		}
		fmt.Fprintln(out)

		if res.Phase == agent.PhaseCompleted {
			fmt.Fprintln(out, "Session complete. Good luck out there!")
			return nil
		}
	}
}

package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/promptpipe/promptpipe/pkg/uuidx"
)

// Menu drives the interactive session: it prints the option list, collects
// input, invokes server operations, and renders the envelopes.
type Menu struct {
	caller    Caller
	router    *Router
	renderer  *Renderer
	in        *bufio.Scanner
	out       io.Writer
	sessionID string
}

// NewMenu builds the menu loop. Router may be nil, which hides the smart
// routing option. Each menu starts in a fresh session; the sessions action
// can switch to a named one.
func NewMenu(caller Caller, router *Router, renderer *Renderer, in io.Reader, out io.Writer) *Menu {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanLines)
	return &Menu{
		caller:    caller,
		router:    router,
		renderer:  renderer,
		in:        scanner,
		out:       out,
		sessionID: uuidx.NewString(),
	}
}

// Run loops until the user exits or input ends. Tool failures are rendered
// and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.printOptions()
		choice, ok := m.prompt("Choose an option")
		if !ok {
			return nil
		}

		switch strings.TrimSpace(choice) {
		case "1":
			m.chat(ctx)
		case "2":
			m.coding(ctx)
		case "3":
			m.research(ctx)
		case "4":
			m.video(ctx)
		case "5":
			m.batch(ctx)
		case "6":
			m.smart(ctx)
		case "7":
			m.call(ctx, "agent_status", nil)
		case "8":
			m.sessions(ctx)
		case "exit", "quit", "q":
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(m.out, color.YellowString("Unknown option"))
		}
	}
}

func (m *Menu) printOptions() {
	fmt.Fprintf(m.out, "\n%s\n", color.CyanString("=== promptpipe ==="))
	fmt.Fprintln(m.out, "1. Chat assistant")
	fmt.Fprintln(m.out, "2. Coding assistant")
	fmt.Fprintln(m.out, "3. Research assistant")
	fmt.Fprintln(m.out, "4. Video strategy analysis")
	fmt.Fprintln(m.out, "5. Batch video analysis")
	if m.router != nil {
		fmt.Fprintln(m.out, "6. Smart routing (describe what you need)")
	}
	fmt.Fprintln(m.out, "7. Server status")
	fmt.Fprintln(m.out, "8. Manage sessions")
	fmt.Fprintln(m.out, "exit. Quit")
}

func (m *Menu) chat(ctx context.Context) {
	message, ok := m.prompt("You")
	if !ok || message == "" {
		return
	}
	m.call(ctx, "chat_assistant", map[string]any{
		"message":    message,
		"session_id": m.sessionID,
	})
}

func (m *Menu) coding(ctx context.Context) {
	task, ok := m.prompt("Task")
	if !ok || task == "" {
		return
	}
	language, _ := m.prompt("Language (blank for Python)")

	args := map[string]any{"task": task}
	if language != "" {
		args["language"] = language
	}
	m.call(ctx, "coding_assistant", args)
}

func (m *Menu) research(ctx context.Context) {
	query, ok := m.prompt("Research query")
	if !ok || query == "" {
		return
	}
	m.call(ctx, "research_assistant", map[string]any{"query": query})
}

func (m *Menu) video(ctx context.Context) {
	path, ok := m.prompt("Video file path")
	if !ok || path == "" {
		return
	}
	personContext, _ := m.prompt("Who is in the video (optional)")
	focus, _ := m.prompt("Analysis focus (optional)")

	args := map[string]any{"video_file_path": path}
	if personContext != "" {
		args["person_context"] = personContext
	}
	if focus != "" {
		args["analysis_focus"] = focus
	}
	m.call(ctx, "video_strategy_analyzer", args)
}

func (m *Menu) batch(ctx context.Context) {
	dir, ok := m.prompt("Video directory")
	if !ok || dir == "" {
		return
	}
	m.call(ctx, "batch_video_analysis", map[string]any{"video_directory": dir})
}

func (m *Menu) smart(ctx context.Context) {
	if m.router == nil {
		fmt.Fprintln(m.out, color.YellowString("Smart routing is not configured"))
		return
	}
	input, ok := m.prompt("What do you need")
	if !ok || input == "" {
		return
	}

	decision := m.router.Route(ctx, input)
	if decision.Fallback {
		fmt.Fprintf(m.out, "%s %s\n", color.YellowString("Routing fell back to chat:"), decision.Reasoning)
	} else {
		fmt.Fprintf(m.out, "%s %s\n", color.GreenString("Routed to:"), decision.Tool)
	}

	args := decision.Args()
	if decision.Tool == "chat_assistant" {
		args["session_id"] = m.sessionID
	}
	m.call(ctx, decision.Tool, args)
}

func (m *Menu) sessions(ctx context.Context) {
	action, ok := m.prompt("list, clear, or switch")
	if !ok {
		return
	}
	switch strings.TrimSpace(action) {
	case "list":
		m.call(ctx, "list_sessions", nil)
	case "clear":
		id, _ := m.prompt("Session to clear (blank for current)")
		if id == "" {
			id = m.sessionID
		}
		m.call(ctx, "clear_conversation", map[string]any{"session_id": id})
	case "switch":
		id, _ := m.prompt("Session id")
		if id != "" {
			m.sessionID = id
			fmt.Fprintf(m.out, "Using session %s\n", m.sessionID)
		}
	default:
		fmt.Fprintln(m.out, color.YellowString("Unknown action"))
	}
}

func (m *Menu) call(ctx context.Context, tool string, args map[string]any) {
	env, err := m.caller.CallTool(ctx, tool, args)
	if err != nil {
		fmt.Fprintf(m.out, "%s %v\n", color.RedString("Call failed:"), err)
		return
	}
	m.renderer.Envelope(tool, env)
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprintf(m.out, "%s: ", color.CyanString(label))
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

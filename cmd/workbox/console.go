package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	prompt "github.com/c-bata/go-prompt"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"workbox/internal/session"
)

var commandSuggestions = []prompt.Suggest{
	{Text: "cd", Description: "Change directory (workspace-root-relative path)"},
	{Text: "pwd", Description: "Show the current directory"},
	{Text: "ls", Description: "List the current directory"},
	{Text: "cat", Description: "Read a file in the current directory"},
	{Text: "write", Description: "write <file> <content>"},
	{Text: "run", Description: "Run a shell command in the current directory"},
	{Text: "note", Description: "note <key> <value> - store a persistent note"},
	{Text: "notes", Description: "List stored notes"},
	{Text: "fetch", Description: "Fetch and summarize a web page"},
	{Text: "help", Description: "Show help"},
	{Text: "exit", Description: "Leave the console"},
}

const helpMarkdown = `# Workbox console

Every path is **workspace-root-relative**: ` + "`/`" + ` is the workspace root
itself, and directory changes never interpret paths against the current
location. Commands cannot read, write or execute anything outside the
workspace.

| Command | Effect |
|---|---|
| cd <dir> | Change directory (` + "`cd /`" + ` returns to the root) |
| pwd | Show the current directory |
| ls | List files and folders here |
| cat <file> | Print a file |
| write <file> <text> | Write text to a file, creating parents |
| run <command> | Run a shell command with a hard timeout |
| note <key> <text> | Store a persistent note |
| notes | Show all notes |
| fetch <url> | Summarize a web page |
| exit | Quit |
`

type console struct {
	sess   *session.Session
	render *glamour.TermRenderer
	done   atomic.Bool
}

func newConsole(sess *session.Session) *console {
	c := &console{sess: sess}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		width := 0
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		); err == nil {
			c.render = r
		}
	}
	return c
}

func (c *console) Run() {
	fmt.Printf("Workbox %s - workspace %s (type 'help' for commands)\n", Version, c.sess.WorkspaceRoot())
	p := prompt.New(
		c.execute,
		c.complete,
		prompt.OptionTitle("Workbox"),
		prompt.OptionLivePrefix(func() (string, bool) {
			return fmt.Sprintf("[%s] > ", c.sess.Navigator().CurrentDir()), true
		}),
		prompt.OptionAddKeyBind(prompt.KeyBind{
			Key: prompt.ControlD,
			Fn: func(buf *prompt.Buffer) {
				if buf.Text() == "" {
					c.done.Store(true)
				}
			},
		}),
		prompt.OptionSetExitCheckerOnInput(func(string, bool) bool {
			return c.done.Load()
		}),
	)
	p.Run()
}

func (c *console) complete(doc prompt.Document) []prompt.Suggest {
	if strings.Contains(strings.TrimLeft(doc.TextBeforeCursor(), " \t"), " ") {
		return nil
	}
	return prompt.FilterHasPrefix(commandSuggestions, doc.GetWordBeforeCursor(), true)
}

func (c *console) execute(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	verb, rest := splitVerb(line)
	ctx := context.Background()

	switch verb {
	case "exit", "quit":
		c.done.Store(true)
	case "help":
		c.printMarkdown(helpMarkdown)
	case "cd":
		c.callTool(ctx, "change_directory", map[string]any{"target_dir": rest})
	case "pwd":
		c.callTool(ctx, "current_directory", nil)
	case "ls":
		c.callTool(ctx, "list_directory_content", nil)
	case "cat":
		if rest == "" {
			fmt.Println("usage: cat <file>")
			return
		}
		c.callTool(ctx, "read_file", map[string]any{"filename": rest})
	case "write":
		name, content := splitVerb(rest)
		if name == "" || content == "" {
			fmt.Println("usage: write <file> <content>")
			return
		}
		c.callTool(ctx, "write_file", map[string]any{"filename": name, "content": content})
	case "run":
		if rest == "" {
			fmt.Println("usage: run <command>")
			return
		}
		c.callTool(ctx, "execute_command", map[string]any{"command": rest})
	case "note":
		key, value := splitVerb(rest)
		if key == "" || value == "" {
			fmt.Println("usage: note <key> <value>")
			return
		}
		c.callTool(ctx, "write_note", map[string]any{"note_key": key, "note_value": value})
	case "notes":
		c.callTool(ctx, "read_notes", nil)
	case "fetch":
		if rest == "" {
			fmt.Println("usage: fetch <url>")
			return
		}
		c.callTool(ctx, "web_fetch", map[string]any{"url": rest})
	default:
		fmt.Printf("Unknown command %q (type 'help')\n", verb)
	}
}

func (c *console) callTool(ctx context.Context, name string, args map[string]any) {
	tool := c.sess.Tools().MustGet(name)
	if args == nil {
		args = map[string]any{}
	}
	out, err := tool.Call(ctx, args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	c.printPayload(out)
}

// printPayload pretty-prints a tool's JSON payload; the raw text is shown
// when it is not JSON.
func (c *console) printPayload(out string) {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		fmt.Println(out)
		return
	}
	if msg, ok := decoded["error"].(string); ok && msg != "" {
		fmt.Println(msg)
		return
	}
	if output, ok := decoded["output"].(string); ok {
		fmt.Print(output)
		if output != "" && !strings.HasSuffix(output, "\n") {
			fmt.Println()
		}
		return
	}
	if content, ok := decoded["content"].(string); ok {
		fmt.Print(content)
		if content != "" && !strings.HasSuffix(content, "\n") {
			fmt.Println()
		}
		return
	}
	pretty, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		fmt.Println(out)
		return
	}
	fmt.Println(string(pretty))
}

func (c *console) printMarkdown(md string) {
	if c.render != nil {
		if rendered, err := c.render.Render(md); err == nil {
			fmt.Print(rendered)
			return
		}
	}
	fmt.Print(md)
}

func splitVerb(line string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

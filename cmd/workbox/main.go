package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"workbox/internal/config"
	"workbox/internal/logging"
	"workbox/internal/session"
)

// Version is set via -ldflags during build
var Version = "dev"

func main() {
	var (
		workspaceFlag = flag.String("workspace", "", "Workspace root directory (default: current directory)")
		configFlag    = flag.String("config", "", "Path to config.yaml (default: ~/.workbox/config.yaml)")
		timeoutFlag   = flag.Float64("timeout", 0, "Default command timeout in seconds")
		commandFlag   = flag.String("c", "", "Execute a single shell command and exit")
		versionFlag   = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Workbox version %s\n", Version)
		return
	}

	cfgPath := strings.TrimSpace(*configFlag)
	if cfgPath == "" {
		ensured, err := config.EnsureDefault()
		if err != nil {
			log.Fatalf("Failed to prepare config: %v", err)
		}
		cfgPath = ensured
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logging.Setup(logging.FileOptions{
		Path:       cfg.Log.Path,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	root := strings.TrimSpace(*workspaceFlag)
	if root == "" {
		root = cfg.WorkspaceRoot
	}
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		log.Fatalf("Failed to resolve workspace root: %v", err)
	}

	timeout := cfg.CommandTimeout()
	if *timeoutFlag > 0 {
		timeout = secondsToDuration(*timeoutFlag)
	}

	sess, err := session.New(session.Options{
		WorkspaceRoot:  absRoot,
		CommandTimeout: timeout,
		NotesPath:      cfg.NotesPath,
		JSONLogs:       cfg.Log.JSON,
	})
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	defer sess.Close()

	if cmd := strings.TrimSpace(*commandFlag); cmd != "" {
		code := runOneShot(sess, cmd)
		sess.Close() // os.Exit skips the deferred close
		os.Exit(code)
	}

	console := newConsole(sess)
	console.Run()
}

// runOneShot executes a single command through the tool boundary and prints
// its output, mirroring what an agent caller would see.
func runOneShot(sess *session.Session, command string) int {
	tool := sess.Tools().MustGet("execute_command")
	out, err := tool.Call(context.Background(), map[string]any{"command": command})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	var decoded struct {
		Output string `json:"output"`
		Error  string `json:"error"`
	}
	if json.Unmarshal([]byte(out), &decoded) == nil {
		if decoded.Error != "" {
			fmt.Fprintln(os.Stderr, decoded.Error)
			return 1
		}
		fmt.Print(decoded.Output)
		if decoded.Output != "" && !strings.HasSuffix(decoded.Output, "\n") {
			fmt.Println()
		}
		return 0
	}
	fmt.Println(out)
	return 0
}

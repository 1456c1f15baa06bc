package shell

import (
	"context"
	"fmt"
)

// NewDefaultRegistry returns a registry holding every built-in command
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Command{Name: "ls", Usage: "ls [path]", Summary: "list directory contents", Run: ls})
	r.Register(Command{Name: "cd", Usage: "cd [path]", Summary: "change directory", Run: cd})
	r.Register(Command{Name: "pwd", Usage: "pwd", Summary: "print the current directory", Run: pwd})
	r.Register(Command{Name: "cat", Usage: "cat <file>", Summary: "print file contents (where permitted)", Run: cat})
	r.Register(Command{Name: "open", Usage: "open <file>", Summary: "open previewable files in the preview window", Run: open})
	r.Register(Command{Name: "openPortfolio", Usage: "openPortfolio", Summary: "launch the full portfolio overview", Run: openPortfolio})
	r.Register(Command{Name: "resume", Usage: "resume", Summary: "download the resume", Run: resume})
	r.Register(Command{Name: "help", Usage: "help", Summary: "list available commands", Run: help(r)})
	return r
}

func help(r *Registry) Handler {
	return func(_ context.Context, _ []string, _ *Env, io IO) error {
		io.Writeln("Available commands:")
		for _, c := range r.Commands() {
			io.Writeln(fmt.Sprintf("  %-16s- %s", c.Usage, c.Summary))
		}
		return nil
	}
}

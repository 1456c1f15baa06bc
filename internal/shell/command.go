// Package shell implements the command set of the simulated terminal:
// the registry, argument tokenizing, and the handlers themselves.
package shell

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/3rg0n/termfolio/internal/clock"
	"github.com/3rg0n/termfolio/internal/logging"
)

// FS is the filesystem view handlers run against
type FS interface {
	NormalizePath(ctx context.Context, path string) (string, error)
	Exists(ctx context.Context, path string) bool
	IsDir(ctx context.Context, path string) bool
	IsFile(ctx context.Context, path string) bool
	ReadFile(ctx context.Context, path string) (string, error)
	ReadDir(ctx context.Context, path string) ([]string, error)
	IsReadable(path string) bool
	IsPreviewable(path string) bool
	Sentinel() string
}

// Hooks are the actions the shell delegates to the front-end
type Hooks interface {
	// OpenPreview shows content (markdown) in a preview pane titled title.
	OpenPreview(title, content string)
	// OpenResource opens url outside the terminal. An error means the
	// action was blocked and the caller should fall back.
	OpenResource(ctx context.Context, url string) error
}

// Env is the per-dispatch context handed to a handler
type Env struct {
	Cwd       string
	Home      string
	FS        FS
	SetCwd    func(path string)
	Hooks     Hooks
	Clock     clock.Clock
	Columns   func() int // current terminal width; nil means LineWidth
	ResumeURL string
}

func (e *Env) columns() int {
	if e.Columns == nil {
		return LineWidth
	}
	if n := e.Columns(); n > 0 {
		return n
	}
	return LineWidth
}

// IO is the output sink a handler writes to
type IO interface {
	Write(text string)
	Writeln(text string)
}

// Handler runs one command
type Handler func(ctx context.Context, args []string, env *Env, io IO) error

// Command is a registered command
type Command struct {
	Name    string
	Usage   string // e.g. "ls [path]"
	Summary string
	Run     Handler
}

// Registry maps command names to handlers. Lookup ignores case.
type Registry struct {
	cmds   []Command
	byName map[string]int
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds cmd, replacing any command with the same name
func (r *Registry) Register(cmd Command) {
	key := strings.ToLower(cmd.Name)
	if i, ok := r.byName[key]; ok {
		r.cmds[i] = cmd
		return
	}
	r.byName[key] = len(r.cmds)
	r.cmds = append(r.cmds, cmd)
}

func (r *Registry) Lookup(name string) (Command, bool) {
	i, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return Command{}, false
	}
	return r.cmds[i], true
}

// Names returns command names in registration order
func (r *Registry) Names() []string {
	names := make([]string, len(r.cmds))
	for i, c := range r.cmds {
		names[i] = c.Name
	}
	return names
}

func (r *Registry) Commands() []Command {
	return append([]Command(nil), r.cmds...)
}

// Dispatch tokenizes line and runs the named command. Unknown commands,
// handler errors and handler panics are reported on io; Dispatch itself
// never fails.
func (r *Registry) Dispatch(ctx context.Context, line string, env *Env, io IO) {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return
	}

	name, args := tokens[0], tokens[1:]
	cmd, ok := r.Lookup(name)
	if !ok {
		io.Writeln(name + ": command not found")
		return
	}

	if err := run(ctx, cmd, args, env, io); err != nil {
		logging.WithContext(ctx).Warn("command failed", zap.String("command", cmd.Name), zap.Error(err))
		io.Writeln("Error: " + err.Error())
	}
}

func run(ctx context.Context, cmd Command, args []string, env *Env, io IO) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return cmd.Run(ctx, args, env, io)
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/3rg0n/termfolio/internal/clock"
	"github.com/3rg0n/termfolio/internal/pathutil"
	"github.com/3rg0n/termfolio/internal/shell"
	"github.com/3rg0n/termfolio/internal/vfs"
)

// writerIO is a shell.IO over a plain writer
type writerIO struct {
	w io.Writer
}

func (o writerIO) Write(text string) { _, _ = io.WriteString(o.w, text) }

func (o writerIO) Writeln(text string) { o.Write(text + "\n") }

// printHooks renders previews straight to the output
type printHooks struct {
	w       io.Writer
	openURL func(url string) error
}

func (h printHooks) OpenPreview(title, content string) {
	rendered, err := renderMarkdown(content, "notty", shell.LineWidth)
	if err != nil {
		rendered = content
	}
	fmt.Fprintf(h.w, "--- %s ---\n%s", title, rendered)
}

func (h printHooks) OpenResource(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return h.openURL(url)
}

type execOptions struct {
	cwd string
}

func newExecCommand(root *rootOptions) *cobra.Command {
	opts := &execOptions{}

	cmd := &cobra.Command{
		Use:   "exec [command line]",
		Short: "Run shell commands without the interactive terminal",
		Long: `Run one command line given as arguments, or one per line from stdin.
cd carries over between lines. Use -- before commands that take dashes.`,
		Example: `  termfolio exec ls /games
  printf 'cd ~\nls\n' | termfolio exec`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, done, err := setup(cmd, root)
			if err != nil {
				return err
			}
			defer done()

			lines := []string{joinArgs(args)}
			if len(args) == 0 {
				if lines, err = readLines(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			return runLines(cmd.Context(), cfg, opts.cwd, lines, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.cwd, "cwd", pathutil.Root, "starting directory")

	return cmd
}

// joinArgs rebuilds a command line, quoting arguments the shell would split
func joinArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if strings.ContainsAny(a, " \t") {
			a = `"` + a + `"`
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func runLines(ctx context.Context, cfg *Config, cwd string, lines []string, out io.Writer) error {
	fs := vfs.New(vfs.Options{Open: cfg.Opener()})
	defer func() { _ = fs.Close() }()
	if err := fs.Init(ctx); err != nil {
		return ErrFilesystem(err)
	}

	start, err := fs.NormalizePath(ctx, pathutil.Resolve(cwd, pathutil.Root, fs.Home()))
	if err != nil || !fs.IsDir(ctx, start) {
		return ErrBadCwd(cwd)
	}

	registry := shell.NewDefaultRegistry()
	output := writerIO{w: out}
	env := &shell.Env{
		Cwd:       start,
		Home:      fs.Home(),
		FS:        fs,
		Hooks:     printHooks{w: out, openURL: browser.OpenURL},
		Clock:     clock.Real{},
		ResumeURL: cfg.ResumeURL,
	}
	env.SetCwd = func(p string) { env.Cwd = p }

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		registry.Dispatch(ctx, line, env, output)
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

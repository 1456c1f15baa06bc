package shell

import (
	"context"
	"errors"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/3rg0n/termfolio/internal/pathutil"
	"github.com/3rg0n/termfolio/internal/vfs"
)

// lookup normalizes the resolved form of input. A missing node yields
// ("", false, nil); other failures are returned as errors.
func lookup(ctx context.Context, env *Env, input string) (string, bool, error) {
	target := pathutil.Resolve(input, env.Cwd, env.Home)
	normalized, err := env.FS.NormalizePath(ctx, target)
	if errors.Is(err, vfs.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return normalized, true, nil
}

func pwd(_ context.Context, _ []string, env *Env, io IO) error {
	io.Writeln(env.Cwd)
	return nil
}

func ls(ctx context.Context, args []string, env *Env, io IO) error {
	input := env.Cwd
	if len(args) > 0 {
		input = args[0]
	}

	dir, ok, err := lookup(ctx, env, input)
	if err != nil {
		return err
	}
	if !ok {
		io.Writeln("ls: no such file or directory: " + input)
		return nil
	}

	if env.FS.IsFile(ctx, dir) {
		io.Writeln(pathutil.Base(dir))
		return nil
	}

	entries, err := listDir(ctx, env.FS, dir)
	if err != nil {
		return err
	}
	io.Writeln(FormatColumns(entries, LineWidth))
	return nil
}

// listDir returns the visible entries of dir, directories suffixed with
// "/", in collation order
func listDir(ctx context.Context, fs FS, dir string) ([]string, error) {
	names, err := fs.ReadDir(ctx, dir)
	if err != nil {
		return nil, err
	}

	hidden := pathutil.Base(fs.Sentinel())
	entries := make([]string, 0, len(names))
	for _, name := range names {
		if name == hidden {
			continue
		}
		if fs.IsDir(ctx, pathutil.Join(dir, name)) {
			name += "/"
		}
		entries = append(entries, name)
	}
	SortNames(entries)
	return entries, nil
}

// SortNames orders names the way a user would expect a listing to read
func SortNames(names []string) {
	collate.New(language.English).SortStrings(names)
}

func cd(ctx context.Context, args []string, env *Env, io IO) error {
	input := env.Home
	if len(args) > 0 {
		input = args[0]
	}
	target := pathutil.Resolve(input, env.Cwd, env.Home)

	dir, ok, err := lookup(ctx, env, input)
	if err != nil {
		return err
	}
	if !ok {
		io.Writeln("cd: no such file or directory: " + input)
		return nil
	}

	if !env.FS.IsDir(ctx, dir) {
		if len(args) == 0 {
			input = target
		}
		io.Writeln("cd: not a directory: " + input)
		return nil
	}

	env.SetCwd(dir)
	return nil
}

// readTarget runs the checks cat and open share. It reports whether the
// caller should proceed with the normalized path.
func readTarget(ctx context.Context, name string, notFile func(input string) string, args []string, env *Env, io IO) (string, bool, error) {
	if len(args) == 0 {
		io.Writeln(name + ": missing file operand")
		return "", false, nil
	}
	input := args[0]

	path, ok, err := lookup(ctx, env, input)
	if err != nil {
		return "", false, err
	}
	if !ok {
		io.Writeln(name + ": no such file or directory: " + input)
		return "", false, nil
	}

	if !env.FS.IsFile(ctx, path) {
		io.Writeln(notFile(input))
		return "", false, nil
	}
	return path, true, nil
}

func cat(ctx context.Context, args []string, env *Env, io IO) error {
	path, ok, err := readTarget(ctx, "cat", func(in string) string {
		return "cat: " + in + ": Is a directory"
	}, args, env, io)
	if err != nil || !ok {
		return err
	}

	if !env.FS.IsReadable(path) {
		io.Writeln("cat: permission denied")
		return nil
	}

	content, err := env.FS.ReadFile(ctx, path)
	if err != nil {
		return err
	}
	io.Writeln(content)
	return nil
}

func open(ctx context.Context, args []string, env *Env, io IO) error {
	path, ok, err := readTarget(ctx, "open", func(in string) string {
		return "open: not a file: " + in
	}, args, env, io)
	if err != nil || !ok {
		return err
	}

	if !env.FS.IsPreviewable(path) {
		io.Writeln("open: permission denied")
		return nil
	}

	content, err := env.FS.ReadFile(ctx, path)
	if err != nil {
		return err
	}
	env.Hooks.OpenPreview(path, content)
	return nil
}

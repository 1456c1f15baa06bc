package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

// runCLI executes the root command with args and returns its output
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	isolateHome(t)
	t.Setenv("TERMFOLIO_LOG_PATH", "")

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionFlag(t *testing.T) {
	out, err := runCLI(t, "", "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	want := "termfolio " + Version + " (built " + BuildDate + ")\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestThemesCommand(t *testing.T) {
	out, err := runCLI(t, "", "themes")
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	for _, name := range AvailableThemes() {
		if !strings.Contains(out, name) {
			t.Errorf("output should list %q:\n%s", name, out)
		}
	}
}

func TestExecCommand(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name: "listing from arguments",
			args: []string{"exec", "--store", "memory", "ls", "/games"},
			want: "frogger.sh  hangman.sh  README.txt  snake.sh\n",
		},
		{
			name:  "cd carries across stdin lines",
			stdin: "cd ~\n\npwd\n",
			args:  []string{"exec", "--store", "memory"},
			want:  "/Users/guest\n",
		},
		{
			name: "starting directory",
			args: []string{"exec", "--store", "memory", "--cwd", "~/Documents", "pwd"},
			want: "/Users/guest/Documents\n",
		},
		{
			name: "starting directory is normalized",
			args: []string{"exec", "--store", "memory", "--cwd", "/GAMES", "pwd"},
			want: "/games\n",
		},
		{
			name: "unknown command",
			args: []string{"exec", "--store", "memory", "zzz"},
			want: "zzz: command not found\n",
		},
		{
			name: "dash arguments after --",
			args: []string{"exec", "--store", "memory", "--", "pwd", "-x"},
			want: "/\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("exec: %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestExecPersistsToSQLite(t *testing.T) {
	isolateHome(t)
	t.Setenv("TERMFOLIO_LOG_PATH", "")
	db := t.TempDir() + "/vfs.db"

	for i := 0; i < 2; i++ {
		var out bytes.Buffer
		cmd := newRootCommand()
		cmd.SetArgs([]string{"exec", "--db", db, "ls", "~"})
		cmd.SetOut(&out)
		if err := cmd.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if got := out.String(); got != "Desktop/    Documents/  Downloads/\n" {
			t.Errorf("run %d: output = %q", i, got)
		}
	}
}

func TestInvalidFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"unknown store", []string{"exec", "--store", "redis", "pwd"}, `Unknown store: "redis"`},
		{"unknown theme", []string{"exec", "--theme", "neon", "pwd"}, `Unknown theme: "neon"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "", tt.args...)
			var userErr *UserError
			if !errors.As(err, &userErr) {
				t.Fatalf("err = %v, want *UserError", err)
			}
			if userErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", userErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestExecRejectsBadCwd(t *testing.T) {
	for _, cwd := range []string{"/nope", "/games/snake.sh"} {
		t.Run(cwd, func(t *testing.T) {
			out, err := runCLI(t, "", "exec", "--store", "memory", "--cwd", cwd, "pwd")
			var userErr *UserError
			if !errors.As(err, &userErr) {
				t.Fatalf("err = %v, want *UserError", err)
			}
			if userErr.Message != "No such directory: "+cwd {
				t.Errorf("Message = %q", userErr.Message)
			}
			if out != "" {
				t.Errorf("output = %q, want nothing run", out)
			}
		})
	}
}

func TestJoinArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"ls"}, "ls"},
		{[]string{"cat", "~/Documents/notes.txt"}, "cat ~/Documents/notes.txt"},
		{[]string{"cd", "My Folder"}, `cd "My Folder"`},
		{nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := joinArgs(tt.args); got != tt.want {
				t.Errorf("joinArgs(%q) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestRootOptionsOnlyApplyChangedFlags(t *testing.T) {
	isolateHome(t)
	t.Setenv("TERMFOLIO_STORE", "memory")

	cmd := newRootCommand()
	if err := cmd.ParseFlags([]string{"--theme", "nord"}); err != nil {
		t.Fatal(err)
	}

	cfg := LoadConfig()
	opts := &rootOptions{theme: "nord", store: StoreSQLite}
	opts.apply(cmd, cfg)

	if cfg.Theme != "nord" {
		t.Errorf("Theme = %q, want nord", cfg.Theme)
	}
	if cfg.Store != StoreMemory {
		t.Errorf("Store = %q, want memory from the environment", cfg.Store)
	}
}

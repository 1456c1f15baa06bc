package terminal

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/3rg0n/termfolio/internal/clock"
	"github.com/3rg0n/termfolio/internal/konami"
	"github.com/3rg0n/termfolio/internal/logging"
	"github.com/3rg0n/termfolio/internal/pathutil"
	"github.com/3rg0n/termfolio/internal/shell"
)

const promptSuffix = " $ "

// State gates whether key input is processed
type State int32

const (
	StateBooting State = iota
	StateReady
	StateLocked
)

func (s State) String() string {
	switch s {
	case StateBooting:
		return "booting"
	case StateReady:
		return "ready"
	default:
		return "locked"
	}
}

// Filesystem is what the session needs from the virtual filesystem
type Filesystem interface {
	shell.FS
	Init(ctx context.Context) error
	Home() string
}

// Config wires a Session to its collaborators
type Config struct {
	FS        Filesystem
	Registry  *shell.Registry
	Screen    io.StringWriter
	Hooks     shell.Hooks
	Clock     clock.Clock
	Columns   func() int
	ResumeURL string
	Challenge *konami.Flow // nil disables the secret sequence
	SkipBoot  bool
}

// Session is one interactive shell. All methods except State must be
// called from a single goroutine; Run does that for you.
type Session struct {
	cfg Config
	id  string
	out termIO

	state    atomic.Int32
	cwd      string
	buffer   string
	history  []string
	histIdx  int
	detector konami.Detector
}

func NewSession(cfg Config) *Session {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	if cfg.Registry == nil {
		cfg.Registry = shell.NewDefaultRegistry()
	}
	return &Session{
		cfg: cfg,
		id:  uuid.NewString(),
		out: termIO{cfg.Screen},
		cwd: pathutil.Root,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) Cwd() string { return s.cwd }

func (s *Session) Buffer() string { return s.buffer }

func (s *Session) History() []string { return append([]string(nil), s.history...) }

// Run starts the session and processes keys one at a time until keys is
// closed or ctx is done. Keys that arrive while booting or locked are dropped.
func (s *Session) Run(ctx context.Context, keys <-chan Key) error {
	ctx = logging.WithSession(ctx, s.id)

	if err := s.boot(ctx); err != nil {
		return err
	}
	if !drain(keys) {
		return nil
	}
	s.ready()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case k, ok := <-keys:
			if !ok {
				return nil
			}
			if s.handleKey(ctx, k) && !drain(keys) {
				return nil
			}
		}
	}
}

// drain discards queued keys. It reports false if keys was closed.
func drain(keys <-chan Key) bool {
	for {
		select {
		case _, ok := <-keys:
			if !ok {
				return false
			}
		default:
			return true
		}
	}
}

// Start initializes the filesystem, plays the boot sequence and prints
// the first prompt. Run calls it; tests drive HandleKey after it.
func (s *Session) Start(ctx context.Context) error {
	if err := s.boot(ctx); err != nil {
		return err
	}
	s.ready()
	return nil
}

func (s *Session) boot(ctx context.Context) error {
	s.state.Store(int32(StateBooting))
	if err := s.cfg.FS.Init(ctx); err != nil {
		return err
	}
	s.cwd = pathutil.Root
	logging.WithContext(ctx).Info("session started")

	if s.cfg.SkipBoot {
		return nil
	}
	return Boot(ctx, s.out, s.cfg.Clock, s.cfg.Columns)
}

func (s *Session) ready() {
	s.state.Store(int32(StateReady))
	s.printPrompt()
}

// HandleKey processes one key. It is a no-op unless the session is ready.
func (s *Session) HandleKey(ctx context.Context, k Key) {
	s.handleKey(ctx, k)
}

// handleKey reports whether the key unlocked the challenge sub-flow
func (s *Session) handleKey(ctx context.Context, k Key) bool {
	if s.State() != StateReady {
		return false
	}

	if s.cfg.Challenge != nil {
		progress := s.detector.Progress()
		if s.detector.Feed(k.Symbol()) {
			s.runChallenge(ctx)
			return true
		}
		// arrows are consumed once the sequence has started; letters never are
		if progress > 0 && k.IsArrow() {
			return false
		}
	}

	switch k.Kind {
	case KeyPrintable:
		s.buffer += k.Text
		s.out.Write(k.Text)
	case KeyBackspace:
		if s.buffer != "" {
			_, size := utf8.DecodeLastRuneInString(s.buffer)
			s.buffer = s.buffer[:len(s.buffer)-size]
			s.out.Write("\b \b")
		}
	case KeyEnter:
		s.submit(ctx)
	case KeyCtrlC:
		s.out.Write("^C\r\n")
		s.printPrompt()
	case KeyTab:
		s.complete(ctx)
	case KeyUp:
		s.navigateHistory(-1)
	case KeyDown:
		s.navigateHistory(1)
	}
	return false
}

func (s *Session) prompt() string { return s.cwd + promptSuffix }

func (s *Session) printPrompt() {
	s.buffer = ""
	s.histIdx = len(s.history)
	s.out.Write(s.prompt())
}

// setPromptLine redraws the current line in place with line as the buffer
func (s *Session) setPromptLine(line string) {
	prompt := s.prompt()
	width := utf8.RuneCountInString(prompt) + utf8.RuneCountInString(s.buffer)
	s.out.Write("\r" + strings.Repeat(" ", width) + "\r" + prompt + line)
	s.buffer = line
}

func (s *Session) navigateHistory(delta int) {
	if len(s.history) == 0 {
		return
	}
	s.histIdx = max(0, min(len(s.history), s.histIdx+delta))

	entry := ""
	if s.histIdx < len(s.history) {
		entry = s.history[s.histIdx]
	}
	s.setPromptLine(entry)
}

func (s *Session) env() *shell.Env {
	return &shell.Env{
		Cwd:       s.cwd,
		Home:      s.cfg.FS.Home(),
		FS:        s.cfg.FS,
		SetCwd:    func(p string) { s.cwd = p },
		Hooks:     s.cfg.Hooks,
		Clock:     s.cfg.Clock,
		Columns:   s.cfg.Columns,
		ResumeURL: s.cfg.ResumeURL,
	}
}

func (s *Session) submit(ctx context.Context) {
	s.out.Write("\r\n")
	input := strings.TrimSpace(s.buffer)
	if input != "" {
		s.history = append(s.history, input)
	}
	s.histIdx = len(s.history)
	s.buffer = ""

	if input != "" {
		logging.WithContext(ctx).Debug("dispatch", zap.String("line", input), zap.String("cwd", s.cwd))
		s.cfg.Registry.Dispatch(ctx, input, s.env(), s.out)
	}
	s.printPrompt()
}

func (s *Session) runChallenge(ctx context.Context) {
	log := logging.WithContext(ctx)
	s.buffer = ""
	s.state.Store(int32(StateLocked))
	log.Info("secret sequence entered")

	outcome, err := s.cfg.Challenge.Run(ctx, s.cfg.Screen)
	if err != nil {
		log.Warn("challenge aborted", zap.Error(err))
	} else {
		log.Info("challenge finished", zap.Stringer("outcome", outcome))
	}

	s.ready()
}

// complete handles Tab. The first word completes against command names,
// later words against directory entries.
func (s *Session) complete(ctx context.Context) {
	original := s.buffer
	tokens := shell.Tokenize(original)
	endsWithSpace := false
	if r, _ := utf8.DecodeLastRuneInString(original); original != "" && unicode.IsSpace(r) {
		endsWithSpace = true
	}

	fragment := ""
	if !endsWithSpace && len(tokens) > 0 {
		fragment = tokens[len(tokens)-1]
	}
	if !strings.HasSuffix(original, fragment) {
		return // quoted fragment; nothing sensible to splice
	}
	isCommand := len(tokens) <= 1 && !endsWithSpace
	prefix := original[:len(original)-len(fragment)]

	var completions []string
	if isCommand {
		completions = s.commandCompletions(fragment)
	} else {
		completions = s.pathCompletions(ctx, fragment)
	}

	if s.buffer != original {
		return
	}

	switch len(completions) {
	case 0:
		return
	case 1:
		completion := completions[0]
		next := prefix + completion
		if !strings.HasSuffix(next, " ") && (isCommand || !strings.HasSuffix(completion, "/")) {
			next += " "
		}
		s.setPromptLine(next)
	default:
		s.out.Write("\r\n" + shell.FormatColumns(completions, shell.LineWidth) + "\r\n")
		s.printPrompt()
		s.out.Write(original)
		s.buffer = original
	}
}

func (s *Session) commandCompletions(fragment string) []string {
	lower := strings.ToLower(fragment)
	var out []string
	for _, name := range s.cfg.Registry.Names() {
		if strings.HasPrefix(strings.ToLower(name), lower) {
			out = append(out, name)
		}
	}
	shell.SortNames(out)
	return out
}

func (s *Session) pathCompletions(ctx context.Context, fragment string) []string {
	switch fragment {
	case "~":
		return []string{"~/"}
	case "..":
		return []string{"../"}
	case ".":
		return []string{"./"}
	}

	dirInput, partial := "", fragment
	if i := strings.LastIndex(fragment, "/"); i >= 0 {
		dirInput, partial = fragment[:i+1], fragment[i+1:]
	}

	target := dirInput
	if target == "" {
		target = "."
	}
	fs := s.cfg.FS
	dir, err := fs.NormalizePath(ctx, pathutil.Resolve(target, s.cwd, fs.Home()))
	if err != nil || !fs.IsDir(ctx, dir) {
		return nil
	}

	names, err := fs.ReadDir(ctx, dir)
	if err != nil {
		return nil
	}

	hidden := pathutil.Base(fs.Sentinel())
	lower := strings.ToLower(partial)
	var out []string
	for _, name := range names {
		if name == hidden || !strings.HasPrefix(strings.ToLower(name), lower) {
			continue
		}
		suggestion := dirInput + name
		if fs.IsDir(ctx, pathutil.Join(dir, name)) {
			suggestion += "/"
		}
		out = append(out, suggestion)
	}
	shell.SortNames(out)
	return out
}

// termIO writes to the screen with CRLF line endings
type termIO struct {
	screen io.StringWriter
}

func (t termIO) Write(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	_, _ = t.screen.WriteString(strings.ReplaceAll(text, "\n", "\r\n"))
}

func (t termIO) Writeln(text string) {
	t.Write(text + "\n")
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/3rg0n/termfolio/internal/logging"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildDate = "unknown"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprint(os.Stderr, FormatUserError(err))
		os.Exit(1)
	}
}

// rootOptions holds flags shared by every command. Only flags the user
// actually set override the environment and settings file.
type rootOptions struct {
	store    string
	db       string
	theme    string
	logLevel string
	skipBoot bool
}

func (o *rootOptions) apply(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store = strings.ToLower(o.store)
	}
	if flags.Changed("db") {
		cfg.DBPath = o.db
	}
	if flags.Changed("theme") {
		cfg.Theme = o.theme
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("skip-boot") {
		cfg.SkipBoot = o.skipBoot
	}
}

// setup resolves configuration and starts logging. The returned func
// flushes the log.
func setup(cmd *cobra.Command, opts *rootOptions) (*Config, func(), error) {
	cfg := LoadConfig()
	opts.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     "json",
		OutputPath: cfg.LogPath,
	}); err != nil {
		return nil, nil, ErrLogging(cfg.LogPath, err)
	}
	return cfg, func() { _ = logging.Sync() }, nil
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "termfolio",
		Short: "A portfolio you explore from a shell",
		Long: `termfolio boots a small simulated workstation in your terminal.
Browse it with ls, cd and cat, run openPortfolio for the overview and
resume to grab a copy of the resume. Ctrl-D quits.`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildDate),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, done, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer done()
			return StartTUI(cmd.Context(), cfg)
		},
	}
	cmd.SetVersionTemplate("termfolio {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.store, "store", StoreSQLite, "filesystem store (sqlite|s3|memory)")
	cmd.PersistentFlags().StringVar(&opts.db, "db", "", "SQLite database file (default ~/.termfolio/vfs.db)")
	cmd.PersistentFlags().StringVar(&opts.theme, "theme", "default", "color theme ("+strings.Join(AvailableThemes(), "|")+")")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	cmd.Flags().BoolVar(&opts.skipBoot, "skip-boot", false, "skip the boot sequence")

	cmd.AddCommand(newExecCommand(opts))
	cmd.AddCommand(newThemesCommand())

	return cmd
}

func newThemesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the available color themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, name := range AvailableThemes() {
				theme := NewTheme(name)
				fmt.Fprintf(out, "%-10s %s %s\n",
					name,
					theme.Prompt.Render("/ $"),
					theme.Accent.Render("openPortfolio"))
			}
			return nil
		},
	}
}

package terminal

import (
	"context"
	"time"

	"github.com/3rg0n/termfolio/internal/clock"
	"github.com/3rg0n/termfolio/internal/shell"
)

var bootStatus = []string{
	"[ OK ] Initializing network...",
	"[ OK ] Mounting remote volume...",
	"[ OK ] Authenticating...",
}

const (
	bootStatusDelay = 500 * time.Millisecond
	bootBannerDelay = 350 * time.Millisecond
	bootFinalDelay  = 200 * time.Millisecond
)

// Boot plays the startup script: status lines, a progress bar sized to
// the current width, then the connection banner and hints.
func Boot(ctx context.Context, out shell.IO, clk clock.Clock, columns func() int) error {
	for _, line := range bootStatus {
		out.Writeln(line)
		if err := clk.Sleep(ctx, bootStatusDelay); err != nil {
			return err
		}
	}

	if err := shell.PlayProgress(ctx, out, clk, "Boot progress", columns); err != nil {
		return err
	}
	if err := clk.Sleep(ctx, bootBannerDelay); err != nil {
		return err
	}

	out.Writeln("Connected to remote host: portfolio@henry.local")
	if err := clk.Sleep(ctx, bootBannerDelay); err != nil {
		return err
	}

	out.Writeln("")
	out.Writeln("Type 'help' to list available commands.")
	out.Writeln("Hint: run openPortfolio to explore the portfolio overview.")
	return clk.Sleep(ctx, bootFinalDelay)
}

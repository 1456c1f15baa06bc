package shell

import (
	"context"
	_ "embed"
	"time"
)

// PortfolioMarkdown is the document openPortfolio previews
//
//go:embed portfolio.md
var PortfolioMarkdown string

const portfolioStepDelay = 450 * time.Millisecond

var portfolioSteps = []string{
	"Establishing secure channel...",
	"Decrypting portfolio archive...",
	"Rendering overview...",
}

func openPortfolio(ctx context.Context, _ []string, env *Env, io IO) error {
	for _, step := range portfolioSteps {
		io.Writeln(step)
		if err := env.Clock.Sleep(ctx, portfolioStepDelay); err != nil {
			return err
		}
	}
	io.Writeln("Opening portfolio.md")
	env.Hooks.OpenPreview("portfolio.md", PortfolioMarkdown)
	return nil
}

func resume(ctx context.Context, _ []string, env *Env, io IO) error {
	if env.ResumeURL == "" {
		io.Writeln("resume: no resume available")
		return nil
	}

	if err := PlayProgress(ctx, io, env.Clock, "Downloading resume.pdf", env.columns); err != nil {
		return err
	}

	if err := env.Hooks.OpenResource(ctx, env.ResumeURL); err != nil {
		io.Writeln("Could not open the resume automatically.")
		io.Writeln("Download it here: " + env.ResumeURL)
		return nil
	}
	io.Writeln("Resume opened in your browser.")
	return nil
}

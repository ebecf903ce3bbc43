package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tacogips/pkgsmith/internal/logging"
)

// DefaultCommitMessage is used when no commit message is configured.
const DefaultCommitMessage = "Initial commit"

// GitRunner bootstraps git repositories through a CommandRunner.
type GitRunner struct {
	runner CommandRunner
	log    zerolog.Logger
}

// NewGitRunner creates a GitRunner.
// If runner is nil, uses ExecRunner.
func NewGitRunner(runner CommandRunner) *GitRunner {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &GitRunner{
		runner: runner,
		log:    logging.Get("git"),
	}
}

// Bootstrap initializes a repository in dir and commits everything in it.
func (g *GitRunner) Bootstrap(ctx context.Context, dir, message string) error {
	if message == "" {
		message = DefaultCommitMessage
	}

	steps := [][]string{
		{"init"},
		{"add", "-A"},
		{"commit", "-m", message},
	}
	for _, args := range steps {
		g.log.Debug().Str("dir", dir).Strs("args", args).Msg("Running git")
		if _, err := g.runner.Run(ctx, dir, "git", args...); err != nil {
			return NewAppError(BootstrapFailed, "failed to bootstrap git repository", err)
		}
	}
	return nil
}

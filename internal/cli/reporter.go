package cli

import (
	"fmt"

	"github.com/tacogips/pkgsmith/internal/app"
)

// taskReporter renders CreatePackage progress as a task list.
type taskReporter struct{}

var _ app.Reporter = taskReporter{}

func (taskReporter) Start(step string) {
	printProgress(step + "...")
}

func (taskReporter) Done(step, detail string) {
	if detail == "" {
		printSuccess(step)
		return
	}
	printSuccess(fmt.Sprintf("%s %s", step, mutedStyle.Sprintf("(%s)", detail)))
}

func (taskReporter) Skip(step, reason string) {
	printMuted(fmt.Sprintf("- %s skipped: %s", step, reason))
}

func (taskReporter) Fail(step string, err error) {
	printErrorMsg(step)
}

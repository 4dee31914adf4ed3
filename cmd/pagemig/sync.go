package main

import (
	"fmt"

	"github.com/fwojciec/pagemig"
)

// Run executes the sync-posts command.
func (c *SyncPostsCmd) Run(deps *Dependencies) error {
	if c.Export != "" && !c.DryRun {
		err := pagemig.Errorf(pagemig.EINVALID, "--export requires --dry-run")
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemig.ErrorMessage(err))
		return err
	}

	m := deps.Migrator
	m.DryRun = c.DryRun
	if c.Export != "" {
		m.Exporter = deps.NewExporter(c.Export)
	}

	if c.DryRun {
		fmt.Fprintf(deps.Stdout, "%s\n\n", dryRunHeader)
	}

	summary, err := m.SyncPosts(deps.Ctx, progressPrinter(deps.Stdout, deps.Stderr))
	if summary != nil {
		fmt.Fprintln(deps.Stdout)
		renderSummary(deps.Stdout, summary, c.DryRun)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemig.ErrorMessage(err))
		return err
	}
	return failedError(summary)
}

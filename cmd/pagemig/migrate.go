package main

import (
	"fmt"

	"github.com/fwojciec/pagemig"
)

// Run executes the migrate command.
func (c *MigrateCmd) Run(deps *Dependencies) error {
	var filter pagemig.ContentType
	if c.Type != "" {
		t, err := pagemig.ParseContentType(c.Type)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pagemig.ErrorMessage(err))
			return err
		}
		filter = t
	}
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

	summary, err := m.Run(deps.Ctx, deps.Manifest, filter, progressPrinter(deps.Stdout, deps.Stderr))
	if summary != nil {
		fmt.Fprintln(deps.Stdout)
		renderSummary(deps.Stdout, summary, c.DryRun)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemig.ErrorMessage(err))
		return err
	}
	if c.Export != "" {
		fmt.Fprintf(deps.Stdout, "\nExported previews to %s\n", c.Export)
	}
	return failedError(summary)
}

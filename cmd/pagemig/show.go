package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/pagemig"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	t, err := pagemig.ParseContentType(c.Type)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemig.ErrorMessage(err))
		return err
	}

	rec, err := deps.Records.FindRecord(deps.Ctx, t, c.Slug)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemig.ErrorMessage(err))
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	fmt.Fprintln(deps.Stdout, string(data))

	if deps.Timestamps != nil {
		if updated, err := deps.Timestamps.FindUpdatedAt(deps.Ctx, t, c.Slug); err == nil {
			fmt.Fprintf(deps.Stderr, "updated %s\n", updated.Format(time.RFC3339))
		}
	}
	return nil
}

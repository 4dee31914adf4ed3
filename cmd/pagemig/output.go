package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/pagemig"
	"github.com/fwojciec/pagemig/migrate"
	"github.com/jedib0t/go-pretty/v6/table"
)

const dryRunHeader = "DRY RUN: no records will be written"

// progressPrinter returns a ProgressFunc that prints one line per event.
// Failures and retries go to stderr.
func progressPrinter(stdout, stderr io.Writer) migrate.ProgressFunc {
	return func(e migrate.ProgressEvent) {
		label := position(e) + " " + string(e.Item.Type) + "/" + e.Item.Slug
		switch e.Type {
		case migrate.ProgressFetching:
			fmt.Fprintf(stdout, "%s fetching %s\n", label, e.URL)
		case migrate.ProgressRetrying:
			fmt.Fprintf(stderr, "%s retry %d: %s\n", label, e.Attempt, pagemig.ErrorMessage(e.Error))
		case migrate.ProgressDone:
			fmt.Fprintf(stdout, "%s %s\n", label, outcomeLabel(e.Outcome))
		case migrate.ProgressFailed:
			fmt.Fprintf(stderr, "%s error: %s\n", label, pagemig.ErrorMessage(e.Error))
		case migrate.ProgressPreview:
			renderPreview(stdout, e.Preview)
		}
	}
}

func position(e migrate.ProgressEvent) string {
	if e.Total > 0 {
		return fmt.Sprintf("[%d/%d]", e.Index+1, e.Total)
	}
	return fmt.Sprintf("[%d]", e.Index+1)
}

func outcomeLabel(o pagemig.Outcome) string {
	return strings.ReplaceAll(string(o), "_", " ")
}

// renderPreview prints the key facts of one extracted record.
func renderPreview(w io.Writer, p *migrate.Preview) {
	if p == nil {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%s/%s", p.Type, p.Slug))
	t.AppendRow(table.Row{"title", p.Title})
	for _, f := range p.Fields {
		t.AppendRow(table.Row{f.Name, f.Value})
	}
	if len(p.Counts) > 0 {
		t.AppendSeparator()
		for _, f := range p.Counts {
			t.AppendRow(table.Row{f.Name, f.Value})
		}
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	if p.Markdown != "" {
		fmt.Fprintln(w, p.Markdown)
	}
}

// renderSummary prints the outcome counts, the failures and the records
// that need review.
func renderSummary(w io.Writer, s *pagemig.Summary, dryRun bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Outcome", "Count"})
	if dryRun {
		t.AppendRow(table.Row{"previewed", s.Previewed})
	} else {
		t.AppendRow(table.Row{"created", s.Created})
		t.AppendRow(table.Row{"updated", s.Updated})
		t.AppendRow(table.Row{"unchanged", s.Unchanged})
		t.AppendRow(table.Row{"not found", s.NotFound})
	}
	t.AppendRow(table.Row{"failed", s.Failed})
	t.AppendRow(table.Row{"needs review", s.NeedsReview})
	t.AppendFooter(table.Row{"total", s.Total()})
	t.SetStyle(table.StyleRounded)
	t.Render()

	if len(s.Failures) > 0 {
		fmt.Fprintln(w, "\nFailed:")
		for _, f := range s.Failures {
			fmt.Fprintf(w, "  %s/%s: %s\n", f.Type, f.Slug, pagemig.ErrorMessage(f.Err))
		}
	}
	if len(s.Review) > 0 {
		fmt.Fprintln(w, "\nNeeds review:")
		for _, slug := range s.Review {
			fmt.Fprintf(w, "  %s\n", slug)
		}
	}
}

// failedError reports failed items as a non-zero exit.
func failedError(s *pagemig.Summary) error {
	if s.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d items failed", s.Failed, s.Total())
}

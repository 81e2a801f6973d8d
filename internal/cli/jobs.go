package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/resinhook/internal/cli/pagination"
	"github.com/rshade/resinhook/internal/config"
	"github.com/rshade/resinhook/internal/store"
)

// jobsFetchLimit bounds how many jobs are read before sorting and paging.
const jobsFetchLimit = 10000

//nolint:gochecknoglobals // Read-only sort table.
var jobSorter = pagination.NewSorter(map[string]func(a, b store.Job) int{
	"started":  pagination.By(func(j store.Job) int64 { return j.StartedAt.UnixNano() }),
	"rows":     pagination.By(func(j store.Job) int { return j.RowsTotal }),
	"duration": pagination.By(func(j store.Job) time.Duration { return j.Duration() }),
	"status":   pagination.By(func(j store.Job) string { return string(j.Status) }),
	"filename": pagination.By(func(j store.Job) string { return j.Filename }),
})

// jobsPage is the JSON output of the jobs command.
type jobsPage struct {
	Jobs       []store.Job     `json:"jobs"`
	Pagination pagination.Meta `json:"pagination"`
}

// NewJobsCmd creates the jobs command listing export history.
func NewJobsCmd() *cobra.Command {
	var (
		sortExpr string
		asJSON   bool
		prune    int
	)
	params := pagination.NewParams()

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List recent export jobs",
		Example: `  resinhook jobs
  resinhook jobs --sort rows:desc --page 2
  resinhook jobs --json
  resinhook jobs --prune 100`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := params.Parse(sortExpr); err != nil {
				return err
			}

			ctx := cmd.Context()
			cfg := config.GetGlobalConfig()
			if !cfg.Store.Enabled {
				return ErrStoreDisabled
			}
			jobs := openStore(ctx, cfg)
			if jobs == nil {
				return ErrStoreUnavailable
			}
			defer jobs.Close()

			if cmd.Flags().Changed("prune") {
				removed, err := jobs.Prune(ctx, prune)
				if err != nil {
					return err
				}
				cmd.Printf("Removed %d jobs\n", removed)
				return nil
			}

			all, err := jobs.List(ctx, jobsFetchLimit)
			if err != nil {
				return err
			}
			sorted, err := jobSorter.Sort(all, params.SortField, params.SortOrder)
			if err != nil {
				return err
			}

			page := jobsPage{
				Jobs:       pagination.Apply(sorted, *params),
				Pagination: pagination.NewMeta(*params, len(sorted)),
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(page)
			}
			return renderJobs(cmd.OutOrStdout(), page)
		},
	}

	params.Bind(cmd, &sortExpr)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().IntVar(&prune, "prune", 0, "delete all but the N newest jobs")
	return cmd
}

// renderJobs prints a page of jobs as a table.
func renderJobs(w io.Writer, page jobsPage) error {
	if len(page.Jobs) == 0 {
		_, err := fmt.Fprintln(w, "No export jobs recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tROWS\tFILE\tSOURCE\tSTARTED\tDURATION\tMESSAGE")
	fmt.Fprintln(tw, "--\t------\t----\t----\t------\t-------\t--------\t-------")
	for _, j := range page.Jobs {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\t%s\t%s\t%s\t%s\n",
			j.ID, j.Status, j.RowsProcessed, j.RowsTotal, j.Filename, j.Source,
			j.StartedAt.Local().Format(time.DateTime), j.Duration().Round(time.Millisecond),
			truncate(j.Message, 40))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	m := page.Pagination
	_, err := fmt.Fprintf(w, "\nPage %d of %d (%d jobs)\n", m.CurrentPage, m.TotalPages, m.TotalItems)
	return err
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}

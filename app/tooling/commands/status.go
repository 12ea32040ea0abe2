package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/jrazmi/tasker/core/repositories/schemamigrationsrepo"
	"github.com/jrazmi/tasker/schema"
)

// Status writes one line per embedded migration file in dir with the time
// it was applied, or "pending".
func Status(ctx context.Context, w io.Writer, repo *schemamigrationsrepo.Repository, dir string) error {
	statuses, err := repo.Pending(ctx, schema.MigrationsFS, dir)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tAPPLIED AT\tCHECKSUM")
	for _, st := range statuses {
		if st.Applied == nil {
			fmt.Fprintf(tw, "%s\tpending\t-\n", st.Version)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%.8s\n", st.Version, st.Applied.AppliedAt.UTC().Format(time.RFC3339), st.Applied.Checksum)
	}
	return tw.Flush()
}

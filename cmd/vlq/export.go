package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vlquery/vlq/internal/logsql"
	"github.com/vlquery/vlq/internal/model"
	"github.com/vlquery/vlq/internal/snapshot"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

type cmdExport struct {
	cmd    *cobra.Command
	global *cmdGlobal

	flagKind   string
	flagStart  string
	flagEnd    string
	flagStep   string
	flagField  string
	flagLimit  int
	flagTenant string
	flagOut    string
	flagUpload bool
}

func (c *cmdExport) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "export [flags] [logsql...]"
	cmd.Short = "Run a query and store the records in a local snapshot"
	cmd.Long = `Run a LogsQL query and append the returned records to a DuckDB snapshot
file, preserving their response order. Snapshots can optionally be uploaded
to S3-compatible storage for sharing.`
	cmd.Example = `  vlq export 'level:error' --limit 1000
  vlq export -k streams '*' --out ./incident-42.duckdb
  vlq export 'panic' --upload`
	cmd.RunE = c.Run

	cmd.Flags().StringVarP(&c.flagKind, "kind", "k", "search", "Query kind ("+strings.Join(kindNames(), ", ")+")")
	cmd.Flags().StringVar(&c.flagStart, "start", "", "Range start (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&c.flagEnd, "end", "", "Range end (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&c.flagStep, "step", "", "Bucket step for stats_range and hits")
	cmd.Flags().StringVar(&c.flagField, "field", "", "Field name for field_values and stream_field_values")
	cmd.Flags().IntVar(&c.flagLimit, "limit", 0, "Result limit (0 uses the kind default)")
	cmd.Flags().StringVar(&c.flagTenant, "tenant", "", "Tenant as accountID:projectID")
	cmd.Flags().StringVar(&c.flagOut, "out", "", "Snapshot file (defaults to snapshot-path from config)")
	cmd.Flags().BoolVar(&c.flagUpload, "upload", false, "Upload the snapshot to the configured S3 bucket")

	c.cmd = cmd
	return cmd
}

func (c *cmdExport) Run(cmd *cobra.Command, args []string) error {
	cfg := c.global.cfg

	kind, err := model.ParseKind(c.flagKind)
	if err != nil {
		return err
	}

	req := model.QueryRequest{
		Kind:   kind,
		Query:  strings.Join(args, " "),
		Step:   c.flagStep,
		Field:  c.flagField,
		Limit:  c.flagLimit,
		Tenant: c.flagTenant,
	}
	if req.Tenant == "" {
		req.Tenant = cfg.Tenant
	}
	if req.Start, err = parseTimeFlag(c.flagStart); err != nil {
		return err
	}
	if req.End, err = parseTimeFlag(c.flagEnd); err != nil {
		return err
	}

	client, err := logsql.New(cfg.BaseURL, logsql.WithTimeout(cfg.QueryTimeout))
	if err != nil {
		return err
	}

	res := client.Do(cmd.Context(), req)
	if !res.OK() {
		if err := printEnvelope(res, true); err != nil {
			return err
		}
		return errResultFailed
	}

	path := c.flagOut
	if path == "" {
		path = cfg.SnapshotPath
	}
	if path == "" {
		return fmt.Errorf("no snapshot path configured")
	}

	store, err := snapshot.NewStore(path, cfg.QueryTimeout)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer store.Close()

	if err := store.InsertBatch(kind, res.Data); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	total, err := store.Count()
	if err != nil {
		return fmt.Errorf("reading snapshot counts: %w", err)
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	check := green.Render("●")

	fmt.Printf("    %s  Exported       %d records (%s)\n", check, res.Count, kind)
	fmt.Printf("    %s  Snapshot       %s\n", check, dim.Render(shortenPath(path)))
	fmt.Printf("    %s  Total stored   %d records\n", check, total)

	if counts, err := store.CountByKind(); err == nil && len(counts) > 1 {
		kinds := make([]string, 0, len(counts))
		for k := range counts {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		parts := make([]string, 0, len(kinds))
		for _, k := range kinds {
			parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
		}
		fmt.Printf("    %s  By kind        %s\n", check, dim.Render(strings.Join(parts, ", ")))
	}

	if c.flagUpload {
		if cfg.BackupBucketURL == "" {
			return fmt.Errorf("upload requested but backup-bucket-url is not configured")
		}
		uploader, err := snapshot.NewS3Uploader(snapshot.S3Config{
			BucketURL:    cfg.BackupBucketURL,
			Endpoint:     cfg.BackupS3Endpoint,
			Region:       cfg.BackupS3Region,
			AccessKey:    cfg.BackupS3AccessKey,
			SecretKey:    cfg.BackupS3SecretKey,
			SessionToken: cfg.BackupS3SessionToken,
			UseSSL:       cfg.BackupS3UseSSL,
		})
		if err != nil {
			return fmt.Errorf("configuring upload: %w", err)
		}
		if err := uploader.UploadFile(cmd.Context(), path); err != nil {
			return fmt.Errorf("uploading snapshot: %w", err)
		}
		fmt.Printf("    %s  Uploaded       %s\n", check, dim.Render(cfg.BackupBucketURL))
	}

	return nil
}

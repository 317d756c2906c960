package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vlquery/vlq/internal/logsql"
	"github.com/vlquery/vlq/internal/model"

	"github.com/spf13/cobra"
)

type cmdQuery struct {
	cmd    *cobra.Command
	global *cmdGlobal

	flagKind    string
	flagStart   string
	flagEnd     string
	flagTime    string
	flagStep    string
	flagField   string
	flagLimit   int
	flagTenant  string
	flagCompact bool
}

func (c *cmdQuery) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "query [flags] [logsql...]"
	cmd.Short = "Run a LogsQL query and print the response envelope"
	cmd.Long = `Run a LogsQL query against the configured backend.

The positional arguments form the LogsQL expression. The result is printed
as a JSON envelope: {"status":"success","count":N,"data":[...]} on success,
{"status":"error","error":"..."} on failure. The exit code is non-zero when
the envelope carries an error.`
	cmd.Example = `  vlq query 'error AND _stream:{app="api"}'
  vlq query -k stats '* | stats count() as total'
  vlq query -k hits --step 5m 'level:error'
  vlq query -k field_values --field level --limit 20 '*'`
	cmd.RunE = c.Run

	cmd.Flags().StringVarP(&c.flagKind, "kind", "k", "search", "Query kind ("+strings.Join(kindNames(), ", ")+")")
	cmd.Flags().StringVar(&c.flagStart, "start", "", "Range start (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&c.flagEnd, "end", "", "Range end (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&c.flagTime, "time", "", "Point in time for stats queries (RFC 3339)")
	cmd.Flags().StringVar(&c.flagStep, "step", "", "Bucket step for stats_range and hits, e.g. 5m")
	cmd.Flags().StringVar(&c.flagField, "field", "", "Field name for field_values and stream_field_values")
	cmd.Flags().IntVar(&c.flagLimit, "limit", 0, "Result limit (0 uses the kind default)")
	cmd.Flags().StringVar(&c.flagTenant, "tenant", "", "Tenant as accountID:projectID")
	cmd.Flags().BoolVar(&c.flagCompact, "compact", false, "Print the envelope on one line")

	c.cmd = cmd
	return cmd
}

func (c *cmdQuery) Run(cmd *cobra.Command, args []string) error {
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
		req.Tenant = c.global.cfg.Tenant
	}
	if req.Start, err = parseTimeFlag(c.flagStart); err != nil {
		return err
	}
	if req.End, err = parseTimeFlag(c.flagEnd); err != nil {
		return err
	}
	if req.At, err = parseTimeFlag(c.flagTime); err != nil {
		return err
	}

	client, err := logsql.New(c.global.cfg.BaseURL, logsql.WithTimeout(c.global.cfg.QueryTimeout))
	if err != nil {
		return err
	}

	res := client.Do(cmd.Context(), req)
	if err := printEnvelope(res, c.flagCompact); err != nil {
		return err
	}
	if !res.OK() {
		return errResultFailed
	}
	return nil
}

func printEnvelope(res *model.Result, compact bool) error {
	var (
		out []byte
		err error
	)
	if compact {
		out, err = json.Marshal(res)
	} else {
		out, err = json.MarshalIndent(res, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding envelope: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// parseTimeFlag accepts the formats people actually type. An empty flag
// leaves the field unset so the client applies its window defaults.
func parseTimeFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (use RFC 3339 or YYYY-MM-DD)", s)
}

func kindNames() []string {
	kinds := model.Kinds()
	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = string(kind)
	}
	return names
}

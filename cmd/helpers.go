package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"salereport/app"
	"salereport/ledger"

	"github.com/spf13/cobra"
)

type table struct {
	w *tabwriter.Writer
}

func newTable(out io.Writer, headers ...string) *table {
	t := &table{w: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)}
	values := make([]any, len(headers))
	for i, header := range headers {
		values[i] = header
	}
	t.row(values...)
	return t
}

func (t *table) row(values ...any) {
	cells := make([]string, len(values))
	for i, value := range values {
		cells[i] = cellText(value)
	}
	fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	return t.w.Flush()
}

func cellText(value any) string {
	switch v := value.(type) {
	case nil:
		return "-"
	case *string:
		if v == nil || *v == "" {
			return "-"
		}
		return *v
	case *int64:
		if v == nil {
			return "-"
		}
		return strconv.FormatInt(*v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', 2, 64)
	default:
		return fmt.Sprint(v)
	}
}

func parseIDArg(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: expected a positive integer", raw)
	}
	return id, nil
}

// changedString returns a pointer to value when the flag was given explicitly,
// so an update only touches the fields the user named.
func changedString(cmd *cobra.Command, flag, value string) *string {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	return &value
}

func changedInt64(cmd *cobra.Command, flag string, value int64) *int64 {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	return &value
}

func changedFloat(cmd *cobra.Command, flag string, value float64) *float64 {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	return &value
}

func printUpdated(out io.Writer, resource string, id int64, updated bool) {
	if updated {
		fmt.Fprintf(out, "%s %d updated.\n", resource, id)
		return
	}
	fmt.Fprintf(out, "%s %d unchanged: no fields given.\n", resource, id)
}

// withCompany opens the application, resolves ref (company key or id) and
// hands both to fn. The application is closed when fn returns.
func withCompany(ref string, fn func(application *app.App, company ledger.Company) error) error {
	application, _, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	company, err := application.ResolveCompany(ref)
	if err != nil {
		return err
	}
	return fn(application, company)
}

func withApp(fn func(application *app.App) error) error {
	application, _, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()
	return fn(application)
}

package cmd

import (
	"fmt"
	"io"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Start monitoring a website",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient(apiBase, apiKey).add(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Website %q added.\n", args[0])
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm", "delete"},
	Short:   "Stop monitoring a website",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient(apiBase, apiKey).remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Website %q removed.\n", args[0])
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List monitored websites and their last status",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := newClient(apiBase, apiKey).list(cmd.Context())
		if err != nil {
			return err
		}
		printRows(cmd.OutOrStdout(), rows)
		return nil
	},
}

func printRows(w io.Writer, rows []targetRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No websites registered.")
		return
	}
	out := []string{"Status | Name | URL | Code | Response (ms)"}
	for _, r := range rows {
		out = append(out, fmt.Sprintf("%s | %s | %s | %s | %s", r.Status, r.Name, r.URL, r.Code, r.ResponseTime))
	}
	fmt.Fprintln(w, columnize.SimpleFormat(out))
}

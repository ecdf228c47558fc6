package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/prsolans/agreement-mapper/internal/export"
	"github.com/prsolans/agreement-mapper/internal/store"
)

var reportsXLSX string

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Manage stored research reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.New(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		summaries, err := st.List(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCOMPANY\tCREATED")
		for _, s := range summaries {
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.DisplayName, s.Timestamp.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.New(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		report, err := st.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if reportsXLSX != "" {
			workbook, err := export.Workbook(report)
			if err != nil {
				return eris.Wrap(err, "export workbook")
			}
			return os.WriteFile(reportsXLSX, workbook, 0o644)
		}

		raw, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal report")
		}
		fmt.Println(string(raw))
		return nil
	},
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.New(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()
		return st.Delete(cmd.Context(), args[0])
	},
}

func init() {
	reportsShowCmd.Flags().StringVar(&reportsXLSX, "xlsx", "", "write an XLSX workbook instead of JSON")
	reportsCmd.AddCommand(reportsListCmd, reportsShowCmd, reportsDeleteCmd)
	rootCmd.AddCommand(reportsCmd)
}

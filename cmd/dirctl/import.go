package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"directory/internal/adapters/storage"
	memberStore "directory/internal/adapters/storage/member"
	"directory/internal/application/orchestrators"
)

var (
	importDryRun bool
	importUpdate bool
	importJSON   bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import members from a CSV spreadsheet",
	Long: `Reads a CSV with a header row (NAME and SURNAME required) and creates one
member per row. With --update, rows matching an existing id or email update
that member instead of being skipped. --dry-run validates without writing.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate rows without writing")
	importCmd.Flags().BoolVar(&importUpdate, "update", false, "Update members matched by id or email")
	importCmd.Flags().BoolVar(&importJSON, "json", false, "Print the result as JSON")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	db, err := storage.Open(ctx, dbDriver, dbDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := orchestrators.ExecuteImportMembers(ctx, orchestrators.ImportMembersInput{
		Reader:     f,
		DryRun:     importDryRun,
		UpdateMode: importUpdate,
	}, orchestrators.ImportMembersDeps{
		MemberStore: memberStore.NewSQLStore(db),
		GenerateID:  uuid.NewString,
	})
	if err != nil {
		return fmt.Errorf("import %s: %w", args[0], err)
	}
	return printImportResult(cmd, res)
}

func printImportResult(cmd *cobra.Command, res orchestrators.ImportMembersResult) error {
	out := cmd.OutOrStdout()
	if importJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if res.DryRun {
		fmt.Fprintln(out, "dry run: nothing was written")
	}
	fmt.Fprintf(out, "rows: %d  created: %d  updated: %d  skipped: %d\n", res.Total, res.Created, res.Updated, res.Skipped)
	for _, col := range res.Unknown {
		fmt.Fprintf(out, "ignored column: %s\n", col)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(out, "row %d: %s\n", e.Row, e.Message)
	}
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/oa-harvest/internal/refs"
	"github.com/pdiddy/oa-harvest/pkg/types"
)

var refsCmd = &cobra.Command{
	Use:   "refs <reference-file>",
	Short: "Extract and list the cleaned references from a spreadsheet",
	Long: `Refs runs the extraction step alone: it locates the DOI column, drops rows
without a DOI-shaped value, and keeps valid "Link to PDF" cells as fallback
links. Use --output to save the cleaned list as YAML for later fetch runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runRefs,
}

func init() {
	refsCmd.Flags().Bool("json", false, "output references as JSON")
	refsCmd.Flags().String("output", "", "save the reference list to a YAML file")

	rootCmd.AddCommand(refsCmd)
}

func runRefs(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	references, err := refs.Load(args[0], logger)
	if err != nil {
		return err
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := refs.WriteListFile(output, references); err != nil {
			return err
		}
		fmt.Printf("Saved %d references to %s\n", len(references), output)
		return nil
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(references)
	}

	printRefsTable(os.Stdout, references)
	return nil
}

func printRefsTable(w io.Writer, references []types.Reference) {
	if len(references) == 0 {
		fmt.Fprintln(w, "No valid references found.")
		return
	}

	fmt.Fprintf(w, "%-45s  %s\n", "DOI", "Fallback link")
	for _, ref := range references {
		link := ref.FallbackURL
		if link == "" {
			link = "-"
		}
		fmt.Fprintf(w, "%-45s  %s\n", ref.DOI, link)
	}
	fmt.Fprintf(w, "\n%d references\n", len(references))
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fstopgen/fstop/internal/catalog"
	"github.com/fstopgen/fstop/internal/content"
)

// ImportResult holds the outcome of one catalog import.
type ImportResult struct {
	Batch  string `json:"batch"`
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <images.yaml>",
		Short: "Import an image metadata file into the catalog",
		Long: `Load an image metadata YAML file and write its records to the catalog.
Images are keyed by filename, so re-importing refreshes metadata in
place. The catalog database is created on first import.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, dbPath, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the catalog database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runImport(opts *RootOptions, dbPath, imagesPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	images, err := content.LoadImages(imagesPath)
	if err != nil {
		_ = formatter.Error(ErrCodeContent, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load images", err)
	}
	formatter.VerboseLog("Parsed %d image(s) from %s", len(images), imagesPath)

	store, err := catalog.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeCatalog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open catalog", err)
	}
	defer store.Close()

	batch, err := store.ImportImages(cmd.Context(), imagesPath, images)
	if err != nil {
		_ = formatter.Error(ErrCodeCatalog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "import images", err)
	}

	result := ImportResult{Batch: batch, Source: imagesPath, Count: len(images)}
	if formatter.Format == "json" {
		return formatter.JSON(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Imported %d image(s) (batch %s)\n", result.Count, result.Batch)
	return nil
}

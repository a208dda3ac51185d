package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fstopgen/fstop/internal/catalog"
	"github.com/fstopgen/fstop/internal/filterql"
	"github.com/fstopgen/fstop/internal/photo"
)

// QueryResult holds the images selected by one query run.
type QueryResult struct {
	Query  string       `json:"query"`
	Count  int          `json:"count"`
	Images []ImageEntry `json:"images"`
}

// ImageEntry is the JSON shape of one catalog image in query output.
type ImageEntry struct {
	Filename  string   `json:"filename"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	DateTaken string   `json:"date_taken,omitempty"`
	Make      string   `json:"make,omitempty"`
	Model     string   `json:"model,omitempty"`
	ISO       *int     `json:"iso,omitempty"`
	FNumber   *float64 `json:"f_number,omitempty"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "query <query>",
		Short: "Run a filter query against the catalog",
		Long: `Compile a filter query and run it against every image in the catalog,
printing the selected images in query order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, dbPath, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the catalog database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runQuery(opts *RootOptions, dbPath, query string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	compiled, err := filterql.CompileQuery(query)
	if err != nil {
		return outputFilterError(formatter, err)
	}

	store, err := openCatalog(formatter, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	images, err := store.ListImages(cmd.Context())
	if err != nil {
		_ = formatter.Error(ErrCodeCatalog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "read catalog", err)
	}
	formatter.VerboseLog("Loaded %d image(s) from %s", len(images), dbPath)

	selected := compiled.Run(images)

	if formatter.Format == "json" {
		return formatter.JSON(queryResult(query, selected))
	}

	for i := range selected {
		fmt.Fprintln(formatter.Writer, selected[i].Filename)
	}
	fmt.Fprintf(formatter.Writer, "%d of %d image(s)\n", len(selected), len(images))
	return nil
}

// openCatalog opens an existing catalog database, refusing to create one
// implicitly. Only import may create the file.
func openCatalog(formatter *OutputFormatter, path string) (*catalog.Store, error) {
	if _, err := os.Stat(path); err != nil {
		_ = formatter.Error(ErrCodeCatalog, fmt.Sprintf("catalog not found: %s", path), nil)
		return nil, WrapExitError(ExitCommandError, "open catalog", err)
	}
	store, err := catalog.Open(path)
	if err != nil {
		_ = formatter.Error(ErrCodeCatalog, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "open catalog", err)
	}
	return store, nil
}

func queryResult(query string, images []photo.Image) QueryResult {
	result := QueryResult{
		Query:  query,
		Count:  len(images),
		Images: make([]ImageEntry, 0, len(images)),
	}
	for i := range images {
		result.Images = append(result.Images, imageEntry(&images[i]))
	}
	return result
}

func imageEntry(img *photo.Image) ImageEntry {
	entry := ImageEntry{
		Filename: img.Filename,
		Width:    img.Width,
		Height:   img.Height,
	}
	if img.DateTaken != nil {
		entry.DateTaken = img.DateTaken.Format(time.RFC3339)
	}
	if img.Exif != nil {
		entry.Make = img.Exif.Make
		entry.Model = img.Exif.Model
		entry.ISO = img.Exif.ISO
		entry.FNumber = img.Exif.FNumber
	}
	return entry
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fstopgen/fstop/internal/content"
	"github.com/fstopgen/fstop/internal/filterql"
	"github.com/fstopgen/fstop/internal/gallery"
)

// GalleryResult holds one built gallery.
type GalleryResult struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Cover       string       `json:"cover,omitempty"`
	Filter      string       `json:"filter,omitempty"`
	Count       int          `json:"count"`
	Images      []ImageEntry `json:"images"`
}

// NewGalleryCommand creates the gallery command.
func NewGalleryCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "gallery <descriptor.md>",
		Short: "Build a gallery from a content descriptor",
		Long: `Load a gallery content file, compile its filter against the catalog,
and print the selected images in gallery order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGallery(rootOpts, dbPath, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the catalog database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runGallery(opts *RootOptions, dbPath, descriptorPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	desc, err := content.LoadDescriptor(descriptorPath)
	if err != nil {
		_ = formatter.Error(ErrCodeContent, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load descriptor", err)
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

	built, err := gallery.Build(desc, images)
	if err != nil {
		if _, ok := filterql.IsFilterError(err); ok {
			return outputFilterError(formatter, err)
		}
		_ = formatter.Error(ErrCodeContent, err.Error(), nil)
		return WrapExitError(ExitFailure, "build gallery", err)
	}

	if formatter.Format == "json" {
		result := GalleryResult{
			Title:       built.Title,
			Description: built.Description,
			Cover:       built.Cover,
			Filter:      desc.Filter,
			Count:       len(built.Images),
			Images:      make([]ImageEntry, 0, len(built.Images)),
		}
		for i := range built.Images {
			result.Images = append(result.Images, imageEntry(&built.Images[i]))
		}
		return formatter.JSON(result)
	}

	fmt.Fprintf(formatter.Writer, "%s (%d image(s))\n", built.Title, len(built.Images))
	if built.Cover != "" {
		fmt.Fprintf(formatter.Writer, "cover: %s\n", built.Cover)
	}
	for i := range built.Images {
		fmt.Fprintf(formatter.Writer, "  %s\n", built.Images[i].Filename)
	}
	return nil
}

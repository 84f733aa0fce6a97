// Package main provides the CLI entry point for scheduledeck.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck"
	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/config"
	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/export"
	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/imageio"
	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/output"
)

// defaultDeckName is the output file name used when -o is omitted.
const defaultDeckName = "construction-documents.pptx"

var (
	verbose            bool
	mode               string
	includeCoverSheets bool
	headerRows         int

	jsonOutput    string
	exportOutput  string
	deckOutput    string
	pretty        bool
	sheetFilter   string
	embedPictures bool

	schedulePath string
	minimapPath  string
	planPath     string
	layoutPath   string
	previewPath  string

	logger = slog.Default()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "scheduledeck",
		Short: "Turn material schedules and scene photos into slide decks",
		Long: `scheduledeck reads a material schedule workbook, extracts its material
records, and builds a presentation with one slide per scene photo showing the
photo, its location on a floor plan, and the materials chosen for it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", "standard", "Extraction mode: light, standard")
	rootCmd.PersistentFlags().BoolVar(&includeCoverSheets, "include-cover-sheets", false, "Also scan sheets named with the A. prefix")
	rootCmd.PersistentFlags().IntVar(&headerRows, "header-rows", 0, "Leading rows searched for a header row (default 40)")

	rootCmd.AddCommand(newExtractCmd(), newExportCmd(), newSheetsCmd(), newBuildCmd())
	return rootCmd
}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [schedule.xlsx]",
		Short: "Extract material records as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runExtract,
	}
	cmd.Flags().StringVarP(&jsonOutput, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&sheetFilter, "sheet", "", "Only output materials from this sheet")
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [schedule.xlsx]",
		Short: "Write the extracted materials to a clean workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output workbook path")
	cmd.Flags().StringVar(&sheetFilter, "sheet", "", "Only export materials from this sheet")
	cmd.Flags().BoolVar(&embedPictures, "embed-pictures", true, "Place inline images into the Image column")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets [schedule.xlsx]",
		Short: "Show how each sheet is interpreted",
		Args:  cobra.ExactArgs(1),
		RunE:  runSheets,
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [scene images...]",
		Short: "Build the slide deck",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBuild,
	}
	cmd.Flags().StringVar(&schedulePath, "schedule", "", "Material schedule workbook")
	cmd.Flags().StringVar(&minimapPath, "minimap", "", "Floor plan image")
	cmd.Flags().StringVar(&planPath, "plan", "", "Scene plan JSON (materials and crop per scene)")
	cmd.Flags().StringVar(&layoutPath, "layout", "", "Slide layout overrides JSON")
	cmd.Flags().StringVar(&previewPath, "preview", "", "Also write an HTML preview to this path")
	cmd.Flags().StringVarP(&deckOutput, "output", "o", defaultDeckName, "Output presentation path")
	_ = cmd.MarkFlagRequired("schedule")
	_ = cmd.MarkFlagRequired("minimap")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func options() (scheduledeck.Options, error) {
	m, ok := scheduledeck.ParseMode(mode)
	if !ok {
		return scheduledeck.Options{}, fmt.Errorf("invalid mode: %s (must be light or standard)", mode)
	}
	opts := scheduledeck.DefaultOptions()
	opts.Mode = m
	opts.IncludeCoverSheets = includeCoverSheets
	if headerRows > 0 {
		opts.HeaderBandRows = headerRows
	}
	opts.Logger = logger
	return opts, nil
}

func extractInput(path string) (*scheduledeck.Result, error) {
	// Validate input file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	opts, err := options()
	if err != nil {
		return nil, err
	}
	res, err := scheduledeck.Extract(path, opts)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	return res, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	res, err := extractInput(args[0])
	if err != nil {
		return err
	}

	doc := &output.Schedule{
		BookName:  res.Workbook.BookName,
		Sheet:     sheetFilter,
		Sheets:    models.SheetsOf(res.Materials),
		Materials: models.FilterBySheet(res.Materials, sheetFilter),
	}
	jsonData, err := output.ToJSON(doc, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if jsonOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
		return nil
	}
	return writeFileAtomic(jsonOutput, func(w io.Writer) error {
		_, err := w.Write(jsonData)
		return err
	})
}

func runExport(cmd *cobra.Command, args []string) error {
	res, err := extractInput(args[0])
	if err != nil {
		return err
	}
	mats := models.FilterBySheet(res.Materials, sheetFilter)
	err = writeFileAtomic(exportOutput, func(w io.Writer) error {
		return export.WriteSchedule(w, mats, export.Options{EmbedPictures: embedPictures, Logger: logger})
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d materials written to %s\n", len(mats), exportOutput)
	return nil
}

func runSheets(cmd *cobra.Command, args []string) error {
	res, err := extractInput(args[0])
	if err != nil {
		return err
	}
	jsonData, err := output.SheetsToJSON(&output.SheetIndex{
		BookName: res.Workbook.BookName,
		Sheets:   res.Sheets,
	}, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts, err := options()
	if err != nil {
		return err
	}
	session := scheduledeck.NewSession(opts)

	if layoutPath != "" {
		cfg, err := config.LoadLayoutConfig(layoutPath)
		if err != nil {
			return err
		}
		session.SetLayout(cfg.Layout())
	}

	if _, err := session.LoadWorkbookFile(schedulePath); err != nil {
		return err
	}
	if err := session.LoadMinimap(imageio.FileSource(minimapPath)); err != nil {
		return err
	}
	sources := make([]imageio.Source, len(args))
	for i, path := range args {
		sources[i] = imageio.FileSource(path)
	}
	if err := session.LoadScenes(ctx, sources); err != nil {
		return err
	}

	plan, err := config.LoadPlan(planPath)
	if err != nil {
		return err
	}
	session.ApplyPlan(plan)

	var deck bytes.Buffer
	if err := session.Generate(ctx, &deck); err != nil {
		return err
	}
	if err := writeFileAtomic(deckOutput, func(w io.Writer) error {
		_, err := deck.WriteTo(w)
		return err
	}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if previewPath != "" {
		title := strings.TrimSuffix(filepath.Base(deckOutput), filepath.Ext(deckOutput))
		doc, err := session.PreviewDocument(title)
		if err != nil {
			return err
		}
		if err := writeFileAtomic(previewPath, func(w io.Writer) error {
			_, err := io.WriteString(w, doc)
			return err
		}); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d slides written to %s\n", len(session.Scenes()), deckOutput)
	return nil
}

// writeFileAtomic writes through a temporary file in the destination
// directory and renames it into place, so a failed write leaves no file.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

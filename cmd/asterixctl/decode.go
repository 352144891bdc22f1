package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/srg/asterix/internal/render"
	"github.com/srg/asterix/pkg/asterix"
	"github.com/srg/asterix/pkg/config"
)

var (
	decodeFormat         string
	decodeVerbose        bool
	decodeMaxRecords     int
	decodeFilterCategory uint8
)

var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Decode an ASTERIX byte stream and print its data blocks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

func init() {
	decodeCmd.Flags().StringVar(&decodeFormat, "format", "text", "Output format: text, outline, json, json-hier, xml, xml-hier")
	decodeCmd.Flags().BoolVarP(&decodeVerbose, "verbose", "v", false, "Include raw hex and meaning-table lookups")
	decodeCmd.Flags().IntVar(&decodeMaxRecords, "max-records", 0, "Stop after decoding this many records (0 = unlimited)")
	decodeCmd.Flags().Uint8Var(&decodeFilterCategory, "filter-category", 0, "Only decode blocks of this category")
}

func runDecode(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	logger, err := configureLogger(cmd, "verbose")
	if err != nil {
		return err
	}

	categoryDir, _ := cmd.Flags().GetString("category-dir")
	cfg := config.DefaultConfig()
	cfg.LogLevel = logger.GetLevel()

	handle := asterix.New(cfg)
	if err := handle.LoadCategoryDir(categoryDir); err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	opts := asterix.Options{MaxRecords: decodeMaxRecords}
	if cmd.Flags().Changed("filter-category") {
		cat := decodeFilterCategory
		opts.FilterCategory = &cat
	}

	result := handle.Parse(data, opts)

	format := render.ParseFormat(decodeFormat)
	renderOpts := render.Options{Verbose: decodeVerbose, Color: render.AutoColor(os.Stdout)}
	for _, block := range result.Blocks {
		if err := render.Block(os.Stdout, block, format, renderOpts); err != nil {
			return err
		}
	}

	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %s\n", e.Error())
	}

	return nil
}

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/srg/asterix/pkg/asterix"
	"github.com/srg/asterix/pkg/config"
)

var describeCmd = &cobra.Command{
	Use:   "describe <category> [item] [field]",
	Short: "Describe a loaded category, item, or bit field",
	Args:  cobra.RangeArgs(1, 3),
	RunE:  runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	logger, err := configureLogger(cmd, "")
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

	catID, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return fmt.Errorf("invalid category %q: %w", args[0], err)
	}

	var itemID, fieldName string
	if len(args) > 1 {
		itemID = args[1]
	}
	if len(args) > 2 {
		fieldName = args[2]
	}

	answer, err := handle.Describe(uint8(catID), itemID, fieldName)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Category %d: %s (v%s, %d UAP(s))\n", answer.Category.ID, answer.Category.Name, answer.Category.Version, answer.Category.UAPs)

	if answer.Item == nil {
		for _, it := range answer.Category.Items {
			fmt.Fprintf(os.Stdout, "  %-6s %-32s %-12s %s\n", it.ItemID, it.Name, it.Rule, it.Format)
		}
		return nil
	}

	fmt.Fprintf(os.Stdout, "  Item %s: %s (%s, %s)\n", answer.Item.ItemID, answer.Item.Name, answer.Item.Rule, answer.Item.Format)

	if answer.Field == nil {
		for _, f := range answer.Item.Fields {
			fmt.Fprintf(os.Stdout, "    %-12s bits [%d,%d] %-8s %s\n", f.ShortName, f.FromBit, f.ToBit, f.Encoding, f.Unit)
		}
		return nil
	}

	f := answer.Field
	fmt.Fprintf(os.Stdout, "    %s (%s): bits [%d,%d], encoding=%s, unit=%s\n", f.ShortName, f.LongName, f.FromBit, f.ToBit, f.Encoding, f.Unit)
	return nil
}

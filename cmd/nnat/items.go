package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nnat-dev/nnat/internal/item"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List all items",
	Long: `Show every item the current rules can offer: the builtins plus
any Lua item packs the config names.

Examples:
  nnat items
  nnat items --config ./my-rules.yaml`,
	Args: cobra.NoArgs,
	RunE: runItems,
}

func runItems(_ *cobra.Command, _ []string) error {
	_, catalog, cleanup, err := loadRules()
	if err != nil {
		return err
	}
	defer cleanup()

	items := catalog.Items()
	if len(items) == 0 {
		fmt.Println("No items available.")
		return nil
	}

	maxName := 4 // "Name" header
	for _, it := range items {
		if len(it.Title) > maxName {
			maxName = len(it.Title)
		}
	}

	fmt.Printf("  %-*s  %-8s  %-9s  %s\n", maxName, "Name", "Kind", "Rarity", "Effect")
	fmt.Printf("  %-*s  %-8s  %-9s  %s\n", maxName, "----", "----", "------", "------")

	for _, it := range items {
		effect := it.Desc
		if it.Kind == item.KindPattern && it.Pattern != nil {
			effect = fmt.Sprintf("%s (%s, %g points)", it.Desc, it.Pattern.Shape, it.Pattern.Points)
		}
		fmt.Printf("  %-*s  %-8s  %-9s  %s\n", maxName, it.Title, it.Kind, it.Freq, effect)
	}

	fmt.Println()
	fmt.Printf("%d items total.\n", len(items))
	return nil
}

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/conneroisu/weld/internal/bridge"
	"github.com/conneroisu/weld/internal/components"
	"github.com/conneroisu/weld/internal/config"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List elements defined by the configured manifests",
	RunE:    runList,
}

func init() {
	addManifestFlag(listCmd.Flags())
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	table := components.Builtin()
	for _, path := range cfg.Manifests.Paths {
		manifest, err := config.LoadManifest(path)
		if err != nil {
			return err
		}
		for _, me := range manifest.Elements {
			def, err := me.Definition(table)
			if err != nil {
				return err
			}
			class, err := bridge.Define(def)
			if err != nil {
				return err
			}

			fmt.Printf("<%s> (component %q)\n", class.Tag(), me.Component)
			specs := class.PropSpecs()
			sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
			for _, spec := range specs {
				fmt.Printf("  prop %-20s %-10s attribute %s\n", spec.Name, spec.Kind, spec.AttributeName)
			}
			for _, ev := range class.EventSpecs() {
				fmt.Printf("  event %-19s dispatches %q (callback %s)\n", ev.Name, ev.Type, ev.CallbackProp)
			}
		}
	}
	return nil
}

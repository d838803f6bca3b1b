package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/weld/internal/bridge"
	"github.com/conneroisu/weld/internal/components"
	"github.com/conneroisu/weld/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate element manifests without starting a server",
	Long: `Validate checks every configured manifest: YAML shape, prop kinds,
prop-name/attribute bijectivity, default value types, event names and
component references. Configuration errors fail the whole definition, so a
passing validate means serve will accept the same manifests.`,
	RunE: runValidate,
}

func init() {
	addManifestFlag(validateCmd.Flags())
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	table := components.Builtin()
	var defined int
	for _, path := range cfg.Manifests.Paths {
		manifest, err := config.LoadManifest(path)
		if err != nil {
			return err
		}
		for _, me := range manifest.Elements {
			def, err := me.Definition(table)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if _, err := bridge.Define(def); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			defined++
		}
	}
	fmt.Printf("ok: %d element definition(s) valid\n", defined)
	return nil
}

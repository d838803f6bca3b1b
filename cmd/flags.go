package cmd

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// addManifestFlag defines the shared --manifest flag and binds it to the
// manifests.paths config key so flag, env var and config file all converge.
func addManifestFlag(fs *pflag.FlagSet) {
	fs.StringSlice("manifest", nil, "element manifest files")
	_ = viper.BindPFlag("manifests.paths", fs.Lookup("manifest"))
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/glyengineering/glyweb/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "glyweb",
	Short: "GLY Engineering website server",
	Long: `glyweb serves the GLY Engineering marketing site: page transitions with a
loading overlay, scroll reveals, the typing hero, filterable project and job
listings and enquiry forms. It can also export the site as static files.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

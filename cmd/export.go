package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glyengineering/glyweb/internal/components"
	"github.com/glyengineering/glyweb/internal/handlers"
	"github.com/glyengineering/glyweb/internal/progress"
	"github.com/glyengineering/glyweb/internal/site"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the site as static files",
	Long:  `Renders every page, copies the assets and writes listings.json and sitemap.xml so the site can be hosted without glyweb.`,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().String("output", "", "override output directory (defaults to export.output_dir)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.Export.OutputDir
	}

	catalog, err := loadContent(cfg)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	reporter := progress.NewReporter("Exporting site")
	generator := &site.Generator{
		Renderer: handlers.New(handlers.Options{
			Content: catalog,
			Timing:  pageTiming(cfg),
		}),
		Content:   catalog,
		OutputDir: outputDir,
		BaseURL:   cfg.Site.BaseURL,
		Routes:    handlers.Routes,
		Assets:    components.Static(),
		Progress:  progress.Callback(reporter),
	}
	n, err := generator.Generate()
	reporter.Finish()
	if err != nil {
		return fmt.Errorf("exporting site: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Static site exported: %s (%d files)\n", outputDir, n)
	return nil
}

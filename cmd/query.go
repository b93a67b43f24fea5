package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/glyengineering/glyweb/internal/listing"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	metaColor  = color.New(color.FgYellow)
	countColor = color.New(color.FgGreen)
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search the job and project listings",
	Long:  `Runs the same filters the Careers and Projects pages use against the configured catalog.`,
}

var queryJobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Search open positions by title, department or location",
	Args:  cobra.NoArgs,
	RunE:  runQueryJobs,
}

var queryProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Filter projects by industry and service",
	Args:  cobra.NoArgs,
	RunE:  runQueryProjects,
}

func init() {
	queryJobsCmd.Flags().String("q", "", "search text")
	queryJobsCmd.Flags().Bool("json", false, "output results as JSON")
	queryProjectsCmd.Flags().String("industry", listing.All, "industry tag")
	queryProjectsCmd.Flags().String("service", listing.All, "service tag")
	queryProjectsCmd.Flags().Bool("json", false, "output results as JSON")
	queryCmd.AddCommand(queryJobsCmd, queryProjectsCmd)
	rootCmd.AddCommand(queryCmd)
}

func runQueryJobs(cmd *cobra.Command, args []string) error {
	q, _ := cmd.Flags().GetString("q")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, err := loadContent(cfg)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	jobs := listing.FilterJobs(catalog.Jobs(), q)
	if jsonOutput {
		return writeJSONTo(cmd.OutOrStdout(), jobs)
	}
	printJobs(cmd.OutOrStdout(), jobs)
	return nil
}

func runQueryProjects(cmd *cobra.Command, args []string) error {
	industry, _ := cmd.Flags().GetString("industry")
	service, _ := cmd.Flags().GetString("service")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, err := loadContent(cfg)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	f := listing.ProjectFilter{Industry: industry, Service: service}.Normalized()
	projects := listing.FilterProjects(catalog.Projects(), f)
	if jsonOutput {
		return writeJSONTo(cmd.OutOrStdout(), projects)
	}
	printProjects(cmd.OutOrStdout(), f, projects)
	return nil
}

func printJobs(w io.Writer, jobs []listing.JobListing) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No positions found matching your search.")
		return
	}
	for _, j := range jobs {
		titleColor.Fprintf(w, "%3d  %s\n", j.ID, j.Title)
		metaColor.Fprintf(w, "     %s · %s · %s\n", j.Department, j.Location, j.Type)
	}
	countColor.Fprintf(w, "\n%d positions\n", len(jobs))
}

func printProjects(w io.Writer, f listing.ProjectFilter, projects []listing.ProjectRecord) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects match the selected filters.")
		return
	}
	for _, p := range projects {
		titleColor.Fprintf(w, "%3d  %s\n", p.ID, p.Title)
		metaColor.Fprintf(w, "     %s · %s · %s · %s\n", p.Industry, p.Service, p.Location, p.Year)
	}
	countColor.Fprintf(w, "\nShowing %d projects", len(projects))
	if f.Active() {
		fmt.Fprintf(w, " (industry: %s, service: %s)", f.Industry, f.Service)
	}
	fmt.Fprintln(w)
}

func writeJSONTo(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

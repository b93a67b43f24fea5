package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to glyweb! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		existing, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = existing
		fmt.Printf("Editing existing configuration in %s\n\n", path)
	}

	// 1. Public URL.
	baseURLPrompt := promptui.Prompt{
		Label:   "Public base URL",
		Default: cfg.Site.BaseURL,
	}
	baseURL, err := baseURLPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	cfg.Site.BaseURL = strings.TrimRight(baseURL, "/")

	// 2. Port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 3. Log format.
	formatPrompt := promptui.Select{
		Label: "Log format",
		Items: []string{
			"json    (structured, for production)",
			"console (human readable, for development)",
		},
	}
	formatIdx, _, err := formatPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("log format: %w", err)
	}
	cfg.Log.Format = []LogFormat{LogJSON, LogConsole}[formatIdx]

	// 4. Content override.
	contentPrompt := promptui.Prompt{
		Label:   "Catalog file (leave blank for the built-in content)",
		Default: cfg.Site.ContentFile,
	}
	contentFile, err := contentPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("content file: %w", err)
	}
	cfg.Site.ContentFile = strings.TrimSpace(contentFile)

	// 5. Export directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for static exports",
		Default: cfg.Export.OutputDir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	cfg.Export.OutputDir = outputDir

	// 6. Extra allowed origins.
	originsPrompt := promptui.Prompt{
		Label:   "Allowed origins (comma-separated, leave blank for localhost only)",
		Default: strings.Join(cfg.Server.AllowedOrigins, ","),
	}
	origins, err := originsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("allowed origins: %w", err)
	}
	cfg.Server.AllowedOrigins = splitAndTrim(origins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("must be between 1 and 65535")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and drops empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

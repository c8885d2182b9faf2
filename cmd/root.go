package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/gopak/framepak/internal/config"
	"github.com/gopak/framepak/internal/logging"
	"github.com/gopak/framepak/internal/manager"
	"github.com/spf13/cobra"
)

// ConfigDirName is the per-project configuration directory.
const ConfigDirName = ".framepak"

var cfgFile string
var projectDir string
var verbose bool
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "framepak",
	Short:         "Build framework dependencies and work out what to embed",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command line, cancelling running builds on interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to any YAML file inside the config directory (default dir: <project>/.framepak); all *.yaml in that directory are merged")
	rootCmd.PersistentFlags().StringVar(&projectDir, "project-directory", "", "project root (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show detailed steps and commands")
	rootCmd.Version = version
	cobra.OnInitialize(initLogging)
}

func initLogging() {
	logging.Init()
	logging.SetVerbose(verbose)
}

func resolveProjectDir() (string, error) {
	dir := projectDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	return filepath.Abs(dir)
}

func configDir(project string) string {
	if cfgFile != "" {
		return filepath.Dir(cfgFile)
	}
	return filepath.Join(project, ConfigDirName)
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		low := strings.ToLower(e.Name())
		if strings.HasSuffix(low, ".yaml") || strings.HasSuffix(low, ".yml") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// loadConfig merges every YAML file of the config directory and validates the
// result against the schema.
func loadConfig() (config.Config, string, error) {
	project, err := resolveProjectDir()
	if err != nil {
		return config.Config{}, "", err
	}
	dir := configDir(project)
	files, err := yamlFiles(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return config.Config{}, "", err
	}
	if len(files) == 0 {
		return config.Config{}, "", fmt.Errorf("no YAML config files found in %s (run `framepak init`)", dir)
	}
	logging.Debug("config files: " + strings.Join(files, ", "))
	cfg, err := config.LoadFromFiles(files)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("config error: %w", err)
	}
	if err := config.ValidateAgainstSchema(cfg); err != nil {
		return config.Config{}, "", fmt.Errorf("schema error: %w", err)
	}
	return cfg, project, nil
}

func loadManager() (*manager.Manager, error) {
	cfg, project, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return manager.New(cfg, project), nil
}

// Describe turns an error into a message for the terminal, adding a hint for
// dependency graph problems.
func Describe(err error) string {
	switch {
	case errors.Is(err, manager.ErrCyclicGraph):
		return err.Error() + "\nhint: remove one of the depends_on edges along the cycle"
	case errors.Is(err, manager.ErrMalformedGraph):
		return err.Error() + "\nhint: declare the dependency or remove it from depends_on"
	}
	return err.Error()
}

package cmd

import (
	"path/filepath"

	"github.com/gopak/framepak/internal/assets"
	"github.com/gopak/framepak/internal/logging"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration into the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := resolveProjectDir()
			if err != nil {
				return err
			}
			dir := configDir(project)
			wrote, err := assets.WriteDefaultConfigIfMissing(dir)
			if err != nil {
				return err
			}
			p := filepath.Join(dir, assets.ConfigFileName)
			if !wrote {
				logging.Warn("already exists: " + p)
				return nil
			}
			logging.Success("created: " + p)
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}

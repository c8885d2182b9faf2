package cmd

import (
	"github.com/gopak/framepak/internal/ui/console"
	"github.com/spf13/cobra"
)

func init() {
	var platforms, extra []string
	cmd := &cobra.Command{
		Use:   "search-paths",
		Short: "Show where built frameworks are looked up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManager()
			if err != nil {
				return err
			}
			ps, err := m.Platforms(platforms)
			if err != nil {
				return err
			}
			console.NewConsoleUI(m).PrintSearchPaths(ps, extra)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&platforms, "platform", nil, "platforms to show (default: configured platforms)")
	cmd.Flags().StringArrayVar(&extra, "search-path", nil, "extra directory to include")
	rootCmd.AddCommand(cmd)
}

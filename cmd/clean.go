package cmd

import (
	"github.com/gopak/framepak/internal/logging"
	"github.com/spf13/cobra"
)

func init() {
	var platforms []string
	cmd := &cobra.Command{
		Use:   "clean [name...]",
		Short: "Forget recorded builds so they are built again",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManager()
			if err != nil {
				return err
			}
			ps, err := m.Platforms(platforms)
			if err != nil {
				return err
			}
			removed, err := m.Forget(args, ps)
			if err != nil {
				return err
			}
			if len(removed) == 0 {
				logging.Gray("Nothing to clean")
				return nil
			}
			for _, k := range removed {
				logging.Info("forgot: " + k)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&platforms, "platform", nil, "platforms to clean (default: configured platforms)")
	rootCmd.AddCommand(cmd)
}

package cmd

import (
	"fmt"

	"github.com/gopak/framepak/internal/ui/console"
	"github.com/spf13/cobra"
)

func init() {
	var plain bool
	cmd := &cobra.Command{
		Use:   "order [name...]",
		Short: "Print the order dependencies must be built in",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManager()
			if err != nil {
				return err
			}
			if !plain {
				return console.NewConsoleUI(m).PrintOrder(args)
			}
			order, err := m.BuildOrder(args...)
			if err != nil {
				return err
			}
			for _, name := range order {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print one name per line")
	rootCmd.AddCommand(cmd)
}

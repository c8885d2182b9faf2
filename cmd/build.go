package cmd

import (
	"fmt"
	"os"

	"github.com/gopak/framepak/internal/logging"
	"github.com/gopak/framepak/internal/manager"
	"github.com/gopak/framepak/internal/ui/console"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func init() {
	var dryRun, force, yes bool
	var platforms []string
	cmd := &cobra.Command{
		Use:   "build [name...]",
		Short: "Build dependencies, and what they depend on, in build order",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManager()
			if err != nil {
				return err
			}
			ps, err := m.Platforms(platforms)
			if err != nil {
				return err
			}
			opts := manager.BuildOptions{Names: args, Platforms: ps, Force: force}
			if dryRun {
				order, err := m.BuildOrder(args...)
				if err != nil {
					return err
				}
				if len(order) == 0 {
					fmt.Println("Nothing to build")
					return nil
				}
				for _, name := range order {
					for _, p := range ps {
						fmt.Printf("build: %s (%s)\n", name, p)
					}
				}
				return nil
			}
			runner := manager.NewShellRunner()
			runner.Quiet = !logging.Verbose()
			if len(args) == 0 && !yes && isTerminal(os.Stdin) {
				return console.NewConsoleUI(m).Build(cmd.Context(), opts, runner)
			}
			return m.Build(cmd.Context(), opts, runner, console.NewConsoleReporter())
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print planned builds without executing")
	cmd.Flags().BoolVar(&force, "force", false, "rebuild even if the recorded build is still valid")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "build everything without prompting")
	cmd.Flags().StringSliceVar(&platforms, "platform", nil, "platforms to build for (default: configured platforms)")
	rootCmd.AddCommand(cmd)
}

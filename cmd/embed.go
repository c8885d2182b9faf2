package cmd

import (
	"github.com/gopak/framepak/internal/manager"
	"github.com/gopak/framepak/internal/ui/console"
	"github.com/spf13/cobra"
)

func init() {
	var (
		platform    string
		searchPaths []string
		inputFiles  []string
		parallel    int
		asTable     bool
	)
	cmd := &cobra.Command{
		Use:   "embed <binary>...",
		Short: "List the built frameworks the given binaries need embedded",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManager()
			if err != nil {
				return err
			}
			var requested []string
			if platform != "" {
				requested = []string{platform}
			}
			ps, err := m.Platforms(requested)
			if err != nil {
				return err
			}
			req := manager.EmbedRequest{
				Platform:    ps[0],
				Roots:       args,
				SearchPaths: searchPaths,
				InputFiles:  inputFiles,
				Parallel:    parallel,
			}
			paths, err := m.InferInputFiles(cmd.Context(), req, nil)
			if err != nil {
				return err
			}
			ui := console.NewConsoleUI(m)
			ui.PrintEmbed(paths, asTable)
			return nil
		},
	}
	cmd.Flags().StringVar(&platform, "platform", "", "platform whose build folder is searched (default: first configured platform)")
	cmd.Flags().StringArrayVar(&searchPaths, "search-path", nil, "extra directory to search for built frameworks")
	cmd.Flags().StringArrayVar(&inputFiles, "input-file", nil, "framework already embedded by the caller")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "binaries inspected at once (default: all)")
	cmd.Flags().BoolVar(&asTable, "table", false, "print a table instead of one path per line")
	rootCmd.AddCommand(cmd)
}

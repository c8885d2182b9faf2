package cmd

import (
	"errors"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gopak/framepak/internal/github"
	"github.com/gopak/framepak/internal/logging"
	"github.com/spf13/cobra"
)

func init() {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "fetch [name...]",
		Short: "Download prebuilt release archives of dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManager()
			if err != nil {
				return err
			}
			client := github.NewClient()
			if baseURL != "" {
				client = client.WithBaseURL(baseURL)
			}
			names := args
			if len(names) == 0 {
				for _, d := range m.Dependencies() {
					if m.HasRelease(d) {
						names = append(names, d)
					}
				}
			}
			if len(names) == 0 {
				logging.Gray("No dependency declares a release")
				return nil
			}
			var errs []error
			for _, name := range names {
				path, err := m.Fetch(cmd.Context(), name, client)
				if err != nil {
					logging.Error("failed:  " + name + ": " + err.Error())
					errs = append(errs, err)
					continue
				}
				size := ""
				if st, err := os.Stat(path); err == nil {
					size = " (" + humanize.Bytes(uint64(st.Size())) + ")"
				}
				logging.Success("fetched: " + name + " -> " + path + size)
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().StringVar(&baseURL, "api-url", "", "GitHub API root (default: "+github.DefaultBaseURL+")")
	rootCmd.AddCommand(cmd)
}

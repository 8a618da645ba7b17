package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/bnema/droidfleet/internal/application"
	"github.com/bnema/droidfleet/internal/domain"
	"github.com/spf13/cobra"
)

const excerptDirName = "AdbLogExcerpts"

func newExcerptCmd(a *app) *cobra.Command {
	var tag string
	var begin string
	var end string
	var outDir string

	cmd := &cobra.Command{
		Use:   "excerpt <logcat-file>",
		Short: "Cut the lines of a time window out of a logcat file",
		Long: "Copy the lines of a collected logcat file stamped between --begin and --end (default: now) into a new file. " +
			"Timestamps use the logcat threadtime layout, e.g. \"10-19 14:03:27.512\".",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]

			endTime := domain.LogTimeOf(a.now())
			if end != "" {
				parsed, err := domain.ParseLogTime(end)
				if err != nil {
					return fmt.Errorf("parse --end: %w", err)
				}
				endTime = parsed
			}
			if outDir == "" {
				outDir = filepath.Join(filepath.Dir(source), excerptDirName)
			}

			path, err := application.ExtractExcerpt(application.ExcerptRequest{
				Source: source,
				OutDir: outDir,
				Tag:    tag,
				Begin:  begin,
				End:    endTime,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "name prefix of the excerpt file")
	cmd.Flags().StringVar(&begin, "begin", "", "first timestamp of the window")
	cmd.Flags().StringVar(&end, "end", "", "last timestamp of the window (default now)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default AdbLogExcerpts next to the source)")
	_ = cmd.MarkFlagRequired("tag")
	_ = cmd.MarkFlagRequired("begin")

	return cmd
}

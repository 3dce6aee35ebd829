package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/captionrelay/backend/internal/caption"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracks <url-or-id>",
		Short: "List a video's available caption tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := ctx.newService(ctx.fetchClient(ctx.config.TimeoutSeconds))
			videoID, tracks, err := service.ListTracks(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if stdoutIsTerminal() {
				fmt.Fprintf(out, "Caption tracks for %s:\n", videoID)
				fmt.Fprintln(out, renderTrackTable(tracks))
			} else {
				for _, t := range tracks {
					fmt.Fprintf(out, "%s\t%s\t%s\n", t.LanguageCode, t.Kind, sanitizeCell(t.Name))
				}
			}
			return nil
		},
	}

	return cmd
}

func renderTrackTable(tracks []caption.Track) string {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		name := t.Name
		if name == "" {
			name = "-"
		}
		rows = append(rows, []string{t.LanguageCode, string(t.Kind), name})
	}
	return renderTable([]string{"LANG", "KIND", "NAME"}, rows)
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// keeps tab-separated output stable even if a name contains tabs
func sanitizeCell(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/captionrelay/backend/internal/caption"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var lang string
	var format string
	var copyFlag bool
	var verbose bool
	var timeoutSeconds int

	cmd := &cobra.Command{
		Use:   "fetch <url-or-id>",
		Short: "Fetch captions for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			if !cmd.Flags().Changed("lang") {
				lang = cfg.Lang
			}
			if !cmd.Flags().Changed("format") {
				format = cfg.Format
			}
			if !cmd.Flags().Changed("copy") {
				copyFlag = cfg.Copy
			}
			if !cmd.Flags().Changed("timeout") {
				timeoutSeconds = cfg.TimeoutSeconds
			}

			switch format {
			case "text", "srt", "json":
			default:
				return fmt.Errorf("unknown format %q (want text, srt, or json)", format)
			}

			runCtx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeoutSeconds)*time.Second)
			defer cancel()

			var trace *caption.Trace
			if verbose {
				trace = caption.NewTraceWithSink(func(entry string) {
					fmt.Fprintln(os.Stderr, entry)
				})
			}

			service := ctx.newService(ctx.fetchClient(timeoutSeconds))
			result, err := service.Resolve(runCtx, args[0], lang, trace)
			if err != nil {
				return err
			}

			var output string
			switch format {
			case "srt":
				output = result.SRT
			case "json":
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				output = string(data) + "\n"
			default:
				output = result.PlainText + "\n"
			}

			fmt.Fprint(cmd.OutOrStdout(), output)

			if copyFlag {
				if err := clipboard.WriteAll(output); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(os.Stderr, "Copied to clipboard.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Preferred caption language (BCP-47 tag)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, srt, or json")
	cmd.Flags().BoolVar(&copyFlag, "copy", false, "Copy the output to the clipboard")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print each retrieval attempt to stderr")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 20, "Overall timeout in seconds")

	return cmd
}

package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/captionrelay/backend/internal/captions"
	"github.com/captionrelay/backend/internal/fetch"
	"github.com/captionrelay/backend/internal/logger"
	"github.com/captionrelay/backend/internal/source"
)

// commandContext carries lazily loaded config shared by all subcommands.
type commandContext struct {
	configFlag *string
	config     *cliConfig
}

func (c *commandContext) ensureConfig() (*cliConfig, error) {
	if c.config != nil {
		return c.config, nil
	}

	path := *c.configFlag
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	cfg, err := loadCLIConfig(path, explicit)
	if err != nil {
		return nil, err
	}
	c.config = cfg
	return cfg, nil
}

// fetchClient builds the upstream HTTP client with the effective timeout,
// after flag/config merging.
func (c *commandContext) fetchClient(timeoutSeconds int) *fetch.Client {
	return fetch.NewClient(time.Duration(timeoutSeconds) * time.Second)
}

// newService builds the full retrieval cascade the way the server does.
func (c *commandContext) newService(client *fetch.Client) *captions.Service {
	return captions.NewService(
		source.NewLibrary(),
		source.NewWatchPage(client),
		source.NewTimedText(client),
	)
}

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := &commandContext{configFlag: &configFlag}

	rootCmd := &cobra.Command{
		Use:           "captionctl",
		Short:         "Fetch YouTube captions from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// CLI output stays clean; retrieval internals log at error only.
			logger.SetDefault(logger.New(io.Discard, logger.LevelError, "captionctl"))
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newFetchCommand(ctx))
	rootCmd.AddCommand(newTracksCommand(ctx))

	return rootCmd
}

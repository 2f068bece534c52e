package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"notion-hugo/pkg/config"
	"notion-hugo/pkg/handlers"
	"notion-hugo/pkg/logging"
	"notion-hugo/pkg/notion"
	"notion-hugo/pkg/services"
	syncpkg "notion-hugo/pkg/sync"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "notion-hugo",
		Short:         "Sync Notion content into a Hugo site",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (TOML)")

	rootCmd.AddCommand(newSyncCommand(&configFlag))
	rootCmd.AddCommand(newServeCommand(&configFlag))
	rootCmd.AddCommand(newBuildCommand(&configFlag))
	rootCmd.AddCommand(newPublishCommand(&configFlag))
	return rootCmd
}

// bootstrap loads config and builds the logger shared by all commands.
func bootstrap(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newSyncer(cfg *config.Config, logger *zap.Logger) (*syncpkg.Syncer, error) {
	client, err := notion.New(cfg.NotionToken, cfg.NotionVersion, cfg.ProxyURL, logger)
	if err != nil {
		return nil, err
	}
	return syncpkg.New(cfg, client, logger), nil
}

func newSyncCommand(configFlag *string) *cobra.Command {
	var clean bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync Notion content into the Hugo content tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(*configFlag)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			syncer, err := newSyncer(cfg, logger)
			if err != nil {
				return err
			}

			report, err := syncer.Run(cmd.Context())
			if err != nil {
				return err
			}
			if clean {
				syncer.CleanMedia()
			}

			logger.Info("done",
				zap.Int("posts", report.PostsGenerated),
				zap.Int("projects", report.ProjectsGenerated),
				zap.Int("item_errors", len(report.Errors)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&clean, "clean", false, "Also remove cached media no content references")
	return cmd
}

func newServeCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the sync HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(*configFlag)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			syncer, err := newSyncer(cfg, logger)
			if err != nil {
				return err
			}

			router := handlers.NewRouter(cfg, syncer, logger)
			logger.Info("serving API", zap.String("addr", cfg.ServerAddr))
			return router.Run(cfg.ServerAddr)
		},
	}
}

func newBuildCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the Hugo site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(*configFlag)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			output, err := services.BuildSite(cfg.SiteDir)
			if err != nil {
				return fmt.Errorf("hugo build: %w\n%s", err, output)
			}
			logger.Info("site built")
			return nil
		},
	}
}

func newPublishCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Commit and push the regenerated content tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(*configFlag)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			output, err := services.PublishSite(cfg.SiteDir, cfg.GitRemote, cfg.GitBranch, cfg.GitToken)
			if err != nil {
				return fmt.Errorf("publish: %w\n%s", err, output)
			}
			logger.Info("content published")
			return nil
		},
	}
}

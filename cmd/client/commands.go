// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/hayahub/internal/client"
	"github.com/MKhiriev/hayahub/internal/config"
	"github.com/MKhiriev/hayahub/internal/logger"
	"github.com/MKhiriev/hayahub/models"
)

const flagsHelp = `Configuration flags (see -h of any command):
  -r  server address          -d  local database file
  -c  JSON config file        -owner-id, -token-sign-key, -token-issuer
  -sync-interval, -sync-timeout, -batch-size, -conflict-policy, -log-file`

func newRootCmd(buildInfo models.AppBuildInfo) *cobra.Command {
	root := &cobra.Command{
		Use:   "hayahub-client",
		Short: "HayaHub offline-first client",
		Long: `hayahub-client keeps a local copy of every HayaHub collection and
synchronizes it with the document server in the background.

` + flagsHelp,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRunCmd(buildInfo),
		newSyncCmd(buildInfo),
		newStatusCmd(buildInfo),
		newAddCmd(buildInfo),
		newVersionCmd(buildInfo),
	)
	return root
}

func newRunCmd(buildInfo models.AppBuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:                "run [flags]",
		Short:              "Start background sync and show the status view",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), args, buildInfo, func(ctx context.Context, app *client.App, _ []string) error {
				return app.Run(ctx)
			})
		},
	}
}

func newSyncCmd(buildInfo models.AppBuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:                "sync [flags]",
		Short:              "Run one sync pass and print its result",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), args, buildInfo, func(ctx context.Context, app *client.App, _ []string) error {
				result := app.SyncOnce(ctx)
				if err := printJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
				if result.Phase != models.SyncPhaseSynced {
					return fmt.Errorf("sync finished in phase %q", result.Phase)
				}
				return nil
			})
		},
	}
}

func newStatusCmd(buildInfo models.AppBuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:                "status [flags]",
		Short:              "Print the number of changes waiting to be synchronized",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), args, buildInfo, func(_ context.Context, app *client.App, _ []string) error {
				return printJSON(cmd.OutOrStdout(), app.Status())
			})
		},
	}
}

func newAddCmd(buildInfo models.AppBuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "add [flags] <collection> <json>",
		Short: "Create a record locally and try to push it",
		Example: `  hayahub-client add -d hayahub.db expenses '{"amount":12.5,"category":"food"}'
  hayahub-client add tasks '{"title":"pay rent","done":false}'`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), args, buildInfo, func(ctx context.Context, app *client.App, rest []string) error {
				if len(rest) != 2 {
					return errors.New("add expects <collection> <json>")
				}

				record, err := app.Records().Create(ctx, rest[0], json.RawMessage(rest[1]))
				if err != nil {
					return err
				}

				result := app.SyncOnce(ctx)
				return printJSON(cmd.OutOrStdout(), struct {
					Record models.Record     `json:"record"`
					Sync   models.SyncResult `json:"sync"`
				}{record, result})
			})
		},
	}
}

func newVersionCmd(buildInfo models.AppBuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Build version: %s\nBuild date: %s\nBuild commit: %s\n",
				buildInfo.BuildVersion(), buildInfo.BuildDate(), buildInfo.BuildCommit())
		},
	}
}

// withApp loads the configuration from args, opens the client and hands it
// to fn together with the arguments left after the configuration flags.
func withApp(ctx context.Context, args []string, buildInfo models.AppBuildInfo, fn func(context.Context, *client.App, []string) error) error {
	cfg, err := config.GetClientConfig(args)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Println(flagsHelp)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rest, err := config.PositionalArgs(args)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewClientLogger("hayahub-client", cfg.LogFilePath)
	log.Debug().
		Str("server", cfg.Adapter.HTTPAddress).
		Str("database", cfg.Storage.DB.DSN).
		Dur("sync_interval", cfg.Workers.SyncInterval).
		Msg("received configs")

	app, err := client.NewApp(ctx, cfg, buildInfo, log)
	if err != nil {
		return fmt.Errorf("init client app: %w", err)
	}
	defer app.Close()

	return fn(ctx, app, rest)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

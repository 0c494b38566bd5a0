package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sutter-pierre/dialog-integrations/internal/adapter/brest"
	"github.com/sutter-pierre/dialog-integrations/internal/adapter/sarthe"
	"github.com/sutter-pierre/dialog-integrations/internal/api"
	"github.com/sutter-pierre/dialog-integrations/internal/core"
	"github.com/sutter-pierre/dialog-integrations/internal/logging"
	"github.com/sutter-pierre/dialog-integrations/internal/settings"
)

const version = "1.0.0"

var (
	logLevel  string
	logFormat string
	apiPort   int
	apiHost   string
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dialog",
		Short: "Dialog integrations - publish open traffic-regulation data to the Dialog registry",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logLevel, logFormat)
			settings.LoadEnv()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(integrateCommand())
	rootCmd.AddCommand(publishCommand())
	rootCmd.AddCommand(listCommand())
	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(versionCommand())

	return rootCmd
}

// buildService registers every source adapter and wires the service over
// them.
func buildService() (*core.Service, error) {
	registry := core.NewAdapterRegistry()

	if err := registry.Register(brest.New()); err != nil {
		return nil, err
	}
	if err := registry.Register(sarthe.New()); err != nil {
		return nil, err
	}

	return core.NewService(registry, nil), nil
}

func integrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "integrate <organization>...",
		Short: "Run the integration pipeline for one or more organizations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := buildService()
			if err != nil {
				return err
			}

			failed := 0
			for _, organization := range args {
				report, err := service.Integrate(cmd.Context(), organization)
				if err != nil {
					return fmt.Errorf("integrate %s: %w", organization, err)
				}
				printJSON(cmd, report)
				failed += report.Failed
			}

			if failed > 0 {
				return fmt.Errorf("%d regulation(s) failed to submit", failed)
			}
			return nil
		},
	}
}

func publishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <organization>...",
		Short: "Publish every known regulation of one or more organizations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := buildService()
			if err != nil {
				return err
			}

			failed := 0
			for _, organization := range args {
				report, err := service.Publish(cmd.Context(), organization)
				if err != nil {
					return fmt.Errorf("publish %s: %w", organization, err)
				}
				printJSON(cmd, report)
				failed += report.Failed
			}

			if failed > 0 {
				return fmt.Errorf("%d regulation(s) failed to publish", failed)
			}
			return nil
		},
	}
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the organizations an integration is registered for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := buildService()
			if err != nil {
				return err
			}
			for _, organization := range service.Organizations() {
				fmt.Fprintln(cmd.OutOrStdout(), organization)
			}
			return nil
		},
	}
}

func serveCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP control API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := buildService()
			if err != nil {
				return err
			}

			server := api.NewAPI(service, apiPort, apiHost)
			errCh := make(chan error, 1)
			go func() {
				fmt.Printf("Starting control API at %s:%d\n", apiHost, apiPort)
				if err := server.Start(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigs:
			}

			fmt.Println("Shutting down control API...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Stop(ctx)
		},
	}

	serveCmd.Flags().IntVar(&apiPort, "port", 8080, "Control API port")
	serveCmd.Flags().StringVar(&apiHost, "host", "localhost", "Control API host")

	return serveCmd
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func printJSON(cmd *cobra.Command, v any) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "encode report:", err)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sourceplane/actionforge/internal/rest"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Serve the generation and analysis API over HTTP",
	PreRunE: setupServeConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func registerServeCommand(root *cobra.Command) {
	root.AddCommand(serveCmd)

	serveCmd.Flags().String("config-file", "", "Path to server config file.")
	serveCmd.Flags().Int("http-port", 8080, "http port for rest endpoints")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		panic(err)
	}
}

func setupServeConfig(cmd *cobra.Command, args []string) error {
	serverConfigFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	if serverConfigFile == "" {
		return nil
	}
	viper.SetConfigFile(serverConfigFile)
	if err := viper.ReadInConfig(); err != nil {
		// it's ok if config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}

func serve() error {
	server, err := rest.NewServer(viper.GetInt("http-port"))
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	errc := make(chan error, 1)
	go func() {
		errc <- server.Start()
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case <-sigc:
		return server.Stop()
	}
}

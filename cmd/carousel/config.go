package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carousel/internal/config"
	"carousel/internal/eventbus"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the carousel configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	bus := eventbus.New(zap.NewNop())
	svc := config.NewConfigServiceWithBus(bus, configPath)

	if _, err := os.Stat(svc.Path()); err == nil && !force {
		bus.Close()
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", svc.Path())
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		bus.Close()
		return fmt.Errorf("failed to check config file: %w", err)
	}

	out := cmd.OutOrStdout()
	bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
		if saved, ok := e.(eventbus.ConfigSavedEvent); ok {
			fmt.Fprintf(out, "Wrote %s\n", saved.Path)
		}
	})

	err := svc.Save(config.DefaultConfig())
	// Close waits for the subscriber above
	bus.Close()
	return err
}

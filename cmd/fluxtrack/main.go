package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagEnv        string
	flagConfigPath string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fluxtrack",
		Short:         "fluxtrack is the terminal client of the nutrition/training tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagEnv, "env", "development", "environment [dev | development | prod | production]")
	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "./config.toml", "path to the TOML config file")

	cmd.AddCommand(profileCmd())
	cmd.AddCommand(logCmd())
	cmd.AddCommand(planCmd())
	cmd.AddCommand(notifyCmd())

	return cmd
}

package main

import (
	"os"

	"lab_inventory/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	config.LoadEnv()

	rootCmd := &cobra.Command{
		Use:     "lab-inventory",
		Short:   "IT lab equipment inventory service",
		Version: version,
		// 无子命令时默认启动服务
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSweepCmd())
	rootCmd.AddCommand(newSeedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

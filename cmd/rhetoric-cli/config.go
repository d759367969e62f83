package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/runixer/rhetoric/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after merging built-in defaults, the config file
and RHETORIC_* environment variables. With --defaults, print the built-in
defaults only, which is a good starting point for configs/config.yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env := getEnv(cmd)
		if env == nil {
			return fmt.Errorf("cli not initialized")
		}

		if mustGetBool(cmd, "defaults") {
			_, err := cmd.OutOrStdout().Write(config.DefaultConfigBytes())
			return err
		}

		source := env.configPath
		if source == "" {
			source = "built-in defaults"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n", source)

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(env.cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	configCmd.Flags().Bool("defaults", false, "Print the built-in defaults instead of the effective config")
	rootCmd.AddCommand(configCmd)
}

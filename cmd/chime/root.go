package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "CHIME"

func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chime",
		Short: "Terminal host for the chime comments widget",
	}

	cobra.OnInitialize(initConfig)

	cmd.PersistentFlags().String("endpoint", "", "Comments service base URL, e.g. https://comments.example.com")
	cmd.PersistentFlags().String("api-key", "", "API key sent with every request")
	cmd.PersistentFlags().String("api-root", "", "API path prefix under the endpoint (default api/v1)")
	cmd.PersistentFlags().String("log-file", "", "Write logs to this file instead of discarding them")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")

	cmd.AddCommand(newViewCmd())
	cmd.AddCommand(newCountsCmd())

	return cmd
}

func initConfig() {
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

func flagOrViperString(cmd *cobra.Command, flagName, viperKey string) string {
	v, _ := cmd.Flags().GetString(flagName)
	if cmd.Flags().Changed(flagName) {
		return v
	}
	if viperKey != "" && viper.IsSet(viperKey) {
		return viper.GetString(viperKey)
	}
	return v
}

func flagOrViperInt(cmd *cobra.Command, flagName, viperKey string) int {
	v, _ := cmd.Flags().GetInt(flagName)
	if cmd.Flags().Changed(flagName) {
		return v
	}
	if viperKey != "" && viper.IsSet(viperKey) {
		return viper.GetInt(viperKey)
	}
	return v
}

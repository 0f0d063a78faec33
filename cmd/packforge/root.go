/*
Copyright © 2025 PackForge contributors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

// Package main implements the packforge CLI: configuration-driven package
// and container-image builds with dual-registry publishing.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/packforge/packforge/logging"
)

var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "packforge",
	Short: "PackForge - configuration-driven package and image builds",
	Long: `PackForge turns a (version, build-type) pair into containerized package
builds, and for the docker build-type into a multi-architecture image
build with dual-registry manifest publishing.`,
	Version:           version,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is $HOME/.packforge/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "color", "Log format (plain, color, json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Quiet mode - only show errors")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose mode - show debug output")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}

// v holds the ambient settings with the usual precedence:
// CLI flags > PACKFORGE_* environment > config file > defaults.
var v = viper.New()

// initConfig wires viper and the logger before any subcommand runs.
func initConfig(cmd *cobra.Command, args []string) error {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "color")
	v.SetDefault("registry.primary", "docker.io")
	v.SetDefault("registry.secondary", "ghcr.io")
	v.SetDefault("docker.binary", "docker")
	v.SetDefault("docker.emulation_image", "multiarch/qemu-user-static:register")
	v.SetDefault("credentials.file", "")

	v.SetEnvPrefix("PACKFORGE")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.BindPFlag("log.level", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
		return fmt.Errorf("failed to bind log-level flag: %w", err)
	}
	if err := v.BindPFlag("log.format", cmd.Root().PersistentFlags().Lookup("log-format")); err != nil {
		return fmt.Errorf("failed to bind log-format flag: %w", err)
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")

	logger := logging.NewWithOptions(v.GetString("log.level"), v.GetString("log.format"), quiet, verbose)
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

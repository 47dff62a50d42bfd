// Copyright 2024 The PolyGen Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute builds and runs the root command: a single optional
// --config_file flag, read into viper before any subcommand runs.
func Execute() {
	rootCmd := &cobra.Command{
		Use:   "polygen",
		Short: "polygen generates per-target source from a PolyGen schema",
	}

	cfgFile := rootCmd.PersistentFlags().String("config_file", "", "Path to a polygen CLI config file.")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *cfgFile != "" {
			viper.SetConfigFile(*cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("error reading config: %w", err)
			}
		}
		viper.BindPFlags(cmd.Flags())
		viper.AutomaticEnv()
		return nil
	}

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

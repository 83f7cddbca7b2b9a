// Copyright © 2026 Relaymesh Authors <EMAIL ADDRESS>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mailbox",
	Short: "mailbox: interchain messaging relay endpoint",
	Long:  `Dispatch outbound and process inbound interchain messages`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Fatalf("Fatal error occurred. Program will exit")
		os.Exit(1)
	}
}

func init() {
	// folders
	rootCmd.PersistentFlags().StringP("datadir", "d", "data", "Folder for the delivery ledger and endpoint state")
	rootCmd.PersistentFlags().StringP("configdir", "c", "config", "Folder for config")
	rootCmd.PersistentFlags().StringP("logdir", "l", "", "Folder for log. Default empty: log to stdout only")

	// log
	rootCmd.PersistentFlags().BoolP("log_stdout", "s", true, "Whether the log will be printed to stdout")
	rootCmd.PersistentFlags().StringP("log_level", "v", "info", "Logging verbosity, possible values:[panic, fatal, error, warn, info, debug]")

	_ = viper.BindPFlag("datadir", rootCmd.PersistentFlags().Lookup("datadir"))
	_ = viper.BindPFlag("configdir", rootCmd.PersistentFlags().Lookup("configdir"))
	_ = viper.BindPFlag("logdir", rootCmd.PersistentFlags().Lookup("logdir"))
	_ = viper.BindPFlag("log_stdout", rootCmd.PersistentFlags().Lookup("log_stdout"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log_level"))
}

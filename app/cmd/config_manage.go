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
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// readConfig merges --configdir/config.toml into viper if it exists, then
// applies env overrides.
func readConfig() {
	configPath := filepath.Join(viper.GetString("configdir"), "config.toml")

	if fileExists(configPath) {
		mergeLocalConfig(configPath)
	} else {
		fmt.Printf("no config file at %s, running on defaults\n", configPath)
	}

	mergeEnvConfig()
}

func mergeEnvConfig() {
	// env override
	viper.SetEnvPrefix("mailbox")
	viper.AutomaticEnv()
}

func mergeLocalConfig(configPath string) {
	absPath, err := filepath.Abs(configPath)
	panicIfError(err, fmt.Sprintf("Error on parsing config file path: %s", absPath))

	file, err := os.Open(absPath)
	panicIfError(err, fmt.Sprintf("Error on opening config file: %s", absPath))
	defer file.Close()

	viper.SetConfigType("toml")
	err = viper.MergeConfig(file)
	panicIfError(err, fmt.Sprintf("Error on reading config file: %s", absPath))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func panicIfError(err error, message string) {
	if err != nil {
		fmt.Println(message)
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

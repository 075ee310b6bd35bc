// Copyright 2026 CraftOps
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
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Package the plugin directory and upload it once",
	Long:  `Builds the zip archive from the configured plugin directory, uploads it over the configured transport, and exits. Equivalent to one 'upload' in the manual prompt.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		promptMissingPassword(cfg)

		orch, hist := buildOrchestrator(cfg)
		if hist != nil {
			defer hist.Close()
		}
		orch.Run(context.Background())
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

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
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/craftops/plugsync/internal/history"
)

var historyLimit int
var historyReset bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear recorded upload attempts",
	Long:  `Prints the most recent upload attempts from the local history database, newest first. Use --reset to clear the log entirely.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			log.Fatalf("Failed to open history: %v", err)
		}
		defer store.Close()

		if historyReset {
			if err := store.Reset(); err != nil {
				log.Fatalf("Failed to clear history: %v", err)
			}
			fmt.Println("Upload history cleared.")
			return
		}

		entries, err := store.Recent(historyLimit)
		if err != nil {
			log.Fatalf("Failed to read history: %v", err)
		}
		if len(entries) == 0 {
			fmt.Println("No uploads recorded yet.")
			return
		}

		fmt.Printf("% -20s % -6s % -9s % -10s %s\n", "WHEN", "METHOD", "STATUS", "TOOK", "DETAIL")
		for _, e := range entries {
			fmt.Printf("% -20s % -6s % -9s % -10s %s\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"),
				e.Method, e.Status, e.Duration.Round(time.Millisecond), e.Detail)
		}
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show")
	historyCmd.Flags().BoolVar(&historyReset, "reset", false, "clear the entire history")
	rootCmd.AddCommand(historyCmd)
}

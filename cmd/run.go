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
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/kardianos/service"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/craftops/plugsync/internal/config"
	"github.com/craftops/plugsync/internal/history"
	"github.com/craftops/plugsync/internal/notify"
	"github.com/craftops/plugsync/internal/transport"
	"github.com/craftops/plugsync/internal/uploader"
	"github.com/craftops/plugsync/internal/watcher"
)

// RunAgent is the entry point for the long-running process.
func RunAgent() {
	if service.Interactive() {
		fmt.Println("Plugsync Agent Starting...")
	} else {
		log.Println("Plugsync Agent Starting as Service...")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if service.Interactive() {
		promptMissingPassword(cfg)
	}

	orch, hist := buildOrchestrator(cfg)
	if hist != nil {
		defer hist.Close()
	}

	if cfg.AutoUpload {
		runAuto(cfg, orch)
		return
	}

	if !service.Interactive() {
		log.Error("Manual mode needs an interactive terminal; enable auto_upload to run as a service")
		return
	}
	runManual(orch)
}

// buildOrchestrator resolves the transport once and wires the upload
// pipeline. A bad upload method is not fatal: the orchestrator logs and
// skips the transfer on every cycle instead.
func buildOrchestrator(cfg *config.Config) (*uploader.Orchestrator, *history.Store) {
	tr, err := transport.ForMethod(cfg)
	if err != nil {
		log.Errorf("Transport unavailable: %v", err)
	}

	hist, err := history.Open(cfg.HistoryDB)
	if err != nil {
		log.Warnf("Upload history disabled: %v", err)
		hist = nil
	}

	return uploader.New(cfg, tr, hist, notify.New(cfg.Webhook.URL, cfg.Webhook.Token)), hist
}

// runAuto starts the change watcher and blocks until something cancels the
// shared context: the console "exit" keyword, SIGINT/SIGTERM, or stdin
// closing. It returns once the watcher has fully stopped.
func runAuto(cfg *config.Config, orch *uploader.Orchestrator) {
	log.Info("Auto upload enabled, watching for file changes...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Infof("Received signal: %s, shutting down...", sig)
		cancel()
	}()

	if service.Interactive() {
		go func() {
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("Type 'exit' to stop watching and quit: ")
				if !scanner.Scan() {
					cancel()
					return
				}
				if strings.EqualFold(strings.TrimSpace(scanner.Text()), "exit") {
					cancel()
					return
				}
			}
		}()
	}

	w := watcher.New(cfg, orch)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := w.Run(ctx); err != nil {
			log.Errorf("Watcher stopped: %v", err)
			cancel()
		}
	}()

	wg.Wait()
	log.Info("Agent stopped")
}

// runManual blocks on the interactive command loop. Upload failures do not
// end the loop; it keeps prompting until "exit" or EOF.
func runManual(orch *uploader.Orchestrator) {
	log.Info("Manual upload mode, waiting for commands...")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Enter command ('upload' to package and upload, 'exit' to quit): ")
		if !scanner.Scan() {
			return
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "upload":
			orch.Run(context.Background())
		case "exit":
			return
		case "":
		default:
			fmt.Println("Unknown command, use 'upload' or 'exit'.")
		}
	}
}

// promptMissingPassword asks for the active transport's password when the
// config leaves it empty and no key file is set. Input is not echoed.
func promptMissingPassword(cfg *config.Config) {
	switch cfg.UploadMethod {
	case config.MethodFTP:
		if cfg.FTP.Password == "" {
			cfg.FTP.Password = askPassword(fmt.Sprintf("FTP password for %s@%s: ", cfg.FTP.Username, cfg.FTP.Host))
		}
	case config.MethodSFTP:
		if cfg.SFTP.Password == "" && cfg.SFTP.PrivateKeyFile == "" {
			cfg.SFTP.Password = askPassword(fmt.Sprintf("SFTP password for %s@%s: ", cfg.SFTP.Username, cfg.SFTP.Host))
		}
	}
}

func askPassword(prompt string) string {
	fmt.Print(prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Warnf("Failed to read password: %v", err)
		return ""
	}
	return string(pw)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the agent in the foreground",
	Long: `Runs the upload agent directly. With auto_upload enabled it watches the
plugin directory and re-uploads on every source change; otherwise it drops
into the manual upload/exit prompt.`,
	Run: func(cmd *cobra.Command, args []string) {
		if service.Interactive() {
			RunAgent()
			return
		}
		// When running as a service, we MUST call s.Run() to check-in
		// with the service manager.
		s, err := getService()
		if err != nil {
			log.Fatalf("Failed to initialize service: %v", err)
		}
		s.Run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

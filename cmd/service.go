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

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
)

// program implements the service.Interface
type program struct{}

func (p *program) Start(s service.Service) error {
	go p.run()
	return nil
}

func (p *program) Stop(s service.Service) error {
	return nil
}

func (p *program) run() {
	RunAgent()
}

func getService() (service.Service, error) {
	args := []string{"run"}
	if cfgFile != "" {
		args = append(args, "--config", cfgFile)
	}

	svcConfig := &service.Config{
		Name:        "Plugsync",
		DisplayName: "Plugsync Plugin Upload Agent",
		Description: "Packages the plugin directory and uploads it to the game server when source files change.",
		Arguments:   args,
	}

	prg := &program{}
	return service.New(prg, svcConfig)
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the agent as a system service",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := getService()
		if err != nil {
			fmt.Printf("Setup failed: %v\n", err)
			return
		}

		status, err := s.Status()
		if err == nil {
			fmt.Println("Plugsync is already installed.")
			if status == service.StatusRunning {
				fmt.Println("Service is currently RUNNING.")
			} else {
				fmt.Println("Service is currently STOPPED.")
			}
			fmt.Println("Use 'plugsync restart' to apply config changes, or 'plugsync uninstall' to remove it.")
			return
		}

		fmt.Println("Installing Plugsync Service...")
		if err := s.Install(); err != nil {
			fmt.Printf("Failed to install: %v\n", err)
			fmt.Println("Hint: Ensure you are running with administrative privileges.")
			return
		}
		fmt.Println("Service installed successfully.")

		fmt.Println("Starting service...")
		if err := s.Start(); err != nil {
			fmt.Printf("Failed to start: %v\n", err)
			return
		}
		fmt.Println("Service started.")
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the Plugsync service",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := getService()
		if err != nil {
			fmt.Println(err)
			return
		}

		// Ignore stop errors, it might not be running.
		_ = s.Stop()

		if err := s.Uninstall(); err != nil {
			fmt.Printf("Failed to uninstall: %v\n", err)
			return
		}
		fmt.Println("Service uninstalled.")
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Plugsync service",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := getService()
		if err != nil {
			fmt.Println(err)
			return
		}

		fmt.Println("Starting Plugsync Service...")
		if err := s.Start(); err != nil {
			fmt.Printf("Failed to start: %v\n", err)
			return
		}
		fmt.Println("Service started.")
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the Plugsync service",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := getService()
		if err != nil {
			fmt.Println(err)
			return
		}

		fmt.Println("Stopping Plugsync Service...")
		if err := s.Stop(); err != nil {
			fmt.Printf("Failed to stop: %v\n", err)
			return
		}
		fmt.Println("Service stopped.")
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the Plugsync service",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := getService()
		if err != nil {
			fmt.Println(err)
			return
		}

		fmt.Println("Restarting Plugsync Service...")
		if err := s.Restart(); err != nil {
			fmt.Printf("Failed to restart: %v\n", err)
			return
		}
		fmt.Println("Service restarted.")
	},
}

func init() {
	rootCmd.AddCommand(installCmd, uninstallCmd, startCmd, stopCmd, restartCmd)
}

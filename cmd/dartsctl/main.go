// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	units "github.com/docker/go-units"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	core "github.com/ludachrisnyc/Connect-the-Darts/internal/android"
	"github.com/ludachrisnyc/Connect-the-Darts/internal/config"
)

func main() {
	_ = godotenv.Load()

	// Pre-scanned before cobra parses; the file values seed the flag defaults.
	configFlag := configPathFromArgs(os.Args[1:])
	configPath := config.Resolve(configFlag)
	fileCfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := fileCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := core.Detect()
	if configPath != "" {
		cfg.PropertiesFile = fileCfg.SDK.PropertiesFile
	}
	if fileCfg.SDK.ToolsArchive != "" {
		cfg.ToolsArchive = fileCfg.SDK.ToolsArchive
	}
	if fileCfg.SDK.ToolsURL != "" {
		cfg.ToolsURL = fileCfg.SDK.ToolsURL
	}
	if fileCfg.SDK.ToolsChecksum != "" {
		cfg.ToolsChecksum = fileCfg.SDK.ToolsChecksum
	}

	shutdown, err := core.SetupTracing(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "tracing disabled:", err)
		shutdown = func(context.Context) error { return nil }
	}

	root := newRootCommand(cfg, fileCfg)

	execErr := root.Execute()
	_ = shutdown(context.Background())
	if execErr != nil {
		fmt.Fprintln(os.Stderr, execErr)
		os.Exit(1)
	}
}

// newRootCommand builds the full command tree. cfg carries the detected
// environment and fileCfg the defaults file values that seed the flags.
func newRootCommand(cfg core.Config, fileCfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "dartsctl",
		Short: "Android SDK and emulator bootstrap tool (CI-friendly)",
	}
	var configFile string
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./dartsctl.yaml, then the user config dir)")

	// up
	var upName, upVariant, upProfile, upArchive string
	var upAPI int
	var upStart, upFixJava bool
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Provision the SDK packages and virtual device, then boot the emulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			if upArchive != "" {
				cfg.ToolsArchive = upArchive
			}
			readiness, err := core.Bootstrap(cfg, core.Options{
				DeviceName: upName,
				APILevel:   upAPI,
				Variant:    upVariant,
				Profile:    upProfile,
				Start:      upStart,
				FixJava:    upFixJava,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Bootstrap complete: %s (%s)\n", upName, readiness)
			return nil
		},
	}
	upCmd.Flags().StringVar(&upName, "name", fileCfg.Device.Name, "virtual device name")
	upCmd.Flags().IntVar(&upAPI, "api", fileCfg.Device.API, "Android API level")
	upCmd.Flags().StringVar(&upVariant, "variant", fileCfg.Device.Variant, "system image variant, e.g. google_apis;x86_64")
	upCmd.Flags().StringVar(&upProfile, "profile", fileCfg.Device.Profile, "device profile passed to avdmanager")
	upCmd.Flags().BoolVar(&upStart, "start", true, "start the emulator after provisioning")
	upCmd.Flags().BoolVar(&upFixJava, "fix-java", false, "resolve a JDK and export JAVA_HOME before driving the tools")
	upCmd.Flags().StringVar(&upArchive, "tools-archive", fileCfg.SDK.ToolsArchive, "local command-line tools archive (skips the download)")
	root.AddCommand(upCmd)

	// sdk
	sdkCmd := &cobra.Command{
		Use:   "sdk",
		Short: "Locate the Android SDK root and report where it came from",
		RunE: func(cmd *cobra.Command, args []string) error {
			sdk, err := core.LocateSDK(cfg)
			if err != nil {
				return err
			}
			fmt.Printf("%s (from %s)\n", sdk.Root, sdk.Source)
			return nil
		},
	}
	root.AddCommand(sdkCmd)

	// packages
	var pkgVariant string
	var pkgAPI int
	packagesCmd := &cobra.Command{
		Use:   "packages",
		Short: "Install platform-tools, emulator, the platform and the system image",
		RunE: func(cmd *cobra.Command, args []string) error {
			sdk, err := core.LocateSDK(cfg)
			if err != nil {
				return err
			}
			if err := core.InstallPackages(cfg, sdk, pkgAPI, pkgVariant); err != nil {
				return err
			}
			fmt.Printf("Packages installed into %s\n", sdk.Root)
			return nil
		},
	}
	packagesCmd.Flags().IntVar(&pkgAPI, "api", fileCfg.Device.API, "Android API level")
	packagesCmd.Flags().StringVar(&pkgVariant, "variant", fileCfg.Device.Variant, "system image variant")
	root.AddCommand(packagesCmd)

	// avd
	var avdName, avdVariant, avdProfile string
	var avdAPI int
	avdCmd := &cobra.Command{
		Use:   "avd",
		Short: "Create the virtual device if it does not exist yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			sdk, err := core.LocateSDK(cfg)
			if err != nil {
				return err
			}
			if err := core.CreateAVD(cfg, sdk, avdName, avdAPI, avdVariant, avdProfile); err != nil {
				return err
			}
			fmt.Printf("Device ready: %s\n", avdName)
			return nil
		},
	}
	avdCmd.Flags().StringVar(&avdName, "name", fileCfg.Device.Name, "virtual device name")
	avdCmd.Flags().IntVar(&avdAPI, "api", fileCfg.Device.API, "Android API level")
	avdCmd.Flags().StringVar(&avdVariant, "variant", fileCfg.Device.Variant, "system image variant")
	avdCmd.Flags().StringVar(&avdProfile, "profile", fileCfg.Device.Profile, "device profile passed to avdmanager")
	root.AddCommand(avdCmd)

	// emulator
	var emuName string
	emulatorCmd := &cobra.Command{
		Use:   "emulator",
		Short: "Boot the emulator detached and wait for adb to see it",
		RunE: func(cmd *cobra.Command, args []string) error {
			sdk, err := core.LocateSDK(cfg)
			if err != nil {
				return err
			}
			proc, err := core.StartEmulator(cfg, sdk, emuName)
			if err != nil {
				return err
			}
			fmt.Printf("Started %s (pid %d, log: %s)\n", emuName, proc.PID, proc.Log)
			readiness := core.WaitForDeviceWithProgress(cfg, sdk, func(stage string, attempt int) {
				if stage == "waiting_adb" && attempt%10 == 0 {
					fmt.Printf("  still waiting for adb (attempt %d)\n", attempt)
				}
			})
			fmt.Printf("Readiness: %s\n", readiness)
			return nil
		},
	}
	emulatorCmd.Flags().StringVar(&emuName, "name", fileCfg.Device.Name, "virtual device name")
	root.AddCommand(emulatorCmd)

	// java
	javaCmd := &cobra.Command{
		Use:   "java",
		Short: "Resolve a usable JDK and persist JAVA_HOME for later shells",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := core.EnsureJavaRuntime(cfg)
			if err != nil {
				return err
			}
			fmt.Printf("JAVA_HOME=%s\n", home)
			return nil
		},
	}
	root.AddCommand(javaCmd)

	// tools
	var toolsJSON bool
	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Show where each SDK tool resolves under the SDK root",
		RunE: func(cmd *cobra.Command, args []string) error {
			sdk, err := core.LocateSDK(cfg)
			if err != nil {
				return err
			}
			statuses := core.ToolStatuses(cfg, sdk)
			if toolsJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(statuses)
			}
			for _, s := range statuses {
				if !s.Found {
					fmt.Printf("%-12s (missing)\n", s.Name)
					continue
				}
				fmt.Printf("%-12s %s\n", s.Name, s.Path)
			}
			return nil
		},
	}
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "output JSON")
	root.AddCommand(toolsCmd)

	// list
	var listJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List virtual devices under the AVD home",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := core.ListDevices(cfg)
			if err != nil {
				return err
			}
			if listJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(devices)
			}
			for _, d := range devices {
				fmt.Printf("%-18s %s\n  userdata: %s (%s)\n", d.Name, d.Path, d.Userdata, units.HumanSize(float64(d.SizeBytes)))
			}
			return nil
		},
	}
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output JSON")
	root.AddCommand(listCmd)

	return root
}

// configPathFromArgs extracts the --config value from raw arguments ahead of
// cobra so the file can be loaded before any flag defaults are registered.
func configPathFromArgs(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(args[i], "--config="); ok {
			return v
		}
	}
	return ""
}

package main

import (
	"embed"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dylan-ru/screen-dimmer/utils"

	"github.com/spf13/cobra"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
)

//go:embed all:frontend/dist
var assets embed.FS

var version = "dev"

const (
	appDescription = "Reduce screen brightness beyond hardware limits"
	appWebsite     = "https://github.com/dylan-ru/screen-dimmer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		settingsPath string
		logFile      string
		verbose      bool
	)
	cmd := &cobra.Command{
		Use:          utils.AppID,
		Short:        appDescription,
		Long:         "Screen Dimmer draws a translucent, click-through overlay on every monitor and is controlled from the system tray.",
		Args:         cobra.NoArgs,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLog, err := setupLogging(logFile, verbose)
			if err != nil {
				return err
			}
			defer closeLog()

			if settingsPath == "" {
				if settingsPath, err = utils.DefaultSettingsPath(); err != nil {
					return fmt.Errorf("failed to locate settings: %w", err)
				}
			}
			return run(settingsPath)
		},
	}
	cmd.Flags().StringVar(&settingsPath, "config", "", "settings file (default $"+utils.ConfigEnv+" or ~/.config/"+utils.AppID+"/settings.yaml)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "also append log output to this file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include source locations in log output")
	return cmd
}

func setupLogging(path string, verbose bool) (func(), error) {
	flags := log.LstdFlags
	if verbose {
		flags |= log.Lshortfile
	}
	log.SetFlags(flags)
	if path == "" {
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return func() { f.Close() }, nil
}

func run(settingsPath string) error {
	app := NewApp(settingsPath)

	// The window only hosts the brightness and color dialogs; it starts
	// hidden and the tray icon is the entry point.
	err := wails.Run(&options.App{
		Title:         "Screen Dimmer",
		Width:         380,
		Height:        440,
		DisableResize: true,
		StartHidden:   true,
		AlwaysOnTop:   true,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        app.startup,
		OnBeforeClose:    app.beforeClose,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
		},
		Linux: &linux.Options{
			ProgramName: utils.AppID,
		},
	})
	if err != nil {
		return fmt.Errorf("window host failed: %w", err)
	}
	return nil
}

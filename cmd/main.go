package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/richinsley/vellum/glfwcontext"
	"github.com/richinsley/vellum/options"
	"github.com/richinsley/vellum/ui"
)

var (
	// Global flags
	verbose    bool
	configPath string
	width      int
	height     int
	fps        int
	recordFile string

	// Logger
	logger *zap.Logger
)

// rootCmd is the editor itself; there are no subcommands.
var rootCmd = &cobra.Command{
	Use:   "vellum [files...]",
	Short: "vellum - a GPU-rendered modal text editor",
	Long: `vellum is a modal text editor drawn entirely on the GPU.

Editing is vim-flavored: normal mode for motions and operators, insert
mode for typing, a ':' prompt for commands and Ctrl-P for the fuzzy
command palette. Files named on the command line each open in their own
pane, and open files are reloaded when another program changes them.

A session can be captured to an H.264 file with --record or the
record_start command; encoding needs an ffmpeg binary on PATH.`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runEditor,
}

func init() {
	// GLFW event handling must stay on the main thread.
	runtime.LockOSThread()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a TOML config file")
	rootCmd.Flags().IntVar(&width, "width", 800, "Initial window width in pixels")
	rootCmd.Flags().IntVar(&height, "height", 600, "Initial window height in pixels")
	rootCmd.Flags().IntVar(&fps, "fps", 60, "Redraw rate cap, overriding the config file")
	rootCmd.Flags().StringVar(&recordFile, "record", "", "Record the session to this file from startup")
}

func runEditor(cmd *cobra.Command, args []string) error {
	opts := &options.Options{
		Verbose: &verbose,
		Files:   args,
	}
	flags := cmd.Flags()
	if flags.Changed("config") {
		opts.ConfigPath = &configPath
	}
	if flags.Changed("width") {
		opts.Width = &width
	}
	if flags.Changed("height") {
		opts.Height = &height
	}
	if flags.Changed("fps") {
		opts.FPS = &fps
	}
	if flags.Changed("record") && recordFile != "" {
		opts.RecordFile = &recordFile
	}

	if err := glfwcontext.InitGraphics(logger.Named("glfw")); err != nil {
		return fmt.Errorf("failed to initialize graphics: %w", err)
	}
	defer glfwcontext.TerminateGraphics(logger.Named("glfw"))

	editor, err := ui.New(opts, logger)
	if err != nil {
		return fmt.Errorf("failed to start editor: %w", err)
	}
	defer editor.Close()

	editor.Run()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

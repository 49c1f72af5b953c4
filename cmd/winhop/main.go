package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/winhop/winhop/internal/config"
	"github.com/winhop/winhop/internal/daemon"
	"github.com/winhop/winhop/internal/ipc"
	"github.com/winhop/winhop/internal/logging"
)

var (
	version = "0.3.0"
	cfgFile string
)

const callTimeout = 5 * time.Second

var rootCmd = &cobra.Command{
	Use:   "winhop",
	Short: "Window hopper for Windows virtual desktops",
	Long:  `winhop - hotkey-driven window switching, capture slots, and virtual desktop jumps`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the background daemon",
	Run: func(cmd *cobra.Command, args []string) {
		runDaemon()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Run: func(cmd *cobra.Command, args []string) {
		showStatus()
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the window index",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		searchWindows(query)
	},
}

var (
	jumpPull   bool
	jumpHandle uint64
)

var jumpCmd = &cobra.Command{
	Use:   "jump [query]",
	Short: "Focus the best-matching window",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		jumpWindow(query)
	},
}

var switchCmd = &cobra.Command{
	Use:   "switch-desktop <desktop-guid>",
	Short: "Switch to a virtual desktop by id",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		switchDesktop(args[0])
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the daemon's config file",
	Run: func(cmd *cobra.Command, args []string) {
		reloadConfig()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("winhop v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is %APPDATA%\\winhop\\winhop.yaml)")

	jumpCmd.Flags().BoolVar(&jumpPull, "pull", false, "pull the window to the current desktop instead of switching")
	jumpCmd.Flags().Uint64Var(&jumpHandle, "handle", 0, "jump by window handle instead of query")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(jumpCmd)
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(reloadCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	result := cfg.ValidateTiered()
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "config: %v\n", w)
	}
	if result.HasFatals() {
		for _, f := range result.Fatals {
			fmt.Fprintf(os.Stderr, "config: %v\n", f)
		}
		os.Exit(1)
	}
	return cfg
}

func runDaemon() {
	cfg := loadConfig()

	logging.Init(cfg.LogFormat, cfg.LogLevel, logOutput(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := daemon.New(cfg, version).Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "daemon: %v\n", err)
		os.Exit(1)
	}
}

func logOutput(cfg *config.Config) io.Writer {
	if cfg.LogFile == "" {
		return os.Stderr
	}
	w, err := logging.NewRotatingWriter(cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file unavailable, logging to stderr: %v\n", err)
		return os.Stderr
	}
	return w
}

func unmarshalReply(reply *ipc.Envelope, out any) error {
	return json.Unmarshal(reply.Payload, out)
}

func showStatus() {
	cfg := loadConfig()

	reply, err := ipc.Call(cfg.PipeName, ipc.TypeStatus, nil, callTimeout)
	if err != nil {
		fmt.Println("Status: daemon not running")
		return
	}

	var res ipc.StatusResult
	if err := unmarshalReply(reply, &res); err != nil {
		fmt.Fprintf(os.Stderr, "bad status reply: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Status: running")
	fmt.Printf("Version: %s\n", res.Version)
	fmt.Printf("Uptime: %s\n", (time.Duration(res.UptimeSeconds) * time.Second).String())
	fmt.Printf("Indexed windows: %d\n", res.Windows)
	fmt.Printf("Virtual desktops: %v\n", res.Desktops)
	if len(res.Captures) > 0 {
		fmt.Println("Captures:")
		for _, c := range res.Captures {
			fmt.Printf("  %-12s %s\n", c.Slot, c.Title)
		}
	}
	if len(res.Bindings) > 0 {
		fmt.Println("Hotkeys:")
		for _, b := range res.Bindings {
			fmt.Printf("  %s\n", b)
		}
	}
}

func searchWindows(query string) {
	cfg := loadConfig()

	reply, err := ipc.Call(cfg.PipeName, ipc.TypeSearch, ipc.SearchRequest{Query: query}, callTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search: %v\n", err)
		os.Exit(1)
	}

	var res ipc.SearchResult
	if err := unmarshalReply(reply, &res); err != nil {
		fmt.Fprintf(os.Stderr, "bad search reply: %v\n", err)
		os.Exit(1)
	}

	for _, w := range res.Windows {
		marker := " "
		if w.OnCurrent {
			marker = "*"
		}
		fmt.Printf("%s %-10d %-20s %s\n", marker, w.Handle, w.Process, w.Title)
	}
}

func jumpWindow(query string) {
	cfg := loadConfig()

	req := ipc.JumpRequest{Query: query, Handle: jumpHandle, Pull: jumpPull}
	reply, err := ipc.Call(cfg.PipeName, ipc.TypeJump, req, callTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jump: %v\n", err)
		os.Exit(1)
	}

	var res ipc.JumpResult
	if err := unmarshalReply(reply, &res); err != nil {
		fmt.Fprintf(os.Stderr, "bad jump reply: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Focused: %s\n", res.Window.Title)
}

func switchDesktop(guid string) {
	cfg := loadConfig()

	if _, err := ipc.Call(cfg.PipeName, ipc.TypeSwitchDesktop, ipc.SwitchDesktopRequest{Desktop: guid}, callTimeout); err != nil {
		fmt.Fprintf(os.Stderr, "switch-desktop: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Switched.")
}

func reloadConfig() {
	cfg := loadConfig()

	reply, err := ipc.Call(cfg.PipeName, ipc.TypeReload, nil, callTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reload: %v\n", err)
		os.Exit(1)
	}

	var res map[string][]string
	if err := unmarshalReply(reply, &res); err == nil {
		for _, w := range res["warnings"] {
			fmt.Fprintf(os.Stderr, "config: %s\n", w)
		}
	}
	fmt.Println("Reloaded.")
}

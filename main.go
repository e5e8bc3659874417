package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	simtop "github.com/jondoveston/simtop/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "simtop",
	Short: "Terminal dashboard of simulated CPU, memory, disk and GPU utilization",
	Long: `simtop draws four live charts of simulated resource utilization, each a
bounded random walk over a rolling 30 second window, updated once a second.

With --listen the same samples are also served as Prometheus metrics and a
websocket stream.

Examples:
  simtop
  simtop --renderer termui
  simtop --renderer headless --listen :9464 --seed 42
  SIMTOP_CAPACITY=60 simtop`,
	Args:          cobra.NoArgs,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var peekCmd = &cobra.Command{
	Use:   "peek [url]",
	Short: "Print the current readings of a running simtop exporter",
	Example: `  simtop peek localhost:9464
  simtop peek http://dash.lan:9464/metrics`,
	Args: cobra.MaximumNArgs(1),
	RunE: peek,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  printConfig,
}

// flagKeys maps viper keys to the flags that set them
var flagKeys = map[string]string{
	"renderer":           "renderer",
	"interval":           "interval",
	"capacity":           "capacity",
	"seed":               "seed",
	"listen":             "listen",
	"animation.duration": "animation-duration",
	"animation.easing":   "animation-easing",
	"log.level":          "log-level",
	"log.file":           "log-file",
}

func init() {
	rootCmd.AddCommand(peekCmd, configCmd)

	// Define flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.config/simtop/simtop.yaml)")
	flags.String("renderer", simtop.RendererTUI, "renderer: tui, termui or headless")
	flags.Duration("interval", simtop.UpdateDuration(), "time between updates")
	flags.Int("capacity", simtop.WINDOW_CAPACITY, "samples visible in each chart")
	flags.Uint64("seed", 0, "random seed, 0 picks one per run")
	flags.String("listen", "", "serve /metrics and /ws on this host:port")
	flags.Duration("animation-duration", simtop.AnimationDuration(), "chart transition length, 0 disables")
	flags.String("animation-easing", simtop.EasingLinear, "chart transition easing: linear or spring")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-file", "", "write logs to this file")
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	// Bind flags to Viper keys
	for key, flag := range flagKeys {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			log.Fatalf("failed to bind %s: %v", key, err)
		}
	}

	// Configure Viper for environment variables (animation.easing -> SIMTOP_ANIMATION_EASING)
	viper.SetEnvPrefix("simtop")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// envOverrides makes environment variables win over flags, as they did
// before a config file was involved.
func envOverrides() {
	for key := range flagKeys {
		name := "SIMTOP_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if value := os.Getenv(name); value != "" {
			viper.Set(key, value)
		}
	}
}

func loadConfig(cmd *cobra.Command) (*simtop.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if err := simtop.ReadConfigFile(viper.GetViper(), path); err != nil {
		return nil, err
	}
	envOverrides()
	return simtop.LoadConfig(viper.GetViper())
}

func run(cmd *cobra.Command, args []string) error {
	// Handle --version flag first
	if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
		fmt.Printf("simtop version %s\n", version)
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the terminal renderers own the screen, so only headless logs to stderr
	var fallback io.Writer = io.Discard
	if cfg.Renderer == simtop.RendererHeadless {
		fallback = os.Stderr
	}
	logger, closeLog, err := simtop.NewLogger(cfg.Log, fallback)
	if err != nil {
		return err
	}
	defer closeLog()

	gin.SetMode(gin.ReleaseMode)

	logger.Info("starting simtop", "version", version, "renderer", cfg.Renderer, "capacity", cfg.Capacity, "seed", cfg.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := simtop.Run(ctx, cfg, logger); err != nil {
		logger.Error("simtop stopped", "error", err)
		return err
	}
	logger.Info("simtop stopped")
	return nil
}

func peek(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	target := cfg.Listen
	if len(args) == 1 {
		target = args[0]
	}
	if target == "" {
		return fmt.Errorf("no exporter address: pass a url or set listen")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	readings, err := simtop.Peek(ctx, nil, target)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), simtop.RenderPeek(readings))
	return nil
}

func printConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/stratawm/strata"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "strata",
		Short:        "strata is a tiling Wayland compositor",
		Version:      fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetReportTimestamp(true)
			log.SetTimeFormat("15:04:05.00")
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.AddCommand(runCommand(), checkConfigCommand())
	return root
}

func checkConfigCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "check-config",
		Short: "Validate the configuration file and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := strata.LoadConfig(path)
			if err != nil {
				return err
			}
			log.Info("config ok",
				"policy", cfg.Policy,
				"inner_gap", cfg.InnerGap,
				"outer_gap", cfg.OuterGap,
				"deadline", cfg.TransactionDeadline())
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", defaultConfigPath(), "config file path")
	return cmd
}

func runCommand() *cobra.Command {
	var (
		path    string
		demo    int
		width   int
		height  int
		headful bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the compositor layout core",
		Long: `Run starts the event loop and layout core. Protocol frontends
(the Wayland server, Xwayland bridge, and RPC plane) attach to the running
core; --demo drives it with headless windows instead, which is useful for
exercising layout policies without a session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := strata.DefaultConfig()
			if loaded, err := strata.LoadConfig(path); err == nil {
				cfg = loaded
			} else if !os.IsNotExist(unwrapAll(err)) {
				return err
			}

			policy, err := strata.PolicyByName(cfg.Policy)
			if err != nil {
				return err
			}

			loop := strata.NewLoop()
			core := strata.NewCore(loop, cfg, policy)

			out := strata.NewOutput("headless-1")
			out.SetGeometry(strata.NewRect(0, 0, width, height))
			out.SetActiveTags("1")
			core.AddOutput(out)

			stopWatch, err := strata.WatchConfig(path, loop, func(next *strata.Config) {
				*cfg = *next
				core.RequestLayout(out)
			})
			if err != nil {
				log.Debug("config watch disabled", "err", err)
			} else {
				defer stopWatch()
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigCh
				loop.QueueUpdate(loop.Stop)
			}()

			if demo > 0 {
				loop.QueueUpdate(func() { spawnDemoWindows(core, out, loop, demo) })
			}
			_ = headful // reserved for the session frontend

			log.Info("layout core running",
				"output", out.Name(), "policy", cfg.Policy, "demo_windows", demo)
			return loop.Run()
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", defaultConfigPath(), "config file path")
	cmd.Flags().IntVar(&demo, "demo", 0, "spawn N headless demo windows")
	cmd.Flags().IntVar(&width, "width", 1920, "headless output width")
	cmd.Flags().IntVar(&height, "height", 1080, "headless output height")
	cmd.Flags().BoolVar(&headful, "session", false, "attach to a real session (requires frontends)")
	return cmd
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + "/strata/strata.toml"
	}
	return "strata.toml"
}

// unwrapAll digs to the root cause so os.IsNotExist sees the syscall error.
func unwrapAll(err error) error {
	type unwrapper interface{ Unwrap() error }
	for {
		u, ok := err.(unwrapper)
		if !ok {
			return err
		}
		next := u.Unwrap()
		if next == nil {
			return err
		}
		err = next
	}
}

// demoSurface is a headless Wayland-native client that acknowledges every
// configure on the next loop iteration, mimicking a well-behaved client.
type demoSurface struct {
	loop   *strata.Loop
	win    *strata.Window
	serial strata.Serial
}

func (d *demoSurface) Configure(rect strata.Rect) (strata.Serial, bool) {
	d.serial++
	serial := d.serial
	log.Info("configure", "window", d.win.ID(), "rect", rect, "serial", serial)
	d.loop.QueueUpdate(func() { d.win.AckConfigure(serial) })
	return serial, true
}

func (d *demoSurface) Alive() bool { return true }

func spawnDemoWindows(core *strata.Core, out *strata.Output, loop *strata.Loop, n int) {
	for i := 0; i < n; i++ {
		surface := &demoSurface{loop: loop}
		win := strata.NewXDGWindow(surface)
		surface.win = win
		core.AddWindow(win, out, "1")
		// Stagger maps slightly so the demo log shows incremental re-tiling.
		time.Sleep(time.Millisecond)
	}
}

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tobiaswallner/rtfiber"
	"github.com/tobiaswallner/rtfiber/bumpalloc"
	"github.com/tobiaswallner/rtfiber/logifacelog"
)

var rootCmd = &cobra.Command{
	Use:   "rtfiberdemo",
	Short: "Runs a cooperative fiber scheduler against a YAML task scenario.",
	RunE: func(cmd *cobra.Command, args []string) error {
		scen, err := loadScenario(viper.GetString("scenario"))
		if err != nil {
			return err
		}

		arena := bumpalloc.NewArena(uintptr(viper.GetInt("arena-bytes")))
		logger := logifacelog.New(os.Stderr)

		sched, err := rtfiber.NewScheduler(
			rtfiber.WithCapacity(scen.Capacity),
			rtfiber.WithFrameAllocator(arena),
			rtfiber.WithLogger(logger),
			rtfiber.WithMetrics(true),
		)
		if err != nil {
			return fmt.Errorf("rtfiberdemo: constructing scheduler: %w", err)
		}

		now := time.Now()
		for _, st := range scen.Tasks {
			if err := admitScenarioTask(sched, st, now); err != nil {
				return fmt.Errorf("rtfiberdemo: admitting task %q: %w", st.Name, err)
			}
		}

		registry := prometheus.NewRegistry()
		exporter := newPromExporter(registry, sched)
		addr := viper.GetString("metrics-addr")
		srv := &http.Server{Addr: addr, Handler: exporter.handler(registry)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "rtfiberdemo: metrics server: %v\n", err)
			}
		}()
		fmt.Printf("rtfiberdemo: metrics at http://%s/metrics\n", addr)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		tick := time.NewTicker(time.Millisecond)
		defer tick.Stop()
		for {
			select {
			case <-sig:
				fmt.Println("rtfiberdemo: shutting down")
				sched.Shutdown()
				_ = srv.Close()
				return nil
			case <-tick.C:
				sched.Spin()
				if sched.IsDone() {
					fmt.Println("rtfiberdemo: all tasks retired")
					_ = srv.Close()
					return nil
				}
			}
		}
	},
}

// admitScenarioTask builds a RealTimeTask whose Generator busy-waits for
// st.Work to simulate a workload, then yields per st.Kind, and admits it.
func admitScenarioTask(sched *rtfiber.Scheduler, st scenarioTask, now time.Time) error {
	var strategy rtfiber.ScheduleStrategy
	switch st.Kind {
	case "periodic":
		strategy = rtfiber.PeriodicStrategy{Period: st.Period, RelDeadline: st.RelDeadline}
	case "soft-periodic":
		strategy = &rtfiber.SoftPeriodicStrategy{Period: st.Period, RelDeadline: st.RelDeadline}
	default:
		strategy = rtfiber.DefaultStrategy{}
	}

	work := st.Work
	task := rtfiber.NewRealTimeTask(
		st.Name,
		nil,
		rtfiber.Schedule{Ready: now, Deadline: now.Add(st.RelDeadline)},
		strategy,
		func(ctx *rtfiber.Context) {
			for {
				busyWait(work)
				rtfiber.AwaitOn(ctx, rtfiber.NewNextCycleAwaitable())
			}
		},
	)
	return sched.Add(task)
}

func busyWait(d time.Duration) {
	if d <= 0 {
		return
	}
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}

func init() {
	viper.SetDefault("scenario", "cmd/rtfiberdemo/scenarios/blink.yaml")
	viper.SetDefault("metrics-addr", ":9090")
	viper.SetDefault("arena-bytes", 1<<20)

	rootCmd.Flags().String("scenario", viper.GetString("scenario"), "path to a YAML scenario fixture")
	rootCmd.Flags().String("metrics-addr", viper.GetString("metrics-addr"), "address to serve Prometheus metrics on")
	rootCmd.Flags().Int("arena-bytes", viper.GetInt("arena-bytes"), "size of the bump-allocated frame arena")

	for _, name := range []string{"scenario", "metrics-addr", "arena-bytes"} {
		if err := viper.BindPFlag(name, rootCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("rtfiber")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

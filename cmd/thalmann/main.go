// Command thalmann is a small CLI front end over the decompression
// engine: it loads a YAML dive configuration, then either prints the
// resulting decompression schedule or drives the real-time loop against
// the system clock. The core engine has no CLI, wire format or persisted
// state of its own; this command is an outer, optional consumer.
// Grounded on the san-kum-dynsim example's cmd/dynsim/main.go for Cobra
// command layout and on spatialmodel-inmap's use of logrus for
// structured logging.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/divetools/thalmann/config"
	"github.com/divetools/thalmann/display"
	"github.com/divetools/thalmann/driver"
	"github.com/divetools/thalmann/gas"
	"github.com/divetools/thalmann/loading"
	"github.com/divetools/thalmann/pressure"
	"github.com/divetools/thalmann/schedule"
	"github.com/divetools/thalmann/tissue"
)

var (
	configFile string
	log        = logrus.New()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "thalmann",
		Short: "Navy Thalmann/MPTT decompression schedule tool",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "dive config file path (yaml)")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "print the decompression schedule for the configured dive",
		RunE:  runSchedule,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "drive the real-time decompression loop against the system clock",
		RunE:  runRealtime,
	}

	rootCmd.AddCommand(scheduleCmd, runCmd)

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(configFile)
}

func breathingGas(cfg *config.Config) (gas.Mix, error) {
	return gas.NewMix(cfg.Gas.FO2, cfg.Gas.FHe, cfg.Gas.FH2)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	mix, err := breathingGas(cfg)
	if err != nil {
		return fmt.Errorf("building breathing gas: %w", err)
	}

	mValues := tissue.SetM(cfg.MValueMode)
	l := loading.AtSurface(mix, pressure.Bar(1.0).ToPa())
	loading.Update(&l, mix, &mValues, pressure.Msw(cfg.MaxDepth), 40*time.Minute)

	sched, err := schedule.CalcDecoSchedule(&l, mix, &mValues)
	if err != nil {
		log.WithError(err).WithField("max_depth_msw", cfg.MaxDepth).Error("schedule solve failed")
		return err
	}

	log.WithFields(logrus.Fields{
		"max_depth_msw": cfg.MaxDepth,
		"num_stops":     sched.NumUsed,
	}).Info("schedule computed")

	for i := 0; i < sched.NumUsed; i++ {
		s := sched.Stops[i]
		fmt.Printf("%6.1f msw  %s\n", float64(s.Depth), display.ShowDuration(s.Duration))
	}
	fmt.Printf("total time to surface: %s\n", display.ShowDuration(sched.TTS))

	return nil
}

func runRealtime(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	mix, err := breathingGas(cfg)
	if err != nil {
		return fmt.Errorf("building breathing gas: %w", err)
	}

	mValues := tissue.SetM(cfg.MValueMode)
	l := loading.AtSurface(mix, pressure.Bar(1.0).ToPa())

	clock := driver.NewSystemClock()
	outcome, err := driver.Run(&l, pressure.Msw(cfg.MaxDepth), mix, &mValues, clock, driver.PlaceholderDepthSampler{})
	if err != nil {
		log.WithError(err).Error("driver run failed")
		return err
	}

	log.WithFields(logrus.Fields{
		"iterations": outcome.Iterations,
		"reason":     outcome.Reason,
	}).Info("driver finished")

	return nil
}

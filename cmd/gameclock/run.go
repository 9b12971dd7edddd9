package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/frostline/gameclock/clock"
	"github.com/frostline/gameclock/monitoring"
	"github.com/frostline/gameclock/recording"
)

var (
	flagFrames        int
	flagDelta         float64
	flagSpeed         float32
	flagTickRate      float64
	flagSecondsPerDay float64
	flagMonitorPort   int
	flagBrowser       bool
	flagRecordPath    string
	flagRealtime      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a clock session for a fixed number of frames.",
	RunE:  runSession,
}

func init() {
	runCmd.Flags().IntVar(&flagFrames, "frames", 1000,
		"number of frames to simulate")
	runCmd.Flags().Float64Var(&flagDelta, "delta", 1.0/60.0,
		"unscaled seconds per frame")
	runCmd.Flags().Float32Var(&flagSpeed, "speed", 1.0,
		"initial time speed multiplier")
	runCmd.Flags().Float64Var(&flagTickRate, "tick-rate",
		envFloat("GAMECLOCK_TICK_RATE", float64(clock.DefaultTickRate)),
		"simulation ticks per game second")
	runCmd.Flags().Float64Var(&flagSecondsPerDay, "seconds-per-day",
		envFloat("GAMECLOCK_SECONDS_PER_DAY", clock.DefaultSecondsPerDay),
		"game seconds per calendar day")
	runCmd.Flags().IntVar(&flagMonitorPort, "monitor", 0,
		"start the monitoring server on this port")
	runCmd.Flags().BoolVar(&flagBrowser, "browser", false,
		"open the monitoring dashboard in a browser")
	runCmd.Flags().StringVar(&flagRecordPath, "record", "",
		"record the session into this SQLite database")
	runCmd.Flags().BoolVar(&flagRealtime, "realtime", false,
		"sleep the frame delta between frames")

	rootCmd.AddCommand(runCmd)
}

func runSession(_ *cobra.Command, _ []string) error {
	logger := log.New(os.Stderr, "gameclock: ", log.LstdFlags)

	c := clock.New(clock.Config{
		TickRate:      clock.TickRate(flagTickRate),
		SecondsPerDay: flagSecondsPerDay,
		InitialSpeed:  flagSpeed,
		Logger:        logger,
	})

	c.SubscribeDayChanged(func(oldDay, newDay int) {
		logger.Printf("day %d -> %d", oldDay, newDay)
	})
	c.SubscribePhaseChanged(func(oldPhase, newPhase clock.Phase) {
		logger.Printf("phase %s -> %s", oldPhase, newPhase)
	})
	c.SubscribeYearRollover(func(years int) {
		logger.Printf("year %d completed", years)
	})

	scheduleDemoEvents(c, logger)

	var sessionRecorder *recording.SessionRecorder
	if flagRecordPath != "" {
		recorder := recording.New(flagRecordPath)
		sessionRecorder = recording.NewSessionRecorder(recorder, c)
	}

	if flagMonitorPort != 0 {
		monitor := monitoring.NewMonitor().WithPortNumber(flagMonitorPort)
		if flagBrowser {
			monitor = monitor.WithBrowser()
		}
		monitor.RegisterClock(c)
		monitor.StartServer()
	}

	for i := 0; i < flagFrames; i++ {
		if err := c.Advance(clock.RealTimeInSec(flagDelta)); err != nil {
			return err
		}

		if flagRealtime {
			time.Sleep(time.Duration(flagDelta * float64(time.Second)))
		}
	}

	if sessionRecorder != nil {
		sessionRecorder.Stop()
	}

	fmt.Printf("simulated %d frames: game time %.3fs, day %d (%s), %d ticks/s\n",
		flagFrames, float64(c.Now()), c.Day(), c.CurrentPhase(),
		int(flagTickRate))

	return nil
}

func scheduleDemoEvents(c *clock.Clock, logger *log.Logger) {
	c.ScheduleEvent(5.0, clock.CallbackFunc(
		func(now clock.GameTimeInSec) error {
			logger.Printf("delayed event fired at %.3f", now)
			return nil
		}))

	c.ScheduleEventAtDay(2, clock.CallbackFunc(
		func(now clock.GameTimeInSec) error {
			logger.Printf("day-2 event fired at %.3f", now)
			return nil
		}))
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}

	return v
}

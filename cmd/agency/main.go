package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"AgencyEngine/internal/config"
	"AgencyEngine/internal/events"
	"AgencyEngine/internal/game"
	"AgencyEngine/internal/ledger"
	"AgencyEngine/internal/notifier"
	"AgencyEngine/internal/recorder"
	"AgencyEngine/internal/state"
)

func main() {
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}

	if err := newRootCmd(cfgPath).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(cfgPath string) *cobra.Command {
	root := &cobra.Command{
		Use:          "agency",
		Short:        "Football agency economy simulation",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", cfgPath, "path to the YAML config")

	root.AddCommand(
		newRunCmd(&cfgPath),
		newSimulateCmd(&cfgPath),
		newReportCmd(&cfgPath),
		newHireCmd(&cfgPath),
		newMissionCmd(&cfgPath),
		newOfferCmd(&cfgPath),
		newEventCmd(&cfgPath),
		newDismissCmd(&cfgPath),
		newOfficeCmd(&cfgPath),
		newPauseCmd(&cfgPath),
		newResumeCmd(&cfgPath),
	)
	return root
}

// session is a loaded game with its subscribers attached.
type session struct {
	cfg *config.Config
	log zerolog.Logger
	g   *game.Game
	rec recorder.Recorder
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Log.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// open loads config and the saved game, falling back to the recorder's
// newest snapshot and then to a new game. The recorder and, when console is
// set, the console notifier are wired to the bus first.
func open(cfgPath string, console bool) (*session, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	log := newLogger(cfg, os.Stderr)

	bus := events.NewBus(log)
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("Init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}
	recorder.Subscribe(bus, rec, log)
	if console {
		notifier.NewConsole(os.Stdout).Subscribe(bus)
	}

	g, err := game.Load(cfg, rec, bus, log)
	if err != nil {
		rec.Close()
		return nil, err
	}
	return &session{cfg: cfg, log: log, g: g, rec: rec}, nil
}

// save writes the state file and stores a packed copy in the recorder.
func (s *session) save() error {
	snap, err := s.g.Snapshot()
	if err != nil {
		return err
	}
	if err := state.Save(s.cfg.StateFile, snap); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	blob, err := state.Encode(snap)
	if err != nil {
		return err
	}
	if err := s.rec.SaveSnapshot(snap.Clock.CurrentDate, blob); err != nil {
		s.log.Warn().Err(err).Msg("Failed to record snapshot")
	}
	s.log.Info().Str("path", s.cfg.StateFile).Time("date", snap.Clock.CurrentDate).Msg("Game saved")
	return nil
}

func (s *session) close() {
	if err := s.rec.Close(); err != nil {
		s.log.Warn().Err(err).Msg("Close recorder")
	}
}

func newRunCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the game in real time until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(*cfgPath, true)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.g.Scheduler.Start(s.cfg.Game.TickCron); err != nil {
				return err
			}
			s.log.Info().Str("tick", s.cfg.Game.TickCron).Msg("Agency is running. Press Ctrl+C to stop.")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			s.log.Info().Msg("Shutdown signal received, stopping...")
			s.g.Scheduler.Stop()
			return s.save()
		},
	}
}

func newSimulateCmd(cfgPath *string) *cobra.Command {
	var (
		days   int
		quiet  bool
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Fast-forward the game and print a ledger report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}
			s, err := open(*cfgPath, !quiet)
			if err != nil {
				return err
			}
			defer s.close()

			start := s.g.Clock.Today()
			for range days {
				if _, ok := s.g.Scheduler.AdvanceDay(); !ok {
					return fmt.Errorf("game is paused")
				}
			}
			end := s.g.Clock.Today()

			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), notifier.FormatReport(s.g.Ledger.GenerateReport(start, end, ledger.PeriodCustom)))
			if dryRun {
				return nil
			}
			return s.save()
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "simulated days to advance")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "do not print events")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "do not save the resulting state")
	return cmd
}

func newReportCmd(cfgPath *string) *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show agency status and a ledger report",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(*cfgPath, false)
			if err != nil {
				return err
			}
			defer s.close()

			end := s.g.Clock.Today()
			var start time.Time
			p := ledger.Period(strings.ToUpper(period))
			switch p {
			case ledger.PeriodWeekly:
				start = end.AddDate(0, 0, -7)
			case ledger.PeriodMonthly:
				start = end.AddDate(0, -1, 0)
			case ledger.PeriodQuarterly:
				start = end.AddDate(0, -3, 0)
			case ledger.PeriodYearly:
				start = end.AddDate(-1, 0, 0)
			default:
				return fmt.Errorf("unknown period %q", period)
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, notifier.FormatStatus(s.g.Clock.State(), s.g.Ledger.Treasury(), s.g.Scouting.Scouts(), s.g.Transfers.Offers(), s.g.Transfers.Reputation()))
			fmt.Fprintln(out)
			fmt.Fprint(out, notifier.FormatReport(s.g.Ledger.GenerateReport(start, end, p)))

			sr, ok := s.rec.(*recorder.SQLiteRecorder)
			if !ok {
				return nil
			}
			totals, err := sr.CategoryTotals(start, end.AddDate(0, 0, 1))
			if err != nil {
				return fmt.Errorf("query category totals: %w", err)
			}
			counts, err := sr.EventCounts()
			if err != nil {
				return fmt.Errorf("query event counts: %w", err)
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, notifier.FormatHistory(totals, counts))
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", string(ledger.PeriodMonthly), "WEEKLY, MONTHLY, QUARTERLY or YEARLY")
	return cmd
}

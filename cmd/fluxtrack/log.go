package main

import (
	"errors"
	"fmt"

	"github.com/2beens/fluxtrack/internal/dailylog"

	"github.com/spf13/cobra"
)

func logCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "manage today's daily log",
	}

	cmd.AddCommand(logShowCmd())
	cmd.AddCommand(logCreateCmd())
	cmd.AddCommand(logEditCmd())
	cmd.AddCommand(logTrainCmd())
	cmd.AddCommand(logDeleteCmd())

	return cmd
}

func logShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "show today's log",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			dailyLog, err := a.logStore.Load(cmd.Context())
			if err != nil {
				return err
			}
			if dailyLog == nil {
				fmt.Println("no log for today yet")
				return nil
			}

			printLog(dailyLog)
			return nil
		},
	}
}

func logFlags(cmd *cobra.Command, weight, sleep *float64, sessions *string) {
	cmd.Flags().Float64Var(weight, "weight", 0, "morning weight in kg")
	cmd.Flags().Float64Var(sleep, "sleep", 0, "hours slept")
	cmd.Flags().StringVar(sessions, "train", "", "planned sessions, e.g. run:30,lift:45")
}

func logCreateCmd() *cobra.Command {
	var (
		weight   float64
		sleep    float64
		sessions string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "create today's log",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			planned, err := parseSessions(sessions)
			if err != nil {
				return err
			}

			dailyLog, err := a.logStore.Create(cmd.Context(), dailylog.CreateRequest{
				Date:            today(),
				WeightKg:        weight,
				SleepHours:      sleep,
				PlannedTraining: planned,
			})
			if err != nil {
				return err
			}

			printLog(dailyLog)
			return nil
		},
	}

	logFlags(cmd, &weight, &sleep, &sessions)
	return cmd
}

func logEditCmd() *cobra.Command {
	var (
		weight   float64
		sleep    float64
		sessions string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "replace today's log, keeping recorded training",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if _, err := a.logStore.Load(cmd.Context()); err != nil {
				return err
			}

			planned, err := parseSessions(sessions)
			if err != nil {
				return err
			}

			dailyLog, err := a.logStore.Replace(cmd.Context(), dailylog.CreateRequest{
				Date:            today(),
				WeightKg:        weight,
				SleepHours:      sleep,
				PlannedTraining: planned,
			})

			var replaceErr *dailylog.ReplaceError
			if errors.As(err, &replaceErr) && replaceErr.Partial() {
				// the log itself made it, only the training restore failed
				fmt.Printf("warning: %s\n", replaceErr)
				printLog(dailyLog)
				return nil
			}
			if err != nil {
				return err
			}

			printLog(dailyLog)
			return nil
		},
	}

	logFlags(cmd, &weight, &sleep, &sessions)
	return cmd
}

func logTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train <sessions>",
		Short: "record actual training, e.g. run:30:7,lift:45:8",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if _, err := a.logStore.Load(cmd.Context()); err != nil {
				return err
			}

			sessions, err := parseActualSessions(args[0])
			if err != nil {
				return err
			}

			dailyLog, err := a.logStore.UpdateActual(cmd.Context(), sessions)
			if err != nil {
				return err
			}
			if dailyLog == nil {
				fmt.Println("no log for today yet, create one first")
				return nil
			}

			printLog(dailyLog)
			return nil
		},
	}
}

func logDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "delete today's log",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if err := a.logStore.Delete(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("today's log deleted")
			return nil
		},
	}
}

func printLog(dailyLog *dailylog.DailyLog) {
	fmt.Printf("log %s (%s)\n", dailyLog.Date, dailyLog.ID)
	fmt.Printf("  weight: %.1f kg, sleep: %.1f h\n", dailyLog.WeightKg, dailyLog.SleepHours)
	if dailyLog.Targets != nil {
		fmt.Printf("  targets: %d kcal (%dP/%dC/%dF), water %d ml, %s day\n",
			dailyLog.Targets.Calories,
			dailyLog.Targets.ProteinG, dailyLog.Targets.CarbsG, dailyLog.Targets.FatG,
			dailyLog.Targets.WaterMl, dailyLog.Targets.DayType,
		)
	}
	for _, s := range dailyLog.PlannedTraining {
		fmt.Printf("  planned: %s %d min %s\n", s.Type, s.DurationMin, s.Notes)
	}
	for _, s := range dailyLog.ActualTraining {
		fmt.Printf("  done #%d: %s %d min, intensity %d\n",
			s.SessionOrder, s.Type, s.DurationMin, s.PerceivedIntensity)
	}
}

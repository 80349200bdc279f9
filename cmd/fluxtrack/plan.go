package main

import (
	"context"
	"fmt"

	"github.com/2beens/fluxtrack/internal/api"
	"github.com/2beens/fluxtrack/internal/plan"

	"github.com/spf13/cobra"
)

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "manage the nutrition plan",
	}

	cmd.AddCommand(planShowCmd())
	cmd.AddCommand(planCreateCmd())
	cmd.AddCommand(planTransitionCmd("complete", "mark the active plan completed", (*plan.Store).Complete))
	cmd.AddCommand(planTransitionCmd("abandon", "abandon the active plan", (*plan.Store).Abandon))
	cmd.AddCommand(planTransitionCmd("pause", "pause the active plan", (*plan.Store).Pause))
	cmd.AddCommand(planTransitionCmd("resume", "resume the paused plan", (*plan.Store).Resume))
	cmd.AddCommand(planRecalibrateCmd())
	cmd.AddCommand(planWeekCmd())

	return cmd
}

func planShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "show the current plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			currentPlan, err := a.planStore.Load(cmd.Context())
			if err != nil {
				return err
			}
			if currentPlan == nil {
				fmt.Println("no plan, create one with: fluxtrack plan create")
				return nil
			}

			printPlan(currentPlan)
			return nil
		},
	}
}

func planCreateCmd() *cobra.Command {
	var (
		startWeight  float64
		targetWeight float64
		weeks        int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "start a new plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if ok := a.planStore.Create(cmd.Context(), api.CreatePlanRequest{
				StartWeightKg:  startWeight,
				TargetWeightKg: targetWeight,
				DurationWeeks:  weeks,
			}); !ok {
				return fmt.Errorf("create plan: %w", a.planStore.Snapshot().Err)
			}

			printPlan(a.planStore.Snapshot().Plan)
			return nil
		},
	}

	cmd.Flags().Float64Var(&startWeight, "start", 0, "current weight in kg")
	cmd.Flags().Float64Var(&targetWeight, "target", 0, "target weight in kg")
	cmd.Flags().IntVar(&weeks, "weeks", 12, "plan duration in weeks")
	return cmd
}

func planTransitionCmd(
	name, short string,
	action func(s *plan.Store, ctx context.Context) bool,
) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if _, err := a.planStore.Load(cmd.Context()); err != nil {
				return err
			}

			if ok := action(a.planStore, cmd.Context()); !ok {
				state := a.planStore.Snapshot()
				if state.Err != nil {
					return fmt.Errorf("plan %s: %w", name, state.Err)
				}
				return fmt.Errorf("plan %s not possible right now", name)
			}

			if p := a.planStore.Snapshot().Plan; p != nil {
				printPlan(p)
			} else {
				fmt.Printf("done, no current plan anymore (%s)\n", name)
			}
			return nil
		},
	}
}

func planRecalibrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalibrate <option>",
		Short: "adjust plan targets: increase_deficit | extend_timeline | revise_goal | keep_current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if _, err := a.planStore.Load(cmd.Context()); err != nil {
				return err
			}

			if ok := a.planStore.Recalibrate(cmd.Context(), api.RecalibrationOption(args[0])); !ok {
				state := a.planStore.Snapshot()
				if state.Err != nil {
					return fmt.Errorf("recalibrate: %w", state.Err)
				}
				return fmt.Errorf("recalibration not possible right now")
			}

			printPlan(a.planStore.Snapshot().Plan)
			return nil
		},
	}
}

func planWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "show this week's target",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			target, err := a.planStore.CurrentWeekTarget(cmd.Context())
			if err != nil {
				return err
			}
			if target == nil {
				fmt.Println("no plan covers the current week")
				return nil
			}

			fmt.Printf("week %d: target %.1f kg, %d kcal (deficit %d)\n",
				target.Week, target.TargetWeightKg, target.Calories, target.DeficitKcal)
			return nil
		},
	}
}

func printPlan(p *api.Plan) {
	fmt.Printf("plan %s [%s]\n", p.ID, p.Status)
	fmt.Printf("  %.1f kg -> %.1f kg over %d weeks\n", p.StartWeightKg, p.TargetWeightKg, p.DurationWeeks)
	fmt.Printf("  weekly change: %.2f kg, daily deficit: %d kcal\n", p.WeeklyChangeKg, p.DailyDeficitKcal)
	for _, r := range p.Recalibrations {
		fmt.Printf("  recalibrated (%s): deficit %d -> %d kcal\n",
			r.Option, r.PreviousDeficitKcal, r.NewDeficitKcal)
	}
}

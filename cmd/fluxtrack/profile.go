package main

import (
	"fmt"

	"github.com/2beens/fluxtrack/internal/api"

	"github.com/spf13/cobra"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "manage the user profile",
	}

	cmd.AddCommand(profileShowCmd())
	cmd.AddCommand(profileSetCmd())

	return cmd
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "show the stored profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			profile, err := a.client.GetProfile(cmd.Context())
			if err != nil {
				return err
			}
			if profile == nil {
				fmt.Println("no profile yet, set one with: fluxtrack profile set")
				return nil
			}

			printProfile(profile)
			return nil
		},
	}
}

func profileSetCmd() *cobra.Command {
	var profile api.Profile

	cmd := &cobra.Command{
		Use:   "set",
		Short: "create or update the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			saved, err := a.client.SaveProfile(cmd.Context(), profile)
			if err != nil {
				return err
			}

			printProfile(saved)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile.Sex, "sex", "", "male | female")
	cmd.Flags().IntVar(&profile.Age, "age", 0, "age in years")
	cmd.Flags().Float64Var(&profile.HeightCm, "height", 0, "height in cm")
	cmd.Flags().Float64Var(&profile.WeightKg, "weight", 0, "weight in kg")
	cmd.Flags().StringVar(&profile.ActivityLevel, "activity", "moderate", "sedentary | light | moderate | active | very_active")
	cmd.Flags().Float64Var(&profile.GoalWeightKg, "goal", 0, "goal weight in kg")
	return cmd
}

func printProfile(profile *api.Profile) {
	fmt.Printf("%s, %d years, %.0f cm, %.1f kg, activity: %s\n",
		profile.Sex, profile.Age, profile.HeightCm, profile.WeightKg, profile.ActivityLevel)
	if profile.GoalWeightKg > 0 {
		fmt.Printf("goal weight: %.1f kg\n", profile.GoalWeightKg)
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func notifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "weekly strategy notifications",
	}

	cmd.AddCommand(notifyCheckCmd())
	cmd.AddCommand(notifyDismissCmd())

	return cmd
}

func notifyCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "check for a pending weekly advisory",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			pending, err := a.notificationStore.CheckPending(cmd.Context())
			if err != nil {
				return err
			}
			if pending == nil {
				fmt.Println("no pending notification")
				return nil
			}

			fmt.Printf("notification %s: %s\n", pending.ID, pending.Reason)
			fmt.Printf("  TDEE %d -> %d kcal (%+d)\n",
				pending.PreviousTDEE, pending.NewTDEE, pending.DeltaKcal)
			return nil
		},
	}
}

func notifyDismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss",
		Short: "dismiss the pending weekly advisory",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			pending, err := a.notificationStore.CheckPending(cmd.Context())
			if err != nil {
				return err
			}
			if pending == nil {
				fmt.Println("nothing to dismiss")
				return nil
			}

			// the notification is gone from local state either way, a
			// failed dismissal call only gets reported
			if err := a.notificationStore.Dismiss(cmd.Context(), pending.ID); err != nil {
				fmt.Printf("dismissed locally, but the backend call failed: %s\n", err)
				return nil
			}

			fmt.Println("notification dismissed")
			return nil
		},
	}
}

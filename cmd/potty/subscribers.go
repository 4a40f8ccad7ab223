package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var subscribersCmd = &cobra.Command{
	Use:     "subscribers",
	Short:   "List webhook subscribers",
	GroupID: "subscribers",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		subs, err := pottyClient.ListSubscribers(context.Background())
		if err != nil {
			return fmt.Errorf("listing subscribers: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), subs)
		}
		printSubscriberList(cmd.OutOrStdout(), subs)
		return nil
	},
}

var subscribeCmd = &cobra.Command{
	Use:     "subscribe <url>",
	Short:   "Register a webhook URL for status changes",
	GroupID: "subscribers",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := pottyClient.Subscribe(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("subscribing: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), s)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Subscriber %d registered for %s\n", s.ID, s.URL)
		return nil
	},
}

var unsubscribeCmd = &cobra.Command{
	Use:     "unsubscribe <id>",
	Short:   "Remove a webhook subscriber",
	GroupID: "subscribers",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := pottyClient.Unsubscribe(context.Background(), id); err != nil {
			return fmt.Errorf("removing subscriber %d: %w", id, err)
		}
		if !jsonOutput {
			fmt.Fprintf(cmd.OutOrStdout(), "Subscriber %d removed\n", id)
		}
		return nil
	},
}

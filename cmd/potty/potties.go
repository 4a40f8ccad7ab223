package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/potties/internal/client"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List potties",
	GroupID: "potties",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		potties, err := pottyClient.ListPotties(context.Background(), strings.ToUpper(status))
		if err != nil {
			return fmt.Errorf("listing potties: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), potties)
		}
		printPottyList(cmd.OutOrStdout(), potties)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show a potty",
	GroupID: "potties",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		p, err := pottyClient.GetPotty(context.Background(), id)
		if err != nil {
			return fmt.Errorf("getting potty %d: %w", id, err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), p)
		}
		printPotty(cmd.OutOrStdout(), p)
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:     "create <location>",
	Short:   "Register a new potty",
	GroupID: "potties",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		p, err := pottyClient.CreatePotty(context.Background(), &client.CreatePottyRequest{
			Status:   strings.ToUpper(status),
			Location: strings.ToUpper(args[0]),
		})
		if err != nil {
			return fmt.Errorf("creating potty: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), p)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created potty %d\n", p.ID)
		printPotty(cmd.OutOrStdout(), p)
		return nil
	},
}

var setStatusCmd = &cobra.Command{
	Use:     "set-status <id> <status>",
	Short:   "Change a potty's status and notify subscribers",
	GroupID: "potties",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		p, err := pottyClient.SetStatus(context.Background(), id, strings.ToUpper(args[1]))
		if err != nil {
			return fmt.Errorf("updating potty %d: %w", id, err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), p)
		}
		printPotty(cmd.OutOrStdout(), p)
		return nil
	},
}

func init() {
	listCmd.Flags().String("status", "", "only list potties with this status (OCCUPIED or VACANT)")
	createCmd.Flags().String("status", "VACANT", "initial status (OCCUPIED or VACANT)")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag string
	rootCmd = &cobra.Command{
		Use:   "taskflowctl",
		Short: "CLI client for the TaskFlow telemetry REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Telemetry service base URL")

	// dashboard subcommand
	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the aggregated KPIs and suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(apiFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(dashboardCmd)

	// emit subcommand
	emitCmd := &cobra.Command{
		Use:   "emit",
		Short: "Record one test event and flush it through the client SDK",
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, _ := cmd.Flags().GetString("type")
			user, _ := cmd.Flags().GetString("user")
			token, _ := cmd.Flags().GetString("token")
			return runEmit(apiFlag, typ, user, token, os.Stdout)
		},
	}
	emitCmd.Flags().StringP("type", "t", "nav_switch", "Event type to record")
	emitCmd.Flags().StringP("user", "u", "", "Acting user attached to the event")
	emitCmd.Flags().String("token", "", "Bearer credential for the flush")
	rootCmd.AddCommand(emitCmd)

	// events subcommand
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "List ingested events, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _ := cmd.Flags().GetString("session")
			typ, _ := cmd.Flags().GetString("type")
			limit, _ := cmd.Flags().GetInt("limit")
			return runEvents(apiFlag, session, typ, limit, os.Stdout)
		},
	}
	eventsCmd.Flags().StringP("session", "s", "", "Filter by session identifier")
	eventsCmd.Flags().StringP("type", "t", "", "Filter by event type")
	eventsCmd.Flags().IntP("limit", "n", 0, "Maximum events to list")
	rootCmd.AddCommand(eventsCmd)

	// health subcommand
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(apiFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(healthCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

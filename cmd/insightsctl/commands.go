// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	serverURL   string
	apiKey      string
	exportPath  string
	insightType string

	rootCmd = &cobra.Command{
		Use:   "insightsctl",
		Short: "A cli to administer the Aleutian insights service",
		Long: `insightsctl manages conversation sessions and stored query
results on a running insights service.`,
	}

	// --- Sessions ---
	sessionCmd = &cobra.Command{
		Use:   "session",
		Short: "Manage conversation sessions",
	}
	listSessionsCmd = &cobra.Command{
		Use:   "list",
		Short: "List all sessions",
		Run:   listSessions,
	}
	showSessionCmd = &cobra.Command{
		Use:   "show [session-id]",
		Short: "Show one session with its message history",
		Args:  cobra.ExactArgs(1),
		Run:   showSession,
	}
	deleteSessionCmd = &cobra.Command{
		Use:   "delete [session-id]",
		Short: "Delete a session and its stored result",
		Args:  cobra.ExactArgs(1),
		Run:   deleteSession,
	}
	reportInsightCmd = &cobra.Command{
		Use:   "report [session-id] [message]",
		Short: "Queue a proactive insight against a session",
		Args:  cobra.ExactArgs(2),
		Run:   reportInsight,
	}

	// --- Results ---
	resultCmd = &cobra.Command{
		Use:   "result",
		Short: "Inspect and export stored query results",
	}
	getResultCmd = &cobra.Command{
		Use:   "get [session-id]",
		Short: "Print a session's current result as JSON",
		Args:  cobra.ExactArgs(1),
		Run:   getResult,
	}
	exportResultCmd = &cobra.Command{
		Use:   "export [session-id]",
		Short: "Download a session's result as CSV",
		Args:  cobra.ExactArgs(1),
		Run:   exportResult,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server",
		"http://localhost:12230", "Insights service base URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "",
		"Bearer token for the v1 API (or INSIGHTS_API_KEY)")

	exportResultCmd.Flags().StringVarP(&exportPath, "output", "o", "",
		"Output file path (default: result_<session-id>.csv)")
	reportInsightCmd.Flags().StringVar(&insightType, "type", "suggestion",
		"Insight type: anomaly, trend, comparison, suggestion")

	sessionCmd.AddCommand(listSessionsCmd, showSessionCmd, deleteSessionCmd, reportInsightCmd)
	resultCmd.AddCommand(getResultCmd, exportResultCmd)
	rootCmd.AddCommand(sessionCmd, resultCmd)
}

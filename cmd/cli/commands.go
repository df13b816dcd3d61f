package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

var (
	generatePollID    string
	generateDate      string
	generateAlgorithm string
	generateDryRun    bool
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(pollsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(metricsCmd)

	generateCmd.Flags().StringVar(&generatePollID, "poll", "", "The poll id to generate teams for")
	generateCmd.Flags().StringVar(&generateDate, "date", "", "The play date (YYYY-MM-DD)")
	generateCmd.Flags().StringVar(&generateAlgorithm, "algorithm", "random", "Pairing algorithm: random, balanced or grouped")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Generate without saving or notifying")
	generateCmd.MarkFlagRequired("poll")
	generateCmd.MarkFlagRequired("date")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var pollsCmd = &cobra.Command{
	Use:   "polls",
	Short: "List the polls with their current date windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/polls")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the roster in seed order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the team lineup for one play date",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		params.Set("date", generateDate)
		params.Set("algorithm", generateAlgorithm)
		if generateDryRun {
			params.Set("dry_run", "true")
		}
		endpoint := fmt.Sprintf("/polls/%s/teams/generate?%s", generatePollID, params.Encode())
		return performPostRequest(endpoint)
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the club coin balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/coins/balance")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", strings.NewReader("{}"))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

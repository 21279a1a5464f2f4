// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jmanhart/git-memories/internal/domain"
	"github.com/jmanhart/git-memories/internal/format"
	"github.com/jmanhart/git-memories/internal/gateway"
	"github.com/jmanhart/git-memories/internal/usecase"
)

var memoriesCmd = &cobra.Command{
	Use:   "today",
	Short: "Shows your commits and pull requests from this day in past years",
	Long: `Finds the commits and pull requests a GitHub user made on a given
calendar day (today by default) in every year the account has been active,
and prints them grouped by year.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		user, _ := cmd.Flags().GetString("user")
		dateStr, _ := cmd.Flags().GetString("date")
		fromYear, _ := cmd.Flags().GetInt("from-year")
		toYear, _ := cmd.Flags().GetInt("to-year")
		demo, _ := cmd.Flags().GetBool("demo")
		asJSON, _ := cmd.Flags().GetBool("json")
		withSummary, _ := cmd.Flags().GetBool("summary")

		month, day, err := parseTargetDate(dateStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --date value. Please use MM/DD. Error: %v\n", err)
			os.Exit(1)
		}

		var fetcher gateway.Fetcher
		if demo {
			if user == "" {
				user = "demo"
			}
			fetcher = &gateway.DemoFetcher{}
		} else {
			// .env is a convenience for local runs; a missing file is fine.
			_ = godotenv.Load()
			token := os.Getenv("GITHUB_TOKEN")
			if token == "" {
				fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
				os.Exit(1)
			}
			if user == "" {
				fmt.Fprintln(os.Stderr, "Error: --user is required (or run with --demo).")
				os.Exit(1)
			}
			fetcher, err = gateway.NewGitHubGateway(token, logger)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
				os.Exit(1)
			}
		}

		discoverer := usecase.NewDiscoverer(fetcher, logger)
		if !asJSON {
			discoverer.Progress = func(year, candidates int) {
				fmt.Fprintf(os.Stderr, "Checking %d (%d repositories)...\n", year, candidates)
			}
		}

		set, err := discoverer.Discover(ctx, user, month, day, fromYear, toYear)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to discover contributions: %v\n", err)
			os.Exit(1)
		}

		if asJSON {
			out := struct {
				User    string                 `json:"user"`
				Month   int                    `json:"month"`
				Day     int                    `json:"day"`
				Years   domain.ContributionSet `json:"years"`
				Summary *domain.Summary        `json:"summary,omitempty"`
			}{User: user, Month: int(month), Day: day, Years: set}
			if withSummary {
				s := domain.Summarize(set)
				out.Summary = &s
			}
			jsonData, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to marshal results to JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(jsonData))
			return
		}

		format.Render(os.Stdout, set, month, day)
		if withSummary {
			format.RenderSummary(os.Stdout, domain.Summarize(set))
		}
	},
}

// parseTargetDate turns an MM/DD flag value into a month and day, defaulting
// to today when the flag is empty.
func parseTargetDate(s string) (time.Month, int, error) {
	if s == "" {
		now := time.Now()
		return now.Month(), now.Day(), nil
	}
	t, err := time.Parse("01/02", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Month(), t.Day(), nil
}

func init() {
	rootCmd.AddCommand(memoriesCmd)
	memoriesCmd.Flags().StringP("user", "u", "", "GitHub user name to look up")
	memoriesCmd.Flags().String("date", "", "Target day as MM/DD (default: today)")
	memoriesCmd.Flags().Int("from-year", 0, "Earliest year to scan (default: account creation year)")
	memoriesCmd.Flags().Int("to-year", 0, "Latest year to scan (default: current year)")
	memoriesCmd.Flags().Bool("demo", false, "Run against deterministic sample data, no token needed")
	memoriesCmd.Flags().Bool("json", false, "Output the result as JSON instead of formatted text")
	memoriesCmd.Flags().Bool("summary", false, "Append aggregate statistics across the active years")
}

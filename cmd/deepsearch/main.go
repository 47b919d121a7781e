package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/superyhee/strands-deepsearch-agent/pkg/config"
	"github.com/superyhee/strands-deepsearch-agent/pkg/research"
)

var (
	query    string
	maxLoops int
	outFile  string
)

func main() {
	handler := slog.NewTextHandler(os.Stderr, nil)
	slog.SetDefault(slog.New(handler))

	if err := godotenv.Load(); err != nil {
		// Missing .env is fine when env vars are set directly
	}

	rootCmd := &cobra.Command{
		Use:   "deepsearch",
		Short: "A terminal-based deep research agent",
		Long: `deepsearch runs a multi-agent research pipeline on a query: it collects
web sources, analyzes the findings, refines them until the analysis converges,
and writes a final Markdown report.`,
		Run: func(cmd *cobra.Command, args []string) {
			if !cmd.Flags().Changed("query") {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Enter research query: ")
				input, _ := reader.ReadString('\n')
				query = strings.TrimSpace(input)
			}
			if query == "" {
				slog.Error("Query cannot be empty")
				os.Exit(1)
			}

			cfg := config.Load()
			system, err := research.NewSystem(context.Background(), cfg, nil, slog.Default())
			if err != nil {
				slog.Error("Error initializing research system", "error", err)
				os.Exit(1)
			}

			var report string
			failed := false
			for ev := range system.Orchestrator.Run(context.Background(), query, maxLoops) {
				switch ev.Type {
				case research.EventReportChunk:
					fmt.Print(ev.Message)
				case research.EventComplete:
					report, _ = ev.Data["final_report"].(string)
					fmt.Println()
					slog.Info("Research complete", "loops", ev.Data["research_loops"])
				case research.EventError:
					failed = true
					slog.Error("Research failed", "error", ev.Error)
				default:
					fmt.Fprintf(os.Stderr, "[%3.0f%%] %s\n", ev.Progress, ev.Message)
				}
			}
			if failed {
				os.Exit(1)
			}

			if report != "" {
				path := outFile
				if path == "" {
					path = fmt.Sprintf("report_%d.md", time.Now().Unix())
				}
				if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
					slog.Error("Failed to write report", "path", path, "error", err)
					os.Exit(1)
				}
				slog.Info("Report written", "path", path)
			}
		},
	}

	rootCmd.Flags().StringVarP(&query, "query", "q", "", "The research query")
	rootCmd.Flags().IntVarP(&maxLoops, "loops", "l", 0, "Maximum research loops (default from MAX_RESEARCH_LOOPS)")
	rootCmd.Flags().StringVarP(&outFile, "out", "o", "", "Report output path")

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}

// Command tripplanner runs the route-planning engine either as a one-shot
// CLI against a JSON trip file or as an HTTP server exposing POST /plan.
// Flag layout and the server/CLI split follow the example pack's cmd/server
// usage-block convention (china_gtfs/cmd/server/main.go).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/tripforge/planner/internal/config"
	"github.com/tripforge/planner/internal/httpapi"
	"github.com/tripforge/planner/internal/model"
	"github.com/tripforge/planner/internal/routing"
	"github.com/tripforge/planner/orchestrator"
)

func main() {
	flagServer := flag.Bool("server", false, "Start HTTP server")
	flagPort := flag.String("port", "8080", "Port to listen on for the HTTP server")
	flagInput := flag.String("input", "", "Path to a TripInput JSON file (CLI mode)")
	flagWalkURL := flag.String("walk-url", "", "Base URL of the walking routing endpoint")
	flagTransitURL := flag.String("transit-url", "", "Base URL of the transit routing endpoint")
	flag.Parse()

	if !*flagServer && *flagInput == "" {
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s --input=trip.json --walk-url=... --transit-url=...\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "  %s --server [--port=8080] --walk-url=... --transit-url=...\n", filepath.Base(os.Args[0]))
		os.Exit(1)
	}

	engine := buildEngine(*flagWalkURL, *flagTransitURL)

	if *flagServer {
		httpapi.Serve(engine, *flagPort)
		return
	}

	runOnce(engine, *flagInput)
}

func buildEngine(walkURL, transitURL string) *orchestrator.Engine {
	knobs := config.Default()

	stop := make(chan struct{})
	cache := routing.NewCache(knobs.CacheSize, knobs.CacheTTL, knobs.CacheSweepInterval, stop)
	breaker := routing.NewBreaker(knobs.BreakerThreshold, knobs.BreakerTimeout)
	limiter := routing.NewLimiter(knobs.ConcurrencyCap)

	provider := &routing.HTTPProvider{
		Client:     &http.Client{Timeout: knobs.RequestTimeout},
		WalkURL:    walkURL,
		TransitURL: transitURL,
		UserAgent:  "tripplanner/1.0",
	}

	client := routing.NewClient(cache, breaker, limiter, provider, provider, knobs.WalkModeCutoffMeters, knobs.RetryCount, knobs.BackoffBase, knobs.RequestTimeout)
	return orchestrator.New(knobs, client)
}

func runOnce(engine *orchestrator.Engine, inputPath string) {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading input: %v\n", err)
		os.Exit(1)
	}

	var input model.TripInput
	if err := json.Unmarshal(raw, &input); err != nil {
		fmt.Fprintf(os.Stderr, "parsing input: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	output, err := engine.Plan(ctx, input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "planning trip: %v\n", err)
		os.Exit(1)
	}

	printSummary(output)

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encoding output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}

// printSummary renders a per-day overview table to stderr so the JSON on
// stdout stays pipeable.
func printSummary(output *model.TripOutput) {
	table := tablewriter.NewWriter(os.Stderr)
	table.SetHeader([]string{"Day", "Stops", "Excluded", "Check-in break"})

	for _, dp := range output.DayPlans {
		breakCol := "-"
		if dp.CheckInBreakIndex != nil {
			breakCol = fmt.Sprintf("%d", *dp.CheckInBreakIndex)
		}
		table.Append([]string{
			fmt.Sprintf("%d", dp.DayIndex),
			fmt.Sprintf("%d", len(dp.WaypointOrder)),
			fmt.Sprintf("%d", len(dp.ExcludedWaypointIDs)),
			breakCol,
		})
	}
	table.Render()

	for _, w := range output.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

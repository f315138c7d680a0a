package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"stepkit/config"
	"stepkit/internal/usecase"
)

func main() {
	dir := flag.String("dir", ".", "Directory holding stepkit.yaml")
	file := flag.String("f", "", "Transcript file to replay")
	rounds := flag.Int("n", 5, "Number of replay rounds")
	flag.Parse()

	if *file == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -f session.log [-n 5]")
		fmt.Println("\nMeasures:")
		fmt.Println("  1. Cost of re-segmenting every line prefix (batch re-scan)")
		fmt.Println("  2. Revisions of chunks that were already followed by others")
		fmt.Println("  3. Idempotence of the final segmentation")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading transcript: %v\n", err)
		os.Exit(1)
	}
	content := string(data)

	seg := usecase.NewExtractor(cfg, nil).Segmenter()

	fmt.Println("RE-SEGMENTATION BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Transcript: %s (%d bytes)\n", *file, len(content))
	fmt.Printf("String-aware braces: %v\n", cfg.Segment.StringAwareBraces)
	fmt.Println()

	var (
		report usecase.ReplayReport
		total  time.Duration
	)
	for i := 0; i < *rounds; i++ {
		start := time.Now()
		report = usecase.Replay(seg, content, usecase.ReplayOptions{})
		elapsed := time.Since(start)
		total += elapsed
		fmt.Printf("Round %d: %v\n", i+1, elapsed)
	}

	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Snapshots per round: %d\n", report.Snapshots)
	if *rounds > 0 && report.Snapshots > 0 {
		avg := total / time.Duration(*rounds)
		fmt.Printf("Average round:       %v\n", avg)
		fmt.Printf("Average snapshot:    %v\n", avg/time.Duration(report.Snapshots))
	}
	fmt.Printf("Revisions:           %d\n", report.Revisions)
	fmt.Printf("Final chunks:        %d\n", len(report.Final))
	fmt.Printf("Idempotent:          %v\n", report.Idempotent)

	if !report.Idempotent {
		os.Exit(2)
	}
}

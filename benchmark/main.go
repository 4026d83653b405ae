// Package main provides a performance benchmarking tool for the MindScore CLI.
// It measures execution times of each command against the none and sqlite
// history backends, running each test multiple times, treating the first
// successful run as cold and averaging the rest as warm, and writes CSV output
// for performance analysis and documentation.
//
// Prerequisites:
// - mindscore binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Scratch directory for request files and the benchmark database
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs per backend).
type BenchmarkResult struct {
	Command    string
	NoneCold   string
	NoneWarm   string
	SQLiteCold string
	SQLiteWarm string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Runs     int
	UserID   string
	Commands []BenchmarkCommand
}

// BenchmarkCommand is one CLI invocation under test.
type BenchmarkCommand struct {
	Name      string
	Args      []string
	NeedStore bool // skipped against the none backend
}

// requestFiles are written into the work dir before the run.
var requestFiles = map[string]string{
	"score.json": `{"instrumentKey":"anxiety_assessment","completedAt":"2025-01-01T09:00:00Z","responses":{` +
		`"q1":2,"q2":1,"q3":3,"q4":2,"q5":1,"q6":2,"q7":0,"q8":1,"q9":0,"q10":2,` +
		`"q11":3,"q12":0,"q13":1,"q14":2,"q15":2,"q16":1,"q17":3,"q18":1,"q19":2,"q20":2}}`,
	"trend.json": `{"instrumentKey":"depression_phq9","history":[` +
		`{"score":40,"completedAt":"2025-01-01T00:00:00Z"},{"score":52,"completedAt":"2025-02-01T00:00:00Z"},` +
		`{"score":61,"completedAt":"2025-03-01T00:00:00Z"}]}`,
	"insight.json": `{"historiesByInstrument":{` +
		`"anxiety_gad7":[{"score":30,"completedAt":"2025-01-01T00:00:00Z"},{"score":45,"completedAt":"2025-02-01T00:00:00Z"}],` +
		`"wellbeing_wemwbs":[{"score":70,"completedAt":"2025-01-01T00:00:00Z"},{"score":62,"completedAt":"2025-02-01T00:00:00Z"}],` +
		`"stress_pss10":[{"score":50,"completedAt":"2025-02-01T00:00:00Z"}]}}`,
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir: workDir,
		Timeout: time.Minute,
		Runs:    5,
		UserID:  "benchmark-user",
	}
	config.Commands = []BenchmarkCommand{
		{Name: "instruments", Args: []string{"instruments"}},
		{Name: "score", Args: []string{"score", filepath.Join(workDir, "score.json")}},
		{Name: "trend", Args: []string{"trend", filepath.Join(workDir, "trend.json")}},
		{Name: "insight", Args: []string{"insight", filepath.Join(workDir, "insight.json")}},
		{Name: "score-record", Args: []string{"score", filepath.Join(workDir, "score.json"), "--record", "--user", config.UserID}, NeedStore: true},
		{Name: "insight-stored", Args: []string{"insight", "--user", config.UserID}, NeedStore: true},
		{Name: "history-status", Args: []string{"history", "status"}, NeedStore: true},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the binary exists and writes the request files.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("mindscore"); err != nil {
		return fmt.Errorf("mindscore binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	for name, body := range requestFiles {
		if err := os.WriteFile(filepath.Join(config.WorkDir, name), []byte(body), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// runBenchmarks executes every command against both backends.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	dbPath := filepath.Join(config.WorkDir, "benchmark.db")
	_ = os.Remove(dbPath)

	fmt.Printf("Starting benchmark: %d commands, %v timeout, %d runs per backend\n",
		len(config.Commands), config.Timeout, config.Runs)

	for _, c := range config.Commands {
		fmt.Printf("Benchmarking %s\n", c.Name)
		result := BenchmarkResult{Command: c.Name, NoneCold: "SKIPPED", NoneWarm: "SKIPPED"}

		if !c.NeedStore {
			result.NoneCold, result.NoneWarm = runPhase(config, c, []string{"--history-backend", "none"})
		}
		result.SQLiteCold, result.SQLiteWarm = runPhase(config, c, []string{"--history-backend", "sqlite", "--history-db-connect", dbPath})

		fmt.Printf("  none: cold %s, warm %s | sqlite: cold %s, warm %s\n",
			result.NoneCold, result.NoneWarm, result.SQLiteCold, result.SQLiteWarm)
		results = append(results, result)
	}

	return results
}

// runPhase runs one command with the backend flags and formats the timings.
func runPhase(config BenchmarkConfig, c BenchmarkCommand, backendArgs []string) (cold, warm string) {
	args := append(append([]string{}, c.Args...), backendArgs...)
	coldTime, warmTimes := runBenchmark(config, args)

	cold = "FAILED"
	if coldTime > 0 {
		cold = fmt.Sprintf("%.3fs", coldTime)
	}
	if len(warmTimes) == 0 {
		return cold, "FAILED"
	}
	var sum float64
	for _, t := range warmTimes {
		sum += t
	}
	return cold, fmt.Sprintf("%.3fs", sum/float64(len(warmTimes)))
}

// runBenchmark executes a mindscore command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("mindscore", args...)
		cmd.Dir = config.WorkDir

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks that the command produced output and no fatal log line.
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return len(strings.TrimSpace(outputStr)) > 0 && !strings.Contains(outputStr, "Fatal")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/mindscore_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"cmd", "none_cold", "none_warm_avg", "sqlite_cold", "sqlite_warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Command, r.NoneCold, r.NoneWarm, r.SQLiteCold, r.SQLiteWarm}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, r := range results {
		fmt.Printf("  %-15s: none %s / %s, sqlite %s / %s\n", r.Command, r.NoneCold, r.NoneWarm, r.SQLiteCold, r.SQLiteWarm)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/handiism/keyshift/internal/batch"
	"github.com/handiism/keyshift/internal/config"
	"github.com/handiism/keyshift/internal/music"
	"github.com/handiism/keyshift/internal/pipeline"
)

func main() {
	var (
		inputFlag     = flag.String("input", "", "Input audio file or folder (.mp3/.wav)")
		outputFlag    = flag.String("output", "", "Output folder (defaults to the input's folder)")
		keyFlag       = flag.String("key", "", "Target key, e.g. C, F#, Bb")
		sourceKeyFlag = flag.String("source-key", "", "Source key (skips detection); accepts minor labels like Am")
		overwriteFlag = flag.Bool("overwrite", false, "Overwrite existing output files")
		jobsFlag      = flag.Int("jobs", 0, "Concurrent conversions (0 = from config)")
		detectFlag    = flag.Bool("detect", false, "Only detect keys, write them to the log file")
		logFlag       = flag.String("log", "keys.csv", "Log file for -detect")
		configFlag    = flag.String("config", "", "Path to config file")
		verboseFlag   = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	if *inputFlag == "" && flag.NArg() > 0 {
		*inputFlag = flag.Arg(0)
	}

	if *inputFlag == "" || (*keyFlag == "" && !*detectFlag) {
		fmt.Println("keyshift - Transpose audio files between musical keys")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  keyshift -input <file-or-folder> -key <target-key> [options]")
		fmt.Println("  keyshift -input <file-or-folder> -detect -log keys.csv")
		fmt.Println()
		fmt.Println("For interactive mode, use: keyshift-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	jobs := settings.MaxConcurrentJobs
	if *jobsFlag > 0 {
		jobs = *jobsFlag
	}

	if *keyFlag != "" && !music.IsValid(*keyFlag) {
		fmt.Fprintf(os.Stderr, "Error: %q is not a recognized key\n", *keyFlag)
		os.Exit(1)
	}
	if *sourceKeyFlag != "" && !music.IsValid(*sourceKeyFlag) {
		fmt.Fprintf(os.Stderr, "Error: %q is not a recognized key\n", *sourceKeyFlag)
		os.Exit(1)
	}

	inputs, err := batch.CollectInputs(*inputFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
	if len(inputs) == 0 {
		fmt.Fprintf(os.Stderr, "No supported audio files at %s\n", *inputFlag)
		os.Exit(1)
	}

	outputDir := *outputFlag
	if outputDir == "" {
		outputDir = filepath.Dir(inputs[0])
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	p := pipeline.New(settings, func(event pipeline.ProgressEvent) {
		if event.Level == pipeline.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := "   "
		switch event.Level {
		case pipeline.LevelError:
			prefix = "x  "
		case pipeline.LevelWarning:
			prefix = "!  "
		case pipeline.LevelSuccess:
			prefix = "+  "
		case pipeline.LevelInfo:
			prefix = ">  "
		}

		fmt.Println(prefix + event.Message)
	})
	runner := batch.NewRunner(p, jobs)

	if *detectFlag {
		if err := runner.DetectAndLog(ctx, inputs, *logFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error detecting keys: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d entries to %s\n", len(inputs), *logFlag)
		return
	}

	results, err := runner.ConvertAll(ctx, batch.Request{
		Inputs:    inputs,
		OutputDir: outputDir,
		TargetKey: *keyFlag,
		SourceKey: *sourceKeyFlag,
		Overwrite: *overwriteFlag,
	})
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nConversion cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var converted, skipped, failed int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(os.Stderr, "x  %s: %v\n", r.Path, r.Err)
		case r.Result.Status == pipeline.StatusSkipped:
			skipped++
		default:
			converted++
		}
	}

	fmt.Println()
	fmt.Printf("Done: %d converted, %d skipped, %d failed (of %d)\n",
		converted, skipped, failed, len(results))
	if failed > 0 {
		os.Exit(1)
	}
}

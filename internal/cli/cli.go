// Package cli implements the hashcrack command.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/15Galan/h4-hash-cracker/internal/config"
	"github.com/15Galan/h4-hash-cracker/internal/cracker"
	"github.com/15Galan/h4-hash-cracker/internal/digest"
	"github.com/15Galan/h4-hash-cracker/internal/input"
	"github.com/15Galan/h4-hash-cracker/internal/logging"
	"github.com/15Galan/h4-hash-cracker/internal/report"
)

const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// listFlag collects repeated and comma-separated values.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}

	return nil
}

// Run executes hashcrack with args (without the program name) and returns
// the process exit code.
func Run(ctx context.Context, args []string, lookup func(string) (string, bool), stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hashcrack", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var hashList, algorithms listFlag

	fs.Var(&hashList, "hashlist", "hash to crack; repeat or separate with commas")
	hashFile := fs.String("hashfile", "", "file with one hash per line")
	fs.Var(&algorithms, "algorithm", "hash algorithm to try; repeat or separate with commas")
	wordlist := fs.String("wordlist", "", "file with one candidate word per line (at most 1 MiB per line)")
	progress := fs.Bool("progress", false, "show every attempt on a single updating line")
	list := fs.Bool("list", false, "print the supported algorithms and exit")
	logLevel := fs.String("log-level", "", "log level (overrides HASHCRACK_LOG_LEVEL)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}

		return ExitUsage
	}

	if *list {
		for _, name := range digest.Supported() {
			fmt.Fprintln(stdout, name)
		}

		return ExitOK
	}

	cfg, err := config.FromLookup(lookup)
	if err != nil {
		fmt.Fprintf(stderr, "hashcrack: %v\n", err)
		return ExitFailure
	}

	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "hashcrack: %v\n", err)
		return ExitFailure
	}
	defer logger.Sync()

	in, err := input.Load(input.Args{
		HashList:   hashList,
		HashFile:   *hashFile,
		Algorithms: algorithms,
		Wordlist:   *wordlist,
	})
	if err != nil {
		fmt.Fprintf(stderr, "hashcrack: %v\n", err)

		if errors.Is(err, input.ErrNoAlgorithms) {
			fmt.Fprintf(stderr, "supported algorithms: %s\n", strings.Join(digest.Supported(), ", "))
		}

		return ExitFailure
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	observers := []cracker.Observer{report.NewConsole(stdout, *progress)}

	if cfg.AMQPURL != "" {
		broker, publisher, err := report.Dial(cfg.AMQPURL, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("Outcome publishing disabled", zap.Error(err))
		} else {
			defer broker.Close()

			observers = append(observers, publisher.ForRun(runID))
		}
	}

	for _, h := range in.InvalidHashes {
		logger.Warn("Skipping invalid hash", zap.String("hash", h))
	}

	engine := cracker.New(
		cracker.WithObserver(report.Tee(observers...)),
		cracker.WithLogger(logger),
	)

	cracks, err := engine.Crack(ctx, in.Hashes, in.Algorithms, in.Words)
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("Interrupted, discarding partial results")
			return ExitOK
		}

		fmt.Fprintf(stderr, "hashcrack: %v\n", err)

		return ExitFailure
	}

	if len(cracks) == 0 {
		fmt.Fprintln(stdout, "No hash in the provided set was cracked.")
	}

	if len(in.InvalidHashes) > 0 {
		fmt.Fprintln(stdout, "\nInvalid hashes:")
		fmt.Fprintln(stdout, strings.Join(in.InvalidHashes, "\n"))
	}

	if len(in.InvalidAlgorithms) > 0 {
		fmt.Fprintln(stdout, "\nInvalid algorithms:")
		fmt.Fprintln(stdout, strings.Join(in.InvalidAlgorithms, ", "))
	}

	return ExitOK
}

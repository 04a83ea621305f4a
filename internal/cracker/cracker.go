// Package cracker runs a dictionary attack over a set of target hashes.
//
// Hashes and algorithms are visited in byte-wise sorted order and words in the
// order given. The first word that reproduces a hash under the first algorithm
// that matches is recorded, and the engine moves on to the next hash.
package cracker

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/15Galan/h4-hash-cracker/internal/digest"
	"github.com/15Galan/h4-hash-cracker/internal/models"
)

// Digester computes the hex digest of input under algorithm.
type Digester interface {
	Digest(input []byte, algorithm string) (string, error)
}

// Observer receives progress and per-hash outcomes. Implementations must not
// block for long: they run on the engine's goroutine.
type Observer interface {
	Attempt(hash, word, algorithm string)
	Outcome(o models.Outcome)
}

type Engine struct {
	digester Digester
	observer Observer
	logger   *zap.Logger
}

type Option func(*Engine)

func WithDigester(d Digester) Option {
	return func(e *Engine) {
		if d != nil {
			e.digester = d
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		digester: digest.Adapter{},
		observer: nopObserver{},
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Crack searches words for a preimage of every hash. Inputs are expected to
// be validated already: hashes lowercase hex, algorithms supported.
//
// A digest failure or a cancelled ctx aborts the run and no partial result is
// returned.
func (e *Engine) Crack(ctx context.Context, hashes, algorithms, words []string) (models.CrackResult, error) {
	targets := sortedSet(hashes)
	algos := sortedSet(algorithms)

	e.logger.Debug("Starting crack run",
		zap.Int("hashes", len(targets)),
		zap.Strings("algorithms", algos),
		zap.Int("words", len(words)))

	cracks := make(models.CrackResult, len(targets))

	for _, hash := range targets {
		outcome, err := e.crackOne(ctx, hash, algos, words)
		if err != nil {
			return nil, err
		}

		if outcome.Found {
			cracks[hash] = models.Match{Word: outcome.Word, Algorithm: outcome.Algorithm}
		}

		e.observer.Outcome(outcome)
	}

	e.logger.Debug("Crack run finished", zap.Int("cracked", len(cracks)), zap.Int("hashes", len(targets)))

	return cracks, nil
}

func (e *Engine) crackOne(ctx context.Context, hash string, algos, words []string) (models.Outcome, error) {
	outcome := models.Outcome{Hash: hash}

	for _, algo := range algos {
		for _, word := range words {
			if err := ctx.Err(); err != nil {
				return outcome, err
			}

			got, err := e.digester.Digest([]byte(word), algo)
			if err != nil {
				e.logger.Error("Digest computation failed, aborting run",
					zap.String("hash", hash),
					zap.String("algorithm", algo),
					zap.Error(err))

				return outcome, fmt.Errorf("digest %s: %w", algo, err)
			}

			outcome.Attempts++
			e.observer.Attempt(hash, word, algo)

			if got == hash {
				outcome.Found = true
				outcome.Word = word
				outcome.Algorithm = algo

				e.logger.Debug("Hash cracked",
					zap.String("hash", hash),
					zap.String("algorithm", algo),
					zap.Int("attempts", outcome.Attempts))

				return outcome, nil
			}
		}
	}

	return outcome, nil
}

func sortedSet(in []string) []string {
	out := slices.Clone(in)
	slices.Sort(out)

	return slices.Compact(out)
}

type nopObserver struct{}

func (nopObserver) Attempt(string, string, string) {}
func (nopObserver) Outcome(models.Outcome)         {}

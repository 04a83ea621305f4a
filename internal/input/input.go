// Package input turns raw user arguments into the validated, normalized
// inputs the cracking engine expects.
package input

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/15Galan/h4-hash-cracker/internal/digest"
)

var (
	ErrNoHashes      = errors.New("no valid hash was provided")
	ErrNoAlgorithms  = errors.New("no valid hash algorithm was provided")
	ErrNoWordlist    = errors.New("no wordlist was provided")
	ErrEmptyWordlist = errors.New("wordlist is empty")
	ErrFileNotFound  = errors.New("file does not exist")
)

// MaxLineSize bounds a single wordlist or hash file line.
const MaxLineSize = 1 << 20

// Args are the unvalidated values collected by a front end.
type Args struct {
	HashList   []string
	HashFile   string
	Algorithms []string
	Wordlist   string
}

// Input is ready to hand to the engine. Rejected entries are kept so they can
// be reported after the run.
type Input struct {
	Hashes            []string
	InvalidHashes     []string
	Algorithms        []string
	InvalidAlgorithms []string
	Words             []string
}

// Load validates args, reads the hash file and the wordlist, and returns the
// normalized input. It fails when nothing usable remains for any of hashes,
// algorithms or words.
func Load(args Args) (*Input, error) {
	raw := slices.Clone(args.HashList)

	if args.HashFile != "" {
		fileHashes, err := ReadLines(args.HashFile)
		if err != nil {
			return nil, fmt.Errorf("reading hash file: %w", err)
		}

		raw = append(raw, fileHashes...)
	}

	in, err := Validate(raw, args.Algorithms)
	if err != nil {
		return nil, err
	}

	if args.Wordlist == "" {
		return nil, ErrNoWordlist
	}

	words, err := ReadLines(args.Wordlist)
	if err != nil {
		return nil, fmt.Errorf("reading wordlist: %w", err)
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyWordlist, args.Wordlist)
	}

	in.Words = words

	return in, nil
}

// Validate splits hashes and algorithms into accepted and rejected sets. At
// least one of each must be accepted.
func Validate(hashes, algorithms []string) (*Input, error) {
	okHashes, koHashes := SplitHashes(hashes)
	if len(okHashes) == 0 {
		return nil, ErrNoHashes
	}

	okAlgos, koAlgos := SplitAlgorithms(algorithms)
	if len(okAlgos) == 0 {
		return nil, ErrNoAlgorithms
	}

	return &Input{
		Hashes:            okHashes,
		InvalidHashes:     koHashes,
		Algorithms:        okAlgos,
		InvalidAlgorithms: koAlgos,
	}, nil
}

// ValidHash reports whether s is hexadecimal and as long as some supported
// digest.
func ValidHash(s string) bool {
	if !slices.Contains(digest.HexLengths(), len(s)) {
		return false
	}

	for _, c := range s {
		switch {
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		default:
			return false
		}
	}

	return true
}

// SplitHashes trims and lowercases every entry. Blank entries are ignored.
// Both returned slices are sorted and free of duplicates.
func SplitHashes(raw []string) (ok, ko []string) {
	for _, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}

		if ValidHash(h) {
			ok = append(ok, strings.ToLower(h))
		} else {
			ko = append(ko, h)
		}
	}

	return dedupe(ok), dedupe(ko)
}

// SplitAlgorithms normalizes names and keeps the supported ones.
func SplitAlgorithms(raw []string) (ok, ko []string) {
	for _, a := range raw {
		name := digest.Normalize(a)
		if name == "" {
			continue
		}

		if digest.IsSupported(name) {
			ok = append(ok, name)
		} else {
			ko = append(ko, strings.TrimSpace(a))
		}
	}

	return dedupe(ok), dedupe(ko)
}

// ReadLines returns the lines of the file at path in order. Line endings are
// stripped; nothing else is.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}

		return nil, err
	}
	defer f.Close()

	lines, err := SplitLines(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return lines, nil
}

// SplitLines reads r line by line. "\n", "\r\n" and a lone "\r" all end a
// line. Lines longer than MaxLineSize fail with bufio.ErrTooLong.
func SplitLines(r io.Reader) ([]string, error) {
	var lines []string

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	s.Split(scanLines)

	for s.Scan() {
		lines = append(lines, s.Text())
	}

	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", len(lines)+1, err)
	}

	return lines, nil
}

func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}

		switch {
		case i+1 < len(data) && data[i+1] == '\n':
			return i + 2, data[:i], nil
		case i+1 < len(data) || atEOF:
			return i + 1, data[:i], nil
		}

		// A trailing '\r' may be the first half of "\r\n".
		return 0, nil, nil
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}

func dedupe(in []string) []string {
	slices.Sort(in)
	return slices.Compact(in)
}

// Package vocabulary provides the term list used for keyword expansion.
package vocabulary

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/custodia-labs/threadscout/internal/core/ports/driven"
)

// Ensure List implements the interface.
var _ driven.Vocabulary = (*List)(nil)

//go:embed default.txt
var defaultTerms string

// List is a newline-delimited vocabulary. Blank lines and lines starting
// with '#' are ignored; terms are trimmed and deduplicated case-insensitively
// keeping the first spelling.
type List struct {
	path string

	once  sync.Once
	terms []string
	err   error
}

// Default returns the built-in vocabulary.
func Default() *List {
	return &List{}
}

// FromFile returns a vocabulary read lazily from path.
// An empty path selects the built-in vocabulary.
func FromFile(path string) *List {
	return &List{path: path}
}

// Terms returns the vocabulary in file order. The file is read once.
func (l *List) Terms(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.once.Do(func() {
		if l.path == "" {
			l.terms, l.err = parse(strings.NewReader(defaultTerms))
			return
		}
		f, err := os.Open(l.path)
		if err != nil {
			l.err = fmt.Errorf("open vocabulary: %w", err)
			return
		}
		defer f.Close()
		l.terms, l.err = parse(f)
	})
	if l.err != nil {
		return nil, l.err
	}
	return append([]string(nil), l.terms...), nil
}

// Path returns the source file, or "" for the built-in list.
func (l *List) Path() string {
	return l.path
}

func parse(r io.Reader) ([]string, error) {
	var terms []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key := strings.ToLower(line)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		terms = append(terms, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return terms, nil
}

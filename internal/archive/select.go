package archive

import (
	"errors"
	"fmt"
	"strings"

	"protex/internal/core/types"
)

// ErrNoCandidate reports a listing with no file meeting the eligibility
// rules.
var ErrNoCandidate = errors.New("archive: no table candidate in listing")

// MinTableSize is the eligibility threshold. Files at or below it are
// assumed to be README-sized metadata that happens to share a tabular
// extension.
const MinTableSize = types.Bytes(50_000)

// tableSuffixes are the recognized tabular file endings, checked
// case-insensitively against the listing name.
var tableSuffixes = []string{
	".txt", ".csv", ".tsv", ".xlsx",
	".txt.gz", ".tsv.gz", ".csv.gz",
}

// priorityKeywords rank candidates. The order encodes which term most
// strongly indicates a processed quantitative results file; maxquant and
// diann are pipeline tools whose exports are usually the table wanted.
var priorityKeywords = []string{
	"protein", "abundance", "intensity", "quant",
	"report", "result", "maxquant", "diann",
}

// SelectTable picks exactly one file from a project listing.
//
// Rules, evaluated top to bottom with first match winning:
//  1. keep files with a recognized tabular suffix and size above the
//     threshold; none left means ErrNoCandidate
//  2. narrow by namePattern when given; zero matches keeps the full
//     eligible set (the pattern is a soft hint, not a hard filter)
//  3. first keyword with any match wins, scanning candidates in listing
//     order; earlier keywords beat later ones regardless of size
//  4. otherwise the largest candidate, first in listing order on ties
func SelectTable(files []types.FileDescriptor, namePattern string) (types.FileDescriptor, error) {
	var candidates []types.FileDescriptor
	for _, fd := range files {
		if hasTableSuffix(fd.Name) && fd.Size > MinTableSize {
			candidates = append(candidates, fd)
		}
	}
	if len(candidates) == 0 {
		return types.FileDescriptor{}, fmt.Errorf("no table files: %w", ErrNoCandidate)
	}

	if namePattern != "" {
		var matched []types.FileDescriptor
		pattern := strings.ToLower(namePattern)
		for _, fd := range candidates {
			if strings.Contains(strings.ToLower(fd.Name), pattern) {
				matched = append(matched, fd)
			}
		}
		if len(matched) > 0 {
			candidates = matched
		}
	}

	for _, kw := range priorityKeywords {
		for _, fd := range candidates {
			if strings.Contains(strings.ToLower(fd.Name), kw) {
				return fd, nil
			}
		}
	}

	best := candidates[0]
	for _, fd := range candidates[1:] {
		if fd.Size > best.Size {
			best = fd
		}
	}
	return best, nil
}

func hasTableSuffix(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range tableSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

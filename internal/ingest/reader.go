package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Regex for valid subreddit names
var subNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{2,21}$`)

// LoadSubreddits reads subreddit names from the first column of a CSV file.
// A leading "subreddit" header and "r/" prefixes are tolerated; invalid rows
// are skipped (fail-soft) and counted.
func LoadSubreddits(path string) (names []string, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open subreddit list: %w", err)
	}
	defer f.Close()
	return ReadSubreddits(f)
}

func ReadSubreddits(r io.Reader) (names []string, skipped int, err error) {
	// Wrap in BOM stripper
	cr := csv.NewReader(stripBOM(r))
	cr.FieldsPerRecord = -1
	cr.Comment = '#'

	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped++
				continue
			}
			return nil, skipped, err
		}
		line++
		sub := strings.TrimPrefix(strings.TrimSpace(record[0]), "r/")
		if line == 1 && strings.EqualFold(sub, "subreddit") {
			continue
		}
		if sub == "" {
			continue
		}
		if !subNameRegex.MatchString(sub) {
			skipped++
			continue
		}
		names = append(names, sub)
	}
	return names, skipped, nil
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\uFEFF' {
		br.UnreadRune()
	}
	return br
}

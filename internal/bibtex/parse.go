package bibtex

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// RenameRecord is the rename information stored in one bibtex entry.
type RenameRecord struct {
	Key         string
	Folder      string
	FilenameOld string
	FilenameNew string
}

var fieldRegex = regexp.MustCompile(`^\s*([A-Za-z_]+)\s*=\s*[\{"](.*?)[\}"],?\s*$`)

// ParseRenames extracts the rename records from a .bib file written by
// this tool. Entries missing the filename fields are skipped.
func ParseRenames(path string) ([]RenameRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bibtex file: %w", err)
	}
	defer file.Close()

	var records []RenameRecord
	var current *RenameRecord

	flush := func() {
		if current != nil && current.FilenameOld != "" && current.FilenameNew != "" {
			records = append(records, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if matches := entryStartRegex.FindStringSubmatch(line); len(matches) > 1 {
			flush()
			current = &RenameRecord{Key: strings.TrimSpace(matches[1])}
			continue
		}
		if current == nil {
			continue
		}

		if matches := fieldRegex.FindStringSubmatch(line); len(matches) > 2 {
			value := strings.TrimSpace(matches[2])
			switch strings.ToLower(matches[1]) {
			case "folder":
				current.Folder = value
			case "filename_old":
				current.FilenameOld = value
			case "filename_new":
				current.FilenameNew = value
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading bibtex file: %w", err)
	}
	return records, nil
}

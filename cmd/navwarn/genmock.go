package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/navwarn-etl/internal/domain"
)

type GenmockCommand struct {
	Out       string `short:"o" long:"out" description:"Output path for the raw memorandum JSON fixture" required:"true"`
	FetchedAt string `long:"fetched-at" description:"RFC3339 fetch time stamped on every memorandum" default:"2024-11-20T12:00:00Z"`
	Args      struct {
		Dir string `positional-arg-name:"DIR" required:"yes"`
	} `positional-args:"yes"`
}

func (c *GenmockCommand) Execute(_ []string) error {
	fetchedAt, err := time.Parse(time.RFC3339, c.FetchedAt)
	if err != nil {
		return fmt.Errorf("invalid --fetched-at: %w", err)
	}

	memos, err := buildMemorandums(c.Args.Dir, fetchedAt)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(memos, "", "  ")
	if err != nil {
		return fmt.Errorf("encode memorandums: %w", err)
	}
	if err := os.WriteFile(c.Out, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %d memorandums to %s\n", len(memos), c.Out)
	return nil
}

// buildMemorandums wraps every *.txt file in dir, in name order.
func buildMemorandums(dir string, fetchedAt time.Time) ([]domain.RawMemorandum, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .txt memorandums in %s", dir)
	}
	sort.Strings(paths)

	ts := fetchedAt.UTC()
	memos := make([]domain.RawMemorandum, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read memorandum: %w", err)
		}
		memos = append(memos, domain.RawMemorandum{
			Name:      memorandumName(path),
			Text:      string(data),
			FetchedAt: &ts,
		})
	}
	return memos, nil
}

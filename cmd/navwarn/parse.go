package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/navwarn-etl/internal/domain"
	"gopkg.in/yaml.v3"
)

type ParseCommand struct {
	Name           string `short:"n" long:"name" description:"Memorandum name used to resolve the NAVAREA. Defaults to the file name"`
	Format         string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	CircleSegments int    `long:"circle-segments" description:"Vertices used to approximate circles" default:"64"`
	Args           struct {
		Files []string `positional-arg-name:"FILE" required:"1"`
	} `positional-args:"yes"`
}

func (c *ParseCommand) Execute(_ []string) error {
	parser := domain.NewParser(domain.WithCircleSegments(c.CircleSegments))

	var records []domain.WarningRecord
	for _, path := range c.Args.Files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read memorandum: %w", err)
		}
		name := c.Name
		if name == "" {
			name = memorandumName(path)
		}
		for _, rec := range parser.ParseMemorandum(name, string(data)) {
			records = append(records, domain.EnrichWarningRecord(rec))
		}
	}
	if records == nil {
		records = []domain.WarningRecord{}
	}
	return writeRecords(os.Stdout, records, c.Format)
}

// memorandumName turns "data/NAVAREA_XII.txt" into "NAVAREA XII".
func memorandumName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.ReplaceAll(base, "_", " ")
}

// writeRecords prints records as indented JSON, or as YAML with the same
// field names as the JSON form.
func writeRecords(w io.Writer, records []domain.WarningRecord, format string) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if format == "yaml" {
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("encode records: %w", err)
		}
		if data, err = yaml.Marshal(generic); err != nil {
			return fmt.Errorf("encode records: %w", err)
		}
	} else {
		data = append(data, '\n')
	}
	_, err = w.Write(data)
	return err
}

// Command navwarn is the offline companion to the ETL service. It parses
// memorandum files with the same engine the pipeline uses, and builds the
// raw memorandum fixtures used by the tests and for seeding a local Kafka.
//
// Usage:
//
//	go run ./cmd/navwarn parse -f yaml data/mock/memorandums/HYDROPAC.txt
//	go run ./cmd/navwarn genmock -o data/mock/raw_memorandums.json data/mock/memorandums
package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Parse   ParseCommand   `command:"parse" description:"Parse memorandum files and print warning records"`
	Genmock GenmockCommand `command:"genmock" description:"Wrap memorandum text files as raw memorandum events"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

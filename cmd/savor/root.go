package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
)

const usageText = `savor - typed YAML/JSON document tool

Usage:
  savor check <file>...           Parse documents, report located errors
  savor convert [-t json] <file>  Convert between YAML and JSON
  savor fmt <file>...             Normalize document formatting

Files default to stdin; "-" reads stdin explicitly.

Examples:
  savor check config.yaml
  savor convert -t json config.yaml
  savor fmt config.yaml`

// Root returns the savor root command.
func Root() *cli.Command {
	return cli.NewCommand("savor").
		WithSynopsis("savor - typed YAML/JSON document tool").
		WithDescription(usageText).
		WithSubs(
			CheckCommand(),
			ConvertCommand(),
			FmtCommand(),
		)
}

// eachInput runs f once per named file, or once on stdin when no
// files are given.
func eachInput(cc *cli.Context, files []string, f func(name string, data []byte) error) error {
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		data, err := readInput(cc, file)
		if err != nil {
			return err
		}
		if err := f(file, data); err != nil {
			return err
		}
	}
	return nil
}

func readInput(cc *cli.Context, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(cc.In)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", file, err)
	}
	return data, nil
}

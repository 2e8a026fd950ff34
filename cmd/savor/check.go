package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/savorlabs/savor/parse"
)

type checkConfig struct {
	*cli.Command
	Quiet bool `cli:"name=quiet aliases=q desc='suppress per-file ok lines'"`
}

// CheckCommand returns the check subcommand.
func CheckCommand() *cli.Command {
	cfg := &checkConfig{}
	opts, _ := cli.StructOpts(cfg)
	return cli.NewCommandAt(&cfg.Command, "check").
		WithSynopsis("check [-q] <file>... - Parse documents, report located errors").
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *checkConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	return eachInput(cc, args, func(name string, data []byte) error {
		if _, err := parse.Parse(data, parse.ParseFilename(name)); err != nil {
			return err
		}
		if !cfg.Quiet {
			fmt.Fprintf(cc.Out, "%s: ok\n", name)
		}
		return nil
	})
}

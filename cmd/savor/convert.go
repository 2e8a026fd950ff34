package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/savorlabs/savor/encode"
	"github.com/savorlabs/savor/format"
	"github.com/savorlabs/savor/parse"
)

type convertConfig struct {
	*cli.Command
	To     string `cli:"name=to aliases=t desc='target format: yaml or json'"`
	Indent int    `cli:"name=indent aliases=i desc='indent width'"`
}

// ConvertCommand returns the convert subcommand.
func ConvertCommand() *cli.Command {
	cfg := &convertConfig{To: "yaml", Indent: 2}
	opts, _ := cli.StructOpts(cfg)
	return cli.NewCommandAt(&cfg.Command, "convert").
		WithSynopsis("convert [-t json] <file>... - Convert between YAML and JSON").
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *convertConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	to, err := format.ParseFormat(cfg.To)
	if err != nil {
		return fmt.Errorf("%w: %v", cli.ErrUsage, err)
	}
	return eachInput(cc, args, func(name string, data []byte) error {
		node, err := parse.Parse(data, parse.ParseFilename(name))
		if err != nil {
			return err
		}
		return encode.Encode(node, cc.Out,
			encode.EncodeFormat(to), encode.Indent(cfg.Indent))
	})
}

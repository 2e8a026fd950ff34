package main

import (
	"github.com/scott-cotton/cli"

	"github.com/savorlabs/savor/encode"
	"github.com/savorlabs/savor/parse"
)

type fmtConfig struct {
	*cli.Command
	Indent int  `cli:"name=indent aliases=i desc='indent width'"`
	Color  bool `cli:"name=color aliases=c desc='force colorized output'"`
}

// FmtCommand returns the fmt subcommand.
func FmtCommand() *cli.Command {
	cfg := &fmtConfig{Indent: 2}
	opts, _ := cli.StructOpts(cfg)
	return cli.NewCommandAt(&cfg.Command, "fmt").
		WithSynopsis("fmt [-c] <file>... - Normalize document formatting").
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *fmtConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	encOpts := []encode.EncodeOption{encode.Indent(cfg.Indent)}
	if cfg.Color {
		encOpts = append(encOpts, encode.EncodeColors(encode.NewColors()))
	} else {
		encOpts = append(encOpts, encode.AutoColors(cc.Out))
	}
	return eachInput(cc, args, func(name string, data []byte) error {
		node, err := parse.Parse(data, parse.ParseFilename(name))
		if err != nil {
			return err
		}
		return encode.Encode(node, cc.Out, encOpts...)
	})
}

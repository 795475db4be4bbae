package main

import (
	"github.com/spf13/pflag"

	"github.com/angeloszaimis/devserver/config"
)

type options struct {
	configPath string
	root       string
	host       string
	port       int
	flags      *pflag.FlagSet
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}

	fs := pflag.NewFlagSet("devserver", pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", config.DefaultPath(), "path to config.json")
	fs.StringVarP(&opts.root, "root", "r", "", "directory to serve (default: the binary's directory)")
	fs.StringVar(&opts.host, "host", config.DefaultHost, "interface to listen on")
	fs.IntVarP(&opts.port, "port", "p", config.DefaultPort, "port to listen on")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.flags = fs
	return opts, nil
}

// apply overrides configuration values with flags given on the command line.
func (o *options) apply(cfg *config.Config) {
	if o.flags.Changed("root") {
		cfg.Server.Root = o.root
	}
	if o.flags.Changed("host") {
		cfg.Server.Host = o.host
	}
	if o.flags.Changed("port") {
		cfg.Server.Port = o.port
	}
}

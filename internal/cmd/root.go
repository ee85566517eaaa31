package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `name:"version" help:"Print version."`

	Version  VersionCmd  `cmd:"" help:"Print version."`
	Config   ConfigCmd   `cmd:"" help:"Manage configuration."`
	Auth     AuthCmd     `cmd:"" help:"Manage stored credentials."`
	Scan     ScanCmd     `cmd:"" help:"Fetch messages from a mailbox and list the opportunities found."`
	Classify ClassifyCmd `cmd:"" help:"Classify a JSON array of raw messages from a file or stdin."`
	Stats    StatsCmd    `cmd:"" help:"Per-category totals, new and urgent counts."`
	Serve    ServeCmd    `cmd:"" help:"Run the HTTP API."`
	Proxies  ProxiesCmd  `cmd:"" help:"Proxy utilities."`
}

func NewCLI() *CLI {
	return &CLI{}
}

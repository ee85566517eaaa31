package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/Vijay-1289/opportune/internal/cmd"
	"github.com/Vijay-1289/opportune/internal/config"
	"github.com/Vijay-1289/opportune/internal/credential"
	"github.com/Vijay-1289/opportune/internal/source"
	"github.com/Vijay-1289/opportune/internal/ui"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	cli := cmd.NewCLI()
	applyEnvDefaults(cli)
	versionString := buildVersion()

	parser, err := kong.New(cli,
		kong.Name("opportune"),
		kong.Description("Find internships, jobs, hackathons and scholarships in your inbox."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": versionString},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fallbackUI := ui.New(os.Stdout, os.Stderr, ui.NormalizeColorMode(os.Getenv("OPPORTUNE_COLOR")), false)
		fallbackUI.Errorf("%v", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	colorMode := ui.NormalizeColorMode(cli.Color)
	disableColor := cli.JSON || cli.Plain
	userInterface := ui.New(os.Stdout, os.Stderr, colorMode, disableColor)

	level := zerolog.InfoLevel
	if cli.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Env and flag credentials still work without a keyring backend.
	store, err := credential.Open(configDir)
	if err != nil {
		logger.Debug().Err(err).Msg("keyring unavailable")
	}

	runCtx := &cmd.Context{
		Out:         os.Stdout,
		Err:         os.Stderr,
		In:          os.Stdin,
		UI:          userInterface,
		Config:      cfg,
		ConfigDir:   configDir,
		Logger:      logger,
		Verbose:     cli.Verbose,
		JSONOutput:  cli.JSON,
		PlainText:   cli.Plain,
		Version:     versionString,
		ColorMode:   colorMode,
		Credentials: store,
		Sources:     source.New,
	}

	if err := kctx.Run(runCtx); err != nil {
		userInterface.Errorf("%v", err)
		os.Exit(1)
	}
}

func buildVersion() string {
	if commit == "" && date == "" {
		return version
	}
	if commit == "" {
		return fmt.Sprintf("%s (%s)", version, date)
	}
	if date == "" {
		return fmt.Sprintf("%s (%s)", version, commit)
	}
	return fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

func applyEnvDefaults(cli *cmd.CLI) {
	if envBool("OPPORTUNE_JSON") {
		cli.JSON = true
	}
	if envBool("OPPORTUNE_PLAIN") {
		cli.Plain = true
	}
	if envBool("OPPORTUNE_VERBOSE") {
		cli.Verbose = true
	}
	if value := os.Getenv("OPPORTUNE_COLOR"); value != "" {
		cli.Color = value
	}
}

func envBool(key string) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return false
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

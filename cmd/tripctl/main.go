// Command tripctl is the terminal client for the trip planner API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/pkordes/trip-planner/internal/cli"
	"github.com/pkordes/trip-planner/internal/client"
	"github.com/pkordes/trip-planner/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Server  string `help:"API server URL." default:"http://localhost:8080" env:"TRIPCTL_SERVER"`
	Token   string `help:"Session token. Defaults to the one stored by 'tripctl login'." env:"TRIPCTL_TOKEN"`
	Yes     bool   `help:"Answer yes to every confirmation." short:"y"`
	Debug   bool   `help:"Log debug output to stderr."`
	LogDir  string `help:"Directory for tripctl.log." type:"path"`

	Login      cli.LoginCmd      `cmd:"" help:"Sign in and store a session token."`
	Logout     cli.LogoutCmd     `cmd:"" help:"Forget the stored session token."`
	Whoami     cli.WhoamiCmd     `cmd:"" help:"Show the signed-in user."`
	Plans      cli.PlansCmd      `cmd:"" help:"Manage plans."`
	Show       cli.ShowCmd       `cmd:"" help:"Show a plan's itinerary, budget and packing list." default:"1"`
	Fields     cli.FieldsCmd     `cmd:"" help:"List the editable fields of an item kind."`
	Add        cli.AddCmd        `cmd:"" help:"Add an item with default values."`
	Set        cli.SetCmd        `cmd:"" help:"Change one field of an item."`
	Rm         cli.RmCmd         `cmd:"" help:"Delete an item."`
	Export     cli.ExportCmd     `cmd:"" help:"Export one list of a plan as CSV."`
	Share      cli.ShareCmd      `cmd:"" help:"Toggle a plan between private and public."`
	Experience cli.ExperienceCmd `cmd:"" help:"Open the interactive view of a shared plan."`
	Countdown  cli.CountdownCmd  `cmd:"" help:"Count down to the start of a shared trip."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("tripctl"),
		kong.Description("Plan trips from the terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	logDir := CLI.LogDir
	if logDir == "" {
		logDir = logger.DefaultDir()
	}
	log, err := logger.New(logger.Config{Debug: CLI.Debug, Dir: logDir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tokens := &cli.TokenStore{Server: CLI.Server}
	token := CLI.Token
	if token == "" {
		if token, err = tokens.Get(); err != nil {
			log.Warn("keyring unavailable", "err", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli.App{
		Ctx:       ctx,
		Server:    CLI.Server,
		Client:    client.New(CLI.Server, client.WithToken(token)),
		Log:       log,
		Out:       os.Stdout,
		Confirmer: cli.HuhConfirmer{Yes: CLI.Yes},
		Notifier:  cli.WriterNotifier{W: os.Stderr},
		Clipboard: cli.SystemClipboard{},
		Tokens:    tokens,
	}

	if err := kctx.Run(app); err != nil {
		log.Error("command failed", "cmd", kctx.Command(), "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/customeros/sleeper/config"
	"github.com/customeros/sleeper/internal/logger"
	"github.com/customeros/sleeper/server"
)

func main() {
	bootstrapLogger := logger.NewAppLogger(&logger.Config{LogLevel: "info", Encoder: "console"})
	bootstrapLogger.InitLogger()

	if err := newApp().RunContext(context.Background(), os.Args); err != nil {
		bootstrapLogger.Fatalf("sleeper: %v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "sleeper",
		Usage:     "poll a data source for a keyphrase and run an action once it shows up",
		ArgsUsage: "[key=value ...]",
		Description: "Options are given as key=value pairs, a bare key means key=true.\n" +
			"Common keys: keyphrase, action, provider (guerrillamail, http, imap, s3, amqp, console, pop3, none),\n" +
			"parser (plaintext, html, none), repeat (minutes, at least 3), verbose, debug, notify.\n" +
			"Every key can also be set through a SLEEPER_<KEY> environment variable.",
		Flags:           []cli.Flag{configFlag()},
		HideHelpCommand: true,
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 && !c.IsSet("config") {
				return cli.ShowAppHelp(c)
			}
			return run(c.Context, c.String("config"), c.Args().Slice(), nil)
		},
		Commands: []*cli.Command{
			{
				Name:      "notify",
				Usage:     "print the address that triggers this sleeper today and exit",
				ArgsUsage: "[key=value ...]",
				Flags:     []cli.Flag{configFlag()},
				Action: func(c *cli.Context) error {
					return run(c.Context, c.String("config"), c.Args().Slice(), map[string]string{config.KeyNotify: "true"})
				},
			},
		},
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "YAML file with option values",
	}
}

func run(ctx context.Context, configFile string, args []string, overrides map[string]string) error {
	values := config.ParseArgs(args)
	for k, v := range overrides {
		values[k] = v
	}

	cfg, err := config.InitConfig(configFile, values)
	if err != nil {
		return err
	}

	s, err := server.NewServer(cfg)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		updateCommand, previewCommand, entriesCommand, authCommand, statusCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// updateCommand runs the full publish job
func updateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Fetch the list and publish the top 5 progress lines to the gist",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Update,
	}
}

// previewCommand renders the lines without publishing
func previewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "preview",
		Usage: "Render the gist content locally without publishing",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output ranked records as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Preview,
	}
}

// entriesCommand dumps the normalized list entries
func entriesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "entries",
		Usage: "Fetch and print the user's normalized list entries",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of entries to print",
			},
		},
		Action: r.Entries,
	}
}

// authCommand obtains a MAL access token via OAuth2
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with MyAnimeList using OAuth2 and save the token",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Auth,
	}
}

// statusCommand shows the rate limit gate state
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show when the gist was last published and when the next update is allowed",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Status,
	}
}

// setupCommand scaffolds a config file
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config.toml from the embedded example",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Setup,
	}
}

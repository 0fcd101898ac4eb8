// Command grambusd runs the grambus message broker. It takes no arguments;
// the listening port and registry capacities come from the environment.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/grambus/grambus/broker"
	"github.com/grambus/grambus/pkg/slogx"
)

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log := zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: slog.LevelDebug}),
	))
}

type config struct {
	Port        uint16 `env:"GRAMBUS_PORT" envDefault:"8080"`
	Topics      int    `env:"GRAMBUS_TOPICS"`
	Subscribers int    `env:"GRAMBUS_SUBSCRIBERS"`
}

var rootCmd = &cobra.Command{
	Use:           "grambusd",
	Short:         "Run the grambus message broker",
	Long:          "grambusd listens for PUB, SUB and UNSUB datagrams and forwards published messages to every subscriber of the message's topic and of the wildcard topic '#'.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var cfg config
		if err := env.Parse(&cfg); err != nil {
			return err
		}

		// Zero capacities fall back to the registry defaults.
		srv, err := broker.New(
			broker.Port(cfg.Port),
			broker.Topics(cfg.Topics),
			broker.Subscribers(cfg.Subscribers),
			broker.Logger(slog.Default()),
		)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("broker terminated", slogx.Error(err))
		os.Exit(1)
	}
}

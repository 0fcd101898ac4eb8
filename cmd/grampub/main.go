// Command grampub publishes a single message to a grambus broker:
//
//	grampub broker topic message
//
// With --every it instead publishes the current Unix timestamp to the topic
// on an interval until interrupted:
//
//	grampub --every 5s broker topic
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/grambus/grambus/client"
	"github.com/grambus/grambus/pkg/netx"
	"github.com/grambus/grambus/pkg/slogx"
	"github.com/grambus/grambus/wire"
)

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log := zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: slog.LevelInfo}),
	))
}

var (
	port  uint16
	every time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "grampub broker topic [message]",
	Short:         "Publish a message to a grambus broker",
	Args:          cobra.RangeArgs(2, 3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if every > 0 && len(args) != 2 {
			return fmt.Errorf("expected call pattern: grampub --every %s broker topic", every)
		}
		if every == 0 && len(args) != 3 {
			return fmt.Errorf("expected call pattern: grampub broker topic message")
		}

		endpoint, err := netx.Resolve(cmd.Context(), args[0], port)
		if err != nil {
			return err
		}
		pub, err := client.NewPublisher(endpoint)
		if err != nil {
			return err
		}
		defer pub.Close()

		topic := args[1]
		if every > 0 {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			slog.Info("publishing timestamps", slogx.Topic(topic), slog.Duration("every", every))
			return pub.PublishEvery(ctx, topic, every)
		}

		slog.Info("publishing message", slogx.Topic(topic), slog.String("message", args[2]))
		return pub.Publish(topic, args[2])
	},
}

func main() {
	rootCmd.Flags().Uint16Var(&port, "port", wire.DefaultPort, "broker port")
	rootCmd.Flags().DurationVar(&every, "every", 0, "publish the current Unix timestamp at this interval instead of a one-shot message")
	if err := rootCmd.Execute(); err != nil {
		slog.Error("publish failed", slogx.Error(err))
		os.Exit(1)
	}
}

// Command gramsub subscribes to one topic at a grambus broker and prints
// every forwarded message body to stdout:
//
//	gramsub broker topic
//
// The topic may be the wildcard '#' to receive all messages. On interrupt the
// program best-effort unsubscribes before exiting.
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

var port uint16

var rootCmd = &cobra.Command{
	Use:           "gramsub broker topic",
	Short:         "Subscribe to a topic at a grambus broker and print its messages",
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint, err := netx.Resolve(cmd.Context(), args[0], port)
		if err != nil {
			return err
		}
		sub, err := client.NewSubscriber(endpoint)
		if err != nil {
			return err
		}
		defer sub.Close()

		topic := args[1]
		if err := sub.Subscribe(topic); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		slog.Info("subscribed, waiting for messages", slogx.Topic(topic))
		return sub.Listen(ctx, func(message string) {
			fmt.Println(message)
		})
	},
}

func main() {
	rootCmd.Flags().Uint16Var(&port, "port", wire.DefaultPort, "broker port")
	if err := rootCmd.Execute(); err != nil {
		slog.Error("subscriber failed", slogx.Error(err))
		os.Exit(1)
	}
}

/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/trailtrack/apiserver/config"
	"github.com/trailtrack/apiserver/internal/mq"
	"github.com/trailtrack/apiserver/types"
)

var (
	eventsChannel string
	eventsTypes   []string
)

// eventsCmd represents the events command.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect record events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print record events as they are published",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if cfg.MQ.Backend == "none" {
			return errors.New("MQ_BACKEND is none; nothing to tail")
		}
		channel := cfg.MQ.Channel
		if eventsChannel != "" {
			channel = eventsChannel
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		queue, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return fmt.Errorf("open mq: %w", err)
		}
		defer queue.Close()

		out := cmd.OutOrStdout()
		filter := mq.Filter{Attribute: types.EventTypeAttribute, Values: eventsTypes}
		err = queue.SubscribeFiltered(ctx, channel, filter, func(_ context.Context, msg mq.Message) error {
			return printEvent(out, msg)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)

	eventsTailCmd.Flags().StringVar(&eventsChannel, "channel", "", "channel to subscribe to (defaults to MQ_CHANNEL)")
	eventsTailCmd.Flags().StringSliceVar(&eventsTypes, "type", nil, "only print these event types, e.g. --type lead.closed_won,lead.closed_lost")
}

// printEvent writes one line per event. Payloads that are not record
// events are printed raw so nothing is silently dropped.
func printEvent(w io.Writer, msg mq.Message) error {
	var event types.RecordEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil || event.Type == "" {
		_, werr := fmt.Fprintf(w, "%s\t%s\n", msg.ID, msg.Data)
		return werr
	}
	_, err := fmt.Fprintf(w, "%s\t%s\t%s id=%d owner=%d\n",
		event.OccurredAt.Format("2006-01-02T15:04:05Z07:00"), msg.ID, event.Type, event.ID, event.OwnerID)
	return err
}

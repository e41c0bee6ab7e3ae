// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yourbase/ini/live"
	"github.com/yourbase/ini/watch"
)

var watchParams struct {
	serve string
}

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Watch a file and report every reload",
	Long: "Watch parses FILE, reparses it every time it changes on disk, and\n" +
		"prints a summary of each new version. With --serve, the current\n" +
		"document is also streamed as JSON over a WebSocket at /live.",
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchParams.serve, "serve", "", "address to serve the live document on (for example :8080)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts, err := parseOptions()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(args[0], &watch.Options{Parse: opts})
	if err != nil {
		return err
	}
	defer w.Close()
	fmt.Printf("watching %s (%d tables)\n", args[0], len(w.Document().Tables()))

	updates, cancel := w.Subscribe()
	defer cancel()
	go func() {
		for doc := range updates {
			fmt.Printf("reloaded %s (%d tables)\n", args[0], len(doc.Tables()))
		}
	}()

	if watchParams.serve != "" {
		mux := http.NewServeMux()
		mux.Handle("/live", &live.Handler{Source: w})
		srv := &http.Server{
			Addr:    watchParams.serve,
			Handler: mux,
			BaseContext: func(net.Listener) context.Context {
				return ctx
			},
		}
		go func() {
			<-ctx.Done()
			srv.Close()
		}()
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintln(os.Stderr, "iniq:", err)
			}
		}()
		fmt.Printf("serving the live document on ws://%s/live\n", watchParams.serve)
	}

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

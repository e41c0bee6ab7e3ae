// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package live serves a continuously updated view of an INI document over a
// WebSocket.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yourbase/ini"
	"zombiezen.com/go/log"
)

// A Source provides the current document and a feed of replacements. It is
// satisfied by *watch.Watcher.
type Source interface {
	Document() ini.Document
	Subscribe() (<-chan ini.Document, func())
}

// Handler upgrades requests to a WebSocket and streams JSON snapshots of the
// source's document: one message on connect and one for every update, shaped
// like
//
//	{"tables": [{"name": "", "entries": [{"key": "a", "value": "1"}]}]}
//
// The first table is always the root table with the empty name. Client
// messages are read only to detect the connection closing.
type Handler struct {
	Source Source

	// PingPeriod is how often to ping the client to keep the connection
	// alive. Defaults to 30 seconds.
	PingPeriod time.Duration

	upgrader websocket.Upgrader
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		log.Warnf(ctx, "Live document upgrade: %v", err)
		return
	}
	defer conn.Close()
	defer func() {
		// Tell well-behaved clients the stream is over. The connection may
		// already be gone; Close above reclaims it either way.
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(1*time.Second))
	}()

	// Consume client frames so control messages are handled and a closed
	// connection cancels the context.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	updates, stop := h.Source.Subscribe()
	defer stop()
	if err := writeDocument(ctx, conn, h.Source.Document()); err != nil {
		log.Warnf(ctx, "Live document send: %v", err)
		return
	}

	pingPeriod := h.PingPeriod
	if pingPeriod <= 0 {
		pingPeriod = 30 * time.Second
	}
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case doc, ok := <-updates:
			if !ok {
				return
			}
			if err := writeDocument(ctx, conn, doc); err != nil {
				log.Warnf(ctx, "Live document send: %v", err)
				return
			}
		case <-ticker.C:
			if err := ping(ctx, conn, nil); err != nil {
				log.Warnf(ctx, "Live document ping: %v", err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

type wireEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type wireTable struct {
	Name    string      `json:"name"`
	Entries []wireEntry `json:"entries"`
}

type wireDocument struct {
	Tables []wireTable `json:"tables"`
}

func encodeDocument(doc ini.Document) wireDocument {
	var wd wireDocument
	for _, t := range doc.Tables() {
		wt := wireTable{
			Name:    string(t.Name()),
			Entries: make([]wireEntry, 0, t.Len()),
		}
		for _, e := range t.Entries() {
			wt.Entries = append(wt.Entries, wireEntry{
				Key:   string(e.Key),
				Value: string(e.Value),
			})
		}
		wd.Tables = append(wd.Tables, wt)
	}
	return wd
}

func writeDocument(ctx context.Context, conn *websocket.Conn, doc ini.Document) error {
	data, err := json.Marshal(encodeDocument(doc))
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return writeMessage(ctx, conn, websocket.TextMessage, data)
}

// writeMessage writes a message to the connection, abandoning the write by
// poking the write deadline if ctx is canceled first.
func writeMessage(ctx context.Context, conn *websocket.Conn, messageType int, data []byte) error {
	ctxDone := ctx.Done()
	if ctxDone == nil {
		return conn.WriteMessage(messageType, data)
	}
	select {
	case <-ctxDone:
		return fmt.Errorf("write websocket message: %w", ctx.Err())
	default:
	}
	written := make(chan struct{})
	watchDone := make(chan struct{})
	go func() {
		close(watchDone)
		select {
		case <-written:
		case <-ctxDone:
			// XXX This is racy because WriteMessage will unconditionally call
			// SetWriteDeadline.
			conn.UnderlyingConn().SetWriteDeadline(time.Now())
		}
	}()
	err := conn.WriteMessage(messageType, data)
	close(written)
	<-watchDone
	return err
}

// ping writes a ping message to the connection. It is safe to call
// concurrently with writeMessage on the same connection.
func ping(ctx context.Context, conn *websocket.Conn, data []byte) error {
	ctxDone := ctx.Done()
	if ctxDone == nil {
		return conn.WriteControl(websocket.PingMessage, data, time.Time{})
	}
	select {
	case <-ctxDone:
		return fmt.Errorf("ping websocket: %w", ctx.Err())
	default:
	}
	written := make(chan struct{})
	watchDone := make(chan struct{})
	go func() {
		close(watchDone)
		select {
		case <-written:
		case <-ctxDone:
			// XXX This is racy because WriteControl will unconditionally call
			// SetWriteDeadline.
			conn.UnderlyingConn().SetWriteDeadline(time.Now())
		}
	}()
	err := conn.WriteControl(websocket.PingMessage, data, time.Time{})
	close(written)
	<-watchDone
	return err
}

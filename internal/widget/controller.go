// Package widget implements the chat widget controller: it reads the input
// field, appends to the transcript, routes the message by keyword and renders
// the backend reply.
package widget

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/zhouzirui/dhamma-widget/internal/analysis/topic"
	"github.com/zhouzirui/dhamma-widget/internal/model/chat"
	"github.com/zhouzirui/dhamma-widget/internal/service/backend"
	chatService "github.com/zhouzirui/dhamma-widget/internal/service/chat"
)

// Input is the text field the controller reads from and clears.
type Input interface {
	Value() string
	SetValue(string)
}

// Backend delivers one message to the endpoint selected by route.
type Backend interface {
	Send(ctx context.Context, route topic.Route, req backend.Request) (string, error)
}

// Options tunes the optional history attached to outgoing requests.
type Options struct {
	SendHistory  bool
	HistoryLimit int
}

// Controller owns the send operation of the widget.
type Controller struct {
	transcript *chatService.Service
	backend    Backend
	logger     *zap.Logger
	opts       Options

	inflight sync.WaitGroup
}

// New creates a controller appending to transcript and sending through b.
func New(transcript *chatService.Service, b Backend, logger *zap.Logger, opts Options) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		transcript: transcript,
		backend:    b,
		logger:     logger.With(zap.String("session", transcript.Session().ID)),
		opts:       opts,
	}
}

// AppendMessage adds a transcript entry under sender. The text is stored
// verbatim; renderers print it without escaping.
func (c *Controller) AppendMessage(ctx context.Context, sender, message string) {
	role := chat.RoleBot
	if sender == chat.UserLabel {
		role = chat.RoleUser
	}
	c.appendEntry(ctx, chat.Message{Sender: sender, Text: message, Role: role})
}

// SendMessage reads and trims the input. Blank input is ignored and false is
// returned. Otherwise the text is appended under the user label, the input is
// cleared and the request is dispatched in the background; the reply (or the
// fixed error text) is appended whenever the backend answers.
//
// Requests are detached from ctx cancellation and are never aborted.
func (c *Controller) SendMessage(ctx context.Context, in Input) bool {
	text := strings.TrimSpace(in.Value())
	if text == "" {
		return false
	}

	decision := topic.Classify(text)

	// history is a /chat extension; /ask only ever sees the message.
	var history []backend.HistoryEntry
	if c.opts.SendHistory && decision.Route == topic.Chat {
		history = backend.BuildHistory(c.transcript.LoadTranscript(ctx), c.opts.HistoryLimit)
	}

	c.AppendMessage(ctx, chat.UserLabel, text)
	in.SetValue("")

	c.logger.Debug("message classified",
		zap.String("endpoint", decision.Route.Path()),
		zap.Bool("dhamma", decision.Dhamma()),
		zap.String("keyword", decision.Keyword),
		zap.Int("history", len(history)),
	)

	req := backend.Request{Message: text, History: history}
	reqCtx := context.WithoutCancel(ctx)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.deliver(reqCtx, decision.Route, req)
	}()
	return true
}

// Wait blocks until every dispatched send has appended its outcome.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

func (c *Controller) deliver(ctx context.Context, route topic.Route, req backend.Request) {
	reply, err := c.call(ctx, route, req)
	if err != nil {
		c.logger.Error("send failed",
			zap.String("endpoint", route.Path()),
			zap.Error(err),
		)
		c.appendEntry(ctx, chat.FailureMessage())
		return
	}
	c.AppendMessage(ctx, chat.BotLabel, reply)
}

// appendEntry is the only write path from the controller into the transcript.
func (c *Controller) appendEntry(ctx context.Context, msg chat.Message) {
	c.transcript.Append(ctx, msg)
}

// call converts a panic inside the backend into an ordinary error.
func (c *Controller) call(ctx context.Context, route topic.Route, req backend.Request) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panic: %v", r)
		}
	}()
	return c.backend.Send(ctx, route, req)
}

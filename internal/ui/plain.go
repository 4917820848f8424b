package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/zhouzirui/dhamma-widget/internal/model/chat"
	chatService "github.com/zhouzirui/dhamma-widget/internal/service/chat"
	"github.com/zhouzirui/dhamma-widget/internal/widget"
)

// RunPlain drives the controller from line-oriented input: every line is one
// send, every transcript entry is printed as "sender: text". At end of input
// it waits for pending replies; cancelling ctx returns immediately.
func RunPlain(ctx context.Context, in io.Reader, out io.Writer, controller *widget.Controller, transcript *chatService.Service) error {
	var mu sync.Mutex
	transcript.Subscribe(func(msg chat.Message) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(out, PlainLine(msg))
	})

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return waitPending(ctx, controller, scanErr)
			}
			controller.SendMessage(ctx, widget.NewField(line))
		}
	}
}

func waitPending(ctx context.Context, controller *widget.Controller, scanErr <-chan error) error {
	done := make(chan struct{})
	go func() {
		controller.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return nil
	case <-done:
	}

	select {
	case err := <-scanErr:
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	default:
	}
	return nil
}

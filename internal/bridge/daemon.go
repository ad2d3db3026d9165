package bridge

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// resetCommand lets a chat user start a new conversation explicitly,
// the platform equivalent of reloading the chat page.
const resetCommand = "!new"

// ChatService is the slice of session.Manager the daemon needs.
type ChatService interface {
	Turn(ctx context.Context, key, message string) (string, error)
	Reset(key string) error
}

// Daemon connects an Adapter to the dialogue engine. Each platform user
// in each channel gets their own conversation.
type Daemon struct {
	adapter Adapter
	chat    ChatService
	out     io.Writer
}

// DaemonOpts holds parameters for creating a Daemon.
type DaemonOpts struct {
	Adapter Adapter     // required
	Chat    ChatService // required
	Out     io.Writer   // defaults to os.Stdout
}

// NewDaemon creates a Daemon.
func NewDaemon(opts DaemonOpts) (*Daemon, error) {
	if opts.Adapter == nil {
		return nil, fmt.Errorf("bridge: adapter is required")
	}
	if opts.Chat == nil {
		return nil, fmt.Errorf("bridge: chat service is required")
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Daemon{adapter: opts.Adapter, chat: opts.Chat, out: out}, nil
}

// sessionKey builds the conversation identity for a platform user.
func sessionKey(msg InboundMessage) string {
	return msg.Platform + ":" + msg.ChannelID + ":" + msg.UserID
}

// Run connects the adapter and pumps inbound messages until ctx is
// cancelled. On shutdown it closes the adapter gracefully.
func (d *Daemon) Run(ctx context.Context) error {
	fmt.Fprintf(d.out, "Bridge connecting...\n")
	if err := d.adapter.Connect(ctx); err != nil {
		return fmt.Errorf("bridge: connect: %w", err)
	}

	var botUserID string
	if bui, ok := d.adapter.(BotUserIDer); ok {
		botUserID = bui.BotUserID()
	}

	inbound, err := d.adapter.Listen(ctx)
	if err != nil {
		d.adapter.Close()
		return fmt.Errorf("bridge: listen: %w", err)
	}

	fmt.Fprintf(d.out, "Bridge online\n")

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(d.out, "Bridge shutting down...\n")
			if err := d.adapter.Close(); err != nil {
				log.Printf("bridge: close adapter: %v", err)
			}
			return nil

		case msg, ok := <-inbound:
			if !ok {
				fmt.Fprintf(d.out, "Bridge inbound channel closed\n")
				return nil
			}
			if msg.UserID != "" && msg.UserID == botUserID {
				continue
			}
			d.handle(ctx, msg)
		}
	}
}

// handle runs one inbound message through the dialogue engine and sends
// the reply back to the channel it came from.
func (d *Daemon) handle(ctx context.Context, msg InboundMessage) {
	key := sessionKey(msg)

	if strings.TrimSpace(msg.Text) == resetCommand {
		if err := d.chat.Reset(key); err != nil {
			log.Printf("bridge: reset %s: %v", key, err)
			return
		}
		d.send(ctx, msg.ChannelID, "New conversation started. How can I help?")
		return
	}

	reply, err := d.chat.Turn(ctx, key, msg.Text)
	if err != nil {
		// Operational fault: tell the user plainly rather than
		// disguising it as a bot reply.
		log.Printf("bridge: turn %s: %v", key, err)
		d.send(ctx, msg.ChannelID, "The support desk is temporarily unavailable. Please try again shortly.")
		return
	}
	d.send(ctx, msg.ChannelID, reply)
}

func (d *Daemon) send(ctx context.Context, channelID, text string) {
	if err := d.adapter.Send(ctx, OutboundMessage{ChannelID: channelID, Text: text}); err != nil {
		log.Printf("bridge: send: %v", err)
	}
}

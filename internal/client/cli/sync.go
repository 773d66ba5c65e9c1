package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/engine"
)

func (c *Cli) runSync(ctx context.Context, args []string) error {
	mode := "full"
	if len(args) > 0 {
		mode = args[0]
	}

	// Одноразовая команда: состояние сети узнаем сразу, не дожидаясь монитора.
	c.engine.Probe(ctx)

	switch mode {
	case "push":
		return show(c, c.engine.SyncPush(ctx), "push")
	case "pull":
		return show(c, c.engine.SyncPull(ctx), "pulls")
	case "full":
		return show(c, c.engine.SyncFull(ctx), "full")
	default:
		return fmt.Errorf("unknown sync mode: %s. Usage: sync [push|pull|full]", mode)
	}
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.engine.Probe(ctx)

	if err := show(c, c.engine.GetSyncStatus(ctx), "status"); err != nil {
		return err
	}
	if c.json {
		return nil
	}

	c.io.Println()
	session := c.engine.Session(ctx)
	if !session.Success {
		if session.Code == apperrors.CodeAuth {
			c.io.Println("Session: not logged in. Run 'possync login' to authenticate.")
			return nil
		}
		return session.Err()
	}
	return show(c, session, "session")
}

const queueUsage = "queue [list] [-status pending|processed|failed] | queue retry <id> [-force]"

func (c *Cli) runQueue(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "retry" {
		fs := c.flagSet("queue retry")
		force := fs.Bool("force", false, "resend without the expected version, overwriting the backend record")
		id, err := parseWithID(fs, args[1:])
		if err != nil {
			return err
		}
		return show(c, c.engine.RetryQueueEntry(ctx, id, *force), "entry")
	}

	if len(args) > 0 && args[0] == "list" {
		args = args[1:]
	}
	fs := c.flagSet("queue list")
	status := fs.String("status", "", "only entries with this status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q. Usage: %s", fs.Arg(0), queueUsage)
	}
	return show(c, c.engine.QueueEntries(ctx, *status), "queue")
}

// runWatch runs the engine in the foreground and prints every status
// change until ctx is cancelled.
func (c *Cli) runWatch(ctx context.Context) error {
	updates, cancel := c.engine.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for st := range updates {
			_ = show(c, engine.Result[any]{Success: true, Data: st}, "status")
			c.io.Println()
		}
	}()

	c.io.Println("Watching for changes, press Ctrl+C to stop.")
	err := c.engine.Run(ctx)
	cancel()
	<-done
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

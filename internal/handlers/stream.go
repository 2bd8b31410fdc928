package handlers

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"movie-catalog/internal/live"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

const defaultHeartbeat = 15 * time.Second

// streamEvents answers the request with a Server-Sent Events stream fed by the
// subscription that open creates. The subscription lives until the client goes
// away or the query fails.
func streamEvents[T any](c *fiber.Ctx, logger *logrus.Logger, heartbeat time.Duration, event string, open func(ctx context.Context) *live.Subscription[T]) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	encode := c.App().Config().JSONEncoder
	log := logger.WithFields(logrus.Fields{
		"subscription": uuid.NewString(),
		"path":         c.Path(),
	})

	// The request context ends with the handler; the stream outlives it.
	sub := open(context.Background())
	log.Debug("Stream opened")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Close()
		if err := writeEvents(w, sub, heartbeat, event, encode); err != nil {
			log.WithError(err).Debug("Stream closed")
			return
		}
		log.Debug("Stream finished")
	}))
	return nil
}

// writeEvents copies subscription values to w until the subscription ends or a
// write fails. A failed query is reported as a final "error" event.
func writeEvents[T any](w *bufio.Writer, sub *live.Subscription[T], heartbeat time.Duration, event string, encode func(any) ([]byte, error)) error {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for seq := 1; ; {
		select {
		case value, ok := <-sub.Updates():
			if !ok {
				if err := sub.Err(); err != nil {
					fmt.Fprintf(w, "event: error\ndata: %q\n\n", err.Error())
					return w.Flush()
				}
				return nil
			}
			data, err := encode(value)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", seq, event, data)
			if err := w.Flush(); err != nil {
				return err
			}
			seq++
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}
}

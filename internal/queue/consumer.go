package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log/slog"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// QueryLogFile is the file, inside the consumer's log directory, that
// receives one line per query event.
const QueryLogFile = "queries.log"

// Consumer drains the query.resolved queue into a plain-text log.
type Consumer struct {
    url    string
    logDir string
    log    *slog.Logger
}

// NewConsumer returns a Consumer writing under logDir ("logs" when empty).
func NewConsumer(url, logDir string, logger *slog.Logger) *Consumer {
    if url == "" {
        url = DefaultURL
    }
    if logDir == "" {
        logDir = "logs"
    }
    if logger == nil {
        logger = slog.Default()
    }
    return &Consumer{url: url, logDir: logDir, log: logger}
}

// Run connects to RabbitMQ, declares the queue and appends every message to
// the log file. It reconnects with a doubling backoff (capped at 30s) and
// returns only when ctx is cancelled. Messages that cannot be handled are
// rejected without requeue to avoid tight loops.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.url)
        if err != nil {
            c.log.Warn("query-consumer: failed to dial broker", "error", err, "retry_in", backoff)
            if !wait(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.log.Warn("query-consumer: consume loop ended; reconnecting", "error", err)
        if !wait(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.log.Warn("query-consumer: set QoS failed", "error", err)
    }
    if err := declare(ch); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(QueryResolvedQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.Handle(d.Body); err != nil {
                c.log.Error("query-consumer: handle message failed", "error", err)
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// Handle decodes one message body and appends its line to the log file.
func (c *Consumer) Handle(body []byte) error {
    var ev QueryResolvedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if err := os.MkdirAll(c.logDir, 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(filepath.Join(c.logDir, QueryLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatLine renders ev as a single human-friendly log line.
func FormatLine(ev QueryResolvedEvent) string {
    list := func(items []string) string {
        return "[" + strings.Join(items, ",") + "]"
    }
    outcome := "answered"
    if ev.NotFound {
        outcome = "not found"
    }
    return fmt.Sprintf("[%s] Query %s | id=%s | cinema_id=%d | cinema=%q | intent=%s | movies=%s | unmatched=%s | days=%s | blocks=%d\n",
        ev.ResolvedAt, outcome, ev.ID, ev.CinemaID, ev.CinemaName, ev.Intent, list(ev.Movies), list(ev.Unmatched), list(ev.Days), ev.Blocks)
}

func wait(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

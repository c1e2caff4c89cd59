package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "log/slog"
    "os"
    "path/filepath"
    "sort"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// MigrationLogFile is the file, inside the consumer's log directory, that
// receives one line per migration event.
const MigrationLogFile = "migration.log"

// StartMigrationConsumer connects to RabbitMQ, declares the
// migration.completed queue and appends every event to dir/migration.log.
// It reconnects with exponential backoff and returns only when ctx is done.
// Undecodable messages are rejected without requeue.
func StartMigrationConsumer(ctx context.Context, url, dir string, log *slog.Logger) error {
    if log == nil {
        log = slog.New(slog.NewTextHandler(io.Discard, nil))
    }
    log = log.With("component", "migration-consumer")

    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Warn("failed to dial broker", "error", err, "retry_in", backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = consumeLoop(ctx, conn, dir, log)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn("consume loop ended; reconnecting", "error", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, dir string, log *slog.Logger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(10, 0, false); err != nil {
        log.Warn("set QoS failed", "error", err)
    }
    if _, err := ch.QueueDeclare(MigrationCompletedQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(MigrationCompletedQueue, "", false, false, false, false, nil)
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
            if err := HandleMigrationMessage(dir, d.Body); err != nil {
                log.Error("handle message failed", "error", err)
                _ = d.Nack(false, false) // no requeue, avoids tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// HandleMigrationMessage decodes body and appends it to dir/migration.log.
func HandleMigrationMessage(dir string, body []byte) error {
    var ev MigrationCompletedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", dir, err)
    }
    f, err := os.OpenFile(filepath.Join(dir, MigrationLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatMigrationLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatMigrationLine renders ev as a single human-friendly line.
func FormatMigrationLine(ev MigrationCompletedEvent) string {
    return fmt.Sprintf("[%s] Legacy migration finished | run_id=%s | migrated=%t | from=%s | to=%s | inserted=%s | skipped=%s\n",
        ev.CompletedAt, ev.RunID, ev.Migrated, ev.FromVersion, ev.ToVersion, counts(ev.Inserted), counts(ev.Skipped))
}

// counts renders a stage map in stable key order, e.g. {bookings=2,tables=1}.
func counts(m map[string]int) string {
    keys := make([]string, 0, len(m))
    for k := range m {
        keys = append(keys, k)
    }
    sort.Strings(keys)
    parts := make([]string, 0, len(keys))
    for _, k := range keys {
        parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
    }
    return "{" + strings.Join(parts, ",") + "}"
}

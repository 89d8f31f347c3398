package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StartAuditConsumer connects to the broker, declares the reservation
// event queues and appends a one-line audit record per event to
// logs/reservas.log.  It runs a reconnect loop with capped backoff and
// never returns under normal operation; processing errors are logged
// and the offending message rejected without requeue so a poison
// message cannot wedge the consumer.
func StartAuditConsumer(url string, log *zap.Logger) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("audit-consumer dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, log); err != nil {
			log.Warn("audit-consumer loop ended", zap.Error(err))
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("audit-consumer qos failed", zap.Error(err))
	}

	deliveries := make(chan amqp.Delivery)
	var wg sync.WaitGroup
	for _, name := range []string{ReservaCreatedQueue, ReservaCancelledQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
		msgs, err := ch.Consume(name, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", name, err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range msgs {
				deliveries <- d
			}
		}()
	}
	// When the connection dies the per-queue channels close; closing the
	// merged channel lets the loop below return and trigger a reconnect.
	go func() {
		wg.Wait()
		close(deliveries)
	}()

	for d := range deliveries {
		if err := appendAuditLine(d.RoutingKey, d.Body); err != nil {
			log.Warn("audit-consumer handle failed", zap.Error(err))
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func appendAuditLine(queueName string, body []byte) error {
	var ev ReservaEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "reservas.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	kind := "Sala"
	if ev.Lab {
		kind = "Lab"
	}
	line := fmt.Sprintf("[%s] %s | reserva_id=%d | %s %d | data=%s | turma_id=%d\n",
		ev.OccurredAt, queueName, ev.ReservaID, kind, ev.NumSala, ev.Data, ev.TurmaID)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

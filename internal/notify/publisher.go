// Package notify публикация событий бронирований в RabbitMQ
// Диспетчеризация уведомлений - fire-and-forget: ошибки логируются и
// возвращаются, но никогда не откатывают совершенное бронирование
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события бронирований в очередь
type Publisher struct {
	url   string
	queue string
	log   Logger
}

// NewPublisher создает новый экземпляр publisher
func NewPublisher(url, queue string, log Logger) *Publisher {
	return &Publisher{
		url:   url,
		queue: queue,
		log:   log,
	}
}

// Publish публикует событие в очередь уведомлений
// Соединение устанавливается на каждую публикацию: объем событий невелик,
// а publisher не обязан переживать рестарты брокера
func (p *Publisher) Publish(ctx context.Context, event ReservationEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Error("notify: rabbitmq dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error("notify: rabbitmq channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable очередь, чтобы сообщения переживали рестарт брокера
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		p.log.Error("notify: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error("notify: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.log.Error("notify: publish failed: %v", err)
		return err
	}

	p.log.Info("notify: published %s event_id=%s reservation_id=%d",
		event.EventType, event.EventID, event.ReservationID)
	return nil
}

// NopPublisher заглушка, когда очередь уведомлений выключена в конфигурации
type NopPublisher struct{}

// Publish ничего не делает
func (NopPublisher) Publish(_ context.Context, _ ReservationEvent) error { return nil }

package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/metrics"
)

// Channel 是 *amqp.Channel 中发布消息所需的部分
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Publisher struct {
	channel Channel
	queue   string
	timeout time.Duration
	metrics *metrics.Metrics
}

func NewPublisher(ch Channel, queue string, timeout time.Duration, m *metrics.Metrics) *Publisher {
	return &Publisher{
		channel: ch,
		queue:   queue,
		timeout: timeout,
		metrics: m,
	}
}

// DeclareQueue 声明持久化的事件队列，api 和 mail worker 都会调用
func DeclareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // 持久化
		false, // 没有消费者时不自动删除
		false, // 不独占
		false, // 等待 RabbitMQ 确认
		nil,
	)
	return err
}

func (p *Publisher) Publish(ctx context.Context, event domain.EmployeeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         string(event.Type),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)

	if p.metrics != nil {
		status := "success"
		if err != nil {
			status = "failure"
		}
		p.metrics.EventsPublished.WithLabelValues(string(event.Type), status).Inc()
	}

	return err
}

package handler

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
)

// publishMailMessage 把邮件消息序列化后投递到邮件队列，由 mail worker 消费
func (h *Handler) publishMailMessage(message domain.MailMessage) error {
	mailData, err := json.Marshal(message)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"schedule_mail_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	)
}

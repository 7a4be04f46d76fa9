package events

import (
	"context"
	"time"

	"github.com/oksasatya/user-registry/internal/domain/entity"
	"github.com/oksasatya/user-registry/pkg/helpers"
)

// Publisher sends user lifecycle events to RabbitMQ.
type Publisher struct {
	Rabbit  *helpers.RabbitPublisher
	Timeout time.Duration
}

func NewPublisher(p *helpers.RabbitPublisher) *Publisher {
	return &Publisher{Rabbit: p, Timeout: 2 * time.Second}
}

func (p *Publisher) Publish(ctx context.Context, ev entity.UserEvent) error {
	c, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()
	return p.Rabbit.PublishJSON(c, string(ev.Type), ev)
}

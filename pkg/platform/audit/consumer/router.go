package consumer

import (
	"context"
	"log/slog"

	"wardaudit/internal/platform/kafka/consumer"
)

// TopicHandler processes the messages of one topic.
type TopicHandler interface {
	Handle(ctx context.Context, msg *consumer.Message) error
}

// HandlerFunc adapts a function to TopicHandler.
type HandlerFunc func(ctx context.Context, msg *consumer.Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg *consumer.Message) error { return f(ctx, msg) }

// Router fans consumed messages out by topic. Messages on topics with no
// handler are logged and acknowledged so they are not redelivered forever.
type Router struct {
	byTopic map[string]TopicHandler
	logger  *slog.Logger
}

func NewRouter(logger *slog.Logger) *Router {
	return &Router{byTopic: map[string]TopicHandler{}, logger: logger}
}

// Register binds h to topic, replacing any earlier binding.
func (r *Router) Register(topic string, h TopicHandler) {
	r.byTopic[topic] = h
}

func (r *Router) Handle(ctx context.Context, msg *consumer.Message) error {
	if h, ok := r.byTopic[msg.Topic]; ok {
		return h.Handle(ctx, msg)
	}
	r.logger.WarnContext(ctx, "skipping message on unrouted topic",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
	)
	return nil
}

package provider

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"

	"github.com/customeros/sleeper/interfaces"
	"github.com/customeros/sleeper/internal/config"
	sleepererrors "github.com/customeros/sleeper/internal/errors"
	"github.com/customeros/sleeper/internal/logger"
	"github.com/customeros/sleeper/internal/tracing"
	"github.com/customeros/sleeper/internal/utils"
)

type amqpChannel interface {
	Get(queue string, autoAck bool) (amqp091.Delivery, bool, error)
	Close() error
}

type amqpConnection interface {
	Channel() (amqpChannel, error)
	IsClosed() bool
	Close() error
}

type rabbitConnection struct {
	conn *amqp091.Connection
}

func (r *rabbitConnection) Channel() (amqpChannel, error) {
	channel, err := r.conn.Channel()
	if err != nil {
		return nil, err
	}
	return channel, nil
}

func (r *rabbitConnection) IsClosed() bool {
	return r.conn.IsClosed()
}

func (r *rabbitConnection) Close() error {
	return r.conn.Close()
}

func dialRabbit(url string) (amqpConnection, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, err
	}
	return &rabbitConnection{conn: conn}, nil
}

// AMQPProvider pulls up to a batch of messages from a queue per check, acknowledging each.
type AMQPProvider struct {
	cfg    config.AMQPConfig
	parser interfaces.Parser
	log    logger.Logger
	dial   func(url string) (amqpConnection, error)

	mu   sync.Mutex
	conn amqpConnection
}

func NewAMQPProvider(cfg config.AMQPConfig, parser interfaces.Parser, log logger.Logger) (*AMQPProvider, error) {
	if utils.IsBlank(cfg.URL) || utils.IsBlank(cfg.Queue) {
		return nil, sleepererrors.Configurationf("amqp", "amqpurl and amqpqueue are required")
	}
	return &AMQPProvider{cfg: cfg, parser: parser, log: log, dial: dialRabbit}, nil
}

func (p *AMQPProvider) Name() string {
	return NameAMQP
}

func (p *AMQPProvider) connection() (amqpConnection, error) {
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn, nil
	}
	conn, err := p.dial(p.cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RabbitMQ")
	}
	p.conn = conn
	return conn, nil
}

func (p *AMQPProvider) Check(ctx context.Context) (bool, error) {
	span, _ := tracing.StartTracerSpan(ctx, "AMQPProvider.Check")
	defer span.Finish()
	tracing.TagComponentProvider(span)
	tracing.TagProvider(span, NameAMQP)
	span.SetTag("queue", p.cfg.Queue)

	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.connection()
	if err != nil {
		tracing.TraceErr(span, err)
		return false, sleepererrors.Transport("amqp dial", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		tracing.TraceErr(span, err)
		return false, sleepererrors.Transport("amqp channel", errors.Wrap(err, "failed to open channel"))
	}
	defer channel.Close()

	for i := 0; i < p.cfg.Batch; i++ {
		delivery, ok, err := channel.Get(p.cfg.Queue, false)
		if err != nil {
			tracing.TraceErr(span, err)
			return false, sleepererrors.Transport("amqp get", errors.Wrapf(err, "queue %s", p.cfg.Queue))
		}
		if !ok {
			break
		}
		if err := delivery.Ack(false); err != nil {
			p.log.Warnf("Failed to ack message %d on queue %s: %v", delivery.DeliveryTag, p.cfg.Queue, err)
		}
		if p.parser.PhraseExists(p.cfg.Keyphrase, string(delivery.Body)) {
			span.SetTag("found", true)
			return true, nil
		}
	}
	return false, nil
}

func (p *AMQPProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}

func (p *AMQPProvider) Status() map[string]string {
	return map[string]string{"queue": p.cfg.Queue}
}

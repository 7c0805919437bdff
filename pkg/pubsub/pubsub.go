package pubsub

import (
	"context"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, key string, headers map[string]string, value []byte) error
	Close()
}

type confluentKafkaPublisher struct {
	logger   *logrus.Logger
	producer *kafka.Producer
}

func PublisherFromConfluentKafkaProducer(logger *logrus.Logger, producer *kafka.Producer) Publisher {
	return &confluentKafkaPublisher{
		logger:   logger,
		producer: producer,
	}
}

// Publish delivers asynchronously; delivery failures are logged, not returned,
// since domain events are best effort here.
func (p *confluentKafkaPublisher) Publish(ctx context.Context, topic string, key string, headers map[string]string, value []byte) error {
	var kafkaHeaders []kafka.Header
	for k, v := range headers {
		kafkaHeaders = append(kafkaHeaders, kafka.Header{Key: k, Value: []byte(v)})
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          value,
		Headers:        kafkaHeaders,
	}

	if err := p.producer.Produce(msg, nil); err != nil {
		p.logger.WithContext(ctx).WithError(err).Error()
		return err
	}

	return nil
}

func (p *confluentKafkaPublisher) Close() {
	p.producer.Flush(5000)
	p.producer.Close()
}

package kafka

import (
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/differentroads/dr-checkout/config"
	"github.com/differentroads/dr-checkout/pkg/applogger"
)

func NewProducer() *kafka.Producer {
	c := config.Get()
	logger := applogger.GetLogrus()

	cfg := &kafka.ConfigMap{
		"bootstrap.servers": c.Kafka.BootstrapServers,
		"acks":              "all",
	}

	if c.Kafka.SASLUsername != "" {
		cfg.SetKey("security.protocol", "SASL_SSL")
		cfg.SetKey("sasl.mechanisms", "PLAIN")
		cfg.SetKey("sasl.username", c.Kafka.SASLUsername)
		cfg.SetKey("sasl.password", c.Kafka.SASLPassword)
	}

	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		logger.WithError(err).Fatal("unable to create kafka producer")
	}

	return producer
}

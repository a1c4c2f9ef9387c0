package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

type Producer struct {
	writer *kafka.Writer
}

// NewProducer returns a producer writing to topic on brokers. A disabled
// producer drops every event.
func NewProducer(enabled bool, brokers, topic string) (*Producer, error) {
	if !enabled {
		log.Println("⚠️  Kafka disabled or not configured")
		return &Producer{writer: nil}, nil
	}

	if brokers == "" {
		brokers = "localhost:9092"
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}

	log.Println("✅ Kafka producer initialized")
	return &Producer{writer: writer}, nil
}

func (p *Producer) Enabled() bool {
	return p.writer != nil
}

func encodeEvent(eventType string, data interface{}) (kafka.Message, error) {
	event := map[string]interface{}{
		"type": eventType,
		"data": data,
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(eventType),
		Value: eventBytes,
	}, nil
}

func (p *Producer) ProduceEvent(eventType string, data interface{}) error {
	if p.writer == nil {
		return nil
	}

	msg, err := encodeEvent(eventType, data)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("Error producing Kafka event: %v", err)
		return err
	}

	return nil
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

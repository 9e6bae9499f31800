package e2e

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Kafka returns a callback that pings the brokers and synchronously
// produces one smoke record to topic.
func Kafka(brokers []string, topic string) func() error {
	return func() error {
		client, err := kgo.NewClient(
			kgo.SeedBrokers(brokers...),
			kgo.ClientID("smokecheck"),
			kgo.AllowAutoTopicCreation(),
		)
		if err != nil {
			return fmt.Errorf("kafka client: %w", err)
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), workflowTimeout)
		defer cancel()

		if err := client.Ping(ctx); err != nil {
			return fmt.Errorf("kafka ping: %w", err)
		}

		record := &kgo.Record{
			Topic: topic,
			Value: []byte(fmt.Sprintf("smokecheck e2e %d", time.Now().UnixNano())),
		}
		if err := client.ProduceSync(ctx, record).FirstErr(); err != nil {
			return fmt.Errorf("kafka produce: %w", err)
		}
		return nil
	}
}

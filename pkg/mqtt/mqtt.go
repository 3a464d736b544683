package mqtt

import (
	"context"
	"encoding/json"
	"sync"

	mqttv2 "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/sirupsen/logrus"
)

// Broker is an embedded MQTT broker that keeps the summary of the latest run retained on a topic.
type Broker struct {
	server *mqttv2.Server
	topic  string
}

// Start starts the broker. Without address no TCP listener is added and only inline clients can subscribe.
// The broker closes when ctx is done.
func Start(ctx context.Context, wg *sync.WaitGroup, address, topic string) (*Broker, error) {
	server := mqttv2.New(&mqttv2.Options{
		InlineClient: true,
	})

	// Allow all connections.
	_ = server.AddHook(new(auth.AllowHook), nil)

	if address != "" {
		tcp := listeners.NewTCP(listeners.Config{ID: "t1", Address: address})
		err := server.AddListener(tcp)
		if err != nil {
			return nil, err
		}
	}

	err := server.Serve()
	if err != nil {
		return nil, err
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		if err := server.Close(); err != nil {
			logrus.Errorf("error closing mqtt broker: %s", err)
		}
	}()
	return &Broker{server: server, topic: topic}, nil
}

// Publish sends s retained on the summary topic.
func (b *Broker) Publish(s Summary) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return b.server.Publish(b.topic, payload, true, 1)
}

func (b *Broker) Server() *mqttv2.Server {
	return b.server
}

package mqtt

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	mqttv2 "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/packets"
	"github.com/nergy-se/boilerreport/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSummary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	b, err := Start(ctx, wg, "", "boilerreport/summary")
	require.NoError(t, err)

	received := make(chan packets.Packet, 1)
	err = b.Server().Subscribe("boilerreport/#", 1, func(cl *mqttv2.Client, sub packets.Subscription, pk packets.Packet) {
		received <- pk
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(Summary{RunID: "abc", Date: "2024-03-05", Records: 2, Version: version.Info{Commit: "abc123"}}))

	select {
	case pk := <-received:
		assert.Equal(t, "boilerreport/summary", pk.TopicName)
		s := Summary{}
		require.NoError(t, json.Unmarshal(pk.Payload, &s))
		assert.Equal(t, "abc", s.RunID)
		assert.Equal(t, 2, s.Records)
		assert.Equal(t, "abc123", s.Version.Commit)
	case <-time.After(5 * time.Second):
		t.Fatal("summary not received")
	}

	cancel()
	wg.Wait()
}

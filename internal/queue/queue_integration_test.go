//go:build integration

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multiyield-labs/multiyield-engine/internal/config"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
	"github.com/multiyield-labs/multiyield-engine/pkg"
	"github.com/multiyield-labs/multiyield-engine/testutil"
)

const (
	rabbitUser     = "user"
	rabbitPassword = "password"
	rabbitVersion  = "3.13-alpine"
)

// RABBITMQ_VERSION overrides the broker image tag
func rabbitImageTag() string {
	return pkg.Getenv("RABBITMQ_VERSION", rabbitVersion)
}

func setupRabbitContainer(t *testing.T) *config.QueueConfig {
	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Name:       "rabbitmq-integration-tests-" + testutil.RandomSuffix(3),
		Repository: "rabbitmq",
		Tag:        rabbitImageTag(),
		Env: []string{
			"RABBITMQ_DEFAULT_USER=" + rabbitUser,
			"RABBITMQ_DEFAULT_PASS=" + rabbitPassword,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})

	cfg := &config.QueueConfig{
		Url:      fmt.Sprintf("amqp://localhost:%s/", resource.GetPort("5672/tcp")),
		User:     rabbitUser,
		Password: rabbitPassword,
	}
	require.NoError(t, cfg.Validate())

	pool.MaxWait = 2 * time.Minute
	require.NoError(t, pool.Retry(func() error {
		u, err := brokerURL(cfg)
		if err != nil {
			return err
		}
		conn, err := amqp.Dial(u)
		if err != nil {
			return err
		}
		return conn.Close()
	}))

	return cfg
}

func TestQueueManager_PublishRewardEvents(t *testing.T) {
	cfg := setupRabbitContainer(t)

	qm, err := NewQueueManager(cfg)
	require.NoError(t, err)
	defer qm.Shutdown()

	// bind a consumer queue to every reward routed to traders
	u, err := brokerURL(cfg)
	require.NoError(t, err)
	conn, err := amqp.Dial(u)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, "reward.*.trader", cfg.Exchange, false, nil))
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	principal := testutil.RandomAddress()
	mint := testutil.RandomAddress()
	events := []RewardEvent{
		NewRewardEvent(types.OpRewardTrade, principal, mint, principal, DestinationTrader, 360, 10),
		NewRewardEvent(types.OpRewardTrade, principal, mint, testutil.RandomAddress(), DestinationInsurance, 40, 10),
	}
	require.NoError(t, qm.PublishRewardEvents(context.Background(), events))

	select {
	case d := <-deliveries:
		assert.Equal(t, "application/json", d.ContentType)
		assert.Equal(t, events[0].EventID, d.MessageId)

		var received RewardEvent
		require.NoError(t, json.Unmarshal(d.Body, &received))
		assert.Equal(t, events[0], received)
	case <-time.After(10 * time.Second):
		t.Fatal("reward event was not delivered")
	}

	// the insurance event is not routed to the trader binding
	select {
	case d := <-deliveries:
		t.Fatalf("unexpected delivery %s", d.RoutingKey)
	case <-time.After(500 * time.Millisecond):
	}
}

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/adnd-engine/internal/orchestrators/combat"
	"github.com/KirkDiggler/adnd-engine/internal/pkg/clock"
	"github.com/KirkDiggler/adnd-engine/internal/pkg/idgen"
	"github.com/KirkDiggler/adnd-engine/internal/repositories/gamestate"
	"github.com/KirkDiggler/adnd-engine/internal/testutils"
)

func checkStatus(t *testing.T, healthServer *health.Server) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()

	resp, err := healthServer.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{
		Service: combatServiceName,
	})
	require.NoError(t, err)
	return resp.Status
}

func TestRegisterCombatHealth(t *testing.T) {
	t.Run("a wired service reports serving", func(t *testing.T) {
		client, cleanup := testutils.CreateTestRedisClient(t)
		defer cleanup()

		repo, err := gamestate.NewRedisRepository(&gamestate.Config{
			Client: client,
			Clock:  clock.New(),
		})
		require.NoError(t, err)

		svc, err := combat.NewOrchestrator(&combat.Config{
			GameStateRepo: repo,
			Roller:        dice.DefaultRoller,
			IDGenerator:   idgen.NewUUID("combat"),
			EventBus:      events.NewBus(),
		})
		require.NoError(t, err)

		healthServer := health.NewServer()
		registerCombatHealth(healthServer, svc)
		assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, checkStatus(t, healthServer))
	})

	t.Run("a missing service reports not serving", func(t *testing.T) {
		healthServer := health.NewServer()
		registerCombatHealth(healthServer, nil)
		assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, checkStatus(t, healthServer))
	})
}

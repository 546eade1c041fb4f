package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/adnd-engine/internal/orchestrators/combat"
	"github.com/KirkDiggler/adnd-engine/internal/pkg/clock"
	"github.com/KirkDiggler/adnd-engine/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/adnd-engine/internal/redis"
	"github.com/KirkDiggler/adnd-engine/internal/repositories/gamestate"
)

var (
	grpcPort  int
	redisAddr string
)

// Health entry the combat RPC bindings will attach under
const combatServiceName = "combat.CombatService"

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long:  `Start the combat engine gRPC server with health checking and reflection.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 50051, "gRPC server port")
	serverCmd.Flags().StringVar(&redisAddr, "redis", "localhost:6379", "Redis address for session storage")
}

// buildCombatService wires storage and dice into the combat orchestrator
func buildCombatService(redisEndpoint string) (combat.Service, error) {
	client, err := redisclient.NewClient(redisEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	repo, err := gamestate.NewRedisRepository(&gamestate.Config{
		Client: client,
		Clock:  clock.New(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game state repository: %w", err)
	}

	return combat.NewOrchestrator(&combat.Config{
		GameStateRepo: repo,
		Roller:        dice.DefaultRoller,
		IDGenerator:   idgen.NewUUID("combat"),
		EventBus:      events.NewBus(),
	})
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal, gracefully stopping...")
		cancel()
	}()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", grpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	// The combat service backs the health status; RPC bindings ride on
	// reflection-driven tooling until a schema lands
	combatService, err := buildCombatService(redisAddr)
	if err != nil {
		return fmt.Errorf("failed to build combat service: %w", err)
	}

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	registerCombatHealth(healthServer, combatService)

	reflection.Register(srv)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("gRPC server starting on port %d...", grpcPort)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down gRPC server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			log.Println("Graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			log.Println("Server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		return err
	}
}

// registerCombatHealth publishes the combat service's health entry. Serving
// status follows the wired orchestrator so probes see a broken wiring.
func registerCombatHealth(healthServer *health.Server, svc combat.Service) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if svc == nil {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	healthServer.SetServingStatus(combatServiceName, status)
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	log.Printf("[%v] %s %v", level, msg, fields)
}

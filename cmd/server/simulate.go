package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/adnd-engine/internal/data"
	"github.com/KirkDiggler/adnd-engine/internal/entities"
	"github.com/KirkDiggler/adnd-engine/internal/orchestrators/combat"
	"github.com/KirkDiggler/adnd-engine/internal/pkg/clock"
	"github.com/KirkDiggler/adnd-engine/internal/pkg/idgen"
	"github.com/KirkDiggler/adnd-engine/internal/pkg/roll"
	redisclient "github.com/KirkDiggler/adnd-engine/internal/redis"
	"github.com/KirkDiggler/adnd-engine/internal/repositories/gamestate"
	"github.com/KirkDiggler/adnd-engine/internal/rules"
)

var (
	simulateSeed     int64
	simulateRedis    string
	simulateWeaponID string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a demonstration combat round",
	Long:  `Simulate runs one initiative roll and one attack round between a sample fighter and an orc, printing each rule outcome. A fixed seed makes the fight reproducible.`,
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", 0, "dice seed (0 uses unseeded rolls)")
	simulateCmd.Flags().StringVar(&simulateRedis, "redis", "localhost:6379", "Redis address for session storage")
	simulateCmd.Flags().StringVar(&simulateWeaponID, "weapon", "long-sword", "attacker's weapon id from the built-in table")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var roller dice.Roller = dice.DefaultRoller
	if simulateSeed != 0 {
		roller = roll.Seeded(simulateSeed)
	}

	client, err := redisclient.NewClient(simulateRedis, nil)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	repo, err := gamestate.NewRedisRepository(&gamestate.Config{
		Client: client,
		Clock:  clock.New(),
	})
	if err != nil {
		return fmt.Errorf("failed to create game state repository: %w", err)
	}

	svc, err := combat.NewOrchestrator(&combat.Config{
		GameStateRepo: repo,
		Roller:        roller,
		IDGenerator:   idgen.NewUUID("sim"),
		EventBus:      events.NewBus(),
	})
	if err != nil {
		return fmt.Errorf("failed to create combat service: %w", err)
	}

	weapon, err := data.WeaponByID(simulateWeaponID)
	if err != nil {
		return err
	}

	fighter := &entities.Character{
		ID:    "fighter-1",
		Name:  "Aldric",
		Class: entities.ClassFighter,
		Race:  entities.RaceHuman,
		Level: 7,
		HitPoints: entities.HitPoints{
			Current: 52,
			Maximum: 52,
		},
		ArmorClass: 3,
		THAC0:      14,
		Abilities: entities.AbilityScores{
			Strength:     17,
			Dexterity:    14,
			Constitution: 15,
			Intelligence: 10,
			Wisdom:       11,
			Charisma:     12,
		},
		Size: entities.SizeMedium,
	}
	orc := &entities.Monster{
		ID:      "orc-1",
		Name:    "Orc Raider",
		HitDice: "1",
		HitPoints: entities.HitPoints{
			Current: 8,
			Maximum: 8,
		},
		ArmorClass:      6,
		THAC0:           19,
		Size:            entities.SizeMedium,
		MovementRate:    9,
		DamagePerAttack: []string{"1d8"},
	}

	created, err := svc.CreateSession(ctx, &combat.CreateSessionInput{
		Characters: []*entities.Character{fighter},
		Monsters:   []*entities.Monster{orc},
	})
	if err != nil {
		return err
	}
	fmt.Printf("session %s: %s (%s) vs %s\n", created.SessionID, fighter.Name, weapon.Name, orc.Name)

	initiative, err := svc.RollInitiative(ctx, &combat.RollInitiativeInput{
		SessionID: created.SessionID,
		Mode:      rules.InitiativeIndividual,
		Participants: []rules.InitiativeParticipant{
			{EntityID: fighter.ID, Side: "party", Weapon: weapon},
			{EntityID: orc.ID, Side: "monsters"},
		},
	})
	if err != nil {
		return err
	}
	for _, r := range initiative.Order.Active {
		fmt.Printf("initiative %d: %s (roll %d, speed %d)\n", r.Initiative, r.EntityID, r.Roll, r.SpeedFactor)
	}
	for _, side := range initiative.SurprisedSides {
		fmt.Printf("side %s is surprised and skips the round\n", side)
	}

	round, err := svc.ResolveAttackRound(ctx, &combat.ResolveAttackRoundInput{
		SessionID:  created.SessionID,
		AttackerID: fighter.ID,
		TargetID:   orc.ID,
		Weapon:     weapon,
	})
	if err != nil {
		return err
	}
	for i, attack := range round.Attacks {
		fmt.Printf("attack %d: %s\n", i+1, attack.Message)
	}
	if round.TargetDefeated {
		fmt.Printf("%s is defeated in round %d\n", orc.Name, round.Round)
	}

	_, err = svc.EndSession(ctx, &combat.EndSessionInput{SessionID: created.SessionID})
	return err
}

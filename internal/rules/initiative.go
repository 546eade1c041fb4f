package rules

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/adnd-engine/internal/engine"
	"github.com/KirkDiggler/adnd-engine/internal/entities"
	"github.com/KirkDiggler/adnd-engine/internal/pkg/roll"
)

// Surprise check base threshold on a d6
const surpriseThreshold = 2

// InitiativeRollRule rolls initiative for every participant: a d10 plus the
// negated dexterity reaction adjustment, a per-entity circumstance modifier,
// and a weapon or casting speed factor. Group mode shares one roll per side
// with the side's best adjustments. Lower initiative acts sooner.
type InitiativeRollRule struct {
	roller dice.Roller
}

// NewInitiativeRoll creates the initiative-roll rule
func NewInitiativeRoll(roller dice.Roller) *InitiativeRollRule {
	return &InitiativeRollRule{roller: roller}
}

// Name implements engine.Rule
func (r *InitiativeRollRule) Name() string {
	return RuleInitiativeRoll
}

// Priority implements engine.Rule
func (r *InitiativeRollRule) Priority() int {
	return 10
}

// CanApply applies to initiative commands
func (r *InitiativeRollRule) CanApply(_ *engine.Context, cmd engine.Command) bool {
	return cmd.Type() == engine.CommandInitiative
}

// Execute rolls and sorts initiative
func (r *InitiativeRollRule) Execute(_ context.Context, gctx *engine.Context, _ engine.Command) (*engine.Result, error) {
	ic, ok := engine.Phase[*InitiativeContext](gctx, engine.PhaseInitiative)
	if !ok {
		return engine.Fail("No initiative context found"), nil
	}
	if len(ic.Participants) == 0 {
		return engine.Fail("no initiative participants"), nil
	}

	var results []InitiativeResult
	var err error
	if ic.Mode == InitiativeGroup {
		results, err = r.rollGroup(gctx, ic)
	} else {
		results, err = r.rollIndividual(gctx, ic)
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Initiative != results[j].Initiative {
			return results[i].Initiative < results[j].Initiative
		}
		return results[i].SpeedFactor < results[j].SpeedFactor
	})

	gctx.SetPhase(engine.PhaseInitiativeResults, &InitiativeResults{Results: results})
	return engine.OK(fmt.Sprintf("initiative rolled for %d participants", len(results))), nil
}

func (r *InitiativeRollRule) rollIndividual(gctx *engine.Context, ic *InitiativeContext) ([]InitiativeResult, error) {
	results := make([]InitiativeResult, 0, len(ic.Participants))
	for _, p := range ic.Participants {
		die, err := roll.Die(r.roller, 10)
		if err != nil {
			return nil, err
		}

		speed := speedFactor(p)
		results = append(results, InitiativeResult{
			EntityID:    p.EntityID,
			Side:        participantSide(p),
			Roll:        die,
			SpeedFactor: speed,
			Initiative:  die - reactionAdjustment(gctx, p.EntityID) + p.CircumstanceModifier + speed,
		})
	}
	return results, nil
}

func (r *InitiativeRollRule) rollGroup(gctx *engine.Context, ic *InitiativeContext) ([]InitiativeResult, error) {
	sides := make(map[string][]InitiativeParticipant)
	order := make([]string, 0)
	for _, p := range ic.Participants {
		side := participantSide(p)
		if _, seen := sides[side]; !seen {
			order = append(order, side)
		}
		sides[side] = append(sides[side], p)
	}

	var results []InitiativeResult
	for _, side := range order {
		die, err := roll.Die(r.roller, 10)
		if err != nil {
			return nil, err
		}

		// The side acts on its best members: highest reaction adjustment,
		// lowest speed factor.
		bestReaction := reactionAdjustment(gctx, sides[side][0].EntityID)
		bestSpeed := speedFactor(sides[side][0])
		for _, p := range sides[side][1:] {
			if adj := reactionAdjustment(gctx, p.EntityID); adj > bestReaction {
				bestReaction = adj
			}
			if s := speedFactor(p); s < bestSpeed {
				bestSpeed = s
			}
		}

		for _, p := range sides[side] {
			results = append(results, InitiativeResult{
				EntityID:    p.EntityID,
				Side:        side,
				Roll:        die,
				SpeedFactor: bestSpeed,
				Initiative:  die - bestReaction + p.CircumstanceModifier + bestSpeed,
			})
		}
	}
	return results, nil
}

// participantSide defaults solo participants to their own side
func participantSide(p InitiativeParticipant) string {
	if p.Side != "" {
		return p.Side
	}
	return p.EntityID
}

// reactionAdjustment returns the dexterity reaction adjustment for
// characters; monsters roll unadjusted
func reactionAdjustment(gctx *engine.Context, entityID string) int {
	if ch, ok := character(gctx, entityID); ok {
		return ch.Abilities.ReactionAdjustment()
	}
	return 0
}

// speedFactor returns the participant's initiative delay: the equipped
// weapon's speed, or the casting spell's parsed casting time, else 0
func speedFactor(p InitiativeParticipant) int {
	if p.Weapon != nil {
		return p.Weapon.Speed
	}
	if p.CastingSpell != nil {
		return parseCastingTime(p.CastingSpell.CastingTime)
	}
	return 0
}

// parseCastingTime extracts the leading integer of a casting-time text like
// "3" or "1 round"; unparseable text contributes no delay
func parseCastingTime(text string) int {
	text = strings.TrimSpace(text)
	end := 0
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(text[:end])
	if err != nil {
		return 0
	}
	return n
}

// SurpriseRule runs on the first round only: each side rolls a d6 against a
// base threshold of 2 (reduced by 1 when the side has elven blood, clamped
// to [0,6]); rolling at or under the threshold surprises the whole side.
type SurpriseRule struct {
	roller dice.Roller
}

// NewSurprise creates the surprise-check rule
func NewSurprise(roller dice.Roller) *SurpriseRule {
	return &SurpriseRule{roller: roller}
}

// Name implements engine.Rule
func (r *SurpriseRule) Name() string {
	return RuleSurprise
}

// Priority implements engine.Rule
func (r *SurpriseRule) Priority() int {
	return 20
}

// CanApply applies to first-round initiative commands
func (r *SurpriseRule) CanApply(gctx *engine.Context, cmd engine.Command) bool {
	if cmd.Type() != engine.CommandInitiative {
		return false
	}
	ic, ok := engine.Phase[*InitiativeContext](gctx, engine.PhaseInitiative)
	return ok && ic.FirstRound
}

// Execute rolls surprise per side and marks surprised results
func (r *SurpriseRule) Execute(_ context.Context, gctx *engine.Context, _ engine.Command) (*engine.Result, error) {
	res, ok := engine.Phase[*InitiativeResults](gctx, engine.PhaseInitiativeResults)
	if !ok {
		return engine.Fail("no initiative results to check surprise for"), nil
	}

	// Sides roll in first-appearance order so replays are deterministic
	thresholds := make(map[string]int)
	var sideOrder []string
	for _, result := range res.Results {
		side := result.Side
		if _, seen := thresholds[side]; !seen {
			thresholds[side] = surpriseThreshold
			sideOrder = append(sideOrder, side)
		}
		if r.elvenBlood(gctx, result.EntityID) && thresholds[side] == surpriseThreshold {
			thresholds[side] = surpriseThreshold - 1
		}
	}

	updated := &InitiativeResults{Results: make([]InitiativeResult, len(res.Results))}
	copy(updated.Results, res.Results)

	surprised := make(map[string]bool)
	for _, side := range sideOrder {
		threshold := thresholds[side]
		if threshold < 0 {
			threshold = 0
		}
		if threshold > 6 {
			threshold = 6
		}

		die, err := roll.Die(r.roller, 6)
		if err != nil {
			return nil, err
		}
		if die <= threshold {
			surprised[side] = true
			updated.SurprisedSides = append(updated.SurprisedSides, side)
		}
	}

	for i := range updated.Results {
		if surprised[updated.Results[i].Side] {
			updated.Results[i].Surprised = true
		}
	}

	gctx.SetPhase(engine.PhaseInitiativeResults, updated)
	return engine.OK(fmt.Sprintf("%d side(s) surprised", len(updated.SurprisedSides))), nil
}

// elvenBlood reports whether the entity reduces its side's surprise threshold
func (r *SurpriseRule) elvenBlood(gctx *engine.Context, entityID string) bool {
	ch, ok := character(gctx, entityID)
	if !ok {
		return false
	}
	return ch.Race == entities.RaceElf || ch.Race == entities.RaceHalfElf
}

// InitiativeOrderRule partitions the rolled results into the active list and
// the surprised list that skips the round, forming the turn order.
type InitiativeOrderRule struct{}

// NewInitiativeOrder creates the initiative-order rule
func NewInitiativeOrder() *InitiativeOrderRule {
	return &InitiativeOrderRule{}
}

// Name implements engine.Rule
func (r *InitiativeOrderRule) Name() string {
	return RuleInitiativeOrder
}

// Priority implements engine.Rule
func (r *InitiativeOrderRule) Priority() int {
	return 30
}

// CanApply applies to initiative commands
func (r *InitiativeOrderRule) CanApply(_ *engine.Context, cmd engine.Command) bool {
	return cmd.Type() == engine.CommandInitiative
}

// Execute builds the externally-consumed turn order
func (r *InitiativeOrderRule) Execute(_ context.Context, gctx *engine.Context, _ engine.Command) (*engine.Result, error) {
	res, ok := engine.Phase[*InitiativeResults](gctx, engine.PhaseInitiativeResults)
	if !ok {
		return engine.Fail("no initiative results to order"), nil
	}

	order := &InitiativeOrder{}
	for _, result := range res.Results {
		if result.Surprised {
			order.Surprised = append(order.Surprised, result)
		} else {
			order.Active = append(order.Active, result)
		}
	}

	gctx.SetPhase(engine.PhaseInitiativeOrder, order)
	return engine.OK(fmt.Sprintf("%d active, %d surprised", len(order.Active), len(order.Surprised))).WithData(order), nil
}

package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/adnd-engine/internal/errors"
)

// stubRule is a configurable rule for pipeline tests
type stubRule struct {
	name     string
	priority int
	applies  bool
	result   *Result
	err      error
	onRun    func(gctx *Context)
}

func (r *stubRule) Name() string     { return r.name }
func (r *stubRule) Priority() int    { return r.priority }
func (r *stubRule) CanApply(_ *Context, _ Command) bool {
	return r.applies
}
func (r *stubRule) Execute(_ context.Context, gctx *Context, _ Command) (*Result, error) {
	if r.onRun != nil {
		r.onRun(gctx)
	}
	return r.result, r.err
}

// stubEntity is a minimal core.Entity
type stubEntity struct {
	id string
	hp int
}

func (e *stubEntity) GetID() string   { return e.id }
func (e *stubEntity) GetType() string { return "stub" }

func attackCommand() Command {
	return &BasicCommand{CommandType: CommandAttack, Actor: "a", Targets: []string{"b"}}
}

func TestConfigValidate(t *testing.T) {
	t.Run("empty pipelines rejected", func(t *testing.T) {
		cfg := &Config{}
		require.Error(t, cfg.Validate())
	})

	t.Run("nil rule rejected", func(t *testing.T) {
		cfg := &Config{Pipelines: map[CommandType][]Rule{
			CommandAttack: {nil},
		}}
		require.Error(t, cfg.Validate())
	})

	t.Run("unnamed rule rejected", func(t *testing.T) {
		cfg := &Config{Pipelines: map[CommandType][]Rule{
			CommandAttack: {&stubRule{name: "", priority: 10}},
		}}
		require.Error(t, cfg.Validate())
	})

	t.Run("duplicate names rejected", func(t *testing.T) {
		cfg := &Config{Pipelines: map[CommandType][]Rule{
			CommandAttack: {
				&stubRule{name: "twin", priority: 10},
				&stubRule{name: "twin", priority: 20},
			},
		}}
		require.Error(t, cfg.Validate())
	})

	t.Run("descending priorities rejected", func(t *testing.T) {
		cfg := &Config{Pipelines: map[CommandType][]Rule{
			CommandAttack: {
				&stubRule{name: "late", priority: 20},
				&stubRule{name: "early", priority: 10},
			},
		}}
		require.Error(t, cfg.Validate())
	})

	t.Run("well-formed pipeline accepted", func(t *testing.T) {
		cfg := &Config{Pipelines: map[CommandType][]Rule{
			CommandAttack: {
				&stubRule{name: "first", priority: 10},
				&stubRule{name: "second", priority: 20},
			},
		}}
		require.NoError(t, cfg.Validate())
	})
}

func TestEngineExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("rules run in pipeline order", func(t *testing.T) {
		var order []string
		mk := func(name string, priority int) Rule {
			return &stubRule{
				name: name, priority: priority, applies: true,
				result: OK(name),
				onRun:  func(_ *Context) { order = append(order, name) },
			}
		}
		eng, err := New(&Config{Pipelines: map[CommandType][]Rule{
			CommandAttack: {mk("roll", 10), mk("damage", 20), mk("cleanup", 30)},
		}})
		require.NoError(t, err)

		chain, err := eng.Execute(ctx, NewContext(), attackCommand())
		require.NoError(t, err)
		assert.Equal(t, []string{"roll", "damage", "cleanup"}, order)
		assert.Len(t, chain.Executed, 3)
	})

	t.Run("inapplicable rules are skipped", func(t *testing.T) {
		eng, err := New(&Config{Pipelines: map[CommandType][]Rule{
			CommandAttack: {
				&stubRule{name: "skipped", priority: 10, applies: false, result: OK("")},
				&stubRule{name: "ran", priority: 20, applies: true, result: OK("")},
			},
		}})
		require.NoError(t, err)

		chain, err := eng.Execute(ctx, NewContext(), attackCommand())
		require.NoError(t, err)
		require.Len(t, chain.Executed, 1)
		assert.Equal(t, "ran", chain.Executed[0].Rule)
		_, found := chain.ResultOf("skipped")
		assert.False(t, found)
	})

	t.Run("stop chain ends the pipeline early", func(t *testing.T) {
		eng, err := New(&Config{Pipelines: map[CommandType][]Rule{
			CommandAttack: {
				&stubRule{name: "gate", priority: 10, applies: true, result: Fail("no").Stop()},
				&stubRule{name: "never", priority: 20, applies: true, result: OK("")},
			},
		}})
		require.NoError(t, err)

		chain, err := eng.Execute(ctx, NewContext(), attackCommand())
		require.NoError(t, err)
		assert.True(t, chain.Stopped)
		assert.Equal(t, "gate", chain.StoppedBy)
		require.Len(t, chain.Executed, 1)
	})

	t.Run("capability check rejects without running rules", func(t *testing.T) {
		eng, err := New(&Config{Pipelines: map[CommandType][]Rule{
			CommandAttack: {&stubRule{name: "rule", priority: 10, applies: true, result: OK("")}},
		}})
		require.NoError(t, err)

		cmd := &BasicCommand{
			CommandType: CommandAttack,
			Check:       func(_ *Context) bool { return false },
		}
		chain, err := eng.Execute(ctx, NewContext(), cmd)
		require.NoError(t, err)
		assert.True(t, chain.Rejected)
		assert.Empty(t, chain.Executed)
	})

	t.Run("rejection seals writes made before the chain", func(t *testing.T) {
		eng, err := New(&Config{Pipelines: map[CommandType][]Rule{
			CommandAttack: {
				&stubRule{name: "bomb", priority: 10, applies: true, err: errors.Internal("boom")},
			},
		}})
		require.NoError(t, err)

		gctx := NewContext()
		gctx.SetEntity(&stubEntity{id: "victim", hp: 10})

		rejected := &BasicCommand{
			CommandType: CommandAttack,
			Check:       func(_ *Context) bool { return false },
		}
		chain, err := eng.Execute(ctx, gctx, rejected)
		require.NoError(t, err)
		require.True(t, chain.Rejected)

		// A later failing chain must not undo the pre-chain write
		_, err = eng.Execute(ctx, gctx, attackCommand())
		require.Error(t, err)

		e, ok := gctx.Entity("victim")
		require.True(t, ok, "pre-chain entity survives the rollback")
		assert.Equal(t, 10, e.(*stubEntity).hp)
	})

	t.Run("unknown command type is not found", func(t *testing.T) {
		eng, err := New(&Config{Pipelines: map[CommandType][]Rule{
			CommandAttack: {&stubRule{name: "rule", priority: 10, applies: true, result: OK("")}},
		}})
		require.NoError(t, err)

		_, err = eng.Execute(ctx, NewContext(), &BasicCommand{CommandType: CommandMove})
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("hard error rolls back entity mutations", func(t *testing.T) {
		eng, err := New(&Config{Pipelines: map[CommandType][]Rule{
			CommandAttack: {
				&stubRule{
					name: "mutator", priority: 10, applies: true, result: OK(""),
					onRun: func(gctx *Context) {
						gctx.SetEntity(&stubEntity{id: "victim", hp: 1})
					},
				},
				&stubRule{
					name: "bomb", priority: 20, applies: true,
					err: errors.Internal("boom"),
				},
			},
		}})
		require.NoError(t, err)

		gctx := NewContext()
		gctx.SetEntity(&stubEntity{id: "victim", hp: 10})
		gctx.commit()

		_, err = eng.Execute(ctx, gctx, attackCommand())
		require.Error(t, err)

		e, ok := gctx.Entity("victim")
		require.True(t, ok)
		assert.Equal(t, 10, e.(*stubEntity).hp, "mutation should be rolled back")
	})

	t.Run("completed chain keeps entity mutations", func(t *testing.T) {
		eng, err := New(&Config{Pipelines: map[CommandType][]Rule{
			CommandAttack: {
				&stubRule{
					name: "mutator", priority: 10, applies: true, result: OK(""),
					onRun: func(gctx *Context) {
						gctx.SetEntity(&stubEntity{id: "victim", hp: 3})
					},
				},
			},
		}})
		require.NoError(t, err)

		gctx := NewContext()
		gctx.SetEntity(&stubEntity{id: "victim", hp: 10})

		_, err = eng.Execute(ctx, gctx, attackCommand())
		require.NoError(t, err)

		e, ok := gctx.Entity("victim")
		require.True(t, ok)
		assert.Equal(t, 3, e.(*stubEntity).hp)
	})

	t.Run("nil result is a rule validation error", func(t *testing.T) {
		eng, err := New(&Config{Pipelines: map[CommandType][]Rule{
			CommandAttack: {&stubRule{name: "empty", priority: 10, applies: true}},
		}})
		require.NoError(t, err)

		_, err = eng.Execute(ctx, NewContext(), attackCommand())
		require.Error(t, err)
		assert.True(t, errors.IsRuleValidation(err))
	})
}

func TestContextPhases(t *testing.T) {
	t.Run("typed read back", func(t *testing.T) {
		gctx := NewContext()
		gctx.SetPhase(PhaseDamageValues, []int{4, 3})

		values, ok := Phase[[]int](gctx, PhaseDamageValues)
		require.True(t, ok)
		assert.Equal(t, []int{4, 3}, values)
	})

	t.Run("wrong type misses", func(t *testing.T) {
		gctx := NewContext()
		gctx.SetPhase(PhaseDamageValues, []int{4})

		_, ok := Phase[string](gctx, PhaseDamageValues)
		assert.False(t, ok)
	})

	t.Run("nil clears the key", func(t *testing.T) {
		gctx := NewContext()
		gctx.SetPhase(PhaseDamageValues, []int{4})
		gctx.SetPhase(PhaseDamageValues, nil)

		_, ok := gctx.PhaseData(PhaseDamageValues)
		assert.False(t, ok)
	})
}

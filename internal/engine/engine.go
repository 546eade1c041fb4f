// Package engine provides the rule-chain primitives: commands, rules, the
// shared resolution context, and the engine that runs statically-defined
// pipelines of priority-ordered rules.
package engine

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/adnd-engine/internal/errors"
)

// RuleExecution records one rule's run within a chain
type RuleExecution struct {
	Rule     string
	Priority int
	Result   *Result
}

// ChainResult is the outcome of executing one command's pipeline
type ChainResult struct {
	CommandType CommandType

	// Rejected is set when the command's own capability check refused it
	Rejected bool

	Executed  []RuleExecution
	Stopped   bool
	StoppedBy string
}

// ResultOf returns the result of the named rule, if it executed
func (cr *ChainResult) ResultOf(name string) (*Result, bool) {
	for _, exec := range cr.Executed {
		if exec.Rule == name {
			return exec.Result, true
		}
	}
	return nil, false
}

// Config holds the statically-defined pipelines, one per command type.
// Pipelines are fixed at construction so rule ordering is verifiable up
// front instead of discovered at run time.
type Config struct {
	Pipelines map[CommandType][]Rule
}

// Validate checks that every pipeline is well-formed: no nil rules, unique
// non-empty names, and priorities already in ascending order.
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if len(cfg.Pipelines) == 0 {
		vb.RequiredField("Pipelines")
	}

	for cmdType, pipeline := range cfg.Pipelines {
		names := make(map[string]bool, len(pipeline))
		lastPriority := 0
		for i, rule := range pipeline {
			if rule == nil {
				vb.Fieldf(string(cmdType), "rule %d is nil", i)
				continue
			}
			if rule.Name() == "" {
				vb.Fieldf(string(cmdType), "rule %d has no name", i)
				continue
			}
			if names[rule.Name()] {
				vb.Fieldf(string(cmdType), "duplicate rule name %q", rule.Name())
			}
			names[rule.Name()] = true

			if i > 0 && rule.Priority() < lastPriority {
				vb.Fieldf(string(cmdType), "rule %q priority %d breaks ascending order", rule.Name(), rule.Priority())
			}
			lastPriority = rule.Priority()
		}
	}

	return vb.Build()
}

// Engine executes command pipelines against a shared resolution context
type Engine struct {
	pipelines map[CommandType][]Rule
}

// New creates an engine from validated pipelines
func New(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, errors.MissingArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	pipelines := make(map[CommandType][]Rule, len(cfg.Pipelines))
	for cmdType, pipeline := range cfg.Pipelines {
		copied := make([]Rule, len(pipeline))
		copy(copied, pipeline)
		pipelines[cmdType] = copied
	}

	return &Engine{pipelines: pipelines}, nil
}

// Execute runs the pipeline for the command's type. Rules whose CanApply
// returns false are skipped; a StopChain result ends the chain early. A rule
// returning a Go error indicates a broken invariant: the context's entity
// journal is rolled back and the error propagates. Completed chains commit.
func (e *Engine) Execute(ctx context.Context, gctx *Context, cmd Command) (*ChainResult, error) {
	if gctx == nil {
		return nil, errors.MissingArgument("resolution context is required")
	}
	if cmd == nil {
		return nil, errors.MissingArgument("command is required")
	}

	pipeline, ok := e.pipelines[cmd.Type()]
	if !ok {
		return nil, errors.NotFoundf("no pipeline registered for command type %q", cmd.Type())
	}

	chain := &ChainResult{CommandType: cmd.Type()}

	if !cmd.CanExecute(gctx) {
		// Writes made before the chain are not this chain's to undo
		chain.Rejected = true
		gctx.commit()
		return chain, nil
	}

	for _, rule := range pipeline {
		if !rule.CanApply(gctx, cmd) {
			continue
		}

		result, err := rule.Execute(ctx, gctx, cmd)
		if err != nil {
			gctx.rollback()
			return nil, errors.Wrapf(err, "rule %q failed", rule.Name())
		}
		if result == nil {
			gctx.rollback()
			return nil, errors.RuleValidationf("rule %q returned no result", rule.Name())
		}

		chain.Executed = append(chain.Executed, RuleExecution{
			Rule:     rule.Name(),
			Priority: rule.Priority(),
			Result:   result,
		})

		slog.Debug("Rule executed",
			"command", cmd.Type(),
			"rule", rule.Name(),
			"success", result.Success,
			"stop_chain", result.StopChain,
		)

		if result.StopChain {
			chain.Stopped = true
			chain.StoppedBy = rule.Name()
			break
		}
	}

	gctx.commit()
	return chain, nil
}

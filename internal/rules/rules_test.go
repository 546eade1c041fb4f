package rules

import (
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/adnd-engine/internal/engine"
)

// testContext builds a resolution context holding the given entities
func testContext(ents ...core.Entity) *engine.Context {
	gctx := engine.NewContext()
	for _, e := range ents {
		gctx.SetEntity(e)
	}
	return gctx
}

// command builds a minimal command of the given type
func command(t engine.CommandType) engine.Command {
	return &engine.BasicCommand{CommandType: t}
}

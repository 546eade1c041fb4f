package engine

// CommandType tags an attempted action with its resolution pipeline
type CommandType string

// Command types
const (
	CommandAttack              CommandType = "attack"
	CommandInitiative          CommandType = "initiative"
	CommandMove                CommandType = "move"
	CommandMountedCharge       CommandType = "mounted-charge"
	CommandDismount            CommandType = "dismount"
	CommandCheckMountedCombat  CommandType = "check-mounted-combat"
	CommandCheckSpecialization CommandType = "check-specialization"
	CommandCheckTwoWeapon      CommandType = "check-two-weapon"
	CommandCheckMultiAttack    CommandType = "check-multi-attack"
	CommandCheckAerial         CommandType = "check-aerial"
)

// Command is an immutable description of an attempted action. Commands carry
// no domain logic; rules decide everything.
type Command interface {
	Type() CommandType
	ActorID() string
	TargetIDs() []string

	// CanExecute is the command's self-contained capability check
	CanExecute(gctx *Context) bool
	RequiredRules() []string
	InvolvedEntities() []string
}

// BasicCommand is the standard Command implementation
type BasicCommand struct {
	CommandType CommandType
	Actor       string
	Targets     []string
	Rules       []string

	// Check is the capability check; nil means always executable
	Check func(gctx *Context) bool
}

// Type returns the command's type tag
func (c *BasicCommand) Type() CommandType {
	return c.CommandType
}

// ActorID returns the acting entity's id
func (c *BasicCommand) ActorID() string {
	return c.Actor
}

// TargetIDs returns the target entity ids
func (c *BasicCommand) TargetIDs() []string {
	return c.Targets
}

// CanExecute runs the capability check
func (c *BasicCommand) CanExecute(gctx *Context) bool {
	if c.Check == nil {
		return true
	}
	return c.Check(gctx)
}

// RequiredRules names the rules this command expects in its pipeline
func (c *BasicCommand) RequiredRules() []string {
	return c.Rules
}

// InvolvedEntities returns the actor plus all targets
func (c *BasicCommand) InvolvedEntities() []string {
	out := make([]string, 0, len(c.Targets)+1)
	if c.Actor != "" {
		out = append(out, c.Actor)
	}
	return append(out, c.Targets...)
}

package game

// EntityKind tags reconciliation events for the renderer.
type EntityKind string

const (
	KindPlayer    EntityKind = "player"
	KindMob       EntityKind = "mob"
	KindBomb      EntityKind = "bomb"
	KindExplosion EntityKind = "explosion"
)

// DisplayMode is the coarse screen the UI should show.
type DisplayMode string

const (
	ModeMenu       DisplayMode = "menu"
	ModeConnecting DisplayMode = "connecting"
	ModePlaying    DisplayMode = "playing"
	ModeDead       DisplayMode = "dead"
)

// DeathSummary is handed to the UI when the session ends.
type DeathSummary struct {
	Reason string
	Score  int
}

// Renderer is the rendering collaborator. The core only reports entity
// lifecycle and tile invalidation; sprites, animation and interpolation
// live entirely on the other side of this interface.
type Renderer interface {
	EntityCreated(kind EntityKind, id string)
	EntityRemoved(kind EntityKind, id string)
	// TileInvalidated reports that the tile at the absolute row-major index
	// is no longer backed by live chunk data.
	TileInvalidated(index int)
	// Powerup shows an ephemeral pickup banner. Not reconciliation state.
	Powerup(text string)
}

// UI is the menu/overlay collaborator.
type UI interface {
	SetMode(mode DisplayMode)
	ShowDeathSummary(summary DeathSummary)
}

// NopRenderer discards all rendering events.
type NopRenderer struct{}

func (NopRenderer) EntityCreated(EntityKind, string) {}
func (NopRenderer) EntityRemoved(EntityKind, string) {}
func (NopRenderer) TileInvalidated(int)              {}
func (NopRenderer) Powerup(string)                   {}

// NopUI discards all display requests.
type NopUI struct{}

func (NopUI) SetMode(DisplayMode)           {}
func (NopUI) ShowDeathSummary(DeathSummary) {}

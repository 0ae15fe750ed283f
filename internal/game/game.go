package game

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stevepryde/rustonator/internal/fsm"
	"github.com/stevepryde/rustonator/internal/telemetry"
)

// Config carries the tunables the simulation core needs.
type Config struct {
	// Name is the display name sent with the join request.
	Name string
	// TickRate is the fixed simulation rate in ticks per second. It also
	// caps the prediction buffer at one second of outstanding input.
	TickRate int
	// AlignTolerance is the fraction of a tile width movement may overhang
	// into a blocked cell before snapping back.
	AlignTolerance float64
	// PingInterval is the minimum gap between latency probes.
	PingInterval time.Duration
}

// Game is the client simulation core: the world mirror, the entity pools,
// the prediction engine and the connection state machine, composed with a
// wire session injected from outside. Transport specifics never leak in
// here.
//
// All mutation runs under one mutex: socket callbacks and the tick both
// lock it, which is the thread-confinement story for the whole core.
type Game struct {
	mu sync.Mutex

	log      *zap.SugaredLogger
	counters *telemetry.Counters
	cfg      Config

	machine  *fsm.Machine[ConnState]
	session  *Session
	renderer Renderer
	ui       UI

	world      *World
	players    *EntityPool[string, *Player]
	mobs       *EntityPool[int, *Mob]
	bombs      *EntityPool[int, *Bomb]
	explosions *EntityPool[int, *Explosion]
	prediction *PredictionEngine

	localID   string
	predicted Player
	dead      bool

	intentX, intentY int
	intentFire       bool

	// onConnectRequested is the transport hookup installed by the
	// application; entering FindServer invokes it.
	onConnectRequested func()
}

// New builds the simulation core. Renderer and UI may be nil; no-op
// collaborators are substituted.
func New(cfg Config, renderer Renderer, ui UI, counters *telemetry.Counters, log *zap.SugaredLogger) *Game {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if renderer == nil {
		renderer = NopRenderer{}
	}
	if ui == nil {
		ui = NopUI{}
	}
	if counters == nil {
		counters = telemetry.NewCounters()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 30
	}
	if cfg.AlignTolerance <= 0 {
		cfg.AlignTolerance = DefaultAlignTolerance
	}

	g := &Game{
		log:        log,
		counters:   counters,
		cfg:        cfg,
		renderer:   renderer,
		ui:         ui,
		machine:    fsm.New[ConnState](log),
		players:    NewEntityPool[string, *Player](),
		mobs:       NewEntityPool[int, *Mob](),
		bombs:      NewEntityPool[int, *Bomb](),
		explosions: NewEntityPool[int, *Explosion](),
		prediction: NewPredictionEngine(cfg.TickRate, cfg.AlignTolerance),
	}

	g.session = NewSession(SessionConfig{
		Name:         cfg.Name,
		PingInterval: cfg.PingInterval,
		Logger:       log,
		Counters:     counters,
		Hooks: SessionHooks{
			OnSpawn:        g.handleSpawn,
			OnFrame:        g.handleFrame,
			OnPowerup:      g.handlePowerup,
			OnDead:         g.handleDead,
			OnDisconnected: g.handleDisconnected,
		},
	})

	g.buildTransitions()
	return g
}

// Session exposes the wire session for attaching a socket.
func (g *Game) Session() *Session {
	return g.session
}

// SetConnectHandler installs the transport hookup invoked when the state
// machine enters FindServer. The handler runs under the game lock; it must
// hand off to another goroutine before calling back into the game (see
// SocketConnected and ConnectFailed).
func (g *Game) SetConnectHandler(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onConnectRequested = fn
}

// buildTransitions registers the connection lifecycle graph:
//
//	Menu → InitGame → FindServer → Connected → MainGame → RespawnMenu
//
// with RespawnMenu looping back to InitGame and failure edges back to the
// menus. Handlers run deferred, inside Tick's drain.
func (g *Game) buildTransitions() {
	m := g.machine
	m.SetInitialState(StateMenu)

	m.AddTransition(StateMenu, StateInitGame, g.transInitGame)
	m.AddTransition(StateRespawnMenu, StateInitGame, g.transInitGame)
	m.AddTransition(StateInitGame, StateFindServer, g.transFindServer)
	m.AddTransition(StateFindServer, StateConnected, g.transConnected)
	m.AddTransition(StateConnected, StateMainGame, g.transMainGame)
	m.AddTransition(StateMainGame, StateRespawnMenu, g.transRespawnMenu)
	m.AddTransition(StateConnected, StateRespawnMenu, g.transRespawnMenu)
	m.AddTransition(StateFindServer, StateMenu, g.transBackToMenu)
	m.AddTransition(StateRespawnMenu, StateMenu, g.transBackToMenu)
}

func (g *Game) transInitGame(any) {
	g.resetSession()
	g.machine.SetState(StateFindServer, nil)
}

func (g *Game) transFindServer(any) {
	g.ui.SetMode(ModeConnecting)
	if g.onConnectRequested != nil {
		g.onConnectRequested()
	}
}

func (g *Game) transConnected(any) {
	g.session.HandleOpen()
}

func (g *Game) transMainGame(any) {
	g.ui.SetMode(ModePlaying)
}

func (g *Game) transRespawnMenu(data any) {
	g.ui.SetMode(ModeDead)
	if summary, ok := data.(DeathSummary); ok {
		g.ui.ShowDeathSummary(summary)
	}
}

func (g *Game) transBackToMenu(any) {
	g.ui.SetMode(ModeMenu)
}

// resetSession clears all reconciliation state for a fresh join.
func (g *Game) resetSession() {
	g.players.Clear()
	g.mobs.Clear()
	g.bombs.Clear()
	g.explosions.Clear()
	g.prediction.Reset()
	g.world = nil
	g.localID = ""
	g.predicted = Player{}
	g.dead = false
}

// Start kicks the lifecycle off from the menu.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.machine.SetState(StateInitGame, nil)
}

// Respawn re-enters the game after death.
func (g *Game) Respawn() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.machine.SetState(StateInitGame, nil)
}

// State returns the current lifecycle state.
func (g *Game) State() ConnState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.machine.Current()
}

// SetIntent records the current abstract input intent; the next tick turns
// it into a sequenced action.
func (g *Game) SetIntent(x, y int, fire bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intentX, g.intentY = clampIntent(x), clampIntent(y)
	g.intentFire = fire
}

// SocketConnected hands the game a freshly opened socket. The Connected
// transition (and with it the join request) runs on the next tick's drain.
func (g *Game) SocketConnected(sock Socket) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session.Attach(sock)
	g.machine.SetState(StateConnected, nil)
}

// OnSocketMessage is wired to the transport's message callback.
func (g *Game) OnSocketMessage(data []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session.HandleMessage(data)
}

// OnSocketClose is wired to the transport's close callback.
func (g *Game) OnSocketClose(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session.HandleClose(err)
}

// ConnectFailed reports a failed dial; the lifecycle falls back to the
// menu.
func (g *Game) ConnectFailed(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.log.Warnw("connect failed", "err", err)
	g.machine.SetState(StateMenu, nil)
}

// Tick advances the simulation by one fixed-rate quantum: drains pending
// state transitions, expires status effects, replays prediction and
// re-sends unacknowledged input. deltaTime is the tick length in seconds.
func (g *Game) Tick(deltaTime float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.machine.Drain()
	g.session.MaybePing()

	if !g.session.Joined() || g.machine.Current() != StateMainGame || g.dead {
		return
	}

	if local, ok := g.players.Get(g.localID); ok {
		local.TickEffects(deltaTime)
	}

	// Buffer this tick's intent. A full buffer means the input produces no
	// server effect until lag clears; prediction keeps rendering from what
	// is already buffered.
	if _, ok := g.prediction.NextAction(g.intentX, g.intentY, g.intentFire, deltaTime); !ok {
		g.log.Debugw("action buffer full, input suppressed", "depth", g.prediction.Depth())
	}

	// Re-send every unacknowledged action, at most once per tick.
	for _, act := range g.prediction.Unacked() {
		if err := g.session.SendAction(act); err != nil {
			g.log.Debugw("action send failed", "id", act.ID, "err", err)
			break
		}
	}

	g.counters.RecordReplay(g.prediction.Depth())
	g.predicted = g.prediction.Predicted(g.world)
}

// Predicted returns the local player as of the last tick's replay: the
// authoritative-for-rendering position.
func (g *Game) Predicted() Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.predicted
}

// World returns the world mirror, nil before spawn.
func (g *Game) World() *World {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.world
}

// handleSpawn initializes the local player and the world from the
// SPAWNPLAYER payload. Runs under the game lock (session callbacks are
// funneled through OnSocketMessage).
func (g *Game) handleSpawn(playerRaw, worldRaw json.RawMessage) error {
	var player Player
	if err := json.Unmarshal(playerRaw, &player); err != nil {
		return fmt.Errorf("decode spawn player: %w", err)
	}
	if player.ID == "" {
		return fmt.Errorf("decode spawn player: missing id")
	}
	world, err := WorldFromJSON(worldRaw)
	if err != nil {
		return err
	}

	g.world = world
	g.localID = player.ID
	g.dead = false
	local := player
	g.players.Set(player.ID, &local)
	g.renderer.EntityCreated(KindPlayer, player.ID)
	g.prediction.SetConfirmed(player)
	g.predicted = player
	g.machine.SetState(StateMainGame, nil)
	return nil
}

// handleFrame runs one reconciliation cycle per entity kind plus a chunk
// merge. The local player's authoritative copy is appended to the players
// list first so a single pass updates everyone uniformly.
func (g *Game) handleFrame(frame FramePayload) error {
	if g.world == nil {
		return fmt.Errorf("frame before spawn")
	}

	players := frame.Players
	if frame.Player != nil {
		players = append(players, *frame.Player)
		g.prediction.SetConfirmed(*frame.Player)
	}

	g.players.Mark()
	for i := range players {
		p := players[i]
		if existing, ok := g.players.Get(p.ID); ok {
			*existing = p
			g.players.Set(p.ID, existing)
			continue
		}
		fresh := p
		g.players.Set(p.ID, &fresh)
		g.renderer.EntityCreated(KindPlayer, p.ID)
	}
	g.players.CleanUp(func(id string, _ *Player) {
		g.renderer.EntityRemoved(KindPlayer, id)
	})

	g.mobs.Mark()
	for i := range frame.Mobs {
		m := frame.Mobs[i]
		if existing, ok := g.mobs.Get(m.ID); ok {
			*existing = m
			g.mobs.Set(m.ID, existing)
			continue
		}
		fresh := m
		g.mobs.Set(m.ID, &fresh)
		g.renderer.EntityCreated(KindMob, strconv.Itoa(m.ID))
	}
	g.mobs.CleanUp(func(id int, _ *Mob) {
		g.renderer.EntityRemoved(KindMob, strconv.Itoa(id))
	})

	g.bombs.Mark()
	for i := range frame.Bombs {
		b := frame.Bombs[i]
		if existing, ok := g.bombs.Get(b.ID); ok {
			*existing = b
			g.bombs.Set(b.ID, existing)
			continue
		}
		fresh := b
		g.bombs.Set(b.ID, &fresh)
		g.renderer.EntityCreated(KindBomb, strconv.Itoa(b.ID))
	}
	g.bombs.CleanUp(func(id int, _ *Bomb) {
		g.renderer.EntityRemoved(KindBomb, strconv.Itoa(id))
	})

	g.explosions.Mark()
	for i := range frame.Explosions {
		e := frame.Explosions[i]
		if existing, ok := g.explosions.Get(e.ID); ok {
			*existing = e
			g.explosions.Set(e.ID, existing)
			continue
		}
		fresh := e
		g.explosions.Set(e.ID, &fresh)
		g.renderer.EntityCreated(KindExplosion, strconv.Itoa(e.ID))
	}
	g.explosions.CleanUp(func(id int, _ *Explosion) {
		g.renderer.EntityRemoved(KindExplosion, strconv.Itoa(id))
	})

	if frame.World != nil {
		if err := g.world.MergeChunk(*frame.World, g.renderer.TileInvalidated); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) handlePowerup(text string) {
	g.renderer.Powerup(text)
}

func (g *Game) handleDead(reason string) {
	g.dead = true
	g.log.Infow("local player died", "reason", reason)
}

func (g *Game) handleDisconnected(reason string) {
	score := 0
	if local, ok := g.players.Get(g.localID); ok {
		score = local.Score
	}
	current := g.machine.Current()
	switch current {
	case StateConnected, StateMainGame:
		g.machine.SetState(StateRespawnMenu, DeathSummary{Reason: reason, Score: score})
	case StateFindServer:
		g.machine.SetState(StateMenu, nil)
	}
}

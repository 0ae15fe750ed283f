package game

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stevepryde/rustonator/internal/net/proto"
	"github.com/stevepryde/rustonator/internal/telemetry"
)

// deadCloseGrace is how long the session keeps the socket open after a DEAD
// message so trailing frames and animations can still arrive. The close
// timer is best effort; a full teardown may beat it.
const deadCloseGrace = 2 * time.Second

// disconnectReasonDefault is reported when the socket drops without the
// server having supplied a death reason.
const disconnectReasonDefault = "connection lost"

var nameBadChars = regexp.MustCompile(`[^\w\s,._:'!^*()=-]`)

// Socket is the transport primitive the session consumes. The concrete
// implementation lives in internal/net/ws; tests inject fakes.
type Socket interface {
	Send(data []byte) error
	Ready() bool
	Close() error
}

// SessionHooks are the callbacks the owning game logic registers for
// server-driven events. Decoding and dispatch stay in the session; the
// hooks own all game-state side effects.
type SessionHooks struct {
	// OnSpawn receives the raw player and world documents from SPAWNPLAYER.
	OnSpawn func(player, world json.RawMessage) error
	// OnFrame receives one decoded periodic snapshot.
	OnFrame func(frame FramePayload) error
	// OnPowerup receives the ephemeral display text; presentational only.
	OnPowerup func(text string)
	// OnDead receives the death reason before the grace-delayed close.
	OnDead func(reason string)
	// OnDisconnected fires once when the socket closes, with the last known
	// death reason or a generic connectivity message.
	OnDisconnected func(reason string)
}

// FramePayload is the FRAMEDATA snapshot. Only nearby entities are present;
// reconciliation turns the sparse lists into create/update/destroy events.
type FramePayload struct {
	Players    []Player    `json:"players"`
	Player     *Player     `json:"player"`
	Bombs      []Bomb      `json:"bombs"`
	Explosions []Explosion `json:"explosions"`
	World      *Chunk      `json:"world"`
	Mobs       []Mob       `json:"mobs"`
}

// Session owns the socket lifecycle, the envelope codec, and the inbound
// dispatch table. It is confined to the simulation thread: the owning game
// serializes socket callbacks and tick calls with one mutex.
type Session struct {
	log      *zap.SugaredLogger
	counters *telemetry.Counters
	hooks    SessionHooks
	name     string

	sock   Socket
	joined bool

	dead        bool
	deathReason string

	pingInterval    time.Duration
	pingOutstanding bool
	pingSentAt      time.Time
	lastPingAt      time.Time
	lastRTT         time.Duration

	handlers map[proto.Code]func(json.RawMessage)

	// Injected clocks so tests don't sleep.
	now   func() time.Time
	after func(d time.Duration, fn func())
}

// SessionConfig carries session construction options.
type SessionConfig struct {
	Name         string
	PingInterval time.Duration
	Logger       *zap.SugaredLogger
	Counters     *telemetry.Counters
	Hooks        SessionHooks
}

// NewSession builds a session ready to attach to a socket.
func NewSession(cfg SessionConfig) *Session {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	counters := cfg.Counters
	if counters == nil {
		counters = telemetry.NewCounters()
	}
	interval := cfg.PingInterval
	if interval <= 0 {
		interval = time.Second
	}

	s := &Session{
		log:          log,
		counters:     counters,
		hooks:        cfg.Hooks,
		name:         SanitizeName(cfg.Name),
		pingInterval: interval,
		now:          time.Now,
		after: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	s.handlers = map[proto.Code]func(json.RawMessage){
		proto.CodeSpawnPlayer: s.handleSpawnPlayer,
		proto.CodeFrameData:   s.handleFrameData,
		proto.CodePowerup:     s.handlePowerup,
		proto.CodeDead:        s.handleDead,
		proto.CodePong:        s.handlePong,
	}
	return s
}

// Attach hands the session its socket. Called before HandleOpen.
func (s *Session) Attach(sock Socket) {
	s.sock = sock
}

// Joined reports whether the server has acknowledged the join.
func (s *Session) Joined() bool {
	return s.joined
}

// LastRTT returns the most recent measured round trip.
func (s *Session) LastRTT() time.Duration {
	return s.lastRTT
}

// HandleOpen sends the join request. This is the one outbound message that
// bypasses the joined gate.
func (s *Session) HandleOpen() {
	if err := s.sendRaw(proto.CodeJoinGame, s.name); err != nil {
		s.log.Warnw("join request failed", "err", err)
	}
}

// HandleMessage decodes one inbound frame and dispatches it by code.
// Malformed payloads and unknown codes are logged and dropped; they never
// crash the session and are never retried.
func (s *Session) HandleMessage(raw []byte) {
	s.counters.RecordReceive(len(raw))

	frame, err := proto.Decode(raw)
	if err != nil {
		s.counters.RecordDrop()
		s.log.Warnw("dropping malformed frame", "err", err)
		return
	}
	handler, ok := s.handlers[frame.Code]
	if !ok {
		s.counters.RecordDrop()
		s.log.Warnw("dropping unknown message code", "code", frame.Code)
		return
	}
	handler(frame.Data)
}

// HandleClose funnels every socket close, local or remote, into the single
// disconnected callback.
func (s *Session) HandleClose(cause error) {
	s.joined = false
	reason := s.deathReason
	if reason == "" {
		reason = disconnectReasonDefault
	}
	if cause != nil {
		s.log.Infow("socket closed", "err", cause, "reason", reason)
	} else {
		s.log.Infow("socket closed", "reason", reason)
	}
	if s.hooks.OnDisconnected != nil {
		s.hooks.OnDisconnected(reason)
	}
}

// SendAction transmits one input action. Suppressed until the session has
// joined and the socket is ready, so nothing is ever written into a
// half-established or closed channel.
func (s *Session) SendAction(act Action) error {
	if !s.canSend() {
		return nil
	}
	return s.sendRaw(proto.CodeAction, act)
}

// MaybePing sends a latency probe when the interval has elapsed and no
// probe is outstanding. Never more than one probe in flight, so packet loss
// cannot build an unbounded backlog.
func (s *Session) MaybePing() {
	if !s.canSend() || s.pingOutstanding {
		return
	}
	now := s.now()
	if !s.lastPingAt.IsZero() && now.Sub(s.lastPingAt) < s.pingInterval {
		return
	}
	payload := proto.PingPayload{CurMS: now.UnixMilli()}
	if err := s.sendRaw(proto.CodePing, payload); err != nil {
		s.log.Debugw("ping failed", "err", err)
		return
	}
	s.pingOutstanding = true
	s.pingSentAt = now
	s.lastPingAt = now
}

func (s *Session) canSend() bool {
	return s.joined && s.sock != nil && s.sock.Ready()
}

func (s *Session) sendRaw(code proto.Code, payload any) error {
	if s.sock == nil {
		return fmt.Errorf("send %s: no socket attached", code)
	}
	data, err := proto.Encode(code, payload)
	if err != nil {
		return err
	}
	if err := s.sock.Send(data); err != nil {
		return fmt.Errorf("send %s: %w", code, err)
	}
	s.counters.RecordSend(len(data))
	return nil
}

func (s *Session) handleSpawnPlayer(raw json.RawMessage) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil || len(parts) < 2 {
		s.counters.RecordDrop()
		s.log.Warnw("dropping malformed spawn payload", "err", err)
		return
	}
	if s.hooks.OnSpawn != nil {
		if err := s.hooks.OnSpawn(parts[0], parts[1]); err != nil {
			s.counters.RecordDrop()
			s.log.Warnw("spawn rejected", "err", err)
			return
		}
	}
	s.joined = true
	s.log.Infow("joined game", "name", s.name)
}

func (s *Session) handleFrameData(raw json.RawMessage) {
	if !s.joined {
		// Nothing to reconcile against before SPAWNPLAYER.
		s.counters.RecordDrop()
		return
	}
	var frame FramePayload
	if err := json.Unmarshal(raw, &frame); err != nil {
		s.counters.RecordDrop()
		s.log.Warnw("dropping malformed frame data", "err", err)
		return
	}
	if s.hooks.OnFrame != nil {
		if err := s.hooks.OnFrame(frame); err != nil {
			s.log.Warnw("frame rejected", "err", err)
		}
	}
}

func (s *Session) handlePowerup(raw json.RawMessage) {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		s.counters.RecordDrop()
		s.log.Warnw("dropping malformed powerup", "err", err)
		return
	}
	if s.hooks.OnPowerup != nil {
		s.hooks.OnPowerup(text)
	}
}

func (s *Session) handleDead(raw json.RawMessage) {
	var reason string
	if err := json.Unmarshal(raw, &reason); err != nil {
		s.log.Warnw("malformed death reason", "err", err)
		reason = disconnectReasonDefault
	}
	s.dead = true
	s.deathReason = reason
	if s.hooks.OnDead != nil {
		s.hooks.OnDead(reason)
	}

	// Keep the socket open briefly so trailing messages still arrive; the
	// close then funnels through HandleClose like any other disconnect.
	sock := s.sock
	s.after(deadCloseGrace, func() {
		if sock != nil {
			sock.Close()
		}
	})
}

func (s *Session) handlePong(json.RawMessage) {
	if !s.pingOutstanding {
		return
	}
	s.pingOutstanding = false
	s.lastRTT = s.now().Sub(s.pingSentAt)
	s.counters.RecordRTT(s.lastRTT.Milliseconds())
}

// SanitizeName strips characters the server rejects and caps the length.
// Empty results get a generated guest name.
func SanitizeName(name string) string {
	clean := nameBadChars.ReplaceAllString(name, "")
	if len(clean) > proto.MaxNameLength {
		clean = clean[:proto.MaxNameLength]
	}
	if clean == "" {
		clean = "guest-" + uuid.NewString()[:8]
	}
	return clean
}

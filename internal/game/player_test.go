package game

import (
	"encoding/json"
	"testing"
)

func TestEffectRoundTripRestoresSpeedAndFlags(t *testing.T) {
	p := NewPlayer("p1")
	baseSpeed := p.Speed
	baseInvincible := p.Flags.Has(TraitInvincible)

	for _, effectType := range []EffectType{EffectSpeedUp, EffectSlowDown, EffectInvincibility} {
		p.ApplyEffect(NewEffect(effectType, 1.0))
		p.TickEffects(1.0) // expires exactly now

		if p.Speed != baseSpeed {
			t.Fatalf("effect %d: speed = %g after round trip, want %g", effectType, p.Speed, baseSpeed)
		}
		if p.Flags.Has(TraitInvincible) != baseInvincible {
			t.Fatalf("effect %d: invincible flag not restored", effectType)
		}
		if len(p.Effects) != 0 {
			t.Fatalf("effect %d: %d effects left after expiry", effectType, len(p.Effects))
		}
	}
}

func TestEffectMutatesOnApply(t *testing.T) {
	p := NewPlayer("p1")
	base := p.Speed

	p.ApplyEffect(NewEffect(EffectSpeedUp, 5.0))
	if p.Speed != base+50 {
		t.Fatalf("speed = %g after speedup, want %g", p.Speed, base+50)
	}

	p.ApplyEffect(NewEffect(EffectInvincibility, 5.0))
	if !p.Flags.Has(TraitInvincible) {
		t.Fatalf("invincible flag not set")
	}

	// Partial tick keeps both active.
	p.TickEffects(2.0)
	if len(p.Effects) != 2 {
		t.Fatalf("%d effects after partial tick, want 2", len(p.Effects))
	}
}

func TestUnknownEffectNeverMutates(t *testing.T) {
	p := NewPlayer("p1")
	base := p.Speed

	e := NewEffect(EffectType(42), 5.0)
	if e.Active || e.Remaining != 0 {
		t.Fatalf("unknown effect should come back expired, got %+v", e)
	}
	p.ApplyEffect(e)
	if p.Speed != base || len(p.Effects) != 0 {
		t.Fatalf("unknown effect mutated the player")
	}
}

func TestPlayerCanPassBombNeedsTrait(t *testing.T) {
	p := NewPlayer("p1")
	if p.CanPass(CellBomb) {
		t.Fatalf("player without trait walked through a bomb")
	}
	p.Flags.Add(TraitWalkThroughBombs)
	if !p.CanPass(CellBomb) {
		t.Fatalf("player with trait blocked by a bomb")
	}
	if p.CanPass(CellWall) || p.CanPass(CellMystery) {
		t.Fatalf("player passed a solid cell")
	}
	if !p.CanPass(CellEmpty) || !p.CanPass(CellItemBomb) {
		t.Fatalf("player blocked by a passable cell")
	}
}

func TestMobCanPassNeverBombs(t *testing.T) {
	m := NewMob(7)
	if m.CanPass(CellBomb) || m.CanPass(CellWall) || m.CanPass(CellMystery) {
		t.Fatalf("mob passed a solid cell")
	}
	if !m.CanPass(CellEmpty) || !m.CanPass(CellItemRange) {
		t.Fatalf("mob blocked by a passable cell")
	}
}

func TestTraitSetWireEncoding(t *testing.T) {
	flags := NewTraitSet(TraitInvincible, TraitWalkThroughBombs)
	data, err := json.Marshal(flags)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `["invincible","walkThroughBombs"]` {
		t.Fatalf("encoding = %s, want sorted string array", data)
	}

	var decoded TraitSet
	if err := json.Unmarshal([]byte(`["invincible","laterTrait"]`), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !decoded.Has(TraitInvincible) || !decoded.Has(Trait("laterTrait")) {
		t.Fatalf("decoded set missing entries: %v", decoded)
	}
}

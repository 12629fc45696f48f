package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.HostPIN != "host123" || cfg.MaxRounds != 8 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.PlayerPINs) != 5 || cfg.PlayerPINs[0] != "p1" {
		t.Fatalf("player pins: %v", cfg.PlayerPINs)
	}
	if cfg.AllowMidGameShuffle {
		t.Fatalf("mid-game shuffle must default off")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MAX_ROUNDS", "12")
	t.Setenv("PLAYER_PINS", "a,b,c,d,e")
	t.Setenv("ALLOW_MIDGAME_SHUFFLE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxRounds != 12 || !cfg.AllowMidGameShuffle {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	pins := cfg.PlayerPINMap()
	if pins[1] != "a" || pins[5] != "e" {
		t.Fatalf("pin map: %v", pins)
	}
}

func TestLoadRejectsWrongPinCount(t *testing.T) {
	t.Setenv("PLAYER_PINS", "a,b")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for short pin list")
	}
}

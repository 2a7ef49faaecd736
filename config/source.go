package config

import "time"

// Source is the read-only view the game loop polls every tick.
type Source struct {
	cfg *AppConfig
}

func (c *AppConfig) Source() Source {
	return Source{cfg: c}
}

func (s Source) WallPassEnabled() bool { return s.cfg.WallPassEnabled() }

func (s Source) SnakeColor() string { return s.cfg.CurrentSnakeColor() }

func (s Source) TickInterval() time.Duration { return s.cfg.TickInterval() }

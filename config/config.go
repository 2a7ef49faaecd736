package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	SelfPath       string `json:"selfpath"`
	Port           string `json:"port"`
	CellSize       int    `json:"cellsize"`
	FieldWidth     int    `json:"fieldwidth"`
	FieldHeight    int    `json:"fieldheight"`
	TickIntervalMs int    `json:"tickintervalms"`
	WallPass       bool   `json:"wallpass"`
	SnakeColor     string `json:"snakecolor"`
	FoodColor      string `json:"foodcolor"`
	Audio          bool   `json:"audio"`
	DBPath         string `json:"dbpath"`
	FrameDir       string `json:"framedir"`

	mu   sync.RWMutex
	path string
}

var (
	instance *AppConfig
	once     sync.Once
)

// Defaults returns a config with the default values
func Defaults() *AppConfig {
	return &AppConfig{
		SelfPath:       "127.0.0.1:38870", // Default value
		Port:           "38870",           // Default value
		CellSize:       20,
		FieldWidth:     400,
		FieldHeight:    400,
		TickIntervalMs: 100,
		WallPass:       false,
		SnakeColor:     "#4caf50",
		FoodColor:      "#ff0000",
		Audio:          true,
		DBPath:         "game.db",
		FrameDir:       "static",
	}
}

// LoadConfig initializes and returns the instance of AppConfig
func LoadConfig(filePath string) *AppConfig {
	once.Do(func() {
		cfg, err := Load(filePath)
		if err != nil {
			panic(err)
		}
		instance = cfg
	})
	return instance
}

// Load reads filePath into a fresh config, creating the file with the
// defaults when it does not exist yet.
func Load(filePath string) (*AppConfig, error) {
	cfg := Defaults()
	cfg.path = filePath
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return cfg, cfg.Save()
	}
	if err := cfg.reload(false); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Reload re-reads the settings from the file the config was loaded from.
// The current values are kept when the file is invalid. The field size is
// fixed once the game is running, so cellsize, fieldwidth and fieldheight
// only change on the next start.
func (c *AppConfig) Reload() error {
	return c.reload(true)
}

func (c *AppConfig) reload(keepGrid bool) error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", c.path, err)
	}

	c.mu.RLock()
	next := c.copyLocked()
	c.mu.RUnlock()
	if err := json.Unmarshal(data, next); err != nil {
		return fmt.Errorf("decode config %s: %w", c.path, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if keepGrid && (next.CellSize != c.CellSize || next.FieldWidth != c.FieldWidth || next.FieldHeight != c.FieldHeight) {
		log.Printf("field size change to %dx%d cell %d applies after restart", next.FieldWidth, next.FieldHeight, next.CellSize)
		next.CellSize, next.FieldWidth, next.FieldHeight = c.CellSize, c.FieldWidth, c.FieldHeight
	}
	c.assignLocked(next)
	c.mu.Unlock()
	return nil
}

// Save saves the current settings to the file
func (c *AppConfig) Save() error {
	c.mu.RLock()
	data, err := json.MarshalIndent(c.copyLocked(), "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", c.path, err)
	}
	return nil
}

// Validate checks that the field is grid aligned and the tick interval sane
func (c *AppConfig) Validate() error {
	if c.CellSize <= 0 {
		return fmt.Errorf("cellsize must be positive, got %d", c.CellSize)
	}
	if c.FieldWidth <= 0 || c.FieldWidth%c.CellSize != 0 {
		return fmt.Errorf("fieldwidth %d is not a positive multiple of cellsize %d", c.FieldWidth, c.CellSize)
	}
	if c.FieldHeight <= 0 || c.FieldHeight%c.CellSize != 0 {
		return fmt.Errorf("fieldheight %d is not a positive multiple of cellsize %d", c.FieldHeight, c.CellSize)
	}
	if c.TickIntervalMs < 20 || c.TickIntervalMs > 2000 {
		return fmt.Errorf("tickintervalms %d out of range 20-2000", c.TickIntervalMs)
	}
	if !strings.HasPrefix(c.SnakeColor, "#") {
		return fmt.Errorf("snakecolor %q is not a hex color", c.SnakeColor)
	}
	return nil
}

// SetWallPass toggles boundary wrap and persists it
func (c *AppConfig) SetWallPass(enabled bool) error {
	c.mu.Lock()
	c.WallPass = enabled
	c.mu.Unlock()
	return c.Save()
}

// SetSnakeColor changes the snake color and persists it
func (c *AppConfig) SetSnakeColor(color string) error {
	if !strings.HasPrefix(color, "#") {
		return fmt.Errorf("snakecolor %q is not a hex color", color)
	}
	c.mu.Lock()
	c.SnakeColor = color
	c.mu.Unlock()
	return c.Save()
}

func (c *AppConfig) WallPassEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.WallPass
}

func (c *AppConfig) CurrentSnakeColor() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.SnakeColor
}

func (c *AppConfig) TickInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// Path returns the file the config was loaded from
func (c *AppConfig) Path() string {
	return c.path
}

// Value returns the value of the configuration by key
func (c *AppConfig) Value(key string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch key {
	case "selfpath":
		return c.SelfPath
	case "port":
		return c.Port
	case "cellsize", "blocksize":
		return c.CellSize
	case "fieldwidth":
		return c.FieldWidth
	case "fieldheight":
		return c.FieldHeight
	case "tickintervalms":
		return c.TickIntervalMs
	case "wallpass":
		return c.WallPass
	case "snakecolor":
		return c.SnakeColor
	case "foodcolor":
		return c.FoodColor
	case "audio":
		return c.Audio
	case "dbpath":
		return c.DBPath
	case "framedir":
		return c.FrameDir
	default:
		return ""
	}
}

func (c *AppConfig) copyLocked() *AppConfig {
	return &AppConfig{
		SelfPath:       c.SelfPath,
		Port:           c.Port,
		CellSize:       c.CellSize,
		FieldWidth:     c.FieldWidth,
		FieldHeight:    c.FieldHeight,
		TickIntervalMs: c.TickIntervalMs,
		WallPass:       c.WallPass,
		SnakeColor:     c.SnakeColor,
		FoodColor:      c.FoodColor,
		Audio:          c.Audio,
		DBPath:         c.DBPath,
		FrameDir:       c.FrameDir,
	}
}

func (c *AppConfig) assignLocked(n *AppConfig) {
	c.SelfPath = n.SelfPath
	c.Port = n.Port
	c.CellSize = n.CellSize
	c.FieldWidth = n.FieldWidth
	c.FieldHeight = n.FieldHeight
	c.TickIntervalMs = n.TickIntervalMs
	c.WallPass = n.WallPass
	c.SnakeColor = n.SnakeColor
	c.FoodColor = n.FoodColor
	c.Audio = n.Audio
	c.DBPath = n.DBPath
	c.FrameDir = n.FrameDir
}

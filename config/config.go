// Package config loads game settings from defaults, an optional YAML file,
// DUNGEONCORE_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nathoo/dungeoncore/types"
)

// EnvPrefix prefixes every environment override, e.g. DUNGEONCORE_GAME_SEED.
const EnvPrefix = "DUNGEONCORE"

type Config struct {
	Game   GameConfig   `mapstructure:"game"`
	Rules  RulesConfig  `mapstructure:"rules"`
	Player PlayerConfig `mapstructure:"player"`
	Log    LogConfig    `mapstructure:"log"`
}

type GameConfig struct {
	Dir      string `mapstructure:"dir"`
	Map      string `mapstructure:"map"`
	Monsters string `mapstructure:"monsters"`
	Items    string `mapstructure:"items"`
	Width    int    `mapstructure:"width"`
	Height   int    `mapstructure:"height"`
	Seed     int64  `mapstructure:"seed"` // 0 picks a time-based seed
}

type RulesConfig struct {
	Reach       int `mapstructure:"reach"`
	RangedReach int `mapstructure:"ranged_reach"`
	Sight       int `mapstructure:"sight"`
	LogSize     int `mapstructure:"log_size"`
}

type PlayerConfig struct {
	Name         string `mapstructure:"name"`
	Strength     int    `mapstructure:"strength"`
	Health       int    `mapstructure:"health"`
	Energy       int    `mapstructure:"energy"`
	Attack       int    `mapstructure:"attack"`
	Defense      int    `mapstructure:"defense"`
	RangedAttack int    `mapstructure:"ranged_attack"`
	MaxCarry     int    `mapstructure:"max_carry"`
}

// Def returns the player's archetype. The icon is assigned by the world.
func (p PlayerConfig) Def() types.ActorTypeDef {
	return types.ActorTypeDef{
		Name:         p.Name,
		Strength:     p.Strength,
		Health:       p.Health,
		Energy:       p.Energy,
		Attack:       p.Attack,
		Defense:      p.Defense,
		RangedAttack: p.RangedAttack,
		MaxCarry:     p.MaxCarry,
	}
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text | json
	File   string `mapstructure:"file"`
}

// DefaultItems is the item file used when none is configured and monsters
// are not defined in Lua.
const DefaultItems = "items.ini"

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"dir":       "game.dir",
	"map":       "game.map",
	"monsters":  "game.monsters",
	"items":     "game.items",
	"width":     "game.width",
	"height":    "game.height",
	"seed":      "game.seed",
	"log-level": "log.level",
	"log-file":  "log.file",
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("dir", "", "directory holding the game files")
	fs.String("map", "", "map file (CSV)")
	fs.String("monsters", "", "monster definitions (.ini or .lua)")
	fs.String("items", "", "item definitions (.ini or .lua)")
	fs.Int("width", 0, "map width")
	fs.Int("height", 0, "map height")
	fs.Int64("seed", 0, "random seed, 0 for time-based")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-file", "", "write logs to this file")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.dir", ".")
	v.SetDefault("game.map", "map.csv")
	v.SetDefault("game.monsters", "monsters.ini")
	v.SetDefault("game.items", "")
	v.SetDefault("game.width", 30)
	v.SetDefault("game.height", 30)
	v.SetDefault("game.seed", 0)

	v.SetDefault("rules.reach", 5)
	v.SetDefault("rules.ranged_reach", 8)
	v.SetDefault("rules.sight", 8)
	v.SetDefault("rules.log_size", 100)

	v.SetDefault("player.name", "Player")
	v.SetDefault("player.strength", 5)
	v.SetDefault("player.health", 15)
	v.SetDefault("player.energy", 3)
	v.SetDefault("player.attack", 5)
	v.SetDefault("player.defense", 5)
	v.SetDefault("player.ranged_attack", 5)
	v.SetDefault("player.max_carry", 20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
}

// Load builds the configuration. path may be empty; fs may be nil. Only
// flags the user actually set override lower layers.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.Game.Items == "" && !cfg.Game.LuaDefs() {
		cfg.Game.Items = DefaultItems
	}
	return cfg, nil
}

// LuaDefs reports whether monsters come from a Lua script, which may declare
// items as well.
func (g GameConfig) LuaDefs() bool {
	return strings.HasSuffix(g.Monsters, ".lua")
}

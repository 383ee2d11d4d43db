package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Game.Width)
	assert.Equal(t, 30, cfg.Game.Height)
	assert.Zero(t, cfg.Game.Seed)
	assert.Equal(t, 5, cfg.Rules.Reach)
	assert.Equal(t, 8, cfg.Rules.RangedReach)
	assert.Equal(t, 100, cfg.Rules.LogSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "monsters.ini", cfg.Game.Monsters)
	assert.Equal(t, DefaultItems, cfg.Game.Items)

	p := cfg.Player.Def()
	assert.Equal(t, "Player", p.Name)
	assert.Equal(t, 15, p.Health)
	assert.Equal(t, 3, p.Energy)
	assert.Equal(t, 20, p.MaxCarry)
}

func TestLoad_Layers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dungeon.yaml")
	yaml := "game:\n  width: 40\n  seed: 7\nplayer:\n  name: Hero\nrules:\n  reach: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("DUNGEONCORE_RULES_REACH", "4")
	t.Setenv("DUNGEONCORE_PLAYER_HEALTH", "30")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--seed", "99", "--map", "cave.csv"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Game.Width, "file")
	assert.Equal(t, "Hero", cfg.Player.Name, "file")
	assert.Equal(t, 4, cfg.Rules.Reach, "env beats file")
	assert.Equal(t, 30, cfg.Player.Health, "env")
	assert.Equal(t, int64(99), cfg.Game.Seed, "flag beats file")
	assert.Equal(t, "cave.csv", cfg.Game.Map)
	assert.Equal(t, 30, cfg.Game.Height, "unset flags keep lower layers")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_LuaDefinitionsNeedNoItemFile(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--monsters", "defs.lua"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.True(t, cfg.Game.LuaDefs())
	assert.Empty(t, cfg.Game.Items)
}

func TestLoad_LuaDefinitionsKeepExplicitItems(t *testing.T) {
	t.Setenv("DUNGEONCORE_GAME_ITEMS", "extra.ini")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--monsters", "defs.lua"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, "extra.ini", cfg.Game.Items)
}

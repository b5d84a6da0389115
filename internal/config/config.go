// Package config decodes the process configuration (§6 "Configuration
// (enumerated options consumed)") and the formulas file (§9 "Formula
// evaluation") and exposes the per-package config structs the rest of
// the module expects — combat.Config, scheduler.Config, and a database
// DSN.
//
// Grounded on the teacher's internal/config package: a flat yaml.v3
// struct, a DefaultWorld() baseline, struct tags mirroring snake_case
// option names, and a Load(path) that falls back to defaults when the
// file is absent rather than failing — the same LoadLoginServer shape.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eoserv-go/worldcore/internal/combat"
	"github.com/eoserv-go/worldcore/internal/scheduler"
)

// World is the full §6 enumerated option set plus the database
// connection the teacher's DatabaseConfig already models. Every field
// has a yaml tag matching the option's spec name in snake_case.
type World struct {
	// Maps
	MapDir string  `yaml:"map_dir"`
	Maps   []int32 `yaml:"maps"`

	SeeDistance int32 `yaml:"see_distance"`

	// Attack/movement policy
	EnforceTimestamps bool  `yaml:"enforce_timestamps"`
	EnforceWeight     bool  `yaml:"enforce_weight"`
	LimitAttack       bool  `yaml:"limit_attack"`
	RangedDistance    int32 `yaml:"ranged_distance"`

	MobRate      float64 `yaml:"mob_rate"`
	PKRate       float64 `yaml:"pk_rate"`
	CriticalRate float64 `yaml:"critical_rate"`

	// NPC AI
	NPCChaseDistance int32   `yaml:"npc_chase_distance"`
	NPCBoredTimer    int32   `yaml:"npc_bored_timer"` // seconds after an attacker's last hit before the NPC stops chasing it
	NPCAdjustMaxDam  bool    `yaml:"npc_adjust_max_dam"`
	NPCRecoverRate   float64 `yaml:"npc_recover_rate"`
	NPCRecoverSpeed  float64 `yaml:"npc_recover_speed"` // seconds

	// Pets
	PetChaseDistance    int32   `yaml:"pet_chase_distance"`
	PetGuardDistance    int32   `yaml:"pet_guard_distance"`
	PetDamageMultiplier float64 `yaml:"pet_damage_multiplier"`
	PetSpeed            float64 `yaml:"pet_speed"` // seconds per act
	PetRespawnTime      float64 `yaml:"pet_respawn_time"`
	MaxPets             int32   `yaml:"max_pets"`

	// Spawn/leveling/loot
	SpawnRate     float64 `yaml:"spawn_rate"`
	ExpRate       float64 `yaml:"exp_rate"`
	DropRate      float64 `yaml:"drop_rate"`
	DropRateMode  int32   `yaml:"drop_rate_mode"`
	ShareMode     int32   `yaml:"share_mode"`
	PartyShareMode int32  `yaml:"party_share_mode"`
	MaxExp        int64   `yaml:"max_exp"`
	MaxLevel      int32   `yaml:"max_level"`
	StatPerLevel  int32   `yaml:"stat_per_level"`
	SkillPerLevel int32   `yaml:"skill_per_level"`

	// Regen
	RecoverSpeed     float64 `yaml:"recover_speed"` // seconds
	SitHPRecoverRate float64 `yaml:"sit_hp_recover_rate"`
	SitTPRecoverRate float64 `yaml:"sit_tp_recover_rate"`
	HPRecoverRate    float64 `yaml:"hp_recover_rate"`
	TPRecoverRate    float64 `yaml:"tp_recover_rate"`

	// Warps
	WarpSuck    float64 `yaml:"warp_suck"` // seconds of rest before auto-warp
	WarpBubbles bool    `yaml:"warp_bubbles"`

	// Ground items
	ItemDespawn      bool    `yaml:"item_despawn"`
	ItemDespawnRate  float64 `yaml:"item_despawn_rate"`  // seconds
	ItemDespawnCheck float64 `yaml:"item_despawn_check"` // sweep period, seconds

	// Persistence
	TimedSave    float64 `yaml:"timed_save"` // seconds
	ClockMaxDelta float64 `yaml:"clock_max_delta"`

	// Jail
	JailMap int32 `yaml:"jail_map"`
	JailX   int32 `yaml:"jail_x"`
	JailY   int32 `yaml:"jail_y"`
	UnJailX int32 `yaml:"unjail_x"`
	UnJailY int32 `yaml:"unjail_y"`

	// PvP
	PKExcept     []int32 `yaml:"pk_except"`
	GlobalPK     bool    `yaml:"global_pk"`
	Deadly       bool    `yaml:"deadly"`
	DeathRecover bool    `yaml:"death_recover"`
	LimitDamage  bool    `yaml:"limit_damage"`

	// Chests / items / maps
	MaxChest       int32   `yaml:"max_chest"`
	ChestSlots     int32   `yaml:"chest_slots"`
	MaxItem        int32   `yaml:"max_item"`
	MaxTile        int32   `yaml:"max_tile"`
	MaxMap         int32   `yaml:"max_map"`
	ProtectNPCDrop float64 `yaml:"protect_npc_drop"` // seconds
	ProtectMaps    []int32 `yaml:"protect_maps"`

	// Hazard ticks (§4.10 "spikes / drains / quakes — configured"; the
	// spec names the event, not the key — these follow the same
	// seconds-and-flat-amount shape every other periodic tunable uses).
	SpikeInterval float64 `yaml:"spike_interval"`
	SpikeDamage   int32   `yaml:"spike_damage"`
	DrainInterval float64 `yaml:"drain_interval"`
	DrainDamage   int32   `yaml:"drain_damage"`
	QuakeInterval float64 `yaml:"quake_interval"`
	QuakeDamage   int32   `yaml:"quake_damage"`

	// Character creation limits
	MaxHairStyle int32 `yaml:"max_hair_style"`
	MaxHairColor int32 `yaml:"max_hair_color"`
	MaxSkin      int32 `yaml:"max_skin"`
	MaxStat      int32 `yaml:"max_stat"`

	NoInteractDefault      bool `yaml:"no_interact_default"`
	NoInteractDefaultAdmin bool `yaml:"no_interact_default_admin"`

	AdminBoard      int32 `yaml:"admin_board"`
	AdminBoardLimit int32 `yaml:"admin_board_limit"`

	// Ambient
	LogLevel      string         `yaml:"log_level"`
	FormulasPath  string         `yaml:"formulas_path"`
	Database      DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds the PostgreSQL connection parameters internal/db
// needs to build a pgx pool, mirroring the teacher's DatabaseConfig
// field-for-field (the persistence backend doesn't change across this
// rewrite, only what's stored in it does).
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	MaxConns int32 `yaml:"max_conns"`
	MinConns int32 `yaml:"min_conns"`
}

// DSN returns the PostgreSQL connection string, following the teacher's
// DatabaseConfig.DSN() shape.
func (d DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
	if d.MaxConns > 0 {
		dsn += fmt.Sprintf("&pool_max_conns=%d", d.MaxConns)
	}
	if d.MinConns > 0 {
		dsn += fmt.Sprintf("&pool_min_conns=%d", d.MinConns)
	}
	return dsn
}

// DefaultWorld returns a World populated with the teacher-style
// conservative defaults every option falls back to when absent from the
// config file.
func DefaultWorld() World {
	return World{
		MapDir:      "data/maps",
		Maps:        []int32{1},
		SeeDistance: 11,

		EnforceTimestamps: true,
		RangedDistance:    5,

		MobRate:      1.0,
		PKRate:       1.0,
		CriticalRate: 1.0,

		NPCChaseDistance: 7,
		NPCBoredTimer:    6,
		NPCRecoverRate:   0.01,
		NPCRecoverSpeed:  5,

		PetChaseDistance:    5,
		PetGuardDistance:    3,
		PetDamageMultiplier: 1.0,
		PetSpeed:            0.6,
		PetRespawnTime:      10,
		MaxPets:             1,

		SpawnRate:      1.0,
		ExpRate:        1.0,
		DropRate:       1.0,
		DropRateMode:   1,
		PartyShareMode: 1,
		MaxExp:         -1,
		MaxLevel:       254,
		StatPerLevel:   3,
		SkillPerLevel:  1,

		RecoverSpeed:     5,
		SitHPRecoverRate: 0.04,
		SitTPRecoverRate: 0.04,
		HPRecoverRate:    0.02,
		TPRecoverRate:    0.02,

		WarpSuck: 0.5,

		ItemDespawn:      true,
		ItemDespawnRate:  1200,
		ItemDespawnCheck: 60,

		TimedSave:     300,
		ClockMaxDelta: 60,

		LimitDamage: true,

		MaxChest:   10,
		ChestSlots: 5,
		MaxItem:    2000000000,
		MaxTile:    252,
		MaxMap:     32000,

		ProtectNPCDrop: 30,

		MaxHairStyle: 20,
		MaxHairColor: 9,
		MaxSkin:      3,
		MaxStat:      252,

		AdminBoardLimit: 20,

		LogLevel: "info",

		Database: DatabaseConfig{
			Host:    "127.0.0.1",
			Port:    5432,
			User:    "worldcore",
			DBName:  "worldcore",
			SSLMode: "disable",
		},
	}
}

// Load reads a World config from a YAML file, overlaying it on
// DefaultWorld(). A missing file is not an error — callers get the
// defaults, matching the teacher's LoadLoginServer behavior.
func Load(path string) (World, error) {
	cfg := DefaultWorld()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// CombatConfig projects the subset of options combat.Resolver needs into
// a combat.Config value.
func (w World) CombatConfig() combat.Config {
	return combat.Config{
		MobRate:             w.MobRate,
		PKRate:              w.PKRate,
		CriticalRate:        w.CriticalRate,
		Deadly:              w.Deadly,
		LimitDamage:         w.LimitDamage,
		RangedDistance:      w.RangedDistance,
		SeeDistance:         w.SeeDistance,
		PetDamageMultiplier: w.PetDamageMultiplier,
		DropRate:            w.DropRate,
		DropRateMode:        w.DropRateMode,
		ShareMode:           w.ShareMode,
		PartyShareMode:      w.PartyShareMode,
		ExpRate:             w.ExpRate,
		MaxExp:              w.MaxExp,
		MaxLevel:            w.MaxLevel,
		StatPerLevel:        w.StatPerLevel,
		SkillPerLevel:       w.SkillPerLevel,
		ProtectNPCDrop:      int32(w.ProtectNPCDrop),
		MaxItemAmount:       w.MaxItem,
	}
}

// SchedulerConfig projects the subset of options internal/scheduler
// needs into a scheduler.Config value, converting every seconds-based
// option into a time.Duration.
func (w World) SchedulerConfig() scheduler.Config {
	return scheduler.Config{
		ActNPCsPeriod:      50 * time.Millisecond,
		SpawnNPCsPeriod:    time.Second,
		ChestRefillPeriod:  time.Minute,
		RecoverPeriod:      seconds(w.RecoverSpeed),
		NPCRecoverPeriod:   seconds(w.NPCRecoverSpeed),
		WarpSuckPeriod:     time.Second,
		DespawnItemsPeriod: seconds(w.ItemDespawnCheck),
		TimedSavePeriod:    seconds(w.TimedSave),
		SpikePeriod:        seconds(w.SpikeInterval),
		DrainPeriod:        seconds(w.DrainInterval),
		QuakePeriod:        seconds(w.QuakeInterval),

		HPRecoverRate:    w.HPRecoverRate,
		TPRecoverRate:    w.TPRecoverRate,
		SitHPRecoverRate: w.SitHPRecoverRate,
		SitTPRecoverRate: w.SitTPRecoverRate,
		NPCRecoverRate:   w.NPCRecoverRate,

		WarpSuckRest:    seconds(w.WarpSuck),
		ItemDespawnRate: seconds(w.ItemDespawnRate),

		SpikeDamage: w.SpikeDamage,
		DrainDamage: w.DrainDamage,
		QuakeDamage: w.QuakeDamage,

		SpawnRate: w.SpawnRate,
	}
}

// MaxDelta is the scheduler's wall-clock resync cap (§4.10 "a configurable
// wall-clock maximum-delta").
func (w World) MaxDelta() time.Duration {
	return seconds(w.ClockMaxDelta)
}

package combat

import (
	"math/rand"
	"testing"

	"github.com/eoserv-go/worldcore/internal/data"
	"github.com/eoserv-go/worldcore/internal/model"
	"github.com/eoserv-go/worldcore/internal/world"
)

func newResolver(tables *data.Tables, cfg Config, seed int64) *Resolver {
	return &Resolver{
		Tables:   tables,
		Formulas: NewEngine(),
		Rand:     rand.New(rand.NewSource(seed)),
		Config:   cfg,
	}
}

func TestValidateAttackRejectsSitting(t *testing.T) {
	attacker := &model.Character{Location: model.NewLocation(0, 0, model.DirectionDown), Sitting: true}
	_, ok := ValidateAttack(attacker, AttackRequest{TimestampDelta: 100}, true, true)
	if ok {
		t.Fatal("expected sitting attacker to fail validation")
	}
}

func TestValidateAttackEnforcesTimestampGap(t *testing.T) {
	attacker := &model.Character{Location: model.NewLocation(0, 0, model.DirectionDown)}
	if _, ok := ValidateAttack(attacker, AttackRequest{TimestampDelta: 10}, true, true); ok {
		t.Fatal("expected a too-recent attack to be rejected when timestamps are enforced")
	}
	if _, ok := ValidateAttack(attacker, AttackRequest{TimestampDelta: 10}, false, true); !ok {
		t.Fatal("expected the same attack to pass when timestamp enforcement is off")
	}
}

func TestValidateAttackKeepsOwnDirectionOnLargeGap(t *testing.T) {
	attacker := &model.Character{Location: model.NewLocation(0, 0, model.DirectionUp)}
	dir, ok := ValidateAttack(attacker, AttackRequest{TimestampDelta: 60, RequestedDirection: model.DirectionRight}, true, true)
	if !ok || dir != model.DirectionUp {
		t.Fatalf("expected own direction kept on a >=60 gap, got dir=%v ok=%v", dir, ok)
	}
}

func TestValidateAttackUsesRequestedDirectionOnNormalGap(t *testing.T) {
	attacker := &model.Character{Location: model.NewLocation(0, 0, model.DirectionUp)}
	dir, ok := ValidateAttack(attacker, AttackRequest{TimestampDelta: 48, RequestedDirection: model.DirectionRight}, true, true)
	if !ok || dir != model.DirectionRight {
		t.Fatalf("expected requested direction to apply, got dir=%v ok=%v", dir, ok)
	}
}

func TestFindLineTargetHitsFirstLiveNPC(t *testing.T) {
	m := world.NewBlankMap(1, 10, 10)
	npc := &model.NPC{Alive: true, HP: 10, Location: model.NewLocation(5, 3, model.DirectionDown)}
	m.AddNPC(npc)

	hit := FindLineTarget(m, model.NewLocation(5, 1, model.DirectionDown), model.DirectionDown, 3)
	if hit != npc {
		t.Fatalf("expected to hit the npc at (5,3), got %v", hit)
	}
}

func TestFindLineTargetStopsAtWall(t *testing.T) {
	m := world.NewBlankMap(1, 10, 10)
	m.SetTileSpec(5, 2, model.TileWall)
	npc := &model.NPC{Alive: true, HP: 10, Location: model.NewLocation(5, 3, model.DirectionDown)}
	m.AddNPC(npc)

	hit := FindLineTarget(m, model.NewLocation(5, 1, model.DirectionDown), model.DirectionDown, 3)
	if hit != nil {
		t.Fatal("expected the wall to block the line before reaching the npc")
	}
}

func TestPlayerAttackNPCRecordsDamageAndKills(t *testing.T) {
	m := world.NewBlankMap(1, 10, 10)
	tables := data.NewTables()
	tables.AddNpc(&model.NpcDef{ID: 1, HP: 1, Evade: 0, Armor: 0})

	npc := &model.NPC{DefID: 1, Alive: true, HP: 1, Location: model.NewLocation(5, 5, model.DirectionDown)}
	m.AddNPC(npc)

	attacker := &model.Character{ID: 1, MinDamage: 50, MaxDamage: 50, Accuracy: 100, Location: model.NewLocation(5, 4, model.DirectionDown)}

	r := newResolver(tables, Config{LimitDamage: true, MobRate: 1}, 1)
	var killResult *KillResult
	r.OnKill = func(res KillResult) { killResult = &res }

	killed := r.PlayerAttackNPC(attacker, npc, m)
	if !killed {
		t.Fatal("expected a 1-hp npc hit by a 50-damage attacker to die")
	}
	if npc.Alive {
		t.Fatal("expected npc.Alive to be false after Kill")
	}
	if killResult == nil || killResult.NPC != npc {
		t.Fatal("expected OnKill to fire with the killed npc")
	}
}

func TestPlayerAttackNPCBroadcastsHealthUpdateWhenSurviving(t *testing.T) {
	m := world.NewBlankMap(1, 10, 10)
	tables := data.NewTables()
	tables.AddNpc(&model.NpcDef{ID: 1, HP: 1000, Evade: 0, Armor: 0})

	npc := &model.NPC{DefID: 1, Alive: true, HP: 1000, Location: model.NewLocation(5, 5, model.DirectionDown)}
	m.AddNPC(npc)
	attacker := &model.Character{ID: 1, MinDamage: 1, MaxDamage: 1, Accuracy: 100, Location: model.NewLocation(5, 4, model.DirectionDown)}

	r := newResolver(tables, Config{MobRate: 1}, 1)
	var updated bool
	r.OnHealthUpdate = func(a, target any, damage int32, critical bool, m *world.Map) { updated = true }

	killed := r.PlayerAttackNPC(attacker, npc, m)
	if killed {
		t.Fatal("1000 hp npc should survive a 1-damage hit")
	}
	if !updated {
		t.Fatal("expected a health-update broadcast on a surviving hit")
	}
}

func TestNPCAttackCharacterAppliesDamage(t *testing.T) {
	m := world.NewBlankMap(1, 10, 10)
	tables := data.NewTables()
	tables.AddNpc(&model.NpcDef{ID: 1, MinDamage: 100, MaxDamage: 100, Accuracy: 100})

	npc := &model.NPC{DefID: 1, Alive: true, Location: model.NewLocation(5, 5, model.DirectionDown)}
	target := &model.Character{HP: 200, MaxHP: 200, Location: model.NewLocation(5, 6, model.DirectionUp)}

	r := newResolver(tables, Config{LimitDamage: true, MobRate: 1}, 3)
	damage, _, killed := r.NPCAttackCharacter(npc, target, m)
	if damage <= 0 {
		t.Fatal("expected nonzero damage")
	}
	if killed {
		t.Fatal("200 hp target should not die to one hit")
	}
	if target.HP != 200-damage {
		t.Fatalf("expected target.HP to drop by the reported damage, got %d want %d", target.HP, 200-damage)
	}
}

func TestPetAttackNPCRecordsOwnerOnDamageList(t *testing.T) {
	m := world.NewBlankMap(1, 10, 10)
	tables := data.NewTables()

	owner := &model.Character{ID: 1}
	pet := &model.NPC{Alive: true, Pet: &model.PetState{Owner: owner, MinDamage: 5, MaxDamage: 5}}
	target := &model.NPC{Alive: true, HP: 100}
	m.AddNPC(pet)
	m.AddNPC(target)

	r := newResolver(tables, Config{LimitDamage: true}, 1)
	damage, killed := r.PetAttackNPC(pet, target, m)
	if damage != 5 {
		t.Fatalf("expected flat 5 damage, got %d", damage)
	}
	if killed {
		t.Fatal("100 hp target should survive")
	}
	if entry := target.FindDamageEntry(owner); entry == nil || entry.Damage != 5 {
		t.Fatal("expected the pet's owner to be recorded on the target's damage list")
	}
}

func TestPetAttackNPCAppliesConfiguredDamageMultiplier(t *testing.T) {
	m := world.NewBlankMap(1, 10, 10)
	tables := data.NewTables()

	owner := &model.Character{ID: 1}
	pet := &model.NPC{Alive: true, Pet: &model.PetState{Owner: owner, MinDamage: 5, MaxDamage: 5}}
	target := &model.NPC{Alive: true, HP: 100}
	m.AddNPC(pet)
	m.AddNPC(target)

	r := newResolver(tables, Config{LimitDamage: true, PetDamageMultiplier: 2.0}, 1)
	damage, _ := r.PetAttackNPC(pet, target, m)
	if damage != 10 {
		t.Fatalf("expected PetDamageMultiplier=2.0 to double the flat 5 damage to 10, got %d", damage)
	}
}

func TestPvPAttackAppliesPKRateScalar(t *testing.T) {
	tables := data.NewTables()
	attacker := &model.Character{MinDamage: 100, MaxDamage: 100, Accuracy: 1000, Location: model.NewLocation(0, 0, model.DirectionDown)}
	target := &model.Character{HP: 1000, MaxHP: 1000, Location: model.NewLocation(0, 1, model.DirectionUp)}

	r := newResolver(tables, Config{PKRate: 0.5, MobRate: 1}, 1)
	res := r.PvPAttack(attacker, target, world.NewBlankMap(1, 5, 5))
	if res.Damage > 60 {
		t.Fatalf("expected PKRate=0.5 to roughly halve a ~100 damage hit, got %d", res.Damage)
	}
}

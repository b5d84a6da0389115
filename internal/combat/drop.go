package combat

import (
	"math/rand"

	"github.com/eoserv-go/worldcore/internal/model"
)

// ChooseDrop selects at most one item row to drop from def under the
// configured DropRateMode (§4.8 step 2).
//
// Grounded on original_source/src/npc.cpp NPC::Killed's dropratemode
// 1/2/3 branches — mode 3's weighted roll is left unscaled by DropRate
// there (scaling every row's chance by the same factor cancels out of a
// self-normalizing weighted pick, so applying it would change nothing).
func ChooseDrop(def *model.NpcDef, cfg Config, rng *rand.Rand) *model.DropRow {
	rows := flattenDrops(def)
	if len(rows) == 0 {
		return nil
	}

	switch cfg.DropRateMode {
	case 1:
		var eligible []*model.DropRow
		for _, row := range rows {
			if uniform(rng, 0, 100) <= row.ChancePct*cfg.DropRate {
				eligible = append(eligible, row)
			}
		}
		if len(eligible) == 0 {
			return nil
		}
		return eligible[rng.Intn(len(eligible))]

	case 2:
		for _, row := range rows {
			if uniform(rng, 0, 100) <= row.ChancePct*cfg.DropRate {
				return row
			}
		}
		return nil

	case 3:
		var total float64
		for _, row := range rows {
			total += row.ChancePct
		}
		if total <= 0 {
			return nil
		}
		roll := uniform(rng, 0, total)
		var offset float64
		for _, row := range rows {
			if roll >= offset && roll < offset+row.ChancePct {
				return row
			}
			offset += row.ChancePct
		}
		return nil
	}

	return nil
}

func flattenDrops(def *model.NpcDef) []*model.DropRow {
	var rows []*model.DropRow
	for g := range def.Drops {
		group := &def.Drops[g]
		for i := range group.Items {
			rows = append(rows, &group.Items[i])
		}
	}
	return rows
}

// RollAmount picks a uniform amount in [row.Min, row.Max], capped at maxAmount.
func RollAmount(row *model.DropRow, maxAmount int32, rng *rand.Rand) int32 {
	amount := row.Min
	if row.Max > row.Min {
		amount = row.Min + int32(rng.Intn(int(row.Max-row.Min+1)))
	}
	if maxAmount > 0 && amount > maxAmount {
		amount = maxAmount
	}
	return amount
}

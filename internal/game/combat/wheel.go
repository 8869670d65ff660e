package combat

// WheelDegrees is the size of the targeting wheel.
const WheelDegrees = 360.0

// Source is the randomness the engine consumes. dice.Source satisfies it;
// a local interface avoids importing the dice package.
type Source interface {
	// Intn returns a non-negative int in [0, n). Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a float in [0, 1).
	Float64() float64
}

// Sector is one slice of the wheel. TargetID is empty for the miss sector.
//
// Invariant: Start <= End; a roll r lands in the sector iff Start <= r < End.
type Sector struct {
	TargetID string  `json:"targetId,omitempty"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
}

// Size returns the sector's width in degrees.
func (s Sector) Size() float64 { return s.End - s.Start }

// WheelResult is the audit record of one wheel spin. Re-feeding Roll and
// Sectors to RollToTarget reproduces TargetID.
type WheelResult struct {
	TargetID string   `json:"targetId,omitempty"`
	Hit      bool     `json:"hit"`
	Roll     float64  `json:"roll"`
	Sectors  []Sector `json:"sectors"`
}

// MissDegrees returns the miss sector size for an attacker with the given dexterity.
// Dexterity 100 leaves 5% of the wheel, dexterity 0 leaves 40%.
//
// Postcondition: 0 <= result <= WheelDegrees.
func MissDegrees(dexterity int) float64 {
	deg := (0.4 - float64(dexterity)/100*0.35) * WheelDegrees
	if deg < 0 {
		return 0
	}
	if deg > WheelDegrees {
		return WheelDegrees
	}
	return deg
}

// TargetWeight returns the relative wheel share of a target with the given
// evasiveness. Negative evasiveness yields a weight above 1.
//
// Postcondition: result >= 0.05.
func TargetWeight(evasiveness int) float64 {
	return max(0.05, 1-float64(evasiveness)/100*0.9)
}

// BuildSectors lays out the wheel for attacker spinning against pool: the miss
// sector first, then one sector per target proportional to TargetWeight.
//
// Postcondition: sectors are contiguous from 0 and the last one ends at exactly 360.
func BuildSectors(attacker *Character, pool []*Character) []Sector {
	miss := MissDegrees(attacker.Attributes.Dexterity)
	if len(pool) == 0 {
		miss = WheelDegrees
	}
	sectors := make([]Sector, 0, len(pool)+1)
	sectors = append(sectors, Sector{Start: 0, End: miss})

	total := 0.0
	for _, t := range pool {
		total += TargetWeight(t.Attributes.Evasiveness)
	}
	remaining := WheelDegrees - miss
	cursor := miss
	for _, t := range pool {
		size := remaining * TargetWeight(t.Attributes.Evasiveness) / total
		sectors = append(sectors, Sector{TargetID: t.ID, Start: cursor, End: cursor + size})
		cursor += size
	}
	// Pin the final edge so float drift never leaves a gap at the top of the wheel.
	sectors[len(sectors)-1].End = WheelDegrees
	return sectors
}

// RollToTarget maps roll onto sectors.
//
// Postcondition: Returns (targetID, true) on a hit, ("", false) on a miss or
// when roll falls outside every sector.
func RollToTarget(roll float64, sectors []Sector) (string, bool) {
	for _, s := range sectors {
		if roll >= s.Start && roll < s.End {
			return s.TargetID, s.TargetID != ""
		}
	}
	return "", false
}

// Spin draws one roll in [0, 360) from src and resolves it against sectors.
func Spin(sectors []Sector, src Source) WheelResult {
	roll := src.Float64() * WheelDegrees
	id, hit := RollToTarget(roll, sectors)
	return WheelResult{TargetID: id, Hit: hit, Roll: roll, Sectors: sectors}
}

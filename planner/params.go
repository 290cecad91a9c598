package planner

import "fmt"

// Params holds the heuristic constants. Priorities are "lower is better".
type Params struct {
	// BuildThreshold is the initial cut-off: only build candidates whose
	// priority is strictly below it are built.
	BuildThreshold int `yaml:"build_threshold"`
	// ThresholdStep is added to the threshold after every turn.
	ThresholdStep int `yaml:"threshold_step"`
	// AttackThreshold replaces the threshold once a recycler can be dropped
	// next to enemy units.
	AttackThreshold int `yaml:"attack_threshold"`
	// AttackPriority is given to build candidates next to enemy units.
	AttackPriority int `yaml:"attack_priority"`

	StructureCost int `yaml:"structure_cost"`
	UnitCost      int `yaml:"unit_cost"`

	// Spawn priority = SpawnBase - neutral - FoeWeight*foe.
	SpawnBase int `yaml:"spawn_base"`
	FoeWeight int `yaml:"foe_weight"`
}

// DefaultParams returns the tuned heuristic constants.
func DefaultParams() Params {
	return Params{
		BuildThreshold:  -20,
		ThresholdStep:   -2,
		AttackThreshold: -500,
		AttackPriority:  -1000,
		StructureCost:   10,
		UnitCost:        10,
		SpawnBase:       24,
		FoeWeight:       2,
	}
}

// Validate rejects parameter sets the planners cannot run with.
func (p Params) Validate() error {
	if p.StructureCost <= 0 {
		return fmt.Errorf("structure_cost must be positive, got %d", p.StructureCost)
	}
	if p.UnitCost <= 0 {
		return fmt.Errorf("unit_cost must be positive, got %d", p.UnitCost)
	}
	if p.ThresholdStep > 0 {
		return fmt.Errorf("threshold_step must not loosen the threshold, got %d", p.ThresholdStep)
	}
	if p.AttackThreshold > p.BuildThreshold {
		return fmt.Errorf("attack_threshold %d is looser than build_threshold %d", p.AttackThreshold, p.BuildThreshold)
	}
	if p.AttackPriority >= p.AttackThreshold {
		return fmt.Errorf("attack_priority %d would never pass attack_threshold %d", p.AttackPriority, p.AttackThreshold)
	}
	return nil
}

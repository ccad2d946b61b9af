package grid

import (
	"fmt"
	"slices"
	"strings"
)

// Rule identifies a placement rule for typed violation reporting.
type Rule string

const (
	// RuleBounds rejects footprint cells outside the grid volume.
	RuleBounds Rule = "bounds"
	// RuleOccupancy rejects footprint cells already occupied by another module.
	RuleOccupancy Rule = "occupancy"
	// RuleSupport rejects cells above level 0 with nothing directly beneath.
	RuleSupport Rule = "support"
	// RuleStrictStack rejects cells whose support column is incomplete all
	// the way down to the water line. Opt-in via [WithStrictStacks].
	RuleStrictStack Rule = "strict_stack"
	// RuleConnectivity rejects layouts with unreachable modules on a level.
	RuleConnectivity Rule = "connectivity"
)

// Violation describes one violated rule with the offending positions and,
// where relevant, the module identities involved.
type Violation struct {
	Rule      Rule       `json:"rule"`
	Message   string     `json:"message"`
	Positions []Position `json:"positions,omitempty"`
	ModuleIDs []string   `json:"moduleIds,omitempty"`
}

// String returns a short human-readable description.
func (v Violation) String() string {
	if len(v.Positions) == 0 {
		return fmt.Sprintf("%s: %s", v.Rule, v.Message)
	}
	keys := make([]string, len(v.Positions))
	for i, p := range v.Positions {
		keys[i] = p.String()
	}
	return fmt.Sprintf("%s: %s [%s]", v.Rule, v.Message, strings.Join(keys, " "))
}

// Result is the outcome of a validation run. Expected failures are values,
// never panics: every applicable rule is checked and reported, without
// short-circuiting on the first violation.
type Result struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
}

// ok returns a passing result.
func okResult() Result { return Result{Valid: true} }

// failed builds a failing result from the collected violations.
func failed(violations []Violation) Result {
	return Result{Valid: len(violations) == 0, Violations: violations}
}

// Has reports whether the result contains a violation of the given rule.
func (r Result) Has(rule Rule) bool {
	return slices.ContainsFunc(r.Violations, func(v Violation) bool { return v.Rule == rule })
}

// Violation returns the first violation of the given rule, if present.
func (r Result) Violation(rule Rule) (Violation, bool) {
	for _, v := range r.Violations {
		if v.Rule == rule {
			return v, true
		}
	}
	return Violation{}, false
}

// RejectionError carries a failed validation Result through the error
// channel of mutating Grid operations. The CLI and API surface the
// structured violation list rather than the flat message.
type RejectionError struct {
	Result Result
}

// Error implements the error interface.
func (e *RejectionError) Error() string {
	msgs := make([]string, len(e.Result.Violations))
	for i, v := range e.Result.Violations {
		msgs[i] = v.String()
	}
	return "placement rejected: " + strings.Join(msgs, "; ")
}

// Validator is the stateless rule engine for placements. The zero value
// applies the canonical rules; [WithStrictStacks] additionally requires
// complete support columns beneath every elevated cell.
type Validator struct {
	strictStacks bool
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithStrictStacks enables the strict stacking rule: every footprint cell at
// level >= 2 must have occupied cells at every level beneath it, not just
// the one directly below. With placements validated on entry the simple rule
// implies full columns by induction; strict mode exists to vet layouts
// reconstructed from records produced elsewhere.
func WithStrictStacks() ValidatorOption {
	return func(v *Validator) { v.strictStacks = true }
}

// NewValidator creates a Validator with the given options.
func NewValidator(opts ...ValidatorOption) Validator {
	var v Validator
	for _, opt := range opts {
		opt(&v)
	}
	return v
}

// StrictStacks reports whether the strict stacking rule is enabled.
func (v Validator) StrictStacks() bool { return v.strictStacks }

// CanPlace checks whether a module of the given type and orientation fits at
// pos on the grid. excludeID names a module whose cells are ignored for
// occupancy and support (the module being moved); pass "" for plain
// placements. All applicable violations are collected.
func (v Validator) CanPlace(g *Grid, pos Position, typ ModuleType, orient Orientation, excludeID string) Result {
	footprint := Footprint(typ, orient, pos)
	var violations []Violation

	if out := g.outOfBounds(footprint); len(out) > 0 {
		violations = append(violations, Violation{
			Rule:      RuleBounds,
			Message:   fmt.Sprintf("footprint leaves the %dx%dx%d grid", g.width, g.levels, g.depth),
			Positions: out,
		})
	}

	if cells, ids := v.occupiedCells(g, footprint, excludeID); len(cells) > 0 {
		violations = append(violations, Violation{
			Rule:      RuleOccupancy,
			Message:   "footprint overlaps existing modules",
			Positions: cells,
			ModuleIDs: ids,
		})
	}

	if unsupported := v.unsupportedCells(g, footprint, excludeID); len(unsupported) > 0 {
		violations = append(violations, Violation{
			Rule:      RuleSupport,
			Message:   "no module directly beneath",
			Positions: unsupported,
		})
	}

	if v.strictStacks {
		if missing := v.incompleteStacks(g, footprint, excludeID); len(missing) > 0 {
			violations = append(violations, Violation{
				Rule:      RuleStrictStack,
				Message:   "support column incomplete down to the water line",
				Positions: missing,
			})
		}
	}

	return failed(violations)
}

// CanMove checks whether the module can be relocated to pos, ignoring its
// own current cells. The ok return is false when the ID is unknown, which
// is a caller contract error rather than a validation failure.
func (v Validator) CanMove(g *Grid, id string, pos Position) (Result, bool) {
	m, ok := g.modules[id]
	if !ok {
		return Result{}, false
	}
	return v.CanPlace(g, pos, m.typ, m.orient, id), true
}

// CheckConnectivity runs a flood fill over horizontally adjacent modules on
// each level. A level is valid iff every module on it is reachable from the
// first; disconnected modules are reported per level. This is an opt-in
// layout health check, not part of per-placement validation.
func (v Validator) CheckConnectivity(g *Grid) Result {
	var violations []Violation
	for level := 0; level < g.levels; level++ {
		mods := g.ModulesAtLevel(level)
		if len(mods) < 2 {
			continue
		}

		reached := make(map[string]bool, len(mods))
		queue := []string{mods[0].id}
		reached[mods[0].id] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			for _, next := range v.adjacentModules(g, g.modules[id]) {
				if !reached[next] {
					reached[next] = true
					queue = append(queue, next)
				}
			}
		}

		var disconnected []string
		var origins []Position
		for _, m := range mods {
			if !reached[m.id] {
				disconnected = append(disconnected, m.id)
				origins = append(origins, m.pos)
			}
		}
		if len(disconnected) > 0 {
			violations = append(violations, Violation{
				Rule:      RuleConnectivity,
				Message:   fmt.Sprintf("level %d has unreachable modules", level),
				Positions: origins,
				ModuleIDs: disconnected,
			})
		}
	}
	return failed(violations)
}

// adjacentModules returns the identities horizontally adjacent to m on its
// level, derived from the spatial index.
func (v Validator) adjacentModules(g *Grid, m Module) []string {
	var ids []string
	seen := map[string]struct{}{m.id: {}}
	for _, cell := range m.footprint {
		for _, n := range cell.HorizontalNeighbors() {
			for _, id := range g.index.cells[n.Key()] {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// occupiedCells returns the footprint cells held by other modules, plus the
// distinct identities involved, in footprint order.
func (v Validator) occupiedCells(g *Grid, footprint []Position, excludeID string) ([]Position, []string) {
	var cells []Position
	var ids []string
	seen := make(map[string]struct{})
	for _, cell := range footprint {
		taken := false
		for _, id := range g.index.cells[cell.Key()] {
			if id == excludeID {
				continue
			}
			taken = true
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
		if taken {
			cells = append(cells, cell)
		}
	}
	return cells, ids
}

// unsupportedCells returns footprint cells above level 0 whose cell directly
// beneath is empty once excludeID's cells are discounted.
func (v Validator) unsupportedCells(g *Grid, footprint []Position, excludeID string) []Position {
	var unsupported []Position
	for _, cell := range footprint {
		if cell.Y <= 0 {
			continue
		}
		if !v.occupiedExcluding(g, cell.Below(), excludeID) {
			unsupported = append(unsupported, cell)
		}
	}
	return unsupported
}

// incompleteStacks returns, for footprint cells at level >= 2, the empty
// cells anywhere in the column beneath them.
func (v Validator) incompleteStacks(g *Grid, footprint []Position, excludeID string) []Position {
	var missing []Position
	for _, cell := range footprint {
		if cell.Y < 2 {
			continue
		}
		for level := cell.Y - 1; level >= 0; level-- {
			below := Position{X: cell.X, Y: level, Z: cell.Z}
			if !v.occupiedExcluding(g, below, excludeID) {
				missing = append(missing, below)
			}
		}
	}
	return missing
}

// occupiedExcluding reports whether any module other than excludeID holds p.
func (v Validator) occupiedExcluding(g *Grid, p Position, excludeID string) bool {
	for _, id := range g.index.cells[p.Key()] {
		if id != excludeID {
			return true
		}
	}
	return false
}

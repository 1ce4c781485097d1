package catalog

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/guining-hotel/pkg/chat"
)

// TruthSetSize is the number of clues a truth is synthesized from.
const TruthSetSize = 3

// Ending choices.
const (
	ChoiceTruth1 = "truth1"
	ChoiceTruth2 = "truth2"
)

// ValidationError lists every problem found in a catalog.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid catalog:\n  %s", strings.Join(e.Problems, "\n  "))
}

type validator struct {
	problems []string
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

// Validate checks referential integrity and that the game can be completed.
func (c *Catalog) Validate() error {
	v := &validator{}
	v.validateRooms(c)
	v.validateClues(c)
	v.validateTruths(c)
	v.validateDialogue(c)
	if len(v.problems) > 0 {
		return &ValidationError{Problems: v.problems}
	}
	return nil
}

// RequireScripts reports an error if any named script is missing or empty.
func (c *Catalog) RequireScripts(names ...string) error {
	v := &validator{}
	for _, name := range names {
		if len(c.Scripts[name]) == 0 {
			v.addf("script %q is required but missing", name)
		}
	}
	if len(v.problems) > 0 {
		return &ValidationError{Problems: v.problems}
	}
	return nil
}

func (v *validator) validateRooms(c *Catalog) {
	if len(c.Rooms) == 0 {
		v.addf("no rooms defined")
		return
	}
	seen := map[string]bool{}
	starting := 0
	for _, r := range c.Rooms {
		if r.ID == "" {
			v.addf("room with empty id")
			continue
		}
		if seen[r.ID] {
			v.addf("duplicate room id %q", r.ID)
		}
		seen[r.ID] = true
		if strings.TrimSpace(r.Owner) == "" {
			v.addf("room %s: owner is required", r.ID)
		}
		switch r.Corpse {
		case CorpseNone, CorpseMale, CorpseFemale:
		default:
			v.addf("room %s: invalid corpse hint %q", r.ID, r.Corpse)
		}
		if r.Starting {
			starting++
		}
		v.validateHotspots(c, r)
	}
	if starting == 0 {
		v.addf("no starting room defined")
	}
}

func (v *validator) validateHotspots(c *Catalog, r Room) {
	seen := map[string]bool{}
	for _, h := range r.Hotspots {
		if seen[h.ID] {
			v.addf("room %s: duplicate hotspot %q", r.ID, h.ID)
		}
		seen[h.ID] = true
		switch h.Kind {
		case HotspotToggle:
		case HotspotLocked:
			if h.Password == "" {
				v.addf("room %s: locked hotspot %q has no password", r.ID, h.ID)
			}
		default:
			v.addf("room %s: hotspot %q has invalid kind %q", r.ID, h.ID, h.Kind)
		}
		for _, id := range h.Reveals {
			clue, ok := c.Clue(id)
			if !ok {
				v.addf("room %s: hotspot %q reveals unknown clue %q", r.ID, h.ID, id)
				continue
			}
			if clue.Room != r.ID {
				v.addf("room %s: hotspot %q reveals clue %s from room %s", r.ID, h.ID, id, clue.Room)
			}
		}
	}
}

func (v *validator) validateClues(c *Catalog) {
	seen := map[string]bool{}
	for _, clue := range c.Clues {
		if clue.ID == "" {
			v.addf("clue with empty id")
			continue
		}
		if seen[clue.ID] {
			v.addf("duplicate clue id %q", clue.ID)
		}
		seen[clue.ID] = true
		if strings.TrimSpace(clue.Name) == "" {
			v.addf("clue %s: name is required", clue.ID)
		}
		if clue.Hidden && clue.UnlockFlag != "" {
			v.addf("clue %s: cannot be both hidden and flag-gated", clue.ID)
		}
		if clue.Room == RoomDeath {
			if !strings.HasPrefix(clue.ID, DeathCluePrefix) {
				v.addf("clue %s: dialogue clues must use the %s prefix", clue.ID, DeathCluePrefix)
			}
			continue
		}
		if _, ok := c.Room(clue.Room); !ok {
			v.addf("clue %s: unknown room %q", clue.ID, clue.Room)
		}
	}
}

func (v *validator) validateTruths(c *Catalog) {
	if len(c.Truths) == 0 {
		v.addf("truth map is empty")
		return
	}
	seen := map[string]bool{}
	for _, t := range c.Truths {
		if strings.TrimSpace(t.Name) == "" {
			v.addf("truth map entry with empty name")
			continue
		}
		if seen[t.Name] {
			v.addf("duplicate character %q in truth map", t.Name)
		}
		seen[t.Name] = true

		v.validateTruthSet(c, t.Name, "truth1", t.Truth1)
		v.validateTruthSet(c, t.Name, "truth2", t.Truth2)

		// A truth1 clue that only appears after every truth1 is complete
		// would make the game impossible to finish.
		for _, id := range t.Truth1 {
			if clue, ok := c.Clue(id); ok && !clue.InitiallyVisible() {
				v.addf("%s: truth1 clue %s is not visible in a fresh game", t.Name, id)
			}
		}

		in1 := map[string]bool{}
		for _, id := range t.Truth1 {
			in1[NormalizeClueID(id)] = true
		}
		for _, id := range t.Truth2 {
			if in1[NormalizeClueID(id)] {
				v.addf("%s: clue %s appears in both truth1 and truth2", t.Name, id)
			}
		}

		if t.HiddenClue != "" {
			clue, ok := c.Clue(t.HiddenClue)
			switch {
			case !ok:
				v.addf("%s: hidden clue %s does not exist", t.Name, t.HiddenClue)
			case !clue.Hidden:
				v.addf("%s: hidden clue %s is not marked hidden", t.Name, t.HiddenClue)
			}
		}
	}
	for name := range c.Stories {
		if !seen[name] {
			v.addf("story for unknown character %q", name)
		}
	}
}

func (v *validator) validateTruthSet(c *Catalog, name, label string, ids []string) {
	if len(ids) != TruthSetSize {
		v.addf("%s: %s must have exactly %d clues, has %d", name, label, TruthSetSize, len(ids))
	}
	distinct := map[string]bool{}
	for _, id := range ids {
		canonical := NormalizeClueID(id)
		if distinct[canonical] {
			v.addf("%s: %s lists clue %s twice", name, label, id)
		}
		distinct[canonical] = true
		clue, ok := c.Clue(canonical)
		if !ok {
			v.addf("%s: %s references unknown clue %s", name, label, id)
			continue
		}
		if !clue.Collectable {
			v.addf("%s: %s references uncollectable clue %s", name, label, id)
		}
	}
}

func (v *validator) validateDialogue(c *Catalog) {
	if len(c.Opening) == 0 {
		v.addf("opening dialogue is empty")
	}
	v.validateLines(c, "opening", c.Opening)
	for name, lines := range c.Scripts {
		v.validateLines(c, "script "+name, lines)
	}
	for _, choice := range []string{ChoiceTruth1, ChoiceTruth2} {
		if e, ok := c.Endings[choice]; !ok || e.Text == "" {
			v.addf("ending %q is missing", choice)
		}
	}
}

func (v *validator) validateLines(c *Catalog, label string, lines []Line) {
	for i, line := range lines {
		if line.Sender != chat.SenderDeath && line.Sender != chat.SenderUser {
			v.addf("%s line %d: invalid sender %q", label, i+1, line.Sender)
		}
		if strings.TrimSpace(line.Text) == "" {
			v.addf("%s line %d: text is empty", label, i+1)
		}
		if line.ClueRef == "" {
			continue
		}
		if !IsDialogueClueRef(line.ClueRef) {
			v.addf("%s line %d: clue reference %q is not a dialogue clue", label, i+1, line.ClueRef)
			continue
		}
		if _, ok := c.Clue(line.ClueRef); !ok {
			v.addf("%s line %d: clue reference %q resolves to no clue", label, i+1, line.ClueRef)
		}
	}
}

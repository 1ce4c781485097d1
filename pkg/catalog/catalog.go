package catalog

import (
	"regexp"
	"strings"
)

// RoomDeath is the pseudo-room of clues handed out in the Death dialogue.
const RoomDeath = "death"

// DeathCluePrefix marks clue ids that originate from the Death dialogue.
const DeathCluePrefix = "XS"

// Corpse is the body hint shown when entering a room.
type Corpse string

const (
	CorpseNone   Corpse = "none"
	CorpseMale   Corpse = "male"
	CorpseFemale Corpse = "female"
)

const (
	HotspotToggle = "toggle" // Opens and closes freely (drawers, pillow, painting)
	HotspotLocked = "locked" // Requires a password before it reveals anything
)

// Clue is an immutable piece of evidence.
type Clue struct {
	ID          string `json:"id"`
	Room        string `json:"room"` // Originating room; informational
	Name        string `json:"name"`
	Description string `json:"description"`
	Detail      string `json:"detail,omitempty"`
	Collectable bool   `json:"collectable"`
	Hidden      bool   `json:"hidden,omitempty"`      // Invisible until its id is unlocked
	UnlockFlag  string `json:"unlock_flag,omitempty"` // Invisible until this progress flag is set
}

// InitiallyVisible reports whether the clue can be seen in a fresh game.
func (c Clue) InitiallyVisible() bool {
	return !c.Hidden && c.UnlockFlag == ""
}

// TruthConfig holds the two alternative explanations of one character's death.
type TruthConfig struct {
	Name       string   `json:"name"`
	Truth1     []string `json:"truth1"`
	Truth2     []string `json:"truth2"`
	HiddenClue string   `json:"hidden_clue,omitempty"`
}

// Story is the narrative revealed on a successful synthesis.
type Story struct {
	Truth1 string `json:"truth1_story"`
	Truth2 string `json:"truth2_story"`
}

// Hotspot is an interactive element of a room that reveals clues.
type Hotspot struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Password string   `json:"password,omitempty"`
	Hint     string   `json:"hint,omitempty"`
	Reveals  []string `json:"reveals"`
}

type Room struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Owner    string    `json:"owner"`
	Corpse   Corpse    `json:"corpse"`
	Starting bool      `json:"starting,omitempty"`
	Hotspots []Hotspot `json:"hotspots,omitempty"`
}

// Line is one scripted chat entry.
type Line struct {
	Sender  string `json:"sender"`
	Text    string `json:"text"`
	ClueRef string `json:"clue_ref,omitempty"`
}

type Ending struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Catalog is the static narrative content, loaded once at startup.
type Catalog struct {
	Clues   []Clue
	Truths  []TruthConfig
	Stories map[string]Story
	Rooms   []Room
	Opening []Line
	Scripts map[string][]Line
	Endings map[string]Ending

	clueIndex  map[string]int
	truthIndex map[string]int
	roomIndex  map[string]int
}

// New indexes the given content. It does not validate it; see Validate.
func New(clues []Clue, truths []TruthConfig, stories map[string]Story, rooms []Room,
	opening []Line, scripts map[string][]Line, endings map[string]Ending) *Catalog {
	c := &Catalog{
		Clues:      clues,
		Truths:     truths,
		Stories:    stories,
		Rooms:      rooms,
		Opening:    opening,
		Scripts:    scripts,
		Endings:    endings,
		clueIndex:  make(map[string]int, len(clues)),
		truthIndex: make(map[string]int, len(truths)),
		roomIndex:  make(map[string]int, len(rooms)),
	}
	if c.Stories == nil {
		c.Stories = map[string]Story{}
	}
	if c.Scripts == nil {
		c.Scripts = map[string][]Line{}
	}
	if c.Endings == nil {
		c.Endings = map[string]Ending{}
	}
	for i, clue := range clues {
		c.clueIndex[clue.ID] = i
	}
	for i, t := range truths {
		c.truthIndex[t.Name] = i
	}
	for i, r := range rooms {
		c.roomIndex[r.ID] = i
	}
	return c
}

// Clue looks up a clue, normalizing dialogue references first.
func (c *Catalog) Clue(id string) (Clue, bool) {
	i, ok := c.clueIndex[NormalizeClueID(id)]
	if !ok {
		return Clue{}, false
	}
	return c.Clues[i], true
}

func (c *Catalog) Truth(name string) (TruthConfig, bool) {
	i, ok := c.truthIndex[name]
	if !ok {
		return TruthConfig{}, false
	}
	return c.Truths[i], true
}

func (c *Catalog) Story(name string) (Story, bool) {
	s, ok := c.Stories[name]
	return s, ok
}

func (c *Catalog) Room(id string) (Room, bool) {
	i, ok := c.roomIndex[id]
	if !ok {
		return Room{}, false
	}
	return c.Rooms[i], true
}

// RoomIDs returns every room id in catalog order.
func (c *Catalog) RoomIDs() []string {
	ids := make([]string, len(c.Rooms))
	for i, r := range c.Rooms {
		ids[i] = r.ID
	}
	return ids
}

// StartingRooms returns the rooms unlocked in a fresh game.
func (c *Catalog) StartingRooms() []string {
	var ids []string
	for _, r := range c.Rooms {
		if r.Starting {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// CharacterNames returns every name in the truth map, in catalog order.
func (c *Catalog) CharacterNames() []string {
	names := make([]string, len(c.Truths))
	for i, t := range c.Truths {
		names[i] = t.Name
	}
	return names
}

// HiddenClues returns every truth map hidden clue, skipping characters without one.
func (c *Catalog) HiddenClues() []string {
	var ids []string
	for _, t := range c.Truths {
		if t.HiddenClue != "" {
			ids = append(ids, t.HiddenClue)
		}
	}
	return ids
}

// CluesInRoom returns the clues whose originating room is roomID.
func (c *Catalog) CluesInRoom(roomID string) []Clue {
	var clues []Clue
	for _, clue := range c.Clues {
		if clue.Room == roomID {
			clues = append(clues, clue)
		}
	}
	return clues
}

// Script returns a named dialogue script.
func (c *Catalog) Script(name string) ([]Line, bool) {
	lines, ok := c.Scripts[name]
	return lines, ok
}

func (c *Catalog) Ending(choice string) (Ending, bool) {
	e, ok := c.Endings[choice]
	return e, ok
}

// dialogueClueIDs maps the textual clue references used in the Death
// dialogue to their canonical catalog ids.
var dialogueClueIDs = map[string]string{
	"death-fire":    "XS001",
	"death-revenge": "XS002",
}

// NormalizeClueID maps dialogue clue references to canonical ids.
// Any other id is returned unchanged.
func NormalizeClueID(id string) string {
	if canonical, ok := dialogueClueIDs[id]; ok {
		return canonical
	}
	return id
}

// IsDialogueClueRef reports whether ref is one of the textual dialogue references.
func IsDialogueClueRef(ref string) bool {
	_, ok := dialogueClueIDs[ref]
	return ok
}

var roomCluePattern = regexp.MustCompile(`^(\d{3})\d+$`)

const (
	CategoryDeath = "death clues"
	CategoryOther = "other"
)

// Category classifies a clue id for inventory display.
func Category(id string) string {
	id = NormalizeClueID(id)
	if strings.HasPrefix(id, DeathCluePrefix) {
		return CategoryDeath
	}
	if m := roomCluePattern.FindStringSubmatch(id); m != nil {
		return m[1] + " room"
	}
	return CategoryOther
}

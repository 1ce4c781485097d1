package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
)

const (
	CluesFile    = "clues.json"
	TruthsFile   = "truths.json"
	RoomsFile    = "rooms.json"
	DialogueFile = "dialogue.json"
)

type cluesDoc struct {
	Clues []Clue `json:"clues"`
}

type truthsDoc struct {
	Characters []TruthConfig    `json:"characters"`
	Stories    map[string]Story `json:"stories"`
}

type roomsDoc struct {
	Rooms []Room `json:"rooms"`
}

type dialogueDoc struct {
	Opening []Line            `json:"opening"`
	Scripts map[string][]Line `json:"scripts"`
	Endings map[string]Ending `json:"endings"`
}

// Load reads and validates the catalog files from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	var clues cluesDoc
	if err := decodeFile(fsys, CluesFile, &clues); err != nil {
		return nil, err
	}
	var truths truthsDoc
	if err := decodeFile(fsys, TruthsFile, &truths); err != nil {
		return nil, err
	}
	var rooms roomsDoc
	if err := decodeFile(fsys, RoomsFile, &rooms); err != nil {
		return nil, err
	}
	var dialogue dialogueDoc
	if err := decodeFile(fsys, DialogueFile, &dialogue); err != nil {
		return nil, err
	}

	c := New(clues.Clues, truths.Characters, truths.Stories, rooms.Rooms,
		dialogue.Opening, dialogue.Scripts, dialogue.Endings)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// decodeFile strictly decodes one JSON file; unknown fields are rejected.
func decodeFile(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

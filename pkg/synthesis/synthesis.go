// Package synthesis checks a set of clues against a character's two truths.
package synthesis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/guining-hotel/pkg/catalog"
)

var (
	ErrEmptyName        = errors.New("enter a character name")
	ErrUnknownCharacter = errors.New("unknown character or not enough clues")
	ErrIncompleteSlots  = errors.New("place three clues before synthesizing")
	ErrNoMatch          = errors.New("synthesis failed")
)

// FallbackStory is shown when a character has no story text.
const FallbackStory = "The truth has been restored."

// Truth identifies which of a character's two truths matched.
type Truth int

const (
	Truth1 Truth = 1
	Truth2 Truth = 2
)

func (t Truth) String() string {
	return fmt.Sprintf("truth%d", int(t))
}

func (t Truth) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Truth) UnmarshalText(b []byte) error {
	switch string(b) {
	case "truth1":
		*t = Truth1
	case "truth2":
		*t = Truth2
	default:
		return fmt.Errorf("invalid truth %q", string(b))
	}
	return nil
}

// Reveal is a successfully synthesized truth.
type Reveal struct {
	Character string `json:"character"`
	Truth     Truth  `json:"truth"`
	Title     string `json:"title"`
	Story     string `json:"story"`
}

// Source supplies truth configurations and story text.
type Source interface {
	Truth(name string) (catalog.TruthConfig, bool)
	Story(name string) (catalog.Story, bool)
}

// Evaluate checks the filled slots against the named character's truths.
// Slot order is irrelevant. Truth1 is checked before truth2.
func Evaluate(src Source, name string, slots []string) (Reveal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Reveal{}, ErrEmptyName
	}
	cfg, ok := src.Truth(name)
	if !ok {
		return Reveal{}, fmt.Errorf("%w: %s", ErrUnknownCharacter, name)
	}

	var ids []string
	for _, s := range slots {
		if s != "" {
			ids = append(ids, catalog.NormalizeClueID(s))
		}
	}
	if len(ids) != catalog.TruthSetSize {
		return Reveal{}, ErrIncompleteSlots
	}

	var truth Truth
	switch {
	case SetEqual(ids, cfg.Truth1):
		truth = Truth1
	case SetEqual(ids, cfg.Truth2):
		truth = Truth2
	default:
		return Reveal{}, ErrNoMatch
	}

	return Reveal{
		Character: name,
		Truth:     truth,
		Title:     Title(name, truth),
		Story:     storyText(src, name, truth),
	}, nil
}

// Title is the reveal heading for a character's truth.
func Title(name string, truth Truth) string {
	if truth == Truth2 {
		return fmt.Sprintf("[%s: Truth of Death II]", name)
	}
	return fmt.Sprintf("[%s: Truth of Death]", name)
}

func storyText(src Source, name string, truth Truth) string {
	story, ok := src.Story(name)
	if !ok {
		return FallbackStory
	}
	text := story.Truth1
	if truth == Truth2 {
		text = story.Truth2
	}
	if text == "" {
		return FallbackStory
	}
	return text
}

// SetEqual compares two id lists as sets after normalization.
func SetEqual(a, b []string) bool {
	sa, sb := toSet(a), toSet(b)
	if len(sa) != len(sb) {
		return false
	}
	for id := range sb {
		if !sa[id] {
			return false
		}
	}
	return true
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[catalog.NormalizeClueID(id)] = true
	}
	return set
}

package progression

import (
	"github.com/jwebster45206/guining-hotel/pkg/catalog"
	"github.com/jwebster45206/guining-hotel/pkg/state"
)

// Trigger names double as their guard flags.
const (
	FiveCorpses           = "five_corpses"
	NewspaperInquiryOffer = "newspaper_inquiry_offer"
	Truth1All             = "truth1_all"
	Truth2All             = "truth2_all"
)

// NewspaperInquiry is the offer created once the newspaper and the
// revenge clue are both collected.
const NewspaperInquiry = "newspaper_inquiry"

// JiangXiaoliTruth1Unlocked gates the room 203 beam fragment.
const JiangXiaoliTruth1Unlocked = "jiang_xiaoli_truth1_unlocked"

// Clue pair that makes the newspaper inquiry available.
var newspaperClues = []string{"XS002", "10101"}

// DefaultEngine builds the game's trigger table from the catalog.
func DefaultEngine(cat *catalog.Catalog) (*Engine, error) {
	if err := cat.RequireScripts(FiveCorpses, NewspaperInquiry, Truth1All, Truth2All); err != nil {
		return nil, err
	}
	fiveCorpses, _ := cat.Script(FiveCorpses)
	inquiry, _ := cat.Script(NewspaperInquiry)
	truth1All, _ := cat.Script(Truth1All)
	truth2All, _ := cat.Script(Truth2All)

	rooms := cat.RoomIDs()
	names := cat.CharacterNames()
	hidden := cat.HiddenClues()

	unlockHidden := func(gs *state.GameState) {
		gs.UnlockedHidden.Union(hidden...)
		gs.SetFlag(JiangXiaoliTruth1Unlocked)
	}

	triggers := []Trigger{
		{
			Name: FiveCorpses,
			When: func(gs *state.GameState) bool {
				return gs.VisitedRooms.ContainsAll(rooms)
			},
			Fire: func(gs *state.GameState) {
				gs.AppendScript(fiveCorpses)
			},
			Marker: lastLine(fiveCorpses),
		},
		{
			Name: NewspaperInquiryOffer,
			When: func(gs *state.GameState) bool {
				for _, id := range newspaperClues {
					if !gs.Inventory.Has(id) {
						return false
					}
				}
				return !gs.Chat.ContainsText(inquiry[0].Text)
			},
			Fire: func(gs *state.GameState) {
				gs.Offers.Add(NewspaperInquiry)
				gs.ChatCursor.Unread = true
			},
		},
		{
			Name: Truth1All,
			When: func(gs *state.GameState) bool {
				return gs.Truths.Truth1.ContainsAll(names)
			},
			Fire: func(gs *state.GameState) {
				unlockHidden(gs)
				gs.AppendScript(truth1All)
			},
			Marker: lastLine(truth1All),
			Replay: unlockHidden,
		},
		{
			Name: Truth2All,
			When: func(gs *state.GameState) bool {
				return gs.Truths.Truth2.ContainsAll(names)
			},
			Fire: func(gs *state.GameState) {
				gs.AppendScript(truth2All)
			},
			Marker: lastLine(truth2All),
		},
	}

	return NewEngine(triggers, Offer{Name: NewspaperInquiry, Script: inquiry}), nil
}

// lastLine is the closing line of a non-empty script.
func lastLine(script []catalog.Line) catalog.Line {
	return script[len(script)-1]
}

// Package view maps backend data to render-ready view models.
// Nothing here touches HTTP or templates, so both the web UI and the CLI
// share the same wording and formatting.
package view

import (
	"fmt"

	"github.com/kozaktomas/facedesk/internal/facerec"
)

// Placeholder texts of an empty roster.
const (
	EmptyRosterTitle = "No persons in database"
	EmptyRosterHint  = "Add some people to get started"
	NoMatchTitle     = "No persons match your search"
	NoMatchHint      = "Try a different name"
)

// ImageTile is one reference photo on a person card.
type ImageTile struct {
	ID  int
	Src string
	Alt string
}

// PersonCard is the view model of one roster entry.
type PersonCard struct {
	ID         int
	Name       string
	CreatedAt  string
	ImageCount string
	Images     []ImageTile
}

// RosterView is the full roster. It is rebuilt from scratch on every load.
type RosterView struct {
	Cards      []PersonCard
	Empty      bool
	EmptyTitle string
	EmptyHint  string
	Query      string
	Total      int
}

// ImageSource maps a server relative image path to the URL rendered in the page.
type ImageSource func(path string) string

// NewRoster builds the roster view in server order, optionally filtered by name.
func NewRoster(persons []facerec.Person, query string, src ImageSource) RosterView {
	matched := FilterPersons(persons, query)

	roster := RosterView{
		Cards: make([]PersonCard, 0, len(matched)),
		Query: query,
		Total: len(persons),
	}
	for _, p := range matched {
		roster.Cards = append(roster.Cards, NewPersonCard(p, src))
	}

	if len(roster.Cards) == 0 {
		roster.Empty = true
		roster.EmptyTitle, roster.EmptyHint = EmptyRosterTitle, EmptyRosterHint
		if len(persons) > 0 {
			roster.EmptyTitle, roster.EmptyHint = NoMatchTitle, NoMatchHint
		}
	}
	return roster
}

// NewPersonCard builds the card of a single person.
func NewPersonCard(p facerec.Person, src ImageSource) PersonCard {
	card := PersonCard{
		ID:         p.ID,
		Name:       p.Name,
		CreatedAt:  p.CreatedAt,
		ImageCount: ImageCountLabel(len(p.Images)),
		Images:     make([]ImageTile, 0, len(p.Images)),
	}
	for _, img := range p.Images {
		tile := ImageTile{ID: img.ID, Src: img.Path, Alt: p.Name}
		if src != nil {
			tile.Src = src(img.Path)
		}
		card.Images = append(card.Images, tile)
	}
	return card
}

// ImageCountLabel formats an image count, e.g. "1 image" or "3 images".
func ImageCountLabel(n int) string {
	if n == 1 {
		return "1 image"
	}
	return fmt.Sprintf("%d images", n)
}

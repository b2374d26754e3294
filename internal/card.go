package internal

import (
	"html/template"
)

// CardType represents the type of content a Card holds.
type CardType int

const (
	CardTypeUnknown CardType = iota
	CardTypeText             // Supports title, body, and footer.
	CardTypeList             // Supports title, list, and footer.
	CardTypeChart            // Supports title, chart, and footer.
)

// Card represents a single information card on the dashboard.
type Card struct {
	ID     string        `json:"id,omitempty"`
	Title  template.HTML `json:"title"`
	Footer template.HTML `json:"footer,omitempty"`
	Type   CardType      `json:"type"`
	Group  CardGroup     `json:"group"`

	// For CardTypeText
	Body template.HTML `json:"body,omitempty"`

	// For CardTypeList
	Items []string `json:"items,omitempty"`

	// For CardTypeChart
	Chart Chart `json:"chart"`

	Priority int `json:"priority"`

	loader func(*Card) error
}

// CardGroup is the section of the page a Card is placed in.
type CardGroup int

const (
	CardGroupMain  CardGroup = iota // Full-width charts.
	CardGroupTasks                  // The per-task grid.
	CardGroupSide                   // Calendar, coach and the like.
)

// Load invokes the loader function to populate the Card's dynamic content.
func (c *Card) Load() error {
	if c.loader != nil {
		return c.loader(c)
	}
	return nil
}

// Returns whether a card is valid and should be displayed.
func (c Card) Valid() bool {
	if c.Type == CardTypeText {
		return len(c.Body) > 0
	}
	if c.Type == CardTypeList {
		return len(c.Items) > 0
	}
	if c.Type == CardTypeChart {
		return c.Chart.Valid()
	}
	return false
}

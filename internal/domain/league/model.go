// Package league holds the league metadata carried in the match tree.
package league

import (
	"errors"
	"fmt"
)

var ErrInvalidID = errors.New("league id must be > 0")

// Descriptor is stored beside a league's fixtures in each season branch.
// Only ID is guaranteed; the rest depends on what ingestion recorded.
type Descriptor struct {
	ID      int64  `json:"id"`
	Name    string `json:"name,omitempty"`
	Country string `json:"country,omitempty"`
	Type    string `json:"type,omitempty"`
	Logo    string `json:"logo,omitempty"`
}

// Bare is the descriptor reported for a league the tree has no metadata for.
func Bare(id int64) Descriptor {
	return Descriptor{ID: id}
}

func (d Descriptor) Validate() error {
	if d.ID <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidID, d.ID)
	}
	return nil
}

// Label is "Name (ID)", or "#ID" when the name is unknown.
func (d Descriptor) Label() string {
	if d.Name == "" {
		return fmt.Sprintf("#%d", d.ID)
	}
	return fmt.Sprintf("%s (%d)", d.Name, d.ID)
}

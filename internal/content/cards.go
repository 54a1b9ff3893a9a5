package content

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/google/uuid"
)

var ErrCardNotFound = errors.New("service card not found")

// ServiceCard is one entry of "services.cards". ID is stable across edits.
type ServiceCard struct {
	ID      string   `json:"id,omitempty"`
	Icon    string   `json:"icon"`
	IconAlt string   `json:"iconAlt,omitempty"`
	Title   string   `json:"title"`
	List    []string `json:"list"`
	Link    string   `json:"link"`
}

func (c *ServiceCard) UnmarshalJSON(b []byte) error {
	type raw struct {
		ID      string `json:"id"`
		Icon    string `json:"icon"`
		IconAlt string `json:"iconAlt"`
		Title   string `json:"title"`
		List    any    `json:"list"`
		Link    string `json:"link"`
	}
	var r raw
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	*c = ServiceCard{ID: r.ID, Icon: r.Icon, IconAlt: r.IconAlt, Title: r.Title, Link: r.Link, List: []string{}}
	switch l := r.List.(type) {
	case []any:
		for _, item := range l {
			if s, ok := item.(string); ok {
				c.List = append(c.List, s)
			}
		}
	case string:
		c.List = SplitLines(l)
	}
	return nil
}

// Cards decodes "services.cards". Malformed entries are skipped.
func (d Document) Cards() []ServiceCard {
	switch v := d[KeyServiceCards].(type) {
	case []ServiceCard:
		return append([]ServiceCard{}, v...)
	case []any:
		out := make([]ServiceCard, 0, len(v))
		for _, item := range v {
			b, err := json.Marshal(item)
			if err != nil {
				continue
			}
			var c ServiceCard
			if err := json.Unmarshal(b, &c); err != nil {
				continue
			}
			out = append(out, c)
		}
		return out
	}
	return []ServiceCard{}
}

// SetCards replaces "services.cards".
func (d Document) SetCards(cards []ServiceCard) {
	if cards == nil {
		cards = []ServiceCard{}
	}
	d[KeyServiceCards] = cards
}

// legacyCardNamespace seeds the ids derived for cards stored without one.
var legacyCardNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("services.cards"))

// LegacyCardID derives the id of a stored card that has none from its
// position and title, so separate loads of the same document agree.
func LegacyCardID(index int, title string) string {
	return uuid.NewSHA1(legacyCardNamespace, []byte(strconv.Itoa(index)+"\x00"+title)).String()
}

// EnsureCardIDs gives every card without an id its derived legacy id and
// reports whether any changed.
func (d Document) EnsureCardIDs() bool {
	cards := d.Cards()
	changed := false
	for i := range cards {
		if cards[i].ID == "" {
			cards[i].ID = LegacyCardID(i, cards[i].Title)
			changed = true
		}
	}
	if changed {
		d.SetCards(cards)
	}
	return changed
}

// Card returns the card with id.
func (d Document) Card(id string) (ServiceCard, bool) {
	for _, c := range d.Cards() {
		if c.ID == id {
			return c, true
		}
	}
	return ServiceCard{}, false
}

// AddCard appends a card with a new id and returns it.
func (d Document) AddCard(c ServiceCard) ServiceCard {
	c.ID = uuid.NewString()
	if c.List == nil {
		c.List = []string{}
	}
	d.SetCards(append(d.Cards(), c))
	return c
}

// UpdateCard replaces the card carrying c.ID.
func (d Document) UpdateCard(c ServiceCard) error {
	cards := d.Cards()
	for i := range cards {
		if cards[i].ID == c.ID {
			if c.List == nil {
				c.List = []string{}
			}
			cards[i] = c
			d.SetCards(cards)
			return nil
		}
	}
	return ErrCardNotFound
}

// RemoveCard deletes the card with id.
func (d Document) RemoveCard(id string) error {
	cards := d.Cards()
	for i := range cards {
		if cards[i].ID == id {
			d.SetCards(append(cards[:i], cards[i+1:]...))
			return nil
		}
	}
	return ErrCardNotFound
}

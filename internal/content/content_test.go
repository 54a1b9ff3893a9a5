package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessorsDefaultOnAbsentKeys(t *testing.T) {
	d := Document{}
	assert.Equal(t, "", d.String(KeyHeroTitle))
	assert.Equal(t, []string{}, d.Strings(KeyServicesOutputs))
	assert.Equal(t, []ServiceCard{}, d.Cards())
	assert.Equal(t, "fallback", d.StringOr(KeyHeroTitle, "fallback"))

	var nilDoc Document
	assert.Equal(t, "", nilDoc.String("x"))
	assert.True(t, nilDoc.Clone().IsEmpty())
}

func TestDecodeAndAccessors(t *testing.T) {
	d, err := Decode([]byte(`{
		"homepage.hero.title": "Hello",
		"services.outputs": ["a", 3, "b"],
		"contact.features": "one\n\n  two  ",
		"services.cards": [{"icon":"i.png","title":"T","list":["x","y"],"link":"/l"}, "junk"]
	}`))
	require.NoError(t, err)
	assert.Equal(t, "Hello", d.String(KeyHeroTitle))
	assert.Equal(t, []string{"a", "b"}, d.Strings(KeyServicesOutputs))
	assert.Equal(t, []string{"one", "two"}, d.Strings(KeyContactFeatures))

	cards := d.Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, "T", cards[0].Title)
	assert.Equal(t, []string{"x", "y"}, cards[0].List)

	empty, err := Decode([]byte("null"))
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = Decode([]byte("[1,2]"))
	require.Error(t, err)
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitLines(" a \r\n\r\n b\n"))
	assert.Equal(t, []string{}, SplitLines("   "))
}

func TestCloneIsDeep(t *testing.T) {
	d := Document{}
	d.SetStrings(KeyServicesOutputs, []string{"a"})
	c := d.Clone()
	c.SetStrings(KeyServicesOutputs, []string{"b"})
	assert.Equal(t, []string{"a"}, d.Strings(KeyServicesOutputs))
	assert.True(t, Equal(d, d.Clone()))
}

func TestCardsByID(t *testing.T) {
	d := Document{}
	a := d.AddCard(ServiceCard{Title: "A"})
	b := d.AddCard(ServiceCard{Title: "B"})
	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)

	b.Title = "B2"
	require.NoError(t, d.UpdateCard(b))
	got, ok := d.Card(b.ID)
	require.True(t, ok)
	assert.Equal(t, "B2", got.Title)
	assert.Equal(t, []string{}, got.List)

	require.NoError(t, d.RemoveCard(a.ID))
	cards := d.Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, b.ID, cards[0].ID)

	assert.ErrorIs(t, d.RemoveCard("missing"), ErrCardNotFound)
	assert.ErrorIs(t, d.UpdateCard(ServiceCard{ID: "missing"}), ErrCardNotFound)
}

func TestEnsureCardIDsAssignsLegacyCards(t *testing.T) {
	d, err := Decode([]byte(`{"services.cards":[{"title":"old"},{"id":"keep","title":"new"}]}`))
	require.NoError(t, err)
	require.True(t, d.EnsureCardIDs())
	cards := d.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, LegacyCardID(0, "old"), cards[0].ID)
	assert.Equal(t, "keep", cards[1].ID)
	assert.False(t, d.EnsureCardIDs())

	again, err := Decode([]byte(`{"services.cards":[{"title":"old"},{"id":"keep","title":"new"}]}`))
	require.NoError(t, err)
	again.EnsureCardIDs()
	assert.Equal(t, cards[0].ID, again.Cards()[0].ID)
	assert.NotEqual(t, LegacyCardID(0, "old"), LegacyCardID(1, "old"))

	// ids survive a JSON round trip
	b, err := json.Marshal(d)
	require.NoError(t, err)
	back, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, cards[0].ID, back.Cards()[0].ID)
}

func TestBrochureDefaults(t *testing.T) {
	d := Document{}
	assert.Equal(t, "Company Brochure", d.Brochure(1).Title)
	assert.Equal(t, "Personal Profile", d.Brochure(2).Title)

	d.SetBrochure(2, Brochure{Title: "CV", PDFPath: "https://x/cv.pdf"})
	assert.Equal(t, "CV", d.String("brochure2.title"))
	assert.Equal(t, "https://x/cv.pdf", d.Brochure(2).PDFPath)
	assert.True(t, ValidSlot(1))
	assert.False(t, ValidSlot(3))
}

func TestEditApply(t *testing.T) {
	base := Document{KeyHeroTitle: "old", "untouched": "keep"}
	e := NewEdit().
		SetString(KeyHeroTitle, "new").
		SetHTML(KeyAboutDesc, "<p>About</p>").
		SetLines(KeyServicesOutputs, "a\n\n b \n").
		Attach(KeyServicesHeroImage, "content/services", "hero.png", "image/png", []byte("x"))

	d := e.Apply(base)
	assert.Equal(t, "new", d.String(KeyHeroTitle))
	assert.Equal(t, "keep", d.String("untouched"))
	assert.Equal(t, "<p>About</p>", d.String(KeyAboutDesc))
	assert.Equal(t, []string{"a", "b"}, d.Strings(KeyServicesOutputs))
	assert.Equal(t, "old", base.String(KeyHeroTitle))
	require.Len(t, e.Files(), 1)
	assert.Equal(t, "", d.String(KeyServicesHeroImage))
}

func TestSetFileURL(t *testing.T) {
	d := Document{}
	card := d.AddCard(ServiceCard{Title: "A"})
	require.NoError(t, d.SetFileURL(PendingFile{Field: KeyServicesHeroImage}, "https://x/h.png"))
	require.NoError(t, d.SetFileURL(PendingFile{Field: KeyServiceCards, CardID: card.ID}, "https://x/i.png"))
	assert.Equal(t, "https://x/h.png", d.String(KeyServicesHeroImage))
	got, _ := d.Card(card.ID)
	assert.Equal(t, "https://x/i.png", got.Icon)
	assert.ErrorIs(t, d.SetFileURL(PendingFile{Field: KeyServiceCards, CardID: "gone"}, "u"), ErrCardNotFound)
}

func TestContainsAndEqual(t *testing.T) {
	a := Document{"k": []string{"x"}, "s": "v"}
	b, err := Decode([]byte(`{"k":["x"],"s":"v","extra":"1"}`))
	require.NoError(t, err)
	assert.True(t, Contains(b, a))
	assert.False(t, Equal(a, b))
	assert.False(t, Contains(a, b))
}

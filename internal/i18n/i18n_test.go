package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextFallsBackToEnglish(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, "ठीक है।", c.Text("hi-IN", OK))
	assert.Equal(t, "Start listening first.", c.Text("hi-IN", StartFirst))
	assert.Equal(t, "Okay.", c.Text("fr-FR", OK))
	assert.Equal(t, "", c.Text("en-US", "missing"))
}

func TestTextFillsPlaceholders(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, "Fetched 4 articles.", c.Text("en-US", FetchedCount, "n", 4))
	assert.Equal(t, "Headline 2. Rain in Delhi", c.Text("en", Headline, "n", 2, "title", "Rain in Delhi"))
}

func TestMergeOverridesPerKey(t *testing.T) {
	c := DefaultCatalog().Merge(Catalog{"en": {OK: "Alright."}, "de": {OK: "Gut."}})

	assert.Equal(t, "Alright.", c.Text("en-GB", OK))
	assert.Equal(t, "Gut.", c.Text("de-DE", OK))
	assert.Equal(t, "Resumed listening.", c.Text("en", Resumed))
}

func TestBase(t *testing.T) {
	assert.Equal(t, "en", Base("en-US"))
	assert.Equal(t, "hi", Base("HI"))
	assert.Equal(t, "en", Base(""))
}

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortNaturalOrdersDigitRunsByValue(t *testing.T) {
	names := []string{"IMG_10.jpg", "IMG_2.jpg", "IMG_1.jpg"}
	sortNatural(names)
	assert.Equal(t, []string{"IMG_1.jpg", "IMG_2.jpg", "IMG_10.jpg"}, names)
}

func TestSortNaturalIgnoresCase(t *testing.T) {
	names := []string{"b.JPG", "A.jpg", "c.jpeg"}
	sortNatural(names)
	assert.Equal(t, []string{"A.jpg", "b.JPG", "c.jpeg"}, names)
}

func TestUserLocaleParsesPosixValues(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_COLLATE", "")
	t.Setenv("LANG", "de_DE.UTF-8")
	assert.Equal(t, "de-DE", userLocale().String())

	t.Setenv("LANG", "C")
	assert.Equal(t, "und", userLocale().String())
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedOpeningHours(t *testing.T) {
	b := &Business{OpeningHours: map[string]string{
		"sunday":   "closed",
		"holidays": "10-14",
		"monday":   "8-17",
		"friday":   "8-22",
	}}

	assert.Equal(t, []DayHours{
		{Day: "monday", Hours: "8-17"},
		{Day: "friday", Hours: "8-22"},
		{Day: "sunday", Hours: "closed"},
		{Day: "holidays", Hours: "10-14"},
	}, b.OrderedOpeningHours())

	assert.Nil(t, (&Business{}).OrderedOpeningHours())
}

func TestContactVisibility(t *testing.T) {
	empty := ""
	phone := "555-0100"

	assert.False(t, ContactInfo{}.HasContact())
	assert.False(t, ContactInfo{Email: &empty}.HasContact())
	assert.True(t, ContactInfo{Phone: &phone}.HasContact())
	assert.False(t, ContactInfo{Phone: &phone}.HasSocial())
}

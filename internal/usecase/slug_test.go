package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeSlug(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Blue Widget", "blue-widget"},
		{"  Blue   Widget  ", "blue-widget"},
		{"Widget (v2) — Deluxe!", "widget-v2-deluxe"},
		{"100% Cotton T-Shirt", "100-cotton-t-shirt"},
		{"---", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, MakeSlug(c.name), "input=%q", c.name)
	}
}

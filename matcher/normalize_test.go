package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "John Smith", "john smith"},
		{"surrounding space", "  John   Smith  ", "john smith"},
		{"accents and punctuation", " Jöhn   O'Brien ", "john o brien"},
		{"punctuation runs collapse", "smith,--john!!", "smith john"},
		{"digits kept", "Agent 007", "agent 007"},
		{"fullwidth folds", "Ｊｏｈｎ", "john"},
		{"non latin dropped", "山田 太郎", ""},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"unfoldable extended latin kept", "Søren Kierkegaard", "søren kierkegaard"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"John Smith", " Jöhn   O'Brien ", "smith,--john!!", "Søren"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalizing %q twice diverged", in)
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "johnsmith", Key("John Smith"))
	assert.Equal(t, "johnobrien", Key(" Jöhn   O'Brien "))
	assert.Equal(t, "", Key("   "))
}

func TestNormalizeQuery(t *testing.T) {
	q := NormalizeQuery(" Jöhn   O'Brien ")
	assert.Equal(t, "john o brien", q.Text)
	assert.Equal(t, "johnobrien", q.Key)
}

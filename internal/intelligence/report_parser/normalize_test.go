package report_parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"tabs and runs", "John\t\tSmith    Jr", "John Smith Jr"},
		{"trailing spaces", "line one   \nline two ", "line one\nline two"},
		{"outer blank lines", "\n\nbody\n\n", "body"},
		{"nfc", "Jose\u0301", "Jos\u00e9"},
		{"nbsp", "Main\u00a0Street", "Main Street"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeText(tc.in))
		})
	}
}

func TestNormalizeText_Idempotent(t *testing.T) {
	in := "SUBJECT:\tJohn  Smith\r\nDOB: 01/01/1980  \r\n"
	once := NormalizeText(in)
	assert.Equal(t, once, NormalizeText(once))
}

func TestRunePrefix(t *testing.T) {
	assert.Equal(t, "hé", runePrefix("héllo", 2))
	assert.Equal(t, "abc", runePrefix("abc", 10))
	assert.Equal(t, "", runePrefix("abc", 0))
}

func TestParagraphWindow(t *testing.T) {
	lines := []string{"a", "", "b", "c", "d", "", "e"}
	assert.Equal(t, "b\nc\nd", paragraphWindow(lines, 3, 2))
	assert.Equal(t, "b\nc", paragraphWindow(lines, 2, 1))
	assert.Equal(t, "a", paragraphWindow(lines, 0, 2))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Mother", capitalize("MOTHER"))
	assert.Equal(t, "Brother-in-law", capitalize("brother-in-law"))
	assert.Equal(t, "", capitalize(""))
}

//Personal.AI order the ending

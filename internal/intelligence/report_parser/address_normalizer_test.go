package report_parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "1234 MAIN ST APT 5", NormalizeAddress("1234 Main Street, Apt. #5"))
	assert.Equal(t, "42 ELM BLVD STE 100", NormalizeAddress("42 elm boulevard suite 100"))
	assert.Equal(t, "", NormalizeAddress("  "))
}

func TestFuzzyAddressMatch(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"1234 Main Street", "1234 MAIN ST.", true},
		{"1234 Main St, Dallas, TX 75201", "1234 Main Street", true},
		{"500 N Commerce St", "500 NCommerce Street", true},
		{"1234 Main St", "99 Main St", false},
		{"1234 Main St", "1234 Oak Ave", false},
		{"", "1234 Main St", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FuzzyAddressMatch(tc.a, tc.b), "%q vs %q", tc.a, tc.b)
		assert.Equal(t, tc.want, FuzzyAddressMatch(tc.b, tc.a), "%q vs %q", tc.b, tc.a)
	}
}

//Personal.AI order the ending

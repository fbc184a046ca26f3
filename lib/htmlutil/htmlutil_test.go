package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "  GOODW 190 ", expected: "GOODW 190"},
		{input: " ", expected: ""},
		{input: "\n\tT  R\n", expected: "T R"},
		{input: "F   ", expected: "F"},
		{input: "Softw Des &\n Data Structures", expected: "Softw Des & Data Structures"},
		{input: "a\x00b", expected: "ab"},
	}

	for _, test := range testCases {
		t.Run(test.input, func(t *testing.T) {
			require.Equal(t, test.expected, CleanText(test.input))
		})
	}
}

func TestSelectionText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tr><td><p class="centeraligntext"></p><a href="#"><b>83488</b></a>&nbsp;</td></tr></table>`,
	))
	require.NoError(t, err)

	cell := doc.Find("td")
	require.Equal(t, "83488", SelectionText(cell))
	require.Equal(t, "83488", SelectionText(cell.Find("b")))
	require.Equal(t, "", SelectionText(cell.Find("font")))
}

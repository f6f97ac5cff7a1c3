package ui

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonsonwune/ncaafb_db/reports"
)

func init() {
	color.NoColor = true
}

func TestChooseOptions(t *testing.T) {
	prompt := reports.Prompt{
		Key:     "state",
		Label:   "State",
		Options: []string{"All", "AL", "TX"},
		Default: "All",
	}

	tests := []struct {
		desc  string
		input string
		want  string
	}{
		{desc: "number", input: "3\n", want: "TX"},
		{desc: "name ignores case", input: "al\n", want: "AL"},
		{desc: "empty line takes default", input: "\n", want: "All"},
		{desc: "invalid answers are asked again", input: "9\nZZ\n2\n", want: "AL"},
		{desc: "hash position", input: "#2\n", want: "AL"},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(test.input), &out)

			got, err := p.Choose(prompt)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
			assert.Contains(t, out.String(), "3. TX\n")
		})
	}
}

func TestChooseFreeText(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("  dal \n\n"), &out)

	prompt := reports.Prompt{Key: "min_capacity", Label: "Minimum capacity", Default: "0"}
	got, err := p.Choose(prompt)
	require.NoError(t, err)
	assert.Equal(t, "dal", got)

	got, err = p.Choose(prompt)
	require.NoError(t, err)
	assert.Equal(t, "0", got)
	assert.Contains(t, out.String(), "Minimum capacity [0]: ")
}

func TestChooseEndOfInput(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), io.Discard)

	_, err := p.Choose(reports.Prompt{Key: "state", Options: []string{"All"}, Default: "All"})
	assert.ErrorIs(t, err, io.EOF)
}

func TestChooseLongListAcceptsNames(t *testing.T) {
	options := []string{"All"}
	for i := 0; i < 40; i++ {
		options = append(options, "Team "+string(rune('A'+i)))
	}

	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("team h\n"), &out)
	got, err := p.Choose(reports.Prompt{Key: "team", Label: "Team", Options: options, Default: "All"})
	require.NoError(t, err)
	assert.Equal(t, "Team H", got)
	assert.Contains(t, out.String(), "... 11 more, type a name")
}

func TestChooseNumericOptionsMatchByName(t *testing.T) {
	options := []string{"All"}
	for i := 1; i <= 200; i++ {
		options = append(options, strconv.Itoa(i))
	}
	prompt := reports.Prompt{Key: "team_id", Label: "Team ID", Options: options, Default: "All"}

	tests := []struct {
		desc  string
		input string
		want  string
	}{
		{desc: "hidden option by name", input: "150\n", want: "150"},
		{desc: "listed option by name", input: "2\n", want: "2"},
		{desc: "hash picks by position", input: "#2\n", want: "1"},
		{desc: "number past the options is asked again", input: "201\n#1\n", want: "All"},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			p := NewPrompter(strings.NewReader(test.input), io.Discard)
			got, err := p.Choose(prompt)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

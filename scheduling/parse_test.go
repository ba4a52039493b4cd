package scheduling

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateFormatsAgree(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	for _, input := range []string{
		"2024-03-05",
		"2024-3-5",
		"05 March 2024",
		"5 march 2024",
		"05 Mar 2024",
		"  05 Mar 2024  ",
	} {
		got, err := ParseDate(input)
		require.NoError(t, err, input)
		assert.True(t, want.Equal(got), "input %q parsed to %s", input, got)
	}
}

func TestParseDateRejectsUnknownFormats(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "03/05/2024", "March 5, 2024", "2024-13-01", "31 February 2024"} {
		_, err := ParseDate(input)
		assert.ErrorIs(t, err, ErrInvalidFormat, input)
	}
}

func TestParseTimeFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"14:30:15", "14:30:15"},
		{"14:30", "14:30:00"},
		{"9:05", "09:05:00"},
		{"02:30 PM", "14:30:00"},
		{"2:30 pm", "14:30:00"},
		{"12:00 AM", "00:00:00"},
		{"12:15 PM", "12:15:00"},
	}

	for _, tt := range tests {
		got, err := ParseTime(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, FormatTime(got), tt.input)
	}
}

func TestParseTimeRejectsUnknownFormats(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "noon", "25:00", "13:00 PM", "1430"} {
		_, err := ParseTime(input)
		assert.ErrorIs(t, err, ErrInvalidFormat, input)
	}
}

func TestParseUserID(t *testing.T) {
	t.Parallel()

	valid := []struct {
		input any
		want  int64
	}{
		{"42", 42},
		{" 7 ", 7},
		{"0", 0},
		{float64(12), 12},
		{json.Number("99"), 99},
		{int(3), 3},
		{int64(5), 5},
	}
	for _, tt := range valid {
		got, err := ParseUserID(tt.input)
		require.NoError(t, err, "%#v", tt.input)
		assert.Equal(t, tt.want, got)
	}

	invalid := []any{nil, "", "abc", "1.5", "-1", float64(1.5), float64(-2), json.Number("2.0"), true, []int{1}}
	for _, input := range invalid {
		_, err := ParseUserID(input)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, "%#v", input)
	}
}

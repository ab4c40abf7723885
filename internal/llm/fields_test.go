package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeObject(t *testing.T) {
	fields, err := DecodeObject("```json\n{\"fullName\": \" Jane \", \"score\": \"85%\", \"skills\": [{\"name\": \"Go\"}, 3]}\n```")
	require.NoError(t, err)

	assert.Equal(t, "Jane", fields.String("fullName"))

	score, ok := fields.Number("score")
	assert.True(t, ok)
	assert.Equal(t, 85.0, score)

	skills := fields.Objects("skills")
	require.Len(t, skills, 1)
	assert.Equal(t, "Go", skills[0].String("name"))
}

func TestDecodeObject_Errors(t *testing.T) {
	_, err := DecodeObject("no json here")
	assert.ErrorIs(t, err, ErrNoJSONObject)

	_, err = DecodeObject(`{"a": tru}`)
	assert.Error(t, err)
}

func TestFields_WrongTypes(t *testing.T) {
	fields := Fields{
		"name":   42,
		"score":  []any{"x"},
		"list":   "a, b ,,c",
		"nested": "not an array",
		"mixed":  []any{"a", 1, " ", "b"},
	}

	assert.Equal(t, "", fields.String("name"))
	assert.Equal(t, "", fields.String("missing"))

	_, ok := fields.Number("score")
	assert.False(t, ok)
	_, ok = fields.Number("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{}, fields.Strings("list"))
	assert.Equal(t, []string{"a", "b"}, fields.Strings("mixed"))
	assert.Equal(t, []string{}, fields.Strings("name"))
	assert.Equal(t, []Fields{}, fields.Objects("nested"))
}

func TestFields_FirstString(t *testing.T) {
	fields := Fields{"reason": "", "matchReason": "Strong React background"}
	assert.Equal(t, "Strong React background", fields.FirstString("reason", "matchReason"))
	assert.Equal(t, "", fields.FirstString("a", "b"))
}

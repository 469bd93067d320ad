package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type reportPayload struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location" validate:"required,min=3"`
	Email    string `json:"email" validate:"omitempty,email"`
}

func TestValidateStructPasses(t *testing.T) {
	err := ValidateStruct(reportPayload{Name: "Black umbrella", Location: "Library"})
	require.NoError(t, err)
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	err := ValidateStruct(reportPayload{Location: "a", Email: "not-an-email"})
	require.Error(t, err)

	failures, ok := err.(ValidationErrors)
	require.True(t, ok)
	require.Len(t, failures, 3)

	fields := make(map[string]string, len(failures))
	for _, failure := range failures {
		fields[failure.Field] = failure.Tag
	}
	require.Equal(t, "required", fields["name"])
	require.Equal(t, "min", fields["location"])
	require.Equal(t, "email", fields["email"])
}

func TestCampusIDRule(t *testing.T) {
	type payload struct {
		CampusID string `json:"campus_id" validate:"required,campus_id"`
	}

	require.NoError(t, ValidateStruct(payload{CampusID: "S123456"}))
	require.NoError(t, ValidateStruct(payload{CampusID: "STAFF2024"}))

	for _, invalid := range []string{"abc", "s123456", "A1", "HAS SPACE", "TOO-LONG-FOR-A-CARD-NUMBER"} {
		err := ValidateStruct(payload{CampusID: invalid})
		require.Error(t, err, "campus id %q", invalid)

		failures, ok := err.(ValidationErrors)
		require.True(t, ok)
		require.Equal(t, "campus_id", failures[0].Tag)
	}
}

package training_test

import (
	"testing"

	"github.com/huntdesk-io/huntdesk/internal/training"
	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func machineRecord() huntapi.RawRecord {
	return huntapi.RawRecord{
		"id":              612.0,
		"name":            "Analytics",
		"os":              "Linux",
		"avatar":          "/storage/avatars/analytics.png",
		"difficulty":      32.0,
		"difficultyText":  "Easy",
		"star":            4.4,
		"points":          20.0,
		"free":            true,
		"release":         "2023-10-07T17:00:00.000000Z",
		"user_owns_count": 12480.0,
		"root_owns_count": 11099.0,
		"maker": map[string]any{
			"id":          1000.0,
			"name":        "7u9y",
			"avatar":      "/storage/avatars/7u9y.png",
			"isRespected": true,
		},
		"userBlood": map[string]any{
			"user": map[string]any{
				"id":     2000.0,
				"name":   "jkr",
				"avatar": "/storage/avatars/jkr.png",
			},
			"created_at":       "2023-10-07T19:02:00.000000Z",
			"blood_difference": "2H 2M 10S",
		},
	}
}

func TestMachineFromRecord(t *testing.T) {
	t.Parallel()

	machine, err := training.MachineFromRecord(machineRecord())
	require.NoError(t, err)

	assert.Equal(t, 612, machine.ID)
	assert.Equal(t, "Analytics", machine.Name)
	assert.Equal(t, "Linux", machine.OS)
	assert.Equal(t, "Easy", machine.DifficultyLabel)
	assert.InDelta(t, 4.4, machine.Stars, 0.001)
	assert.Equal(t, 12480, machine.UserOwns)
	assert.Equal(t, 2023, machine.Release.Year())

	require.Len(t, machine.Makers, 1)
	assert.Equal(t, "7u9y", machine.Makers[0].Name)
	assert.True(t, machine.Makers[0].Respected)

	require.NotNil(t, machine.UserBlood)
	assert.Equal(t, "jkr", machine.UserBlood.User.Name)
	assert.Equal(t, "2H 2M 10S", machine.UserBlood.Difference)
	assert.Nil(t, machine.RootBlood)
}

func TestMachineFromRecord_MissingAvatarFails(t *testing.T) {
	t.Parallel()

	rec := machineRecord()
	delete(rec, "avatar")

	_, err := training.MachineFromRecord(rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, huntapi.ErrMalformedResponse)
	assert.Contains(t, err.Error(), `"avatar"`)
}

func TestMachineFromRecord_DifficultyLabelDefaults(t *testing.T) {
	t.Parallel()

	rec := machineRecord()
	delete(rec, "difficultyText")

	machine, err := training.MachineFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, training.DefaultDifficultyLabel, machine.DifficultyLabel)
}

func TestMachineFromRecord_NameValueAlias(t *testing.T) {
	t.Parallel()

	rec := machineRecord()
	delete(rec, "name")
	rec["value"] = "Aliased"

	machine, err := training.MachineFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, "Aliased", machine.Name)
}

func TestMachineFromRecord_BadMakerFails(t *testing.T) {
	t.Parallel()

	rec := machineRecord()
	rec["maker2"] = map[string]any{"id": 3.0}

	_, err := training.MachineFromRecord(rec)
	assert.ErrorIs(t, err, huntapi.ErrMalformedResponse)
}

func TestUserFromRecord(t *testing.T) {
	t.Parallel()

	user, err := training.UserFromRecord(huntapi.RawRecord{
		"id":     42.0,
		"value":  "maker-name",
		"avatar": "/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "maker-name", user.Name)
	assert.False(t, user.Respected)
}

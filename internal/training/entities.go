package training

import (
	"time"

	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
)

// DefaultDifficultyLabel is used when the upstream omits the
// human-readable difficulty.
const DefaultDifficultyLabel = "None"

// User is a catalog user, typically a machine maker or a first-blood
// holder.
type User struct {
	ID        int
	Name      string
	Avatar    string
	Respected bool
}

// FirstBlood records the first user to capture a flag on a machine.
type FirstBlood struct {
	User       User
	CreatedAt  time.Time
	Difference string
}

// Machine is one catalog machine. Machines are immutable once
// constructed; a new fetch replaces prior instances.
type Machine struct {
	ID              int
	Name            string
	OS              string
	Avatar          string
	Difficulty      int
	DifficultyLabel string
	Stars           float64
	Points          int
	Free            bool
	Release         time.Time
	UserOwns        int
	RootOwns        int
	Makers          []User
	UserBlood       *FirstBlood
	RootBlood       *FirstBlood
}

// UserFromRecord builds a User. Identifier, name, and avatar are
// required; the name may arrive under a "value" alias.
func UserFromRecord(rec huntapi.RawRecord) (User, error) {
	id, err := huntapi.RequireInt(rec, "id")
	if err != nil {
		return User{}, err
	}

	name, err := huntapi.RequireString(rec, "name", "value")
	if err != nil {
		return User{}, err
	}

	avatar, err := huntapi.RequireString(rec, "avatar")
	if err != nil {
		return User{}, err
	}

	return User{
		ID:        id,
		Name:      name,
		Avatar:    avatar,
		Respected: huntapi.Bool(rec, false, "isRespected", "is_respected"),
	}, nil
}

// FirstBloodFromRecord builds a FirstBlood. The referenced user is
// required.
func FirstBloodFromRecord(rec huntapi.RawRecord) (*FirstBlood, error) {
	userRec, ok := huntapi.Object(rec, "user")
	if !ok {
		return nil, huntapi.MissingKey("user")
	}

	user, err := UserFromRecord(userRec)
	if err != nil {
		return nil, err
	}

	created, _ := huntapi.Time(rec, "created_at")

	return &FirstBlood{
		User:       user,
		CreatedAt:  created,
		Difference: huntapi.String(rec, "", "blood_difference"),
	}, nil
}

// MachineFromRecord builds a Machine from one raw catalog record.
// Identifier, name, and avatar are required and fail construction when
// absent; everything else resolves to a documented default.
func MachineFromRecord(rec huntapi.RawRecord) (Machine, error) {
	id, err := huntapi.RequireInt(rec, "id")
	if err != nil {
		return Machine{}, err
	}

	name, err := huntapi.RequireString(rec, "name", "value")
	if err != nil {
		return Machine{}, err
	}

	avatar, err := huntapi.RequireString(rec, "avatar")
	if err != nil {
		return Machine{}, err
	}

	machine := Machine{
		ID:              id,
		Name:            name,
		OS:              huntapi.String(rec, "", "os"),
		Avatar:          avatar,
		Difficulty:      huntapi.Int(rec, 0, "difficulty"),
		DifficultyLabel: huntapi.String(rec, DefaultDifficultyLabel, "difficultyText", "difficulty_text"),
		Stars:           huntapi.Float(rec, 0, "star", "stars"),
		Points:          huntapi.Int(rec, 0, "points"),
		Free:            huntapi.Bool(rec, false, "free"),
		UserOwns:        huntapi.Int(rec, 0, "user_owns_count"),
		RootOwns:        huntapi.Int(rec, 0, "root_owns_count"),
	}

	machine.Release, _ = huntapi.Time(rec, "release")

	// A machine carries up to two makers under fixed keys.
	for _, key := range []string{"maker", "maker2"} {
		makerRec, ok := huntapi.Object(rec, key)
		if !ok {
			continue
		}

		maker, err := UserFromRecord(makerRec)
		if err != nil {
			return Machine{}, err
		}

		machine.Makers = append(machine.Makers, maker)
	}

	for key, target := range map[string]**FirstBlood{
		"userBlood": &machine.UserBlood,
		"rootBlood": &machine.RootBlood,
	} {
		bloodRec, ok := huntapi.Object(rec, key)
		if !ok {
			continue
		}

		blood, err := FirstBloodFromRecord(bloodRec)
		if err != nil {
			return Machine{}, err
		}

		*target = blood
	}

	return machine, nil
}

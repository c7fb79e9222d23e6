package domain

import "slices"

// Trainer is an account that manages a roster of students at one gym.
type Trainer struct {
	User        `bson:",inline"`
	GymName     string   `bson:"gymName" json:"gymName"`
	Specialties []string `bson:"specialties" json:"specialties"`
	// Student IDs. Denormalized, must agree with Student.TrainerID.
	StudentIDs []string `bson:"studentIds" json:"students"`
}

func (t Trainer) Profile() User { return t.User }
func (t Trainer) Role() Role    { return RoleTrainer }
func (Trainer) isAccount()      {}

// Manages reports whether studentID is on the trainer's roster.
func (t Trainer) Manages(studentID string) bool {
	return slices.Contains(t.StudentIDs, studentID)
}

// Clone returns a copy of t that shares no slices with it.
func (t Trainer) Clone() Trainer {
	t.Specialties = slices.Clone(t.Specialties)
	t.StudentIDs = slices.Clone(t.StudentIDs)
	return t
}

// WithProfile returns a copy of t with the profile fields replaced.
func (t Trainer) WithProfile(p Profile) Trainer {
	t = t.Clone()
	t.User = t.User.withProfile(p)
	return t
}

package domain

// Profile is the role-specific part of a user record. Exactly one variant
// is present, matching the user's role; recruiters carry none.
type Profile interface {
	isProfile()
}

type StudentProfile struct {
	College        string
	GraduationYear int
	GithubUsername string
}

func (StudentProfile) isProfile() {}

type FounderProfile struct {
	CompanyName    string
	CompanyWebsite string
	Industry       string
}

func (FounderProfile) isProfile() {}

// User is a platform member: a student showing hackathon projects or a
// founder/recruiter browsing them.
type User struct {
	ID          UserID
	Email       string
	DisplayName string
	PhotoURL    string
	Role        UserRole
	Profile     Profile
	CreatedAt   Timestamp
	UpdatedAt   Timestamp
}

// StudentProfile returns the student variant, if this user carries one.
func (u *User) StudentProfile() (StudentProfile, bool) {
	p, ok := u.Profile.(StudentProfile)
	return p, ok
}

// FounderProfile returns the founder variant, if this user carries one.
func (u *User) FounderProfile() (FounderProfile, bool) {
	p, ok := u.Profile.(FounderProfile)
	return p, ok
}

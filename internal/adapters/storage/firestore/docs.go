package firestore

import (
	"time"

	"github.com/afterhack/afterhack-api/internal/domain"
)

// Firestore document shapes. Field names match the collections the web
// client reads, so both front ends stay compatible.

type studentProfileDoc struct {
	College        string `firestore:"college"`
	GraduationYear int    `firestore:"graduation_year"`
	GithubUsername string `firestore:"github_username"`
}

type founderProfileDoc struct {
	CompanyName    string `firestore:"company_name"`
	CompanyWebsite string `firestore:"company_website"`
	Industry       string `firestore:"industry"`
}

type userDoc struct {
	Email          string             `firestore:"email"`
	DisplayName    string             `firestore:"display_name"`
	PhotoURL       string             `firestore:"photo_url"`
	Role           string             `firestore:"role"`
	StudentProfile *studentProfileDoc `firestore:"student_profile"`
	FounderProfile *founderProfileDoc `firestore:"founder_profile"`
	CreatedAt      time.Time          `firestore:"created_at"`
	UpdatedAt      time.Time          `firestore:"updated_at"`
}

func userDocFrom(u *domain.User) userDoc {
	doc := userDoc{
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}

	switch p := u.Profile.(type) {
	case domain.StudentProfile:
		doc.StudentProfile = &studentProfileDoc{
			College:        p.College,
			GraduationYear: p.GraduationYear,
			GithubUsername: p.GithubUsername,
		}
	case domain.FounderProfile:
		doc.FounderProfile = &founderProfileDoc{
			CompanyName:    p.CompanyName,
			CompanyWebsite: p.CompanyWebsite,
			Industry:       p.Industry,
		}
	}

	return doc
}

// toDomain picks the profile variant by role. A stored profile that does
// not match the role is ignored rather than surfaced.
func (d userDoc) toDomain(id domain.UserID) *domain.User {
	u := &domain.User{
		ID:          id,
		Email:       d.Email,
		DisplayName: d.DisplayName,
		PhotoURL:    d.PhotoURL,
		Role:        domain.UserRole(d.Role),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}

	switch u.Role {
	case domain.RoleStudent:
		if d.StudentProfile != nil {
			u.Profile = domain.StudentProfile{
				College:        d.StudentProfile.College,
				GraduationYear: d.StudentProfile.GraduationYear,
				GithubUsername: d.StudentProfile.GithubUsername,
			}
		}
	case domain.RoleFounder:
		if d.FounderProfile != nil {
			u.Profile = domain.FounderProfile{
				CompanyName:    d.FounderProfile.CompanyName,
				CompanyWebsite: d.FounderProfile.CompanyWebsite,
				Industry:       d.FounderProfile.Industry,
			}
		}
	}

	return u
}

type signalScoreDoc struct {
	Overall        float64   `firestore:"overall"`
	GithubActivity float64   `firestore:"github_activity"`
	CodeQuality    float64   `firestore:"code_quality"`
	UserExperience float64   `firestore:"user_experience"`
	Innovation     float64   `firestore:"innovation"`
	Completeness   float64   `firestore:"completeness"`
	LastEvaluated  time.Time `firestore:"last_evaluated"`
}

type projectDoc struct {
	UserID      string          `firestore:"user_id"`
	TeamName    string          `firestore:"team_name"`
	Title       string          `firestore:"title"`
	Description string          `firestore:"description"`
	Hackathon   string          `firestore:"hackathon"`
	GithubURL   string          `firestore:"github_url"`
	VideoURL    string          `firestore:"video_url"`
	DemoURL     string          `firestore:"demo_url"`
	TechStack   []string        `firestore:"tech_stack"`
	Domain      string          `firestore:"domain"`
	TRL         int             `firestore:"trl"`
	TeamMembers []string        `firestore:"team_members"`
	Status      string          `firestore:"status"`
	Visibility  string          `firestore:"visibility"`
	Screenshots []string        `firestore:"screenshots"`
	SignalScore *signalScoreDoc `firestore:"signal_score"`
	Views       int             `firestore:"views"`
	Stars       int             `firestore:"stars"`
	CreatedAt   time.Time       `firestore:"created_at"`
	UpdatedAt   time.Time       `firestore:"updated_at"`
}

func projectDocFrom(p *domain.Project) projectDoc {
	doc := projectDoc{
		UserID:      string(p.OwnerID),
		TeamName:    p.TeamName,
		Title:       p.Title,
		Description: p.Description,
		Hackathon:   p.Hackathon,
		GithubURL:   p.GithubURL,
		VideoURL:    p.VideoURL,
		DemoURL:     p.DemoURL,
		TechStack:   p.TechStack,
		Domain:      p.Domain,
		TRL:         p.TRL,
		Status:      string(p.Status),
		Visibility:  string(p.Visibility),
		Screenshots: p.Screenshots,
		Views:       p.Views,
		Stars:       p.Stars,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	for _, m := range p.TeamMembers {
		doc.TeamMembers = append(doc.TeamMembers, string(m))
	}

	if p.SignalScore != nil {
		doc.SignalScore = &signalScoreDoc{
			Overall:        p.SignalScore.Overall,
			GithubActivity: p.SignalScore.GithubActivity,
			CodeQuality:    p.SignalScore.CodeQuality,
			UserExperience: p.SignalScore.UserExperience,
			Innovation:     p.SignalScore.Innovation,
			Completeness:   p.SignalScore.Completeness,
			LastEvaluated:  p.SignalScore.LastEvaluated,
		}
	}

	return doc
}

func (d projectDoc) toDomain(id domain.ProjectID) *domain.Project {
	p := &domain.Project{
		ID:          id,
		OwnerID:     domain.UserID(d.UserID),
		TeamName:    d.TeamName,
		Title:       d.Title,
		Description: d.Description,
		Hackathon:   d.Hackathon,
		GithubURL:   d.GithubURL,
		VideoURL:    d.VideoURL,
		DemoURL:     d.DemoURL,
		TechStack:   d.TechStack,
		Domain:      d.Domain,
		TRL:         d.TRL,
		Status:      domain.ProjectStatus(d.Status),
		Visibility:  domain.ProjectVisibility(d.Visibility),
		Screenshots: d.Screenshots,
		Views:       d.Views,
		Stars:       d.Stars,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}

	for _, m := range d.TeamMembers {
		p.TeamMembers = append(p.TeamMembers, domain.UserID(m))
	}

	if d.SignalScore != nil {
		p.SignalScore = &domain.SignalScore{
			Overall:        d.SignalScore.Overall,
			GithubActivity: d.SignalScore.GithubActivity,
			CodeQuality:    d.SignalScore.CodeQuality,
			UserExperience: d.SignalScore.UserExperience,
			Innovation:     d.SignalScore.Innovation,
			Completeness:   d.SignalScore.Completeness,
			LastEvaluated:  d.SignalScore.LastEvaluated,
		}
	}

	return p
}

type requestDoc struct {
	FromUserID string    `firestore:"from_user_id"`
	ToUserID   string    `firestore:"to_user_id"`
	ProjectID  string    `firestore:"project_id"`
	Type       string    `firestore:"type"`
	Status     string    `firestore:"status"`
	Message    string    `firestore:"message"`
	CreatedAt  time.Time `firestore:"created_at"`
	UpdatedAt  time.Time `firestore:"updated_at"`
}

func requestDocFrom(r *domain.CollabRequest) requestDoc {
	return requestDoc{
		FromUserID: string(r.FromUserID),
		ToUserID:   string(r.ToUserID),
		ProjectID:  string(r.ProjectID),
		Type:       string(r.Type),
		Status:     string(r.Status),
		Message:    r.Message,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (d requestDoc) toDomain(id domain.RequestID) *domain.CollabRequest {
	return &domain.CollabRequest{
		ID:         id,
		FromUserID: domain.UserID(d.FromUserID),
		ToUserID:   domain.UserID(d.ToUserID),
		ProjectID:  domain.ProjectID(d.ProjectID),
		Type:       domain.RequestType(d.Type),
		Status:     domain.RequestStatus(d.Status),
		Message:    d.Message,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

package domain

type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectPublished ProjectStatus = "published"
	ProjectArchived  ProjectStatus = "archived"
)

type ProjectVisibility string

const (
	VisibilityPublic  ProjectVisibility = "public"
	VisibilityPrivate ProjectVisibility = "private"
)

// Project is a hackathon project shown on the platform.
type Project struct {
	ID          ProjectID
	OwnerID     UserID
	TeamName    string
	Title       string
	Description string
	Hackathon   string
	GithubURL   string
	VideoURL    string
	DemoURL     string
	TechStack   []string
	Domain      string
	TRL         int
	TeamMembers []UserID
	Status      ProjectStatus
	Visibility  ProjectVisibility
	Screenshots []string
	SignalScore *SignalScore
	Views       int
	Stars       int
	CreatedAt   Timestamp
	UpdatedAt   Timestamp
}

// SignalScore is an externally computed quality metric. The platform treats
// it as opaque numbers; computation happens elsewhere.
type SignalScore struct {
	Overall        float64
	GithubActivity float64
	CodeQuality    float64
	UserExperience float64
	Innovation     float64
	Completeness   float64
	LastEvaluated  Timestamp
}

// ProjectSummary is the subset of a project the AI search prompt embeds.
type ProjectSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

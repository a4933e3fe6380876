package projects

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/afterhack/afterhack-api/internal/domain"
	"github.com/afterhack/afterhack-api/internal/observability"
)

// Service owns the project showcase: creating, fetching and listing
// hackathon projects.
type Service struct {
	store domain.ProjectStore
	now   func() time.Time
	newID func() string
}

func NewService(store domain.ProjectStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

type CreateInput struct {
	Title       string
	TeamName    string
	Hackathon   string
	Description string
	GithubURL   string
	TechStack   []string
	Domain      string
	TRL         int
	VideoURL    string
	DemoURL     string
	Visibility  domain.ProjectVisibility
	Screenshots []string
}

// Create publishes a new project owned by the given user. The owner is
// added to the team and counters start at zero.
func (s *Service) Create(ctx context.Context, ownerID domain.UserID, in CreateInput) (*domain.Project, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if strings.TrimSpace(in.GithubURL) == "" {
		return nil, fmt.Errorf("github url is required")
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPublic
	}

	now := s.now()
	p := &domain.Project{
		ID:          domain.ProjectID(s.newID()),
		OwnerID:     ownerID,
		TeamName:    in.TeamName,
		Title:       in.Title,
		Description: in.Description,
		Hackathon:   in.Hackathon,
		GithubURL:   in.GithubURL,
		VideoURL:    in.VideoURL,
		DemoURL:     in.DemoURL,
		TechStack:   in.TechStack,
		Domain:      in.Domain,
		TRL:         in.TRL,
		TeamMembers: []domain.UserID{ownerID},
		Status:      domain.ProjectPublished,
		Visibility:  visibility,
		Screenshots: in.Screenshots,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateProject(ctx, p); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to create project",
			"owner_id", ownerID, "error", err)
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info("project created",
		"project_id", p.ID, "owner_id", ownerID)
	return p, nil
}

func (s *Service) Get(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	return s.store.GetProject(ctx, id)
}

func (s *Service) List(ctx context.Context, f domain.ProjectFilter) ([]*domain.Project, error) {
	return s.store.ListProjects(ctx, f)
}

// Update persists changes to an existing project and bumps UpdatedAt.
func (s *Service) Update(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		return fmt.Errorf("project id is required")
	}
	p.UpdatedAt = s.now()
	return s.store.UpdateProject(ctx, p)
}

// Summaries projects a listing down to the fields the AI search prompt
// embeds.
func Summaries(projects []*domain.Project) []domain.ProjectSummary {
	out := make([]domain.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		out = append(out, domain.ProjectSummary{
			ID:          string(p.ID),
			Title:       p.Title,
			Description: p.Description,
		})
	}
	return out
}

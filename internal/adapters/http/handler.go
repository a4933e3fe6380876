package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/afterhack/afterhack-api/internal/adapters/llm"
	"github.com/afterhack/afterhack-api/internal/app/aisearch"
	"github.com/afterhack/afterhack-api/internal/app/chat"
	"github.com/afterhack/afterhack-api/internal/app/collab"
	"github.com/afterhack/afterhack-api/internal/app/profile"
	"github.com/afterhack/afterhack-api/internal/app/projects"
	"github.com/afterhack/afterhack-api/internal/domain"
)

type Server struct {
	search      *aisearch.Service
	chat        *chat.Service
	transcripts domain.TranscriptStore
	collab      *collab.Service
	projects    *projects.Service
	profiles    *profile.Service
}

func NewServer(
	search *aisearch.Service,
	chatSvc *chat.Service,
	transcripts domain.TranscriptStore,
	collabSvc *collab.Service,
	projectSvc *projects.Service,
	profileSvc *profile.Service,
) http.Handler {
	s := &Server{
		search:      search,
		chat:        chatSvc,
		transcripts: transcripts,
		collab:      collabSvc,
		projects:    projectSvc,
		profiles:    profileSvc,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	mux.HandleFunc("/api/ai/search", s.handleAISearch)
	mux.HandleFunc("/api/ai/chat", s.handleAIChat)

	// /api/ai/chat/sessions/{id}          → GET: transcript
	// /api/ai/chat/sessions/{id}/messages → POST: send a turn
	mux.HandleFunc("/api/ai/chat/sessions/", s.handleChatSessionWithID)

	// /api/requests           → POST: send, GET: list (hydrated)
	// /api/requests/{id}/status → POST: accept/reject
	mux.HandleFunc("/api/requests", s.handleRequests)
	mux.HandleFunc("/api/requests/", s.handleRequestWithID)

	// /api/projects       → POST: create, GET: list
	// /api/projects/{id}  → GET
	mux.HandleFunc("/api/projects", s.handleProjects)
	mux.HandleFunc("/api/projects/", s.handleProjectWithID)

	// /api/users/{id} → GET, PUT
	mux.HandleFunc("/api/users/", s.handleUserWithID)

	return chainMiddlewares(mux, withCORS, withRequestID, withLogging)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─────────────────────────────────────────────
// AI endpoints
// ─────────────────────────────────────────────

type aiSearchRequest struct {
	Query    string                   `json:"query"`
	Projects *[]domain.ProjectSummary `json:"projects"`
}

type aiSearchResponse struct {
	MatchingIDs []string `json:"matchingIds"`
}

func (s *Server) handleAISearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req aiSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Query == "" || req.Projects == nil {
		badRequest(w, "Missing query or projects array")
		return
	}

	ids, err := s.search.Search(r.Context(), req.Query, *req.Projects)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "AI search failed"})
		return
	}

	writeJSON(w, http.StatusOK, aiSearchResponse{MatchingIDs: ids})
}

type aiChatRequest struct {
	Messages *[]domain.ChatTurn `json:"messages"`
}

type aiChatResponse struct {
	Text string `json:"text"`
}

func (s *Server) handleAIChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req aiChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Messages == nil {
		badRequest(w, "Messages array is required")
		return
	}

	text, err := s.chat.Reply(r.Context(), *req.Messages)
	if err != nil {
		status, msg := chatFailure(err)
		writeJSON(w, status, map[string]string{"error": msg})
		return
	}

	writeJSON(w, http.StatusOK, aiChatResponse{Text: text})
}

// chatFailure maps a gateway error onto the response status and the
// user-facing message. The status is the upstream one when known; raw
// upstream bodies are never exposed.
func chatFailure(err error) (int, string) {
	status := http.StatusInternalServerError
	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) {
		status = upstream.StatusCode
	}
	if status == http.StatusTooManyRequests {
		return status, "Too many requests. Please wait a moment."
	}
	return status, "Failed to generate chat response"
}

type sendTurnRequest struct {
	Text string `json:"text"`
}

// handleChatSessionWithID serves server-side widget sessions: the transcript
// lives behind the configured store instead of browser storage, so a
// conversation can follow the user across devices.
func (s *Server) handleChatSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/ai/chat/sessions/")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}

	sess := chat.NewSession(parts[0], s.chat, s.transcripts)

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"messages": sess.History(r.Context())})
		return
	}

	if len(parts) == 2 && parts[1] == "messages" {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}

		var req sendTurnRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			badRequest(w, "text is required")
			return
		}

		// A gateway failure comes back as an inline assistant-style turn;
		// the conversation thread is never broken.
		turn, _ := sess.Send(r.Context(), req.Text)
		writeJSON(w, http.StatusOK, turn)
		return
	}

	http.NotFound(w, r)
}

// ─────────────────────────────────────────────
// Collaboration requests
// ─────────────────────────────────────────────

type sendRequestRequest struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id,omitempty"`
	ProjectID  string `json:"project_id,omitempty"`
	Type       string `json:"type"`
	Message    string `json:"message"`
}

type requestResponse struct {
	ID         string           `json:"id"`
	FromUserID string           `json:"from_user_id"`
	ToUserID   string           `json:"to_user_id,omitempty"`
	ProjectID  string           `json:"project_id,omitempty"`
	Type       string           `json:"type"`
	Status     string           `json:"status"`
	Message    string           `json:"message"`
	CreatedAt  domain.Timestamp `json:"created_at"`
	UpdatedAt  domain.Timestamp `json:"updated_at"`
}

type hydratedRequestResponse struct {
	requestResponse
	FromUserDetails *userResponse    `json:"from_user_details,omitempty"`
	ToUserDetails   *userResponse    `json:"to_user_details,omitempty"`
	ProjectDetails  *projectResponse `json:"project_details,omitempty"`
}

func (s *Server) handleRequests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleSendRequest(w, r)
	case http.MethodGet:
		s.handleListRequests(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleSendRequest(w http.ResponseWriter, r *http.Request) {
	var req sendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.FromUserID == "" {
		badRequest(w, "from_user_id is required")
		return
	}

	out, err := s.collab.Send(r.Context(), domain.UserID(req.FromUserID), collab.SendInput{
		ToUserID:  domain.UserID(req.ToUserID),
		ProjectID: domain.ProjectID(req.ProjectID),
		Type:      domain.RequestType(req.Type),
		Message:   req.Message,
	})
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toRequestResponse(out))
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		badRequest(w, "user is required")
		return
	}

	dir := domain.RequestDirection(r.URL.Query().Get("direction"))
	if dir != domain.DirectionSent && dir != domain.DirectionReceived {
		badRequest(w, "direction must be sent or received")
		return
	}

	hydrated, err := s.collab.List(r.Context(), domain.UserID(userID), dir)
	if err != nil {
		internalError(w, err)
		return
	}

	out := make([]hydratedRequestResponse, 0, len(hydrated))
	for _, h := range hydrated {
		out = append(out, toHydratedResponse(h))
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": out})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleRequestWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/requests/")
	parts := strings.Split(path, "/")

	if len(parts) != 2 || parts[0] == "" || parts[1] != "status" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	err := s.collab.Resolve(r.Context(), domain.RequestID(parts[0]), domain.RequestStatus(req.Status))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
	case errors.Is(err, domain.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, collab.ErrInvalidStatus):
		badRequest(w, "status must be accepted or rejected")
	case errors.Is(err, collab.ErrTerminalStatus):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "request already resolved"})
	default:
		internalError(w, err)
	}
}

// ─────────────────────────────────────────────
// Projects
// ─────────────────────────────────────────────

type createProjectRequest struct {
	UserID      string   `json:"user_id"`
	Title       string   `json:"title"`
	TeamName    string   `json:"team_name"`
	Hackathon   string   `json:"hackathon,omitempty"`
	Description string   `json:"description"`
	GithubURL   string   `json:"github_url"`
	TechStack   []string `json:"tech_stack,omitempty"`
	Domain      string   `json:"domain"`
	TRL         int      `json:"trl,omitempty"`
	VideoURL    string   `json:"video_url,omitempty"`
	DemoURL     string   `json:"demo_url,omitempty"`
	Visibility  string   `json:"visibility,omitempty"`
	Screenshots []string `json:"screenshots,omitempty"`
}

type projectResponse struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	TeamName    string           `json:"team_name"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Hackathon   string           `json:"hackathon,omitempty"`
	GithubURL   string           `json:"github_url"`
	VideoURL    string           `json:"video_url,omitempty"`
	DemoURL     string           `json:"demo_url,omitempty"`
	TechStack   []string         `json:"tech_stack"`
	Domain      string           `json:"domain"`
	TRL         int              `json:"trl"`
	Status      string           `json:"status"`
	Visibility  string           `json:"visibility"`
	Screenshots []string         `json:"screenshots"`
	Views       int              `json:"views"`
	Stars       int              `json:"stars"`
	CreatedAt   domain.Timestamp `json:"created_at"`
	UpdatedAt   domain.Timestamp `json:"updated_at"`
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateProject(w, r)
	case http.MethodGet:
		s.handleListProjects(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}

	p, err := s.projects.Create(r.Context(), domain.UserID(req.UserID), projects.CreateInput{
		Title:       req.Title,
		TeamName:    req.TeamName,
		Hackathon:   req.Hackathon,
		Description: req.Description,
		GithubURL:   req.GithubURL,
		TechStack:   req.TechStack,
		Domain:      req.Domain,
		TRL:         req.TRL,
		VideoURL:    req.VideoURL,
		DemoURL:     req.DemoURL,
		Visibility:  domain.ProjectVisibility(req.Visibility),
		Screenshots: req.Screenshots,
	})
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toProjectResponse(p))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ProjectFilter{
		OwnerID: domain.UserID(q.Get("owner")),
		Domain:  q.Get("domain"),
		Status:  domain.ProjectStatus(q.Get("status")),
	}

	list, err := s.projects.List(r.Context(), filter)
	if err != nil {
		internalError(w, err)
		return
	}

	out := make([]projectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProjectResponse(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": out})
}

func (s *Server) handleProjectWithID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/projects/"), "/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	p, err := s.projects.Get(r.Context(), domain.ProjectID(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(p))
}

// ─────────────────────────────────────────────
// Users
// ─────────────────────────────────────────────

type studentProfileDTO struct {
	College        string `json:"college"`
	GraduationYear int    `json:"graduation_year"`
	GithubUsername string `json:"github_username"`
}

type founderProfileDTO struct {
	CompanyName    string `json:"company_name"`
	CompanyWebsite string `json:"company_website"`
	Industry       string `json:"industry"`
}

type userResponse struct {
	ID             string             `json:"id"`
	Email          string             `json:"email"`
	DisplayName    string             `json:"display_name"`
	PhotoURL       string             `json:"photo_url,omitempty"`
	Role           string             `json:"role"`
	StudentProfile *studentProfileDTO `json:"student_profile,omitempty"`
	FounderProfile *founderProfileDTO `json:"founder_profile,omitempty"`
	CreatedAt      domain.Timestamp   `json:"created_at"`
	UpdatedAt      domain.Timestamp   `json:"updated_at"`
}

type updateUserRequest struct {
	Email          string             `json:"email"`
	DisplayName    string             `json:"display_name"`
	PhotoURL       string             `json:"photo_url,omitempty"`
	Role           string             `json:"role"`
	StudentProfile *studentProfileDTO `json:"student_profile,omitempty"`
	FounderProfile *founderProfileDTO `json:"founder_profile,omitempty"`
}

func (s *Server) handleUserWithID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/users/"), "/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetUser(w, r, domain.UserID(id))
	case http.MethodPut:
		s.handleUpdateUser(w, r, domain.UserID(id))
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request, id domain.UserID) {
	u, err := s.profiles.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request, id domain.UserID) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	user := &domain.User{
		ID:          id,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		Role:        domain.UserRole(req.Role),
	}
	switch {
	case req.StudentProfile != nil:
		user.Profile = domain.StudentProfile{
			College:        req.StudentProfile.College,
			GraduationYear: req.StudentProfile.GraduationYear,
			GithubUsername: req.StudentProfile.GithubUsername,
		}
	case req.FounderProfile != nil:
		user.Profile = domain.FounderProfile{
			CompanyName:    req.FounderProfile.CompanyName,
			CompanyWebsite: req.FounderProfile.CompanyWebsite,
			Industry:       req.FounderProfile.Industry,
		}
	}

	if err := s.profiles.Update(r.Context(), user); err != nil {
		badRequest(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ─────────────────────────────────────────────
// Response mapping
// ─────────────────────────────────────────────

func toRequestResponse(r *domain.CollabRequest) requestResponse {
	return requestResponse{
		ID:         string(r.ID),
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

func toHydratedResponse(h *domain.HydratedRequest) hydratedRequestResponse {
	out := hydratedRequestResponse{requestResponse: toRequestResponse(&h.CollabRequest)}
	if h.FromUserDetails != nil {
		u := toUserResponse(h.FromUserDetails)
		out.FromUserDetails = &u
	}
	if h.ToUserDetails != nil {
		u := toUserResponse(h.ToUserDetails)
		out.ToUserDetails = &u
	}
	if h.ProjectDetails != nil {
		p := toProjectResponse(h.ProjectDetails)
		out.ProjectDetails = &p
	}
	return out
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:          string(p.ID),
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
}

func toUserResponse(u *domain.User) userResponse {
	out := userResponse{
		ID:          string(u.ID),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	switch p := u.Profile.(type) {
	case domain.StudentProfile:
		out.StudentProfile = &studentProfileDTO{
			College:        p.College,
			GraduationYear: p.GraduationYear,
			GithubUsername: p.GithubUsername,
		}
	case domain.FounderProfile:
		out.FounderProfile = &founderProfileDTO{
			CompanyName:    p.CompanyName,
			CompanyWebsite: p.CompanyWebsite,
			Industry:       p.Industry,
		}
	}
	return out
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}

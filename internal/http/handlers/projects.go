package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/roomvana/designhub/internal/cache"
	"github.com/roomvana/designhub/internal/config"
	"github.com/roomvana/designhub/internal/domain/project"
	"github.com/roomvana/designhub/internal/http/middlewares"
)

type ProjectsStore interface {
	Create(ctx context.Context, ownerID string, req project.CreateProjectRequest) (project.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]project.Project, error)
	DeleteByOwner(ctx context.Context, ownerID, id string) (bool, error)
}

type ProjectsHandler struct {
	repo  ProjectsStore
	cache *cache.Cache
}

func NewProjectsHandler(repo ProjectsStore, listCache *cache.Cache) *ProjectsHandler {
	return &ProjectsHandler{repo: repo, cache: listCache}
}

// ListProjects returns the caller's projects, newest first. Every query
// is scoped to the authenticated user id; there is no cross-user path.
func (h *ProjectsHandler) ListProjects(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || ownerID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	key := cache.ProjectsListKey(ownerID)

	if h.cache != nil {
		if v, hit := h.cache.Get(key); hit {
			if projects, ok := v.([]project.Project); ok {
				ctx.JSON(http.StatusOK, projects)
				return
			}
		}
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	projects, err := h.repo.ListByOwner(cctx, ownerID)

	if err != nil {
		RespondInternal(ctx, "Could not list projects")
		return
	}

	if h.cache != nil {
		h.cache.Set(key, projects)
	}

	ctx.JSON(http.StatusOK, projects)
}

func (h *ProjectsHandler) CreateProject(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || ownerID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req project.CreateProjectRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	p, err := h.repo.Create(cctx, ownerID, req)

	if err != nil {
		RespondInternal(ctx, "Could not save project")
		return
	}

	if h.cache != nil {
		h.cache.Delete(cache.ProjectsListKey(ownerID))
	}

	ctx.JSON(http.StatusOK, gin.H{"id": p.ID})
}

// DeleteProject removes one of the caller's projects. An id that does
// not exist or belongs to someone else matches nothing and still
// reports success, mirroring a delete-by-filter.
func (h *ProjectsHandler) DeleteProject(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || ownerID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	removed, err := h.repo.DeleteByOwner(cctx, ownerID, id)

	if err != nil {
		RespondInternal(ctx, "Could not delete project")
		return
	}

	if !removed {
		slog.DebugContext(ctx.Request.Context(), "delete matched no rows", "project_id", id, "owner_id", ownerID)
	}

	if h.cache != nil {
		h.cache.Delete(cache.ProjectsListKey(ownerID))
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

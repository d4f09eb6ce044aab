package handler

import (
	"errors"
	"net/http"

	"github.com/csy100/touch-api/data"
	"github.com/csy100/touch-api/data/dto"
	"github.com/csy100/touch-api/service"
)

// listProjectsHandler retrieves a page of projects, newest first.
func (h *Handler) listProjectsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	params := dto.QsListProjects{
		Filters: data.Filters{
			Page:     h.readInt(qs, "page", 1),
			PageSize: h.readInt(qs, "pageSize", 20),
		},
	}
	projects, metadata, err := h.service.ListProjects(params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"projects": projects, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// showProjectHandler retrieves a single project with its detailed
// description.
func (h *Handler) showProjectHandler(w http.ResponseWriter, r *http.Request) {
	projectID := h.readStringParam(r, "projectId")
	project, err := h.service.GetProject(projectID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"project": project}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// searchProjectsHandler retrieves a page of projects matching a keyword.
func (h *Handler) searchProjectsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	params := dto.QsSearchProjects{
		Keyword: h.readString(qs, "keyword", ""),
		Filters: data.Filters{
			Page:     h.readInt(qs, "page", 1),
			PageSize: h.readInt(qs, "limit", 20),
		},
	}
	projects, metadata, err := h.service.SearchProjects(params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"projects": projects, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

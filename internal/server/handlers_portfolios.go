package server

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/portfolio-builder/internal/blob"
	"github.com/jonathan/portfolio-builder/internal/server/middleware"
	"github.com/jonathan/portfolio-builder/internal/types"
)

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// handleListPortfolios returns the employer dashboard listing, filtered by ?q=.
func (s *Server) handleListPortfolios(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.deps.Portfolios.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if profiles == nil {
		profiles = []types.CandidateProfile{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"candidates": profiles,
		"count":      len(profiles),
	})
}

// handleDownloadResume streams the stored resume file to an employer or its owner.
func (s *Server) handleDownloadResume(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		writeError(w, r, &ErrInvalidCredentials{})
		return
	}
	accountID := r.PathValue("accountId")
	if principal.Role != string(types.RoleEmployer) && principal.UserID.String() != accountID {
		errorResponse(w, http.StatusForbidden, "Forbidden")
		return
	}
	if s.deps.Blobs == nil {
		errorResponse(w, http.StatusNotFound, "No resume file stored")
		return
	}

	snap, err := s.deps.Portfolios.Load(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if snap == nil || snap.ResumeFile == "" {
		errorResponse(w, http.StatusNotFound, "No resume file stored")
		return
	}

	obj, err := s.deps.Blobs.Get(r.Context(), snap.ResumeFile)
	if errors.Is(err, blob.ErrNotFound) {
		errorResponse(w, http.StatusNotFound, "No resume file stored")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", DownloadName(snap.Portfolio.FullName, path.Ext(snap.ResumeFile))))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(obj.Data)
}

// DownloadName returns "<Full_Name>_Resume<ext>" with unsafe characters removed.
func DownloadName(fullName, ext string) string {
	name := strings.Join(strings.Fields(fullName), "_")
	name = strings.Trim(unsafeFilename.ReplaceAllString(name, ""), "._-")
	if name == "" {
		name = "Candidate"
	}
	return name + "_Resume" + ext
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/csy100/touch-api/data"
	"github.com/csy100/touch-api/data/dto"
	"github.com/csy100/touch-api/internal/validator"
	"github.com/csy100/touch-api/repository"
)

type projects interface {
	ListProjects(qs dto.QsListProjects) ([]*data.Project, data.Metadata, error)
	GetProject(projectID string) (*data.Project, error)
	SearchProjects(qs dto.QsSearchProjects) ([]*data.Project, data.Metadata, error)
}

// projectExists reports whether a project exists, answering from the cache
// tiers when it can. It fails closed: if the store cannot be consulted the
// project is treated as absent, and the error result is not cached so the
// next call retries the store.
func (s *service) projectExists(ctx context.Context, projectID string) bool {
	exists, found := s.cache.GetProjectExists(ctx, projectID)
	if found {
		return exists
	}
	exists, err := s.repo.ProjectExists(projectID)
	if err != nil {
		s.logger.PrintError(err, map[string]string{"project_id": projectID})
		return false
	}
	s.cache.SetProjectExists(ctx, projectID, exists)
	return exists
}

// ListProjects service retrieves a page of projects, id-descending.
func (s *service) ListProjects(qs dto.QsListProjects) ([]*data.Project, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	return s.repo.GetAllProjects(qs.Filters)
}

// GetProject service retrieves a single project with its detailed
// description.
func (s *service) GetProject(projectID string) (*data.Project, error) {
	project, err := s.repo.GetProject(projectID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return project, nil
}

// SearchProjects service retrieves a page of projects matching a keyword,
// most recently updated first.
func (s *service) SearchProjects(qs dto.QsSearchProjects) ([]*data.Project, data.Metadata, error) {
	keyword := strings.TrimSpace(qs.Keyword)
	v := validator.New()
	v.Check(keyword != "", "keyword", "must be provided")
	v.Check(len(keyword) <= 100, "keyword", "must not be more than 100 bytes long")
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	projects, metadata, err := s.repo.SearchProjects(searchPatterns(keyword), qs.Filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return projects, metadata, nil
}

// searchPatterns expands a keyword into the ILIKE patterns a search should
// try. Besides the keyword itself, numeric keywords match their zero-padded
// and unpadded forms ("5" also finds "B05"), and keywords with or without
// internal spaces match the opposite form ("track1" also finds "track 1").
func searchPatterns(keyword string) []string {
	variants := []string{keyword}
	collapsed := strings.ReplaceAll(keyword, " ", "")
	if collapsed != keyword {
		variants = append(variants, collapsed)
	}
	spaced := spaceLetterDigitBoundary(keyword)
	if spaced != keyword {
		variants = append(variants, spaced)
	}
	if n, err := strconv.Atoi(keyword); err == nil && n >= 0 {
		variants = append(variants, fmt.Sprintf("%02d", n), strconv.Itoa(n))
	}
	seen := make(map[string]struct{}, len(variants))
	patterns := make([]string, 0, len(variants))
	for _, variant := range variants {
		if _, ok := seen[variant]; ok {
			continue
		}
		seen[variant] = struct{}{}
		patterns = append(patterns, "%"+escapeLikePattern(variant)+"%")
	}
	return patterns
}

// spaceLetterDigitBoundary inserts a space where a letter run meets a digit
// run, so "booth5" becomes "booth 5".
func spaceLetterDigitBoundary(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && isASCIILetter(runes[i-1]) && r >= '0' && r <= '9' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// escapeLikePattern escapes the LIKE metacharacters in a keyword so user
// input matches literally.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

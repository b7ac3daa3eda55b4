package opportunity

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

const (
	significantWordMinLen = 3
	significantWordLimit  = 3
	duplicateLimit        = 10
)

var folder = cases.Fold()

// SignificantWords returns the first three case-folded words of name that are
// at least three characters long.
func SignificantWords(name string) []string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	var words []string

	for _, f := range fields {
		if utf8.RuneCountInString(f) < significantWordMinLen {
			continue
		}

		words = append(words, folder.String(f))

		if len(words) == significantWordLimit {
			break
		}
	}

	return words
}

type DuplicateQuery struct {
	Name      string
	AccountID *uuid.UUID
	ExcludeID *uuid.UUID
}

// FindDuplicates screens for up to ten open opportunities that share the
// candidate's account or contain one of its significant words, newest first.
func (s *Service) FindDuplicates(ctx context.Context, q DuplicateQuery, actor Actor) (_ []*Opportunity, err error) {
	ctx, end := s.span(ctx, "FindDuplicates")
	defer end(&err)

	words := SignificantWords(q.Name)
	if len(words) == 0 && q.AccountID == nil {
		return []*Opportunity{}, nil
	}

	matches, err := s.repo.FindDuplicates(ctx, DuplicateCriteria{
		Words:     words,
		AccountID: q.AccountID,
		ExcludeID: q.ExcludeID,
		OwnerIDs:  actor.VisibleOwners,
		Limit:     duplicateLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}

	return matches, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/bookshelf/pkg/types"
)

// DuplicateGroup holds books that share a title. Keep is the most
// complete record; Drop lists the rest.
type DuplicateGroup struct {
	Title string
	Keep  types.Book
	Drop  []types.Book
}

// MetadataScore counts the populated metadata fields of a book. Used to
// pick which record survives deduplication.
func MetadataScore(book types.Book) int {
	score := 0
	if book.Author != "" {
		score++
	}
	if book.ISBN != "" {
		score++
	}
	if book.YearPublished != 0 {
		score++
	}
	if book.DateRead != "" {
		score++
	}
	if book.CoverURL != "" {
		score++
	}
	if book.Notes != "" {
		score++
	}
	score += len(book.Themes)
	return score
}

// FindDuplicates groups books whose titles match case-insensitively and
// picks a keeper per group. Books with unique titles are not reported.
// Ties on metadata score go to the lower id, which is the older record.
func (s *Store) FindDuplicates(ctx context.Context) ([]DuplicateGroup, error) {
	books, err := s.ListBooks(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	byTitle := make(map[string][]types.Book)
	for _, book := range books {
		key := strings.ToLower(strings.TrimSpace(book.Title))
		byTitle[key] = append(byTitle[key], book)
	}

	var groups []DuplicateGroup
	for _, members := range byTitle {
		if len(members) < 2 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			si, sj := MetadataScore(members[i]), MetadataScore(members[j])
			if si != sj {
				return si > sj
			}
			return members[i].ID < members[j].ID
		})
		groups = append(groups, DuplicateGroup{
			Title: members[0].Title,
			Keep:  members[0],
			Drop:  members[1:],
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Keep.ID < groups[j].Keep.ID
	})
	return groups, nil
}

// Dedupe deletes the losing records of every duplicate group and
// returns the groups that were collapsed.
func (s *Store) Dedupe(ctx context.Context) ([]DuplicateGroup, error) {
	groups, err := s.FindDuplicates(ctx)
	if err != nil {
		return nil, err
	}
	for _, group := range groups {
		for _, book := range group.Drop {
			if err := s.DeleteBook(ctx, book.ID); err != nil {
				return nil, fmt.Errorf("deleting duplicate %d: %w", book.ID, err)
			}
		}
	}
	return groups, nil
}

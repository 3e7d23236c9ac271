package store

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"ratepoint/internal/entity"
	"ratepoint/internal/models"
)

// searchInputRe allow-lists search input before it reaches a query: letters,
// digits, underscores, and spaces only.
var searchInputRe = regexp.MustCompile(`^[a-zA-Z0-9_ ]*$`)

// SearchPosts returns the posts carrying every tag named in the query, most
// recent first. The query is lowercased and split on whitespace; each token
// must match a tag. Input outside the allow-list fails with
// ErrInvalidSearchInput before any query runs.
func (s *Store) SearchPosts(q Querier, query string) ([]models.Post, error) {
	if !searchInputRe.MatchString(query) {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidSearchInput, query)
	}
	tokens := strings.Fields(models.NormalizeTagName(query))
	if len(tokens) == 0 {
		return s.AllPosts(q)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + postTable.columns + ` FROM posts WHERE `)
	args := make([]any, 0, len(tokens))
	for i, token := range tokens {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		fmt.Fprintf(&sb, `EXISTS (
			SELECT 1 FROM posts_tags pt
			JOIN tags t ON t.id = pt.tag_id
			WHERE pt.post_id = posts.id AND t.name = $%d)`, i+1)
		args = append(args, token)
	}
	sb.WriteString(` ORDER BY post_datetime DESC`)
	return s.queryPosts(q, sb.String(), args...)
}

// TrendingTags ranks the tags of the posts created within the window,
// counting one per (post, tag) link. Ties keep the order tags were first
// seen walking the posts most recent first. At most n entries are returned;
// n <= 0 means no limit.
func (s *Store) TrendingTags(q Querier, window time.Duration, n int) ([]models.TagCount, error) {
	since := time.Now().UTC().Add(-window)
	rows, err := q.Query(`
		SELECT t.name
		FROM posts p
		JOIN posts_tags pt ON pt.post_id = p.id
		JOIN tags t ON t.id = pt.tag_id
		WHERE p.post_datetime >= $1
		ORDER BY p.post_datetime DESC, t.name`, since)
	if err != nil {
		return nil, fmt.Errorf("trending tags: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	var order []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan trending tag: %w", err)
		}
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]models.TagCount, 0, len(order))
	for _, name := range order {
		out = append(out, models.TagCount{TagName: name, NumberOfPosts: counts[name]})
	}
	sortProjected(out, func(a, b models.TagCount) bool {
		return a.NumberOfPosts > b.NumberOfPosts
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

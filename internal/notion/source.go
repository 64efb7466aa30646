package notion

import (
	"context"

	"github.com/sadopc/pomotrackr/internal/store"
)

const (
	DefaultTagsProperty = "Tags"
	DefaultUntitled     = "No title"
)

// Source adapts a Client to store.Source.
type Source struct {
	Client       *Client
	TagsProperty string
	Untitled     string
}

func NewSource(c *Client, tagsProperty string) *Source {
	if tagsProperty == "" {
		tagsProperty = DefaultTagsProperty
	}
	return &Source{Client: c, TagsProperty: tagsProperty, Untitled: DefaultUntitled}
}

func (s *Source) QueryDatabase(ctx context.Context, databaseID string) ([]store.Project, error) {
	pages, err := s.Client.QueryDatabase(ctx, databaseID)
	if err != nil {
		return nil, err
	}
	projects := make([]store.Project, 0, len(pages))
	for _, p := range pages {
		projects = append(projects, store.Project{
			ID:    p.ID,
			Title: p.Title(s.Untitled),
			Tags:  toTags(p.MultiSelect(s.TagsProperty)),
		})
	}
	return projects, nil
}

func (s *Source) RetrieveDatabase(ctx context.Context, databaseID string) ([]store.Tag, error) {
	db, err := s.Client.RetrieveDatabase(ctx, databaseID)
	if err != nil {
		return nil, err
	}
	return toTags(db.Options(s.TagsProperty)), nil
}

func toTags(opts []SelectOption) []store.Tag {
	if len(opts) == 0 {
		return nil
	}
	tags := make([]store.Tag, len(opts))
	for i, o := range opts {
		tags[i] = store.Tag{ID: o.ID, Name: o.Name, Color: o.Color}
	}
	return tags
}

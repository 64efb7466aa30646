package notion

import "strings"

type RichText struct {
	PlainText string `json:"plain_text"`
}

type SelectOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// PageProperty is one property value of a page. Only the fields for the
// property's Type are populated; everything else stays zero.
type PageProperty struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Title       []RichText     `json:"title,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
}

// Page is a database row.
type Page struct {
	ID         string                  `json:"id"`
	Properties map[string]PageProperty `json:"properties"`
}

// Title returns the text of the page's title property, or fallback when the
// page has none or it is blank.
func (p Page) Title(fallback string) string {
	for _, prop := range p.Properties {
		if prop.Type != "title" {
			continue
		}
		var b strings.Builder
		for _, rt := range prop.Title {
			b.WriteString(rt.PlainText)
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			return s
		}
	}
	return fallback
}

// MultiSelect returns the options set on the named multi-select property.
func (p Page) MultiSelect(name string) []SelectOption {
	prop, ok := p.Properties[name]
	if !ok || prop.Type != "multi_select" {
		return nil
	}
	return prop.MultiSelect
}

type MultiSelectSchema struct {
	Options []SelectOption `json:"options"`
}

type SchemaProperty struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	MultiSelect *MultiSelectSchema `json:"multi_select,omitempty"`
}

// Database is the schema of a database.
type Database struct {
	ID         string                    `json:"id"`
	Title      []RichText                `json:"title"`
	Properties map[string]SchemaProperty `json:"properties"`
}

// Options returns the selectable options of the named multi-select property.
func (d Database) Options(name string) []SelectOption {
	prop, ok := d.Properties[name]
	if !ok || prop.MultiSelect == nil {
		return nil
	}
	return prop.MultiSelect.Options
}

type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

type queryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

type apiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

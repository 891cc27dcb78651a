package model

import (
	"time"

	"github.com/google/uuid"
)

// CutListTemplate represents a reusable cut list that captures the rod length,
// the piece catalogue and settings but not a cutting plan.
type CutListTemplate struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
	RodLength   int           `json:"rod_length"`
	Pieces      []Piece       `json:"pieces"`
	Settings    SolveSettings `json:"settings"`
}

// NewCutListTemplate creates a new template from the given problem.
func NewCutListTemplate(name, description string, problem Problem, settings SolveSettings) CutListTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return CutListTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		RodLength:   problem.RodLength,
		Pieces:      copyPieces(problem.Pieces),
		Settings:    settings,
	}
}

// ToProject creates a new Project from this template.
// Pieces get fresh IDs so they are independent of the template.
func (t CutListTemplate) ToProject(projectName string) Project {
	pieces := make([]Piece, len(t.Pieces))
	for i, p := range t.Pieces {
		pieces[i] = NewPiece(p.Label, p.Length, p.Demand)
	}

	return Project{
		Name:     projectName,
		Problem:  Problem{Name: projectName, RodLength: t.RodLength, Pieces: pieces},
		Settings: t.Settings,
	}
}

// TemplateStore holds a collection of cut list templates.
type TemplateStore struct {
	Templates []CutListTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []CutListTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t CutListTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *CutListTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *CutListTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns a list of template names.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

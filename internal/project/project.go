package project

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/piwi3910/RodCut/internal/model"
)

// FileExt is the extension of saved project files.
const FileExt = ".rodcut"

// SaveProject writes the project, including its last plan, to path.
// The extension is appended when missing; the final path is returned.
func SaveProject(path string, p model.Project) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), FileExt) {
		path += FileExt
	}
	if err := writeJSON(path, p); err != nil {
		return "", fmt.Errorf("save project %s: %w", path, err)
	}
	return path, nil
}

// LoadProject reads a project file. Missing settings fall back to
// model.DefaultSettings and a missing rod length to model.DefaultRodLength.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("read project: %w", err)
	}

	p := model.Project{Settings: model.DefaultSettings()}
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("parse project %s: %w", path, err)
	}
	if p.Problem.RodLength == 0 {
		p.Problem.RodLength = model.DefaultRodLength
	}
	if p.Problem.Pieces == nil {
		p.Problem.Pieces = []model.Piece{}
	}
	if p.Problem.Name == "" {
		p.Problem.Name = p.Name
	}
	return p, nil
}

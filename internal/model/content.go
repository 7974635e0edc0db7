package model

// Difficulty labels for instanced content.
const (
	DifficultyNormal = "normal"
	DifficultyHeroic = "heroic"
	DifficultyMythic = "mythic"
)

// ContentStage is a stage template inside a content definition.
type ContentStage struct {
	Name     string `json:"name"`
	BossName string `json:"boss_name,omitempty"`
}

// ContentDefinition describes one piece of instanced content (a dungeon or
// raid) in the content catalog.
type ContentDefinition struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ContentType string         `json:"content_type"`
	Difficulty  string         `json:"difficulty"`
	GroupSize   int            `json:"group_size"`
	MinPower    int            `json:"min_power"`
	Stages      []ContentStage `json:"stages"`
	Default     bool           `json:"default"`
}

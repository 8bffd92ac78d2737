package tracking

import (
	"sort"
	"time"
)

// EntityType names the kind of entity referenced by a selection entry.
type EntityType string

const (
	EntityTask         EntityType = "task"
	EntityAssetVersion EntityType = "assetversion"
)

// ObjectTypeTask is the object type reported for genuine tasks (as opposed to
// shots, sequences and other task-like containers).
const ObjectTypeTask = "Task"

// AssetTypeImage is the short code of image assets.
const AssetTypeImage = "img"

// EntityRef identifies a selectable item in the tracking system.
type EntityRef struct {
	Type EntityType `json:"entityType"`
	ID   string     `json:"entityId"`
}

// Task is a tracking-system task.
type Task struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ObjectType string `json:"object_type"`
}

// Asset groups published versions of one output.
type Asset struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TypeShort string `json:"type_short"`
}

// AssetVersion is one published iteration of an asset.
type AssetVersion struct {
	ID          string    `json:"id"`
	AssetID     string    `json:"asset_id"`
	Version     int       `json:"version"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// Component is a named file group attached to an asset version.
type Component struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	FilesystemPath string `json:"filesystem_path"`
}

// NewestFirst returns a copy of versions ordered from newest to oldest by
// version number, then creation time.
func NewestFirst(versions []AssetVersion) []AssetVersion {
	out := make([]AssetVersion, len(versions))
	copy(out, versions)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Version != out[j].Version {
			return out[i].Version > out[j].Version
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

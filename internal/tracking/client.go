package tracking

import "context"

// Client is the typed view of the tracking server used by the action. Lookups
// of unknown ids return an error matching services.ErrNotFound.
type Client interface {
	Ping(ctx context.Context) error
	GetTask(ctx context.Context, id string) (Task, error)
	TaskAssets(ctx context.Context, taskID, assetType string) ([]Asset, error)
	GetAsset(ctx context.Context, id string) (Asset, error)
	AssetVersions(ctx context.Context, assetID string) ([]AssetVersion, error)
	GetAssetVersion(ctx context.Context, id string) (AssetVersion, error)
	VersionComponents(ctx context.Context, versionID string) ([]Component, error)
	GetComponent(ctx context.Context, id string) (Component, error)
	PublishVersion(ctx context.Context, versionID string) error
}

package selection

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"seqview/internal/logging"
	"seqview/internal/services"
	"seqview/internal/tracking"
)

// MenuItem is the single discovery entry advertised for a valid selection.
type MenuItem struct {
	Label            string `json:"label"`
	ActionIdentifier string `json:"actionIdentifier"`
	Icon             string `json:"icon"`
}

// MenuOption is one selectable component in the launch form.
type MenuOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Resolver answers discovery and enumeration questions against a tracking
// client. It holds no state beyond its collaborators.
type Resolver struct {
	client tracking.Client
	item   MenuItem
	logger *slog.Logger
}

// NewResolver builds a resolver advertising item for valid selections.
func NewResolver(client tracking.Client, item MenuItem, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		client: client,
		item:   item,
		logger: logging.NewComponentLogger(logger, "selection"),
	}
}

// Valid reports whether the selection can be viewed. Remote failures make
// the selection invalid.
func (r *Resolver) Valid(ctx context.Context, selection []tracking.EntityRef) bool {
	if len(selection) == 0 {
		return false
	}
	entity := selection[0]
	logger := logging.WithContext(ctx, r.logger).With(
		logging.String("entity_type", string(entity.Type)),
		logging.String("entity_id", entity.ID),
	)

	switch entity.Type {
	case tracking.EntityTask:
		task, err := r.client.GetTask(ctx, entity.ID)
		if err != nil {
			logger.Debug("task lookup failed", logging.Error(err))
			return false
		}
		return task.ObjectType == tracking.ObjectTypeTask
	case tracking.EntityAssetVersion:
		version, err := r.client.GetAssetVersion(ctx, entity.ID)
		if err != nil {
			logger.Debug("asset version lookup failed", logging.Error(err))
			return false
		}
		asset, err := r.client.GetAsset(ctx, version.AssetID)
		if err != nil {
			logger.Debug("asset lookup failed", logging.Error(err))
			return false
		}
		return asset.TypeShort == tracking.AssetTypeImage
	default:
		return false
	}
}

// Discover returns the menu item for a valid selection and nil otherwise.
func (r *Resolver) Discover(ctx context.Context, selection []tracking.EntityRef) *MenuItem {
	if !r.Valid(ctx, selection) {
		return nil
	}
	item := r.item
	return &item
}

// Components enumerates the viewable components of the selection, sorted by
// label.
func (r *Resolver) Components(ctx context.Context, selection []tracking.EntityRef) ([]MenuOption, error) {
	if len(selection) == 0 {
		return nil, services.Wrap(services.ErrInvalidSelection, "selection", "components", "empty selection", nil)
	}

	byName := make(map[string]string)
	for _, entity := range selection {
		if entity.Type != tracking.EntityAssetVersion {
			isTask, err := r.addTaskComponents(ctx, entity.ID, byName)
			if err != nil {
				return nil, err
			}
			if isTask {
				continue
			}
			logging.WithContext(ctx, r.logger).Debug("entity is not a task; trying asset version",
				logging.String("entity_id", entity.ID),
			)
		}
		if err := r.addVersionComponents(ctx, entity.ID, byName); err != nil {
			return nil, err
		}
	}

	options := make([]MenuOption, 0, len(byName))
	for name, id := range byName {
		options = append(options, MenuOption{Label: name, Value: id})
	}
	sort.Slice(options, func(i, j int) bool {
		if options[i].Label != options[j].Label {
			return options[i].Label < options[j].Label
		}
		return options[i].Value < options[j].Value
	})
	return options, nil
}

// addTaskComponents reports false without error when taskID is not a task.
func (r *Resolver) addTaskComponents(ctx context.Context, taskID string, byName map[string]string) (bool, error) {
	if _, err := r.client.GetTask(ctx, taskID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	assets, err := r.client.TaskAssets(ctx, taskID, tracking.AssetTypeImage)
	if err != nil {
		return true, services.Wrap(services.ErrRemote, "selection", "task assets", taskID, err)
	}
	if len(assets) == 0 {
		return true, nil
	}
	versions, err := r.client.AssetVersions(ctx, assets[0].ID)
	if err != nil {
		return true, services.Wrap(services.ErrRemote, "selection", "asset versions", assets[0].ID, err)
	}
	for _, version := range tracking.NewestFirst(versions) {
		components, err := r.client.VersionComponents(ctx, version.ID)
		if err != nil {
			return true, services.Wrap(services.ErrRemote, "selection", "version components", version.ID, err)
		}
		for _, component := range components {
			if _, seen := byName[component.Name]; !seen {
				byName[component.Name] = component.ID
			}
		}
	}
	return true, nil
}

func (r *Resolver) addVersionComponents(ctx context.Context, versionID string, byName map[string]string) error {
	version, err := r.client.GetAssetVersion(ctx, versionID)
	if err != nil {
		return err
	}
	components, err := r.client.VersionComponents(ctx, versionID)
	if err != nil {
		return services.Wrap(services.ErrRemote, "selection", "version components", versionID, err)
	}
	for _, component := range components {
		byName[component.Name] = component.ID
	}
	if version.IsPublished {
		return nil
	}
	if err := r.client.PublishVersion(ctx, versionID); err != nil {
		return services.Wrap(services.ErrRemote, "selection", "publish version", versionID, err)
	}
	logging.WithContext(ctx, r.logger).Info("published asset version",
		logging.String("version_id", versionID),
	)
	return nil
}

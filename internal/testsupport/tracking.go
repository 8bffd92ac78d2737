package testsupport

import (
	"context"
	"fmt"
	"sync"

	"seqview/internal/services"
	"seqview/internal/tracking"
)

// FakeTracking is an in-memory tracking.Client. Versions are returned in
// insertion order, which lets tests check that callers sort them.
type FakeTracking struct {
	mu         sync.Mutex
	tasks      map[string]tracking.Task
	assets     map[string]tracking.Asset
	taskAssets map[string][]string
	versions   map[string]tracking.AssetVersion
	assetVers  map[string][]string
	components map[string]tracking.Component
	versComps  map[string][]string

	// Published lists version ids passed to PublishVersion, in call order.
	Published []string
	// Err, when set, is returned from every call.
	Err error
}

var _ tracking.Client = (*FakeTracking)(nil)

// NewFakeTracking returns an empty fake.
func NewFakeTracking() *FakeTracking {
	return &FakeTracking{
		tasks:      map[string]tracking.Task{},
		assets:     map[string]tracking.Asset{},
		taskAssets: map[string][]string{},
		versions:   map[string]tracking.AssetVersion{},
		assetVers:  map[string][]string{},
		components: map[string]tracking.Component{},
		versComps:  map[string][]string{},
	}
}

// AddTask registers a task.
func (f *FakeTracking) AddTask(task tracking.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[task.ID] = task
}

// AddAsset attaches an asset to a task.
func (f *FakeTracking) AddAsset(taskID string, asset tracking.Asset) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assets[asset.ID] = asset
	f.taskAssets[taskID] = append(f.taskAssets[taskID], asset.ID)
}

// AddVersion attaches a version to its asset.
func (f *FakeTracking) AddVersion(version tracking.AssetVersion) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions[version.ID] = version
	f.assetVers[version.AssetID] = append(f.assetVers[version.AssetID], version.ID)
}

// AddComponent attaches a component to a version.
func (f *FakeTracking) AddComponent(versionID string, component tracking.Component) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.components[component.ID] = component
	f.versComps[versionID] = append(f.versComps[versionID], component.ID)
}

// IsPublished reports the current published flag of a version.
func (f *FakeTracking) IsPublished(versionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.versions[versionID].IsPublished
}

func notFound(kind, id string) error {
	return services.Wrap(services.ErrNotFound, "fake tracking", "get "+kind, fmt.Sprintf("%s %q", kind, id), nil)
}

func (f *FakeTracking) Ping(context.Context) error {
	return f.Err
}

func (f *FakeTracking) GetTask(_ context.Context, id string) (tracking.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return tracking.Task{}, f.Err
	}
	task, ok := f.tasks[id]
	if !ok {
		return tracking.Task{}, notFound("task", id)
	}
	return task, nil
}

func (f *FakeTracking) TaskAssets(_ context.Context, taskID, assetType string) ([]tracking.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []tracking.Asset
	for _, id := range f.taskAssets[taskID] {
		asset := f.assets[id]
		if assetType == "" || asset.TypeShort == assetType {
			out = append(out, asset)
		}
	}
	return out, nil
}

func (f *FakeTracking) GetAsset(_ context.Context, id string) (tracking.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return tracking.Asset{}, f.Err
	}
	asset, ok := f.assets[id]
	if !ok {
		return tracking.Asset{}, notFound("asset", id)
	}
	return asset, nil
}

func (f *FakeTracking) AssetVersions(_ context.Context, assetID string) ([]tracking.AssetVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []tracking.AssetVersion
	for _, id := range f.assetVers[assetID] {
		out = append(out, f.versions[id])
	}
	return out, nil
}

func (f *FakeTracking) GetAssetVersion(_ context.Context, id string) (tracking.AssetVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return tracking.AssetVersion{}, f.Err
	}
	version, ok := f.versions[id]
	if !ok {
		return tracking.AssetVersion{}, notFound("asset version", id)
	}
	return version, nil
}

func (f *FakeTracking) VersionComponents(_ context.Context, versionID string) ([]tracking.Component, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []tracking.Component
	for _, id := range f.versComps[versionID] {
		out = append(out, f.components[id])
	}
	return out, nil
}

func (f *FakeTracking) GetComponent(_ context.Context, id string) (tracking.Component, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return tracking.Component{}, f.Err
	}
	component, ok := f.components[id]
	if !ok {
		return tracking.Component{}, notFound("component", id)
	}
	return component, nil
}

func (f *FakeTracking) PublishVersion(_ context.Context, versionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	version, ok := f.versions[versionID]
	if !ok {
		return notFound("asset version", versionID)
	}
	version.IsPublished = true
	f.versions[versionID] = version
	f.Published = append(f.Published, versionID)
	return nil
}

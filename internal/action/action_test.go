package action_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"seqview/internal/action"
	"seqview/internal/eventhub"
	"seqview/internal/history"
	"seqview/internal/selection"
	"seqview/internal/services"
	"seqview/internal/testsupport"
	"seqview/internal/tracking"
)

type fakeLauncher struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (l *fakeLauncher) Launch(_ context.Context, path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.paths = append(l.paths, path)
	return nil
}

func (l *fakeLauncher) launched() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.paths...)
}

type fakeHistory struct {
	mu       sync.Mutex
	launches []history.Launch
}

func (h *fakeHistory) Record(_ context.Context, launch history.Launch) (history.Launch, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.launches = append(h.launches, launch)
	return launch, nil
}

type fixture struct {
	hub      *eventhub.Hub
	tracking *testsupport.FakeTracking
	launcher *fakeLauncher
	history  *fakeHistory
	action   *action.ViewerAction
	dir      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Action.Username = "jane"
	f := &fixture{
		hub:      eventhub.NewHub(nil),
		tracking: testsupport.NewFakeTracking(),
		launcher: &fakeLauncher{},
		history:  &fakeHistory{},
		dir:      t.TempDir(),
	}
	a, err := action.Register(f.hub, action.Deps{
		Config:   cfg,
		Client:   f.tracking,
		Launcher: f.launcher,
		History:  f.history,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	t.Cleanup(func() { _ = a.Unregister() })
	f.action = a

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.tracking.AddTask(tracking.Task{ID: "task-1", ObjectType: tracking.ObjectTypeTask})
	f.tracking.AddAsset("task-1", tracking.Asset{ID: "asset-1", TypeShort: tracking.AssetTypeImage})
	f.tracking.AddVersion(tracking.AssetVersion{ID: "v1", AssetID: "asset-1", Version: 1, IsPublished: true, CreatedAt: base})
	f.tracking.AddVersion(tracking.AssetVersion{ID: "v2", AssetID: "asset-1", Version: 2, IsPublished: true, CreatedAt: base.Add(time.Hour)})
	f.tracking.AddComponent("v1", tracking.Component{ID: "c1", Name: "main", FilesystemPath: filepath.Join(f.dir, "v1", "shot_%04d.exr")})
	f.tracking.AddComponent("v2", tracking.Component{ID: "c2", Name: "main", FilesystemPath: filepath.Join(f.dir, "v2", "shot_%04d.exr")})
	f.tracking.AddComponent("v2", tracking.Component{ID: "c3", Name: "movie", FilesystemPath: filepath.Join(f.dir, "mov", "final.mov")})
	f.tracking.AddComponent("v2", tracking.Component{ID: "c4", Name: "empty", FilesystemPath: filepath.Join(f.dir, "empty", "shot_%04d.exr")})
	testsupport.TouchFiles(t, filepath.Join(f.dir, "v2"), "shot_0002.exr", "shot_0001.exr", "other.txt")
	testsupport.TouchFiles(t, filepath.Join(f.dir, "mov"), "note.mov", "final.mov", "final.json")
	testsupport.TouchFiles(t, filepath.Join(f.dir, "empty"), "readme.txt")
	return f
}

func selectionData(entityType, id string) []any {
	return []any{map[string]any{"entityType": entityType, "entityId": id}}
}

func discoverEvent(user string, sel []any) eventhub.Event {
	return eventhub.Event{
		ID:     "evt-discover",
		Topic:  action.TopicDiscover,
		Source: eventhub.Source{User: eventhub.User{Username: user}},
		Data:   map[string]any{"selection": sel},
	}
}

func launchEvent(sel []any, values map[string]any) eventhub.Event {
	data := map[string]any{"selection": sel, "actionIdentifier": "djvviewer"}
	if values != nil {
		data["values"] = values
	}
	return eventhub.Event{
		ID:     "evt-launch",
		Topic:  action.TopicLaunch,
		Source: eventhub.Source{User: eventhub.User{Username: "jane"}},
		Data:   data,
	}
}

func singleResult(t *testing.T, results []any) any {
	t.Helper()
	if len(results) != 1 {
		t.Fatalf("expected exactly one reply, got %d: %v", len(results), results)
	}
	return results[0]
}

func TestDiscoverValidSelectionIsIdempotent(t *testing.T) {
	f := newFixture(t)
	event := discoverEvent("jane", selectionData("task", "task-1"))

	first := singleResult(t, f.hub.Publish(context.Background(), event))
	second := singleResult(t, f.hub.Publish(context.Background(), event))
	resp, ok := first.(action.DiscoverResponse)
	if !ok {
		t.Fatalf("unexpected reply type %T", first)
	}
	want := selection.MenuItem{Label: "DJV Viewer", ActionIdentifier: "djvviewer", Icon: "http://a.fsdn.com/allura/p/djv/icon"}
	if len(resp.Items) != 1 || resp.Items[0] != want {
		t.Fatalf("unexpected discovery reply: %+v", resp)
	}
	if other := second.(action.DiscoverResponse); other.Items[0] != resp.Items[0] {
		t.Fatalf("discovery not idempotent: %+v vs %+v", resp, other)
	}
}

func TestDiscoverInvalidSelectionHasNoReply(t *testing.T) {
	f := newFixture(t)
	for _, sel := range [][]any{nil, selectionData("show", "task-1"), selectionData("task", "missing")} {
		if results := f.hub.Publish(context.Background(), discoverEvent("jane", sel)); len(results) != 0 {
			t.Fatalf("expected no reply for %v, got %v", sel, results)
		}
	}
}

func TestDiscoverIgnoresOtherUsers(t *testing.T) {
	f := newFixture(t)
	if results := f.hub.Publish(context.Background(), discoverEvent("bob", selectionData("task", "task-1"))); len(results) != 0 {
		t.Fatalf("expected no reply for another user, got %v", results)
	}
}

func TestLaunchWithoutValuesReturnsComponentForm(t *testing.T) {
	f := newFixture(t)
	reply := singleResult(t, f.hub.Publish(context.Background(), launchEvent(selectionData("task", "task-1"), nil)))
	form, ok := reply.(action.FormResponse)
	if !ok {
		t.Fatalf("unexpected reply type %T: %+v", reply, reply)
	}
	if len(form.Items) != 1 {
		t.Fatalf("expected one form field, got %+v", form)
	}
	field := form.Items[0]
	if field.Label != "Component to view" || field.Type != "enumerator" || field.Name != "component" {
		t.Fatalf("unexpected field: %+v", field)
	}
	want := []selection.MenuOption{
		{Label: "empty", Value: "c4"},
		{Label: "main", Value: "c2"},
		{Label: "movie", Value: "c3"},
	}
	if len(field.Data) != len(want) {
		t.Fatalf("got %+v, want %+v", field.Data, want)
	}
	for i := range want {
		if field.Data[i] != want[i] {
			t.Fatalf("got %+v, want %+v", field.Data, want)
		}
	}
	if len(f.launcher.launched()) != 0 {
		t.Fatal("viewer must not start on the form pass")
	}
}

func TestLaunchSequenceStartsViewerOnFirstFrame(t *testing.T) {
	f := newFixture(t)
	reply := singleResult(t, f.hub.Publish(context.Background(),
		launchEvent(selectionData("task", "task-1"), map[string]any{"component": "c2"})))
	result, ok := reply.(action.Result)
	if !ok {
		t.Fatalf("unexpected reply type %T", reply)
	}
	if !result.Success || result.Message != "DJV Viewer launched." {
		t.Fatalf("unexpected result: %+v", result)
	}
	launched := f.launcher.launched()
	if len(launched) != 1 || filepath.Base(launched[0]) != "shot_0001.exr" || !filepath.IsAbs(launched[0]) {
		t.Fatalf("unexpected launch paths: %v", launched)
	}

	if len(f.history.launches) != 1 {
		t.Fatalf("expected history record, got %d", len(f.history.launches))
	}
	record := f.history.launches[0]
	if !record.Success || record.FrameCount != 2 || record.FrameRange != "1-2" || record.Username != "jane" || record.ID == "" {
		t.Fatalf("unexpected history record: %+v", record)
	}
}

func TestLaunchNonSequenceUsesFirstFileWithExtension(t *testing.T) {
	f := newFixture(t)
	reply := singleResult(t, f.hub.Publish(context.Background(),
		launchEvent(selectionData("task", "task-1"), map[string]any{"component": "c3"})))
	if result := reply.(action.Result); !result.Success {
		t.Fatalf("unexpected result: %+v", result)
	}
	launched := f.launcher.launched()
	if len(launched) != 1 || filepath.Base(launched[0]) != "final.mov" {
		t.Fatalf("unexpected launch paths: %v", launched)
	}
	if f.history.launches[0].FrameCount != 2 {
		t.Fatalf("expected two .mov files, got %+v", f.history.launches[0])
	}
}

func TestLaunchEmptySequenceFailsWithoutViewer(t *testing.T) {
	f := newFixture(t)
	reply := singleResult(t, f.hub.Publish(context.Background(),
		launchEvent(selectionData("task", "task-1"), map[string]any{"component": "c4"})))
	result := reply.(action.Result)
	if result.Success {
		t.Fatalf("expected failure, got %+v", result)
	}
	if !strings.HasPrefix(result.Message, "No files found for the selected component") {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if len(f.launcher.launched()) != 0 {
		t.Fatal("viewer must not start for an empty frame set")
	}
	if len(f.history.launches) != 1 || f.history.launches[0].Success {
		t.Fatalf("expected failed history record, got %+v", f.history.launches)
	}
}

func TestLaunchFailuresAreReported(t *testing.T) {
	f := newFixture(t)

	reply := singleResult(t, f.hub.Publish(context.Background(),
		launchEvent(selectionData("task", "task-1"), map[string]any{"component": "missing"})))
	if result := reply.(action.Result); result.Success || !strings.HasPrefix(result.Message, "Component not found") {
		t.Fatalf("unexpected result: %+v", result)
	}

	f.launcher.err = services.Wrap(services.ErrLaunch, "viewer", "start", "djv_view", errors.New("exec format error"))
	reply = singleResult(t, f.hub.Publish(context.Background(),
		launchEvent(selectionData("task", "task-1"), map[string]any{"component": "c2"})))
	if result := reply.(action.Result); result.Success || !strings.HasPrefix(result.Message, "Viewer could not be started") {
		t.Fatalf("unexpected result: %+v", result)
	}

	reply = singleResult(t, f.hub.Publish(context.Background(),
		launchEvent(selectionData("task", "task-1"), map[string]any{"component": ""})))
	if result := reply.(action.Result); result.Success {
		t.Fatalf("expected failure for blank component, got %+v", result)
	}

	f.tracking.Err = services.Wrap(services.ErrRemote, "fake", "get", "unavailable", nil)
	reply = singleResult(t, f.hub.Publish(context.Background(), launchEvent(selectionData("task", "task-1"), nil)))
	if result, ok := reply.(action.Result); !ok || result.Success || result.Message == "" {
		t.Fatalf("expected failure result for remote error, got %+v", reply)
	}
}

func TestLaunchIgnoresOtherActions(t *testing.T) {
	f := newFixture(t)
	event := launchEvent(selectionData("task", "task-1"), nil)
	event.Data["actionIdentifier"] = "rv"
	if results := f.hub.Publish(context.Background(), event); len(results) != 0 {
		t.Fatalf("expected no reply, got %v", results)
	}
}

func TestUnregisterRemovesSubscriptions(t *testing.T) {
	f := newFixture(t)
	if f.hub.Len() != 2 {
		t.Fatalf("expected two subscriptions, got %d", f.hub.Len())
	}
	discover, launch := f.action.Subscriptions()
	if discover != "topic=ftrack.action.discover and source.user.username=jane" {
		t.Fatalf("unexpected discover subscription %q", discover)
	}
	if launch != "topic=ftrack.action.launch and source.user.username=jane and data.actionIdentifier=djvviewer" {
		t.Fatalf("unexpected launch subscription %q", launch)
	}
	if err := f.action.Unregister(); err != nil {
		t.Fatalf("Unregister returned error: %v", err)
	}
	if f.hub.Len() != 0 {
		t.Fatalf("expected no subscriptions, got %d", f.hub.Len())
	}
	if results := f.hub.Publish(context.Background(), discoverEvent("jane", selectionData("task", "task-1"))); len(results) != 0 {
		t.Fatalf("expected no reply after unregister, got %v", results)
	}
	if err := f.action.Register(f.hub); err != nil {
		t.Fatalf("re-register returned error: %v", err)
	}
}

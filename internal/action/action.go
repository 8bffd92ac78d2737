package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"seqview/internal/config"
	"seqview/internal/eventhub"
	"seqview/internal/history"
	"seqview/internal/logging"
	"seqview/internal/metrics"
	"seqview/internal/selection"
	"seqview/internal/sequence"
	"seqview/internal/services"
	"seqview/internal/tracking"
	"seqview/internal/viewer"
)

// Event topics handled by the action.
const (
	TopicDiscover = "ftrack.action.discover"
	TopicLaunch   = "ftrack.action.launch"
)

const (
	componentField = "component"
	componentLabel = "Component to view"
	enumeratorType = "enumerator"
)

// HistoryRecorder persists launch attempts.
type HistoryRecorder interface {
	Record(ctx context.Context, launch history.Launch) (history.Launch, error)
}

// Deps holds the collaborators of the action. History and Logger are
// optional.
type Deps struct {
	Config   *config.Config
	Client   tracking.Client
	Launcher viewer.Launcher
	History  HistoryRecorder
	Logger   *slog.Logger
}

// ViewerAction answers discovery and launch events for one user.
type ViewerAction struct {
	cfg      *config.Config
	client   tracking.Client
	resolver *selection.Resolver
	launcher viewer.Launcher
	history  HistoryRecorder
	logger   *slog.Logger

	mu       sync.Mutex
	registry eventhub.Registry
	subs     []string
}

// New builds an unregistered action.
func New(deps Deps) (*ViewerAction, error) {
	if deps.Config == nil {
		return nil, services.Wrap(services.ErrConfiguration, "action", "new", "config required", nil)
	}
	if deps.Client == nil || deps.Launcher == nil {
		return nil, services.Wrap(services.ErrConfiguration, "action", "new", "tracking client and launcher required", nil)
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	item := selection.MenuItem{
		Label:            deps.Config.Action.Label,
		ActionIdentifier: deps.Config.Action.Identifier,
		Icon:             deps.Config.Action.Icon,
	}
	return &ViewerAction{
		cfg:      deps.Config,
		client:   deps.Client,
		resolver: selection.NewResolver(deps.Client, item, logger),
		launcher: deps.Launcher,
		history:  deps.History,
		logger:   logging.NewComponentLogger(logger, "action"),
	}, nil
}

// Register builds the action and subscribes it on registry without blocking.
// The returned action can later be removed with Unregister.
func Register(registry eventhub.Registry, deps Deps) (*ViewerAction, error) {
	a, err := New(deps)
	if err != nil {
		return nil, err
	}
	if err := a.Register(registry); err != nil {
		return nil, err
	}
	return a, nil
}

// Subscriptions returns the discovery and launch expressions for the
// configured user and action.
func (a *ViewerAction) Subscriptions() (discover, launch string) {
	user := a.cfg.Action.Username
	discover = fmt.Sprintf("topic=%s and source.user.username=%s", TopicDiscover, user)
	launch = fmt.Sprintf("topic=%s and source.user.username=%s and data.actionIdentifier=%s",
		TopicLaunch, user, a.cfg.Action.Identifier)
	return discover, launch
}

// Register subscribes the discovery and launch handlers.
func (a *ViewerAction) Register(registry eventhub.Registry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.registry != nil {
		return fmt.Errorf("action %s already registered", a.cfg.Action.Identifier)
	}

	discoverExpr, launchExpr := a.Subscriptions()
	discoverID, err := registry.Subscribe(discoverExpr, a.Discover)
	if err != nil {
		return fmt.Errorf("subscribe discover: %w", err)
	}
	launchID, err := registry.Subscribe(launchExpr, a.Launch)
	if err != nil {
		_ = registry.Unsubscribe(discoverID)
		return fmt.Errorf("subscribe launch: %w", err)
	}

	a.registry = registry
	a.subs = []string{discoverID, launchID}
	a.logger.Info("action registered",
		logging.String("identifier", a.cfg.Action.Identifier),
		logging.String("username", a.cfg.Action.Username),
	)
	return nil
}

// Unregister removes every subscription made by Register.
func (a *ViewerAction) Unregister() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.registry == nil {
		return nil
	}
	var errs []error
	for _, id := range a.subs {
		if err := a.registry.Unsubscribe(id); err != nil {
			errs = append(errs, err)
		}
	}
	a.registry = nil
	a.subs = nil
	a.logger.Info("action unregistered", logging.String("identifier", a.cfg.Action.Identifier))
	return errors.Join(errs...)
}

// Discover answers discovery events. Invalid selections get no reply.
func (a *ViewerAction) Discover(ctx context.Context, event eventhub.Event) (any, error) {
	refs, err := selectionFromEvent(event)
	if err != nil {
		logging.WithContext(ctx, a.logger).Debug("ignoring discovery", logging.Error(err))
		return nil, nil
	}
	item := a.resolver.Discover(ctx, refs)
	if item == nil {
		return nil, nil
	}
	return DiscoverResponse{Items: []selection.MenuItem{*item}}, nil
}

// Launch answers launch events: the component form first, then the viewer
// launch once a component was chosen.
func (a *ViewerAction) Launch(ctx context.Context, event eventhub.Event) (any, error) {
	componentID, hasValues, err := componentFromEvent(event)
	if err != nil {
		return a.fail(ctx, err), nil
	}
	if !hasValues {
		return a.componentForm(ctx, event), nil
	}
	return a.launchComponent(ctx, componentID, event.Source.User.Username), nil
}

func (a *ViewerAction) componentForm(ctx context.Context, event eventhub.Event) any {
	refs, err := selectionFromEvent(event)
	if err != nil {
		return a.fail(ctx, err)
	}
	options, err := a.resolver.Components(ctx, refs)
	if err != nil {
		return a.fail(ctx, err)
	}
	if len(options) == 0 {
		return a.fail(ctx, services.Wrap(services.ErrInvalidSelection, "action", "components", "no viewable components", nil))
	}
	return FormResponse{Items: []FormField{{
		Label: componentLabel,
		Type:  enumeratorType,
		Name:  componentField,
		Data:  options,
	}}}
}

func (a *ViewerAction) launchComponent(ctx context.Context, componentID, username string) Result {
	launchID := uuid.NewString()
	ctx = services.WithLaunchID(ctx, launchID)
	logger := logging.WithContext(ctx, a.logger).With(logging.String("component_id", componentID))
	timer := metrics.NewTimer()

	record := history.Launch{ID: launchID, ComponentID: componentID, Username: username}
	set, err := a.resolveAndStart(ctx, componentID, &record)
	if err != nil {
		result := a.fail(ctx, err)
		record.Message = result.Message
		metrics.RecordLaunch(false, failureReason(err), 0, timer.Duration())
		a.recordHistory(ctx, record)
		return result
	}

	message := fmt.Sprintf("%s launched.", a.cfg.Viewer.Label)
	record.Success = true
	record.Message = message
	metrics.RecordLaunch(true, "", set.Len(), timer.Duration())
	a.recordHistory(ctx, record)
	logger.Info("viewer launched",
		logging.String(logging.FieldEventType, "viewer_launched"),
		logging.String("frame", record.Frame),
		logging.Int("frame_count", set.Len()),
		logging.String("frame_range", set.Range()),
	)
	return Result{Success: true, Message: message}
}

func (a *ViewerAction) resolveAndStart(ctx context.Context, componentID string, record *history.Launch) (sequence.FrameSet, error) {
	component, err := a.client.GetComponent(ctx, componentID)
	if err != nil {
		return sequence.FrameSet{}, err
	}
	record.Path = component.FilesystemPath

	set, err := sequence.Expand(component.FilesystemPath)
	if err != nil {
		return sequence.FrameSet{}, err
	}
	record.FrameCount = set.Len()
	record.FrameRange = set.Range()

	frame, err := set.Representative()
	if err != nil {
		return sequence.FrameSet{}, services.Wrap(services.ErrEmptySequence, "action", "resolve frames", component.FilesystemPath, nil)
	}
	record.Frame = frame

	if err := a.launcher.Launch(ctx, frame); err != nil {
		return sequence.FrameSet{}, err
	}
	return set, nil
}

func (a *ViewerAction) fail(ctx context.Context, err error) Result {
	message := services.FailureMessage(err)
	logging.WithContext(ctx, a.logger).Warn("launch failed",
		logging.String(logging.FieldEventType, "launch_failed"),
		logging.Error(err),
	)
	return Result{Success: false, Message: message}
}

func (a *ViewerAction) recordHistory(ctx context.Context, record history.Launch) {
	if a.history == nil {
		return
	}
	if _, err := a.history.Record(ctx, record); err != nil {
		logging.WithContext(ctx, a.logger).Warn("launch history not recorded", logging.Error(err))
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, services.ErrEmptySequence):
		return "empty_sequence"
	case errors.Is(err, services.ErrInvalidPattern):
		return "invalid_pattern"
	case errors.Is(err, services.ErrNotFound):
		return "not_found"
	case errors.Is(err, services.ErrFilesystem):
		return "filesystem"
	case errors.Is(err, services.ErrLaunch):
		return "launch"
	case errors.Is(err, services.ErrInvalidSelection):
		return "invalid_selection"
	default:
		return "remote"
	}
}

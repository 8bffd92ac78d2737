package config

import "runtime"

const (
	defaultConfigDir              = "~/.config/seqview"
	defaultConfigPath             = "~/.config/seqview/config.toml"
	defaultLogDir                 = "~/.local/share/seqview/logs"
	defaultStateDir               = "~/.local/share/seqview"
	defaultTrackingTimeoutSeconds = 60
	defaultReconnectSeconds       = 5
	defaultDedupSize              = 512
	defaultActionIdentifier       = "djvviewer"
	defaultActionLabel            = "DJV Viewer"
	defaultActionIcon             = "http://a.fsdn.com/allura/p/djv/icon"
	defaultViewerLabel            = "DJV Viewer"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultHubPath                = "/ws/events"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Tracking: Tracking{
			TimeoutSeconds: defaultTrackingTimeoutSeconds,
		},
		Events: Events{
			ReconnectSeconds: defaultReconnectSeconds,
			DedupSize:        defaultDedupSize,
		},
		Action: Action{
			Identifier: defaultActionIdentifier,
			Label:      defaultActionLabel,
			Icon:       defaultActionIcon,
		},
		Viewer: Viewer{
			Binary: DefaultViewerBinary(runtime.GOOS),
			Label:  defaultViewerLabel,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DefaultViewerBinary returns the platform-specific viewer executable.
func DefaultViewerBinary(goos string) string {
	switch goos {
	case "windows":
		return `C:\Program Files\djv-1.1.0-Windows-64\bin\djv_view.exe`
	case "darwin":
		return "/Applications/DJV.app/Contents/MacOS/djv_view"
	default:
		return "djv_view"
	}
}

package platform

import "time"

// DefaultAppName is announced to the notification centre when Options
// leaves AppName empty.
const DefaultAppName = "Whiteboard"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender where the platform shows one.
	AppName string
	// IconPath, when non-empty, points to an image file shown with the
	// notification if supported.
	IconPath string
	// Timeout is how long the notification stays visible. Zero lets the
	// platform decide.
	Timeout time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}

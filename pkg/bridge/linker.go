package bridge

import "context"

// Linker is the OS URL dispatch capability the bridge runs on.
//
// OpenURL is fire-and-forget: a nil error only means the OS accepted the
// URL, not that the wallet app received it. Callback URLs addressed to the
// host application are delivered to every registered listener.
type Linker interface {
	// CanOpenURL reports whether some installed app handles the URL's scheme
	CanOpenURL(ctx context.Context, url string) (bool, error)

	// OpenURL hands the URL to the OS
	OpenURL(ctx context.Context, url string) error

	// AddURLListener registers handler for inbound URLs and returns a
	// function that removes it
	AddURLListener(handler func(url string)) (remove func())
}

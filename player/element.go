package player

// Element is the audio sink abstraction behind the controller: a native
// playback element in a view. The controller binds a source URL to it only
// at the moment playback is requested, never at render time, so the
// underlying platform cannot prefetch authenticated bytes the user never
// asked for.
type Element interface {
	// Load binds the source URL. May fail with a transport error.
	Load(src string) error
	// Play starts or resumes audible playback of the bound source.
	Play() error
	// Pause suspends playback, keeping the source bound.
	Pause()
	// Unload detaches the source entirely.
	Unload()
}

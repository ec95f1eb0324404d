package bloops

type (
	// AudioSource is anything that can fill a mono float32 buffer with
	// samples at the given rate. Synth is called from the audio device's
	// real-time callback, so implementations must not block or allocate.
	AudioSource interface {
		Synth(sampleRate int, buffer []float32)
	}

	// AudioContext is an audio device that pulls samples from a source.
	AudioContext interface {
		Play(source AudioSource) CloserWaiter
		SampleRate() int
		Close() error
	}

	// CloserWaiter stops the playback when closed. Wait blocks until the
	// playback is closed or, if the source has a Done() bool method, until the
	// source reports it is done.
	CloserWaiter interface {
		Close() error
		Wait()
	}
)

// Package pipeline sequences the external tools that transpose an
// audio file from one musical key to another.
//
// A conversion job runs five strictly sequential stages: decode the
// input to an intermediate WAV, resolve the source key (caller-supplied
// or detected), compute the semitone offset, pitch-shift, and re-encode
// back into the original format with metadata carried over. Two scratch
// files are created per job and removed on every exit path.
//
//	p := pipeline.New(settings, func(ev pipeline.ProgressEvent) {
//	    fmt.Println(ev.Message)
//	})
//
//	result, err := p.ConvertKey(ctx, pipeline.Job{
//	    InputPath: "song.mp3",
//	    OutputDir: "out",
//	    TargetKey: "Bb",
//	})
//
// Failed key detection is the one recoverable outcome: the job returns
// a StatusSkipped result instead of an error, so batch callers can
// move on to the next file. Every other stage failure is fatal for
// that job and is reported through the sentinel errors in this
// package.
package pipeline

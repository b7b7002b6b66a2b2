// Package tags reads and writes ID3 metadata on MP3 files.
//
// The pipeline re-encodes through ffmpeg, which maps the text metadata
// but does not reliably carry the attached picture. This package fills
// the gap:
//
//	tagger := tags.NewTagger(true, 1000)
//
//	title, ok, _ := tagger.ReadTitle(originalPath)
//	artwork, _ := tagger.ReadArtwork(originalPath)
//	// ... re-encode ...
//	_ = tagger.Finalize(outputPath, newTitle, artwork)
//
// Cover art can be resized to a maximum dimension before re-embedding.
// WAV files carry no ID3 tags and are left alone by the pipeline.
package tags

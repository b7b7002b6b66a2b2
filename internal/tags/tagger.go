package tags

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"github.com/bogem/id3v2"
	"golang.org/x/image/draw"
)

// Tagger reads metadata from original MP3 files and restores it on
// re-encoded outputs.
type Tagger struct {
	resize  bool
	maxSize int
}

// NewTagger creates a Tagger. When resize is true, re-embedded cover
// art is scaled down to fit within maxSize pixels on both axes.
func NewTagger(resize bool, maxSize int) *Tagger {
	return &Tagger{resize: resize, maxSize: maxSize}
}

// ReadTitle returns the title tag of an MP3 file. ok is false when the
// file has no tags or no title frame.
func (t *Tagger) ReadTitle(path string) (title string, ok bool, err error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return "", false, err
	}
	defer tag.Close()

	title = tag.Title()
	return title, title != "", nil
}

// ReadArtwork returns the first attached picture of an MP3 file, or
// nil when the file carries none.
func (t *Tagger) ReadArtwork(path string) ([]byte, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer tag.Close()

	frames := tag.GetFrames(tag.CommonID("Attached picture"))
	for _, frame := range frames {
		pic, ok := frame.(id3v2.PictureFrame)
		if !ok {
			continue
		}
		return pic.Picture, nil
	}
	return nil, nil
}

// Finalize rewrites the title tag on a re-encoded MP3 and re-embeds
// cover art (resized when configured). A nil artwork leaves the
// picture frames untouched.
func (t *Tagger) Finalize(path, title string, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.SetTitle(title)

	if artwork != nil {
		if t.resize {
			if resized, err := resizeImage(artwork, t.maxSize, t.maxSize); err == nil {
				artwork = resized
			}
			// On decode failure the original bytes are embedded as is.
		}

		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     artwork,
		})
	}

	return tag.Save()
}

// resizeImage scales an image to fit within the given maximum
// dimensions, preserving aspect ratio, and re-encodes it as JPEG.
// Catmull-Rom is used for high-quality scaling.
func resizeImage(data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

package transform

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	_ "image/gif" // register GIF decoder

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"

	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/quellen/scene-tier-pipeline/internal/scene"
)

// TextureRecompress decodes every embedded texture, downscales it to fit the
// target dimensions (never upscales) and re-encodes it in the target format.
type TextureRecompress struct {
	Format    string // "webp", "jpeg" or "png"
	MaxWidth  int
	MaxHeight int
	Quality   int // jpeg only; webp output is lossless, png ignores it
}

func (TextureRecompress) Kind() Kind { return KindTexture }

func (t TextureRecompress) Apply(_ context.Context, doc *scene.Document) error {
	if t.MaxWidth <= 0 || t.MaxHeight <= 0 {
		return fmt.Errorf("invalid target size %dx%d", t.MaxWidth, t.MaxHeight)
	}
	for i := range doc.Textures {
		if err := t.recompress(&doc.Textures[i]); err != nil {
			return fmt.Errorf("texture %d (%s): %w", i, doc.Textures[i].Name, err)
		}
	}
	return nil
}

func (t TextureRecompress) recompress(tex *scene.Texture) error {
	if len(tex.Data) == 0 {
		return nil
	}

	img, _, err := image.Decode(bytes.NewReader(tex.Data))
	if err != nil {
		return fmt.Errorf("decode (%s): %w", sniffMIME(tex), err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > t.MaxWidth || bounds.Dy() > t.MaxHeight {
		img = imaging.Fit(img, t.MaxWidth, t.MaxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	var mime string
	switch t.Format {
	case "webp":
		if err := nativewebp.Encode(&buf, img, nil); err != nil {
			return fmt.Errorf("encode webp: %w", err)
		}
		mime = "image/webp"
	case "jpeg", "jpg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: t.Quality}); err != nil {
			return fmt.Errorf("encode jpeg: %w", err)
		}
		mime = "image/jpeg"
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
		mime = "image/png"
	default:
		return fmt.Errorf("unsupported target format %q", t.Format)
	}

	out := img.Bounds()
	tex.Data = buf.Bytes()
	tex.MIME = mime
	tex.Width = out.Dx()
	tex.Height = out.Dy()
	return nil
}

// sniffMIME reports the stored MIME, falling back to content sniffing for
// textures that arrived untagged. Diagnostic only.
func sniffMIME(tex *scene.Texture) string {
	if tex.MIME != "" {
		return tex.MIME
	}
	if kind, err := filetype.Match(tex.Data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	return "unknown"
}

package composite

import (
	"bytes"
	"context"
	"fmt"
	"image"

	// Formats the generation API may hand back besides png and jpeg.
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/mhpenta/pinflow/datauri"
)

// decodePair decodes both source photographs concurrently. The first
// failure cancels the join and is returned; there is no partial result.
func decodePair(ctx context.Context, top, bottom string) (image.Image, image.Image, error) {
	var topImg, bottomImg image.Image

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		img, err := decodeImage(ctx, "top", top)
		topImg = img
		return err
	})
	g.Go(func() error {
		img, err := decodeImage(ctx, "bottom", bottom)
		bottomImg = img
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return topImg, bottomImg, nil
}

func decodeImage(ctx context.Context, which, payload string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := datauri.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s image: %v", ErrDecode, which, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s image: empty payload", ErrDecode, which)
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s image: %v", ErrDecode, which, err)
	}
	return img, nil
}

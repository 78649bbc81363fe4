package pngraw

import (
	"golang.org/x/sync/errgroup"
)

// Image is the result of decoding the PNG container layer: the validated
// header and the inflated, still-filtered scanline stream. Defiltering
// and pixel conversion are the caller's business.
type Image struct {
	Header ImageHeader
	Data   []byte
}

// Decode parses the complete PNG file in buf down to the raw inflated
// scanline stream. Header validation and image-data inflation only read
// the finished chunk sequence, so they run concurrently; the first error
// wins and no partial Image is ever returned.
func Decode(buf []byte) (*Image, error) {
	chunks, err := ParseContainer(buf)
	if err != nil {
		return nil, err
	}

	var (
		g   errgroup.Group
		img Image
	)
	g.Go(func() error {
		hdr, err := ParseHeader(chunks[0])
		if err != nil {
			return err
		}
		img.Header = hdr
		return nil
	})
	g.Go(func() error {
		data, err := AssembleAndInflate(chunks, nil)
		if err != nil {
			return err
		}
		img.Data = data
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &img, nil
}

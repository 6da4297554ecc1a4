package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/schemamap/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><circle cx="5" cy="5" r="4"/></svg>`

func TestConvert(t *testing.T) {
	ctx := context.Background()
	if !ConverterAvailable() {
		_, err := ToPDF(ctx, []byte(tinySVG))
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("ToPDF without rsvg-convert: err = %v, want UNSUPPORTED", err)
		}
		t.Skip("rsvg-convert not installed")
	}

	pdf, err := ToPDF(ctx, []byte(tinySVG))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("ToPDF output starts with %q", pdf[:min(8, len(pdf))])
	}

	png, err := ToPNG(ctx, []byte(tinySVG), 2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("ToPNG output starts with %q", png[:min(8, len(png))])
	}
}

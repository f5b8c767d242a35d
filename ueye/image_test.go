package ueye_test

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nasa-jpl/golab-ueye/ueye"
)

func TestUnpadBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 0, 4, 5, 6, 0}
	out, err := ueye.UnpadBuffer(buf, 4, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{1, 2, 3, 4, 5, 6}, out); diff != "" {
		t.Errorf("unpadded mismatch (-want +got):\n%s", diff)
	}
}

func TestUnpadBufferLastRowShort(t *testing.T) {
	// the final row need not carry its padding
	buf := []byte{1, 2, 0, 0, 3, 4}
	out, err := ueye.UnpadBuffer(buf, 4, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{1, 2, 3, 4}, out); diff != "" {
		t.Errorf("unpadded mismatch (-want +got):\n%s", diff)
	}
}

func TestUnpadBufferErrors(t *testing.T) {
	if _, err := ueye.UnpadBuffer(make([]byte, 16), 4, 5, 2); err == nil {
		t.Error("expected an error for a row longer than the pitch")
	}
	if _, err := ueye.UnpadBuffer(make([]byte, 6), 4, 4, 2); err == nil {
		t.Error("expected an error for a short buffer")
	}
}

func TestShape(t *testing.T) {
	cases := []struct {
		bpp  int
		want []int
	}{
		{8, []int{4, 6}},
		{16, []int{4, 6, 2}},
		{24, []int{4, 6, 3}},
		{64, []int{4, 6, 8}},
	}
	for _, c := range cases {
		im := ueye.Image{Width: 6, Height: 4, BitsPerPixel: c.bpp}
		if diff := cmp.Diff(c.want, im.Shape()); diff != "" {
			t.Errorf("%d bpp shape mismatch (-want +got):\n%s", c.bpp, diff)
		}
	}
}

func TestToImageMono8(t *testing.T) {
	im := ueye.Image{Width: 2, Height: 2, BitsPerPixel: 8, ColorMode: ueye.Mono8, Pix: []byte{1, 2, 3, 4}}
	out, err := im.ToImage()
	if err != nil {
		t.Fatal(err)
	}
	g, ok := out.(*image.Gray)
	if !ok {
		t.Fatalf("expected *image.Gray, got %T", out)
	}
	if v := g.GrayAt(1, 1).Y; v != 4 {
		t.Errorf("expected 4 at (1,1), got %d", v)
	}
}

func TestToImageMono12Scaled(t *testing.T) {
	// one pixel at full scale 0x0fff, little endian
	im := ueye.Image{Width: 1, Height: 1, BitsPerPixel: 16, ColorMode: ueye.Mono12, Pix: []byte{0xff, 0x0f}}
	out, err := im.ToImage()
	if err != nil {
		t.Fatal(err)
	}
	g, ok := out.(*image.Gray16)
	if !ok {
		t.Fatalf("expected *image.Gray16, got %T", out)
	}
	if v := g.Gray16At(0, 0).Y; v != 0xfff0 {
		t.Errorf("expected 0xfff0, got %#x", v)
	}
}

func TestToImageBGR(t *testing.T) {
	im := ueye.Image{Width: 1, Height: 1, BitsPerPixel: 24, ColorMode: ueye.BGR8Packed, Pix: []byte{10, 20, 30}}
	out, err := im.ToImage()
	if err != nil {
		t.Fatal(err)
	}
	c, ok := out.(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA, got %T", out)
	}
	px := c.RGBAAt(0, 0)
	if px.R != 30 || px.G != 20 || px.B != 10 || px.A != 0xff {
		t.Errorf("expected (30,20,10,255), got %v", px)
	}
}

func TestToImageUnsupported(t *testing.T) {
	im := ueye.Image{Width: 1, Height: 1, BitsPerPixel: 16, ColorMode: ueye.BGR565Packed, Pix: []byte{0, 0}}
	if _, err := im.ToImage(); err == nil {
		t.Error("expected an error converting BGR565")
	}
}

func TestSamplesShortBuffer(t *testing.T) {
	im := ueye.Image{Width: 4, Height: 4, BitsPerPixel: 8, ColorMode: ueye.Mono8, Pix: make([]byte, 3)}
	if _, _, err := im.Samples(); err == nil {
		t.Error("expected an error for a buffer smaller than the frame")
	}
}

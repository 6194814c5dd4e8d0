package colormodel

import "testing"

func TestStudioRangeClamp(t *testing.T) {
	y, cb, cr := RGBToYCbCr(0, 0, 0, YCbCr601)
	if y < 16 || y > 235 {
		t.Errorf("Y = %d out of studio range", y)
	}
	if cb < 16 || cb > 240 || cr < 16 || cr > 240 {
		t.Errorf("Cb/Cr = %d/%d out of studio range", cb, cr)
	}
}

func TestFullRangeWhiteBlack(t *testing.T) {
	y, cb, cr := RGBToYCbCr(255, 255, 255, YCbCrFull)
	if y != 255 || cb != 128 || cr != 128 {
		t.Errorf("white -> Y=%d Cb=%d Cr=%d, want 255/128/128", y, cb, cr)
	}
	y, cb, cr = RGBToYCbCr(0, 0, 0, YCbCrFull)
	if y != 0 || cb != 128 || cr != 128 {
		t.Errorf("black -> Y=%d Cb=%d Cr=%d, want 0/128/128", y, cb, cr)
	}
}

func TestDownsampleUpsampleDims(t *testing.T) {
	w, h := 9, 7
	data := make([]byte, w*h)
	for i := range data {
		data[i] = byte(i % 256)
	}
	small := Downsample420(data, w, h)
	w2, h2 := (w+1)/2, (h+1)/2
	if len(small) != w2*h2 {
		t.Fatalf("downsampled len = %d, want %d", len(small), w2*h2)
	}
	full := Upsample420(small, w2, h2, w, h)
	if len(full) != w*h {
		t.Fatalf("upsampled len = %d, want %d", len(full), w*h)
	}
}

func TestDownsampleConstantPlane(t *testing.T) {
	w, h := 8, 8
	data := make([]byte, w*h)
	for i := range data {
		data[i] = 100
	}
	small := Downsample420(data, w, h)
	for _, v := range small {
		if v != 100 {
			t.Errorf("constant-plane downsample = %d, want 100", v)
		}
	}
}

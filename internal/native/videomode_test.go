package native

import "testing"

func modes() []VideoMode {
	return []VideoMode{
		{Width: 1280, Height: 720, RefreshMilliHz: 60000},
		{Width: 1920, Height: 1080, RefreshMilliHz: 60000},
		{Width: 1920, Height: 1080, RefreshMilliHz: 144000},
		{Width: 800, Height: 600, RefreshMilliHz: 75000},
	}
}

func TestBestVideoMode(t *testing.T) {
	m := &Monitor{VideoModes: modes()}
	vm, ok := BestVideoMode(m)
	if !ok {
		t.Fatalf("expected a mode")
	}
	want := VideoMode{Width: 1920, Height: 1080, RefreshMilliHz: 144000}
	if vm != want {
		t.Fatalf("expected %+v, got %+v", want, vm)
	}
}

func TestBestVideoModeEmpty(t *testing.T) {
	if _, ok := BestVideoMode(&Monitor{}); ok {
		t.Fatalf("monitor without modes must report no mode")
	}
	if _, ok := BestVideoMode(nil); ok {
		t.Fatalf("nil monitor must report no mode")
	}
}

func TestFittingVideoMode(t *testing.T) {
	m := &Monitor{VideoModes: modes()}

	tests := []struct {
		name          string
		width, height int
		want          VideoMode
	}{
		{"exact", 800, 600, VideoMode{Width: 800, Height: 600, RefreshMilliHz: 75000}},
		{"near", 1300, 700, VideoMode{Width: 1280, Height: 720, RefreshMilliHz: 60000}},
		{"tie prefers refresh", 1920, 1080, VideoMode{Width: 1920, Height: 1080, RefreshMilliHz: 144000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm, ok := FittingVideoMode(m, tt.width, tt.height)
			if !ok {
				t.Fatalf("expected a mode")
			}
			if vm != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, vm)
			}
		})
	}
}

func TestFullscreenEqual(t *testing.T) {
	vm := VideoMode{Width: 1920, Height: 1080, RefreshMilliHz: 60000}
	borderless := &Fullscreen{}
	exclusive := &Fullscreen{Exclusive: true, Mode: vm}

	if !(*Fullscreen)(nil).Equal(nil) {
		t.Fatalf("nil must equal nil")
	}
	if borderless.Equal(nil) || exclusive.Equal(nil) {
		t.Fatalf("fullscreen must not equal windowed")
	}
	if !borderless.Equal(&Fullscreen{}) {
		t.Fatalf("borderless must equal borderless")
	}
	if borderless.Equal(exclusive) {
		t.Fatalf("borderless must not equal exclusive")
	}
	if !exclusive.Equal(&Fullscreen{Exclusive: true, Mode: vm}) {
		t.Fatalf("exclusive with same mode must be equal")
	}
	if exclusive.Equal(&Fullscreen{Exclusive: true, Mode: VideoMode{Width: 800, Height: 600}}) {
		t.Fatalf("exclusive with different mode must differ")
	}
}

// Package frontend is the SDL2 reference adapter spec's run_frame
// operation is driven through: a window with the two stacked NDS
// screens, an SDL audio queue fed with each frame's PCM samples, and
// keyboard/mouse polling translated into the console's key mask and
// touch state. Grounded on the teacher's own gui/sdlplay package, which
// wraps the same triple of window/renderer/texture plus a service
// channel for calls that must run on the SDL main thread.
package frontend

import (
	"github.com/kaedeo/dscore/hardware"
	"github.com/kaedeo/dscore/logger"
	"github.com/veandco/go-sdl2/sdl"
)

const windowTitle = "dscore"

// KeyBindings maps SDL scancodes onto the 10-bit NDS key mask bit
// positions (A, B, Select, Start, Right, Left, Up, Down, R, L), per the
// documented KEYINPUT bit order.
var KeyBindings = map[sdl.Scancode]uint16{
	sdl.SCANCODE_X:         1 << 0,
	sdl.SCANCODE_Z:         1 << 1,
	sdl.SCANCODE_BACKSPACE: 1 << 2,
	sdl.SCANCODE_RETURN:    1 << 3,
	sdl.SCANCODE_RIGHT:     1 << 4,
	sdl.SCANCODE_LEFT:      1 << 5,
	sdl.SCANCODE_UP:        1 << 6,
	sdl.SCANCODE_DOWN:      1 << 7,
	sdl.SCANCODE_S:         1 << 8,
	sdl.SCANCODE_A:         1 << 9,
}

// Frontend owns the SDL window, renderer, the two screen textures and
// the audio device for one running Console.
type Frontend struct {
	console *hardware.Console

	window   *sdl.Window
	renderer *sdl.Renderer
	top      *sdl.Texture
	bottom   *sdl.Texture

	audioDev sdl.AudioDeviceID

	keys      uint16
	lastAudio []int16
}

// New opens an SDL window sized for two stacked NDS screens at scale
// pixels per NDS pixel, plus an SDL audio device at the console's
// configured sample rate.
func New(console *hardware.Console, scale int) (*Frontend, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, err
	}

	w := int32(hardware.ScreenWidth * scale)
	h := int32(hardware.ScreenHeight * 2 * scale)

	window, err := sdl.CreateWindow(windowTitle,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, w, h, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, err
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, err
	}

	top, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_BGRA8888),
		sdl.TEXTUREACCESS_STREAMING, hardware.ScreenWidth, hardware.ScreenHeight)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, err
	}
	bottom, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_BGRA8888),
		sdl.TEXTUREACCESS_STREAMING, hardware.ScreenWidth, hardware.ScreenHeight)
	if err != nil {
		top.Destroy()
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, err
	}

	dev, err := sdl.OpenAudioDevice("", false, &sdl.AudioSpec{
		Freq:     int32(console.Prefs.AudioSampleRate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  1024,
	}, nil, 0)
	if err != nil {
		bottom.Destroy()
		top.Destroy()
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, err
	}
	sdl.PauseAudioDevice(dev, false)

	return &Frontend{
		console:  console,
		window:   window,
		renderer: renderer,
		top:      top,
		bottom:   bottom,
		audioDev: dev,
	}, nil
}

// PollEvents drains pending SDL events into the console's key mask and
// touch state, returning false once a quit event has been seen.
func (f *Frontend) PollEvents() bool {
	for {
		ev := sdl.PollEvent()
		if ev == nil {
			break
		}
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			f.handleKey(e)
		case *sdl.MouseButtonEvent:
			f.handleTouch(e)
		case *sdl.MouseMotionEvent:
			if e.State&sdl.ButtonLMask() != 0 {
				f.console.Touch(clampCoord(e.X, hardware.ScreenWidth), clampCoord(e.Y-int32(hardware.ScreenHeight), hardware.ScreenHeight))
			}
		}
	}
	return true
}

func (f *Frontend) handleKey(e *sdl.KeyboardEvent) {
	bit, ok := KeyBindings[e.Keysym.Scancode]
	if !ok {
		return
	}
	if e.State == sdl.PRESSED {
		f.keys |= bit
	} else {
		f.keys &^= bit
	}
	f.console.SetKeyMask(f.keys)
}

func (f *Frontend) handleTouch(e *sdl.MouseButtonEvent) {
	if e.Button != sdl.BUTTON_LEFT {
		return
	}
	if e.State == sdl.PRESSED {
		f.console.Touch(clampCoord(e.X, hardware.ScreenWidth), clampCoord(e.Y-int32(hardware.ScreenHeight), hardware.ScreenHeight))
	} else {
		f.console.ReleaseTouch()
	}
}

func clampCoord(v int32, max int) uint16 {
	if v < 0 {
		return 0
	}
	if int(v) >= max {
		return uint16(max - 1)
	}
	return uint16(v)
}

// Present runs one emulated frame, blits its two screens to the window
// and queues its audio samples to the open device. The frame's audio
// is retained for LastAudio, for an optional audiocapture sink the
// caller may be feeding from the same loop.
func (f *Frontend) Present() error {
	out := f.console.RunFrame()
	f.lastAudio = out.Audio

	if err := f.top.Update(nil, out.Top[:], hardware.ScreenWidth*4); err != nil {
		return err
	}
	if err := f.bottom.Update(nil, out.Bottom[:], hardware.ScreenWidth*4); err != nil {
		return err
	}

	f.renderer.Clear()
	topRect := &sdl.Rect{X: 0, Y: 0, W: int32(hardware.ScreenWidth), H: int32(hardware.ScreenHeight)}
	bottomRect := &sdl.Rect{X: 0, Y: int32(hardware.ScreenHeight), W: int32(hardware.ScreenWidth), H: int32(hardware.ScreenHeight)}
	if err := f.renderer.Copy(f.top, nil, topRect); err != nil {
		return err
	}
	if err := f.renderer.Copy(f.bottom, nil, bottomRect); err != nil {
		return err
	}
	f.renderer.Present()

	if len(out.Audio) > 0 {
		if err := sdl.QueueAudio(f.audioDev, int16ToBytes(out.Audio)); err != nil {
			logger.Log("frontend", "audio queue failed: %v", err)
		}
	}
	return nil
}

// LastAudio returns the PCM samples produced by the most recent
// Present call.
func (f *Frontend) LastAudio() []int16 { return f.lastAudio }

func int16ToBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}
	return buf
}

// Close tears down every SDL resource this Frontend opened.
func (f *Frontend) Close() {
	sdl.CloseAudioDevice(f.audioDev)
	f.top.Destroy()
	f.bottom.Destroy()
	f.renderer.Destroy()
	f.window.Destroy()
	sdl.Quit()
}

package device

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/li20034/mono-sense-hat/apimodel"
	"github.com/li20034/mono-sense-hat/internal/led"
	"github.com/li20034/mono-sense-hat/internal/srv/event"
)

// stubLoop answers api events like the server event loop would, recording
// what it received.
type stubLoop struct {
	received []interface{}
	err      error
}

func (s *stubLoop) run(ctx context.Context, ch chan event.ApiEvent) {
	for {
		select {
		case ev := <-ch:
			s.received = append(s.received, ev.Data)
			switch data := ev.Data.(type) {
			case event.ApiEventPixelsGetData:
				data.Pixels[0] = 0xf800
			case event.ApiEventSnapshotData:
				b := led.NewBuffer()
				b.Set(0, 0, 0xf800)
				*data.Snapshot = b
			case event.ApiEventGammaGetData:
				*data.Gamma = led.DefaultGamma
			case event.ApiEventStateData:
				*data.State = event.State{Rotation: led.Rotate180, HasGamma: true}
			}
			ev.Result <- s.err
		case <-ctx.Done():
			return
		}
	}
}

func newTestApi(t *testing.T) (*Api, *stubLoop) {
	t.Helper()
	api := NewApi(newTestConfig(t))
	loop := &stubLoop{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.run(ctx, api.EventChannel())
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return api, loop
}

func do(api *Api, method, path, key string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if key != "" {
		req.Header.Set("x-api-key", key)
	}
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	return rec
}

func TestApiAuth(t *testing.T) {
	api, _ := newTestApi(t)

	if rec := do(api, "GET", "/api/is_alive", "", nil); rec.Code != http.StatusForbidden {
		t.Errorf("no key: status = %d, want 403", rec.Code)
	}
	if rec := do(api, "GET", "/api/is_alive", "wrong", nil); rec.Code != http.StatusForbidden {
		t.Errorf("wrong key: status = %d, want 403", rec.Code)
	}

	rec := do(api, "GET", "/api/is_alive", "secret", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var msg apimodel.ErrorMessage
	if err := json.NewDecoder(rec.Body).Decode(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.ErrStatusCode != http.StatusOK || msg.ErrMessage != "Ok" {
		t.Errorf("body = %+v", msg)
	}
}

func TestApiRoutes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		want   interface{}
	}{
		{"fill", "POST", "/api/fill", `{"color":"#00ff00"}`, 200, event.ApiEventFillData{Color: 0x07e0}},
		{"fill bad color", "POST", "/api/fill", `{"color":"green"}`, 400, nil},
		{"clear", "POST", "/api/clear", ``, 200, event.ApiEventClearData{}},
		{"pixel", "PUT", "/api/pixel/3/4", `{"color":"0x001f"}`, 200, event.ApiEventPixelSetData{X: 3, Y: 4, Color: 0x001f}},
		{"pixel not a number", "PUT", "/api/pixel/a/4", `{"color":"0x001f"}`, 404, nil},
		{"letter", "POST", "/api/letter", `{"letter":"A","color":"#0000ff"}`, 200, event.ApiEventLetterData{Letter: 'A', Color: 0x001f}},
		{"letter default color", "POST", "/api/letter", `{"letter":"z"}`, 200, event.ApiEventLetterData{Letter: 'z', Color: 0xf800}},
		{"letter too long", "POST", "/api/letter", `{"letter":"AB"}`, 400, nil},
		{"message", "POST", "/api/message", `{"text":"Hi","delay":20}`, 202, event.ApiEventMessageData{Text: "Hi", Color: 0xf800, Delay: 20 * time.Millisecond}},
		{"message default delay", "POST", "/api/message", `{"text":"Hi","color":"#fff"}`, 202, event.ApiEventMessageData{Text: "Hi", Color: 0xffff, Delay: 50 * time.Millisecond}},
		{"message negative delay", "POST", "/api/message", `{"text":"Hi","delay":-1}`, 400, nil},
		{"message stop", "DELETE", "/api/message", ``, 200, event.ApiEventMessageStopData{}},
		{"rotation", "PUT", "/api/rotation/flip_h", ``, 200, event.ApiEventRotationData{Rotation: led.FlipH}},
		{"rotation invalid", "PUT", "/api/rotation/45", ``, 400, nil},
		{"low light on", "PUT", "/api/lowlight/on", ``, 200, event.ApiEventLowLightData{On: true}},
		{"low light off", "PUT", "/api/lowlight/off", ``, 200, event.ApiEventLowLightData{On: false}},
		{"low light invalid", "PUT", "/api/lowlight/dim", ``, 400, nil},
		{"gamma out of range", "PUT", "/api/gamma", `{"gamma":[32]}`, 400, nil},
		{"gamma reset", "DELETE", "/api/gamma", ``, 200, event.ApiEventGammaResetData{}},
		{"pixels bad json", "PUT", "/api/pixels", `{"pixels":`, 400, nil},
		{"unknown", "GET", "/api/nothing", ``, 404, nil},
		{"wrong method", "GET", "/api/fill", ``, 405, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, loop := newTestApi(t)
			rec := do(api, tt.method, tt.path, "secret", []byte(tt.body))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.want == nil {
				if len(loop.received) != 0 {
					t.Errorf("event sent for a rejected request: %#v", loop.received)
				}
				return
			}
			if len(loop.received) != 1 || fmt.Sprintf("%#v", loop.received[0]) != fmt.Sprintf("%#v", tt.want) {
				t.Errorf("events = %#v, want %#v", loop.received, tt.want)
			}
		})
	}
}

func TestApiPixels(t *testing.T) {
	api, loop := newTestApi(t)

	rec := do(api, "GET", "/api/pixels?buffer=back", "secret", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var msg apimodel.PixelsMessage
	if err := json.NewDecoder(rec.Body).Decode(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Buffer != "back" || len(msg.Pixels) != led.Size || msg.Pixels[0] != 0xf800 {
		t.Errorf("body = %+v", msg)
	}
	if got := loop.received[0].(event.ApiEventPixelsGetData).Role; got != led.Back {
		t.Errorf("role = %v, want back", got)
	}

	if rec := do(api, "GET", "/api/pixels?buffer=middle", "secret", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("buffer=middle status = %d, want 400", rec.Code)
	}

	body, _ := json.Marshal(apimodel.PixelsMessage{Pixels: []uint16{1, 2, 3}})
	if rec := do(api, "PUT", "/api/pixels", "secret", body); rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d", rec.Code)
	}
	set := loop.received[len(loop.received)-1].(event.ApiEventPixelsSetData)
	if len(set.Pixels) != 3 || set.Pixels[2] != 3 {
		t.Errorf("pixels = %v", set.Pixels)
	}

	rec = do(api, "GET", "/api/snapshot.png", "secret", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("snapshot status = %d, type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("snapshot is not a png: %v", err)
	}
	if got := led.Model.Convert(img.At(0, 0)); got != led.Color16(0xf800) {
		t.Errorf("snapshot (0,0) = %v, want 0xf800", got)
	}
	if got := loop.received[len(loop.received)-1].(event.ApiEventSnapshotData).Role; got != led.Front {
		t.Errorf("snapshot role = %v, want front", got)
	}
}

func TestApiGammaAndState(t *testing.T) {
	api, loop := newTestApi(t)

	rec := do(api, "GET", "/api/gamma", "secret", nil)
	var gamma apimodel.GammaMessage
	if err := json.NewDecoder(rec.Body).Decode(&gamma); err != nil {
		t.Fatal(err)
	}
	if len(gamma.Gamma) != led.GammaSize || gamma.Gamma[31] != 0x1f {
		t.Errorf("gamma = %v", gamma.Gamma)
	}

	body, _ := json.Marshal(apimodel.GammaMessage{Gamma: gamma.Gamma})
	if rec := do(api, "PUT", "/api/gamma", "secret", body); rec.Code != http.StatusOK {
		t.Fatalf("PUT gamma status = %d", rec.Code)
	}
	set := loop.received[len(loop.received)-1].(event.ApiEventGammaSetData)
	if len(set.Gamma) != led.GammaSize || set.Gamma[31] != 0x1f {
		t.Errorf("gamma sent = %v", set.Gamma)
	}

	rec = do(api, "GET", "/api/state", "secret", nil)
	var state apimodel.StateResponse
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if state.Rotation != "180" || !state.HasGamma || state.Scrolling {
		t.Errorf("state = %+v", state)
	}
}

func TestApiImage(t *testing.T) {
	api, loop := newTestApi(t)

	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	png.Encode(&buf, src)

	if rec := do(api, "POST", "/api/image", "secret", buf.Bytes()); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	img := loop.received[0].(event.ApiEventImageData).Image
	if b := img.Bounds(); b.Dx() != led.Width || b.Dy() != led.Height {
		t.Errorf("image bounds = %v, want 8x8", b)
	}
	if r, g, b, _ := img.At(3, 3).RGBA(); r < 0xf000 || g < 0xf000 || b < 0xf000 {
		t.Errorf("pixel = %x,%x,%x, want white", r, g, b)
	}

	if rec := do(api, "POST", "/api/image", "secret", []byte("garbage")); rec.Code != http.StatusBadRequest {
		t.Errorf("garbage image status = %d, want 400", rec.Code)
	}
}

func TestApiLoopError(t *testing.T) {
	api, loop := newTestApi(t)
	loop.err = fmt.Errorf("%w: commit: i2c nack", led.ErrDriverCallFailed)

	rec := do(api, "POST", "/api/clear", "secret", nil)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "i2c nack") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{led.ErrOutOfRange, 400},
		{fmt.Errorf("%w: x", led.ErrLengthMismatch), 400},
		{led.ErrInvalidDimensions, 400},
		{led.ErrUnsupportedChar, 400},
		{led.ErrNotActive, 409},
		{event.ErrScrolling, 409},
		{led.ErrAllocationFailed, 502},
		{context.Canceled, 503},
		{errors.New("boom"), 500},
	}

	for _, tt := range tests {
		if got := ErrorStatus(tt.err); got != tt.want {
			t.Errorf("ErrorStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

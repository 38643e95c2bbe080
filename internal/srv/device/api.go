package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime/debug"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/li20034/mono-sense-hat/apimodel"
	"github.com/li20034/mono-sense-hat/internal/images"
	"github.com/li20034/mono-sense-hat/internal/led"
	"github.com/li20034/mono-sense-hat/internal/srv/config"
	"github.com/li20034/mono-sense-hat/internal/srv/event"
	"github.com/li20034/mono-sense-hat/internal/tool"
	"github.com/sirupsen/logrus"
)

const maxImageSize = 8 << 20

type Api struct {
	eventChannel chan event.ApiEvent

	router    *mux.Router
	apiRouter *mux.Router
	server    *http.Server

	config *config.ServerConfig
}

func NewApi(config *config.ServerConfig) *Api {
	api := Api{
		config:       config,
		eventChannel: make(chan event.ApiEvent),
	}

	api.router = mux.NewRouter().StrictSlash(false)

	// API Routes
	api.apiRouter = api.router.PathPrefix("/api").Subrouter()
	api.apiRouter.NotFoundHandler = http.HandlerFunc(ErrorNotFoundAction)
	api.apiRouter.MethodNotAllowedHandler = http.HandlerFunc(ErrorMethodNotAllowedAction)

	// Auth middleware
	api.apiRouter.Use(
		func(handler http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer func() {
					if rec := recover(); rec != nil {
						logrus.Warningf("recovered from panic : [%v] - stack trace : \n [%s]", rec, debug.Stack())
						GlobalErrorAction(w, fmt.Sprintf("%v", rec), http.StatusInternalServerError)
					}
				}()

				// Check API Key
				if r.Header.Get("x-api-key") != config.ServerParam.ApiParam.ApiKey {
					ErrorStatusAction(w, r, http.StatusForbidden)
					return
				}

				logrus.Debugf("PATH: %s %s %s", r.Method, r.Host, r.URL.Path)

				handler.ServeHTTP(w, r)
			})
		})

	// Create server check endpoint
	api.apiRouter.HandleFunc("/is_alive",
		func(w http.ResponseWriter, r *http.Request) {
			ErrorStatusAction(w, r, http.StatusOK)
		}).Methods("GET")

	api.apiRouter.HandleFunc("/state", api.getStateAction).Methods("GET")
	api.apiRouter.HandleFunc("/pixels", api.getPixelsAction).Methods("GET")
	api.apiRouter.HandleFunc("/pixels", api.setPixelsAction).Methods("PUT")
	api.apiRouter.HandleFunc("/pixel/{x:[0-9]+}/{y:[0-9]+}", api.setPixelAction).Methods("PUT")
	api.apiRouter.HandleFunc("/snapshot.png", api.getSnapshotAction).Methods("GET")
	api.apiRouter.HandleFunc("/fill", api.fillAction).Methods("POST")
	api.apiRouter.HandleFunc("/clear",
		func(w http.ResponseWriter, r *http.Request) {
			api.sendAction(w, r, event.ApiEventClearData{}, http.StatusOK)
		}).Methods("POST")
	api.apiRouter.HandleFunc("/letter", api.letterAction).Methods("POST")
	api.apiRouter.HandleFunc("/message", api.messageAction).Methods("POST")
	api.apiRouter.HandleFunc("/message",
		func(w http.ResponseWriter, r *http.Request) {
			api.sendAction(w, r, event.ApiEventMessageStopData{}, http.StatusOK)
		}).Methods("DELETE")
	api.apiRouter.HandleFunc("/rotation/{orientation}", api.rotationAction).Methods("PUT")
	api.apiRouter.HandleFunc("/lowlight/{state}", api.lowLightAction).Methods("PUT")
	api.apiRouter.HandleFunc("/gamma", api.getGammaAction).Methods("GET")
	api.apiRouter.HandleFunc("/gamma", api.setGammaAction).Methods("PUT")
	api.apiRouter.HandleFunc("/gamma",
		func(w http.ResponseWriter, r *http.Request) {
			api.sendAction(w, r, event.ApiEventGammaResetData{}, http.StatusOK)
		}).Methods("DELETE")
	api.apiRouter.HandleFunc("/image", api.imageAction).Methods("POST")

	// Tell the browser that it's OK for JS to communicate with the server
	headersOk := handlers.AllowedHeaders([]string{"Content-Type", "x-api-key"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})

	api.server = &http.Server{
		Addr:         ":" + strconv.FormatInt(config.ServerParam.ApiParam.Port, 10),
		Handler:      handlers.CompressHandler(handlers.CORS(originsOk, headersOk, methodsOk)(api.router)),
		ReadTimeout:  time.Second * 240,
		WriteTimeout: time.Second * 240,
		IdleTimeout:  time.Second * 240,
	}

	return &api
}

func (d *Api) Start() error {
	logrus.Infof("Start api device on port %d", d.config.ApiParam.Port)

	if !d.config.ApiParam.Tls {
		go func() {
			if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.Error(err)
			}
		}()
		return nil
	}

	certFilename, keyFilename := d.config.GetCompleteTlsFilenames()
	hostname, _ := os.Hostname()
	generated, err := tool.EnsureTlsCertificate("sensehat", "Sense HAT Server", keyFilename, certFilename, []string{hostname, "localhost"})
	if err != nil {
		return fmt.Errorf("unable to generate cert and key files: %w", err)
	}
	if generated {
		logrus.Info("Self-signed cert and key files generated")
	}

	// Launch https server
	go func() {
		if err := d.server.ListenAndServeTLS(certFilename, keyFilename); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Error(err)
		}
	}()
	return nil
}

func (d *Api) StopSendingEvent() {
	logrus.Infof("Stop api device")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.server.Shutdown(ctx); err != nil {
		logrus.Warnf("Api shutdown: %v", err)
	}
}

func (d *Api) EventChannel() chan event.ApiEvent {
	return d.eventChannel
}

// Handler returns the routes without the network listener.
func (d *Api) Handler() http.Handler {
	return d.server.Handler
}

// dispatch hands data to the event loop and waits for its result.
func (d *Api) dispatch(ctx context.Context, data interface{}) error {
	ev := event.NewApiEvent(data)
	select {
	case d.eventChannel <- ev:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-ev.Result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Api) sendAction(w http.ResponseWriter, r *http.Request, data interface{}, status int) {
	if err := d.dispatch(r.Context(), data); err != nil {
		ErrorAction(w, err)
		return
	}
	ErrorStatusAction(w, r, status)
}

func (d *Api) getStateAction(w http.ResponseWriter, r *http.Request) {
	var state event.State
	if err := d.dispatch(r.Context(), event.ApiEventStateData{State: &state}); err != nil {
		ErrorAction(w, err)
		return
	}
	JsonAction(w, http.StatusOK, apimodel.StateResponse{
		Rotation:  state.Rotation.String(),
		LowLight:  state.LowLight,
		HasGamma:  state.HasGamma,
		Scrolling: state.Scrolling,
	})
}

func parseRole(r *http.Request) (led.Role, error) {
	switch r.URL.Query().Get("buffer") {
	case "", "front":
		return led.Front, nil
	case "back":
		return led.Back, nil
	}
	return 0, fmt.Errorf("%w: buffer must be front or back", led.ErrOutOfRange)
}

func (d *Api) readPixels(r *http.Request) (led.Role, [led.Size]led.Color16, error) {
	var pixels [led.Size]led.Color16
	role, err := parseRole(r)
	if err != nil {
		return role, pixels, err
	}
	err = d.dispatch(r.Context(), event.ApiEventPixelsGetData{Role: role, Pixels: &pixels})
	return role, pixels, err
}

func (d *Api) getPixelsAction(w http.ResponseWriter, r *http.Request) {
	role, pixels, err := d.readPixels(r)
	if err != nil {
		ErrorAction(w, err)
		return
	}
	msg := apimodel.PixelsMessage{Buffer: role.String(), Pixels: make([]uint16, led.Size)}
	for i, c := range pixels {
		msg.Pixels[i] = uint16(c)
	}
	JsonAction(w, http.StatusOK, msg)
}

func (d *Api) getSnapshotAction(w http.ResponseWriter, r *http.Request) {
	role, err := parseRole(r)
	if err != nil {
		ErrorAction(w, err)
		return
	}
	var b *led.Buffer
	if err := d.dispatch(r.Context(), event.ApiEventSnapshotData{Role: role, Snapshot: &b}); err != nil {
		ErrorAction(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := images.EncodePNG(w, b); err != nil {
		logrus.Warnf("Unable to encode snapshot: %v", err)
	}
}

func (d *Api) setPixelsAction(w http.ResponseWriter, r *http.Request) {
	var msg apimodel.PixelsMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		apimodel.WrongParametersErrorMessage.SendError(w)
		return
	}
	pixels := make([]led.Color16, len(msg.Pixels))
	for i, c := range msg.Pixels {
		pixels[i] = led.Color16(c)
	}
	d.sendAction(w, r, event.ApiEventPixelsSetData{Pixels: pixels}, http.StatusOK)
}

// decodeColor reads a color request body. An empty color gives def.
func decodeColor(r *http.Request, def *led.Color16) (led.Color16, error) {
	var req apimodel.ColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return 0, err
	}
	if req.Color == "" && def != nil {
		return *def, nil
	}
	return led.ParseColor(req.Color)
}

func (d *Api) setPixelAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	x, err := strconv.Atoi(vars["x"])
	if err != nil {
		ErrorStatusAction(w, r, http.StatusBadRequest)
		return
	}
	y, err := strconv.Atoi(vars["y"])
	if err != nil {
		ErrorStatusAction(w, r, http.StatusBadRequest)
		return
	}
	c, err := decodeColor(r, nil)
	if err != nil {
		GlobalErrorAction(w, err.Error(), http.StatusBadRequest)
		return
	}
	d.sendAction(w, r, event.ApiEventPixelSetData{X: x, Y: y, Color: c}, http.StatusOK)
}

func (d *Api) fillAction(w http.ResponseWriter, r *http.Request) {
	c, err := decodeColor(r, nil)
	if err != nil {
		GlobalErrorAction(w, err.Error(), http.StatusBadRequest)
		return
	}
	d.sendAction(w, r, event.ApiEventFillData{Color: c}, http.StatusOK)
}

func (d *Api) textColor(s string) (led.Color16, error) {
	if s == "" {
		return d.config.Text.TextColor()
	}
	return led.ParseColor(s)
}

func (d *Api) letterAction(w http.ResponseWriter, r *http.Request) {
	var req apimodel.LetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apimodel.WrongParametersErrorMessage.SendError(w)
		return
	}
	if utf8.RuneCountInString(req.Letter) != 1 {
		GlobalErrorAction(w, "letter must be a single character", http.StatusBadRequest)
		return
	}
	c, err := d.textColor(req.Color)
	if err != nil {
		GlobalErrorAction(w, err.Error(), http.StatusBadRequest)
		return
	}
	ch, _ := utf8.DecodeRuneInString(req.Letter)
	d.sendAction(w, r, event.ApiEventLetterData{Letter: ch, Color: c}, http.StatusOK)
}

func (d *Api) messageAction(w http.ResponseWriter, r *http.Request) {
	var req apimodel.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apimodel.WrongParametersErrorMessage.SendError(w)
		return
	}
	c, err := d.textColor(req.Color)
	if err != nil {
		GlobalErrorAction(w, err.Error(), http.StatusBadRequest)
		return
	}
	delay := d.config.Text.ScrollDelayDuration()
	if req.Delay != nil {
		if *req.Delay < 0 {
			GlobalErrorAction(w, "delay must not be negative", http.StatusBadRequest)
			return
		}
		delay = time.Duration(*req.Delay) * time.Millisecond
	}
	d.sendAction(w, r, event.ApiEventMessageData{Text: req.Text, Color: c, Delay: delay}, http.StatusAccepted)
}

func (d *Api) rotationAction(w http.ResponseWriter, r *http.Request) {
	o, err := led.ParseOrientation(mux.Vars(r)["orientation"])
	if err != nil {
		GlobalErrorAction(w, err.Error(), http.StatusBadRequest)
		return
	}
	d.sendAction(w, r, event.ApiEventRotationData{Rotation: o}, http.StatusOK)
}

func (d *Api) lowLightAction(w http.ResponseWriter, r *http.Request) {
	var on bool
	switch mux.Vars(r)["state"] {
	case "on":
		on = true
	case "off":
	default:
		ErrorStatusAction(w, r, http.StatusBadRequest)
		return
	}
	d.sendAction(w, r, event.ApiEventLowLightData{On: on}, http.StatusOK)
}

func (d *Api) getGammaAction(w http.ResponseWriter, r *http.Request) {
	var table [led.GammaSize]uint8
	if err := d.dispatch(r.Context(), event.ApiEventGammaGetData{Gamma: &table}); err != nil {
		ErrorAction(w, err)
		return
	}
	msg := apimodel.GammaMessage{Gamma: make([]int, led.GammaSize)}
	for i, v := range table {
		msg.Gamma[i] = int(v)
	}
	JsonAction(w, http.StatusOK, msg)
}

func (d *Api) setGammaAction(w http.ResponseWriter, r *http.Request) {
	var msg apimodel.GammaMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		apimodel.WrongParametersErrorMessage.SendError(w)
		return
	}
	table := make([]uint8, len(msg.Gamma))
	for i, v := range msg.Gamma {
		if v < 0 || v > led.GammaMax {
			GlobalErrorAction(w, fmt.Sprintf("gamma[%d] = %d out of range", i, v), http.StatusBadRequest)
			return
		}
		table[i] = uint8(v)
	}
	d.sendAction(w, r, event.ApiEventGammaSetData{Gamma: table}, http.StatusOK)
}

func (d *Api) imageAction(w http.ResponseWriter, r *http.Request) {
	img, err := images.Decode(io.LimitReader(r.Body, maxImageSize))
	if err != nil {
		GlobalErrorAction(w, err.Error(), http.StatusBadRequest)
		return
	}
	d.sendAction(w, r, event.ApiEventImageData{Image: img}, http.StatusOK)
}

// ErrorStatus maps display errors to HTTP status codes.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, led.ErrOutOfRange),
		errors.Is(err, led.ErrLengthMismatch),
		errors.Is(err, led.ErrInvalidDimensions),
		errors.Is(err, led.ErrUnsupportedChar):
		return http.StatusBadRequest
	case errors.Is(err, led.ErrAlreadyActive),
		errors.Is(err, led.ErrNotActive),
		errors.Is(err, event.ErrScrolling):
		return http.StatusConflict
	case errors.Is(err, led.ErrDriverCallFailed),
		errors.Is(err, led.ErrAllocationFailed):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func ErrorAction(w http.ResponseWriter, err error) {
	GlobalErrorAction(w, err.Error(), ErrorStatus(err))
}

func ErrorNotFoundAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusNotFound)
}

func ErrorMethodNotAllowedAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusMethodNotAllowed)
}

func ErrorStatusAction(w http.ResponseWriter, r *http.Request, status int) {
	GlobalErrorAction(w, "", status)
}

func GlobalErrorAction(w http.ResponseWriter, message string, status int) {
	apimodel.ErrorMessage{ErrStatusCode: status, ErrMessage: message}.SendError(w)
}

func JsonAction(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Warnf("Unable to encode response: %v", err)
	}
}

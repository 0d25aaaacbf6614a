package httpserver

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"frontdesk_kiosk/internal/adapters/dialog"
	"frontdesk_kiosk/internal/adapters/notify"
	"frontdesk_kiosk/internal/domain"
	"frontdesk_kiosk/internal/flow"
)

const (
	maxJSONBody  = 64 << 10
	maxImageBody = 8 << 20
)

// Kiosk is the flow surface the shell drives.
type Kiosk interface {
	View() flow.View
	Dispatch(ctx context.Context, a flow.Action) error
	Allows(a flow.Action) bool
	UpdateGuestForm(f domain.GuestForm) error
	UpdateStay(s domain.StayForm) error
	UpdateCard(c domain.CardFields) error
	PublishScan(ctx context.Context, text string) error
	ScanImage(ctx context.Context, data []byte) error
}

// Camera receives the shell's device state and frames.
type Camera interface {
	Attach(torch bool)
	Detach()
	Push(img image.Image) error
}

type Dialogs interface {
	Pending() (dialog.Prompt, bool)
	Answer(ok bool) error
}

type Notifications interface {
	Active() []notify.Message
}

type Handlers struct {
	Kiosk  Kiosk
	Camera Camera
	Dialog Dialogs
	Notes  Notifications
	// DialogTimeout bounds how long a discard waits for an answer; zero waits forever.
	DialogTimeout time.Duration
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/kiosk", h.getView)
	s.mux.Post("/v1/kiosk/actions", h.postAction)
	s.mux.Put("/v1/kiosk/guest-form", h.putGuestForm)
	s.mux.Put("/v1/kiosk/stay", h.putStay)
	s.mux.Put("/v1/kiosk/card", h.putCard)
	s.mux.Post("/v1/kiosk/scans", h.postScan)
	s.mux.Post("/v1/kiosk/scans/image", h.postScanImage)
	s.mux.Post("/v1/kiosk/camera", h.attachCamera)
	s.mux.Delete("/v1/kiosk/camera", h.detachCamera)
	s.mux.Post("/v1/kiosk/camera/frames", h.postFrame)
	s.mux.Get("/v1/kiosk/dialog", h.getDialog)
	s.mux.Post("/v1/kiosk/dialog", h.answerDialog)
	s.mux.Get("/v1/kiosk/notifications", h.getNotifications)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps flow and adapter errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblemBody(w, problem{Type: "about:blank", Title: "Validation Failed", Status: http.StatusUnprocessableEntity,
			Detail: "one or more fields are invalid", Fields: ve.Fields})
	case errors.Is(err, domain.ErrActionNotAllowed):
		writeProblem(w, http.StatusConflict, "Action Not Allowed", err.Error())
	case errors.Is(err, domain.ErrStale):
		writeProblem(w, http.StatusConflict, "Stale", "the kiosk moved to another screen")
	case errors.Is(err, domain.ErrDialogBusy), errors.Is(err, domain.ErrNoDialog):
		writeProblem(w, http.StatusConflict, "Dialog Conflict", err.Error())
	case errors.Is(err, domain.ErrCameraStopped):
		writeProblem(w, http.StatusConflict, "Camera Stopped", "no camera session is open")
	case errors.Is(err, domain.ErrCameraUnavailable):
		writeProblem(w, http.StatusServiceUnavailable, "Camera Unavailable", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return false
	}
	return true
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return nil, false
	}
	if len(data) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body is empty")
		return nil, false
	}
	return data, true
}

func (h *Handlers) getView(w http.ResponseWriter, r *http.Request) {
	etag, body := calcETagAndBody(h.Kiosk.View())
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write view body")
	}
}

// respond writes the fresh view after a successful change.
func (h *Handlers) respond(w http.ResponseWriter, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Kiosk.View())
}

func (h *Handlers) postAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action flow.Action `json:"action"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Action == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "action is required")
		return
	}

	// discard waits on the operator's answer, which arrives on POST /dialog
	if req.Action == flow.ActDiscard {
		if !h.Kiosk.Allows(flow.ActDiscard) {
			writeError(w, domain.ErrActionNotAllowed)
			return
		}
		go func() {
			ctx, cancel := context.Background(), context.CancelFunc(func() {})
			if h.DialogTimeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, h.DialogTimeout)
			}
			defer cancel()
			if err := h.Kiosk.Dispatch(ctx, flow.ActDiscard); err != nil && !errors.Is(err, domain.ErrStale) {
				log.Warn().Err(err).Msg("discard")
			}
		}()
		writeJSON(w, http.StatusAccepted, h.Kiosk.View())
		return
	}

	h.respond(w, h.Kiosk.Dispatch(r.Context(), req.Action))
}

func (h *Handlers) putGuestForm(w http.ResponseWriter, r *http.Request) {
	var f domain.GuestForm
	if !decodeJSON(w, r, &f) {
		return
	}
	h.respond(w, h.Kiosk.UpdateGuestForm(f))
}

func (h *Handlers) putStay(w http.ResponseWriter, r *http.Request) {
	var s domain.StayForm
	if !decodeJSON(w, r, &s) {
		return
	}
	h.respond(w, h.Kiosk.UpdateStay(s))
}

func (h *Handlers) putCard(w http.ResponseWriter, r *http.Request) {
	var c domain.CardFields
	if !decodeJSON(w, r, &c) {
		return
	}
	h.respond(w, h.Kiosk.UpdateCard(c))
}

// postScan takes text the shell decoded natively.
func (h *Handlers) postScan(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r, maxJSONBody)
	if !ok {
		return
	}
	text := string(data)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &req); err != nil || req.Text == "" {
			writeProblem(w, http.StatusBadRequest, "Invalid Body", `expected {"text": "..."}`)
			return
		}
		text = req.Text
	}
	h.respond(w, h.Kiosk.PublishScan(r.Context(), text))
}

func (h *Handlers) postScanImage(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r, maxImageBody)
	if !ok {
		return
	}
	h.respond(w, h.Kiosk.ScanImage(r.Context(), data))
}

func (h *Handlers) attachCamera(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Torch bool `json:"torch"`
	}
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	h.Camera.Attach(req.Torch)
	log.Info().Bool("torch", req.Torch).Msg("camera attached")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) detachCamera(w http.ResponseWriter, r *http.Request) {
	h.Camera.Detach()
	log.Info().Msg("camera detached")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) postFrame(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r, maxImageBody)
	if !ok {
		return
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Frame", "frame must be JPEG or PNG")
		return
	}
	if err := h.Camera.Push(img); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) getDialog(w http.ResponseWriter, r *http.Request) {
	p, open := h.Dialog.Pending()
	resp := struct {
		Open   bool           `json:"open"`
		Prompt *dialog.Prompt `json:"prompt,omitempty"`
	}{Open: open}
	if open {
		resp.Prompt = &p
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) answerDialog(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OK *bool `json:"ok"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.OK == nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "ok is required")
		return
	}
	if err := h.Dialog.Answer(*req.OK); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getNotifications(w http.ResponseWriter, r *http.Request) {
	msgs := h.Notes.Active()
	if msgs == nil {
		msgs = []notify.Message{}
	}
	writeJSON(w, http.StatusOK, struct {
		Messages []notify.Message `json:"messages"`
	}{msgs})
}

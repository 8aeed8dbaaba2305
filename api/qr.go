package api

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/png"
	"net/http"
	"strings"

	"github.com/openclaw/urlqr/qrgen"
	"github.com/openclaw/urlqr/store"
)

type qrDataResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	Payload string `json:"payload,omitempty"`
	QRPNG   string `json:"qr_png,omitempty"`
}

// generate runs one generation from the url and name query parameters. The
// returned status is 200 on success.
func (s *Server) generate(r *http.Request) (qrgen.Result, int) {
	q := r.URL.Query()
	raw := strings.TrimSpace(q.Get("url"))
	name := q.Get("name")

	if strings.ContainsAny(name, `/\`) {
		return qrgen.Result{Message: "name must be a plain file name"}, http.StatusBadRequest
	}

	res := s.Generator.Generate(raw, name)
	if s.History != nil {
		if err := s.History.Record(r.Context(), store.NewEntry(raw, res, store.SourceAPI)); err != nil {
			s.Log.Warn("record history", "error", err)
		}
	}

	switch {
	case res.OK:
		return res, http.StatusOK
	case errors.Is(res.Err, qrgen.ErrInvalidURL):
		return res, http.StatusBadRequest
	default:
		return res, http.StatusInternalServerError
	}
}

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	res, status := s.generate(r)
	if status != http.StatusOK {
		writeError(w, status, res.Message)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, res.Image); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-QR-Path", res.Path)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleQRData(w http.ResponseWriter, r *http.Request) {
	res, status := s.generate(r)
	resp := qrDataResponse{
		Success: res.OK,
		Message: res.Message,
		Path:    res.Path,
		Payload: res.Payload,
	}

	if res.OK {
		var buf bytes.Buffer
		if err := png.Encode(&buf, res.Image); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.QRPNG = base64.StdEncoding.EncodeToString(buf.Bytes())
	}

	writeJSON(w, status, resp)
}

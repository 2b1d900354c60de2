package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lawnchairsociety/hexforge/internal/content"
	"github.com/lawnchairsociety/hexforge/internal/hexgrid"
	"github.com/lawnchairsociety/hexforge/internal/logger"
	"github.com/lawnchairsociety/hexforge/internal/overlay"
)

// HexResponse is the reply to a single hex request.
type HexResponse struct {
	Hex     string         `json:"hex"`
	Content content.Record `json:"content"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warning("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gen.Cities())
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["city"]

	o, err := s.gen.GenerateCityOverlay(name)
	if errors.Is(err, overlay.ErrUnknownOverlay) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		logger.Error("Overlay generation failed", "city", name, "error", err)
		writeError(w, http.StatusInternalServerError, "overlay generation failed")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleHex(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	resp, err := s.generateHex(code, r.URL.Query().Get("terrain"))
	if errors.Is(err, hexgrid.ErrInvalidHexCode) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		logger.Error("Hex generation failed", "hex", code, "error", err)
		writeError(w, http.StatusInternalServerError, "hex generation failed")
		return
	}

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(resp.Content.Markdown()))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// generateHex generates and stores one hex under its canonical code. A
// store failure is logged; the generated content is still returned.
func (s *Server) generateHex(code, terrainName string) (HexResponse, error) {
	coord, err := hexgrid.ParseCode(code)
	if err != nil {
		return HexResponse{}, err
	}
	code = coord.Code()

	rec, err := s.gen.GenerateHexContent(code, terrainName)
	if err != nil {
		return HexResponse{}, err
	}
	if s.hexes != nil {
		if err := s.hexes.SaveHex(code, "", rec); err != nil {
			logger.Warning("Failed to store hex", "hex", code, "error", err)
		}
	}
	return HexResponse{Hex: code, Content: rec}, nil
}

func (s *Server) handleStoredHex(w http.ResponseWriter, r *http.Request) {
	if s.hexes == nil {
		writeError(w, http.StatusNotFound, "hex storage is disabled")
		return
	}
	coord, err := hexgrid.ParseCode(mux.Vars(r)["code"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	code := coord.Code()

	hex, ok, err := s.hexes.LoadHex(code)
	if err != nil {
		logger.Error("Failed to load hex", "hex", code, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load hex")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "hex "+code+" has not been generated")
		return
	}
	writeJSON(w, http.StatusOK, hex)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := overlay.MapOptions{Bounds: s.gen.Bounds()}

	for _, p := range []struct {
		key string
		dst *int
	}{
		{"cols", &opts.Bounds.Cols},
		{"rows", &opts.Bounds.Rows},
		{"parallelism", &opts.Parallelism},
	} {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+p.key+": "+v)
			return
		}
		*p.dst = n
	}
	if err := opts.Bounds.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.generateMap(opts))
}

// generateMap runs a full map and stores its hexes.
func (s *Server) generateMap(opts overlay.MapOptions) *overlay.MapResult {
	res := s.gen.GenerateMap(opts)
	if s.hexes != nil {
		if err := s.hexes.SaveHexes(res.RunID, res.Hexes); err != nil {
			logger.Warning("Failed to store map run", "run_id", res.RunID, "error", err)
		}
	}
	return res
}

package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tbeckers/floatdeck/pkg/bom"
	"github.com/tbeckers/floatdeck/pkg/grid"
	"github.com/tbeckers/floatdeck/pkg/render"
)

// defaultCellSize matches the standard pontoon module: 500mm square
// footprint, 300mm stacking height.
var defaultCellSize = grid.Dimensions{Width: 500, Height: 300, Depth: 500}

type createLayoutRequest struct {
	Name     string           `json:"name"`
	Width    int              `json:"width"`
	Depth    int              `json:"depth"`
	Levels   int              `json:"levels"`
	CellSize *grid.Dimensions `json:"cellSize,omitempty"`
}

type placeRequest struct {
	Position    grid.Position `json:"position"`
	Type        string        `json:"type"`
	Color       string        `json:"color"`
	Orientation string        `json:"orientation"`
}

type moveRequest struct {
	Position grid.Position `json:"position"`
}

type rotateRequest struct {
	// Orientation is optional: empty means rotate 90° clockwise.
	Orientation string `json:"orientation,omitempty"`
}

type recolorRequest struct {
	// Color is optional: empty means cycle to the next palette color.
	Color string `json:"color,omitempty"`
}

type moduleResponse struct {
	ID          string          `json:"id"`
	Position    grid.Position   `json:"position"`
	Type        string          `json:"type"`
	Color       string          `json:"color"`
	Orientation string          `json:"orientation"`
	Footprint   []grid.Position `json:"footprint"`
}

func toModuleResponse(m grid.Module) moduleResponse {
	return moduleResponse{
		ID:          m.ID(),
		Position:    m.Position(),
		Type:        m.Type().String(),
		Color:       m.Color().String(),
		Orientation: m.Orientation().String(),
		Footprint:   m.Footprint(),
	}
}

// loadGrid fetches a named layout and rebuilds the engine grid.
func (s *Server) loadGrid(r *http.Request) (string, *grid.Grid, error) {
	name := chi.URLParam(r, "name")
	rec, err := s.store.Get(r.Context(), name)
	if err != nil {
		return name, nil, err
	}
	g, err := grid.FromRecord(rec, s.gridOpts...)
	if err != nil {
		return name, nil, err
	}
	return name, g, nil
}

// mutateLayout runs fn against the stored layout under the server lock
// and persists the grid fn returns. fn must not retain either grid.
func (s *Server) mutateLayout(w http.ResponseWriter, r *http.Request, fn func(g *grid.Grid) (*grid.Grid, any, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, g, err := s.loadGrid(r)
	if err != nil {
		writeError(w, err)
		return
	}
	next, body, err := fn(g)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Put(r.Context(), name, next.ToRecord()); err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, status, body)
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"layouts": names})
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	var req createLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	cell := defaultCellSize
	if req.CellSize != nil {
		cell = *req.CellSize
	}
	g, err := grid.New(req.Width, req.Depth, req.Levels, cell, s.gridOpts...)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Put(r.Context(), req.Name, g.ToRecord()); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("layout created", "name", req.Name, "width", req.Width, "depth", req.Depth, "levels", req.Levels)
	writeJSON(w, http.StatusCreated, g.ToRecord())
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rec, err := s.store.Get(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.store.Delete(r.Context(), name); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlaceModule(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	s.mutateLayout(w, r, func(g *grid.Grid) (*grid.Grid, any, error) {
		typ, err := grid.ParseModuleType(req.Type)
		if err != nil {
			return nil, nil, err
		}
		color, err := grid.ParseColor(req.Color)
		if err != nil {
			return nil, nil, err
		}
		orient, err := grid.ParseOrientation(req.Orientation)
		if err != nil {
			return nil, nil, err
		}
		next, m, err := g.PlaceModule(req.Position, typ, color, orient)
		if err != nil {
			return nil, nil, err
		}
		return next, toModuleResponse(m), nil
	})
}

func (s *Server) handleRemoveModule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()

	name, g, err := s.loadGrid(r)
	if err != nil {
		writeError(w, err)
		return
	}
	next, err := g.RemoveModule(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Put(r.Context(), name, next.ToRecord()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveModule(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.mutateLayout(w, r, func(g *grid.Grid) (*grid.Grid, any, error) {
		next, err := g.MoveModule(id, req.Position)
		if err != nil {
			return nil, nil, err
		}
		m, _ := next.Module(id)
		return next, toModuleResponse(m), nil
	})
}

func (s *Server) handleRotateModule(w http.ResponseWriter, r *http.Request) {
	var req rotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.mutateLayout(w, r, func(g *grid.Grid) (*grid.Grid, any, error) {
		m, ok := g.Module(id)
		if !ok {
			return nil, nil, moduleNotFound(id)
		}
		orient := m.Orientation().Rotated()
		if req.Orientation != "" {
			var err error
			orient, err = grid.ParseOrientation(req.Orientation)
			if err != nil {
				return nil, nil, err
			}
		}
		next, err := g.RotateModule(id, orient)
		if err != nil {
			return nil, nil, err
		}
		rotated, _ := next.Module(id)
		return next, toModuleResponse(rotated), nil
	})
}

func (s *Server) handleRecolorModule(w http.ResponseWriter, r *http.Request) {
	var req recolorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.mutateLayout(w, r, func(g *grid.Grid) (*grid.Grid, any, error) {
		m, ok := g.Module(id)
		if !ok {
			return nil, nil, moduleNotFound(id)
		}
		color := m.Color().Next()
		if req.Color != "" {
			var err error
			color, err = grid.ParseColor(req.Color)
			if err != nil {
				return nil, nil, err
			}
		}
		next, err := g.RecolorModule(id, color)
		if err != nil {
			return nil, nil, err
		}
		recolored, _ := next.Module(id)
		return next, toModuleResponse(recolored), nil
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	_, g, err := s.loadGrid(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g.Statistics())
}

func (s *Server) handleBOM(w http.ResponseWriter, r *http.Request) {
	_, g, err := s.loadGrid(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bom.Build(g))
}

func (s *Server) handleConnectivity(w http.ResponseWriter, r *http.Request) {
	_, g, err := s.loadGrid(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g.CheckConnectivity())
}

// handleCanPlace is a dry run: it reports the full validation result for
// a prospective placement without mutating the layout.
func (s *Server) handleCanPlace(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	_, g, err := s.loadGrid(r)
	if err != nil {
		writeError(w, err)
		return
	}
	typ, err := grid.ParseModuleType(req.Type)
	if err != nil {
		writeError(w, err)
		return
	}
	orient, err := grid.ParseOrientation(orDefault(req.Orientation, "north"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g.CanPlace(req.Position, typ, orient))
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	_, g, err := s.loadGrid(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	pos, err := queryPosition(q.Get("x"), q.Get("y"), q.Get("z"))
	if err != nil {
		badRequest(w, err)
		return
	}
	typ, err := grid.ParseModuleType(orDefault(q.Get("type"), "compact"))
	if err != nil {
		writeError(w, err)
		return
	}
	orient, err := grid.ParseOrientation(orDefault(q.Get("orientation"), "north"))
	if err != nil {
		writeError(w, err)
		return
	}
	radius := 3
	if v := q.Get("radius"); v != "" {
		radius, err = strconv.Atoi(v)
		if err != nil {
			badRequest(w, err)
			return
		}
	}

	positions := g.FindNearbyValidPositions(pos, typ, orient, radius)
	if positions == nil {
		positions = []grid.Position{}
	}
	writeJSON(w, http.StatusOK, map[string][]grid.Position{"positions": positions})
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	_, g, err := s.loadGrid(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts := []render.SVGOption{render.WithLabels(), render.WithGridLines()}
	if v := r.URL.Query().Get("level"); v != "" {
		level, err := strconv.Atoi(v)
		if err != nil {
			badRequest(w, err)
			return
		}
		opts = append(opts, render.WithLevel(level))
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(render.RenderSVG(g, opts...))
}

func (s *Server) handleGraphDOT(w http.ResponseWriter, r *http.Request) {
	_, g, err := s.loadGrid(r)
	if err != nil {
		writeError(w, err)
		return
	}
	detailed := r.URL.Query().Get("detailed") == "true"
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(render.ToDOT(g, render.DOTOptions{Detailed: detailed})))
}

func queryPosition(x, y, z string) (grid.Position, error) {
	xi, err := strconv.Atoi(x)
	if err != nil {
		return grid.Position{}, err
	}
	yi, err := strconv.Atoi(orDefault(y, "0"))
	if err != nil {
		return grid.Position{}, err
	}
	zi, err := strconv.Atoi(z)
	if err != nil {
		return grid.Position{}, err
	}
	return grid.Position{X: xi, Y: yi, Z: zi}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/viant/i18nlens/geometry"
	"github.com/viant/i18nlens/inspector/index"
	"github.com/viant/i18nlens/selection"
	"github.com/viant/i18nlens/selection/htmlhost"
	"github.com/viant/i18nlens/session"
)

type boxView struct {
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
}

type resolutionView struct {
	Text    string         `json:"text"`
	Boxes   []boxView      `json:"boxes"`
	Symbols []*index.Entry `json:"symbols"`
}

func newBoxView(box geometry.Box) boxView {
	return boxView{StartX: box.StartX, StartY: box.StartY, EndX: box.EndX, EndY: box.EndY}
}

func (s *Server) writeResolutions(w http.ResponseWriter) {
	views := []resolutionView{}
	for _, resolution := range s.session.Resolutions() {
		entries, err := index.Entries(resolution.Symbols)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		view := resolutionView{Text: resolution.Fragment.Text, Symbols: entries}
		for _, box := range resolution.Fragment.Boxes {
			view.Boxes = append(view.Boxes, newBoxView(box))
		}
		views = append(views, view)
	}
	response := map[string]any{"resolutions": views}
	if controller := s.session.Controller(); controller != nil {
		if rect, ok := controller.Rect(); ok {
			response["rect"] = newBoxView(rect)
		}
		response["state"] = controller.State().String()
	}
	jsonResponse(w, response)
}

// handleAttach parses the request body HTML and starts tracking its text fragments.
func (s *Server) handleAttach(w http.ResponseWriter, r *http.Request) {
	doc, err := htmlhost.Parse(r.Body)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.session.Attach(doc, doc.Body(),
		selection.WithExclusion(htmlhost.ClassMatcher(s.cfg.ExcludedClasses...)),
		selection.WithMinPressure(s.cfg.MinPressure),
	)
	jsonResponse(w, map[string]any{"fragments": s.session.Controller().Registry().Len()})
}

// handleDetach stops tracking the document.
func (s *Server) handleDetach(w http.ResponseWriter, r *http.Request) {
	s.session.Detach()
	w.WriteHeader(http.StatusNoContent)
}

// handleSelection returns symbols resolved for the current selection.
func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	s.writeResolutions(w)
}

// handleSelect sets the selection rectangle directly.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req boxView
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.session.Select(geometry.NewBox(req.StartX, req.StartY, req.EndX, req.EndY)); err != nil {
		jsonError(w, err.Error(), statusOf(err))
		return
	}
	s.writeResolutions(w)
}

type pointerRequest struct {
	Type     string   `json:"type"`
	Target   string   `json:"target"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Pressure float64  `json:"pressure"`
	Keys     []string `json:"keys"`
}

func (p *pointerRequest) modifier(triggerKey string) bool {
	for _, key := range p.Keys {
		if key == triggerKey {
			return true
		}
	}
	return false
}

// handlePointer feeds a pointer or key event to the selection controller.
func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	controller := s.session.Controller()
	if controller == nil {
		jsonError(w, session.ErrDetached.Error(), http.StatusConflict)
		return
	}
	event := selection.PointerEvent{
		Point:    geometry.Point{X: req.X, Y: req.Y},
		Modifier: req.modifier(s.cfg.TriggerKey),
		Pressure: req.Pressure,
	}
	if doc, ok := controller.Registry().Host().(*htmlhost.Document); ok {
		target := doc.ElementAt(event.Point)
		if req.Target != "" {
			if target = doc.Find(req.Target); target == nil {
				jsonError(w, "unknown target: "+req.Target, http.StatusBadRequest)
				return
			}
		}
		if target != nil {
			event.Target = target
		}
	}
	var handled bool
	switch req.Type {
	case "down":
		handled = controller.PointerDown(event)
	case "move":
		handled = controller.PointerMove(event)
	case "up":
		handled = controller.PointerUp(event)
	case "key":
		handled = controller.KeyDown(selection.KeyEvent{Modifier: event.Modifier})
	default:
		jsonError(w, "unsupported event type: "+req.Type, http.StatusBadRequest)
		return
	}
	if !handled {
		jsonResponse(w, map[string]any{"handled": false, "state": controller.State().String()})
		return
	}
	s.writeResolutions(w)
}

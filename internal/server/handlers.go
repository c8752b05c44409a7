package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/piwi3910/ClosetCraft/internal/engine"
	"github.com/piwi3910/ClosetCraft/internal/model"
	"github.com/piwi3910/ClosetCraft/internal/session"
	"github.com/piwi3910/ClosetCraft/internal/store"
)

type sessionView struct {
	ID      string       `json:"id"`
	Design  model.Design `json:"design"`
	CanUndo bool         `json:"can_undo"`
	CanRedo bool         `json:"can_redo"`
}

func viewOf(sess *session.Session) sessionView {
	canUndo, canRedo := sess.History()
	return sessionView{
		ID:      sess.ID(),
		Design:  sess.Design(),
		CanUndo: canUndo,
		CanRedo: canRedo,
	}
}

type createRequest struct {
	Family   string        `json:"family"`
	DesignID string        `json:"design_id"`
	Name     string        `json:"name"`
	Edit     *session.Edit `json:"edit,omitempty"`
}

type saveRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// fail writes err as a JSON error with a status derived from its kind.
func fail(c fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrUnknownSession), errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrRejected):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrNothingToUndo), errors.Is(err, session.ErrNothingToRedo):
		status = http.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func (s *Server) session(c fiber.Ctx) (*session.Session, error) {
	return s.sessions.Get(c.Params("id"))
}

func (s *Server) getCatalog(c fiber.Ctx) error {
	cat := s.sessions.Catalog()
	return c.JSON(fiber.Map{
		"limits":   cat.Limits,
		"families": cat.Families,
		"layouts":  cat.Layouts,
	})
}

func (s *Server) listSessions(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"sessions": s.sessions.IDs()})
}

func (s *Server) createSession(c fiber.Ctx) error {
	var req createRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return badRequest(c, "invalid json")
		}
	}

	var d model.Design
	if req.DesignID != "" {
		saved, err := s.designs.Get(c.Context(), req.DesignID)
		if err != nil {
			return fail(c, err)
		}
		d = saved
	} else {
		if req.Family == "" {
			req.Family = s.defaults.DefaultFamily
		}
		if s.sessions.Catalog().Family(req.Family) == nil {
			return badRequest(c, "unknown family "+req.Family)
		}
		d = model.NewDesign("Untitled", "")
		d.Family = req.Family
		d.Width = s.defaults.DefaultWidth
		d.Height = s.defaults.DefaultHeight
		d.Depth = s.defaults.DefaultDepth
		d.InnerWalls = s.defaults.InnerWalls
	}
	if req.Name != "" {
		d.Name = req.Name
	}

	sess, err := s.sessions.Open(d)
	if err != nil {
		// Out-of-range defaults fall back to the family's minimum closet.
		if !errors.Is(err, engine.ErrRejected) || req.DesignID != "" {
			return fail(c, err)
		}
		if sess, err = s.sessions.Create(d.Family); err != nil {
			return fail(c, err)
		}
		sess.Rename(d.Name, "")
	}

	if req.Edit != nil {
		if err := sess.Apply(*req.Edit); err != nil {
			return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   err.Error(),
				"session": viewOf(sess),
			})
		}
	}
	return c.Status(http.StatusCreated).JSON(viewOf(sess))
}

func (s *Server) getSession(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(viewOf(sess))
}

func (s *Server) closeSession(c fiber.Ctx) error {
	if err := s.sessions.Close(c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (s *Server) editSession(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return fail(c, err)
	}
	var e session.Edit
	if err := json.Unmarshal(c.Body(), &e); err != nil {
		return badRequest(c, "invalid json")
	}
	if err := sess.Apply(e); err != nil {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   err.Error(),
			"session": viewOf(sess),
		})
	}
	return c.JSON(viewOf(sess))
}

func (s *Server) undo(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return fail(c, err)
	}
	if err := sess.Undo(); err != nil {
		return fail(c, err)
	}
	return c.JSON(viewOf(sess))
}

func (s *Server) redo(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return fail(c, err)
	}
	if err := sess.Redo(); err != nil {
		return fail(c, err)
	}
	return c.JSON(viewOf(sess))
}

func (s *Server) loadDesign(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return fail(c, err)
	}
	d, err := s.designs.Get(c.Context(), c.Params("design"))
	if err != nil {
		return fail(c, err)
	}
	if err := sess.Load(d); err != nil {
		return fail(c, err)
	}
	return c.JSON(viewOf(sess))
}

func (s *Server) getSnapshot(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sess.Snapshot())
}

func (s *Server) getScene(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"objects": sess.SceneNames()})
}

func (s *Server) saveSession(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return fail(c, err)
	}
	var req saveRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return badRequest(c, "invalid json")
		}
	}
	if req.Name != "" {
		sess.Rename(req.Name, req.Description)
	}
	d := sess.Design()
	d.Touch()
	if err := s.designs.Put(c.Context(), d); err != nil {
		return fail(c, err)
	}
	s.logger.Info("design saved", "session", sess.ID(), "design", d.ID, "name", d.Name)
	return c.JSON(d)
}

func (s *Server) listDesigns(c fiber.Ctx) error {
	designs, err := s.designs.List(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"designs": designs})
}

func (s *Server) putDesign(c fiber.Ctx) error {
	var d model.Design
	if err := json.Unmarshal(c.Body(), &d); err != nil {
		return badRequest(c, "invalid json")
	}
	if d.Family == "" {
		return badRequest(c, "design family is required")
	}
	if s.sessions.Catalog().Family(d.Family) == nil {
		return badRequest(c, "unknown family "+d.Family)
	}
	if d.ID == "" {
		fresh := model.NewDesign(d.Name, d.Description)
		d.ID, d.CreatedAt = fresh.ID, fresh.CreatedAt
	}
	d.Touch()
	if err := s.designs.Put(c.Context(), d); err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(d)
}

// exportDesigns returns every saved design as a designs file.
func (s *Server) exportDesigns(c fiber.Ctx) error {
	ds, err := s.designs.ExportStore(c.Context())
	if err != nil {
		return fail(c, err)
	}
	c.Set("Content-Disposition", `attachment; filename="designs.json"`)
	return c.JSON(ds)
}

// importDesigns merges a designs file into the store, replacing designs
// with the same ID.
func (s *Server) importDesigns(c fiber.Ctx) error {
	var ds model.DesignStore
	if err := json.Unmarshal(c.Body(), &ds); err != nil {
		return badRequest(c, "invalid json")
	}
	for _, d := range ds.Designs {
		if d.ID == "" {
			return badRequest(c, "design without id: "+d.Name)
		}
		if s.sessions.Catalog().Family(d.Family) == nil {
			return badRequest(c, "unknown family "+d.Family)
		}
	}
	if err := s.designs.ImportStore(c.Context(), ds); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"imported": len(ds.Designs)})
}

func (s *Server) getDesign(c fiber.Ctx) error {
	d, err := s.designs.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(d)
}

func (s *Server) deleteDesign(c fiber.Ctx) error {
	if err := s.designs.Delete(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

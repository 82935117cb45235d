package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/jonathan/resume-builder/internal/state"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
)

// ResumeResponse is the editing state as returned by the resume endpoints.
type ResumeResponse struct {
	Resume           *types.Resume  `json:"resume"`
	SelectedTemplate templates.Kind `json:"selectedTemplate"`
}

// MessageResponse carries a user-facing notification.
type MessageResponse struct {
	Message string `json:"message"`
}

func stateResponse(st state.State) ResumeResponse {
	return ResumeResponse{Resume: st.Resume, SelectedTemplate: st.SelectedTemplate}
}

// readBody reads a size-limited request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	return data, nil
}

// handleGetResume returns the current state
func (s *Server) handleGetResume(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, stateResponse(s.session.State()))
}

// handlePutResume replaces the whole resume. A JSON null deselects it.
func (s *Server) handlePutResume(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}

	var action state.Action = state.SetResume{}
	if !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		if action, err = state.DecodeSection(state.FormResume, data); err != nil {
			s.fail(w, err)
			return
		}
	}
	s.dispatch(w, action)
}

// handlePutSection submits one form of the resume
func (s *Server) handlePutSection(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	action, err := state.DecodeSection(r.PathValue("section"), data)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.dispatch(w, action)
}

func (s *Server) dispatch(w http.ResponseWriter, action state.Action) {
	st, err := s.session.Dispatch(action)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, stateResponse(st))
}

// handleClearResume removes the saved record and resets the session
func (s *Server) handleClearResume(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Clear(r.Context()); err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: state.MsgClearFailed})
		return
	}
	s.jsonResponse(w, http.StatusOK, stateResponse(s.session.State()))
}

// handleSaveResume persists the current state
func (s *Server) handleSaveResume(w http.ResponseWriter, r *http.Request) {
	err := s.session.Save(r.Context())
	switch {
	case err == nil:
		s.jsonResponse(w, http.StatusOK, MessageResponse{Message: state.MsgSaved})
	case errors.Is(err, state.ErrNoResume):
		s.jsonResponse(w, http.StatusConflict, ErrorResponse{Error: state.MsgNoResume})
	default:
		s.jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: state.MsgSaveFailed})
	}
}

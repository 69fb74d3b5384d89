package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/abhisek/pytutor/internal/content"
	"github.com/abhisek/pytutor/internal/progression"
	"github.com/abhisek/pytutor/internal/session"
)

// ActionRequest is the body of POST /api/v1/users/:id/actions. Submit kinds
// must carry both option and question_index.
type ActionRequest struct {
	Kind          string `json:"kind" binding:"required"`
	Option        *int   `json:"option"`
	QuestionIndex *int   `json:"question_index"`
	LessonID      int    `json:"lesson_id"`
}

// action converts the request. It returns a non-empty message when a submit
// omits the answer or the question it answers.
func (r ActionRequest) action() (progression.Action, string) {
	a := progression.Action{
		Kind:          progression.ActionKind(r.Kind),
		QuestionIndex: r.QuestionIndex,
		LessonID:      r.LessonID,
	}
	if r.Option != nil {
		a.Option = *r.Option
	}

	switch a.Kind {
	case progression.ActionSubmitTestAnswer, progression.ActionSubmitPracticeAnswer:
		if r.Option == nil {
			return a, "Missing option"
		}
		if r.QuestionIndex == nil {
			return a, "Missing question_index"
		}
	}
	return a, ""
}

// ErrorResponse carries a message safe to show to the learner.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) dispatch(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "bad_request"})
		return
	}

	action, problem := req.action()
	if problem != "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: problem, Code: "bad_request"})
		return
	}

	out, err := s.engine.Dispatch(c.Request.Context(), userID, action)
	if err != nil {
		s.fail(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) progress(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}

	view, err := s.engine.Progress(c.Request.Context(), userID)
	if err != nil {
		s.fail(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func userParam(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing user id", Code: "bad_request"})
		return "", false
	}
	return id, true
}

func (s *Server) fail(c *gin.Context, userID string, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("user", userID).Msg("Request failed")
	} else {
		log.Debug().Err(err).Str("user", userID).Msg("Request rejected")
	}
	c.JSON(status, ErrorResponse{Error: progression.UserMessage(err), Code: code})
}

// classify maps engine errors to an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, progression.ErrNoActiveSession):
		return http.StatusConflict, "no_active_session"
	case errors.Is(err, session.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, progression.ErrNoProgress):
		return http.StatusConflict, "no_progress"
	case errors.Is(err, content.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, progression.ErrInvalidAnswerIndex):
		return http.StatusUnprocessableEntity, "invalid_answer_index"
	case errors.Is(err, progression.ErrStaleAnswer):
		return http.StatusUnprocessableEntity, "stale_answer"
	case errors.Is(err, progression.ErrUnknownAction):
		return http.StatusBadRequest, "unknown_action"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

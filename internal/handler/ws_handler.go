package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/sankalp-edu/examhall-backend/internal/attempt"
	"github.com/sankalp-edu/examhall-backend/internal/middleware"
	"github.com/sankalp-edu/examhall-backend/internal/service"
	ws "github.com/sankalp-edu/examhall-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler runs the live attempt protocol. One connection carries one
// student's attempt: the engine lives for the life of the connection,
// Redis carries the state across reconnects.
type WSHandler struct {
	attemptService *service.AttemptService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(attemptService *service.AttemptService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		attemptService: attemptService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// AttemptStream godoc
// WS /ws/v1/portal/exams/:examId/attempt
// Upgrades to WebSocket and drives the attempt: palette navigation,
// answer autosave, countdown ticks, integrity events and the one-shot
// submit (manual or timer).
func (h *WSHandler) AttemptStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	examID, err := uuid.Parse(c.Param("examId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exam ID"})
		return
	}

	rawConn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(rawConn)
	defer conn.Close()

	studentID := claims.UserID
	ctx := context.Background()

	wsLog := h.log.With().
		Int("student_id", studentID).
		Str("exam_id", examID.String()).
		Logger()

	// A finished attempt cannot be re-entered.
	if submitted, err := h.attemptService.IsSubmitted(ctx, examID, studentID); err != nil {
		conn.WriteError("attempt state unavailable")
		return
	} else if submitted {
		conn.WriteTyped(ws.SubmitFailedResponse{Event: ws.EventSubmitFailed, Reason: "already submitted"})
		return
	}

	engine, err := h.attemptService.BuildEngine(ctx, examID, studentID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			conn.WriteError("no session for this exam")
		} else {
			conn.WriteError("failed to load attempt")
		}
		wsLog.Warn().Err(err).Msg("Engine build failed")
		return
	}

	wsLog.Info().Msg("Student connected")
	h.sendState(conn, engine)

	// The countdown recomputes remaining time from the fixed deadline each
	// tick; expiry fires the auto submit exactly once.
	countdown := attempt.NewCountdown(engine.Deadline(), time.Second, time.Now)
	defer countdown.Stop()

	go countdown.Run(
		func(remaining time.Duration) {
			conn.WriteTyped(ws.TickResponse{
				Event:            ws.EventTick,
				RemainingSeconds: int(remaining.Seconds()),
				RemainingDisplay: attempt.FormatRemaining(remaining),
			})
		},
		func() {
			h.finishAttempt(ctx, conn, wsLog, engine, examID, studentID, true)
			conn.Close() // unblock the read loop
		},
	)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		var envelope ws.RequestEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			conn.WriteError("malformed message")
			continue
		}

		switch envelope.Action {
		case ws.ActionVisit:
			var req ws.VisitRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				conn.WriteError("malformed visit")
				continue
			}
			if err := engine.Visit(req.Section, req.Slide); err != nil {
				conn.WriteError(err.Error())
				continue
			}
			h.persistCursorStatus(ctx, wsLog, engine, examID, studentID)
			h.sendSaved(conn, engine)

		case ws.ActionSelect:
			var req ws.SelectRequest
			if err := json.Unmarshal(raw, &req); err != nil || req.Value == "" {
				conn.WriteError("value is required")
				continue
			}
			if err := engine.Select(req.Value); err != nil {
				conn.WriteError(err.Error())
				continue
			}
			h.persistCursorAnswer(ctx, wsLog, engine, examID, studentID, req.Value)
			h.sendSaved(conn, engine)

		case ws.ActionClear:
			if err := engine.ClearResponse(); err != nil {
				conn.WriteError(err.Error())
				continue
			}
			h.persistCursorAnswer(ctx, wsLog, engine, examID, studentID, "")
			h.sendSaved(conn, engine)

		case ws.ActionMarkReview:
			if err := engine.MarkForReview(); err != nil {
				conn.WriteError(err.Error())
				continue
			}
			h.persistCursorStatus(ctx, wsLog, engine, examID, studentID)
			h.sendSaved(conn, engine)

		case ws.ActionSaveNext:
			var req ws.SaveNextRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				conn.WriteError("malformed save_next")
				continue
			}
			if req.Value != "" {
				if err := engine.Select(req.Value); err != nil {
					conn.WriteError(err.Error())
					continue
				}
				h.persistCursorAnswer(ctx, wsLog, engine, examID, studentID, req.Value)
			}
			engine.Next()
			h.persistCursorStatus(ctx, wsLog, engine, examID, studentID)
			h.sendSaved(conn, engine)

		case ws.ActionIntegrity:
			var req ws.IntegrityRequest
			if err := json.Unmarshal(raw, &req); err != nil || req.Kind == "" {
				conn.WriteError("kind is required")
				continue
			}
			if req.Kind == "fullscreen_restore" {
				engine.AcknowledgeIntegrity()
				continue
			}
			kind := attempt.ViolationKind(req.Kind)
			prompt := engine.ReportIntegrity(kind)
			h.attemptService.RecordIntegrity(ctx, examID, studentID, kind)
			if prompt {
				conn.WriteTyped(ws.IntegrityPromptResponse{Event: ws.EventIntegrityPrompt, Kind: req.Kind})
			}

		case ws.ActionSubmit:
			if h.finishAttempt(ctx, conn, wsLog, engine, examID, studentID, false) {
				countdown.Stop()
				return
			}

		case ws.ActionPing:
			conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})

		default:
			wsLog.Warn().Str("action", string(envelope.Action)).Msg("Unknown action")
			conn.WriteError("unknown action: " + string(envelope.Action))
		}
	}
}

// sendState hydrates the client with the full attempt view.
func (h *WSHandler) sendState(conn *ws.Conn, engine *attempt.Engine) {
	section, slide := engine.Pos()
	remaining := engine.Remaining()
	conn.WriteTyped(ws.StateResponse{
		Event:            ws.EventState,
		Answers:          engine.FlatAnswers(),
		Statuses:         engine.FlatStatuses(),
		Section:          section,
		Slide:            slide,
		RemainingSeconds: int(remaining.Seconds()),
		RemainingDisplay: attempt.FormatRemaining(remaining),
	})
}

// sendSaved acknowledges an action with the cursor slide's new status so
// the palette repaints one cell.
func (h *WSHandler) sendSaved(conn *ws.Conn, engine *attempt.Engine) {
	_, sectionIdx, slide, _, status, err := engine.Cursor()
	if err != nil {
		return
	}
	conn.WriteTyped(ws.SavedResponse{
		Event:   ws.EventSaved,
		Section: sectionIdx,
		Slide:   slide,
		Status:  string(status),
	})
}

// persistCursorAnswer mirrors the cursor question's answer into Redis and
// the durable queue. An empty value records a clear.
func (h *WSHandler) persistCursorAnswer(ctx context.Context, wsLog zerolog.Logger, engine *attempt.Engine, examID uuid.UUID, studentID int, value string) {
	section, _, _, questionID, _, err := engine.Cursor()
	if err != nil {
		return
	}
	if err := h.attemptService.SaveAnswer(ctx, examID, studentID, section, questionID, value); err != nil {
		wsLog.Error().Err(err).Msg("Autosave failed")
	}
	h.persistCursorStatus(ctx, wsLog, engine, examID, studentID)
}

// persistCursorStatus mirrors the cursor slide's palette status into Redis.
func (h *WSHandler) persistCursorStatus(ctx context.Context, wsLog zerolog.Logger, engine *attempt.Engine, examID uuid.UUID, studentID int) {
	section, _, slide, _, status, err := engine.Cursor()
	if err != nil {
		return
	}
	if err := h.attemptService.SaveStatus(ctx, examID, studentID, section, slide, status); err != nil {
		wsLog.Error().Err(err).Msg("Status save failed")
	}
}

// finishAttempt runs the one-shot submit and reports the outcome. Returns
// true when this call produced the graded result.
func (h *WSHandler) finishAttempt(ctx context.Context, conn *ws.Conn, wsLog zerolog.Logger, engine *attempt.Engine, examID uuid.UUID, studentID int, auto bool) bool {
	result, summary, err := h.attemptService.Submit(ctx, engine, examID, studentID, auto)
	if err != nil {
		if !errors.Is(err, service.ErrAlreadySubmitted) {
			wsLog.Error().Err(err).Bool("auto", auto).Msg("Submit failed")
		}
		conn.WriteTyped(submitFailureEvent(summary, err))
		return false
	}

	conn.WriteTyped(ws.SubmittedResponse{
		Event:      ws.EventSubmitted,
		TotalScore: result.TotalScore,
		Attempted:  summary.Attempted,
		Auto:       auto,
	})
	return true
}

// submitFailureEvent shapes the submit_failed payload. A non-nil summary
// means grading finished before persistence failed; its totals ride along
// so the student still sees what the attempt scored.
func submitFailureEvent(summary *attempt.Summary, err error) ws.SubmitFailedResponse {
	resp := ws.SubmitFailedResponse{Event: ws.EventSubmitFailed, Reason: "submit failed, please retry"}
	if errors.Is(err, service.ErrAlreadySubmitted) {
		resp.Reason = "already submitted"
		return resp
	}
	if summary != nil {
		resp.TotalScore = &summary.TotalScore
		resp.Attempted = &summary.Attempted
	}
	return resp
}

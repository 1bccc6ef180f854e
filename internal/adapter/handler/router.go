package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/groupflow-app/groupflow/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	meetingHandler    *Meeting
	activityHandler   *Activity
	submissionHandler *Submission
	voteHandler       *Vote
	authMiddleware    echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, meetingHandler *Meeting, activityHandler *Activity, submissionHandler *Submission, voteHandler *Vote, authMiddleware echo.MiddlewareFunc) *Router {
	return &Router{
		cfg:               cfg,
		meetingHandler:    meetingHandler,
		activityHandler:   activityHandler,
		submissionHandler: submissionHandler,
		voteHandler:       voteHandler,
		authMiddleware:    authMiddleware,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group, all meeting routes require an authenticated caller
	v1 := e.Group("/v1")
	rt.setupMeetingRoutes(v1)
}

// setupMeetingRoutes configures meeting, activity, submission and vote routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings", rt.authMiddleware)

	meetings.POST("", rt.meetingHandler.CreateMeeting)
	meetings.GET("/:id", rt.meetingHandler.GetMeeting)
	meetings.POST("/:id/join", rt.meetingHandler.JoinMeeting)
	meetings.POST("/:id/facilitators", rt.meetingHandler.AddCoFacilitator)
	meetings.POST("/:id/archive", rt.meetingHandler.ArchiveMeeting)
	meetings.GET("/:id/state", rt.meetingHandler.GetMeetingState)

	meetings.POST("/:id/activities", rt.meetingHandler.AddActivity)
	meetings.GET("/:id/activities", rt.meetingHandler.ListAgenda)
	meetings.PATCH("/:id/activities/:activity_id/settings", rt.meetingHandler.UpdateActivitySettings)

	meetings.POST("/:id/activities/:activity_id/start", rt.activityHandler.StartTool)
	meetings.POST("/:id/activities/:activity_id/pause", rt.activityHandler.PauseTool)
	meetings.POST("/:id/activities/:activity_id/resume", rt.activityHandler.ResumeTool)
	meetings.POST("/:id/activities/:activity_id/close", rt.activityHandler.CloseTool)
	meetings.POST("/:id/activities/:activity_id/export", rt.activityHandler.ExportActivity)

	meetings.POST("/:id/activities/:activity_id/submissions", rt.submissionHandler.Submit)
	meetings.GET("/:id/activities/:activity_id/submissions", rt.submissionHandler.ListSubmissions)

	meetings.POST("/:id/activities/:activity_id/votes", rt.voteHandler.CastVote)
	meetings.GET("/:id/activities/:activity_id/tallies", rt.voteHandler.GetTallies)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"pokerclock/internal/config"
	"pokerclock/internal/middleware"
	"pokerclock/internal/model"
	"pokerclock/internal/service"
	cashSvc "pokerclock/internal/service/cashgame"
	displaySvc "pokerclock/internal/service/display"
	settingsSvc "pokerclock/internal/service/settings"
	tourSvc "pokerclock/internal/service/tournament"
	"pokerclock/internal/ws"
	pkgAuth "pokerclock/pkg/auth"
	appErr "pokerclock/pkg/errors"
	"pokerclock/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type Handler struct {
	services *service.Container
}

func RegisterRoutes(r *gin.Engine, services *service.Container) {
	handler := &Handler{services: services}
	wsHandler := ws.NewHandler(services)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})

	v1 := r.Group("/pokerClock/v1")
	{
		v1.POST("/auth/login", handler.OperatorLogin)

		viewGroup := v1.Group("/view")
		viewGroup.Use(middleware.ViewerRequired())
		{
			viewGroup.GET("/state", handler.GetState)
			viewGroup.GET("/tournaments", handler.ListTournaments)
			viewGroup.GET("/tournaments/:id", handler.GetTournament)
			viewGroup.GET("/cashgames", handler.ListCashGames)
			viewGroup.GET("/cashgames/:id", handler.GetCashGame)
			viewGroup.GET("/displays", handler.ListDisplays)
			viewGroup.GET("/settings", handler.GetSettings)

			// Tick routes are idempotent, so any watching view may call
			// them when it observes an expired countdown.
			viewGroup.POST("/tournaments/:id/tick", handler.TickTournament)
			viewGroup.POST("/cashgames/:id/tick", handler.TickCashGame)
		}

		opGroup := v1.Group("/op")
		opGroup.Use(middleware.OperatorRequired())
		{
			opGroup.POST("/tournaments", handler.CreateTournament)
			opGroup.PUT("/tournaments/:id", handler.UpdateTournament)
			opGroup.DELETE("/tournaments/:id", handler.DeleteTournament)
			opGroup.PUT("/tournaments/:id/levels", handler.UpdateTournamentLevels)
			opGroup.POST("/tournaments/:id/start", handler.tournamentAction(actionStart))
			opGroup.POST("/tournaments/:id/pause", handler.tournamentAction(actionPause))
			opGroup.POST("/tournaments/:id/resume", handler.tournamentAction(actionResume))
			opGroup.POST("/tournaments/:id/reset", handler.tournamentAction(actionReset))
			opGroup.POST("/tournaments/:id/next", handler.tournamentAction(actionNext))
			opGroup.POST("/tournaments/:id/prev", handler.tournamentAction(actionPrev))
			opGroup.POST("/tournaments/:id/jump", handler.JumpTournamentLevel)
			opGroup.POST("/tournaments/:id/adjust", handler.AdjustTournament)
			opGroup.POST("/tournaments/:id/seek", handler.SeekTournament)
			opGroup.POST("/tournaments/:id/counters", handler.AddTournamentCounters)
			opGroup.POST("/tournaments/:id/preset", handler.SavePreset)

			opGroup.GET("/presets", handler.ListPresets)
			opGroup.POST("/presets/:id/tournaments", handler.CreateFromPreset)
			opGroup.DELETE("/presets/:id", handler.DeletePreset)

			opGroup.POST("/cashgames", handler.CreateCashGame)
			opGroup.PUT("/cashgames/:id", handler.UpdateCashGame)
			opGroup.DELETE("/cashgames/:id", handler.DeleteCashGame)
			opGroup.PUT("/cashgames/:id/countdown", handler.SetCashGameCountdown)
			opGroup.POST("/cashgames/:id/start", handler.cashGameAction(actionStart))
			opGroup.POST("/cashgames/:id/pause", handler.cashGameAction(actionPause))
			opGroup.POST("/cashgames/:id/resume", handler.cashGameAction(actionResume))
			opGroup.POST("/cashgames/:id/reset", handler.cashGameAction(actionReset))
			opGroup.POST("/cashgames/:id/endpre", handler.EndCashGamePreLevel)

			opGroup.POST("/displays", handler.CreateDisplay)
			opGroup.PUT("/displays/:id", handler.UpdateDisplay)
			opGroup.DELETE("/displays/:id", handler.DeleteDisplay)
			opGroup.POST("/displays/:id/token", handler.IssueDisplayToken)

			opGroup.GET("/settings", handler.GetSettings)
			opGroup.PUT("/settings", handler.UpdateSettings)

			opGroup.POST("/cue", handler.PlayCue)
		}
	}

	r.GET("/ws/view", wsHandler.HandleViewWS)
}

const (
	actionStart  = "start"
	actionPause  = "pause"
	actionResume = "resume"
	actionReset  = "reset"
	actionNext   = "next"
	actionPrev   = "prev"
)

type operatorLoginBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tournamentCreateBody struct {
	Name            string             `json:"name" binding:"required"`
	Levels          []model.BlindLevel `json:"levels" binding:"required"`
	PreLevelSeconds int                `json:"preLevelSeconds"`
	StartingStack   int64              `json:"startingStack"`
	RegCloseLevel   int                `json:"regCloseLevel"`
	Prizes          json.RawMessage    `json:"prizes"`
	Overrides       json.RawMessage    `json:"overrides"`
}

type tournamentUpdateBody struct {
	Name            *string         `json:"name"`
	PreLevelSeconds *int            `json:"preLevelSeconds"`
	StartingStack   *int64          `json:"startingStack"`
	RegCloseLevel   *int            `json:"regCloseLevel"`
	Prizes          json.RawMessage `json:"prizes"`
	Overrides       json.RawMessage `json:"overrides"`
}

type levelsBody struct {
	Levels []model.BlindLevel `json:"levels" binding:"required"`
}

type jumpBody struct {
	Level int `json:"level"`
}

type adjustBody struct {
	DeltaMs int64 `json:"deltaMs" binding:"required"`
}

type seekBody struct {
	PositionMs int64 `json:"positionMs"`
}

type countersBody struct {
	Entries int `json:"entries"`
	Rebuys  int `json:"rebuys"`
	Addons  int `json:"addons"`
}

type savePresetBody struct {
	Name string `json:"name" binding:"required"`
}

type fromPresetBody struct {
	Name string `json:"name" binding:"required"`
}

type cashGameCreateBody struct {
	SmallBlind       int64  `json:"smallBlind"`
	BigBlind         int64  `json:"bigBlind"`
	Ante             int64  `json:"ante"`
	Memo             string `json:"memo"`
	CountdownMode    bool   `json:"countdownMode"`
	CountdownTotalMs int64  `json:"countdownTotalMs"`
	PreLevelSeconds  int    `json:"preLevelSeconds"`
}

type cashGameUpdateBody struct {
	SmallBlind      *int64  `json:"smallBlind"`
	BigBlind        *int64  `json:"bigBlind"`
	Ante            *int64  `json:"ante"`
	Memo            *string `json:"memo"`
	PreLevelSeconds *int    `json:"preLevelSeconds"`
}

type countdownBody struct {
	CountdownMode    bool  `json:"countdownMode"`
	CountdownTotalMs int64 `json:"countdownTotalMs"`
}

type displayBody struct {
	Name       string `json:"name" binding:"required"`
	TargetKind string `json:"targetKind" binding:"required"`
	TargetID   int64  `json:"targetId" binding:"required,min=1"`
	RouteMode  string `json:"routeMode"`
	Theme      string `json:"theme"`
}

type cueBody struct {
	Event  string  `json:"event" binding:"required"`
	Volume float64 `json:"volume"`
	Preset string  `json:"preset"`
}

func (h *Handler) OperatorLogin(c *gin.Context) {
	var body operatorLoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	op := config.GlobalConfig.Operator
	if body.Username != op.Username || body.Password != op.Password {
		response.Error(c, http.StatusUnauthorized, appErr.ErrOperatorAuthFailed.Error())
		return
	}

	token, err := pkgAuth.GenerateOperatorToken()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to issue token")
		return
	}
	response.Success(c, gin.H{"token": token})
}

// GetState is the polling fallback for viewers that cannot hold a websocket.
// It returns the same full snapshot a FULL_SYNC message carries.
func (h *Handler) GetState(c *gin.Context) {
	snap, err := h.services.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load state")
		return
	}

	roomCode := ""
	if h.services.Relay != nil {
		roomCode = h.services.Relay.RoomCode()
	}
	response.Success(c, gin.H{
		"snapshot":   snap,
		"roomCode":   roomCode,
		"pollHintMs": config.GlobalConfig.Defaults.PollHintMs,
	})
}

func (h *Handler) ListTournaments(c *gin.Context) {
	views, err := h.services.Tournament.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list tournaments")
		return
	}
	response.Success(c, views)
}

func (h *Handler) GetTournament(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	view, err := h.services.Tournament.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	// Per-tournament overrides win over the global display settings.
	effective := settingsSvc.Resolve(h.services.Settings.Get(c.Request.Context()), view.Tournament.OverridesJSON)
	response.Success(c, gin.H{"tournament": view, "settings": effective})
}

func (h *Handler) CreateTournament(c *gin.Context) {
	var body tournamentCreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.services.Tournament.Create(c.Request.Context(), tourSvc.CreateParams{
		Name:            strings.TrimSpace(body.Name),
		Levels:          body.Levels,
		PreLevelSeconds: body.PreLevelSeconds,
		StartingStack:   body.StartingStack,
		RegCloseLevel:   body.RegCloseLevel,
		PrizesJSON:      datatypes.JSON(body.Prizes),
		OverridesJSON:   datatypes.JSON(body.Overrides),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, t)
}

func (h *Handler) UpdateTournament(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body tournamentUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.services.Tournament.Update(c.Request.Context(), id, tourSvc.UpdateParams{
		Name:            body.Name,
		PreLevelSeconds: body.PreLevelSeconds,
		StartingStack:   body.StartingStack,
		RegCloseLevel:   body.RegCloseLevel,
		PrizesJSON:      datatypes.JSON(body.Prizes),
		OverridesJSON:   datatypes.JSON(body.Overrides),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "updated")
}

func (h *Handler) DeleteTournament(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.services.Tournament.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "deleted")
}

func (h *Handler) UpdateTournamentLevels(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body levelsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.services.Tournament.UpdateLevels(c.Request.Context(), id, body.Levels); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "updated")
}

func (h *Handler) tournamentAction(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		var err error
		switch action {
		case actionStart:
			err = h.services.Tournament.Start(ctx, id)
		case actionPause:
			err = h.services.Tournament.Pause(ctx, id)
		case actionResume:
			err = h.services.Tournament.Resume(ctx, id)
		case actionReset:
			err = h.services.Tournament.Reset(ctx, id)
		case actionNext:
			err = h.services.Tournament.AdvanceLevel(ctx, id)
		case actionPrev:
			err = h.services.Tournament.PrevLevel(ctx, id)
		}
		if err != nil {
			h.writeError(c, err)
			return
		}
		response.SuccessWithMsg(c, gin.H{}, "ok")
	}
}

func (h *Handler) JumpTournamentLevel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body jumpBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.services.Tournament.JumpLevel(c.Request.Context(), id, body.Level); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "ok")
}

func (h *Handler) AdjustTournament(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body adjustBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.services.Tournament.Adjust(c.Request.Context(), id, body.DeltaMs); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "ok")
}

func (h *Handler) SeekTournament(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body seekBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.services.Tournament.Seek(c.Request.Context(), id, body.PositionMs); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "ok")
}

func (h *Handler) AddTournamentCounters(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body countersBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.services.Tournament.AddCounters(c.Request.Context(), id, body.Entries, body.Rebuys, body.Addons); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "ok")
}

func (h *Handler) TickTournament(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.services.Tournament.Tick(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "ok")
}

func (h *Handler) SavePreset(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body savePresetBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.services.Tournament.SavePreset(c.Request.Context(), id, strings.TrimSpace(body.Name))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, p)
}

func (h *Handler) ListPresets(c *gin.Context) {
	presets, err := h.services.Tournament.ListPresets(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list presets")
		return
	}
	response.Success(c, presets)
}

func (h *Handler) CreateFromPreset(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body fromPresetBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	t, err := h.services.Tournament.CreateFromPreset(c.Request.Context(), id, strings.TrimSpace(body.Name))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, t)
}

func (h *Handler) DeletePreset(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.services.Tournament.DeletePreset(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "deleted")
}

func (h *Handler) ListCashGames(c *gin.Context) {
	views, err := h.services.Cash.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list cash games")
		return
	}
	response.Success(c, views)
}

func (h *Handler) GetCashGame(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	view, err := h.services.Cash.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, view)
}

func (h *Handler) CreateCashGame(c *gin.Context) {
	var body cashGameCreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	g, err := h.services.Cash.Create(c.Request.Context(), cashSvc.CreateParams{
		SmallBlind:       body.SmallBlind,
		BigBlind:         body.BigBlind,
		Ante:             body.Ante,
		Memo:             body.Memo,
		CountdownMode:    body.CountdownMode,
		CountdownTotalMs: body.CountdownTotalMs,
		PreLevelSeconds:  body.PreLevelSeconds,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, g)
}

func (h *Handler) UpdateCashGame(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body cashGameUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	err := h.services.Cash.Update(c.Request.Context(), id, cashSvc.UpdateParams{
		SmallBlind:      body.SmallBlind,
		BigBlind:        body.BigBlind,
		Ante:            body.Ante,
		Memo:            body.Memo,
		PreLevelSeconds: body.PreLevelSeconds,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "updated")
}

func (h *Handler) DeleteCashGame(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.services.Cash.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "deleted")
}

func (h *Handler) SetCashGameCountdown(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body countdownBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.services.Cash.SetCountdown(c.Request.Context(), id, body.CountdownMode, body.CountdownTotalMs); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "ok")
}

func (h *Handler) cashGameAction(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		var err error
		switch action {
		case actionStart:
			err = h.services.Cash.Start(ctx, id)
		case actionPause:
			err = h.services.Cash.Pause(ctx, id)
		case actionResume:
			err = h.services.Cash.Resume(ctx, id)
		case actionReset:
			err = h.services.Cash.Reset(ctx, id)
		}
		if err != nil {
			h.writeError(c, err)
			return
		}
		response.SuccessWithMsg(c, gin.H{}, "ok")
	}
}

func (h *Handler) EndCashGamePreLevel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.services.Cash.EndPreLevel(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "ok")
}

func (h *Handler) TickCashGame(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.services.Cash.Tick(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "ok")
}

func (h *Handler) ListDisplays(c *gin.Context) {
	displays, err := h.services.Display.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list displays")
		return
	}
	response.Success(c, displays)
}

func (h *Handler) CreateDisplay(c *gin.Context) {
	var body displayBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	d, err := h.services.Display.Create(c.Request.Context(), displayParams(body))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, d)
}

func (h *Handler) UpdateDisplay(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body displayBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	d, err := h.services.Display.Update(c.Request.Context(), id, displayParams(body))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, d)
}

func (h *Handler) DeleteDisplay(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.services.Display.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "deleted")
}

// IssueDisplayToken mints a read-only token bound to the display's name, so
// a public screen can be provisioned without operator credentials on it.
func (h *Handler) IssueDisplayToken(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	d, err := h.services.Display.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	token, err := pkgAuth.GenerateDisplayToken(d.Name)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to issue token")
		return
	}
	response.Success(c, gin.H{"token": token, "display": d.Name})
}

func (h *Handler) GetSettings(c *gin.Context) {
	response.Success(c, h.services.Settings.Get(c.Request.Context()))
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.services.Settings.Update(c.Request.Context(), raw); err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to save settings")
		return
	}
	response.SuccessWithMsg(c, gin.H{}, "updated")
}

func (h *Handler) PlayCue(c *gin.Context) {
	var body cueBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	h.services.Cues.Play(body.Event, body.Volume, body.Preset)
	response.SuccessWithMsg(c, gin.H{}, "ok")
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch err {
	case appErr.ErrTournamentNotFound, appErr.ErrCashGameNotFound,
		appErr.ErrDisplayNotFound, appErr.ErrPresetNotFound:
		status = http.StatusNotFound
	case appErr.ErrInvalidLevelList, appErr.ErrInvalidTarget:
		status = http.StatusBadRequest
	case appErr.ErrOperatorAuthFailed, appErr.ErrUnauthorized:
		status = http.StatusUnauthorized
	}
	response.Error(c, status, err.Error())
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func displayParams(body displayBody) displaySvc.MutationParams {
	return displaySvc.MutationParams{
		Name:       strings.TrimSpace(body.Name),
		TargetKind: strings.ToLower(strings.TrimSpace(body.TargetKind)),
		TargetID:   body.TargetID,
		RouteMode:  body.RouteMode,
		Theme:      body.Theme,
	}
}

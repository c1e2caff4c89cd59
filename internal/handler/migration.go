package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/migration"
)

// MigrationHandler exposes the legacy migration to operators.
type MigrationHandler struct {
	M *migration.Migrator
}

func NewMigrationHandler(m *migration.Migrator) *MigrationHandler {
	return &MigrationHandler{M: m}
}

type runReq struct {
	PreviousVersion string `json:"previous_version"`
}

type runResp struct {
	Migrated bool              `json:"migrated"`
	Status   migration.Status  `json:"status"`
	Report   *migration.Report `json:"report,omitempty"`
}

// Status: GET /v1/migration/status
func (h *MigrationHandler) Status(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st, err := h.M.Status(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status query failed"})
	}
	return c.JSON(http.StatusOK, st)
}

// Run: POST /v1/migration/run. The body is optional; previous_version overrides
// the stored version. The migration is still gated and runs at most once,
// so a repeat call answers 200 with migrated=false.
func (h *MigrationHandler) Run(c echo.Context) error {
	var req runReq
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Minute)
	defer cancel()

	before, hadBefore := h.M.LastReport()
	migrated := h.M.MaybeRun(ctx, strings.TrimSpace(req.PreviousVersion))

	st, err := h.M.Status(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status query failed"})
	}
	resp := runResp{Migrated: migrated, Status: st}
	if rep, ok := h.M.LastReport(); ok && (!hadBefore || rep.RunID != before.RunID) {
		resp.Report = &rep
	}
	return c.JSON(http.StatusOK, resp)
}

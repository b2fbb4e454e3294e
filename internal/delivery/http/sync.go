package http

import (
	"context"
	"net/http"

	"vnstock-service/internal/dto"
	"vnstock-service/pkg/utils"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupSync(base *echo.Group) {
	v1 := base.Group("/v1/sync")
	{
		v1.POST("/run", h.RunSync)
	}
}

// RunSync triggers a sync run in the background and returns immediately;
// progress and the final summary land in the logs.
func (h *HttpAPIHandler) RunSync(c echo.Context) error {
	var opts dto.SyncOptions
	if err := c.Bind(&opts); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	utils.GoSafe(func() {
		// Detached from the request, the run outlives the response.
		_, _ = h.service.SyncService.Run(context.Background(), opts)
	})

	return c.JSON(http.StatusAccepted, dto.NewBaseResponse(http.StatusAccepted, "Sync run started", nil))
}

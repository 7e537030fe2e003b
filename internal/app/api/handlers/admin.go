package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawcare/backend/internal/app/service/webhook"
	"github.com/pawcare/backend/pkg/response"
)

// @Summary      List Webhook Events (Admin)
// @Description  Retrieves a paginated and filterable list of stored webhook events.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body webhook.ScanEventsRequest true "Filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListWebhookEvents
// @Failure      400  {object}  handlers.RespOK
// @Router       /api/admin/webhook_events/list [post]
func ApiListWebhookEvents(p webhook.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req webhook.ScanEventsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := p.ScanEvents(c.Request.Context(), &req)
		if err != nil {
			if errors.Is(err, webhook.ErrInvalidFilter) {
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, p webhook.Processor) {
	r.POST("/webhook_events/list", ApiListWebhookEvents(p))
}

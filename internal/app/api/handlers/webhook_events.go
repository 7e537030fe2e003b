package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pawcare/backend/internal/app/service/webhook"
	"github.com/pawcare/backend/pkg/logctx"
	"github.com/pawcare/backend/pkg/response"
)

// maxWebhookBodyBytes matches the payload size Stripe documents as its upper bound.
const maxWebhookBodyBytes = 65536

const stripeSignatureHeader = "Stripe-Signature"

// @Summary      Receive payment webhook
// @Description  Stores a payment provider event once per event id and reconciles completed checkouts immediately. Reconciliation failures do not fail the request.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body object true "Provider event"
// @Param        Stripe-Signature header string false "Provider signature, checked when a signing secret is configured"
// @Success      200  {object}  handlers.RespIngest
// @Failure      400  {object}  handlers.RespOK
// @Failure      500  {object}  handlers.RespOK
// @Router       /api/webhook_events/ [post]
func ApiWebhookIngest(p webhook.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logctx.FromGin(c, zap.S())
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
		if err != nil {
			log.Warnw("webhook_body_read_failed", "error", err)
			c.JSON(http.StatusBadRequest, response.ErrorMsg(response.APIResponseCodeBadRequest, "unreadable body"))
			return
		}

		res, err := p.Ingest(c.Request.Context(), body, c.GetHeader(stripeSignatureHeader))
		if err != nil {
			if errors.Is(err, webhook.ErrInvalidSignature) {
				log.Warnw("webhook_signature_rejected", "error", err)
				c.JSON(http.StatusBadRequest, response.ErrorMsg(response.APIResponseCodeBadRequest, "invalid signature"))
				return
			}
			log.Errorw("webhook_ingest_failed", "error", err)
			c.JSON(http.StatusInternalServerError, response.ErrorMsg(response.APIResponseCodeError, "webhook processing failed"))
			return
		}

		msg := "webhook event stored"
		if res.Duplicate {
			msg = "webhook event already recorded"
		}
		c.JSON(http.StatusOK, response.OKMsg(msg, res))
	}
}

// @Summary      Reprocess pending webhook events
// @Description  Reconciles every unprocessed completed checkout. Skipped events stay pending unless their session was already paid; the first failure aborts the sweep.
// @Tags         Webhook
// @Produce      json
// @Success      200  {object}  handlers.RespBatch
// @Failure      500  {object}  handlers.RespOK
// @Router       /api/webhook_events/process [post]
func ApiWebhookProcess(p webhook.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := p.ProcessPending(c.Request.Context())
		if err != nil {
			logctx.FromGin(c, zap.S()).Errorw("webhook_batch_failed", "error", err)
			c.JSON(http.StatusInternalServerError, response.ErrorMsg(response.APIResponseCodeError, "webhook event processing failed"))
			return
		}
		if res.Total == 0 {
			c.JSON(http.StatusOK, response.OKMsg("no unprocessed webhook events", res))
			return
		}
		c.JSON(http.StatusOK, response.OKMsg(fmt.Sprintf("%d webhook events reconciled", res.Reconciled), res))
	}
}

func RegisterWebhookRoutes(r gin.IRouter, p webhook.Processor) {
	r.POST("/", ApiWebhookIngest(p))
	r.POST("/process", ApiWebhookProcess(p))
}

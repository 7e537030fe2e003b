package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/pawcare/backend/internal/app/api/middleware"
	"github.com/pawcare/backend/internal/app/service/reflection"
	"github.com/pawcare/backend/internal/platform/firebase"
	"github.com/pawcare/backend/pkg/response"
)

// @Summary      Write a reflection note
// @Tags         ReflectionNotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body reflection.CreateRequest true "Note"
// @Success      201  {object}  handlers.RespReflectionNote
// @Failure      400  {object}  handlers.RespOK
// @Failure      404  {object}  handlers.RespOK
// @Router       /api/reflection_notes [post]
func ApiCreateReflectionNote(mgr reflection.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reflection.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		n, err := mgr.Create(c.Request.Context(), mw.FirebaseUID(c), &req)
		if writeOwnerError(c, err, "reflection_note_create_failed", "failed to create reflection note") {
			return
		}
		c.JSON(http.StatusCreated, response.OKT(n))
	}
}

// @Summary      List reflection notes
// @Description  Newest first.
// @Tags         ReflectionNotes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespReflectionNotes
// @Failure      404  {object}  handlers.RespOK
// @Router       /api/reflection_notes [get]
func ApiListReflectionNotes(mgr reflection.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		notes, err := mgr.List(c.Request.Context(), mw.FirebaseUID(c))
		if writeOwnerError(c, err, "reflection_note_list_failed", "failed to list reflection notes") {
			return
		}
		c.JSON(http.StatusOK, response.OKT(notes))
	}
}

// @Summary      Review a reflection note
// @Tags         ReflectionNotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  int                        true  "Reflection note id"
// @Param        request body  reflection.ApproveRequest  true  "Approval"
// @Success      200  {object}  handlers.RespReflectionNote
// @Failure      400  {object}  handlers.RespOK
// @Failure      404  {object}  handlers.RespOK
// @Router       /api/reflection_notes/{id} [patch]
func ApiApproveReflectionNote(mgr reflection.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p idParam
		if err := c.ShouldBindUri(&p); err != nil {
			badRequest(c, err)
			return
		}
		var req reflection.ApproveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		n, err := mgr.SetApproved(c.Request.Context(), mw.FirebaseUID(c), p.ID, req.ApprovedByParent)
		switch {
		case errors.Is(err, reflection.ErrNoteNotFound):
			c.JSON(http.StatusNotFound, response.ErrorMsg(response.APIResponseCodeNotFound, "reflection note not found"))
		case writeOwnerError(c, err, "reflection_note_review_failed", "failed to update reflection note"):
		default:
			c.JSON(http.StatusOK, response.OKT(n))
		}
	}
}

func RegisterReflectionNoteRoutes(r gin.IRouter, mgr reflection.Manager, v firebase.TokenVerifier) {
	authed := r.Group("", mw.AuthMiddleware(v))
	authed.POST("", ApiCreateReflectionNote(mgr))
	authed.GET("", ApiListReflectionNotes(mgr))
	authed.PATCH("/:id", ApiApproveReflectionNote(mgr))
}

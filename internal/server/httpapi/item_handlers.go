package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/gin-gonic/gin"
)

type itemRequest struct {
	Type          string `json:"type"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Location      string `json:"location"`
	ContactNumber string `json:"contactNumber"`
}

func (r itemRequest) toModel() *models.Item {
	return &models.Item{
		Type:          r.Type,
		Title:         r.Title,
		Description:   r.Description,
		Category:      r.Category,
		Location:      r.Location,
		ContactNumber: r.ContactNumber,
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

type photoRequest struct {
	Key string `json:"key"`
}

func itemID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid item id")
		return 0, false
	}
	return id, true
}

func (h *Handler) listItems(c *gin.Context) {
	filter := models.ItemFilter{
		Type:     c.Query("type"),
		Category: c.Query("category"),
	}
	list, err := h.items.List(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getItem(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	item, err := h.items.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) createItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	user, _ := CurrentUser(c)

	item, err := h.items.Create(c.Request.Context(), user, req.toModel())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ownedItem loads item id and checks that the caller reported it.
// On failure the response has been written.
func (h *Handler) ownedItem(c *gin.Context) (int64, bool) {
	id, ok := itemID(c)
	if !ok {
		return 0, false
	}
	item, err := h.items.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return 0, false
	}
	if err := RequireOwnership(c, item.OwnerCNIC); err != nil {
		h.writeError(c, err)
		return 0, false
	}
	return id, true
}

func (h *Handler) updateItem(c *gin.Context) {
	id, ok := h.ownedItem(c)
	if !ok {
		return
	}
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	item, err := h.items.Update(c.Request.Context(), id, req.toModel())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) updateItemStatus(c *gin.Context) {
	id, ok := h.ownedItem(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid status")
		return
	}

	item, err := h.items.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) deleteItem(c *gin.Context) {
	id, ok := h.ownedItem(c)
	if !ok {
		return
	}
	if err := h.items.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) uploadPhoto(c *gin.Context) {
	id, ok := h.ownedItem(c)
	if !ok {
		return
	}
	upload, err := h.items.PhotoUpload(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// confirmPhoto attaches a finished upload to the item.
func (h *Handler) confirmPhoto(c *gin.Context) {
	id, ok := h.ownedItem(c)
	if !ok {
		return
	}
	var req photoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Key == "" {
		badRequest(c, "Invalid photo key")
		return
	}

	item, err := h.items.ConfirmPhoto(c.Request.Context(), id, req.Key)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

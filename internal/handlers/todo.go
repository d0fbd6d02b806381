package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	dom "justdo/internal/domain"
	"justdo/internal/dto"
	"justdo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TodoHandler struct {
	svc             *service.TodoService
	log             *zap.Logger
	maxItemsPerPage int
}

// NewTodoHandler registers the dto validators on first use. maxItemsPerPage <= 0 means no cap.
func NewTodoHandler(svc *service.TodoService, log *zap.Logger, maxItemsPerPage int) (*TodoHandler, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TodoHandler{svc: svc, log: log, maxItemsPerPage: maxItemsPerPage}, nil
}

// Create godoc
// @Summary      Create a todo
// @Tags         todo
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      200   {object}  dto.CreateTodoResponse
// @Failure      400   {object}  dto.ErrorsResponse
// @Failure      500   {object}  dto.ErrorsResponse
// @Router       /todo [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fieldErrors(err)...)
		return
	}
	priority := dom.PriorityNotSet
	if req.Priority != nil {
		priority = *req.Priority
	}

	id, err := h.svc.Create(c.Request.Context(), req.Name, *req.DueDate.Ptr(), priority)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.CreateTodoResponse{ID: id})
}

// GetByID godoc
// @Summary      Read a single todo
// @Tags         todo
// @Produce      json
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  dto.TodoEnvelope
// @Failure      400  {object}  dto.ErrorsResponse
// @Failure      404  {object}  dto.ErrorsResponse
// @Failure      500  {object}  dto.ErrorsResponse
// @Router       /todo/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.TodoEnvelope{Todo: t})
}

// Update godoc
// @Summary      Update a todo
// @Tags         todo
// @Accept       json
// @Param        id    path  string                 true  "Todo ID"
// @Param        body  body  dto.UpdateTodoRequest  true  "Partial update"
// @Success      204
// @Failure      400   {object}  dto.ErrorsResponse
// @Failure      404   {object}  dto.ErrorsResponse
// @Failure      500   {object}  dto.ErrorsResponse
// @Router       /todo/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fieldErrors(err)...)
		return
	}
	var due *time.Time
	if req.DueDate != nil {
		due = req.DueDate.Ptr()
	}
	_, err := h.svc.Update(c.Request.Context(), id, req.Name, due, req.Done, req.Priority)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todo
// @Param        id   path  string  true  "Todo ID"
// @Success      204
// @Failure      400  {object}  dto.ErrorsResponse
// @Failure      404  {object}  dto.ErrorsResponse
// @Failure      500  {object}  dto.ErrorsResponse
// @Router       /todo/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List godoc
// @Summary      Read a todo list
// @Description  Todos grouped by due date, with optional filtering and ordering.
// @Tags         todo
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ListQueryRequest  false  "Filters and ordering"
// @Success      200   {object}  query.ListEnvelope
// @Failure      400   {object}  dto.ErrorsResponse
// @Failure      500   {object}  dto.ErrorsResponse
// @Router       /todo/query/list [post]
func (h *TodoHandler) List(c *gin.Context) {
	var req dto.ListQueryRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	env, err := h.svc.List(c.Request.Context(), req.ToQuery())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

// PagedList godoc
// @Summary      Read a paged todo list
// @Description  One page of todos grouped by due date. page is 1-based.
// @Tags         todo
// @Accept       json
// @Produce      json
// @Param        body  body      dto.PagedQueryRequest  false  "Filters, ordering and paging"
// @Success      200   {object}  query.PagedEnvelope
// @Failure      400   {object}  dto.ErrorsResponse
// @Failure      500   {object}  dto.ErrorsResponse
// @Router       /todo/query/paged [post]
func (h *TodoHandler) PagedList(c *gin.Context) {
	var req dto.PagedQueryRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	q := req.ToQuery()
	if h.maxItemsPerPage > 0 && q.ItemsPerPage > h.maxItemsPerPage {
		badRequest(c, invalidData("itemsPerPage", fmt.Sprintf("must be at most %d", h.maxItemsPerPage)))
		return
	}
	env, err := h.svc.PagedList(c.Request.Context(), q)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

// bindOptionalJSON treats an empty body as an empty query.
func bindOptionalJSON(c *gin.Context, out any) bool {
	err := c.ShouldBindJSON(out)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(out)
	}
	if err != nil {
		badRequest(c, fieldErrors(err)...)
		return false
	}
	return true
}

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		badRequest(c, invalidData(name, "must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

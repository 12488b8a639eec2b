package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todo-list/internal/model"
	"todo-list/internal/service"
)

type taskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	CategoryID  *uint      `json:"category_id"`
}

func (r taskRequest) input() service.TaskInput {
	return service.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Deadline:    r.Deadline,
		CategoryID:  r.CategoryID,
	}
}

type completionRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

type subPeriodResponse struct {
	Label string       `json:"label"`
	Tasks []model.Task `json:"tasks"`
}

// taskListResponse is the task overview: uncompleted tasks grouped by
// sub-period, completed tasks flat.
type taskListResponse struct {
	SubPeriods      []subPeriodResponse `json:"sub_periods"`
	CompletedTasks  []model.Task        `json:"completed_tasks"`
	Categories      []model.Category    `json:"categories"`
	CurrentCategory *string             `json:"current_category"`
	CurrentPeriod   string              `json:"current_period"`
}

func newTaskListResponse(list *service.TaskList) taskListResponse {
	resp := taskListResponse{
		SubPeriods:     make([]subPeriodResponse, 0, len(list.SubPeriods)),
		CompletedTasks: list.Completed,
		Categories:     list.Categories,
		CurrentPeriod:  string(list.CurrentPeriod),
	}
	for _, bucket := range list.SubPeriods {
		resp.SubPeriods = append(resp.SubPeriods, subPeriodResponse{Label: bucket.Label, Tasks: bucket.Tasks})
	}
	if list.CurrentCategory != "" {
		category := list.CurrentCategory
		resp.CurrentCategory = &category
	}
	return resp
}

func (h *handler) listTasks(c *gin.Context) {
	list, err := h.tasks.List(c.Request.Context(), currentUser(c), service.ListQuery{
		Period:   c.DefaultQuery("period", "all"),
		Category: c.Query("category"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskListResponse(list))
}

func (h *handler) createTask(c *gin.Context) {
	var req taskRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.tasks.CreateTask(c.Request.Context(), currentUser(c), req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *handler) getTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	task, err := h.tasks.GetTask(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *handler) updateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req taskRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.tasks.UpdateTask(c.Request.Context(), currentUser(c), id, req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *handler) setCompletion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req completionRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.tasks.SetCompleted(c.Request.Context(), currentUser(c), id, *req.Completed)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *handler) deleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.tasks.DeleteTask(c.Request.Context(), currentUser(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

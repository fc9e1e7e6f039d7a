package handler

import (
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/lifelogger/backend/api/transport"
	"github.com/lifelogger/backend/domain"
	"github.com/lifelogger/backend/pkg/httpcontext"
	taskUC "github.com/lifelogger/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc        *taskUC.UseCase
	validator *transport.Validator
}

func NewTaskHandler(uc *taskUC.UseCase, validator *transport.Validator, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		validator:   validator,
	}
}

// @Summary List active tasks with completion state for a date
// @Tags tasks
// @Router /api/tasks [get]
func (h *TaskHandler) ListTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	date, err := queryDate(ctx, "date")
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	tasks, err := h.uc.List(stdCtx, date)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	if tasks == nil {
		tasks = []domain.DailyTask{}
	}
	h.respondJSON(ctx, http.StatusOK, tasks)
}

// @Summary Create task
// @Tags tasks
// @Router /api/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	name, ok := h.parseName(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Create(stdCtx, name)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.NewCreatedTask(task))
}

// @Summary Rename task
// @Tags tasks
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) RenameTask(ctx *fasthttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		NotFound(ctx)
		return
	}
	name, ok := h.parseName(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Rename(stdCtx, id, name)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.RenamedTaskResponse{ID: task.ID, Name: task.Name})
}

// @Summary Reorder tasks
// @Tags tasks
// @Router /api/tasks/reorder [post]
func (h *TaskHandler) ReorderTasks(ctx *fasthttp.RequestCtx) {
	var req transport.ReorderRequest
	if err := h.validator.Decode(transport.SchemaReorder, ctx.PostBody(), &req); err != nil {
		h.respondValidation(ctx, "taskIds list is required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Reorder(stdCtx, req.IDs()); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondMessage(ctx, http.StatusOK, "Tasks reordered successfully")
}

// @Summary Soft-delete task
// @Tags tasks
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		NotFound(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, id); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondMessage(ctx, http.StatusOK, "Task deleted successfully")
}

// @Summary Mark task complete for a date
// @Tags completions
// @Router /api/tasks/{id}/complete [post]
func (h *TaskHandler) CompleteTask(ctx *fasthttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		NotFound(ctx)
		return
	}

	var req transport.CompleteRequest
	if body := ctx.PostBody(); len(body) > 0 {
		if err := h.validator.Decode(transport.SchemaComplete, body, &req); err != nil {
			h.respondValidation(ctx, domain.ErrInvalidPayload.Message)
			return
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	date, err := bodyDate(req.Date)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	result, err := h.uc.Complete(stdCtx, id, date)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	if !result.Created {
		h.respondMessage(ctx, http.StatusOK, "Task already completed on this date")
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.StarEarnedResponse{
		Message:       "Star earned!",
		TaskID:        result.TaskID,
		CompletedDate: domain.FormatDate(result.CompletedDate),
	})
}

// @Summary Remove completion for a date
// @Tags completions
// @Router /api/tasks/{id}/complete [delete]
func (h *TaskHandler) UncompleteTask(ctx *fasthttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		NotFound(ctx)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	date, err := queryDate(ctx, "date")
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	err = h.uc.Uncomplete(stdCtx, id, date)
	switch {
	case errors.Is(err, domain.ErrCompletionNotFound):
		h.respondMessage(ctx, http.StatusNotFound, domain.ErrCompletionNotFound.Message)
	case err != nil:
		h.respondError(stdCtx, ctx, err)
	default:
		h.respondMessage(ctx, http.StatusOK, "Completion removed")
	}
}

// @Summary Save footnote, creating the completion when missing
// @Tags completions
// @Router /api/tasks/{id}/footnote [post]
func (h *TaskHandler) SaveFootnote(ctx *fasthttp.RequestCtx) {
	id, ok := pathID(ctx)
	if !ok {
		NotFound(ctx)
		return
	}

	var req transport.FootnoteRequest
	if err := h.validator.Decode(transport.SchemaFootnote, ctx.PostBody(), &req); err != nil {
		h.respondValidation(ctx, "Request body required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	date, err := bodyDate(req.Date)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	result, err := h.uc.SaveFootnote(stdCtx, id, date, req.Footnote)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.FootnoteResponse{
		Message:  "Footnote saved successfully",
		TaskID:   result.TaskID,
		Date:     domain.FormatDate(result.Date),
		Footnote: result.Footnote,
	})
}

// parseName validates the {name} body. Anything other than a string name
// is reported as missing.
func (h *TaskHandler) parseName(ctx *fasthttp.RequestCtx) (string, bool) {
	var req transport.TaskRequest
	if err := h.validator.Decode(transport.SchemaTask, ctx.PostBody(), &req); err != nil || req.Name == nil {
		h.respondValidation(ctx, "Task name is required")
		return "", false
	}
	return *req.Name, true
}

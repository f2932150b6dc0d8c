// Package view holds the task list state mirrored from the task store and
// the transitions triggered by user actions.
//
// Every action is split in two halves. A Prepare method runs on the UI
// goroutine, captures what the request needs and returns a Request. The
// Request performs the single store round trip and may run anywhere. Its
// Outcome is handed back to Apply on the UI goroutine, which is the only
// place state changes. The synchronous helpers (Load, Add, ...) chain the
// three steps for callers that do not need to overlap requests.
package view

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	"tasklist/internal/service"
)

var (
	// ErrEmptyText is returned when blank text would be sent to the store.
	// No request is made.
	ErrEmptyText = errors.New("task text is empty")

	// ErrUnknownTask is returned when an action names a task that is not in
	// the local list. No request is made.
	ErrUnknownTask = errors.New("unknown task")

	// ErrNotEditing is returned by SaveEdit when no row is being edited.
	ErrNotEditing = errors.New("no task is being edited")
)

// Op identifies the action an Outcome belongs to.
type Op int

const (
	OpLoad Op = iota
	OpAdd
	OpToggle
	OpSaveEdit
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "list tasks"
	case OpAdd:
		return "add task"
	case OpToggle:
		return "toggle task"
	case OpSaveEdit:
		return "save task"
	case OpDelete:
		return "delete task"
	default:
		return "unknown"
	}
}

// Outcome is the result of one store round trip.
type Outcome struct {
	Op  Op
	ID  string
	Err error

	// Tasks is set for OpLoad.
	Tasks []service.Task
	// Task is the created record for OpAdd.
	Task service.Task
	// Text is the saved text for OpSaveEdit.
	Text string
	// ResetCompleted is set for OpSaveEdit in legacy mode.
	ResetCompleted bool
}

// Request performs one store round trip.
type Request func(ctx context.Context) Outcome

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger failures are reported to.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithLegacyEdit makes SaveEdit also send completed=false and clear the
// local flag, for servers that overwrite both fields on every update.
func WithLegacyEdit(enabled bool) Option {
	return func(c *Controller) {
		c.legacyEdit = enabled
	}
}

// Controller owns the local task list, the add input and the edit slot.
// It is not safe for concurrent use; only Requests may leave the UI goroutine.
type Controller struct {
	svc        service.Service
	logger     *log.Logger
	legacyEdit bool

	tasks      []service.Task
	input      string
	editingID  string
	editBuffer string
}

// New creates a controller backed by svc with an empty list.
func New(svc service.Service, opts ...Option) *Controller {
	c := &Controller{svc: svc}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// Tasks returns a copy of the local list in display order.
func (c *Controller) Tasks() []service.Task {
	out := make([]service.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Task returns the local record with the given ID.
func (c *Controller) Task(id string) (service.Task, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return service.Task{}, false
	}
	return c.tasks[i], true
}

// Input returns the add input buffer.
func (c *Controller) Input() string { return c.input }

// SetInput replaces the add input buffer.
func (c *Controller) SetInput(s string) { c.input = s }

// EditingID returns the ID of the row being edited, or "".
func (c *Controller) EditingID() string { return c.editingID }

// EditBuffer returns the in-progress text of the row being edited.
func (c *Controller) EditBuffer() string { return c.editBuffer }

// SetEditBuffer replaces the in-progress edit text.
func (c *Controller) SetEditBuffer(s string) { c.editBuffer = s }

// BeginEdit puts the row in editing state with its current text.
// Any other row's unsaved buffer is dropped.
func (c *Controller) BeginEdit(id string) error {
	task, ok := c.Task(id)
	if !ok {
		return ErrUnknownTask
	}
	c.editingID = id
	c.editBuffer = task.Text
	return nil
}

// CancelEdit leaves editing state without saving.
func (c *Controller) CancelEdit() {
	c.editingID = ""
	c.editBuffer = ""
}

// PrepareLoad returns the request that fetches the whole list.
func (c *Controller) PrepareLoad() Request {
	svc := c.svc
	return func(ctx context.Context) Outcome {
		tasks, err := svc.ListTasks(ctx)
		return Outcome{Op: OpLoad, Tasks: tasks, Err: err}
	}
}

// PrepareAdd returns the create request for the current input.
// Blank input yields ErrEmptyText and no request.
func (c *Controller) PrepareAdd() (Request, error) {
	if strings.TrimSpace(c.input) == "" {
		return nil, ErrEmptyText
	}
	text := c.input
	svc := c.svc
	return func(ctx context.Context) Outcome {
		task, err := svc.CreateTask(ctx, text)
		return Outcome{Op: OpAdd, Task: task, Err: err}
	}, nil
}

// PrepareToggle returns the request flipping the completed flag of id.
// The current text is sent along with the new flag.
func (c *Controller) PrepareToggle(id string) (Request, error) {
	task, ok := c.Task(id)
	if !ok {
		return nil, ErrUnknownTask
	}
	text := task.Text
	completed := !task.Completed
	svc := c.svc
	return func(ctx context.Context) Outcome {
		_, err := svc.UpdateTask(ctx, id, service.TaskUpdate{Text: &text, Completed: &completed})
		return Outcome{Op: OpToggle, ID: id, Err: err}
	}, nil
}

// PrepareSaveEdit returns the request saving the edit buffer.
func (c *Controller) PrepareSaveEdit() (Request, error) {
	if c.editingID == "" {
		return nil, ErrNotEditing
	}
	if _, ok := c.Task(c.editingID); !ok {
		return nil, ErrUnknownTask
	}
	if strings.TrimSpace(c.editBuffer) == "" {
		return nil, ErrEmptyText
	}

	text := c.editBuffer
	id := c.editingID
	upd := service.SetText(text)
	legacy := c.legacyEdit
	if legacy {
		upd.Completed = new(bool)
	}
	svc := c.svc
	return func(ctx context.Context) Outcome {
		_, err := svc.UpdateTask(ctx, id, upd)
		return Outcome{Op: OpSaveEdit, ID: id, Text: text, ResetCompleted: legacy, Err: err}
	}, nil
}

// PrepareDelete returns the request removing id.
// The ID is sent even if it is not in the local list; the server decides.
func (c *Controller) PrepareDelete(id string) Request {
	svc := c.svc
	return func(ctx context.Context) Outcome {
		err := svc.DeleteTask(ctx, id)
		return Outcome{Op: OpDelete, ID: id, Err: err}
	}
}

// Apply folds an outcome into the local state and returns its error.
// Failures are logged and leave the state exactly as it was.
func (c *Controller) Apply(o Outcome) error {
	if o.Err != nil {
		c.logger.Error(o.Op.String()+" failed", "id", o.ID, "err", o.Err)
		return o.Err
	}

	switch o.Op {
	case OpLoad:
		c.tasks = append([]service.Task(nil), o.Tasks...)
	case OpAdd:
		c.tasks = append(c.tasks, o.Task)
		c.input = ""
	case OpToggle:
		if i := c.indexOf(o.ID); i >= 0 {
			c.tasks[i].Completed = !c.tasks[i].Completed
		}
	case OpSaveEdit:
		if i := c.indexOf(o.ID); i >= 0 {
			c.tasks[i].Text = o.Text
			if o.ResetCompleted {
				c.tasks[i].Completed = false
			}
		}
		if c.editingID == o.ID {
			c.CancelEdit()
		}
	case OpDelete:
		if i := c.indexOf(o.ID); i >= 0 {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
		}
	}
	c.logger.Debug(o.Op.String()+" ok", "id", o.ID, "tasks", len(c.tasks))
	return nil
}

// Load replaces the local list with the server's.
func (c *Controller) Load(ctx context.Context) error {
	return c.Apply(c.PrepareLoad()(ctx))
}

// Add creates a task from the input buffer.
func (c *Controller) Add(ctx context.Context) error {
	req, err := c.PrepareAdd()
	if err != nil {
		return err
	}
	return c.Apply(req(ctx))
}

// Toggle flips the completed flag of id.
func (c *Controller) Toggle(ctx context.Context, id string) error {
	req, err := c.PrepareToggle(id)
	if err != nil {
		return err
	}
	return c.Apply(req(ctx))
}

// SaveEdit saves the edit buffer of the row being edited.
func (c *Controller) SaveEdit(ctx context.Context) error {
	req, err := c.PrepareSaveEdit()
	if err != nil {
		return err
	}
	return c.Apply(req(ctx))
}

// Delete removes id.
func (c *Controller) Delete(ctx context.Context, id string) error {
	return c.Apply(c.PrepareDelete(id)(ctx))
}

func (c *Controller) indexOf(id string) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

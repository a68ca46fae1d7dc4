package tasks

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rashmika0907/zentask/internal/model"
	"github.com/rashmika0907/zentask/internal/storage"
)

// Store is the authoritative in-memory task collection for one user
// session, mirrored to the persistent store after every mutation.
// Collection order is most-recent-first.
type Store struct {
	mu     sync.RWMutex
	kv     storage.KV
	userID string
	tasks  []model.Task
}

// Patch is a partial task update. Nil fields are left untouched.
type Patch struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Status      *model.Status    `json:"status"`
	Priority    *model.Priority  `json:"priority"`
	Category    *string          `json:"category"`
	DueDate     *string          `json:"dueDate"`
	SubTasks    *[]model.SubTask `json:"subTasks"`
}

// Stats holds per-status task counts for the summary display.
type Stats struct {
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
	Total      int `json:"total"`
}

// NewStore creates a task store bound to userID and loads the persisted
// collection. A missing or malformed payload yields an empty collection.
func NewStore(kv storage.KV, userID string) *Store {
	s := &Store{
		kv:     kv,
		userID: userID,
	}
	s.load()
	return s
}

// UserID returns the owning user's id.
func (s *Store) UserID() string {
	return s.userID
}

func (s *Store) load() {
	payload, ok, err := s.kv.Get(storage.TasksKey(s.userID))
	if err != nil {
		log.Printf("Warning: failed to read task collection: %v", err)
		return
	}
	if !ok {
		return
	}

	var tasks []model.Task
	if err := json.Unmarshal([]byte(payload), &tasks); err != nil {
		// Corrupt payload is treated as absence.
		log.Printf("Warning: malformed task collection for user %s, starting empty: %v", s.userID, err)
		return
	}
	s.tasks = tasks
}

// persist re-serializes the full collection and writes it to the KV.
// Callers must hold the write lock.
func (s *Store) persist() error {
	payload, err := json.Marshal(s.tasks)
	if err != nil {
		return fmt.Errorf("failed to serialize task collection: %w", err)
	}
	if err := s.kv.Set(storage.TasksKey(s.userID), string(payload)); err != nil {
		return fmt.Errorf("failed to persist task collection: %w", err)
	}
	return nil
}

// Draft holds the caller-supplied fields for a new task.
type Draft struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      model.Status   `json:"status"`
	Priority    model.Priority `json:"priority"`
	Category    string         `json:"category"`
	DueDate     string         `json:"dueDate"`
}

// Create constructs a new task from draft, prepends it to the collection,
// and persists.
func (s *Store) Create(draft Draft) (model.Task, error) {
	if draft.Status == "" {
		draft.Status = model.StatusTodo
	}
	if draft.Priority == "" {
		draft.Priority = model.PriorityMedium
	}

	t := model.Task{
		ID:          storage.GenerateID(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Priority:    draft.Priority,
		Category:    draft.Category,
		DueDate:     draft.DueDate,
		UserID:      s.userID,
		CreatedAt:   time.Now(),
		SubTasks:    []model.SubTask{},
	}
	if err := t.Validate(); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append([]model.Task{t}, s.tasks...)
	if err := s.persist(); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// Update merges patch into the task matching id and persists. ok is
// false when id is absent; absence is a no-op, not an error.
func (s *Store) Update(id string, patch Patch) (model.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, false, nil
	}

	t := s.tasks[idx]
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}
	if patch.SubTasks != nil {
		t.SubTasks = *patch.SubTasks
	}

	if err := t.Validate(); err != nil {
		return model.Task{}, false, err
	}

	s.tasks[idx] = t
	if err := s.persist(); err != nil {
		return model.Task{}, false, err
	}
	return t, true, nil
}

// Delete removes the task matching id and persists. The destructive-action
// confirmation happens at the call boundary; by the time Delete runs the
// caller has confirmed.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}

	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	if err := s.persist(); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns the task matching id.
func (s *Store) Get(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, false
	}
	return s.tasks[idx], true
}

// All returns the full collection in order.
func (s *Store) All() []model.Task {
	return s.Filter(model.StatusAll)
}

// Filter returns the subset of the collection matching status, or the
// full collection for StatusAll. Order is preserved.
func (s *Store) Filter(status model.Status) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if status == model.StatusAll || t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// Stats returns per-status counts.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	for _, t := range s.tasks {
		switch t.Status {
		case model.StatusTodo:
			st.Todo++
		case model.StatusInProgress:
			st.InProgress++
		case model.StatusDone:
			st.Done++
		}
	}
	st.Total = len(s.tasks)
	return st
}

// SetSubTasks replaces a task's sub-task list wholesale and persists.
// Re-decomposition never merges with a prior list.
func (s *Store) SetSubTasks(id string, subTasks []model.SubTask) (model.Task, bool, error) {
	if subTasks == nil {
		subTasks = []model.SubTask{}
	}
	return s.Update(id, Patch{SubTasks: &subTasks})
}

// ToggleSubTask flips the isDone flag on one sub-task and persists.
func (s *Store) ToggleSubTask(taskID, subTaskID string) (model.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return model.Task{}, false, nil
	}

	t := s.tasks[idx]
	found := false
	subTasks := make([]model.SubTask, len(t.SubTasks))
	for i, st := range t.SubTasks {
		if st.ID == subTaskID {
			st.IsDone = !st.IsDone
			found = true
		}
		subTasks[i] = st
	}
	if !found {
		return model.Task{}, false, nil
	}

	t.SubTasks = subTasks
	s.tasks[idx] = t
	if err := s.persist(); err != nil {
		return model.Task{}, false, err
	}
	return t, true, nil
}

// indexOf returns the position of id in the collection, -1 if absent.
// Callers must hold at least the read lock.
func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

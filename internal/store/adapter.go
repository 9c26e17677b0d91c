// Package store is the client-side adapter over the remote task tables.
// Every operation calls the backend first and mutates the local
// collections only on success, so a failed call leaves local state at
// the last known good. Failures are logged; nothing retries.
package store

import (
	"context"
	"log"
	"sync"

	"github.com/temperhq/taskcal/internal/model"
)

// Cache optionally persists the collections locally so a restart has
// data before the first remote round-trip. A nil Cache disables it.
type Cache interface {
	LoadAll(ctx context.Context, userID string) ([]model.Folder, []model.List, []model.Task, error)
	ReplaceAll(ctx context.Context, userID string, folders []model.Folder, lists []model.List, tasks []model.Task) error
	PurgeOtherUsers(ctx context.Context, userID string) error
	PurgeAll(ctx context.Context) error
}

// Snapshot is a copy of the collections for rendering.
type Snapshot struct {
	Folders []model.Folder
	Lists   []model.List
	Tasks   []model.Task
}

// Adapter owns the local collections and keeps them consistent with the
// remote store. Methods are safe to call from command goroutines.
type Adapter struct {
	remote Backend
	cache  Cache

	mu    sync.Mutex
	state State
}

// NewAdapter creates an adapter. cache may be nil.
func NewAdapter(remote Backend, cache Cache) *Adapter {
	return &Adapter{remote: remote, cache: cache}
}

// Snapshot returns copies of the current collections.
func (a *Adapter) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		Folders: make([]model.Folder, len(a.state.Folders)),
		Lists:   make([]model.List, len(a.state.Lists)),
		Tasks:   make([]model.Task, len(a.state.Tasks)),
	}
	copy(snap.Folders, a.state.Folders)
	copy(snap.Lists, a.state.Lists)
	copy(snap.Tasks, a.state.Tasks)
	return snap
}

// Reset drops the local collections and the on-disk cache, e.g. when the
// user signs out.
func (a *Adapter) Reset(ctx context.Context) {
	a.mu.Lock()
	a.state.Reset()
	a.mu.Unlock()

	if a.cache != nil {
		if err := a.cache.PurgeAll(ctx); err != nil {
			log.Printf("store: purging cache: %v", err)
		}
	}
}

// LoadCached fills the collections from the local cache. Called once on
// sign-in so the UI has data before Refresh completes; cache rows from
// other users are purged first.
func (a *Adapter) LoadCached(ctx context.Context, userID string) {
	if a.cache == nil {
		return
	}
	if err := a.cache.PurgeOtherUsers(ctx, userID); err != nil {
		log.Printf("store: purging foreign cache rows: %v", err)
	}

	folders, lists, tasks, err := a.cache.LoadAll(ctx, userID)
	if err != nil {
		log.Printf("store: loading cache: %v", err)
		return
	}

	a.mu.Lock()
	a.state.Replace(folders, lists, tasks)
	a.mu.Unlock()
}

// Refresh fetches all three collections from the remote store and
// replaces local state. Partial failure leaves everything untouched.
func (a *Adapter) Refresh(ctx context.Context, token, userID string) error {
	folders, err := a.remote.FetchFolders(ctx, token, userID)
	if err != nil {
		log.Printf("store: fetching folders: %v", err)
		return err
	}
	lists, err := a.remote.FetchLists(ctx, token, userID)
	if err != nil {
		log.Printf("store: fetching lists: %v", err)
		return err
	}
	tasks, err := a.remote.FetchTasks(ctx, token, userID)
	if err != nil {
		log.Printf("store: fetching tasks: %v", err)
		return err
	}

	a.mu.Lock()
	a.state.Replace(folders, lists, tasks)
	a.mu.Unlock()

	a.writeCache(ctx, userID)
	return nil
}

// CreateFolder inserts a folder remotely and appends the created record.
func (a *Adapter) CreateFolder(ctx context.Context, token, userID, name, color string) (model.Folder, error) {
	created, err := a.remote.CreateFolder(ctx, token, model.Folder{
		Name: name, Color: color, UserID: userID,
	})
	if err != nil {
		log.Printf("store: creating folder %q: %v", name, err)
		return model.Folder{}, err
	}

	a.mu.Lock()
	a.state.AddFolder(created)
	a.mu.Unlock()

	a.writeCache(ctx, userID)
	return created, nil
}

// DeleteFolder removes a folder remotely (the backend cascades) and
// applies the same cascade to local state: the folder, its lists, and
// their tasks all disappear together.
func (a *Adapter) DeleteFolder(ctx context.Context, token, userID, id string) error {
	if err := a.remote.DeleteFolder(ctx, token, id); err != nil {
		log.Printf("store: deleting folder %s: %v", id, err)
		return err
	}

	a.mu.Lock()
	a.state.RemoveFolder(id)
	a.mu.Unlock()

	a.writeCache(ctx, userID)
	return nil
}

// CreateList inserts a list remotely and appends the created record.
func (a *Adapter) CreateList(ctx context.Context, token, userID, folderID, name, color string) (model.List, error) {
	created, err := a.remote.CreateList(ctx, token, model.List{
		Name: name, FolderID: folderID, Color: color, UserID: userID,
	})
	if err != nil {
		log.Printf("store: creating list %q: %v", name, err)
		return model.List{}, err
	}

	a.mu.Lock()
	a.state.AddList(created)
	a.mu.Unlock()

	a.writeCache(ctx, userID)
	return created, nil
}

// DeleteList removes a list remotely and cascades to its tasks locally.
func (a *Adapter) DeleteList(ctx context.Context, token, userID, id string) error {
	if err := a.remote.DeleteList(ctx, token, id); err != nil {
		log.Printf("store: deleting list %s: %v", id, err)
		return err
	}

	a.mu.Lock()
	a.state.RemoveList(id)
	a.mu.Unlock()

	a.writeCache(ctx, userID)
	return nil
}

// AddTask inserts a task remotely and prepends the created record.
// listID may be empty for a list-less task.
func (a *Adapter) AddTask(ctx context.Context, token, userID, listID, title string) (model.Task, error) {
	task := model.Task{Title: title, UserID: userID}
	if listID != "" {
		task.ListID = &listID
	}

	created, err := a.remote.CreateTask(ctx, token, task)
	if err != nil {
		log.Printf("store: creating task %q: %v", title, err)
		return model.Task{}, err
	}

	a.mu.Lock()
	a.state.AddTask(created)
	a.mu.Unlock()

	a.writeCache(ctx, userID)
	return created, nil
}

// ToggleTask flips a task's completion. Completing deletes the task
// outright (tasks are never kept in a done state); un-completing patches
// the flag. Toggling an id that no longer exists is a no-op.
func (a *Adapter) ToggleTask(ctx context.Context, token, userID, id string, completed bool) error {
	if completed {
		if err := a.remote.DeleteTask(ctx, token, id); err != nil {
			log.Printf("store: completing task %s: %v", id, err)
			return err
		}
		a.mu.Lock()
		a.state.RemoveTask(id)
		a.mu.Unlock()
	} else {
		if err := a.remote.UpdateTaskCompleted(ctx, token, id, false); err != nil {
			log.Printf("store: reopening task %s: %v", id, err)
			return err
		}
		a.mu.Lock()
		a.state.SetTaskCompleted(id, false)
		a.mu.Unlock()
	}

	a.writeCache(ctx, userID)
	return nil
}

// writeCache persists the current collections; cache trouble is logged
// and never propagated.
func (a *Adapter) writeCache(ctx context.Context, userID string) {
	if a.cache == nil {
		return
	}

	snap := a.Snapshot()
	if err := a.cache.ReplaceAll(ctx, userID, snap.Folders, snap.Lists, snap.Tasks); err != nil {
		log.Printf("store: writing cache: %v", err)
	}
}

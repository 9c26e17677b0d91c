package store

import (
	"context"
	"fmt"
	"net/url"

	"github.com/temperhq/taskcal/internal/backend/supabase"
	"github.com/temperhq/taskcal/internal/model"
)

// Table names in the remote store.
const (
	tableFolders = "folders"
	tableLists   = "lists"
	tableTasks   = "tasks"
)

// Backend is the remote table surface the adapter depends on. *Remote
// implements it against the hosted backend.
type Backend interface {
	FetchFolders(ctx context.Context, token, userID string) ([]model.Folder, error)
	FetchLists(ctx context.Context, token, userID string) ([]model.List, error)
	FetchTasks(ctx context.Context, token, userID string) ([]model.Task, error)

	CreateFolder(ctx context.Context, token string, f model.Folder) (model.Folder, error)
	CreateList(ctx context.Context, token string, l model.List) (model.List, error)
	CreateTask(ctx context.Context, token string, t model.Task) (model.Task, error)

	DeleteFolder(ctx context.Context, token, id string) error
	DeleteList(ctx context.Context, token, id string) error
	DeleteTask(ctx context.Context, token, id string) error

	UpdateTaskCompleted(ctx context.Context, token, id string, completed bool) error
}

// Remote implements Backend over the PostgREST table endpoints.
type Remote struct {
	client *supabase.Client
}

// NewRemote creates the remote table adapter.
func NewRemote(client *supabase.Client) *Remote {
	return &Remote{client: client}
}

// ownerQuery builds the standard owner filter with an order clause.
func ownerQuery(userID, order string) url.Values {
	return url.Values{
		"user_id": {"eq." + userID},
		"order":   {order},
		"select":  {"*"},
	}
}

// FetchFolders returns the user's folders, oldest first.
func (r *Remote) FetchFolders(ctx context.Context, token, userID string) ([]model.Folder, error) {
	var folders []model.Folder
	err := r.client.Select(ctx, token, tableFolders, ownerQuery(userID, "created_at.asc"), &folders)
	if err != nil {
		return nil, err
	}
	return folders, nil
}

// FetchLists returns the user's lists, oldest first.
func (r *Remote) FetchLists(ctx context.Context, token, userID string) ([]model.List, error) {
	var lists []model.List
	err := r.client.Select(ctx, token, tableLists, ownerQuery(userID, "created_at.asc"), &lists)
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// FetchTasks returns the user's tasks, newest first.
func (r *Remote) FetchTasks(ctx context.Context, token, userID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.client.Select(ctx, token, tableTasks, ownerQuery(userID, "created_at.desc"), &tasks)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// folderInsert is the insert payload for a folder; the backend fills in
// id and created_at.
type folderInsert struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	UserID string `json:"user_id"`
}

// CreateFolder inserts a folder and returns the created record.
func (r *Remote) CreateFolder(ctx context.Context, token string, f model.Folder) (model.Folder, error) {
	var created []model.Folder
	err := r.client.Insert(ctx, token, tableFolders,
		folderInsert{Name: f.Name, Color: f.Color, UserID: f.UserID}, &created)
	if err != nil {
		return model.Folder{}, err
	}
	if len(created) == 0 {
		return model.Folder{}, fmt.Errorf("insert into %s returned no rows", tableFolders)
	}
	return created[0], nil
}

type listInsert struct {
	Name     string `json:"name"`
	FolderID string `json:"folder_id"`
	Color    string `json:"color"`
	UserID   string `json:"user_id"`
}

// CreateList inserts a list and returns the created record.
func (r *Remote) CreateList(ctx context.Context, token string, l model.List) (model.List, error) {
	var created []model.List
	err := r.client.Insert(ctx, token, tableLists,
		listInsert{Name: l.Name, FolderID: l.FolderID, Color: l.Color, UserID: l.UserID}, &created)
	if err != nil {
		return model.List{}, err
	}
	if len(created) == 0 {
		return model.List{}, fmt.Errorf("insert into %s returned no rows", tableLists)
	}
	return created[0], nil
}

type taskInsert struct {
	Title     string  `json:"title"`
	Completed bool    `json:"completed"`
	ListID    *string `json:"list_id,omitempty"`
	UserID    string  `json:"user_id"`
}

// CreateTask inserts a task and returns the created record.
func (r *Remote) CreateTask(ctx context.Context, token string, t model.Task) (model.Task, error) {
	var created []model.Task
	err := r.client.Insert(ctx, token, tableTasks,
		taskInsert{Title: t.Title, ListID: t.ListID, UserID: t.UserID}, &created)
	if err != nil {
		return model.Task{}, err
	}
	if len(created) == 0 {
		return model.Task{}, fmt.Errorf("insert into %s returned no rows", tableTasks)
	}
	return created[0], nil
}

// DeleteFolder removes a folder row; the backend's foreign keys cascade
// to its lists and tasks.
func (r *Remote) DeleteFolder(ctx context.Context, token, id string) error {
	return r.client.Delete(ctx, token, tableFolders, id)
}

// DeleteList removes a list row; the backend cascades to its tasks.
func (r *Remote) DeleteList(ctx context.Context, token, id string) error {
	return r.client.Delete(ctx, token, tableLists, id)
}

// DeleteTask removes a task row.
func (r *Remote) DeleteTask(ctx context.Context, token, id string) error {
	return r.client.Delete(ctx, token, tableTasks, id)
}

// UpdateTaskCompleted patches the completed flag.
func (r *Remote) UpdateTaskCompleted(ctx context.Context, token, id string, completed bool) error {
	return r.client.Update(ctx, token, tableTasks, id,
		map[string]bool{"completed": completed})
}

package model

import "time"

// Folder is a top-level grouping owned by a user, containing lists.
// Deleting a folder cascades to its lists and their tasks.
type Folder struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// List is a grouping of tasks within exactly one folder.
type List struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	FolderID  string    `json:"folder_id" db:"folder_id"`
	Color     string    `json:"color" db:"color"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Task is a single to-do item. ListID is nil for list-less tasks.
//
// Completing a task deletes it from the remote table rather than flipping
// Completed to true. That is the product's policy: there is no "done"
// archive, so the flag only ever transitions true -> false on an undo.
type Task struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Completed bool      `json:"completed" db:"completed"`
	ListID    *string   `json:"list_id,omitempty" db:"list_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

package store

import "github.com/temperhq/taskcal/internal/model"

// State holds the client's transient copies of the remote collections.
// The cascade rules live here, centralized and independent of any remote
// call or UI code: removing a folder removes its lists and their tasks,
// removing a list removes its tasks, and no orphans survive either.
//
// State is not safe for concurrent use; the Adapter serializes access.
type State struct {
	Folders []model.Folder
	Lists   []model.List
	Tasks   []model.Task
}

// Reset drops all collections, e.g. on sign-out.
func (s *State) Reset() {
	s.Folders = nil
	s.Lists = nil
	s.Tasks = nil
}

// Replace swaps in freshly fetched collections.
func (s *State) Replace(folders []model.Folder, lists []model.List, tasks []model.Task) {
	s.Folders = folders
	s.Lists = lists
	s.Tasks = tasks
}

// AddFolder appends a created folder.
func (s *State) AddFolder(f model.Folder) {
	s.Folders = append(s.Folders, f)
}

// AddList appends a created list.
func (s *State) AddList(l model.List) {
	s.Lists = append(s.Lists, l)
}

// AddTask prepends a created task; the task collection is newest-first.
func (s *State) AddTask(t model.Task) {
	s.Tasks = append([]model.Task{t}, s.Tasks...)
}

// RemoveFolder removes the folder, every list belonging to it, and every
// task belonging to those lists.
func (s *State) RemoveFolder(id string) {
	doomed := make(map[string]bool)
	kept := s.Lists[:0]
	for _, l := range s.Lists {
		if l.FolderID == id {
			doomed[l.ID] = true
			continue
		}
		kept = append(kept, l)
	}
	s.Lists = kept

	keptTasks := s.Tasks[:0]
	for _, t := range s.Tasks {
		if t.ListID != nil && doomed[*t.ListID] {
			continue
		}
		keptTasks = append(keptTasks, t)
	}
	s.Tasks = keptTasks

	keptFolders := s.Folders[:0]
	for _, f := range s.Folders {
		if f.ID != id {
			keptFolders = append(keptFolders, f)
		}
	}
	s.Folders = keptFolders
}

// RemoveList removes the list and every task belonging to it.
func (s *State) RemoveList(id string) {
	kept := s.Lists[:0]
	for _, l := range s.Lists {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	s.Lists = kept

	keptTasks := s.Tasks[:0]
	for _, t := range s.Tasks {
		if t.ListID != nil && *t.ListID == id {
			continue
		}
		keptTasks = append(keptTasks, t)
	}
	s.Tasks = keptTasks
}

// RemoveTask removes a single task. Removing an id that is not present
// is a no-op.
func (s *State) RemoveTask(id string) {
	kept := s.Tasks[:0]
	for _, t := range s.Tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.Tasks = kept
}

// SetTaskCompleted updates the completed flag in place. Unknown ids are
// a no-op.
func (s *State) SetTaskCompleted(id string, completed bool) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			s.Tasks[i].Completed = completed
			return
		}
	}
}

// ListsForFolder returns the lists belonging to a folder, in stored order.
func (s *State) ListsForFolder(folderID string) []model.List {
	var out []model.List
	for _, l := range s.Lists {
		if l.FolderID == folderID {
			out = append(out, l)
		}
	}
	return out
}

// TasksForList returns the tasks belonging to a list, in stored order.
func (s *State) TasksForList(listID string) []model.Task {
	var out []model.Task
	for _, t := range s.Tasks {
		if t.ListID != nil && *t.ListID == listID {
			out = append(out, t)
		}
	}
	return out
}

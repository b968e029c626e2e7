package store

import "github.com/starford/notewise/internal/models"

// Seed fills an empty State with first-run content: one notebook with a
// folder, a welcome note and a shopping list. It is a no-op when any
// notebook exists.
func (s *State) Seed() error {
	if len(s.Notebooks()) > 0 {
		return nil
	}
	nb, err := s.AddNotebook("My First Notebook")
	if err != nil {
		return err
	}
	f, err := s.AddFolder("General Thoughts", nb.ID, "")
	if err != nil {
		return err
	}
	list, err := s.AddNote(models.NewNote{
		Title:      "My Shopping List",
		Content:    "- Milk\n- Eggs\n[x] Bread",
		NotebookID: nb.ID,
		FolderID:   f.ID,
		Summary:    "A sample shopping list",
	})
	if err != nil {
		return err
	}
	if _, err := s.SetColor(list.ID, "hsl(50, 95%, 90%)"); err != nil {
		return err
	}
	welcome, err := s.AddNote(models.NewNote{
		Title: "Welcome to NoteWise AI!",
		Content: "This is your first note.\n" +
			"Start organizing your thoughts and query them with AI.\n" +
			"Try asking a question about this note in the AI Panel!",
		NotebookID: nb.ID,
		FolderID:   f.ID,
		Summary:    "A welcome note.",
	})
	if err != nil {
		return err
	}
	_, err = s.SelectNote(welcome.ID)
	return err
}

package mutate

import "todolists/internal/model"

func findTodo(l *model.List, index int) (*model.Todo, error) {
	if l == nil || index < 0 || index >= len(l.Todos) {
		return nil, notFound("todo", index)
	}
	return &l.Todos[index], nil
}

// AddTodo appends an incomplete todo named text (trimmed).
func AddTodo(l *model.List, text string) (*model.Todo, error) {
	text = TrimName(text)
	if err := ValidateTodoName(text); err != nil {
		return nil, err
	}
	l.Todos = append(l.Todos, model.Todo{Name: text})
	return &l.Todos[len(l.Todos)-1], nil
}

// DeleteTodo removes the todo at index. Later todos shift down by one.
func DeleteTodo(l *model.List, index int) error {
	if _, err := findTodo(l, index); err != nil {
		return err
	}
	l.Todos = append(l.Todos[:index:index], l.Todos[index+1:]...)
	return nil
}

func SetTodoCompleted(l *model.List, index int, completed bool) error {
	t, err := findTodo(l, index)
	if err != nil {
		return err
	}
	t.Completed = completed
	return nil
}

// CompleteAll marks every todo completed. Empty lists are left as they are.
func CompleteAll(l *model.List) {
	for i := range l.Todos {
		l.Todos[i].Completed = true
	}
}

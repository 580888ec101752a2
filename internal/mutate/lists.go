package mutate

import "todolists/internal/model"

// FindList returns the list stored at index.
func FindList(doc *model.Document, index int) (*model.List, error) {
	if doc == nil || index < 0 || index >= len(doc.Lists) {
		return nil, notFound("list", index)
	}
	return &doc.Lists[index], nil
}

// CreateList appends a new empty list named name (trimmed).
// On error the document is unchanged.
func CreateList(doc *model.Document, name string) (*model.List, error) {
	name = TrimName(name)
	if err := ValidateListName(name, doc.ListNames()); err != nil {
		return nil, err
	}
	doc.Lists = append(doc.Lists, model.List{Name: name, Todos: []model.Todo{}})
	return &doc.Lists[len(doc.Lists)-1], nil
}

// RenameList validates newName against every current list name, the renamed
// list's own name included: renaming a list to its current name is rejected
// as a duplicate.
func RenameList(doc *model.Document, index int, newName string) error {
	l, err := FindList(doc, index)
	if err != nil {
		return err
	}
	newName = TrimName(newName)
	if err := ValidateListName(newName, doc.ListNames()); err != nil {
		return err
	}
	l.Name = newName
	return nil
}

// DeleteList removes the list at index and returns it. Later lists shift down by one.
func DeleteList(doc *model.Document, index int) (model.List, error) {
	l, err := FindList(doc, index)
	if err != nil {
		return model.List{}, err
	}
	removed := *l
	doc.Lists = append(doc.Lists[:index:index], doc.Lists[index+1:]...)
	return removed, nil
}

// Package snapshot содержит локальную копию коллекции, полученной от API.
// Каждый экран владеет своей копией и меняет ее только после того,
// как сервер подтвердил изменение.
package snapshot

import "github.com/maynagashev/gophblog/models"

// Entity - элемент коллекции с идентификатором.
type Entity interface {
	GetID() models.ID
}

// Snapshot - упорядоченная коллекция с индексом по идентификатору.
// Порядок элементов совпадает с порядком ответа API, новые элементы
// добавляются в начало.
type Snapshot[T Entity] struct {
	items []T
	index map[models.ID]int
}

// New создает снимок из ответа API, сохраняя его порядок.
func New[T Entity](items []T) *Snapshot[T] {
	s := &Snapshot[T]{items: make([]T, len(items))}
	copy(s.items, items)
	s.reindex()
	return s
}

// Len возвращает количество элементов.
func (s *Snapshot[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items возвращает копию элементов в текущем порядке.
func (s *Snapshot[T]) Items() []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// At возвращает элемент по позиции.
func (s *Snapshot[T]) At(i int) (T, bool) {
	var zero T
	if s == nil || i < 0 || i >= len(s.items) {
		return zero, false
	}
	return s.items[i], true
}

// Get возвращает элемент по идентификатору.
func (s *Snapshot[T]) Get(id models.ID) (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}
	i, ok := s.index[id]
	if !ok {
		return zero, false
	}
	return s.items[i], true
}

// Prepend добавляет элемент в начало.
func (s *Snapshot[T]) Prepend(item T) {
	s.items = append([]T{item}, s.items...)
	s.reindex()
}

// Replace заменяет элемент с тем же идентификатором целиком.
// Возвращает false, если элемента нет.
func (s *Snapshot[T]) Replace(item T) bool {
	i, ok := s.index[item.GetID()]
	if !ok {
		return false
	}
	s.items[i] = item
	return true
}

// ReplaceID заменяет элемент с идентификатором id.
// Нужен, если сервер вернул элемент с другим представлением идентификатора.
func (s *Snapshot[T]) ReplaceID(id models.ID, item T) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.items[i] = item
	s.reindex()
	return true
}

// Remove удаляет элемент по идентификатору. Возвращает false, если элемента нет.
func (s *Snapshot[T]) Remove(id models.ID) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.reindex()
	return true
}

// reindex перестраивает индекс. Элементы без идентификатора в индекс
// не попадают, при повторах побеждает первый.
func (s *Snapshot[T]) reindex() {
	s.index = make(map[models.ID]int, len(s.items))
	for i, item := range s.items {
		id := item.GetID()
		if id.IsZero() {
			continue
		}
		if _, dup := s.index[id]; !dup {
			s.index[id] = i
		}
	}
}

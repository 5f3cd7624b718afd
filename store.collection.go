package main

import "sort"

// BookCollection is a normalized set of books: an ordered list of ids plus
// a lookup map. It is never modified in place. Every mutation returns a new
// collection, or the receiver itself when nothing changed, so that callers
// can rely on pointer identity to detect changes.
//
// The ids are always sorted by descending book id, newest books first.
type BookCollection struct {
	ids      []int
	entities map[int]Book
}

// NewBookCollection returns an empty collection.
func NewBookCollection() *BookCollection {
	return &BookCollection{
		ids:      []int{},
		entities: map[int]Book{},
	}
}

// Len returns the number of books in the collection.
func (c *BookCollection) Len() int {
	return len(c.ids)
}

// IDs returns a copy of the ordered ids.
func (c *BookCollection) IDs() []int {
	ids := make([]int, len(c.ids))
	copy(ids, c.ids)
	return ids
}

// Get retrieves a book by its id.
func (c *BookCollection) Get(id int) (Book, bool) {
	book, ok := c.entities[id]
	return book, ok
}

// All returns the books following the collection order.
func (c *BookCollection) All() []Book {
	books := make([]Book, 0, len(c.ids))
	for _, id := range c.ids {
		books = append(books, c.entities[id])
	}
	return books
}

// SetAll replaces the whole content with the given books. When the list
// carries the same id more than once, the last occurrence wins.
func (c *BookCollection) SetAll(books []Book) *BookCollection {
	entities := make(map[int]Book, len(books))
	for _, book := range books {
		entities[book.ID] = book
	}
	return newSortedCollection(entities)
}

// UpsertOne inserts the book or overwrites the existing entry with the same id.
func (c *BookCollection) UpsertOne(book Book) *BookCollection {
	entities := c.cloneEntities()
	entities[book.ID] = book
	return newSortedCollection(entities)
}

// UpdateOne replaces the entry matching the book id. Unknown ids are ignored.
func (c *BookCollection) UpdateOne(book Book) *BookCollection {
	if _, ok := c.entities[book.ID]; !ok {
		return c
	}
	entities := c.cloneEntities()
	entities[book.ID] = book
	return newSortedCollection(entities)
}

// RemoveOne drops the entry with the given id. Unknown ids are ignored.
func (c *BookCollection) RemoveOne(id int) *BookCollection {
	if _, ok := c.entities[id]; !ok {
		return c
	}
	entities := c.cloneEntities()
	delete(entities, id)
	return newSortedCollection(entities)
}

func (c *BookCollection) cloneEntities() map[int]Book {
	entities := make(map[int]Book, len(c.entities)+1)
	for id, book := range c.entities {
		entities[id] = book
	}
	return entities
}

// newSortedCollection derives the ids from the map then sorts them.
func newSortedCollection(entities map[int]Book) *BookCollection {
	ids := make([]int, 0, len(entities))
	for id := range entities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] > ids[j]
	})
	return &BookCollection{ids: ids, entities: entities}
}

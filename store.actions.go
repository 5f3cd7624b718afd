package main

// ActionType is the unique tag of each action.
type ActionType string

// ActionKind tells whether an action is a request or a settled result.
type ActionKind string

const (
	IntentKind  ActionKind = "intent"
	OutcomeKind ActionKind = "outcome"
)

const (
	LoadBooksType            ActionType = "[Books] Load Books"
	LoadBooksSuccessType     ActionType = "[Books] Load Books Success"
	LoadBooksFailureType     ActionType = "[Books] Load Books Failure"
	AddBookType              ActionType = "[Books] Add Book"
	AddBookSuccessType       ActionType = "[Books] Add Book Success"
	AddBookFailureType       ActionType = "[Books] Add Book Failure"
	UpdateBookType           ActionType = "[Books] Update Book"
	UpdateBookSuccessType    ActionType = "[Books] Update Book Success"
	UpdateBookFailureType    ActionType = "[Books] Update Book Failure"
	DeleteBookType           ActionType = "[Books] Delete Book"
	DeleteBookSuccessType    ActionType = "[Books] Delete Book Success"
	DeleteBookFailureType    ActionType = "[Books] Delete Book Failure"
	ToggleBookReadStatusType ActionType = "[Books] Toggle Book Read Status"
)

// Action is the closed set of events flowing through the store.
// The unexported method keeps implementations inside this package.
type Action interface {
	Type() ActionType
	Kind() ActionKind
	action()
}

// FailureAction is implemented by every failure outcome.
type FailureAction interface {
	Action
	FailureReason() string
}

var (
	_ Action = LoadBooks{}
	_ Action = LoadBooksSuccess{}
	_ Action = AddBook{}
	_ Action = AddBookSuccess{}
	_ Action = UpdateBook{}
	_ Action = UpdateBookSuccess{}
	_ Action = DeleteBook{}
	_ Action = DeleteBookSuccess{}
	_ Action = ToggleBookReadStatus{}

	_ FailureAction = LoadBooksFailure{}
	_ FailureAction = AddBookFailure{}
	_ FailureAction = UpdateBookFailure{}
	_ FailureAction = DeleteBookFailure{}
)

// LoadBooks requests a full refresh of the collection.
type LoadBooks struct{}

type LoadBooksSuccess struct {
	Books []Book
}

type LoadBooksFailure struct {
	Reason string
}

// AddBook requests the creation of a book.
type AddBook struct {
	Book BookDraft
}

// AddBookSuccess carries the created book with its server-assigned id.
type AddBookSuccess struct {
	Book Book
}

type AddBookFailure struct {
	Reason string
}

// UpdateBook requests a partial update of the book with the given id.
type UpdateBook struct {
	ID      int
	Changes BookChanges
}

// UpdateBookSuccess carries the full updated record.
type UpdateBookSuccess struct {
	Book Book
}

type UpdateBookFailure struct {
	Reason string
}

// DeleteBook requests the removal of the book with the given id.
type DeleteBook struct {
	ID int
}

type DeleteBookSuccess struct {
	ID int
}

type DeleteBookFailure struct {
	Reason string
}

// ToggleBookReadStatus requests to flip the read flag of one book.
// It is consumed by the effects only.
type ToggleBookReadStatus struct {
	ID int
}

func (LoadBooks) Type() ActionType            { return LoadBooksType }
func (LoadBooksSuccess) Type() ActionType     { return LoadBooksSuccessType }
func (LoadBooksFailure) Type() ActionType     { return LoadBooksFailureType }
func (AddBook) Type() ActionType              { return AddBookType }
func (AddBookSuccess) Type() ActionType       { return AddBookSuccessType }
func (AddBookFailure) Type() ActionType       { return AddBookFailureType }
func (UpdateBook) Type() ActionType           { return UpdateBookType }
func (UpdateBookSuccess) Type() ActionType    { return UpdateBookSuccessType }
func (UpdateBookFailure) Type() ActionType    { return UpdateBookFailureType }
func (DeleteBook) Type() ActionType           { return DeleteBookType }
func (DeleteBookSuccess) Type() ActionType    { return DeleteBookSuccessType }
func (DeleteBookFailure) Type() ActionType    { return DeleteBookFailureType }
func (ToggleBookReadStatus) Type() ActionType { return ToggleBookReadStatusType }

func (LoadBooks) Kind() ActionKind            { return IntentKind }
func (LoadBooksSuccess) Kind() ActionKind     { return OutcomeKind }
func (LoadBooksFailure) Kind() ActionKind     { return OutcomeKind }
func (AddBook) Kind() ActionKind              { return IntentKind }
func (AddBookSuccess) Kind() ActionKind       { return OutcomeKind }
func (AddBookFailure) Kind() ActionKind       { return OutcomeKind }
func (UpdateBook) Kind() ActionKind           { return IntentKind }
func (UpdateBookSuccess) Kind() ActionKind    { return OutcomeKind }
func (UpdateBookFailure) Kind() ActionKind    { return OutcomeKind }
func (DeleteBook) Kind() ActionKind           { return IntentKind }
func (DeleteBookSuccess) Kind() ActionKind    { return OutcomeKind }
func (DeleteBookFailure) Kind() ActionKind    { return OutcomeKind }
func (ToggleBookReadStatus) Kind() ActionKind { return IntentKind }

func (LoadBooks) action()            {}
func (LoadBooksSuccess) action()     {}
func (LoadBooksFailure) action()     {}
func (AddBook) action()              {}
func (AddBookSuccess) action()       {}
func (AddBookFailure) action()       {}
func (UpdateBook) action()           {}
func (UpdateBookSuccess) action()    {}
func (UpdateBookFailure) action()    {}
func (DeleteBook) action()           {}
func (DeleteBookSuccess) action()    {}
func (DeleteBookFailure) action()    {}
func (ToggleBookReadStatus) action() {}

func (a LoadBooksFailure) FailureReason() string  { return a.Reason }
func (a AddBookFailure) FailureReason() string    { return a.Reason }
func (a UpdateBookFailure) FailureReason() string { return a.Reason }
func (a DeleteBookFailure) FailureReason() string { return a.Reason }

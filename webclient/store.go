package webclient

import (
	"slices"
	"sync"

	"github.com/rpupo63/personal-blog-backend/models"
)

// State is everything the client renders from.
type State struct {
	View     View
	PostID   int64
	Posts    []models.Post    // cache of the post list, newest first
	Current  *models.Post     // post shown in the detail or edit view
	Comments []models.Comment // comments of Current
	Admin    bool
	Query    Query
	Message  string
	Loading  bool

	inFlight int
}

// Store owns the client state. Update is the only way to change it; observers
// receive a copy after every update.
type Store struct {
	mu        sync.Mutex
	state     State
	observers []observer
	nextID    int
}

type observer struct {
	id int
	fn func(State)
}

func NewStore(initial State) *Store {
	if initial.View == "" {
		initial.View = ViewHome
	}
	if initial.Query.Sort == "" {
		initial.Query.Sort = SortRecent
	}
	return &Store{state: initial}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Update applies fn under the store lock, then notifies observers outside it.
func (s *Store) Update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state.clone()
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	for _, o := range observers {
		o.fn(snapshot)
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(o observer) bool { return o.id == id })
	}
}

func (st State) clone() State {
	st.Posts = slices.Clone(st.Posts)
	st.Comments = slices.Clone(st.Comments)
	if st.Current != nil {
		current := *st.Current
		st.Current = &current
	}
	return st
}

func (st *State) findPost(id int64) (int, bool) {
	for i := range st.Posts {
		if st.Posts[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

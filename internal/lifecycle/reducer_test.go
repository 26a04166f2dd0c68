package lifecycle

import (
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hnstories/internal/domain"
)

func fixtures() []domain.Story {
	return []domain.Story{
		{ObjectID: "0", Title: "React", URL: "https://reactjs.org/", Author: "Jordan Walke", NumComments: 3, Points: 4},
		{ObjectID: "1", Title: "Redux", URL: "https://redux.js.org/", Author: "Dan Abramov, Andrew Clark", NumComments: 2, Points: 5},
	}
}

func TestInitialState(t *testing.T) {
	s := Initial()
	assert.NotNil(t, s.Data)
	assert.Empty(t, s.Data)
	assert.False(t, s.IsLoading)
	assert.False(t, s.IsError)
	assert.Equal(t, PhaseIdle, s.Phase(false))
}

func TestFetchInitClearsError(t *testing.T) {
	s := State{Data: fixtures(), IsError: true}

	next := Reduce(s, FetchInit{})

	assert.True(t, next.IsLoading)
	assert.False(t, next.IsError)
	assert.Equal(t, fixtures(), next.Data, "data unchanged")
	assert.Equal(t, PhaseLoading, next.Phase(true))
}

func TestFetchSuccessReplacesData(t *testing.T) {
	sequences := [][]Action{
		{},
		{FetchInit{}},
		{FetchFailure{}},
		{FetchInit{}, FetchSuccess{Payload: fixtures()}, RemoveItem{ID: "0"}, FetchInit{}},
	}
	payload := []domain.Story{{ObjectID: "42", Title: "Go 1.24 released"}}

	for _, seq := range sequences {
		s := Initial()
		for _, a := range seq {
			s = Reduce(s, a)
		}
		s = Reduce(s, FetchSuccess{Payload: payload})

		assert.Equal(t, payload, s.Data)
		assert.False(t, s.IsLoading)
		assert.False(t, s.IsError)
		assert.Equal(t, PhaseSuccess, s.Phase(true))
	}
}

func TestFetchSuccessCopiesPayload(t *testing.T) {
	payload := fixtures()
	s := Reduce(Initial(), FetchSuccess{Payload: payload})

	payload[0].Title = "mutated"
	assert.Equal(t, "React", s.Data[0].Title)
}

func TestFetchFailureKeepsData(t *testing.T) {
	s := Reduce(Initial(), FetchSuccess{Payload: fixtures()})
	s = Reduce(s, FetchInit{})
	s = Reduce(s, FetchFailure{})

	assert.False(t, s.IsLoading)
	assert.True(t, s.IsError)
	assert.Equal(t, fixtures(), s.Data)
	assert.Equal(t, PhaseFailure, s.Phase(true))
}

func TestRemoveItem(t *testing.T) {
	s := Reduce(Initial(), FetchSuccess{Payload: fixtures()})

	s = Reduce(s, RemoveItem{ID: "0"})
	require.Len(t, s.Data, 1)
	assert.Equal(t, "Redux", s.Data[0].Title)

	again := Reduce(s, RemoveItem{ID: "0"})
	assert.Equal(t, s, again, "second removal is a no-op")

	unknown := Reduce(s, RemoveItem{ID: "does-not-exist"})
	assert.Equal(t, s, unknown)
}

func TestRemoveItemDoesNotTouchFlags(t *testing.T) {
	s := State{Data: fixtures(), IsLoading: true}
	s = Reduce(s, RemoveItem{ID: "1"})
	assert.True(t, s.IsLoading)
	assert.False(t, s.IsError)
	assert.Len(t, s.Data, 1)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := Reduce(Initial(), FetchSuccess{Payload: fixtures()})
	_ = Reduce(s, RemoveItem{ID: "0"})
	assert.Len(t, s.Data, 2)
}

// bogusAction satisfies Action from inside the package only
type bogusAction struct{}

func (bogusAction) Type() ActionType { return "BOGUS" }
func (bogusAction) action()          {}

func TestUnknownActionPanics(t *testing.T) {
	for _, a := range []Action{bogusAction{}, nil} {
		func() {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				err, ok := r.(error)
				require.True(t, ok)
				assert.True(t, errors.Is(err, ErrUnknownAction))
			}()
			Reduce(Initial(), a)
		}()
	}
}

func TestScenarioFetchThenDismiss(t *testing.T) {
	store := NewStore()
	assert.Equal(t, Initial(), store.State())

	s := store.Dispatch(FetchInit{})
	assert.True(t, s.IsLoading)

	s = store.Dispatch(FetchSuccess{Payload: fixtures()})
	assert.False(t, s.IsLoading)
	assert.Len(t, s.Data, 2)

	s = store.Dispatch(RemoveItem{ID: "0"})
	require.Len(t, s.Data, 1)
	assert.Equal(t, domain.ID("1"), s.Data[0].ObjectID)
}

func TestStoreObservers(t *testing.T) {
	store := NewStore()

	var seen []ActionType
	store.Observe(func(prev, next State, a Action) {
		seen = append(seen, a.Type())
		if a.Type() == TypeFetchInit {
			assert.False(t, prev.IsLoading)
			assert.True(t, next.IsLoading)
		}
	})

	store.Dispatch(FetchInit{})
	store.Dispatch(FetchFailure{})

	assert.Equal(t, []ActionType{TypeFetchInit, TypeFetchFailure}, seen)
}

func TestStoreStateIsACopy(t *testing.T) {
	store := NewStore()
	store.Dispatch(FetchSuccess{Payload: fixtures()})

	s := store.State()
	s.Data[0].Title = "changed"

	assert.Equal(t, "React", store.State().Data[0].Title)
}

func TestStoreConcurrentDispatch(t *testing.T) {
	store := NewStore()
	payload := make([]domain.Story, 0, 100)
	for i := 0; i < 100; i++ {
		payload = append(payload, domain.Story{ObjectID: domain.ID(strconv.Itoa(i)), Title: "t"})
	}
	store.Dispatch(FetchSuccess{Payload: payload})

	var wg sync.WaitGroup
	for _, story := range payload {
		wg.Add(1)
		go func(id domain.ID) {
			defer wg.Done()
			store.Dispatch(RemoveItem{ID: id})
		}(story.ObjectID)
	}
	wg.Wait()

	assert.Empty(t, store.State().Data)
}

func TestPhase(t *testing.T) {
	s := Initial()
	assert.Equal(t, PhaseIdle, s.Phase(false))

	s = Reduce(s, FetchInit{})
	assert.Equal(t, PhaseLoading, s.Phase(true))

	s = Reduce(s, FetchSuccess{Payload: []domain.Story{}})
	assert.Equal(t, PhaseSuccess, s.Phase(true), "an empty result is still a success")

	s = Reduce(s, FetchFailure{})
	assert.Equal(t, PhaseFailure, s.Phase(true))
}

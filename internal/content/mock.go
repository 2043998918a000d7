package content

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockClient is an in-memory Client for tests and offline demos. It
// records every call in order.
type MockClient struct {
	mu          sync.Mutex
	byHash      map[string]*Element
	byID        map[int64]*Element
	collections map[string]*Collection
	errs        map[string]error
	Calls       []string
}

// NewMockClient returns an empty MockClient.
func NewMockClient() *MockClient {
	return &MockClient{
		byHash:      make(map[string]*Element),
		byID:        make(map[int64]*Element),
		collections: make(map[string]*Collection),
		errs:        make(map[string]error),
	}
}

// AddElement registers e under its hash and/or id.
func (m *MockClient) AddElement(e *Element) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.Raw == nil {
		raw, _ := json.Marshal(e)
		e.Raw = raw
	}
	if e.HashID != "" {
		m.byHash[e.HashID] = e
	}
	if e.ID != 0 {
		m.byID[e.ID] = e
	}
}

// AddCollection registers a collection whose elements are raw JSON objects.
func (m *MockClient) AddCollection(hash string, elements ...json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[hash] = &Collection{HashID: hash, Elements: elements}
}

// FailCall makes the call identified by op and key return err.
func (m *MockClient) FailCall(op, key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[op+":"+key] = err
}

func (m *MockClient) ElementByHash(_ context.Context, hash string) (*Element, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(OpElementByHash, hash); err != nil {
		return nil, err
	}
	e, ok := m.byHash[hash]
	if !ok {
		return nil, &ErrStatus{Op: OpElementByHash, StatusCode: 404, Err: ErrNotFound}
	}
	return e, nil
}

func (m *MockClient) ElementByID(_ context.Context, id int64) (*Element, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(OpElementByID, idKey(id)); err != nil {
		return nil, err
	}
	e, ok := m.byID[id]
	if !ok {
		return nil, &ErrStatus{Op: OpElementByID, StatusCode: 404, Err: ErrNotFound}
	}
	return e, nil
}

func (m *MockClient) CollectionByHash(_ context.Context, hash string) (*Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call(OpCollectionByHash, hash); err != nil {
		return nil, err
	}
	c, ok := m.collections[hash]
	if !ok {
		return nil, &ErrStatus{Op: OpCollectionByHash, StatusCode: 404, Err: ErrNotFound}
	}
	return c, nil
}

// CallCount returns the number of calls made so far.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// call records the call and returns any configured failure. Caller holds mu.
func (m *MockClient) call(op, key string) error {
	id := op + ":" + key
	m.Calls = append(m.Calls, id)
	if err, ok := m.errs[id]; ok {
		return err
	}
	return nil
}

// String summarises the mock for test failure messages.
func (m *MockClient) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("MockClient{elements:%d collections:%d calls:%v}", len(m.byHash)+len(m.byID), len(m.collections), m.Calls)
}

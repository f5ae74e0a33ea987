package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"

	"github.com/hnchronicle/hnchronicle/model"
	"github.com/stretchr/testify/require"
)

var itemPathRe = regexp.MustCompile(`^/item/(\d+)\.json$`)

// fakeHNServer serves a canned item table plus a top stories list the way the
// Firebase API does.
type fakeHNServer struct {
	mu       sync.Mutex
	items    map[int]model.HNItem
	top      []int
	requests []string
	failIds  map[int]bool
}

func (s *fakeHNServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL.Path)
		s.mu.Unlock()

		if r.URL.Path == "/topstories.json" {
			json.NewEncoder(w).Encode(s.top)
			return
		}
		if m := itemPathRe.FindStringSubmatch(r.URL.Path); m != nil {
			var id int
			fmt.Sscanf(m[1], "%d", &id)
			if s.failIds[id] {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			item, ok := s.items[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(item)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
}

func (s *fakeHNServer) requestedItem(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, path := range s.requests {
		if path == fmt.Sprintf("/item/%d.json", id) {
			return true
		}
	}
	return false
}

func newTestClient(t *testing.T, fake *fakeHNServer, batchSize int) *Client {
	t.Helper()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		BaseURL:          server.URL,
		AlgoliaBaseURL:   server.URL,
		CommentBatchSize: batchSize,
	})
}

func TestFetchTopStories(t *testing.T) {
	fake := &fakeHNServer{top: []int{11, 22, 33, 44, 55}}
	client := newTestClient(t, fake, 10)

	t.Run("preserves remote ordering and applies limit", func(t *testing.T) {
		ids, err := client.FetchTopStories(context.Background(), 3)
		require.NoError(t, err)
		require.Equal(t, []int{11, 22, 33}, ids)
	})

	t.Run("limit larger than the list returns everything", func(t *testing.T) {
		ids, err := client.FetchTopStories(context.Background(), 100)
		require.NoError(t, err)
		require.Equal(t, []int{11, 22, 33, 44, 55}, ids)
	})
}

func TestFetchItems(t *testing.T) {
	fake := &fakeHNServer{
		items: map[int]model.HNItem{
			1: {Id: 1, Type: model.ItemTypeStory, Title: "first"},
			2: {Id: 2, Type: model.ItemTypeStory, Title: "second"},
			3: {Id: 3, Type: model.ItemTypeStory, Title: "third"},
		},
	}
	client := newTestClient(t, fake, 10)

	t.Run("result order matches input id order", func(t *testing.T) {
		items, err := client.FetchItems(context.Background(), []int{3, 1, 2})
		require.NoError(t, err)
		require.Len(t, items, 3)
		require.Equal(t, "third", items[0].Title)
		require.Equal(t, "first", items[1].Title)
		require.Equal(t, "second", items[2].Title)
	})

	t.Run("one failed fetch fails the whole batch", func(t *testing.T) {
		fake.failIds = map[int]bool{2: true}
		defer func() { fake.failIds = nil }()

		_, err := client.FetchItems(context.Background(), []int{1, 2, 3})
		require.Error(t, err)
		var netErr *NetworkError
		require.ErrorAs(t, err, &netErr)
		require.Equal(t, http.StatusInternalServerError, netErr.StatusCode)
	})
}

func TestFetchItemNetworkError(t *testing.T) {
	fake := &fakeHNServer{items: map[int]model.HNItem{}}
	client := newTestClient(t, fake, 10)

	_, err := client.FetchItem(context.Background(), 404404)
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, http.StatusNotFound, netErr.StatusCode)
}

func TestFetchAllComments(t *testing.T) {
	// Story 100 has three top level comments. 201 is deleted and has a child
	// 302 that must never be requested. 202 has a live child 301 and a dead
	// grandchild 401.
	fake := &fakeHNServer{
		items: map[int]model.HNItem{
			100: {Id: 100, Type: model.ItemTypeStory, Kids: []int{201, 202, 203}},
			201: {Id: 201, Type: model.ItemTypeComment, Deleted: true, Kids: []int{302}},
			202: {Id: 202, Type: model.ItemTypeComment, By: "alice", Text: "nice", Kids: []int{301}},
			203: {Id: 203, Type: model.ItemTypeComment, By: "bob", Text: "hm"},
			301: {Id: 301, Type: model.ItemTypeComment, By: "carol", Text: "reply", Kids: []int{401}},
			302: {Id: 302, Type: model.ItemTypeComment, By: "ghost", Text: "orphan"},
			401: {Id: 401, Type: model.ItemTypeComment, Dead: true},
		},
	}
	client := newTestClient(t, fake, 2)

	comments, err := client.FetchAllComments(context.Background(), 100)
	require.NoError(t, err)

	var gotIds []int
	for _, comment := range comments {
		gotIds = append(gotIds, comment.Id)
	}
	require.Equal(t, []int{202, 203, 301}, gotIds)

	// The pruned subtree under the deleted comment is never traversed, while
	// the dead leaf is fetched once and then dropped.
	require.False(t, fake.requestedItem(302))
	require.True(t, fake.requestedItem(401))
}

func TestFetchAllCommentsNoKids(t *testing.T) {
	fake := &fakeHNServer{
		items: map[int]model.HNItem{100: {Id: 100, Type: model.ItemTypeStory}},
	}
	client := newTestClient(t, fake, 2)

	comments, err := client.FetchAllComments(context.Background(), 100)
	require.NoError(t, err)
	require.Empty(t, comments)
}

func TestFetchTopStoriesFromAlgolia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "front_page", r.URL.Query().Get("tags"))
		fmt.Fprint(w, `{"hits":[
			{"objectID":"41","title":"a story","url":"https://a.example","author":"alice","points":120,"num_comments":34,"created_at_i":1700000000},
			{"objectID":"not-a-number","title":"bogus"},
			{"objectID":"42","title":"another","author":"bob","points":90,"num_comments":12,"created_at_i":1700000100}
		]}`)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, AlgoliaBaseURL: server.URL})
	items, err := client.FetchTopStoriesFromAlgolia(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 41, items[0].Id)
	require.Equal(t, "a story", items[0].Title)
	require.Equal(t, 120, items[0].Score)
	require.Equal(t, 34, items[0].Descendants)
	require.Equal(t, model.ItemTypeStory, items[0].Type)
	require.Equal(t, 42, items[1].Id)
}

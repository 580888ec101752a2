package web

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"todolists/internal/logging"
	"todolists/internal/store"
)

type testClient struct {
	t     *testing.T
	base  string
	http  *http.Client
	store *store.MemoryStore
	srv   *Server
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()

	st := store.NewMemoryStore()
	srv, err := NewServer(ServerConfig{Store: st, Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &testClient{
		t:    t,
		base: ts.URL,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		store: st,
		srv:   srv,
	}
}

func (c *testClient) get(path string) (int, string, *http.Response) {
	c.t.Helper()
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		c.t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b), resp
}

func (c *testClient) post(path string, form url.Values) (int, string, *http.Response) {
	c.t.Helper()
	resp, err := c.http.PostForm(c.base+path, form)
	if err != nil {
		c.t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b), resp
}

func (c *testClient) expectRedirect(path string, form url.Values, to string) {
	c.t.Helper()
	code, body, resp := c.post(path, form)
	if code != http.StatusSeeOther {
		c.t.Fatalf("POST %s: expected 303, got %d: %s", path, code, body)
	}
	if loc := resp.Header.Get("Location"); loc != to {
		c.t.Fatalf("POST %s: expected redirect to %s, got %s", path, to, loc)
	}
}

func TestHome_RedirectsToLists(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)

	code, _, resp := c.get("/")
	if code != http.StatusSeeOther || resp.Header.Get("Location") != "/lists" {
		t.Fatalf("expected redirect to /lists, got %d %q", code, resp.Header.Get("Location"))
	}
}

func TestCreateList_FlashShownOnce(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)

	c.expectRedirect("/lists", url.Values{"list_name": {"  Groceries  "}}, "/lists")

	code, body, _ := c.get("/lists")
	if code != http.StatusOK {
		t.Fatalf("GET /lists: %d", code)
	}
	if !strings.Contains(body, "A new list has been added") {
		t.Fatalf("expected success flash, got:\n%s", body)
	}
	if !strings.Contains(body, `href="/lists/0"`) || !strings.Contains(body, "Groceries") {
		t.Fatalf("expected list link, got:\n%s", body)
	}

	_, body, _ = c.get("/lists")
	if strings.Contains(body, "A new list has been added") {
		t.Fatalf("flash rendered twice")
	}
}

func TestCreateList_ValidationFailureRerendersForm(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)

	code, body, _ := c.post("/lists", url.Values{"list_name": {""}})
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if !strings.Contains(body, "List name must be within 1 and 100 characters") || !strings.Contains(body, `action="/lists"`) {
		t.Fatalf("expected form with error, got:\n%s", body)
	}

	c.expectRedirect("/lists", url.Values{"list_name": {"X"}}, "/lists")
	code, body, _ = c.post("/lists", url.Values{"list_name": {"X"}})
	if code != http.StatusUnprocessableEntity || !strings.Contains(body, "List name must be unique") {
		t.Fatalf("expected duplicate error, got %d:\n%s", code, body)
	}

	// The error was consumed by that render.
	_, body, _ = c.get("/lists")
	if strings.Contains(body, "must be unique") {
		t.Fatalf("error flash leaked into next render")
	}
	infos, _ := c.store.List(context.Background())
	if len(infos) != 1 || infos[0].Lists != 1 {
		t.Fatalf("expected one session with one list, got %+v", infos)
	}
}

func TestMalformedFormBodyIsBadRequest(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)
	c.expectRedirect("/lists", url.Values{"list_name": {"L"}}, "/lists")

	for _, path := range []string{"/lists", "/lists/0/edit", "/lists/0/todos", "/lists/0/todos/0/complete"} {
		resp, err := c.http.Post(c.base+path, "application/x-www-form-urlencoded", strings.NewReader("list_name=%zz&todo=%zz&completed=%zz"))
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("POST %s: expected 400, got %d", path, resp.StatusCode)
		}
	}

	_, body, _ := c.get("/lists/0")
	if !strings.Contains(body, "<h2>L</h2>") {
		t.Fatalf("expected list name unchanged, got:\n%s", body)
	}
	infos, _ := c.store.List(context.Background())
	if len(infos) != 1 || infos[0].Lists != 1 {
		t.Fatalf("expected one session with one list, got %+v", infos)
	}
}

func TestTodoLifecycle(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)

	c.expectRedirect("/lists", url.Values{"list_name": {"Groceries"}}, "/lists")
	c.expectRedirect("/lists/0/todos", url.Values{"todo": {"Milk"}}, "/lists/0")
	c.expectRedirect("/lists/0/todos", url.Values{"todo": {"Eggs"}}, "/lists/0")

	_, body, _ := c.get("/lists/0")
	if !strings.Contains(body, "You have successfully added a todo to Groceries") {
		t.Fatalf("expected add flash, got:\n%s", body)
	}
	if !strings.Contains(body, "2 of 2 todos left") {
		t.Fatalf("expected counts, got:\n%s", body)
	}

	c.expectRedirect("/lists/0/todos/0/complete", url.Values{"completed": {"true"}}, "/lists/0")
	_, body, _ = c.get("/lists/0")
	if !strings.Contains(body, "1 of 2 todos left") {
		t.Fatalf("expected one left, got:\n%s", body)
	}
	// Completed todos are listed first but keep their stored index.
	milk := strings.Index(body, "/lists/0/todos/0/delete")
	eggs := strings.Index(body, "/lists/0/todos/1/delete")
	if milk < 0 || eggs < 0 || milk > eggs {
		t.Fatalf("expected completed Milk (index 0) before Eggs (index 1)")
	}

	c.expectRedirect("/lists/0/todos/complete/all", nil, "/lists/0")
	_, body, _ = c.get("/lists")
	if !strings.Contains(body, `class="complete"`) {
		t.Fatalf("expected list rendered complete, got:\n%s", body)
	}

	c.expectRedirect("/lists/0/todos/0/complete", url.Values{"completed": {"false"}}, "/lists/0")
	c.expectRedirect("/lists/0/todos/1/delete", nil, "/lists/0")
	_, body, _ = c.get("/lists/0")
	if !strings.Contains(body, "The todo has been deleted") || !strings.Contains(body, "1 of 1 todo left") {
		t.Fatalf("unexpected list page:\n%s", body)
	}
}

func TestAddTodo_ValidationFailureRerendersList(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)

	c.expectRedirect("/lists", url.Values{"list_name": {"L"}}, "/lists")
	code, body, _ := c.post("/lists/0/todos", url.Values{"todo": {strings.Repeat("a", 61)}})
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if !strings.Contains(body, "Your todo must be between 1 and 60 characters") || !strings.Contains(body, `id="list-main"`) {
		t.Fatalf("expected list page with error, got:\n%s", body)
	}
}

func TestRenameAndDeleteList(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)

	c.expectRedirect("/lists", url.Values{"list_name": {"A"}}, "/lists")
	c.expectRedirect("/lists", url.Values{"list_name": {"B"}}, "/lists")

	code, body, _ := c.get("/lists/1/edit")
	if code != http.StatusOK || !strings.Contains(body, `value="B"`) {
		t.Fatalf("expected edit form prefilled, got %d:\n%s", code, body)
	}

	code, body, _ = c.post("/lists/1/edit", url.Values{"list_name": {"A"}})
	if code != http.StatusUnprocessableEntity || !strings.Contains(body, "List name must be unique") {
		t.Fatalf("expected duplicate error, got %d", code)
	}

	c.expectRedirect("/lists/1/edit", url.Values{"list_name": {"C"}}, "/lists/1")
	c.expectRedirect("/lists/0/delete", nil, "/lists")

	_, body, _ = c.get("/lists")
	if !strings.Contains(body, "The list A has been deleted") {
		t.Fatalf("expected delete flash, got:\n%s", body)
	}
	// C shifted down to index 0.
	_, body, _ = c.get("/lists/0")
	if !strings.Contains(body, "<h2>C</h2>") {
		t.Fatalf("expected C at index 0, got:\n%s", body)
	}
	if code, _, _ := c.get("/lists/1"); code != http.StatusNotFound {
		t.Fatalf("expected stale index to 404, got %d", code)
	}
}

func TestOutOfRangeIndexesAreNotFound(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)

	if code, _, _ := c.get("/lists/0"); code != http.StatusNotFound {
		t.Fatalf("expected 404 on empty session, got %d", code)
	}
	c.expectRedirect("/lists", url.Values{"list_name": {"L"}}, "/lists")

	cases := []struct {
		method string
		path   string
	}{
		{"GET", "/lists/5"},
		{"GET", "/lists/-1/edit"},
		{"POST", "/lists/9/delete"},
		{"POST", "/lists/0/todos/0/delete"},
		{"POST", "/lists/0/todos/3/complete"},
		{"POST", "/lists/2/todos/complete/all"},
	}
	for _, tc := range cases {
		var code int
		if tc.method == "GET" {
			code, _, _ = c.get(tc.path)
		} else {
			code, _, _ = c.post(tc.path, nil)
		}
		if code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d", tc.method, tc.path, code)
		}
	}

	// Non-numeric ids read as 0.
	if code, body, _ := c.get("/lists/abc"); code != http.StatusOK || !strings.Contains(body, "<h2>L</h2>") {
		t.Fatalf("expected /lists/abc to show list 0, got %d", code)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	t.Parallel()
	a := newTestClient(t)

	a.expectRedirect("/lists", url.Values{"list_name": {"Mine"}}, "/lists")

	// Same server, no cookie: a fresh session.
	resp, err := http.Get(a.base + "/lists")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if strings.Contains(string(b), "Mine") {
		t.Fatalf("second session sees first session's lists")
	}
}

func TestForgedCookieStartsNewSession(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)
	c.expectRedirect("/lists", url.Values{"list_name": {"Mine"}}, "/lists")

	req, _ := http.NewRequest(http.MethodGet, c.base+"/lists", nil)
	req.AddCookie(&http.Cookie{Name: defaultCookieName, Value: "eyJzdWIiOiJ4In0.bogus"})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if strings.Contains(string(b), "Mine") {
		t.Fatalf("forged cookie reached an existing session")
	}
	if len(resp.Cookies()) == 0 {
		t.Fatalf("expected a new session cookie")
	}
}

func TestTodoNamesAreEscaped(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)

	c.expectRedirect("/lists", url.Values{"list_name": {"<b>x</b>"}}, "/lists")
	c.expectRedirect("/lists/0/todos", url.Values{"todo": {"Buy **bold** <script>alert(1)</script>"}}, "/lists/0")
	_, body, _ := c.get("/lists/0")
	if strings.Contains(body, "<script>alert(1)</script>") || strings.Contains(body, "<h2><b>x</b></h2>") {
		t.Fatalf("unescaped user text in page:\n%s", body)
	}
	if !strings.Contains(body, "<strong>bold</strong>") {
		t.Fatalf("expected markdown emphasis rendered, got:\n%s", body)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	c := newTestClient(t)
	code, body, _ := c.get("/health")
	if code != http.StatusOK || strings.TrimSpace(body) != "ok" {
		t.Fatalf("unexpected health: %d %q", code, body)
	}
}

package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"todolists/internal/model"
	"todolists/internal/mutate"
	"todolists/internal/statusutil"
	"todolists/internal/store"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/starfederation/datastar-go/datastar"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

const (
	defaultCookieName = "todolists_session"
	defaultSessionTTL = 30 * 24 * time.Hour
	keepAliveInterval = 25 * time.Second
)

type ServerConfig struct {
	Addr       string
	DataDir    string
	CookieName string
	SessionTTL time.Duration

	// Store holds one document per session. Required.
	Store  store.SessionStore
	Logger *log.Logger
}

type Server struct {
	cfg    ServerConfig
	tmpl   *template.Template
	secret []byte
	bc     *sessionBroadcaster
	log    *log.Logger
	now    func() time.Time
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.DataDir = strings.TrimSpace(cfg.DataDir)
	cfg.CookieName = strings.TrimSpace(cfg.CookieName)
	if cfg.Store == nil {
		return nil, errors.New("web: session store is nil")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	secret, err := loadOrInitSecretKey(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("web: secret key: %w", err)
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"markdown": renderInlineMarkdown,
		"plural": func(n int, one, many string) string {
			if n == 1 {
				return one
			}
			return many
		},
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:    cfg,
		tmpl:   tmpl,
		secret: secret,
		bc:     newSessionBroadcaster(),
		log:    logger,
		now:    time.Now,
	}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /lists", s.withSession(s.handleLists))
	mux.HandleFunc("GET /lists/new", s.withSession(s.handleListNew))
	mux.HandleFunc("POST /lists", s.withSession(s.handleListCreate))
	mux.HandleFunc("GET /lists/{id}", s.withSession(s.handleList))
	mux.HandleFunc("GET /lists/{id}/events", s.withSession(s.handleListEvents))
	mux.HandleFunc("GET /lists/{id}/edit", s.withSession(s.handleListEdit))
	mux.HandleFunc("POST /lists/{id}/edit", s.withSession(s.handleListRename))
	mux.HandleFunc("POST /lists/{id}/delete", s.withSession(s.handleListDelete))
	mux.HandleFunc("POST /lists/{id}/todos", s.withSession(s.handleTodoCreate))
	mux.HandleFunc("POST /lists/{id}/todos/{todo_id}/delete", s.withSession(s.handleTodoDelete))
	mux.HandleFunc("POST /lists/{id}/todos/{todo_id}/complete", s.withSession(s.handleTodoComplete))
	mux.HandleFunc("POST /lists/{id}/todos/complete/all", s.withSession(s.handleTodoCompleteAll))
	return s.logRequests(mux)
}

// session is the per-request view of one session document.
type session struct {
	id    string
	doc   *model.Document
	fresh bool
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session)

func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.loadSession(w, r)
		if err != nil {
			s.serverError(w, "load session", err)
			return
		}
		h(w, r, sess)
	}
}

// loadSession resolves the signed session cookie. A missing, forged or expired
// cookie starts a new empty session; a valid cookie whose document is gone
// (process restart, prune) keeps its id and starts empty.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session, error) {
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		if sp, err := verifyToken(s.secret, c.Value, s.now()); err == nil {
			doc, err := s.cfg.Store.Get(r.Context(), sp.Sub)
			switch {
			case err == nil:
				return &session{id: sp.Sub, doc: doc}, nil
			case errors.Is(err, store.ErrSessionNotFound):
				return &session{id: sp.Sub, doc: model.NewDocument(), fresh: true}, nil
			default:
				return nil, err
			}
		}
	}

	id := uuid.NewString()
	tok, err := newSessionToken(s.secret, id, s.now(), s.cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return &session{id: id, doc: model.NewDocument(), fresh: true}, nil
}

func (s *Server) saveSession(ctx context.Context, sess *session, changed bool) error {
	if err := s.cfg.Store.Put(ctx, sess.id, sess.doc); err != nil {
		return err
	}
	sess.fresh = false
	if changed {
		s.bc.notify(sess.id)
	}
	return nil
}

// commit saves a mutated document and redirects (303) to target.
func (s *Server) commit(w http.ResponseWriter, r *http.Request, sess *session, target string) {
	if err := s.saveSession(r.Context(), sess, true); err != nil {
		s.serverError(w, "save session", err)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type baseVM struct {
	Title string
	Flash *model.Flash
	Now   string
}

// writePage renders name with the pending flash, which is consumed here.
func (s *Server) writePage(w http.ResponseWriter, r *http.Request, sess *session, status int, name, title string, fill func(baseVM) any) {
	base := baseVM{
		Title: title,
		Flash: sess.doc.TakeFlash(),
		Now:   s.now().Format(time.RFC3339),
	}
	if base.Flash != nil || sess.fresh {
		if err := s.saveSession(r.Context(), sess, false); err != nil {
			s.serverError(w, "save session", err)
			return
		}
	}

	html, err := s.renderTemplate(name, fill(base))
	if err != nil {
		s.serverError(w, "render "+name, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, html)
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) serverError(w http.ResponseWriter, what string, err error) {
	s.log.Error(what, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func listURL(index int) string {
	return "/lists/" + strconv.Itoa(index)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/lists", http.StatusSeeOther)
}

type listRowVM struct {
	Index      int
	Name       string
	Complete   bool
	Incomplete int
	Total      int
}

type listsVM struct {
	baseVM
	Lists []listRowVM
}

func (s *Server) handleLists(w http.ResponseWriter, r *http.Request, sess *session) {
	ordered := statusutil.ListDisplayOrder(sess.doc.Lists)
	rows := make([]listRowVM, 0, len(ordered))
	for _, it := range ordered {
		rows = append(rows, listRowVM{
			Index:      it.Index,
			Name:       it.Value.Name,
			Complete:   statusutil.IsListComplete(it.Value),
			Incomplete: statusutil.IncompleteCount(it.Value),
			Total:      len(it.Value.Todos),
		})
	}
	s.writePage(w, r, sess, http.StatusOK, "lists.html", "Lists", func(b baseVM) any {
		return listsVM{baseVM: b, Lists: rows}
	})
}

type listFormVM struct {
	baseVM
	Index    int
	ListName string
}

func (s *Server) handleListNew(w http.ResponseWriter, r *http.Request, sess *session) {
	s.writePage(w, r, sess, http.StatusOK, "new_list.html", "New list", func(b baseVM) any {
		return listFormVM{baseVM: b}
	})
}

func (s *Server) handleListCreate(w http.ResponseWriter, r *http.Request, sess *session) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name := r.Form.Get("list_name")

	if _, err := mutate.CreateList(sess.doc, name); err != nil {
		if !mutate.IsValidation(err) {
			s.serverError(w, "create list", err)
			return
		}
		sess.doc.SetError(mutate.Message(err))
		s.writePage(w, r, sess, http.StatusUnprocessableEntity, "new_list.html", "New list", func(b baseVM) any {
			return listFormVM{baseVM: b, ListName: mutate.TrimName(name)}
		})
		return
	}
	sess.doc.SetSuccess("A new list has been added")
	s.commit(w, r, sess, "/lists")
}

type todoRowVM struct {
	Index     int
	Name      string
	Completed bool
}

type listMainVM struct {
	Index      int
	Name       string
	Missing    bool
	Complete   bool
	Incomplete int
	Total      int
	Todos      []todoRowVM
	TodoInput  string
}

type listVM struct {
	baseVM
	Main      listMainVM
	StreamURL string
}

func buildListMain(doc *model.Document, index int) listMainVM {
	l, err := mutate.FindList(doc, index)
	if err != nil {
		return listMainVM{Index: index, Missing: true}
	}
	ordered := statusutil.TodoDisplayOrder(l.Todos)
	todos := make([]todoRowVM, 0, len(ordered))
	for _, it := range ordered {
		todos = append(todos, todoRowVM{Index: it.Index, Name: it.Value.Name, Completed: it.Value.Completed})
	}
	return listMainVM{
		Index:      index,
		Name:       l.Name,
		Complete:   statusutil.IsListComplete(*l),
		Incomplete: statusutil.IncompleteCount(*l),
		Total:      len(l.Todos),
		Todos:      todos,
	}
}

func (s *Server) writeListPage(w http.ResponseWriter, r *http.Request, sess *session, status int, index int, todoInput string) {
	main := buildListMain(sess.doc, index)
	main.TodoInput = todoInput
	s.writePage(w, r, sess, status, "list.html", main.Name, func(b baseVM) any {
		return listVM{baseVM: b, Main: main, StreamURL: listURL(index) + "/events"}
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request, sess *session) {
	index := parseIndex(r.PathValue("id"))
	if _, err := mutate.FindList(sess.doc, index); err != nil {
		http.NotFound(w, r)
		return
	}
	s.writeListPage(w, r, sess, http.StatusOK, index, "")
}

func (s *Server) handleListEdit(w http.ResponseWriter, r *http.Request, sess *session) {
	index := parseIndex(r.PathValue("id"))
	l, err := mutate.FindList(sess.doc, index)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	name := l.Name
	s.writePage(w, r, sess, http.StatusOK, "edit_list.html", "Edit "+name, func(b baseVM) any {
		return listFormVM{baseVM: b, Index: index, ListName: name}
	})
}

func (s *Server) handleListRename(w http.ResponseWriter, r *http.Request, sess *session) {
	index := parseIndex(r.PathValue("id"))
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name := r.Form.Get("list_name")

	err := mutate.RenameList(sess.doc, index, name)
	switch {
	case err == nil:
		sess.doc.SetSuccess("The list name has been changed")
		s.commit(w, r, sess, listURL(index))
	case mutate.IsNotFound(err):
		http.NotFound(w, r)
	case mutate.IsValidation(err):
		sess.doc.SetError(mutate.Message(err))
		s.writePage(w, r, sess, http.StatusUnprocessableEntity, "edit_list.html", "Edit list", func(b baseVM) any {
			return listFormVM{baseVM: b, Index: index, ListName: mutate.TrimName(name)}
		})
	default:
		s.serverError(w, "rename list", err)
	}
}

func (s *Server) handleListDelete(w http.ResponseWriter, r *http.Request, sess *session) {
	removed, err := mutate.DeleteList(sess.doc, parseIndex(r.PathValue("id")))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	sess.doc.SetSuccess(fmt.Sprintf("The list %s has been deleted", removed.Name))
	s.commit(w, r, sess, "/lists")
}

func (s *Server) handleTodoCreate(w http.ResponseWriter, r *http.Request, sess *session) {
	index := parseIndex(r.PathValue("id"))
	l, err := mutate.FindList(sess.doc, index)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	text := r.Form.Get("todo")

	if _, err := mutate.AddTodo(l, text); err != nil {
		sess.doc.SetError(mutate.Message(err))
		s.writeListPage(w, r, sess, http.StatusUnprocessableEntity, index, mutate.TrimName(text))
		return
	}
	sess.doc.SetSuccess("You have successfully added a todo to " + l.Name)
	s.commit(w, r, sess, listURL(index))
}

func (s *Server) handleTodoDelete(w http.ResponseWriter, r *http.Request, sess *session) {
	index := parseIndex(r.PathValue("id"))
	l, err := mutate.FindList(sess.doc, index)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := mutate.DeleteTodo(l, parseIndex(r.PathValue("todo_id"))); err != nil {
		http.NotFound(w, r)
		return
	}
	sess.doc.SetSuccess("The todo has been deleted")
	s.commit(w, r, sess, listURL(index))
}

func (s *Server) handleTodoComplete(w http.ResponseWriter, r *http.Request, sess *session) {
	index := parseIndex(r.PathValue("id"))
	l, err := mutate.FindList(sess.doc, index)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	completed := r.Form.Get("completed") == "true"
	if err := mutate.SetTodoCompleted(l, parseIndex(r.PathValue("todo_id")), completed); err != nil {
		http.NotFound(w, r)
		return
	}
	sess.doc.SetSuccess("The todo has been updated")
	s.commit(w, r, sess, listURL(index))
}

func (s *Server) handleTodoCompleteAll(w http.ResponseWriter, r *http.Request, sess *session) {
	index := parseIndex(r.PathValue("id"))
	l, err := mutate.FindList(sess.doc, index)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	mutate.CompleteAll(l)
	sess.doc.SetSuccess("All todos have been completed")
	s.commit(w, r, sess, listURL(index))
}

// renderListMain re-reads the stored document so the fragment reflects writes
// made by other requests. The flash is left in place for the next full page.
func (s *Server) renderListMain(ctx context.Context, sessionID string, index int) (string, error) {
	doc, err := s.cfg.Store.Get(ctx, sessionID)
	if errors.Is(err, store.ErrSessionNotFound) {
		doc = model.NewDocument()
	} else if err != nil {
		return "", err
	}
	return s.renderTemplate("list_main", buildListMain(doc, index))
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request, sess *session) {
	index := parseIndex(r.PathValue("id"))
	if _, err := mutate.FindList(sess.doc, index); err != nil {
		http.NotFound(w, r)
		return
	}

	ch, cancel := s.bc.subscribe(sess.id)
	defer cancel()

	sse := datastar.NewSSE(w, r)

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			html, err := s.renderListMain(sse.Context(), sess.id, index)
			if err != nil {
				s.log.Warn("render list stream", "session", sess.id, "list", index, "err", err)
				_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
				continue
			}
			_ = sse.PatchElements(html, datastar.WithSelector("#list-main"), datastar.WithMode(datastar.ElementPatchModeOuter))
		}
	}
}

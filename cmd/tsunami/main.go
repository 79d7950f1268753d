package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/grifmoney/tsunami/client"
	"github.com/grifmoney/tsunami/puzzle"
	"github.com/grifmoney/tsunami/storage"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

const cookieName = "tsunamiID"
const cookiePath = "/"

// serverSession wraps a stored session with this server's
// handler methods.
type serverSession struct {
	*storage.Session
}

// getCookie gets the session cookie, or sets a new one.  It
// returns the session ID associated with the cookie.
//
// Session IDs carry the client's protocol as a prefix, because
// Heroku-style routers send both HTTP and HTTPS traffic to the
// same server instance.  The browser treats those as separate
// sessions, so we must too: a cookie minted for one protocol
// doesn't match requests arriving over the other, and gets
// replaced.
func getCookie(w http.ResponseWriter, r *http.Request) string {
	proto := "httpx" // absent other indicators, protocol is unknown

	// Heroku-transported protocols are specified in a header
	if forwardedProto := r.Header.Get("X-Forwarded-Proto"); forwardedProto != "" {
		proto = forwardedProto
	}

	// check for an existing cookie whose value matches the protocol
	if sc, e := r.Cookie(cookieName); e == nil {
		if m, e := regexp.MatchString(proto+"-[0-9a-f-]{36}", sc.Value); e == nil && m {
			return sc.Value
		}
	}

	// no session cookie or not a valid session cookie,
	// start a new session with a new cookie
	sid := proto + "-" + uuid.New().String()
	sc := &http.Cookie{Name: cookieName, Value: sid, Path: cookiePath}
	http.SetCookie(w, sc)
	return sid
}

// sessionSelect loads the stored session named by the request's
// cookie, creating the session as needed.  Concurrent requests
// are safe: the storage layer interlocks its connections.
func sessionSelect(w http.ResponseWriter, r *http.Request) *serverSession {
	sessionID := getCookie(w, r)
	return &serverSession{storage.LoadSession(sessionID)}
}

/*

request handling

*/

// errorHandler wraps the actual handlers: the storage layer
// panics when its stores misbehave, and this is where those
// panics stop.  The client gets the error page.
func errorHandler(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Handler panic on %s %s: %v", r.Method, r.URL.Path, err)
				writeHTML(w, http.StatusInternalServerError, client.ErrorPage(fmt.Errorf("%v", err)))
			}
		}()
		handler(w, r)
	}
}

// rootHandler dispatches all the incoming requests.
func rootHandler(w http.ResponseWriter, r *http.Request) {
	if client.StaticHandler(w, r) {
		return
	}
	log.Printf("Handling %s %s...", r.Method, r.URL.Path)
	session := sessionSelect(w, r)
	switch {
	case strings.HasPrefix(r.URL.Path, "/api/"):
		session.apiHandler(w, r)
		return
	case strings.HasPrefix(r.URL.Path, "/solver/"):
		session.solverHandler(w, r)
		return
	case strings.HasPrefix(r.URL.Path, "/home/"):
		session.homeHandler(w, r)
		return
	}
	http.Redirect(w, r, "/home/", http.StatusFound)
}

func (session *serverSession) apiHandler(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == "GET" && r.URL.Path == "/api/summary":
		if e := session.Puzzle.SummaryHandler(w, r); e != nil {
			log.Printf("Failed to send summary of puzzle %q: %v", session.PID, e)
		} else {
			log.Printf("Returned summary of puzzle %q.", session.PID)
		}
	case r.Method == "GET" && r.URL.Path == "/api/solutions":
		session.solutionsHandler(w, r)
	case r.Method == "POST" && r.URL.Path == "/api/new":
		session.newHandler(w, r)
	default:
		log.Printf("%s %s unexpected; no action taken.", r.Method, r.URL.Path)
		http.NotFound(w, r)
	}
}

// solutionsHandler is the API handler for solution requests.
// Like the puzzle's own SolutionsHandler it caps the response at
// the "n" query parameter (default 1, 0 or less means all), but
// it is backed by the session's recorded solutions: a complete
// enumeration is recorded the first time one is computed, and
// later requests are served from the record.
func (session *serverSession) solutionsHandler(w http.ResponseWriter, r *http.Request) {
	max := 1
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, e := strconv.Atoi(raw)
		if e != nil {
			// let the puzzle's handler shape the complaint
			e = session.Puzzle.SolutionsHandler(w, r)
			log.Printf("Rejected solutions request for puzzle %q: %v", session.PID, e)
			return
		}
		max = n
	}

	solutions := session.StoredSolutions()
	switch {
	case solutions != nil:
		log.Printf("Serving recorded solutions of puzzle %q.", session.PID)
		if max > 0 && max < len(solutions) {
			solutions = solutions[:max]
		}
	case max <= 0:
		solutions = session.Puzzle.Solutions()
		session.RecordSolutions(solutions)
		log.Printf("Recorded %d solutions of puzzle %q.", len(solutions), session.PID)
	default:
		solutions = session.Puzzle.FirstSolutions(max)
		log.Printf("Computed %d of the solutions of puzzle %q.", len(solutions), session.PID)
	}
	if solutions == nil {
		solutions = []puzzle.Solution{}
	}
	writeJSON(w, solutions)
}

// newPuzzleRequest is the body of an add-puzzle request: a
// puzzle summary plus the name the session should know it by.
type newPuzzleRequest struct {
	puzzle.Summary
	Name string `json:"name"`
}

func (session *serverSession) newHandler(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	var req newPuzzleRequest
	if e := dec.Decode(&req); e != nil {
		http.Error(w, e.Error(), http.StatusBadRequest)
		return
	}
	info, e := session.AddPuzzle(&req.Summary, req.Name)
	if e != nil {
		http.Error(w, e.Error(), http.StatusBadRequest)
		return
	}
	log.Printf("Session %v is now on puzzle %q.", session.SID, info.Name)
	if e := session.Puzzle.SummaryHandler(w, r); e != nil {
		log.Printf("Failed to send summary of puzzle %q: %v", info.Name, e)
	}
}

func (session *serverSession) solverHandler(w http.ResponseWriter, r *http.Request) {
	if target := strings.TrimPrefix(r.URL.Path, "/solver/"); target != "" {
		session.SelectPuzzle(target)
	}
	info := session.Current()
	body := client.SolverPage(session.SID, info, session.Puzzle.Summary().Values)
	writeHTML(w, http.StatusOK, body)
}

func (session *serverSession) homeHandler(w http.ResponseWriter, r *http.Request) {
	current := session.Current()
	others := make([]*storage.PuzzleInfo, 0, len(session.Info))
	for _, info := range session.Info {
		if info.PuzzleId != current.PuzzleId {
			others = append(others, info)
		}
	}
	body := client.HomePage(session.SID, current, others)
	writeHTML(w, http.StatusOK, body)
}

// writeHTML sends a page body as an HTML response.
func writeHTML(w http.ResponseWriter, status int, body string) {
	hs := w.Header()
	hs.Add("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// writeJSON sends an object as a JSON response.  Encoding
// failures panic to the errorHandler; none of the objects we
// send can actually fail to encode.
func writeJSON(w http.ResponseWriter, obj interface{}) {
	bs, e := json.Marshal(obj)
	if e != nil {
		panic(e)
	}
	hs := w.Header()
	hs.Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(bs)
}

/*

server

*/

func main() {
	if err := client.VerifyResources(); err != nil {
		log.Fatalf("Resource verification failed: %v", err)
	}
	cacheId, databaseId, err := storage.Connect()
	if err != nil {
		log.Fatalf("Storage initialization failed: %v", err)
	}
	log.Printf("Connected to cache at %q.", cacheId)
	log.Printf("Connected to database at %q.", databaseId)

	// Heroku environment port sensing
	port := os.Getenv("PORT")
	if port == "" {
		// running locally in dev mode
		port = "localhost:8080"
	} else {
		// running as a true server
		port = ":" + port
	}

	mux := http.NewServeMux()
	mux.Handle("/", errorHandler(rootHandler))
	srv := &http.Server{Addr: port, Handler: mux}

	// drain connections on interrupt, so the storage connections
	// close cleanly
	done := make(chan struct{})
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		log.Printf("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
		close(done)
	}()

	log.Printf("Listening on %s...", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		storage.Close()
		log.Fatal("Listener failure: ", err)
	}
	<-done
	storage.Close()
	log.Printf("Server shut down.")
}

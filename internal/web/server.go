package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net"
	"net/http"
	"strconv"

	"github.com/coder/websocket"

	"github.com/peterkuimelis/lexicarcana/internal/card"
	"github.com/peterkuimelis/lexicarcana/internal/store"
)

//go:embed static
var staticFiles embed.FS

// Config wires the web UI to the crafting engine.
type Config struct {
	DecksFile string
	Synth     *card.Synthesizer
	CostCap   int
	Store     *store.Store // optional
}

// Server is the Lexica Arcana web UI server: a deck crafting workbench and a
// WebSocket bridge to a TCP match server.
type Server struct {
	cfg Config
	mux *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Synth == nil {
		return nil, fmt.Errorf("web: synthesizer is required")
	}
	s := &Server{cfg: cfg, mux: http.NewServeMux()}
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.mux.HandleFunc("GET /api/terms", s.handleTerms)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("POST /api/preview", s.handlePreview)
	s.mux.HandleFunc("GET /api/stored/{name}", s.handleStoredDeck)
	s.mux.HandleFunc("POST /api/stored/{name}/cards", s.handleAddStoredCard)
	s.mux.HandleFunc("DELETE /api/stored/{name}", s.handleDeleteStoredDeck)
	s.mux.HandleFunc("DELETE /api/stored/{name}/cards/{index}", s.handleRemoveStoredCard)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleTerms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Synth.Catalog.Infos(r.URL.Query().Get("category")))
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := fileDecks(s.cfg.DecksFile, s.cfg.Synth, s.cfg.CostCap)
	if err != nil {
		http.Error(w, "could not read decks file", http.StatusInternalServerError)
		return
	}
	resp := struct {
		File   []DeckInfo          `json:"file"`
		Stored []store.DeckSummary `json:"stored"`
	}{File: decks, Stored: []store.DeckSummary{}}

	if s.cfg.Store != nil {
		stored, err := s.cfg.Store.ListDecks(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		resp.Stored = stored
	}
	writeJSON(w, http.StatusOK, resp)
}

// craftRequest is a crafting list posted by the workbench.
type craftRequest struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Terms string `json:"terms"`
}

func (s *Server) craft(r *http.Request) (*card.Card, error) {
	var req craftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	kind, err := card.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}
	items, err := card.ParseItems(req.Terms)
	if err != nil {
		return nil, err
	}
	name := req.Name
	if name == "" {
		name = card.ResolveName(r.Context(), card.TermNamer{Catalog: s.cfg.Synth.Catalog}, items, "Untitled")
	}
	return s.cfg.Synth.Preview(items, name, kind)
}

// handlePreview synthesizes a crafting list without saving it. An empty list
// previews as null.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	c, err := s.craft(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if c == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, c.Info())
}

func (s *Server) storedInfo(d *card.Deck) StoredDeckInfo {
	info := StoredDeckInfo{Name: d.Name, Cards: []card.Info{}, TotalCost: d.TotalCost()}
	for _, c := range d.Cards() {
		info.Cards = append(info.Cards, c.Info())
	}
	return info
}

func (s *Server) handleStoredDeck(w http.ResponseWriter, r *http.Request) {
	d, err := s.cfg.Store.LoadDeck(r.Context(), r.PathValue("name"), s.cfg.Synth, s.cfg.CostCap)
	if err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.storedInfo(d))
}

// handleAddStoredCard crafts a card and appends it to a stored deck, creating
// the deck on first use.
func (s *Server) handleAddStoredCard(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	c, err := s.craft(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if c == nil {
		writeError(w, http.StatusUnprocessableEntity, card.ErrEmptyTermSet)
		return
	}

	d, err := s.cfg.Store.LoadDeck(r.Context(), name, s.cfg.Synth, s.cfg.CostCap)
	if errors.Is(err, store.ErrNotFound) {
		d, err = card.NewDeck(name, s.cfg.CostCap), nil
	}
	if err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	if err := d.Add(c); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if err := s.cfg.Store.SaveDeck(r.Context(), d); err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.storedInfo(d))
}

// handleRemoveStoredCard drops the card at a 0-based index from a stored deck.
func (s *Server) handleRemoveStoredCard(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid card index %q", r.PathValue("index")))
		return
	}
	d, err := s.cfg.Store.LoadDeck(r.Context(), r.PathValue("name"), s.cfg.Synth, s.cfg.CostCap)
	if err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	if _, err := d.Remove(index); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err := s.cfg.Store.SaveDeck(r.Context(), d); err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.storedInfo(d))
}

func (s *Server) handleDeleteStoredDeck(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Store.DeleteDeck(r.Context(), r.PathValue("name")); err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func storeStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	// Read initial connect message from browser
	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		log.Printf("WebSocket read connect: %v", err)
		return
	}

	var connectMsg struct {
		Type       string `json:"type"`
		Addr       string `json:"addr"`
		DeckNumber int    `json:"deck_number"`
	}
	if err := json.Unmarshal(connectData, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}

	var d net.Dialer
	tcpConn, err := d.DialContext(ctx, "tcp", connectMsg.Addr)
	if err != nil {
		errMsg, _ := json.Marshal(map[string]string{
			"type":   "error",
			"result": fmt.Sprintf("Could not connect to match server at %s: %v", connectMsg.Addr, err),
		})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	joinMsg, _ := json.Marshal(map[string]any{
		"type":        "join",
		"deck_number": connectMsg.DeckNumber,
	})
	joinMsg = append(joinMsg, '\n')
	if _, err := tcpConn.Write(joinMsg); err != nil {
		log.Printf("TCP write join: %v", err)
		return
	}

	done := make(chan struct{})

	// TCP → WebSocket (server messages to browser)
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if err != io.EOF {
					log.Printf("TCP read error: %v", err)
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}
		}
	}()

	// WebSocket → TCP (browser intents to server)
	go func() {
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				log.Printf("TCP write error: %v", err)
				return
			}
		}
	}()

	<-done
	wsConn.Close(websocket.StatusNormalClosure, "match ended")
}

// ListenAndServe starts the HTTP server and shuts it down when ctx ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
	"github.com/musee-dezental/frame-core/internal/entity"
	"github.com/musee-dezental/frame-core/internal/exhibit"
	"github.com/musee-dezental/frame-core/internal/inventory"
	"github.com/musee-dezental/frame-core/internal/metadata"
	"github.com/musee-dezental/frame-core/internal/rental"
	"github.com/musee-dezental/frame-core/internal/store"
	"github.com/musee-dezental/frame-core/internal/treasury"
	"github.com/musee-dezental/frame-core/pkg/frame"
	"go.uber.org/zap"
)

// Server exposes the read surface of the core. All mutations go through
// the CLI or the minting pipeline, never HTTP.
type Server struct {
	badger    *store.Badger
	frames    store.FrameRepository
	inventory inventory.Service
	rental    rental.Market
	exhibits  exhibit.Registry
	metadata  metadata.Service
	treasury  treasury.Service
}

func NewServer(
	badger *store.Badger,
	frames store.FrameRepository,
	inventory inventory.Service,
	rental rental.Market,
	exhibits exhibit.Registry,
	metadata metadata.Service,
	treasury treasury.Service,
) Server {
	return Server{badger, frames, inventory, rental, exhibits, metadata, treasury}
}

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleHomepage).Methods("GET")
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/version", s.handleVersion).Methods("GET")
	r.HandleFunc("/categories", s.handleGetCategories).Methods("GET")
	r.HandleFunc("/category/{index}", s.handleGetCategory).Methods("GET")
	r.HandleFunc("/frame/{tokenId}", s.handleGetFrame).Methods("GET")
	r.HandleFunc("/frame/{tokenId}/renter", s.handleGetRenter).Methods("GET")
	r.HandleFunc("/frame/{tokenId}/exhibit", s.handleGetExhibit).Methods("GET")
	r.HandleFunc("/frame/{tokenId}/exhibit/tokenuri", s.handleGetExhibitTokenUri).Methods("GET")
	r.HandleFunc("/frame/{tokenId}/exhibit/metadata", s.handleGetExhibitMetadata).Methods("GET")
	r.HandleFunc("/treasury", s.handleGetTreasury).Methods("GET")
	r.NotFoundHandler = notFoundHandler()

	return r
}

func (s Server) handleHomepage(w http.ResponseWriter, r *http.Request) {
	_, _ = fmt.Fprintf(w, "Frame Gallery Core")
}

func (s Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func (s Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, frame.Version)
}

func (s Server) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.inventory.GetAllCategories()
	if err != nil {
		http.Error(w, "Categories not available", http.StatusInternalServerError)
		return
	}

	writeJSON(w, categories)
}

func (s Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.ParseUint(mux.Vars(r)["index"], 10, 8)
	if err != nil {
		http.Error(w, "Invalid category index", http.StatusBadRequest)
		return
	}

	c, err := s.inventory.GetCategoryDetail(uint8(index))
	if err != nil {
		if errors.Is(err, inventory.ErrInvalidCategory) {
			http.Error(w, "Invalid category index", http.StatusBadRequest)
			return
		}
		http.Error(w, "Category not available", http.StatusNotFound)
		return
	}

	writeJSON(w, c)
}

func (s Server) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	f, err := s.getFrame(r)
	if err != nil {
		http.Error(w, "Frame not available", http.StatusNotFound)
		return
	}

	writeJSON(w, f)
}

func (s Server) handleGetRenter(w http.ResponseWriter, r *http.Request) {
	tokenId, err := getTokenId(r)
	if err != nil {
		http.Error(w, "Invalid token id", http.StatusBadRequest)
		return
	}

	rented, err := s.rental.IsCurrentlyRented(tokenId)
	if err != nil {
		http.Error(w, "Frame not available", http.StatusNotFound)
		return
	}

	renter, err := s.rental.GetRenter(tokenId)
	if err != nil {
		http.Error(w, "Frame not available", http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]interface{}{
		"rented": rented,
		"renter": renter,
	})
}

func (s Server) handleGetExhibit(w http.ResponseWriter, r *http.Request) {
	tokenId, err := getTokenId(r)
	if err != nil {
		http.Error(w, "Invalid token id", http.StatusBadRequest)
		return
	}

	e, err := s.exhibits.GetExhibit(tokenId)
	if err != nil {
		http.Error(w, "Frame not available", http.StatusNotFound)
		return
	}

	writeJSON(w, e)
}

func (s Server) handleGetExhibitTokenUri(w http.ResponseWriter, r *http.Request) {
	tokenId, err := getTokenId(r)
	if err != nil {
		http.Error(w, "Invalid token id", http.StatusBadRequest)
		return
	}

	uri, err := s.exhibits.GetExhibitTokenURI(tokenId)
	if err != nil {
		zap.L().With(zap.Error(err), zap.Uint64("tokenId", tokenId)).Warn("Api: Exhibit uri not available")
		http.Error(w, "Exhibit not available", http.StatusNotFound)
		return
	}

	_, _ = fmt.Fprint(w, uri)
}

func (s Server) handleGetExhibitMetadata(w http.ResponseWriter, r *http.Request) {
	tokenId, err := getTokenId(r)
	if err != nil {
		http.Error(w, "Invalid token id", http.StatusBadRequest)
		return
	}

	uri, err := s.exhibits.GetExhibitTokenURI(tokenId)
	if err != nil || uri == "" {
		http.Error(w, "Exhibit not available", http.StatusNotFound)
		return
	}

	md, err := s.metadata.FetchMetadata(uri)
	if err != nil {
		zap.L().With(zap.Error(err), zap.Uint64("tokenId", tokenId)).Warn("Api: Exhibit metadata not available")
		http.Error(w, "Exhibit metadata not available", http.StatusNotFound)
		return
	}

	writeJSON(w, md)
}

func (s Server) handleGetTreasury(w http.ResponseWriter, r *http.Request) {
	t, err := s.treasury.Balances()
	if err != nil {
		http.Error(w, "Treasury not available", http.StatusInternalServerError)
		return
	}

	writeJSON(w, t)
}

func (s Server) getFrame(r *http.Request) (entity.Frame, error) {
	tokenId, err := getTokenId(r)
	if err != nil {
		return entity.Frame{}, err
	}

	var f entity.Frame
	err = s.badger.View(func(txn *badger.Txn) error {
		var err error
		f, err = s.frames.GetFrame(txn, tokenId)
		return err
	})

	return f, err
}

func getTokenId(r *http.Request) (uint64, error) {
	tokenId, ok := mux.Vars(r)["tokenId"]
	if !ok {
		return 0, errors.New("invalid parameters")
	}

	return strconv.ParseUint(tokenId, 10, 64)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().With(zap.Error(err)).Error("Api: Failed to encode response")
	}
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		_, _ = fmt.Fprintf(w, "Page not found")
	})
}

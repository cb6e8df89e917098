package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/ga4gh/compliance-harness/apimodel"
	"github.com/ga4gh/compliance-harness/framework"

	"github.com/gorilla/mux"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

const defaultPageSize = 100

// Error codes in the GA4GH error objects returned by the mock.
const (
	ErrorCodeInvalidRequest   = 1
	ErrorCodeNotFound         = 2
	ErrorCodeInvalidPageToken = 3
	ErrorCodeInvalidRange     = 4
)

// Service is an http.Handler implementing one version of the API over a Dataset. Page tokens are
// offsets into the filtered result list, encoded as strings.
type Service struct {
	version     string
	data        Dataset
	handler     http.Handler
	debugLogger framework.Logger
	lock        sync.RWMutex
}

// NewService creates a Service for an API version such as "v0.5". The endpoints are served at the
// root of the handler; mount it under a version prefix with http.StripPrefix if desired.
func NewService(version string, data Dataset, debugLogger framework.Logger) (*Service, error) {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	s := &Service{
		version:     version,
		data:        data,
		debugLogger: debugLogger,
	}

	router := mux.NewRouter()
	switch version {
	case apimodel.V05:
		router.HandleFunc(apimodel.PathReferenceSetsSearch, s.searchReferenceSets).Methods("POST")
		router.HandleFunc("/referencesets/{id}", s.getReferenceSet).Methods("GET")
		router.HandleFunc(apimodel.PathReferencesSearch, s.searchReferences).Methods("POST")
		router.HandleFunc("/references/{id}", s.getReference).Methods("GET")
		router.HandleFunc("/references/{id}/bases", s.getReferenceBases).Methods("GET")
		router.HandleFunc(apimodel.PathReadGroupSetsSearch, s.searchReadGroupSets).Methods("POST")
		router.HandleFunc(apimodel.PathReadsSearch, s.searchReads).Methods("POST")
		router.HandleFunc(apimodel.PathVariantSetsSearch, s.searchVariantSets).Methods("POST")
		router.HandleFunc(apimodel.PathVariantsSearch, s.searchVariants).Methods("POST")
		router.HandleFunc(apimodel.PathCallSetsSearch, s.searchCallSets).Methods("POST")
	case apimodel.V01:
		router.HandleFunc(apimodel.PathReadsetsSearch, s.searchReadsets).Methods("POST")
		router.HandleFunc(apimodel.PathReadsSearch, s.searchReadsV01).Methods("POST")
	default:
		return nil, fmt.Errorf("mock API does not support version %q", version)
	}
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "no such endpoint: "+r.URL.Path)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeInvalidRequest,
			fmt.Sprintf("method %s is not allowed for %s", r.Method, r.URL.Path))
	})
	s.handler = router

	return s, nil
}

// Version returns the API version that the Service implements.
func (s *Service) Version() string {
	return s.version
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.debugLogger.Printf("Mock API received %s %s", r.Method, r.URL)
	s.handler.ServeHTTP(w, r)
}

// SetData replaces the dataset being served.
func (s *Service) SetData(data Dataset) {
	s.lock.Lock()
	s.data = data
	s.lock.Unlock()
}

func (s *Service) snapshot() Dataset {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.data
}

// decodeRequest parses a JSON request body, responding with an error if that is not possible.
func decodeRequest(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// writePage responds with one page of a search result.
func writePage(w http.ResponseWriter, collection string, items []ldvalue.Value, paging apimodel.Paging) {
	start := 0
	if paging.PageToken != "" {
		n, err := strconv.Atoi(paging.PageToken)
		if err != nil || n < 0 || n > len(items) {
			writeError(w, http.StatusBadRequest, ErrorCodeInvalidPageToken, "invalid page token: "+paging.PageToken)
			return
		}
		start = n
	}
	if paging.PageSize < 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "pageSize cannot be negative")
		return
	}
	size := paging.PageSize
	if size == 0 {
		size = defaultPageSize
	}
	end := min(start+size, len(items))
	next := ldvalue.Null()
	if end < len(items) {
		next = ldvalue.String(strconv.Itoa(end))
	}
	writeJSON(w, http.StatusOK, ldvalue.ObjectBuild().
		Set(collection, ldvalue.ArrayOf(items[start:end]...)).
		Set(apimodel.NextPageTokenProperty, next).
		Build())
}

func writeJSON(w http.ResponseWriter, status int, value ldvalue.Value) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(value.JSONString()))
}

// writeError responds with a GA4GH error object.
func writeError(w http.ResponseWriter, status int, errorCode int, message string) {
	writeJSON(w, status, ldvalue.ObjectBuild().
		Set("errorCode", ldvalue.Int(errorCode)).
		Set("message", ldvalue.String(message)).
		Build())
}

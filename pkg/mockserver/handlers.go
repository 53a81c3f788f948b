package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/langconv/langconv/pkg/httputil"
	"github.com/langconv/langconv/pkg/requestlog"
	"github.com/langconv/langconv/pkg/stateful"
)

// maxBodySize caps request bodies accepted by the collection handlers.
const maxBodySize = 1 << 20

type collectionKey struct{}

func collectionFrom(ctx context.Context) *stateful.Collection {
	c, _ := ctx.Value(collectionKey{}).(*stateful.Collection)
	return c
}

func (s *Server) resolveCollection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "collection")
		c := s.store.Get(name)
		if c == nil {
			httputil.WriteErr(w, &stateful.NotFoundError{Collection: name})
			return
		}
		ctx := context.WithValue(r.Context(), collectionKey{}, c)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	c := collectionFrom(r.Context())
	items := c.Filter(stateful.QueryFromValues(r.URL.Query()))
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, item.ToJSON())
	}
	httputil.WriteOK(w, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	c := collectionFrom(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item := c.Get(id)
	if item == nil {
		httputil.WriteErr(w, &stateful.NotFoundError{Collection: c.Name(), ID: id})
		return
	}
	httputil.WriteOK(w, item.ToJSON())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	c := collectionFrom(r.Context())
	data, err := decodeRecord(r)
	if err != nil {
		httputil.WriteBadRequest(w, "invalid_json", err.Error())
		return
	}
	item, err := c.Create(data)
	if err != nil {
		httputil.WriteErr(w, err)
		return
	}
	s.logger.Debug("record created", "collection", c.Name(), "id", item.ID)
	httputil.WriteCreated(w, item.ToJSON())
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	c := collectionFrom(r.Context())
	data, err := decodeRecord(r)
	if err != nil {
		httputil.WriteBadRequest(w, "invalid_json", err.Error())
		return
	}

	if chi.URLParam(r, "id") != "" {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if raw, present := data["id"]; !present || raw == nil {
			data["id"] = id
		} else if bodyID, err := strconv.Atoi(fmt.Sprint(raw)); err != nil || bodyID != id {
			httputil.WriteBadRequest(w, "id_mismatch", fmt.Sprintf("body id %v does not match path id %d", raw, id))
			return
		}
	}

	item, err := c.Update(data)
	if err != nil {
		httputil.WriteErr(w, err)
		return
	}
	s.logger.Debug("record updated", "collection", c.Name(), "id", item.ID)
	httputil.WriteNoContent(w)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	c := collectionFrom(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	removed, err := c.Delete(id)
	if err != nil {
		httputil.WriteErr(w, err)
		return
	}
	s.logger.Debug("record deleted", "collection", c.Name(), "id", id)
	httputil.WriteOK(w, removed.ToJSON())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	resp, err := s.store.Reset(chi.URLParam(r, "collection"))
	if err != nil {
		httputil.WriteErr(w, err)
		return
	}
	s.logger.Info("state reset", "collections", resp.Collections)
	httputil.WriteOK(w, resp)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, s.store.Overview())
}

func (s *Server) handleListFaults(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, s.faults.All())
}

func (s *Server) handleSetFault(w http.ResponseWriter, r *http.Request) {
	var fault FaultConfig
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&fault); err != nil {
		httputil.WriteBadRequest(w, "invalid_json", err.Error())
		return
	}
	if fault.StatusCode < 100 || fault.StatusCode > 599 {
		httputil.WriteBadRequest(w, "invalid_fault", fmt.Sprintf("statusCode %d is not a valid HTTP status", fault.StatusCode))
		return
	}
	s.faults.Set(fault)
	s.logger.Info("fault injected", "path", fault.Path, "status", fault.StatusCode)
	httputil.WriteNoContent(w)
}

func (s *Server) handleClearFaults(w http.ResponseWriter, r *http.Request) {
	if path := r.URL.Query().Get("path"); path != "" {
		if !s.faults.Remove(path) {
			httputil.WriteNotFound(w, "not_found", "no fault for "+path)
			return
		}
	} else {
		s.faults.Reset()
	}
	httputil.WriteNoContent(w)
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &requestlog.Filter{
		Method:     q.Get("method"),
		Path:       q.Get("path"),
		Collection: q.Get("collection"),
		RequestID:  q.Get("requestId"),
	}
	for key, dst := range map[string]*int{"status": &filter.StatusCode, "limit": &filter.Limit, "offset": &filter.Offset} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteBadRequest(w, "invalid_"+key, fmt.Sprintf("%s %q must be a non-negative integer", key, raw))
			return
		}
		*dst = n
	}
	httputil.WriteOK(w, s.requests.List(filter))
}

func (s *Server) handleClearRequests(w http.ResponseWriter, _ *http.Request) {
	s.requests.Clear()
	httputil.WriteNoContent(w)
}

// pathID parses the {id} URL parameter, writing a 400 when it is not an integer.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		httputil.WriteBadRequest(w, "invalid_id", fmt.Sprintf("id %q is not an integer", raw))
		return 0, false
	}
	return id, true
}

// decodeRecord reads a JSON object, keeping numbers as json.Number.
func decodeRecord(r *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("request body is empty")
		}
		return nil, fmt.Errorf("request body is not a JSON object: %w", err)
	}
	if data == nil {
		return nil, errors.New("request body is not a JSON object")
	}
	return data, nil
}

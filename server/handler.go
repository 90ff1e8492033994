package server

import (
	"io"
	"net/http"
	"time"

	"github.com/renkon/renkon/codec"
	"github.com/renkon/renkon/endpoint"
	"github.com/renkon/renkon/middleware"
	"github.com/renkon/renkon/pkg/util"
	"github.com/renkon/renkon/renkonerr"
	"github.com/renkon/renkon/request"
)

// codecFor selects the wire codec for a content type: the protobuf family
// always uses the protobuf codec; "json" uses whatever codec the server
// was configured with (request.Codec is pluggable for exactly this case).
func (s *Server) codecFor(ct request.ContentType) request.Codec {
	switch ct {
	case request.ContentTypeProtobufGRPC, request.ContentTypeProtobufGRPCWeb, request.ContentTypeProtobufGRPCWebText:
		return codec.Protobuf{}
	default:
		return s.codec
	}
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	matcher, ok := s.matchers[r.Method]
	if !ok {
		http.NotFound(w, r)
		return
	}
	result, ok := matcher.Parse(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	ep := result.Producer

	ct := ep.RequestContentType
	if header := r.Header.Get("Content-Type"); header != "" {
		resolved, ok := request.Resolve(header)
		if !ok || resolved != ep.RequestContentType {
			s.writeError(w, renkonerr.UnsupportedMediaTypeErr(header))
			return
		}
		ct = resolved
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, renkonerr.CodecErr(http.StatusBadRequest, "could not read request body: %v", err))
		return
	}

	body, err := s.codecFor(ep.RequestContentType).Decode(raw)
	if err != nil {
		s.writeError(w, renkonerr.CodecErr(http.StatusBadRequest, "could not decode request body: %v", err))
		return
	}
	s.log.Debug("request received", "method", r.Method, "path", r.URL.Path, "body", util.TruncateBody(string(raw), 0))

	sc, ok := middleware.ScenarioFrom(r.Context())
	if !ok {
		// The scenario middleware always attaches one or rejects the
		// request before this handler runs.
		s.writeError(w, renkonerr.ScenarioHeaderMissingErr(middleware.ScenarioHeader))
		return
	}
	sessionID, _ := middleware.SessionFrom(r.Context())

	if sc.Options.DelayAllRequests != nil {
		select {
		case <-time.After(*sc.Options.DelayAllRequests):
		case <-r.Context().Done():
			return
		}
	}

	req := request.Request{
		Method:      r.Method,
		Path:        r.URL.Path,
		Header:      r.Header,
		Query:       r.URL.Query(),
		ContentType: ct,
		Body:        body,
		Raw:         raw,
		Params:      result.Params,
	}
	rc := request.Context{
		EndpointID: ep.ID,
		ScenarioID: sc.ID,
		SessionID:  sessionID,
		Logger:     s.log,
		Options:    sc.Options.CustomOptions,
	}

	responder, ok := s.responders[ep.ID.String()]
	if !ok {
		s.writeError(w, renkonerr.EndpointNotInScenarioErr(ep.ID.String(), sc.ID.String()))
		return
	}

	resp, err := responder.Respond(r.Context(), req, rc, sc, sessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Debug("response dispatched", "method", r.Method, "path", r.URL.Path, "status", resp.Status)

	s.writeResponse(w, ep, resp)
}

func (s *Server) writeResponse(w http.ResponseWriter, ep *endpoint.Endpoint, resp request.Response) {
	ct := resp.ContentType
	if ct == "" {
		ct = ep.ResponseContentType
	}

	body, err := s.codecFor(ct).Encode(resp.Content)
	if err != nil {
		s.writeError(w, renkonerr.CodecErr(http.StatusInternalServerError, "could not encode response body: %v", err))
		return
	}

	header := w.Header()
	for k, vs := range resp.Headers {
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	header.Set("Content-Type", request.Canonical(ct))

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

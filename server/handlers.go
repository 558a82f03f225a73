package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rustyeddy/banca/ledger"
	"github.com/rustyeddy/banca/report"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type kpiResponse struct {
	KPIs  ledger.KPISnapshot `json:"kpis"`
	Lines []report.Line      `json:"lines"`
}

type operationsResponse struct {
	Operations []ledger.Operation `json:"operations"`
	Count      int                `json:"count"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) kpis(w http.ResponseWriter, r *http.Request) {
	snap := s.book.KPIs(s.Now())
	s.writeJSON(w, http.StatusOK, kpiResponse{KPIs: snap, Lines: s.renderer.Lines(snap)})
}

// listOperations returns the log oldest first. ?month=YYYY-MM narrows it to
// one calendar month in the server's local zone.
func (s *Server) listOperations(w http.ResponseWriter, r *http.Request) {
	ops := s.book.State().Operations

	if m := r.URL.Query().Get("month"); m != "" {
		start, err := time.ParseInLocation("2006-01", m, s.Now().Location())
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "month must be YYYY-MM", Field: "month"})
			return
		}
		end := start.AddDate(0, 1, 0)
		var in []ledger.Operation
		for _, op := range ops {
			if !op.CreatedAt.Before(start) && op.CreatedAt.Before(end) {
				in = append(in, op)
			}
		}
		ops = in
	}
	if ops == nil {
		ops = []ledger.Operation{}
	}
	s.writeJSON(w, http.StatusOK, operationsResponse{Operations: ops, Count: len(ops)})
}

// numberOrString accepts a JSON number or string and keeps its text, so
// amounts keep full precision and malformed strings reach validation.
type numberOrString string

func (n *numberOrString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = numberOrString(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = numberOrString(num)
	return nil
}

type operationRequest struct {
	Amount        numberOrString `json:"amount"`
	Result        string         `json:"result"`
	PayoutPercent numberOrString `json:"payoutPercent"`
	Strategy      string         `json:"strategy"`
	Description   string         `json:"description"`
}

func (req operationRequest) input() ledger.OperationInput {
	return ledger.OperationInput{
		Amount:        string(req.Amount),
		Result:        req.Result,
		PayoutPercent: string(req.PayoutPercent),
		Strategy:      req.Strategy,
		Description:   req.Description,
	}
}

func (s *Server) createOperation(w http.ResponseWriter, r *http.Request) {
	var req operationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	rc, err := s.book.Record(r.Context(), req.input(), s.Now())
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Message, Field: verr.Field})
		return
	case err != nil:
		s.log.Error("record operation", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not save operation"})
		return
	}
	s.writeJSON(w, http.StatusCreated, rc)
}

// assess reports the risk rules a stake of ?amount= would break.
func (s *Server) assess(w http.ResponseWriter, r *http.Request) {
	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil || !amount.IsPositive() {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "amount must be a positive number", Field: "amount"})
		return
	}
	s.writeJSON(w, http.StatusOK, s.book.Assess(amount, s.Now()))
}

func (s *Server) strategies(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.book.Breakdown())
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
}

package http

import (
	"encoding/json"
	"errors"
	"go-clipboard-converter/detect"
	"go-clipboard-converter/domain"
	"go-clipboard-converter/exchange"
	"go-clipboard-converter/monitor"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server dependencies for HTTP Server functions
type Server struct {
	Service   exchange.Service
	Rates     monitor.RateReader
	Reference domain.Reference
	Hub       *Hub
	Gatherer  prometheus.Gatherer
	router    chi.Router
}

func NewServer(s exchange.Service, rates monitor.RateReader, reference domain.Reference, hub *Hub, g prometheus.Gatherer) *Server {
	server := &Server{
		Service:   s,
		Rates:     rates,
		Reference: reference,
		Hub:       hub,
		Gatherer:  g,
		router:    chi.NewRouter(),
	}
	server.routes()
	return server
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Post("/api/convert", s.convert())
	s.router.Get("/api/rates", s.rates())
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	s.router.Get("/ws", s.Hub.ServeHTTP)
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

// convert produces HTTP handler converting the first amount found in posted text
func (s *Server) convert() http.HandlerFunc {

	// request for unmarshalling JSON requests posted by clients
	type request struct {
		Text string `json:"text"`
	}

	// response for marshalling JSON responses to return to clients
	type response struct {
		Original       string          `json:"original"`
		Converted      string          `json:"converted"`
		Value          float64         `json:"value"`
		Currency       domain.Currency `json:"currency"`
		Defaulted      bool            `json:"defaulted"`
		ConvertedValue float64         `json:"converted_value"`
		Rate           domain.Rate     `json:"rate"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		rw.Header().Set("Content-Type", "application/json")

		bytes, err := io.ReadAll(r.Body)
		if err != nil {
			rw.WriteHeader(http.StatusBadRequest)
			rw.Write([]byte(`{"error": "invalid request"}`))
			return
		}

		var request request
		err = json.Unmarshal(bytes, &request)
		if err != nil {
			rw.WriteHeader(http.StatusBadRequest)
			rw.Write([]byte(`{"error": "invalid json"}`))
			return
		}

		result, err := exchange.ConvertText(s.Service, request.Text, s.Rates.Current())
		if errors.Is(err, detect.ErrNoAmount) {
			rw.WriteHeader(http.StatusUnprocessableEntity)
			rw.Write([]byte(`{"error": "no amount detected"}`))
			return
		}
		if err != nil {
			rw.WriteHeader(http.StatusInternalServerError)
			rw.Write([]byte(`{"error": "failed conversion"}`))
			return
		}

		response := response{
			Original:       result.OriginalText,
			Converted:      result.ConvertedText,
			Value:          result.Amount.Value,
			Currency:       result.Amount.Currency,
			Defaulted:      result.Amount.Defaulted,
			ConvertedValue: result.ConvertedValue,
			Rate:           result.Rate,
		}

		enc := json.NewEncoder(rw)
		err = enc.Encode(&response)
		if err != nil {
			rw.WriteHeader(http.StatusInternalServerError)
			rw.Write([]byte(`{"error": "failed json encoding"}`))
			return
		}
	}
}

// rates produces HTTP handler returning the rate table in effect
func (s *Server) rates() http.HandlerFunc {

	type response struct {
		Base  domain.Currency `json:"base"`
		Rates domain.Rates    `json:"rates"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")

		enc := json.NewEncoder(rw)
		err := enc.Encode(&response{Base: s.Reference.Code, Rates: s.Rates.Current()})
		if err != nil {
			rw.WriteHeader(http.StatusInternalServerError)
			rw.Write([]byte(`{"error": "failed json encoding"}`))
			return
		}
	}
}
